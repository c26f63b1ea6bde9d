/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jnadelneuro/apple-music-history/internal/analysis"
)

var topAlbumsNumber int
var topAlbumsCmd = &cobra.Command{
	Use:   "top-albums [year]",
	Short: "Gets the top albums by listening time",
	Long:  `Covers the whole history, or one year like '2023' if given.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := printTopAlbums(loadConfigFromFlags(), topAlbumsNumber, args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topAlbumsCmd)

	topAlbumsCmd.Flags().IntVarP(&topAlbumsNumber, "number", "n", 10, "number of results to return")
}

func printTopAlbums(config LoadConfig, numToReturn int, args []string) error {
	analyzer := &TopAlbumsAnalyzer{Config: AnalyserConfig{numToReturn, 0}}
	if len(args) > 0 {
		year, err := parseYear(args[0])
		if err != nil {
			return err
		}
		analyzer.Year = year
	}
	return runAnalyser(os.Stdout, config, analyzer)
}

type TopAlbumsAnalyzer struct {
	Config AnalyserConfig
	Year   string
}

func (t *TopAlbumsAnalyzer) Configure(params map[string]string) error {
	if err := t.Config.Configure(params); err != nil {
		return err
	}
	if val, ok := params["year"]; ok {
		year, err := parseYear(val)
		if err != nil {
			return fmt.Errorf("invalid value for 'year': %v", err)
		}
		t.Year = year
	}
	return nil
}

func (t *TopAlbumsAnalyzer) GetName() string {
	if t.Year != "" {
		return "Top albums of " + t.Year
	}
	return "Top albums"
}

func (t *TopAlbumsAnalyzer) GetResults(p Period) (a Analysis, err error) {
	albums := p.Current.Albums
	if t.Year != "" {
		albums, _ = analysis.Find(p.Current.YearAlbums, t.Year)
	}

	var numPlays int64
	a.results = [][]string{{"Album", "Artist", "Plays", "Hours"}}
	for i, album := range albums {
		if t.Config.keep(i+1, album.Value.Plays) {
			a.results = append(a.results, []string{album.Value.Name, album.Value.Artist, formatPlays(album.Value.Plays), formatHours(album.Value.Time)})
		}
		numPlays += album.Value.Plays
	}

	a.summary = fmt.Sprintf("Found %d albums and %d plays, %s\n", len(albums), numPlays, p.describe())
	return
}
