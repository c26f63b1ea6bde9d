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

var topArtistsNumber int
var topArtistsCmd = &cobra.Command{
	Use:   "top-artists [year]",
	Short: "Gets the top artists by listening time",
	Long:  `Covers the whole history, or one year like '2023' if given.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := printTopArtists(loadConfigFromFlags(), topArtistsNumber, args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topArtistsCmd)

	topArtistsCmd.Flags().IntVarP(&topArtistsNumber, "number", "n", 10, "number of results to return")
}

func printTopArtists(config LoadConfig, numToReturn int, args []string) error {
	analyzer := &TopArtistsAnalyzer{Config: AnalyserConfig{numToReturn, 0}}
	if len(args) > 0 {
		year, err := parseYear(args[0])
		if err != nil {
			return err
		}
		analyzer.Year = year
	}
	return runAnalyser(os.Stdout, config, analyzer)
}

type TopArtistsAnalyzer struct {
	Config AnalyserConfig

	// Year limits results to one calendar year, if set.
	Year string
}

func (t *TopArtistsAnalyzer) Configure(params map[string]string) error {
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

func (t *TopArtistsAnalyzer) GetName() string {
	if t.Year != "" {
		return "Top artists of " + t.Year
	}
	return "Top artists"
}

func (t *TopArtistsAnalyzer) GetResults(p Period) (a Analysis, err error) {
	artists := p.Current.Artists
	if t.Year != "" {
		artists, _ = analysis.Find(p.Current.YearArtists, t.Year)
	}

	var numPlays int64
	a.results = [][]string{{"Artist", "Plays", "Hours"}}
	for i, artist := range artists {
		if t.Config.keep(i+1, artist.Value.Plays) {
			a.results = append(a.results, []string{artist.Key, formatPlays(artist.Value.Plays), formatHours(artist.Value.Time)})
		}
		numPlays += artist.Value.Plays
	}

	a.summary = fmt.Sprintf("Found %d artists and %d plays, %s\n", len(artists), numPlays, p.describe())
	return
}
