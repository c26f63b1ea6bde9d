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

var newAlbumsNumber int
var newAlbumsCmd = &cobra.Command{
	Use:   "new-albums [from] [to (optional)]",
	Short: "Gets new albums for the given time period",
	Long:  `Uses the specified date or date range. Date strings look like 'yyyy', 'yyyy-mm', 'yyyy-mm-dd', or '90d'.`,
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		err := printNewAlbums(loadConfigFromFlags(), newAlbumsNumber, args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(newAlbumsCmd)

	newAlbumsCmd.Flags().IntVarP(&newAlbumsNumber, "number", "n", 0, "number of results to return")
}

func printNewAlbums(config LoadConfig, numToReturn int, args []string) error {
	start, end, err := parseDateRangeFromArgs(args)
	if err != nil {
		return err
	}
	config.Start, config.End = start, end

	return runAnalyser(os.Stdout, config, &NewAlbumsAnalyzer{Config: AnalyserConfig{numToReturn, 0}})
}

type NewAlbumsAnalyzer struct {
	Config AnalyserConfig
}

func (t *NewAlbumsAnalyzer) Configure(params map[string]string) error {
	return t.Config.Configure(params)
}

func (t *NewAlbumsAnalyzer) GetName() string {
	return "New albums"
}

func (t *NewAlbumsAnalyzer) GetResults(p Period) (a Analysis, err error) {
	albums := analysis.NewAlbums(p.Before, p.Current, newMaxBefore, newMinCurrent)

	a.results = append(a.results, []string{"Album", "Artist", "Plays"})
	var numPlays int64
	for i, album := range albums {
		if t.Config.keep(i+1, album.Value.Plays) {
			a.results = append(a.results, []string{album.Value.Name, album.Value.Artist, formatPlays(album.Value.Plays)})
		}
		numPlays += album.Value.Plays
	}
	a.summary = fmt.Sprintf("Found %d new albums with %d plays, %s\n", len(albums), numPlays, p.describe())
	return
}
