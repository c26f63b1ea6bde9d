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

// An artist or album is new if it had fewer than newMaxBefore plays before
// the period and more than newMinCurrent during it.
const (
	newMaxBefore  = 5
	newMinCurrent = 5
)

var newArtistsNumber int
var newArtistsCmd = &cobra.Command{
	Use:   "new-artists [from] [to (optional)]",
	Short: "Gets new artists for the given time period",
	Long:  `Uses the specified date or date range. Date strings look like 'yyyy', 'yyyy-mm', 'yyyy-mm-dd', or '90d'.`,
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		err := printNewArtists(loadConfigFromFlags(), newArtistsNumber, args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(newArtistsCmd)

	newArtistsCmd.Flags().IntVarP(&newArtistsNumber, "number", "n", 0, "number of results to return")
}

func printNewArtists(config LoadConfig, numToReturn int, args []string) error {
	start, end, err := parseDateRangeFromArgs(args)
	if err != nil {
		return err
	}
	config.Start, config.End = start, end

	return runAnalyser(os.Stdout, config, &NewArtistsAnalyzer{Config: AnalyserConfig{numToReturn, 0}})
}

type NewArtistsAnalyzer struct {
	Config AnalyserConfig
}

func (t *NewArtistsAnalyzer) Configure(params map[string]string) error {
	return t.Config.Configure(params)
}

func (t *NewArtistsAnalyzer) GetName() string {
	return "New artists"
}

func (t *NewArtistsAnalyzer) GetResults(p Period) (a Analysis, err error) {
	artists := analysis.NewArtists(p.Before, p.Current, newMaxBefore, newMinCurrent)

	a.results = append(a.results, []string{"Artist", "Plays", "Hours"})
	var numPlays int64
	for i, artist := range artists {
		if t.Config.keep(i+1, artist.Value.Plays) {
			a.results = append(a.results, []string{artist.Key, formatPlays(artist.Value.Plays), formatHours(artist.Value.Time)})
		}
		numPlays += artist.Value.Plays
	}
	a.summary = fmt.Sprintf("Found %d new artists with %d plays, %s\n", len(artists), numPlays, p.describe())
	return
}
