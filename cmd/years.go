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

var yearsCmd = &cobra.Command{
	Use:   "years",
	Short: "Summarizes each year of listening",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		err := runAnalyser(os.Stdout, loadConfigFromFlags(), &YearsAnalyzer{})
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(yearsCmd)
}

type YearsAnalyzer struct{}

func (y *YearsAnalyzer) GetName() string {
	return "Years"
}

func (y *YearsAnalyzer) GetResults(p Period) (a Analysis, err error) {
	r := p.Current
	a.results = [][]string{{"Year", "Plays", "Hours", "Top artist", "Top song"}}
	for _, year := range r.Years {
		var plays, ms int64
		for _, song := range year.Value {
			plays += song.Value.Plays
			ms += song.Value.Time
		}

		var topArtist, topSong string
		if artists, ok := analysis.Find(r.YearArtists, year.Key); ok && len(artists) > 0 {
			topArtist = artists[0].Key
		}
		if len(year.Value) > 0 {
			topSong = year.Value[0].Value.Name
		}
		a.results = append(a.results, []string{year.Key, formatPlays(plays), formatHours(ms), topArtist, topSong})
	}

	a.summary = fmt.Sprintf("Found %d years, %s\n", len(r.Years), p.describe())
	return
}
