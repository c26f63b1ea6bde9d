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
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jnadelneuro/apple-music-history/internal/analysis"
)

var topSongsNumber int
var topSongsIncludeExcluded bool
var topSongsCmd = &cobra.Command{
	Use:   "top-songs [year]",
	Short: "Gets the top songs by listening time",
	Long: `Covers the whole history, or one year like '2023' if given.
Excluded songs are left out unless --include_excluded is set.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := printTopSongs(loadConfigFromFlags(), topSongsNumber, topSongsIncludeExcluded, args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topSongsCmd)

	topSongsCmd.Flags().IntVarP(&topSongsNumber, "number", "n", 10, "number of results to return")
	topSongsCmd.Flags().BoolVar(&topSongsIncludeExcluded, "include_excluded", false, "include excluded songs")
}

func printTopSongs(config LoadConfig, numToReturn int, includeExcluded bool, args []string) error {
	analyzer := &TopSongsAnalyzer{Config: AnalyserConfig{numToReturn, 0}, IncludeExcluded: includeExcluded}
	if len(args) > 0 {
		year, err := parseYear(args[0])
		if err != nil {
			return err
		}
		analyzer.Year = year
	}
	return runAnalyser(os.Stdout, config, analyzer)
}

type TopSongsAnalyzer struct {
	Config          AnalyserConfig
	Year            string
	IncludeExcluded bool
}

func (t *TopSongsAnalyzer) Configure(params map[string]string) error {
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
	if val, ok := params["include_excluded"]; ok {
		include, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid value for 'include_excluded': %v", err)
		}
		t.IncludeExcluded = include
	}
	return nil
}

func (t *TopSongsAnalyzer) GetName() string {
	if t.Year != "" {
		return "Top songs of " + t.Year
	}
	return "Top songs"
}

func (t *TopSongsAnalyzer) GetResults(p Period) (a Analysis, err error) {
	var songs []analysis.Entry[analysis.SongStat]
	switch {
	case t.Year != "":
		// Year lists never hold excluded songs.
		songs, _ = analysis.Find(p.Current.Years, t.Year)
	case t.IncludeExcluded:
		songs = p.Current.Songs
	default:
		songs = p.Current.FilteredSongs
	}

	var numPlays int64
	a.results = [][]string{{"Song", "Artist", "Plays", "Hours", "Missed hours"}}
	for i, song := range songs {
		if t.Config.keep(i+1, song.Value.Plays) {
			a.results = append(a.results, []string{
				song.Value.Name,
				song.Value.Artist,
				formatPlays(song.Value.Plays),
				formatHours(song.Value.Time),
				formatHours(song.Value.MissedTime),
			})
		}
		numPlays += song.Value.Plays
	}

	a.summary = fmt.Sprintf("Found %d songs and %d plays, %s\n", len(songs), numPlays, p.describe())
	if n := len(p.Current.ExcludedSongs); n > 0 && !t.IncludeExcluded {
		a.summary += fmt.Sprintf("%d songs are excluded\n", n)
	}
	return
}
