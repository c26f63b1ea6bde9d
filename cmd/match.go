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
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jnadelneuro/apple-music-history/internal/logging"
	"github.com/jnadelneuro/apple-music-history/internal/resolve"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Reports how well plays match the library",
	Long: `Matches every played song name against the library export given with
--library and lists the songs that match more than one library entry.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		err := runAnalyser(os.Stdout, loadConfigFromFlags(), &MatchAnalyzer{})
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)
}

type MatchAnalyzer struct{}

func (m *MatchAnalyzer) GetName() string {
	return "Library match"
}

func (m *MatchAnalyzer) GetResults(p Period) (a Analysis, err error) {
	if p.Current.Matches == nil {
		err = fmt.Errorf("no library loaded, set --library (currently %q)", viper.GetString("library"))
		return
	}
	s := p.Current.Matches.Summary()

	a.results = [][]string{
		{"Statistic", "Value"},
		{"Total plays", strconv.Itoa(s.TotalPlays)},
		{"Matched plays", strconv.Itoa(s.MatchedPlays)},
		{"Unmatched plays", strconv.Itoa(s.UnmatchedPlays)},
		{"Uncertain plays", strconv.Itoa(s.UncertainPlays)},
		{"Match rate", fmt.Sprintf("%.1f%%", s.MatchRate)},
		{"Uncertain rate", fmt.Sprintf("%.1f%%", s.UncertainRate)},
		{"Unique songs", strconv.Itoa(s.UniqueSongs)},
	}

	certain, ambiguous := countCertainty(p)
	a.results = append(a.results,
		[]string{"Certain songs", strconv.Itoa(certain)},
		[]string{"Ambiguous songs", strconv.Itoa(ambiguous)},
	)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d songs matched more than one library entry", len(s.UncertainSongs))
	if len(s.UncertainSongs) > 0 {
		sb.WriteString(":\n")
		for _, song := range s.UncertainSongs {
			fmt.Fprintf(&sb, "  %s\n", song)
		}
	} else {
		sb.WriteString("\n")
	}
	a.summary = sb.String()
	return
}

// countCertainty counts the distinct song names played in the period that
// match exactly one library entry, and those that match several.
func countCertainty(p Period) (certain, ambiguous int) {
	resolver := resolve.New(p.Library, logging.Logger())
	seen := make(map[string]bool)
	for _, song := range p.Current.Songs {
		name := song.Value.Name
		if seen[name] {
			continue
		}
		seen[name] = true
		switch {
		case resolver.Unambiguous(name):
			certain++
		case p.Library.Ambiguous(name):
			ambiguous++
		}
	}
	return
}
