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
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var (
	limitArtists int
	limitAlbums  int
	limitSongs   int
)

var topNCmd = &cobra.Command{
	Use:   "top-n [from] [to (optional)]",
	Short: "Generates a textual summary of music taste",
	Long:  `Generates a report of top artists, albums and songs over a specified period.`,
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		err := printTopN(os.Stdout, loadConfigFromFlags(), args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topNCmd)
	topNCmd.Flags().IntVar(&limitArtists, "artists", 10, "Number of top artists to show")
	topNCmd.Flags().IntVar(&limitAlbums, "albums", 10, "Number of top albums to show")
	topNCmd.Flags().IntVar(&limitSongs, "songs", 10, "Number of top songs to show")
}

func printTopN(out io.Writer, config LoadConfig, args []string) error {
	start, end, err := parseDateRangeFromArgs(args)
	if err != nil {
		return err
	}
	config.Start, config.End = start, end

	analyzer := &TopNAnalyzer{Artists: limitArtists, Albums: limitAlbums, Songs: limitSongs}
	return runAnalyser(out, config, analyzer)
}

// TopNAnalyzer writes a plain text summary instead of a table.
type TopNAnalyzer struct {
	Artists int
	Albums  int
	Songs   int
}

func (t *TopNAnalyzer) Configure(params map[string]string) error {
	for name, limit := range map[string]*int{"artists": &t.Artists, "albums": &t.Albums, "songs": &t.Songs} {
		if val, ok := params[name]; ok {
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid value for '%s': %v", name, err)
			}
			*limit = n
		}
	}
	return nil
}

func (t *TopNAnalyzer) GetName() string {
	return "Top N"
}

func (t *TopNAnalyzer) GetResults(p Period) (a Analysis, err error) {
	out := new(strings.Builder)
	r := p.Current

	fmt.Fprintf(out, "Music Taste Report\n")
	fmt.Fprintf(out, "Period: %s\n", p.describe())
	fmt.Fprintf(out, "Total Plays: %d (%s hours)\n\n", r.Totals.Plays, formatHours(r.Totals.Time))

	if t.Artists > 0 {
		fmt.Fprintf(out, "## Top %d Artists\n", t.Artists)
		for i, artist := range r.Artists {
			if i >= t.Artists {
				break
			}
			fmt.Fprintf(out, "%d. %s (%d)\n", i+1, artist.Key, artist.Value.Plays)
		}
		fmt.Fprintln(out)
	}

	if t.Albums > 0 {
		fmt.Fprintf(out, "## Top %d Albums\n", t.Albums)
		for i, album := range r.Albums {
			if i >= t.Albums {
				break
			}
			fmt.Fprintf(out, "%d. %s - %s (%d)\n", i+1, album.Value.Name, album.Value.Artist, album.Value.Plays)
		}
		fmt.Fprintln(out)
	}

	if t.Songs > 0 {
		fmt.Fprintf(out, "## Top %d Songs\n", t.Songs)
		for i, song := range r.FilteredSongs {
			if i >= t.Songs {
				break
			}
			fmt.Fprintf(out, "%d. %s - %s (%d)\n", i+1, song.Value.Name, song.Value.Artist, song.Value.Plays)
		}
		fmt.Fprintln(out)
	}

	a.BodyOverride = out.String()
	a.preformatted = true
	return
}
