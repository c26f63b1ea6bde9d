package cmd

import (
	"fmt"
	"html"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/jnadelneuro/apple-music-history/internal/analysis"
)

var (
	minArtistPlays int64
	minAlbumPlays  int64
	resultsPerBand int
	sortBy         string
	beforeYearStr  string
)

var forgottenCmd = &cobra.Command{
	Use:   "forgotten",
	Short: "Surfaces artists and albums heavily listened to in the past but not recently",
	Long:  `Identifies music that has fallen out of rotation based on dormancy and historical play counts.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		analyzer := &ForgottenAnalyzer{}
		err := analyzer.Configure(map[string]string{
			"min-artist":  strconv.FormatInt(minArtistPlays, 10),
			"min-album":   strconv.FormatInt(minAlbumPlays, 10),
			"results":     strconv.Itoa(resultsPerBand),
			"sort":        sortBy,
			"before_year": beforeYearStr,
		})
		if err == nil {
			err = printForgotten(os.Stdout, loadConfigFromFlags(), analyzer)
		}
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(forgottenCmd)

	forgottenCmd.Flags().Int64Var(&minArtistPlays, "min-artist", 10, "Minimum plays for artist inclusion")
	forgottenCmd.Flags().Int64Var(&minAlbumPlays, "min-album", 5, "Minimum plays for album inclusion")
	forgottenCmd.Flags().IntVar(&resultsPerBand, "results", 10, "Max results shown per interest band")
	forgottenCmd.Flags().StringVar(&sortBy, "sort", "dormancy", "Sort order: 'dormancy' or 'plays'")
	forgottenCmd.Flags().StringVar(&beforeYearStr, "before_year", "", "Only include entities last played before this year (default: this year minus one)")
}

func newForgottenAnalyzer() *ForgottenAnalyzer {
	f := &ForgottenAnalyzer{}
	f.Configure(nil)
	return f
}

type ForgottenAnalyzer struct {
	Config analysis.ForgottenConfig

	// Now is used for the default cutoff year.
	Now func() time.Time
}

func (f *ForgottenAnalyzer) Configure(params map[string]string) error {
	f.Config.MinArtistPlays = 10
	f.Config.MinAlbumPlays = 5
	f.Config.ResultsPerBand = 10
	f.Config.SortBy = "dormancy"

	if val, ok := params["min-artist"]; ok {
		v, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid min-artist: %w", err)
		}
		f.Config.MinArtistPlays = v
	}
	if val, ok := params["min-album"]; ok {
		v, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid min-album: %w", err)
		}
		f.Config.MinAlbumPlays = v
	}
	if val, ok := params["results"]; ok {
		v, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid results: %w", err)
		}
		f.Config.ResultsPerBand = v
	}
	if val, ok := params["sort"]; ok && val != "" {
		if val != "dormancy" && val != "plays" {
			return fmt.Errorf("invalid sort %q: expected 'dormancy' or 'plays'", val)
		}
		f.Config.SortBy = val
	}
	if val, ok := params["before_year"]; ok && val != "" {
		year, err := parseYear(val)
		if err != nil {
			return fmt.Errorf("invalid before_year: %w", err)
		}
		f.Config.LastYearBefore, _ = strconv.Atoi(year)
	}
	return nil
}

func (f *ForgottenAnalyzer) GetName() string {
	return "Forgotten"
}

// find runs over the whole history regardless of the requested period.
func (f *ForgottenAnalyzer) find(p Period) (map[string][]analysis.ForgottenArtist, map[string][]analysis.ForgottenAlbum) {
	now := time.Now()
	if f.Now != nil {
		now = f.Now()
	}
	currentYear := analysis.CurrentYear(now)

	cfg := f.Config
	if cfg.LastYearBefore == 0 {
		cfg.LastYearBefore = currentYear - 1
	}
	return analysis.GetForgottenArtists(p.All, cfg, currentYear), analysis.GetForgottenAlbums(p.All, cfg, currentYear)
}

func (f *ForgottenAnalyzer) GetResults(p Period) (Analysis, error) {
	var a Analysis
	artists, albums := f.find(p)

	var sb strings.Builder
	sb.WriteString("<h3>Forgotten Artists</h3>")
	for _, band := range analysis.Bands {
		sb.WriteString(formatArtistBandHTML(artists, band))
	}

	sb.WriteString("<h3>Forgotten Albums</h3>")
	for _, band := range analysis.Bands {
		sb.WriteString(formatAlbumBandHTML(albums, band))
	}

	a.BodyOverride = sb.String()
	return a, nil
}

func formatArtistBandHTML(results map[string][]analysis.ForgottenArtist, band string) string {
	items, ok := results[band]
	if !ok || len(items) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<h4>%s Interest (%d+ plays)</h4>", band, analysis.GetThreshold(band, true)))
	sb.WriteString("<table><thead><tr><th>Artist</th><th>Plays</th><th>First Year</th><th>Last Year</th></tr></thead><tbody>")
	for _, a := range items {
		sb.WriteString(fmt.Sprintf("<tr><td>%s</td><td>%d</td><td>%d</td><td>%d</td></tr>",
			html.EscapeString(a.Artist), a.TotalPlays, a.FirstYear, a.LastYear))
	}
	sb.WriteString("</tbody></table>")
	return sb.String()
}

func formatAlbumBandHTML(results map[string][]analysis.ForgottenAlbum, band string) string {
	items, ok := results[band]
	if !ok || len(items) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<h4>%s Interest (%d+ plays)</h4>", band, analysis.GetThreshold(band, false)))
	sb.WriteString("<table><thead><tr><th>Artist</th><th>Album</th><th>Plays</th><th>First Year</th><th>Last Year</th></tr></thead><tbody>")
	for _, a := range items {
		sb.WriteString(fmt.Sprintf("<tr><td>%s</td><td>%s</td><td>%d</td><td>%d</td><td>%d</td></tr>",
			html.EscapeString(a.Artist), html.EscapeString(a.Album), a.TotalPlays, a.FirstYear, a.LastYear))
	}
	sb.WriteString("</tbody></table>")
	return sb.String()
}

func printForgotten(out io.Writer, config LoadConfig, f *ForgottenAnalyzer) error {
	p, err := loadPeriod(config)
	if err != nil {
		return err
	}
	artists, albums := f.find(p)

	fmt.Fprintln(out, "## Forgotten Artists")
	for _, band := range analysis.Bands {
		if err := printArtistBand(out, artists, band); err != nil {
			return err
		}
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "## Forgotten Albums")
	for _, band := range analysis.Bands {
		if err := printAlbumBand(out, albums, band); err != nil {
			return err
		}
	}
	return nil
}

func printArtistBand(out io.Writer, results map[string][]analysis.ForgottenArtist, band string) error {
	items, ok := results[band]
	if !ok || len(items) == 0 {
		return nil
	}

	fmt.Fprintf(out, "\n### %s Interest (%d+ plays)\n", band, analysis.GetThreshold(band, true))

	table := tablewriter.NewWriter(out)
	table.Header([]string{"Artist", "Plays", "First Year", "Last Year"})
	for _, a := range items {
		err := table.Append([]string{
			a.Artist,
			strconv.FormatInt(a.TotalPlays, 10),
			strconv.Itoa(a.FirstYear),
			strconv.Itoa(a.LastYear),
		})
		if err != nil {
			return err
		}
	}
	return table.Render()
}

func printAlbumBand(out io.Writer, results map[string][]analysis.ForgottenAlbum, band string) error {
	items, ok := results[band]
	if !ok || len(items) == 0 {
		return nil
	}

	fmt.Fprintf(out, "\n### %s Interest (%d+ plays)\n", band, analysis.GetThreshold(band, false))

	table := tablewriter.NewWriter(out)
	table.Header([]string{"Artist", "Album", "Plays", "First Year", "Last Year"})
	for _, a := range items {
		err := table.Append([]string{
			a.Artist,
			a.Album,
			strconv.FormatInt(a.TotalPlays, 10),
			strconv.Itoa(a.FirstYear),
			strconv.Itoa(a.LastYear),
		})
		if err != nil {
			return err
		}
	}
	return table.Render()
}
