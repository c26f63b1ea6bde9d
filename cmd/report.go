package cmd

import (
	"fmt"
	"html"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jnadelneuro/apple-music-history/internal/analysis"
	"github.com/jnadelneuro/apple-music-history/internal/store"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// AnalyzeOptions controls the analyze command.
type AnalyzeOptions struct {
	Format string `validate:"oneof=table yaml json"`
	Number int    `validate:"min=0"`
	Save   bool
	Since  string
}

var analyzeOptions AnalyzeOptions

var analyzeCmd = &cobra.Command{
	Use:     "analyze",
	Aliases: []string{"report"},
	Short:   "Generates a comprehensive listening report",
	Long: `Analyzes the activity export to generate a report of top artists, songs and
albums, the current year, and listening patterns.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		err := runAnalyze(os.Stdout, loadConfigFromFlags(), analyzeOptions)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeOptions.Format, "format", "table", "Output format: table, yaml or json")
	analyzeCmd.Flags().IntVarP(&analyzeOptions.Number, "number", "n", 10, "Entries per list, 0 for all")
	analyzeCmd.Flags().BoolVar(&analyzeOptions.Save, "save", false, "Save the result as a snapshot in the database")
	analyzeCmd.Flags().StringVar(&analyzeOptions.Since, "since", "", "Only analyse plays on or after this date (yyyy, yyyy-mm, yyyy-mm-dd or 90d)")
}

func runAnalyze(out io.Writer, config LoadConfig, opts AnalyzeOptions) error {
	if err := validate.Struct(opts); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	if opts.Since != "" {
		since, err := parseSingleDatestring(opts.Since)
		if err != nil {
			return err
		}
		config.Start = since.Date
	}

	p, err := loadPeriod(config)
	if err != nil {
		return err
	}

	if opts.Save {
		db, err := store.New(config.DbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()
		snap, err := db.SaveSnapshot(p.Current, config.ActivityPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved snapshot %s\n", snap.ID)
	}

	now := time.Now()
	if config.Now != nil {
		now = config.Now()
	}
	return writeReport(out, analysis.NewReport(p.Current, opts.Number, now), opts.Format)
}

func writeReport(out io.Writer, report *analysis.Report, format string) error {
	switch format {
	case "yaml":
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(2)
		if err := encoder.Encode(report); err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		return encoder.Close()

	case "json":
		b, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		_, err = fmt.Fprintln(out, string(b))
		return err
	}
	return writeReportTables(out, report)
}

func writeReportTables(out io.Writer, report *analysis.Report) error {
	m := report.Metadata
	fmt.Fprintf(out, "Generated %s: %d plays, %.1f hours, %d artists, %d songs (%d excluded), %s\n\n",
		m.GeneratedDate, m.TotalPlays, m.TotalHours, m.TotalArtists, m.TotalSongs, m.ExcludedSongs, m.ListeningStyle)

	var artists [][]string
	for _, a := range report.TopArtists {
		artists = append(artists, []string{a.Name, formatPlays(a.Plays), fmt.Sprintf("%.1f", a.Hours), a.PeakYear})
	}
	if err := renderTable(out, "Top artists", []string{"Artist", "Plays", "Hours", "Peak year"}, artists); err != nil {
		return err
	}

	var songs [][]string
	for _, s := range report.TopSongs {
		songs = append(songs, []string{s.Name, s.Artist, formatPlays(s.Plays), fmt.Sprintf("%.1f", s.Hours)})
	}
	if err := renderTable(out, "Top songs", []string{"Song", "Artist", "Plays", "Hours"}, songs); err != nil {
		return err
	}

	var albums [][]string
	for _, a := range report.TopAlbums {
		albums = append(albums, []string{a.Title, a.Artist, formatPlays(a.Plays), fmt.Sprintf("%.1f", a.Hours)})
	}
	if err := renderTable(out, "Top albums", []string{"Album", "Artist", "Plays", "Hours"}, albums); err != nil {
		return err
	}

	y := report.ThisYear
	fmt.Fprintf(out, "%d so far: %d plays, %.1f hours\n", y.Year, y.Plays, y.Hours)

	lp := report.ListeningPatterns
	fmt.Fprintf(out, "Busiest: %s at %02d:00, day %s, month %s\n", lp.BusiestWeekday, lp.BusiestHour, lp.BusiestDay, lp.BusiestMonth)
	fmt.Fprintf(out, "Completion rate %.1f%%, %.1f plays per song, top end reason %q\n",
		lp.CompletionRate, lp.RepeatListeningRatio, lp.TopEndReason)

	if lm := report.LibraryMatch; lm != nil {
		fmt.Fprintf(out, "Library match: %.1f%% of plays, %.1f%% of matches uncertain\n", lm.MatchRate, lm.UncertainRate)
	}
	return nil
}

func renderTable(out io.Writer, title string, header []string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	fmt.Fprintf(out, "## %s\n", title)
	table := tablewriter.NewWriter(out)
	table.Header(header)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Fprintln(out)
	return nil
}

type ReportAnalyzer struct {
	Number int
	Now    func() time.Time
}

func (t *ReportAnalyzer) Configure(params map[string]string) error {
	cfg := AnalyserConfig{NumToReturn: 10}
	if err := cfg.Configure(params); err != nil {
		return err
	}
	t.Number = cfg.NumToReturn
	return nil
}

func (t *ReportAnalyzer) GetName() string {
	return "Listening Profile"
}

func (t *ReportAnalyzer) GetResults(p Period) (Analysis, error) {
	var a Analysis
	now := time.Now()
	if t.Now != nil {
		now = t.Now()
	}
	n := t.Number
	if n == 0 {
		n = 10
	}
	report := analysis.NewReport(p.Current, n, now)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<p><strong>Analysis Date:</strong> %s</p>", report.Metadata.GeneratedDate))
	sb.WriteString(fmt.Sprintf("<p><strong>Period:</strong> %s</p>", p.describe()))
	sb.WriteString(fmt.Sprintf("<p><strong>Plays:</strong> %d (%.1f hours)</p>", report.Metadata.TotalPlays, report.Metadata.TotalHours))

	sb.WriteString("<h3>Top Artists</h3>")
	sb.WriteString("<ul>")
	for _, artist := range report.TopArtists {
		sb.WriteString(fmt.Sprintf("<li><strong>%s</strong> (%d plays)", html.EscapeString(artist.Name), artist.Plays))
		if artist.PeakYear != "" {
			sb.WriteString(fmt.Sprintf(" peak %s", artist.PeakYear))
		}
		sb.WriteString("</li>")
	}
	sb.WriteString("</ul>")

	sb.WriteString("<h3>Top Songs</h3>")
	sb.WriteString("<ul>")
	for _, song := range report.TopSongs {
		sb.WriteString(fmt.Sprintf("<li><strong>%s</strong> - %s (%d plays)</li>",
			html.EscapeString(song.Name), html.EscapeString(song.Artist), song.Plays))
	}
	sb.WriteString("</ul>")

	lp := report.ListeningPatterns
	sb.WriteString("<h3>Listening Patterns</h3>")
	sb.WriteString(fmt.Sprintf("<p>Busiest time is %s at %02d:00. %.1f%% of started songs were heard through.</p>",
		lp.BusiestWeekday, lp.BusiestHour, lp.CompletionRate))

	a.BodyOverride = sb.String()
	return a, nil
}
