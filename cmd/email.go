package cmd

import (
	"fmt"
	"html"
	"os"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type SendEmailConfig struct {
	Load       LoadConfig
	From       string
	To         string
	ReportName string
	Types      []string
	Params     []map[string]string
	DryRun     bool
	APIKey     string
	Start      time.Time
	End        time.Time
}

var emailCmd = &cobra.Command{
	Use:   "email <address> <analysis_name...> [date] [date]",
	Short: "Sends an email report",
	Long: `Emails listening history to the given address.
  <analysis_name> is one or more of: ` + strings.Join(actionNames, ", ") + `.
  Optional date arguments can be provided at the end (e.g. '2023-01' or '2023-01 2023-06').
  If no dates are provided, defaults to the previous month.`,
	Args: cobra.MinimumNArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("from") == "" {
			return fmt.Errorf("required flag(s) \"from\" not set")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		to := args[0]
		analysisTypes, dateArgs := splitDateArgs(args[1:])
		if len(analysisTypes) == 0 {
			fmt.Println("Error: No analysis types specified")
			os.Exit(1)
		}

		var start, end time.Time
		var err error
		if len(dateArgs) > 0 {
			start, end, err = parseDateRangeFromArgs(dateArgs)
			if err != nil {
				fmt.Printf("Error parsing dates: %v\n", err)
				os.Exit(1)
			}
		} else {
			start, end = previousMonth(time.Now())
		}

		params, _ := cmd.Flags().GetStringArray("params")
		if len(params) > 0 && len(params) != len(analysisTypes) {
			fmt.Printf("Error: Number of --params flags (%d) must match number of reports (%d), or be 0.\n", len(params), len(analysisTypes))
			os.Exit(1)
		}

		structuredParams := make([]map[string]string, len(analysisTypes))
		for i, v := range params {
			pMap := make(map[string]string)
			for _, pair := range strings.Split(v, ",") {
				kv := strings.SplitN(pair, "=", 2)
				if len(kv) == 2 {
					pMap[kv[0]] = kv[1]
				}
			}
			structuredParams[i] = pMap
		}

		name, _ := cmd.Flags().GetString("name")
		dryRun, _ := cmd.Flags().GetBool("dry_run")
		config := SendEmailConfig{
			Load:       loadConfigFromFlags(),
			From:       viper.GetString("from"),
			To:         to,
			ReportName: name,
			Types:      analysisTypes,
			Params:     structuredParams,
			DryRun:     dryRun,
			APIKey:     viper.GetString("sendgrid_api_key"),
			Start:      start,
			End:        end,
		}
		err = sendEmail(config)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(emailCmd)

	emailCmd.Flags().BoolP("dry_run", "n", false, "When true, just print instead of emailing")

	emailCmd.Flags().String("name", "", "Report name, added to the email subject")
	emailCmd.Flags().StringArray("params", nil, "Parameters for reports, matched by index (e.g. --params 'n=20')")
}

// splitDateArgs takes up to two date arguments off the end of args.
func splitDateArgs(args []string) (rest []string, dates []string) {
	rest = args
	for i := 0; i < 2 && len(rest) > 0; i++ {
		last := rest[len(rest)-1]
		if _, err := parseSingleDatestring(last); err != nil {
			break
		}
		dates = append([]string{last}, dates...)
		rest = rest[:len(rest)-1]
	}
	return
}

// previousMonth returns the calendar month before the one now is in.
func previousMonth(now time.Time) (start, end time.Time) {
	end = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	start = end.AddDate(0, -1, 0)
	return
}

func sendEmail(config SendEmailConfig) error {
	actions := make([]Analyser, 0)
	for i, actionName := range config.Types {
		action, err := getActionFromName(actionName)
		if err != nil {
			return err
		}

		if config.Params != nil && i < len(config.Params) {
			params := config.Params[i]
			if len(params) > 0 {
				if configurable, ok := action.(Configurable); ok {
					err := configurable.Configure(params)
					if err != nil {
						return fmt.Errorf("configuring %s (index %d): %w", actionName, i, err)
					}
				}
			}
		}

		actions = append(actions, action)
	}

	load := config.Load
	load.Start, load.End = config.Start, config.End
	p, err := loadPeriod(load)
	if err != nil {
		return err
	}

	subject, out, err := generateEmailContent(config, actions, p)
	if err != nil {
		return err
	}

	if config.DryRun {
		fmt.Printf("Would have sent email: \nsubject: %s\n%s\n", subject, out)
		return nil
	}
	if config.APIKey == "" {
		return fmt.Errorf("sendgrid_api_key must be set in order to send emails")
	}
	return deliver(newSender(config.APIKey), config.From, config.To, subject, out)
}

type emailSender interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

var newSender = func(apiKey string) emailSender {
	return sendgrid.NewSendClient(apiKey)
}

var sendRetryDelay = 2 * time.Second

// sendError is a non-2xx response from sendgrid.
type sendError struct {
	StatusCode int
	Body       string
}

func (e *sendError) Error() string {
	return fmt.Sprintf("sendgrid returned %d: %s", e.StatusCode, e.Body)
}

func deliver(sender emailSender, fromAddress, toAddress, subject, body string) error {
	from := mail.NewEmail("apple-music-history", fromAddress)
	to := mail.NewEmail(toAddress, toAddress)
	message := mail.NewSingleEmail(from, subject, to, "", body)

	err := retry.Do(
		func() error {
			resp, err := sender.Send(message)
			if err != nil {
				return err
			}
			if resp.StatusCode/100 != 2 {
				return &sendError{StatusCode: resp.StatusCode, Body: resp.Body}
			}
			return nil
		},
		retry.RetryIf(func(err error) bool {
			if serr, ok := err.(*sendError); ok && serr.StatusCode/100 == 5 {
				fmt.Printf("sendgrid errored, retrying: %v\n", serr)
				return true
			}
			return false
		}),
		retry.Attempts(3),
		retry.Delay(sendRetryDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return fmt.Errorf("sendEmail: %w", err)
	}
	return nil
}

func generateEmailContent(config SendEmailConfig, actions []Analyser, p Period) (subject string, body string, err error) {
	const dateFormat = "2006-01-02"
	out := `
<html>
  <head>
<style>
td {
  padding: 0.1em 0.2em;
}
table, th, td {
  border: 1px solid black;
  border-collapse: collapse;
}
</style>
  </head>
  <body>
`
	for _, action := range actions {
		out += `
		<div>
`
		out += fmt.Sprintf("<h2>%s %s:</h2>\n", action.GetName(), p.describe())
		analysis, err := action.GetResults(p)
		if err != nil {
			return "", "", fmt.Errorf("getting results for %s: %w", action.GetName(), err)
		}

		switch {
		case analysis.BodyOverride != "" && analysis.preformatted:
			out += "<pre>" + html.EscapeString(analysis.BodyOverride) + "</pre>\n"
		case analysis.BodyOverride != "":
			out += analysis.BodyOverride
		case len(analysis.results) <= 1:
			out += "<div>No plays found.</div>\n"
		default:
			out += `
			<table>
				<thead>
					<tr>
`
			for _, header := range analysis.results[0] {
				out += fmt.Sprintf("<th>%s</th>", html.EscapeString(header))
			}
			out += `				</tr>
			</thead>
			<tbody>
`
			for _, row := range analysis.results[1:] {
				out += "<tr>\n"
				for _, column := range row {
					out += fmt.Sprintf("<td>%s</td>\n", html.EscapeString(column))
				}
				out += "</tr>\n"
			}
			out += `
				</tbody>
			</table>
`
		}
		out += fmt.Sprintf(`<div>%s</div>
		</div>`, html.EscapeString(analysis.summary))
	}
	out += `
  </body>
</html>
`

	subjectSuffix := ""
	if len(config.ReportName) > 0 {
		subjectSuffix = ": " + config.ReportName
	}
	subject = fmt.Sprintf("Listening report %s to %s%s", config.Start.Format(dateFormat), config.End.Format(dateFormat), subjectSuffix)

	return subject, out, nil
}

// actionNames lists what getActionFromName accepts, in help order.
var actionNames = []string{
	"top-songs", "top-artists", "top-albums", "new-artists", "new-albums",
	"forgotten", "top-n", "report", "heatmap", "match", "reasons", "years",
}

func getActionFromName(actionName string) (Analyser, error) {
	// Pointers required for Configure.
	actionMap := map[string]Analyser{
		"top-songs":   &TopSongsAnalyzer{Config: AnalyserConfig{20, 0}},
		"top-artists": &TopArtistsAnalyzer{Config: AnalyserConfig{20, 0}},
		"top-albums":  &TopAlbumsAnalyzer{Config: AnalyserConfig{20, 0}},
		"new-artists": &NewArtistsAnalyzer{},
		"new-albums":  &NewAlbumsAnalyzer{},
		"forgotten":   newForgottenAnalyzer(),
		"top-n":       &TopNAnalyzer{Artists: 10, Albums: 10, Songs: 10},
		"report":      &ReportAnalyzer{Number: 10},
		"heatmap":     &HeatmapAnalyzer{},
		"match":       &MatchAnalyzer{},
		"reasons":     &ReasonsAnalyzer{},
		"years":       &YearsAnalyzer{},
	}

	action, ok := actionMap[actionName]
	if !ok {
		return nil, fmt.Errorf("Invalid analysis_name: %s", actionName)
	}

	return action, nil
}
