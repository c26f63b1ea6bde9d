package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"

	"github.com/jnadelneuro/apple-music-history/internal/store"
)

type SendReportsConfig struct {
	Load   LoadConfig
	From   string
	APIKey string
	DryRun bool

	// Force sends every report whether or not it is due.
	Force bool

	// Name, if set, limits sending to reports with this name.
	Name string

	Now func() time.Time
}

var sendReportsCmd = &cobra.Command{
	Use:   "send-reports",
	Short: "Send the email reports that are due.",
	Long: `Each report covers the previous calendar month and is sent once a month,
on or after its run day.`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("from") == "" {
			return fmt.Errorf("required flag(s) \"from\" not set")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		dryRun, _ := cmd.Flags().GetBool("dry_run")
		force, _ := cmd.Flags().GetBool("force")
		name, _ := cmd.Flags().GetString("name")
		config := SendReportsConfig{
			Load:   loadConfigFromFlags(),
			From:   viper.GetString("from"),
			APIKey: viper.GetString("sendgrid_api_key"),
			DryRun: dryRun,
			Force:  force,
			Name:   name,
		}
		err := sendReports(cmd.Context(), config)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(sendReportsCmd)

	sendReportsCmd.Flags().BoolP("dry_run", "n", false, "When true, just print instead of emailing")
	sendReportsCmd.Flags().Bool("force", false, "Send reports even if they are not due")
	sendReportsCmd.Flags().String("name", "", "Only send reports with this name")
}

func sendReports(ctx context.Context, config SendReportsConfig) error {
	now := time.Now()
	if config.Now != nil {
		now = config.Now()
	}

	db, err := store.New(config.Load.DbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	reports, err := db.Reports()
	if err != nil {
		return err
	}

	start, end := previousMonth(now)
	limiter := rate.NewLimiter(rate.Every(1*time.Second), 1)
	errOccurred := false
	for _, report := range reports {
		if config.Name != "" && report.Name != config.Name {
			continue
		}
		if !config.Force && !report.Due(now) {
			fmt.Printf("Report (%q, %q) was already sent on %s, not sending.\n", report.Name, report.Email, report.Sent.Format("2006-01-02"))
			continue
		}

		emailConfig := SendEmailConfig{
			Load:       config.Load,
			From:       config.From,
			To:         report.Email,
			ReportName: report.Name,
			Types:      report.Types,
			DryRun:     config.DryRun,
			APIKey:     config.APIKey,
			Start:      start,
			End:        end,
		}
		for _, t := range report.Types {
			emailConfig.Params = append(emailConfig.Params, report.Params[t])
		}

		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		fmt.Printf("Sending report (%q, %q)\n", report.Name, report.Email)
		if err := sendEmail(emailConfig); err != nil {
			errOccurred = true
			fmt.Printf("sendEmail: %v\n", err)
			continue
		}
		if !config.DryRun {
			if err := db.MarkReportSent(report.Name, report.Email, now); err != nil {
				errOccurred = true
				fmt.Println(err)
			}
		}
	}

	if errOccurred {
		return fmt.Errorf("Error occurred while sending reports")
	}
	return nil
}
