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
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/jnadelneuro/apple-music-history/internal/logging"
)

var cfgFile string
var activityPath string
var libraryPath string
var databasePath string
var exclusionsPath string
var logLevel string
var logFormat string
var traceSong string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "apple-music-history",
	Short: "Analyses an Apple Music play activity export",
	Long: `Reads "Apple Music Play Activity.csv" from an Apple Music data export,
optionally enriched with the library JSON, and reports listening statistics.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := viper.GetString("log_level")
		if !logging.ValidLevel(level) {
			return fmt.Errorf("invalid log_level %q", level)
		}
		logging.Init(logging.Config{
			Level:  level,
			Format: viper.GetString("log_format"),
		})
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default is $HOME/.apple-music-history.yaml)")

	rootCmd.PersistentFlags().StringVarP(
		&activityPath, "activity", "a", "", "Path to Apple Music Play Activity.csv")
	viper.BindPFlag("activity", rootCmd.PersistentFlags().Lookup("activity"))

	rootCmd.PersistentFlags().StringVarP(
		&libraryPath, "library", "l", "", "Path to the library tracks JSON, used to fill in missing artists")
	viper.BindPFlag("library", rootCmd.PersistentFlags().Lookup("library"))

	rootCmd.PersistentFlags().StringVarP(
		&databasePath, "database", "d", "./music-history.db", "Path to the SQLite database")
	viper.BindPFlag("database", rootCmd.PersistentFlags().Lookup("database"))

	rootCmd.PersistentFlags().StringVar(
		&exclusionsPath, "exclusions", "", "File of songs to exclude, one \"'<song>' by <artist>\" per line")
	viper.BindPFlag("exclusions", rootCmd.PersistentFlags().Lookup("exclusions"))

	rootCmd.PersistentFlags().StringVar(&logLevel, "log_level", "warn", "trace, debug, info, warn, error or off")
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log_level"))

	rootCmd.PersistentFlags().StringVar(&logFormat, "log_format", "console", "console or json")
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log_format"))

	rootCmd.PersistentFlags().StringVar(&traceSong, "trace_song", "", "Log every step of resolving this song's artist (needs --log_level trace)")
	viper.BindPFlag("trace_song", rootCmd.PersistentFlags().Lookup("trace_song"))

	var from string
	rootCmd.PersistentFlags().StringVar(&from, "from", "", "From email address")
	viper.BindPFlag("from", rootCmd.PersistentFlags().Lookup("from"))

	var sendgridAPIKey string
	rootCmd.PersistentFlags().StringVar(&sendgridAPIKey, "sendgrid_api_key", "", "SendGrid API key, for sending email")
	viper.BindPFlag("sendgrid_api_key", rootCmd.PersistentFlags().Lookup("sendgrid_api_key"))
}

// initConfig reads in a .env file, the config file and ENV variables if set.
func initConfig() {
	log := logging.Logger()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "Reading .env:", err)
	}

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".apple-music-history" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".apple-music-history")
	}

	// AMH_ACTIVITY, AMH_SENDGRID_API_KEY, ...
	viper.SetEnvPrefix("amh")
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Info().Str("file", viper.ConfigFileUsed()).Msg("Using config file")
	}

	// See https://github.com/spf13/viper/pull/852
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		if viper.IsSet(f.Name) && viper.GetString(f.Name) != "" {
			rootCmd.PersistentFlags().Set(f.Name, viper.GetString(f.Name))
		}
	})
}
