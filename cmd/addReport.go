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
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jnadelneuro/apple-music-history/internal/store"
)

var addReportCmd = &cobra.Command{
	Use:   "add-report <types...>",
	Short: "Adds an email report, to be sent periodically with `send-reports`",
	Long: `Types are analysis names such as top-artists or forgotten. Parameters are
given per type, for example --params top-artists=n=20,top-songs=year=2023.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name, _ := cmd.Flags().GetString("name")
		dest, _ := cmd.Flags().GetString("dest")
		runDay, _ := cmd.Flags().GetInt("run_day")
		params, _ := cmd.Flags().GetStringToString("params")
		err := addReport(viper.GetString("database"), name, dest, runDay, args, params)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(addReportCmd)

	addReportCmd.Flags().String("dest", "", "Destination email address")
	addReportCmd.MarkFlagRequired("dest")

	addReportCmd.Flags().String("name", "", "Report name - included in the email title, and used for periodically sending")
	addReportCmd.MarkFlagRequired("name")

	addReportCmd.Flags().Int("run_day", 0, "Which day of the month to run this report on")
	addReportCmd.MarkFlagRequired("run_day")

	addReportCmd.Flags().StringToString("params", nil, "Parameters for reports (e.g. --params top-artists=n=20)")
}

func addReport(dbPath string, name string, to string, runDay int, types []string, params map[string]string) error {
	for _, actionName := range types {
		if _, err := getActionFromName(actionName); err != nil {
			return fmt.Errorf("Invalid type: %q", actionName)
		}
	}

	db, err := store.New(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	return db.AddReport(store.Report{
		Name:   name,
		Email:  to,
		RunDay: runDay,
		Types:  types,
		Params: parseReportParams(params),
	})
}

// parseReportParams splits each value of a --params flag, like "n=20;min=5",
// into its own map. Pairs are separated by ';' since ',' already separates
// report types.
func parseReportParams(params map[string]string) map[string]map[string]string {
	structured := make(map[string]map[string]string, len(params))
	for reportType, v := range params {
		pairs := make(map[string]string)
		for _, pair := range strings.Split(v, ";") {
			kv := strings.SplitN(pair, "=", 2)
			if len(kv) == 2 {
				pairs[kv[0]] = kv[1]
			}
		}
		structured[reportType] = pairs
	}
	return structured
}
