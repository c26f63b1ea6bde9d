/*
Copyright 2026 Google LLC

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
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jnadelneuro/apple-music-history/internal/store"
)

var listReportsCmd = &cobra.Command{
	Use:   "list-reports",
	Short: "Lists all configured email reports",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		err := listReports(os.Stdout, viper.GetString("database"))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(listReportsCmd)
}

func listReports(out io.Writer, dbPath string) error {
	db, err := store.New(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	reports, err := db.Reports()
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		fmt.Fprintln(out, "No reports configured.")
		return nil
	}

	table := tablewriter.NewWriter(out)
	table.Header([]string{"Name", "Email", "Run day", "Types", "Params", "Last sent"})
	for _, r := range reports {
		sent := "never"
		if !r.Sent.IsZero() {
			sent = r.Sent.Format("2006-01-02")
		}
		err := table.Append([]string{r.Name, r.Email, strconv.Itoa(r.RunDay), strings.Join(r.Types, ","), formatReportParams(r.Params), sent})
		if err != nil {
			return err
		}
	}
	return table.Render()
}

// formatReportParams is the inverse of parseReportParams, with types sorted.
func formatReportParams(params map[string]map[string]string) string {
	var types []string
	for t := range params {
		types = append(types, t)
	}
	sort.Strings(types)

	var out []string
	for _, t := range types {
		var keys []string
		for k := range params[t] {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var pairs []string
		for _, k := range keys {
			pairs = append(pairs, k+"="+params[t][k])
		}
		out = append(out, t+"="+strings.Join(pairs, ";"))
	}
	return strings.Join(out, ",")
}
