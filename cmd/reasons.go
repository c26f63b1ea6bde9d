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

	"github.com/spf13/cobra"
)

var reasonsCmd = &cobra.Command{
	Use:   "reasons",
	Short: "Counts why plays ended",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		err := runAnalyser(os.Stdout, loadConfigFromFlags(), &ReasonsAnalyzer{})
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(reasonsCmd)
}

type ReasonsAnalyzer struct{}

func (r *ReasonsAnalyzer) GetName() string {
	return "End reasons"
}

func (r *ReasonsAnalyzer) GetResults(p Period) (a Analysis, err error) {
	a.results = [][]string{{"Reason", "Count"}}
	var total int64
	for _, reason := range p.Current.Reasons {
		if reason.Value == 0 {
			continue
		}
		name := reason.Key
		if name == "" {
			name = "(none)"
		}
		a.results = append(a.results, []string{name, formatPlays(reason.Value)})
		total += reason.Value
	}

	skipped := p.Current.Skipped
	a.summary = fmt.Sprintf("Counted %d events, %s\nSkipped %d events missing a field and %d with a malformed field\n",
		total, p.describe(), skipped.MissingField, skipped.MalformedField)
	return
}
