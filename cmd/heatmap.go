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
	"time"

	"github.com/spf13/cobra"
)

var heatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Shows hours listened by weekday and hour of day",
	Long: `Hours are local to the time zone recorded with each play. Sunday is not
tracked.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		err := runAnalyser(os.Stdout, loadConfigFromFlags(), &HeatmapAnalyzer{})
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(heatmapCmd)
}

type HeatmapAnalyzer struct{}

func (h *HeatmapAnalyzer) GetName() string {
	return "Listening heatmap"
}

func (h *HeatmapAnalyzer) GetResults(p Period) (a Analysis, err error) {
	header := []string{"Hour"}
	for wd := time.Monday; wd <= time.Saturday; wd++ {
		header = append(header, wd.String()[:3])
	}
	a.results = [][]string{header}

	var total int64
	for hour := 0; hour < 24; hour++ {
		row := []string{fmt.Sprintf("%02d:00", hour)}
		for wd := time.Monday; wd <= time.Saturday; wd++ {
			ms := p.Current.Heatmap[wd][hour]
			row = append(row, formatHours(ms))
			total += ms
		}
		a.results = append(a.results, row)
	}

	a.summary = fmt.Sprintf("%s hours charted, %s\n", formatHours(total), p.describe())
	return
}
