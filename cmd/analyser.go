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
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/jnadelneuro/apple-music-history/internal/analysis"
)

type Analysis struct {
	results      [][]string
	summary      string
	BodyOverride string

	// preformatted marks a plain text BodyOverride.
	preformatted bool
}

type AnalyserConfig struct {
	// Number of results to return, default is all results.
	NumToReturn int

	// Only return results with more plays than this. Default is all results.
	FilterThreshold int64
}

// Configure reads the shared "n" and "min" parameters.
func (c *AnalyserConfig) Configure(params map[string]string) error {
	if val, ok := params["n"]; ok {
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid value for 'n': %v", err)
		}
		c.NumToReturn = n
	}
	if val, ok := params["min"]; ok {
		min, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid value for 'min': %v", err)
		}
		c.FilterThreshold = min
	}
	return nil
}

func (c AnalyserConfig) keep(rank int, plays int64) bool {
	return (c.NumToReturn == 0 || rank <= c.NumToReturn) && (c.FilterThreshold == 0 || plays > c.FilterThreshold)
}

type Analyser interface {
	GetResults(p Period) (Analysis, error)

	GetName() string
}

type Configurable interface {
	Configure(params map[string]string) error
}

func (a Analysis) String() string {
	if a.BodyOverride != "" && len(a.results) == 0 {
		return a.BodyOverride
	}
	out := new(bytes.Buffer)
	if len(a.results) > 1 {
		table := tablewriter.NewWriter(out)
		table.Header(a.results[0])
		for _, row := range a.results[1:] {
			if err := table.Append(row); err != nil {
				return fmt.Sprintf("Error rendering table: %v", err)
			}
		}
		if err := table.Render(); err != nil {
			return fmt.Sprintf("Error rendering table: %v", err)
		}
	} else {
		fmt.Fprintln(out, "No plays found.")
	}
	fmt.Fprintf(out, "%s\n", a.summary)
	return out.String()
}

func formatHours(ms int64) string {
	return strconv.FormatFloat(analysis.Hours(ms), 'f', 1, 64)
}

func formatPlays(n int64) string {
	return strconv.FormatInt(n, 10)
}

// runAnalyser loads the period described by config and prints a's results.
func runAnalyser(out io.Writer, config LoadConfig, a Analyser) error {
	p, err := loadPeriod(config)
	if err != nil {
		return err
	}
	res, err := a.GetResults(p)
	if err != nil {
		return fmt.Errorf("%s: %w", a.GetName(), err)
	}
	fmt.Fprintln(out, res)
	return nil
}
