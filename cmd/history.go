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
	"io"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jnadelneuro/apple-music-history/internal/analysis"
	"github.com/jnadelneuro/apple-music-history/internal/store"
)

var historyFormat string

var historyCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "Lists saved snapshots, or shows one",
	Long:  `Snapshots are saved with 'analyze --save'.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var err error
		if len(args) == 0 {
			err = listSnapshots(os.Stdout, viper.GetString("database"))
		} else {
			err = showSnapshot(os.Stdout, viper.GetString("database"), args[0], historyFormat)
		}
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historyFormat, "format", "table", "Output format: table, yaml or json")
}

func listSnapshots(out io.Writer, dbPath string) error {
	db, err := store.New(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	snaps, err := db.Snapshots()
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		fmt.Fprintln(out, "No snapshots saved.")
		return nil
	}

	table := tablewriter.NewWriter(out)
	table.Header([]string{"ID", "Generated", "Plays", "Source"})
	for _, s := range snaps {
		row := []string{s.ID, s.Generated.Local().Format("2006-01-02 15:04"), formatPlays(s.Plays), s.Source}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func showSnapshot(out io.Writer, dbPath string, id string, format string) error {
	if err := validate.Var(format, "oneof=table yaml json"); err != nil {
		return fmt.Errorf("invalid format %q", format)
	}

	db, err := store.New(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	snap, err := db.Snapshot(id)
	if err != nil {
		return err
	}
	result, err := snap.Result()
	if err != nil {
		return err
	}

	if format == "table" {
		fmt.Fprintf(out, "Snapshot %s of %s\n", snap.ID, snap.Source)
	}
	return writeReport(out, analysis.NewReport(result, 10, snap.Generated.In(time.Local)), format)
}
