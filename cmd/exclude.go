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

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jnadelneuro/apple-music-history/internal/analysis"
	"github.com/jnadelneuro/apple-music-history/internal/store"
)

var excludeArtist string

var excludeCmd = &cobra.Command{
	Use:   "exclude",
	Short: "Manages songs left out of listening statistics",
	Long: `Excluded songs still appear in top-songs --include_excluded, but count
towards nothing else. Songs are given as "'<song>' by <artist>", or as the
song name with --artist.`,
}

var excludeAddCmd = &cobra.Command{
	Use:   "add <song>",
	Short: "Excludes a song",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := addExclusion(os.Stdout, viper.GetString("database"), exclusionKey(args[0], excludeArtist))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

var excludeRemoveCmd = &cobra.Command{
	Use:   "remove <song>",
	Short: "Stops excluding a song",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := removeExclusion(os.Stdout, viper.GetString("database"), exclusionKey(args[0], excludeArtist))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

var excludeListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists excluded songs",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		err := listExclusions(os.Stdout, viper.GetString("database"))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(excludeCmd)
	excludeCmd.AddCommand(excludeAddCmd, excludeRemoveCmd, excludeListCmd)

	excludeCmd.PersistentFlags().StringVar(&excludeArtist, "artist", "", "Artist of the song")
}

func exclusionKey(song, artist string) string {
	if artist == "" {
		return song
	}
	return analysis.SongKey(song, artist)
}

func addExclusion(out io.Writer, dbPath string, key string) error {
	db, err := store.New(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.AddExclusion(key); err != nil {
		return err
	}
	fmt.Fprintf(out, "Excluded %s\n", key)
	return nil
}

func removeExclusion(out io.Writer, dbPath string, key string) error {
	db, err := store.New(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.RemoveExclusion(key); err != nil {
		return err
	}
	fmt.Fprintf(out, "No longer excluding %s\n", key)
	return nil
}

func listExclusions(out io.Writer, dbPath string) error {
	db, err := store.New(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	exclusions, err := db.Exclusions()
	if err != nil {
		return err
	}
	if len(exclusions) == 0 {
		fmt.Fprintln(out, "No songs excluded.")
		return nil
	}

	table := tablewriter.NewWriter(out)
	table.Header([]string{"Song", "Added"})
	for _, e := range exclusions {
		if err := table.Append([]string{e.Key, e.Added.Format("2006-01-02")}); err != nil {
			return err
		}
	}
	return table.Render()
}
