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
	"io"
	"os"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/jnadelneuro/apple-music-history/internal/analysis"
	"github.com/jnadelneuro/apple-music-history/internal/catalog"
	"github.com/jnadelneuro/apple-music-history/internal/export"
	"github.com/jnadelneuro/apple-music-history/internal/logging"
	"github.com/jnadelneuro/apple-music-history/internal/record"
	"github.com/jnadelneuro/apple-music-history/internal/store"
)

// LoadConfig says which files to analyse and over what period.
type LoadConfig struct {
	ActivityPath   string
	LibraryPath    string
	ExclusionsPath string
	DbPath         string
	TraceSong      string

	// Start and End bound the period; either may be zero for an open range.
	Start time.Time
	End   time.Time

	Now func() time.Time
}

func loadConfigFromFlags() LoadConfig {
	return LoadConfig{
		ActivityPath:   viper.GetString("activity"),
		LibraryPath:    viper.GetString("library"),
		ExclusionsPath: viper.GetString("exclusions"),
		DbPath:         viper.GetString("database"),
		TraceSong:      viper.GetString("trace_song"),
	}
}

// Period is the input to every Analyser.
type Period struct {
	Start time.Time
	End   time.Time

	// Current covers the period, Before everything ahead of it, and All the
	// whole history.
	Current *analysis.Result
	Before  *analysis.Result
	All     *analysis.Result

	// Library is nil without a library file.
	Library catalog.Index
}

func (p Period) describe() string {
	const dateFormat = "2006-01-02"
	switch {
	case p.Start.IsZero() && p.End.IsZero():
		return "all time"
	case p.End.IsZero():
		return "since " + p.Start.Format(dateFormat)
	case p.Start.IsZero():
		return "before " + p.End.Format(dateFormat)
	}
	return fmt.Sprintf("%s to %s", p.Start.Format(dateFormat), p.End.Format(dateFormat))
}

func loadPeriod(config LoadConfig) (Period, error) {
	p := Period{Start: config.Start, End: config.End}
	if config.ActivityPath == "" {
		return p, fmt.Errorf("required flag(s) \"activity\" not set")
	}

	rows, err := readFile(config.ActivityPath, export.ReadActivity)
	if err != nil {
		return p, err
	}

	log := logging.Logger()

	var index catalog.Index
	if config.LibraryPath != "" {
		library, err := readFile(config.LibraryPath, export.ReadLibrary)
		switch {
		case errors.Is(err, export.ErrNotAList):
			log.Warn().Str("file", config.LibraryPath).Err(err).Msg("Ignoring library")
		case err != nil:
			return p, err
		}
		// An empty library is the same as none.
		if entries := catalog.Entries(library); len(entries) > 0 {
			index = catalog.BuildIndex(entries)
		}
	}
	p.Library = index

	exclusions, err := loadExclusions(config)
	if err != nil {
		return p, err
	}

	opts := analysis.Options{Now: config.Now, Logger: &log, TraceSong: config.TraceSong}
	p.All = analysis.Aggregate(rows, exclusions, index, opts)
	if config.Start.IsZero() && config.End.IsZero() {
		p.Current = p.All
		p.Before = analysis.Aggregate(nil, exclusions, nil, opts)
		return p, nil
	}

	// Only the whole history is traced.
	opts.TraceSong = ""
	current := export.FilterSince(rows, config.Start)
	if !config.End.IsZero() {
		current = export.FilterBetween(rows, config.Start, config.End)
	}
	p.Current = analysis.Aggregate(current, exclusions, index, opts)
	if config.Start.IsZero() {
		p.Before = analysis.Aggregate(nil, exclusions, nil, opts)
	} else {
		p.Before = analysis.Aggregate(export.FilterBetween(rows, time.Time{}, config.Start), exclusions, index, opts)
	}
	return p, nil
}

func readFile(path string, read func(io.Reader) ([]record.Row, error)) ([]record.Row, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("expanding %q: %w", path, err)
	}
	f, err := os.Open(expanded)
	if err != nil {
		return nil, fmt.Errorf("opening %q: %w", path, err)
	}
	defer f.Close()

	rows, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// loadExclusions merges the stored exclusions with those in the exclusions
// file, stored ones first.
func loadExclusions(config LoadConfig) ([]string, error) {
	var keys []string
	if config.DbPath != "" {
		db, err := store.New(config.DbPath)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		keys, err = db.ExclusionKeys()
		if err != nil {
			return nil, err
		}
	}

	if config.ExclusionsPath != "" {
		path, err := homedir.Expand(config.ExclusionsPath)
		if err != nil {
			return nil, fmt.Errorf("expanding %q: %w", config.ExclusionsPath, err)
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %q: %w", config.ExclusionsPath, err)
		}
		defer f.Close()
		fromFile, err := export.ReadExclusions(f)
		if err != nil {
			return nil, err
		}
		keys = append(keys, fromFile...)
	}

	seen := make(map[string]bool, len(keys))
	merged := keys[:0]
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			merged = append(merged, k)
		}
	}
	return merged, nil
}
