// Package export reads the files in an Apple Music data export: the play
// activity CSV and the library JSON. It also reads plain-text exclusion
// lists.
package export

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/jnadelneuro/apple-music-history/internal/activity"
	"github.com/jnadelneuro/apple-music-history/internal/logging"
	"github.com/jnadelneuro/apple-music-history/internal/record"
)

var (
	// ErrNoHeader is returned for an activity file without a header row.
	ErrNoHeader = errors.New("activity file has no header row")

	// ErrNotAList is returned when a library file is not a JSON array.
	ErrNotAList = errors.New("library file is not a list of tracks")
)

// ReadActivity reads a play activity CSV. The first row names the columns.
// Blank lines are skipped, and rows shorter than the header leave the
// remaining columns absent rather than empty.
func ReadActivity(r io.Reader) ([]record.Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("reading activity header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	log := logging.Logger()
	if artists := artistColumns(header); len(artists) == 0 {
		log.Warn().Msg("No artist columns in activity file; artists will come from the library or be unknown")
	} else {
		log.Debug().Strs("columns", artists).Msg("Found artist columns")
	}

	var rows []record.Row
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading activity: %w", err)
		}

		row := make(record.Row, len(header))
		for i, value := range fields {
			if i >= len(header) {
				break
			}
			row[header[i]] = value
		}
		rows = append(rows, row)
	}

	log.Debug().Int("columns", len(header)).Int("rows", len(rows)).Msg("Read activity")
	return rows, nil
}

func artistColumns(header []string) []string {
	var columns []string
	for _, h := range header {
		if strings.Contains(strings.ToLower(h), "artist") {
			columns = append(columns, h)
		}
	}
	return columns
}

// ReadLibrary reads a library JSON file: an array of track objects. String,
// number and boolean values are kept as strings; nested values and nulls are
// dropped.
func ReadLibrary(r io.Reader) ([]record.Row, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var top interface{}
	if err := decoder.Decode(&top); err != nil {
		return nil, fmt.Errorf("reading library: %w", err)
	}

	items, ok := top.([]interface{})
	if !ok {
		return nil, ErrNotAList
	}

	rows := make([]record.Row, 0, len(items))
	for _, item := range items {
		object, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		row := make(record.Row, len(object))
		for key, value := range object {
			if s, ok := stringValue(value); ok {
				row[key] = s
			}
		}
		rows = append(rows, row)
	}

	log := logging.Logger()
	log.Debug().Int("tracks", len(rows)).Msg("Read library")
	return rows, nil
}

func stringValue(v interface{}) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	}
	return "", false
}

// ReadExclusions reads one song key per line. Blank lines and lines starting
// with # are ignored.
func ReadExclusions(r io.Reader) ([]string, error) {
	var keys []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		keys = append(keys, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading exclusions: %w", err)
	}
	return keys, nil
}

// FilterSince keeps rows whose end or start timestamp is at or after since.
// Rows with neither timestamp readable are dropped.
func FilterSince(rows []record.Row, since time.Time) []record.Row {
	return FilterBetween(rows, since, time.Time{})
}

// FilterBetween keeps rows whose end or start timestamp is in [start, end).
// A zero end leaves the range open.
func FilterBetween(rows []record.Row, start, end time.Time) []record.Row {
	var kept []record.Row
	for _, row := range rows {
		for _, field := range []string{activity.FieldEndTimestamp, activity.FieldStartTimestamp} {
			value, ok := row.Get(field)
			if !ok {
				continue
			}
			t, err := activity.ParseTimestamp(value)
			if err == nil && !t.Before(start) && (end.IsZero() || t.Before(end)) {
				kept = append(kept, row)
				break
			}
		}
	}
	return kept
}
