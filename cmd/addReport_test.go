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
	"reflect"
	"strings"
	"testing"
)

func TestAddReport(t *testing.T) {
	db, dbPath := createTestDb(t)

	err := addReport(dbPath, "test report", "testuser@gmail.com", 1, []string{"top-albums", "top-artists"},
		map[string]string{"top-artists": "n=20;min=5"})
	if err != nil {
		t.Fatalf("addReport() error: %v", err)
	}

	reports, err := db.Reports()
	if err != nil {
		t.Fatalf("Reports() error: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("Reports() = %+v, want one report", reports)
	}
	got := reports[0]
	if got.Name != "test report" || got.Email != "testuser@gmail.com" || got.RunDay != 1 {
		t.Errorf("report = %+v", got)
	}
	if want := []string{"top-albums", "top-artists"}; !reflect.DeepEqual(got.Types, want) {
		t.Errorf("Types = %v, want %v", got.Types, want)
	}
	if want := map[string]string{"n": "20", "min": "5"}; !reflect.DeepEqual(got.Params["top-artists"], want) {
		t.Errorf("Params[top-artists] = %v, want %v", got.Params["top-artists"], want)
	}
}

func TestAddReportInvalidAction(t *testing.T) {
	invalidAction := "not-real"

	_, dbPath := createTestDb(t)

	err := addReport(dbPath, "test report", "testuser@gmail.com", 1, []string{invalidAction}, nil)
	if err == nil {
		t.Fatalf("addReport should have failed with invalid action")
	}
	if !strings.Contains(err.Error(), invalidAction) {
		t.Fatalf("Should have error with invalid action (%q): %v", invalidAction, err)
	}
}

func TestAddReportInvalidFields(t *testing.T) {
	_, dbPath := createTestDb(t)

	for _, tt := range []struct {
		name, email string
		runDay      int
	}{
		{"bad email", "testuser", 1},
		{"", "testuser@gmail.com", 1},
		{"bad day", "testuser@gmail.com", 32},
		{"no day", "testuser@gmail.com", 0},
	} {
		if err := addReport(dbPath, tt.name, tt.email, tt.runDay, []string{"top-artists"}, nil); err == nil {
			t.Errorf("addReport(%q, %q, %d) should have errored", tt.name, tt.email, tt.runDay)
		}
	}
}

func TestParseReportParams(t *testing.T) {
	got := parseReportParams(map[string]string{
		"top-songs": "year=2023;include_excluded=true",
		"forgotten": "sort=plays;bogus",
	})
	want := map[string]map[string]string{
		"top-songs": {"year": "2023", "include_excluded": "true"},
		"forgotten": {"sort": "plays"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseReportParams() = %v, want %v", got, want)
	}
	if s := formatReportParams(got); s != "forgotten=sort=plays,top-songs=include_excluded=true;year=2023" {
		t.Errorf("formatReportParams() = %q", s)
	}
}
