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
	"strings"
	"testing"
)

func TestListReportsEmpty(t *testing.T) {
	_, dbPath := createTestDb(t)
	out := new(bytes.Buffer)

	if err := listReports(out, dbPath); err != nil {
		t.Fatalf("listReports() error: %v", err)
	}
	if out.String() != "No reports configured.\n" {
		t.Errorf("listReports() = %q", out.String())
	}
}

func TestListReports(t *testing.T) {
	db, dbPath := createTestDb(t)

	err := addReport(dbPath, "monthly", "testuser@gmail.com", 3, []string{"top-artists", "heatmap"},
		map[string]string{"top-artists": "n=5"})
	if err != nil {
		t.Fatalf("addReport() error: %v", err)
	}
	if err := db.MarkReportSent("monthly", "testuser@gmail.com", fixedNow); err != nil {
		t.Fatalf("MarkReportSent() error: %v", err)
	}

	out := new(bytes.Buffer)
	if err := listReports(out, dbPath); err != nil {
		t.Fatalf("listReports() error: %v", err)
	}
	for _, want := range []string{"monthly", "testuser@gmail.com", "top-artists,heatmap", "top-artists=n=5", "2023-07-12"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("listReports() output missing %q:\n%s", want, out.String())
		}
	}
}
