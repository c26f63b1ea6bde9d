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
	"testing"
)

func TestTopAlbums(t *testing.T) {
	p := mustLoadPeriod(t, testLoadConfig(t, sampleHistory()...))

	analyzer := &TopAlbumsAnalyzer{Config: AnalyserConfig{NumToReturn: 10, FilterThreshold: 1}}
	got, err := analyzer.GetResults(p)
	if err != nil {
		t.Fatalf("GetResults() error: %v", err)
	}

	want := [][]string{
		{"Album", "Artist", "Plays", "Hours"},
		{"Album A", "Artist A", "4", "0.4"},
		{"Album C", "Artist C", "2", "0.2"},
	}
	if !reflect.DeepEqual(got.results, want) {
		t.Errorf("results = %v, want %v", got.results, want)
	}
	if got.summary != "Found 3 albums and 7 plays, all time\n" {
		t.Errorf("summary = %q", got.summary)
	}
}

func TestTopAlbumsForMissingYear(t *testing.T) {
	p := mustLoadPeriod(t, testLoadConfig(t, sampleHistory()...))

	got, err := (&TopAlbumsAnalyzer{Year: "1999"}).GetResults(p)
	if err != nil {
		t.Fatalf("GetResults() error: %v", err)
	}
	if len(got.results) != 1 {
		t.Errorf("results = %v, want only the header", got.results)
	}
	if s := got.String(); s != "No plays found.\nFound 0 albums and 0 plays, all time\n\n" {
		t.Errorf("String() = %q", s)
	}
}
