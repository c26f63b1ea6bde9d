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
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// fakeSender replies with statuses in order, then 202 forever.
type fakeSender struct {
	statuses []int
	sent     []*mail.SGMailV3
}

func (f *fakeSender) Send(email *mail.SGMailV3) (*rest.Response, error) {
	f.sent = append(f.sent, email)
	status := 202
	if len(f.statuses) > 0 {
		status, f.statuses = f.statuses[0], f.statuses[1:]
	}
	return &rest.Response{StatusCode: status, Body: "body"}, nil
}

func useFakeSender(t *testing.T, f *fakeSender) {
	t.Helper()
	oldSender, oldDelay := newSender, sendRetryDelay
	newSender = func(string) emailSender { return f }
	sendRetryDelay = 0
	t.Cleanup(func() {
		newSender, sendRetryDelay = oldSender, oldDelay
	})
}

var year2023 = [2]time.Time{
	time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
}

func TestGenerateEmailContent(t *testing.T) {
	plays := append(sampleHistory(), testPlay{"Bridge", "Simon & Garfunkel", "Bridge", "2023-02-01T12:00:00Z", ""})
	config := SendEmailConfig{
		Load:       testLoadConfig(t, plays...),
		ReportName: "monthly",
		Start:      year2023[0],
		End:        year2023[1],
	}
	load := config.Load
	load.Start, load.End = config.Start, config.End
	p := mustLoadPeriod(t, load)

	actions := []Analyser{&TopArtistsAnalyzer{}, &TopNAnalyzer{Artists: 1}}
	subject, body, err := generateEmailContent(config, actions, p)
	if err != nil {
		t.Fatalf("generateEmailContent() error: %v", err)
	}

	if want := "Listening report 2023-01-01 to 2024-01-01: monthly"; subject != want {
		t.Errorf("subject = %q, want %q", subject, want)
	}
	for _, want := range []string{
		"<h2>Top artists 2023-01-01 to 2024-01-01:</h2>",
		"<th>Artist</th>",
		"<tbody>",
		"<td>Artist A</td>",
		"<td>Simon &amp; Garfunkel</td>",
		"<h2>Top N 2023-01-01 to 2024-01-01:</h2>",
		"<pre>Music Taste Report",
		"1. Artist A (3)",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
	if strings.Contains(body, "Artist C") {
		t.Errorf("body should not include 2022 plays:\n%s", body)
	}
}

func TestGenerateEmailContentNoPlays(t *testing.T) {
	config := SendEmailConfig{
		Load:  testLoadConfig(t, sampleHistory()...),
		Start: time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2010, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	load := config.Load
	load.Start, load.End = config.Start, config.End
	p := mustLoadPeriod(t, load)

	subject, body, err := generateEmailContent(config, []Analyser{&TopSongsAnalyzer{}}, p)
	if err != nil {
		t.Fatalf("generateEmailContent() error: %v", err)
	}
	if subject != "Listening report 2010-01-01 to 2010-02-01" {
		t.Errorf("subject = %q", subject)
	}
	if !strings.Contains(body, "<div>No plays found.</div>") {
		t.Errorf("body should say no plays were found:\n%s", body)
	}
}

func TestGenerateEmailContentError(t *testing.T) {
	config := SendEmailConfig{Load: testLoadConfig(t, sampleHistory()...)}
	p := mustLoadPeriod(t, config.Load)

	_, _, err := generateEmailContent(config, []Analyser{&MatchAnalyzer{}}, p)
	if err == nil || !strings.Contains(err.Error(), "Library match") {
		t.Errorf("generateEmailContent() = %v, want an error naming the analysis", err)
	}
}

func TestDeliverRetriesServerErrors(t *testing.T) {
	f := &fakeSender{statuses: []int{503}}
	useFakeSender(t, f)

	if err := deliver(f, "from@example.com", "to@example.com", "subject", "<p>body</p>"); err != nil {
		t.Fatalf("deliver() error: %v", err)
	}
	if len(f.sent) != 2 {
		t.Errorf("sent %d times, want 2", len(f.sent))
	}
	if f.sent[0].Subject != "subject" {
		t.Errorf("Subject = %q", f.sent[0].Subject)
	}
}

func TestDeliverGivesUpOnClientErrors(t *testing.T) {
	f := &fakeSender{statuses: []int{400}}
	useFakeSender(t, f)

	err := deliver(f, "from@example.com", "to@example.com", "subject", "body")
	var serr *sendError
	if !errors.As(err, &serr) || serr.StatusCode != 400 {
		t.Fatalf("deliver() = %v, want a 400 sendError", err)
	}
	if len(f.sent) != 1 {
		t.Errorf("sent %d times, want 1", len(f.sent))
	}
}

func TestDeliverStopsAfterThreeAttempts(t *testing.T) {
	f := &fakeSender{statuses: []int{500, 502, 503, 504}}
	useFakeSender(t, f)

	if err := deliver(f, "from@example.com", "to@example.com", "subject", "body"); err == nil {
		t.Fatal("deliver() should have errored")
	}
	if len(f.sent) != 3 {
		t.Errorf("sent %d times, want 3", len(f.sent))
	}
}

func TestSendEmail(t *testing.T) {
	f := &fakeSender{}
	useFakeSender(t, f)

	config := SendEmailConfig{
		Load:   testLoadConfig(t, sampleHistory()...),
		From:   "from@example.com",
		To:     "to@example.com",
		Types:  []string{"top-songs", "years"},
		Params: []map[string]string{{"n": "1"}},
		APIKey: "key",
		Start:  year2023[0],
		End:    year2023[1],
	}
	if err := sendEmail(config); err != nil {
		t.Fatalf("sendEmail() error: %v", err)
	}
	if len(f.sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(f.sent))
	}

	config.APIKey = ""
	if err := sendEmail(config); err == nil {
		t.Error("sendEmail() without an API key should have errored")
	}

	config.DryRun = true
	if err := sendEmail(config); err != nil {
		t.Errorf("sendEmail() dry run error: %v", err)
	}
	if len(f.sent) != 1 {
		t.Errorf("dry run should not send, sent %d emails", len(f.sent))
	}
}

func TestSendEmailBadParams(t *testing.T) {
	config := SendEmailConfig{
		Load:   testLoadConfig(t, sampleHistory()...),
		Types:  []string{"top-songs"},
		Params: []map[string]string{{"n": "lots"}},
		DryRun: true,
	}
	if err := sendEmail(config); err == nil || !strings.Contains(err.Error(), "top-songs") {
		t.Errorf("sendEmail() = %v, want an error naming top-songs", err)
	}

	config.Types = []string{"not-real"}
	if err := sendEmail(config); err == nil {
		t.Error("sendEmail() with an unknown analysis should have errored")
	}
}

func TestSplitDateArgs(t *testing.T) {
	for _, tt := range []struct {
		args      []string
		wantRest  []string
		wantDates []string
	}{
		{[]string{"top-artists"}, []string{"top-artists"}, nil},
		{[]string{"top-artists", "2023"}, []string{"top-artists"}, []string{"2023"}},
		{[]string{"top-artists", "heatmap", "2023-01", "2023-06"}, []string{"top-artists", "heatmap"}, []string{"2023-01", "2023-06"}},
		{[]string{"2021", "2022", "2023"}, []string{"2021"}, []string{"2022", "2023"}},
	} {
		rest, dates := splitDateArgs(tt.args)
		if !reflect.DeepEqual(rest, tt.wantRest) || !reflect.DeepEqual(dates, tt.wantDates) {
			t.Errorf("splitDateArgs(%v) = %v, %v, want %v, %v", tt.args, rest, dates, tt.wantRest, tt.wantDates)
		}
	}
}

func TestPreviousMonth(t *testing.T) {
	start, end := previousMonth(time.Date(2023, 1, 15, 10, 0, 0, 0, time.UTC))
	if want := time.Date(2022, 12, 1, 0, 0, 0, 0, time.UTC); !start.Equal(want) {
		t.Errorf("start = %v, want %v", start, want)
	}
	if want := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC); !end.Equal(want) {
		t.Errorf("end = %v, want %v", end, want)
	}
}

func TestGetActionFromName(t *testing.T) {
	for _, name := range actionNames {
		if _, err := getActionFromName(name); err != nil {
			t.Errorf("getActionFromName(%q) error: %v", name, err)
		}
	}
	if _, err := getActionFromName("top-genres"); err == nil {
		t.Error("getActionFromName(top-genres) should have errored")
	}
}
