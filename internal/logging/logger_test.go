package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestInitJSON(t *testing.T) {
	defer Init(DefaultConfig())

	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})

	l := Logger()
	l.Debug().Str("file", "plays.csv").Msg("loaded")

	out := buf.String()
	if !strings.Contains(out, `"level":"debug"`) || !strings.Contains(out, `"file":"plays.csv"`) {
		t.Errorf("unexpected output: %s", out)
	}
	if strings.Contains(out, `"time"`) {
		t.Errorf("output should not have a timestamp: %s", out)
	}
}

func TestInitFiltersByLevel(t *testing.T) {
	defer Init(DefaultConfig())

	var buf bytes.Buffer
	Init(Config{Level: "error", Format: "json", Output: &buf})

	l := Logger()
	l.Warn().Msg("quiet")
	if buf.Len() != 0 {
		t.Errorf("warn should be filtered at error level, got %s", buf.String())
	}
	l.Error().Msg("loud")
	if !strings.Contains(buf.String(), "loud") {
		t.Errorf("error should be written, got %s", buf.String())
	}
}

func TestInitConsole(t *testing.T) {
	defer Init(DefaultConfig())

	var buf bytes.Buffer
	Init(Config{Level: "info", Format: "console", Output: &buf})

	l := Logger()
	l.Info().Msg("hello")
	if out := buf.String(); !strings.Contains(out, "hello") || strings.HasPrefix(out, "{") {
		t.Errorf("expected console output, got %s", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"", zerolog.WarnLevel},
		{"loud", zerolog.WarnLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.expected {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
		if tt.input != "" && tt.input != "loud" && !ValidLevel(tt.input) {
			t.Errorf("ValidLevel(%q) = false", tt.input)
		}
	}
	if ValidLevel("loud") {
		t.Errorf("ValidLevel(loud) = true")
	}
}
