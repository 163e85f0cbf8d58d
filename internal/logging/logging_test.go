package logging

import (
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"info", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"fatal", log.FatalLevel},
		{"", log.InfoLevel},
		{"bogus", log.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFormatter(t *testing.T) {
	tests := []struct {
		in   string
		want log.Formatter
	}{
		{"json", log.JSONFormatter},
		{"logfmt", log.LogfmtFormatter},
		{"text", log.TextFormatter},
		{"", log.TextFormatter},
	}
	for _, tt := range tests {
		if got := ParseFormatter(tt.in); got != tt.want {
			t.Errorf("ParseFormatter(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewFromConfigDebugOverride(t *testing.T) {
	var b strings.Builder
	logger := NewFromConfig(&b, "error", "text", true)
	logger.Debug("traced")
	if !strings.Contains(b.String(), "traced") {
		t.Errorf("debug message suppressed with debug override: %q", b.String())
	}

	b.Reset()
	logger = NewFromConfig(&b, "error", "text", false)
	logger.Debug("hidden")
	if strings.Contains(b.String(), "hidden") {
		t.Errorf("debug message emitted at error level: %q", b.String())
	}
}
