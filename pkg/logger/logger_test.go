package logger

import (
	"testing"

	"github.com/muchen/fenglin/pkg/config"
)

func TestNew(t *testing.T) {
	cfg := &config.Config{
		Env:       "development",
		LogLevel:  "debug",
		LogFormat: "json",
	}

	log := New(cfg)
	if log == nil {
		t.Fatal("New() returned nil")
	}

	// Should not panic
	log.Debug("debug message")
	log.Info("info message")
	log.Warn("warn message")
	log.Error("error message")
}

func TestNewConsoleFormat(t *testing.T) {
	cfg := &config.Config{
		Env:       "development",
		LogLevel:  "info",
		LogFormat: "console",
	}

	log := New(cfg)
	log.Info("console message")
}

func TestWithFields(t *testing.T) {
	log := NewNop()

	child := log.WithFields(map[string]interface{}{
		"code": "600519.XSHG",
		"day":  3,
	})
	if child == nil {
		t.Fatal("WithFields() returned nil")
	}
	child.Info("with fields")

	child = log.WithField("key", "value").WithError(nil)
	child.Debug("chained")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"debug", "debug"},
		{"info", "info"},
		{"WARN", "warn"},
		{"warning", "warn"},
		{"error", "error"},
		{"unknown", "info"},
	}

	for _, tt := range tests {
		got := parseLogLevel(tt.input)
		if got.String() != tt.want {
			t.Errorf("parseLogLevel(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}
