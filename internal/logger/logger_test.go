package logger

import (
	"context"
	"log/slog"
	"testing"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		level    string
		format   string
		expected slog.Level
	}{
		{"debug", "text", slog.LevelDebug},
		{"info", "text", slog.LevelInfo},
		{"warn", "json", slog.LevelWarn},
		{"error", "json", slog.LevelError},
		{"invalid", "text", slog.LevelInfo}, // Defaults to info
		{"", "", slog.LevelInfo},            // Defaults to info, text
	}

	for _, tt := range tests {
		t.Run(tt.level+"/"+tt.format, func(t *testing.T) {
			log := New(tt.level, tt.format)
			if log == nil {
				t.Fatal("expected non-nil logger")
			}
			if !log.Enabled(context.Background(), tt.expected) {
				t.Errorf("expected logger to be enabled at %v", tt.expected)
			}
		})
	}
}
