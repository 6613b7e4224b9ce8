package utils

import (
	"context"
	"log/slog"
	"testing"
)

func TestNewLoggerParsesLevel(t *testing.T) {
	ctx := context.Background()

	if NewLogger("error").Handler().Enabled(ctx, slog.LevelWarn) {
		t.Error("warn should be suppressed at error level")
	}
	if !NewLogger("error").Handler().Enabled(ctx, slog.LevelError) {
		t.Error("error level should log errors")
	}
	if !NewLogger("WARN").Handler().Enabled(ctx, slog.LevelWarn) {
		t.Error("level names should be case-insensitive")
	}
	if !NewLogger("debug").Handler().Enabled(ctx, slog.LevelDebug) {
		t.Error("debug level should log debug")
	}
}

func TestNewLoggerUnknownLevelDefaultsToInfo(t *testing.T) {
	ctx := context.Background()
	l := NewLogger("bogus")

	if l.Handler().Enabled(ctx, slog.LevelDebug) {
		t.Error("unknown level should not enable debug")
	}
	if !l.Handler().Enabled(ctx, slog.LevelInfo) {
		t.Error("unknown level should fall back to info")
	}
}
