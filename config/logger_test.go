package config

import (
	"context"
	"log/slog"
	"testing"
)

func TestNewLogger_Level(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	l := NewLogger(&Config{LogLevel: "warn", LogFormat: "json"})
	if l.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	if !l.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("warn should be enabled at warn level")
	}
	if slog.Default() != l {
		t.Error("logger should be installed as default")
	}
}
