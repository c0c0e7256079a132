package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestWithContextCarriesAttrs(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, "info", true)

	ctx := ContextWith(context.Background(), "session_id", "abc")
	ctx = ContextWith(ctx, "player", "neo")
	WithContext(ctx).Info("phrase started")

	out := buf.String()
	if !strings.Contains(out, `"session_id":"abc"`) || !strings.Contains(out, `"player":"neo"`) {
		t.Fatalf("log line = %s", out)
	}

	buf.Reset()
	Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug written at info level: %s", buf.String())
	}
}
