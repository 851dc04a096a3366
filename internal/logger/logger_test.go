package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestConsoleHandler_Attrs(t *testing.T) {
	var buf bytes.Buffer
	opts := &slog.HandlerOptions{Level: LevelDebug}
	h := NewConsoleHandler(&buf, opts, false)
	l := slog.New(h)

	t.Run("WithAttrs", func(t *testing.T) {
		buf.Reset()
		l2 := l.With("bridge_id", "abc-123")
		l2.Info("dictionary loaded", "entries", 42)

		output := buf.String()
		if !strings.Contains(output, "bridge_id=") || !strings.Contains(output, "abc-123") {
			t.Errorf("output missing persistent attr: %q", output)
		}
		if !strings.Contains(output, "entries=") || !strings.Contains(output, "42") {
			t.Errorf("output missing record attr: %q", output)
		}
	})

	t.Run("WithGroup", func(t *testing.T) {
		buf.Reset()
		l2 := l.WithGroup("ring").With("slots", 1024)
		l2.Info("serving", "pair", "en_it")

		output := buf.String()
		if !strings.Contains(output, "ring.slots=") || !strings.Contains(output, "1024") {
			t.Errorf("output missing grouped persistent attr: %q", output)
		}
		if !strings.Contains(output, "ring.pair=") || !strings.Contains(output, "en_it") {
			t.Errorf("output missing grouped record attr: %q", output)
		}
	})

	t.Run("LevelFilter", func(t *testing.T) {
		buf.Reset()
		filtered := slog.New(NewConsoleHandler(&buf, &slog.HandlerOptions{Level: LevelWarn}, false))
		filtered.Info("should not appear")
		filtered.Warn("should appear")

		output := buf.String()
		if strings.Contains(output, "should not appear") {
			t.Errorf("info record leaked past warn filter: %q", output)
		}
		if !strings.Contains(output, "should appear") {
			t.Errorf("warn record missing: %q", output)
		}
	})
}

func TestTeeHandler_WritesBoth(t *testing.T) {
	var console, file bytes.Buffer
	opts := &slog.HandlerOptions{Level: LevelDebug}
	tee := &teeHandler{handlers: []slog.Handler{
		NewConsoleHandler(&console, opts, false),
		slog.NewJSONHandler(&file, opts),
	}}
	l := slog.New(tee)
	l.Info("reload complete", "path", "dict.json")

	if !strings.Contains(console.String(), "reload complete") {
		t.Errorf("console output missing record: %q", console.String())
	}
	if !strings.Contains(file.String(), `"path":"dict.json"`) {
		t.Errorf("json output missing attr: %q", file.String())
	}
}

func TestNoColorWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	h := NewConsoleHandler(&buf, &slog.HandlerOptions{Level: LevelDebug}, false)
	slog.New(h).Error("plain")
	if strings.Contains(buf.String(), "\033[") {
		t.Errorf("expected no ANSI escapes without color: %q", buf.String())
	}
}
