package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestTruncatingHandler(t *testing.T) {
	t.Parallel()

	t.Run("short values pass through", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(NewTruncatingHandler(slog.NewTextHandler(&buf, nil), 32))

		logger.Info("page fetched", "url", "https://example.org/sutta/17")

		if !strings.Contains(buf.String(), "https://example.org/sutta/17") {
			t.Errorf("short value should be untouched: %s", buf.String())
		}
		if strings.Contains(buf.String(), Ellipsis) {
			t.Errorf("short value should not be marked truncated: %s", buf.String())
		}
	})

	t.Run("long values truncated with ellipsis", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(NewTruncatingHandler(slog.NewTextHandler(&buf, nil), 16))

		logger.Info("extracted", "text", strings.Repeat("a", 100))

		out := buf.String()
		if strings.Contains(out, strings.Repeat("a", 17)) {
			t.Errorf("value should be cut at 16 bytes: %s", out)
		}
		if !strings.Contains(out, Ellipsis) {
			t.Errorf("truncated value should carry ellipsis: %s", out)
		}
	})

	t.Run("multibyte text cut on rune boundary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(NewTruncatingHandler(slog.NewTextHandler(&buf, nil), 10))

		// Sinhala runes are 3 bytes each; 10 is not a multiple of 3
		logger.Info("extracted", "text", strings.Repeat("අ", 50))

		out := buf.String()
		if strings.Contains(out, "�") {
			t.Errorf("output contains a mangled rune: %s", out)
		}
		if !strings.Contains(out, Ellipsis) {
			t.Errorf("long value should be truncated: %s", out)
		}
	})

	t.Run("non string attributes untouched", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(NewTruncatingHandler(slog.NewTextHandler(&buf, nil), 4))

		logger.Info("progress", "sutta_id", 123456789)

		if !strings.Contains(buf.String(), "123456789") {
			t.Errorf("integer attribute should be untouched: %s", buf.String())
		}
	})

	t.Run("group attributes trimmed recursively", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(NewTruncatingHandler(slog.NewTextHandler(&buf, nil), 8))

		logger.Info("batch",
			slog.Group("page",
				slog.String("title", strings.Repeat("x", 40)),
				slog.Int("id", 17),
			),
		)

		out := buf.String()
		if strings.Contains(out, strings.Repeat("x", 9)) {
			t.Errorf("grouped string should be truncated: %s", out)
		}
		if !strings.Contains(out, "id=17") {
			t.Errorf("grouped int should survive: %s", out)
		}
	})

	t.Run("with attrs trims bound attributes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		handler := NewTruncatingHandler(slog.NewTextHandler(&buf, nil), 8)
		logger := slog.New(handler).With("bound", strings.Repeat("y", 40))

		logger.Info("message")

		if strings.Contains(buf.String(), strings.Repeat("y", 9)) {
			t.Errorf("bound attribute should be truncated: %s", buf.String())
		}
	})

	t.Run("enabled delegates to wrapped handler", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})
		handler := NewTruncatingHandler(inner, 64)

		if handler.Enabled(context.Background(), slog.LevelDebug) {
			t.Error("debug should be disabled at warn level")
		}
		if !handler.Enabled(context.Background(), slog.LevelError) {
			t.Error("error should be enabled at warn level")
		}
	})
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("default level is warn", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, false)

		logger.Debug("hidden")
		logger.Info("hidden too")
		logger.Warn("visible")

		out := buf.String()
		if strings.Contains(out, "hidden") {
			t.Errorf("info/debug should be suppressed: %s", out)
		}
		if !strings.Contains(out, "visible") {
			t.Errorf("warnings should be logged: %s", out)
		}
	})

	t.Run("verbose enables debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, true)

		logger.Debug("now visible")

		if !strings.Contains(buf.String(), "now visible") {
			t.Errorf("debug should be logged in verbose mode: %s", buf.String())
		}
	})
}

func TestNewJSONLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, true)

	logger.Info("structured", "key", "value")

	out := buf.String()
	if !strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Errorf("output should be JSON: %s", out)
	}
	if !strings.Contains(out, `"key":"value"`) {
		t.Errorf("attribute missing: %s", out)
	}
}
