package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

// Logger Tests
// ============================================================================

// TestLogger_LevelFilter verifies messages below the configured level are
// suppressed.
func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf,
		WithLevel(LevelWarn),
		WithPretty(false),
	)

	logger.Trace("trace msg")
	logger.Debug("debug msg")
	logger.Info("info msg")
	logger.Warn("warn msg")
	logger.Error("error msg")

	out := buf.String()

	for _, absent := range []string{"trace msg", "debug msg", "info msg"} {
		if strings.Contains(out, absent) {
			t.Errorf("output contains suppressed %q", absent)
		}
	}

	for _, present := range []string{"warn msg", "error msg"} {
		if !strings.Contains(out, present) {
			t.Errorf("output missing %q", present)
		}
	}
}

// TestLogger_TraceLevel verifies trace sits below debug and renders by name.
func TestLogger_TraceLevel(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf,
		WithLevel(LevelTrace),
		WithPretty(false),
	)

	logger.Trace("very detailed")

	out := buf.String()

	if !strings.Contains(out, "very detailed") {
		t.Fatalf("output = %q, missing trace message", out)
	}

	if !strings.Contains(out, "TRACE") {
		t.Errorf("output = %q, trace level not rendered by name", out)
	}

	if strings.Contains(out, "DEBUG-4") {
		t.Errorf("output = %q, slog offset leaked", out)
	}
}

// TestLogger_JSONFormat verifies the JSON handler emits parseable objects.
func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf,
		WithFormat(FormatJSON),
		WithPretty(false),
		WithTimeLayout("none"),
	)

	logger.Info("structured", slog.String("key", "value"), slog.Int("n", 7))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output %q is not JSON: %v", buf.String(), err)
	}

	if record["msg"] != "structured" {
		t.Errorf(`msg = %v, want "structured"`, record["msg"])
	}

	if record["key"] != "value" {
		t.Errorf(`key = %v, want "value"`, record["key"])
	}

	if record["n"] != float64(7) {
		t.Errorf("n = %v, want 7", record["n"])
	}
}

// TestLogger_ZeroValue verifies the zero value discards everything without
// panicking.
func TestLogger_ZeroValue(t *testing.T) {
	var logger Logger

	logger.Trace("a")
	logger.Debug("b")
	logger.Info("c")
	logger.Warn("d")
	logger.Error("e", slog.String("k", "v"))
	logger.InfoContext(context.Background(), "f")
}

// TestLogger_Wrap verifies Wrap derives a logger with revised options while
// the original is untouched.
func TestLogger_Wrap(t *testing.T) {
	var buf bytes.Buffer

	base := Make(&buf, WithPretty(false))
	verbose := base.Wrap(WithLevel(LevelTrace))

	if base.Level() != DefaultLevel {
		t.Errorf("base level = %v, want %v", base.Level(), DefaultLevel)
	}

	if verbose.Level() != LevelTrace {
		t.Errorf("wrapped level = %v, want %v", verbose.Level(), LevelTrace)
	}

	verbose.Trace("from wrapped")

	if !strings.Contains(buf.String(), "from wrapped") {
		t.Error("wrapped logger did not write to shared output")
	}
}

// TestLogger_With verifies bound attributes appear on every record.
func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithPretty(false)).
		With(slog.String("component", "compiler"))

	logger.Info("first")
	logger.Info("second")

	out := buf.String()
	if got := strings.Count(out, "component=compiler"); got != 2 {
		t.Errorf("bound attribute appears %d times, want 2\n%s", got, out)
	}
}

// TestLogger_Pretty verifies the pretty handler writes the message and
// key=value fields.
func TestLogger_Pretty(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithPretty(true), WithTimeLayout("none"))

	logger.Info("pretty msg", slog.String("key", "value"))

	out := buf.String()

	if !strings.Contains(out, "pretty msg") {
		t.Errorf("output = %q, missing message", out)
	}

	if !strings.Contains(out, "key") || !strings.Contains(out, "value") {
		t.Errorf("output = %q, missing attribute", out)
	}
}

// TestParseLevel verifies level parsing including the trace extension.
func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"bogus", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

// TestParseFormat verifies format parsing falls back to the default.
func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{" text ", FormatText},
		{"yaml", DefaultFormat},
		{"", DefaultFormat},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseFormat(tt.in); got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

// TestLevels verifies the iterator yields every level name in order.
func TestLevels(t *testing.T) {
	var names []string
	for name := range Levels() {
		names = append(names, name)
	}

	want := []string{"trace", "debug", "info", "warn", "error"}
	if len(names) != len(want) {
		t.Fatalf("Levels() = %v, want %v", names, want)
	}

	for i, name := range want {
		if names[i] != name {
			t.Errorf("Levels()[%d] = %q, want %q", i, names[i], name)
		}
	}
}
