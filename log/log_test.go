package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

type loggedError struct{ msg string }

func (e loggedError) Error() string { return e.msg }

func (e loggedError) LogValue() slog.Value {
	return slog.GroupValue(slog.String("error", e.msg), slog.String("kind", "NameError"))
}

func TestMake_Defaults(t *testing.T) {
	var buf bytes.Buffer
	l := Make(&buf)

	if l.Level() != DefaultLevel {
		t.Errorf("Level() = %v, want %v", l.Level(), DefaultLevel)
	}

	if l.Format() != DefaultFormat {
		t.Errorf("Format() = %v, want %v", l.Format(), DefaultFormat)
	}

	if l.caller || !l.pretty {
		t.Errorf("caller = %v, pretty = %v", l.caller, l.pretty)
	}

	if l.Writer() != &buf {
		t.Error("Writer() is not the configured output")
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name   string
		log    func(Logger, string, ...slog.Attr)
		floor  Level
		logged bool
	}{
		{"trace at trace", (Logger).Trace, LevelTrace, true},
		{"trace at debug", (Logger).Trace, LevelDebug, false},
		{"debug at info", (Logger).Debug, LevelInfo, false},
		{"info at info", (Logger).Info, LevelInfo, true},
		{"warn at error", (Logger).Warn, LevelError, false},
		{"error at warn", (Logger).Error, LevelWarn, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(Make(&buf, WithLevel(tt.floor), WithPretty(false)), "message")

			if got := buf.Len() > 0; got != tt.logged {
				t.Errorf("logged = %v, want %v: %q", got, tt.logged, buf.String())
			}
		})
	}
}

func TestLogger_Enabled(t *testing.T) {
	var zero Logger
	if zero.Enabled(t.Context(), LevelError) {
		t.Error("zero Logger reports enabled")
	}

	l := Make(&bytes.Buffer{}, WithLevel(LevelDebug))

	tests := []struct {
		level Level
		want  bool
	}{
		{LevelTrace, false},
		{LevelDebug, true},
		{LevelError, true},
	}

	for _, tt := range tests {
		if got := l.Enabled(t.Context(), tt.level); got != tt.want {
			t.Errorf("Enabled(%v) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := Make(&buf, WithLevel(LevelTrace), WithFormat(FormatJSON), WithPretty(false))
	l.With(slog.String("phase", "expand")).TraceContext(t.Context(), "unquote", slog.Int("depth", 2))

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}

	want := map[string]any{
		"level": "TRACE",
		"msg":   "unquote",
		"phase": "expand",
		"depth": 2.0,
	}

	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %v, want %v", k, got[k], v)
		}
	}
}

func TestLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	l := Make(&buf, WithFormat(FormatText), WithPretty(false), WithTimeLayout("none"))
	l.Info("bound", slog.String("name", "x"))

	out := buf.String()
	if strings.Contains(out, "time=") {
		t.Errorf("timestamp not omitted: %q", out)
	}

	for _, s := range []string{"level=INFO", "msg=bound", "name=x"} {
		if !strings.Contains(out, s) {
			t.Errorf("missing %q in %q", s, out)
		}
	}
}

func TestLogger_Caller(t *testing.T) {
	var buf bytes.Buffer
	Make(&buf, WithCaller(true), WithPretty(false)).Info("here")

	if !strings.Contains(buf.String(), "log_test.go") {
		t.Errorf("source not reported: %q", buf.String())
	}

	buf.Reset()
	Make(&buf, WithPretty(false)).Info("here")

	if strings.Contains(buf.String(), "source") {
		t.Errorf("source reported when disabled: %q", buf.String())
	}
}

func TestLogger_Pretty(t *testing.T) {
	tests := []struct {
		format Format
		want   []string
	}{
		{FormatText, []string{"level=WARN", "msg=call failed", "name=f", "err.kind=NameError", "ctx.depth=3"}},
		{FormatJSON, []string{"{\n", "  level: WARN", "  msg: call failed", "  err.kind: NameError", "  ctx.depth: 3", "\n}\n"}},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			l := Make(&buf, WithFormat(tt.format), WithPretty(true), WithTimeLayout(""))
			l = l.With(slog.String("name", "f"))
			l.Warn("call failed",
				slog.Any("err", loggedError{"unbound symbol"}),
				slog.Group("ctx", slog.Int("depth", 3)),
			)

			out := buf.String()
			for _, s := range tt.want {
				if !strings.Contains(out, s) {
					t.Errorf("missing %q in %q", s, out)
				}
			}
		})
	}
}

func TestLogger_ZeroValue(t *testing.T) {
	var l Logger

	l.Trace("dropped")
	l.ErrorContext(t.Context(), "dropped", slog.Any("err", errors.New("x")))

	if got := l.With(slog.String("k", "v")); got.Logger != nil {
		t.Error("With on zero Logger built a handler")
	}

	if l.Level() != DefaultLevel || l.Format() != DefaultFormat {
		t.Error("zero Logger does not report defaults")
	}

	var buf bytes.Buffer
	w := l.Wrap(WithOutput(&buf), WithPretty(false))
	w.Info("wrapped")

	if !strings.Contains(buf.String(), "wrapped") {
		t.Errorf("Wrap of zero Logger did not log: %q", buf.String())
	}
}

func TestLogger_Wrap(t *testing.T) {
	var buf bytes.Buffer
	base := Make(&buf, WithFormat(FormatText), WithPretty(false))
	wrapped := base.Wrap(WithLevel(LevelError))

	if base.Level() != DefaultLevel {
		t.Errorf("Wrap mutated the original: %v", base.Level())
	}

	if wrapped.Level() != LevelError || wrapped.Format() != FormatText {
		t.Errorf("wrapped = %v %v", wrapped.Level(), wrapped.Format())
	}
}

func TestLogger_Concurrent(t *testing.T) {
	var buf bytes.Buffer
	l := Make(&buf, WithPretty(true), WithFormat(FormatText))

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Go(func() {
			l.With(slog.Int("worker", i)).Info("row")
		})
	}

	wg.Wait()

	if n := strings.Count(buf.String(), "\n"); n != 16 {
		t.Errorf("got %d lines, want 16", n)
	}
}

func BenchmarkLogger_Info(b *testing.B) {
	var buf bytes.Buffer
	l := Make(&buf, WithPretty(false))

	for b.Loop() {
		buf.Reset()
		l.Info("row", slog.Int("index", 1))
	}
}
