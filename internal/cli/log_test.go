package cli

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

// runLogged executes the CLI at level and returns what it logged.
func runLogged(t *testing.T, path string, level log.Level, args ...string) string {
	t.Helper()
	var logs bytes.Buffer
	c := New(&logs, level)
	c.SetOutput(io.Discard)
	root := c.RootCommand()
	root.SetArgs(append([]string{"--config", path}, args...))
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return logs.String()
}

// logLine returns the first logged line containing msg.
func logLine(t *testing.T, logs, msg string) string {
	t.Helper()
	for _, line := range strings.Split(logs, "\n") {
		if strings.Contains(line, msg) {
			return line
		}
	}
	t.Fatalf("no %q line in log:\n%s", msg, logs)
	return ""
}

func TestProgressFields(t *testing.T) {
	path := writeConfig(t)

	logs := runLogged(t, path, LogInfo, "dispatch", "pop:5", "push:Article")
	line := logLine(t, logs, "Dispatched")
	for _, want := range []string{"dispatch", "actions=2", "unhandled=1", "elapsed="} {
		if !strings.Contains(line, want) {
			t.Errorf("progress line %q lacks %q", line, want)
		}
	}

	out := filepath.Join(t.TempDir(), "nav.dot")
	line = logLine(t, runLogged(t, path, LogInfo, "graph", "-o", out), "Rendered")
	if !strings.Contains(line, "graph") || !strings.Contains(line, "format=dot") {
		t.Errorf("progress line = %q", line)
	}
}

func TestVerboseLogging(t *testing.T) {
	tests := []struct {
		name      string
		level     log.Level
		wantDebug bool
	}{
		{"info", LogInfo, false},
		{"verbose", LogDebug, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := runLogged(t, writeConfig(t), tt.level, "dispatch", "push:Article")
			for _, msg := range []string{"opened store", "restored navigation state", "action handled"} {
				if got := strings.Contains(logs, msg); got != tt.wantDebug {
					t.Errorf("%q logged = %v, want %v", msg, got, tt.wantDebug)
				}
			}
			logLine(t, logs, "Dispatched")
		})
	}
}

func TestCommandLogger(t *testing.T) {
	var buf bytes.Buffer
	base := newLogger(&buf, LogInfo)

	if commandLogger(base, appName) != base || commandLogger(base, "") != base {
		t.Error("root command logger should not be prefixed")
	}
	commandLogger(base, "serve").Info("listening")
	if !strings.Contains(buf.String(), "serve") {
		t.Errorf("log = %q, want serve prefix", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("bare context should yield the default logger")
	}
	l := newLogger(io.Discard, LogDebug)
	if loggerFromContext(withLogger(context.Background(), l)) != l {
		t.Error("attached logger not returned")
	}
}
