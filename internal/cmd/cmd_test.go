package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"

	appconfig "github.com/Iron-Ham/planboard/internal/config"
	"github.com/Iron-Ham/planboard/internal/errors"
	"github.com/Iron-Ham/planboard/internal/logging"
	"github.com/Iron-Ham/planboard/internal/testutil"
)

const releaseBoard = `title: Release
axis:
  start: 0
  end: 10
rows:
  - id: ops
    title: Operations
    events:
      - id: deploy
        start: 2
        end: 4
        label: Deploy
      - id: freeze
        kind: milestone
        start: 7
  - id: dev
    events:
      - id: build
        start: 0
        end: 1
`

// execute runs the root command with args against an empty config
// directory and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)

	viper.Reset()
	renderWidth = 0
	logsTail, logsFollow, logsLevel, logsSince, logsGrep = 50, false, "", "", ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		viper.Reset()
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestValidate_OK(t *testing.T) {
	path := testutil.WriteBoard(t, releaseBoard)

	out, err := execute(t, "validate", path)
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}
	if !strings.Contains(out, "ok (2 rows, 3 events)") {
		t.Errorf("output = %q", out)
	}
}

func TestValidate_ReportsProblems(t *testing.T) {
	path := testutil.WriteBoard(t, "axis: {start: 5, end: 1}\nrows: [{title: x}]\n")

	out, err := execute(t, "validate", path)
	if !errors.Is(err, errors.ErrBoardInvalid) {
		t.Fatalf("validate error = %v, want ErrBoardInvalid", err)
	}
	if !strings.Contains(out, "2 problem(s)") {
		t.Errorf("output = %q, want a problem count", out)
	}
	for _, field := range []string{"axis.end", "rows[0].id"} {
		if !strings.Contains(out, field) {
			t.Errorf("output does not mention %s:\n%s", field, out)
		}
	}
}

func TestValidate_MissingFile(t *testing.T) {
	_, err := execute(t, "validate", filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if errors.Is(err, errors.ErrBoardInvalid) {
		t.Error("a missing file is not an invalid board")
	}
}

func TestRender(t *testing.T) {
	path := testutil.WriteBoard(t, releaseBoard)

	out, err := execute(t, "render", "--width", "60", path)
	if err != nil {
		t.Fatalf("render error = %v", err)
	}
	for _, want := range []string{"Release", "Operations", "dev"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRender_InvalidBoard(t *testing.T) {
	path := testutil.WriteBoard(t, "axis: {start: 5, end: 1}\nrows: []\n")

	if _, err := execute(t, "render", "-w", "60", path); !errors.Is(err, errors.ErrBoardInvalid) {
		t.Errorf("render error = %v, want ErrBoardInvalid", err)
	}
}

func TestConfigShow(t *testing.T) {
	out, err := execute(t, "config", "show")
	if err != nil {
		t.Fatalf("config show error = %v", err)
	}
	if !strings.Contains(out, "click_threshold: 0.5") {
		t.Errorf("output = %q", out)
	}
}

func TestLogs_NoFile(t *testing.T) {
	out, err := execute(t, "logs")
	if err != nil {
		t.Fatalf("logs error = %v", err)
	}
	if !strings.Contains(out, "No log file found.") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "logging.enabled true") {
		t.Errorf("output should explain how to enable logging: %q", out)
	}
}

func TestDisplayLogs(t *testing.T) {
	dir := t.TempDir()
	logger, err := logging.NewLogger(dir, "debug")
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	logger.WithComponent("planner").Debug("gesture started", "row", 0)
	logger.WithEvent("deploy").Info("moved event", "start", 4)
	logger.Warn("watch error")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	path := filepath.Join(dir, logging.FileName)

	var out bytes.Buffer
	if err := displayLogs(&out, path, 0, logFilter{minLevel: -1}); err != nil {
		t.Fatalf("displayLogs() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), out.String())
	}
	if !strings.Contains(lines[0], "component=planner") || !strings.Contains(lines[0], "row=0") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.Contains(lines[1], "event_id=deploy") || !strings.Contains(lines[1], "[INFO]") {
		t.Errorf("line 1 = %q", lines[1])
	}

	out.Reset()
	if err := displayLogs(&out, path, 1, logFilter{minLevel: -1}); err != nil {
		t.Fatalf("displayLogs() error = %v", err)
	}
	if got := strings.TrimSpace(out.String()); !strings.Contains(got, "watch error") || strings.Contains(got, "moved event") {
		t.Errorf("tail 1 = %q", got)
	}
}

func TestLogFilter(t *testing.T) {
	now := time.Now()
	entry := &logEntry{Time: now, Level: "INFO", Msg: "moved event", EventID: "deploy"}

	tests := []struct {
		name   string
		filter logFilter
		want   bool
	}{
		{"no filter", logFilter{minLevel: -1}, true},
		{"level below", logFilter{minLevel: levelPriority("WARN")}, false},
		{"level at", logFilter{minLevel: levelPriority("INFO")}, true},
		{"too old", logFilter{minLevel: -1, since: now.Add(time.Minute)}, false},
		{"grep event id", logFilter{minLevel: -1, grep: mustCompile(t, "dep")}, true},
		{"grep miss", logFilter{minLevel: -1, grep: mustCompile(t, "resize")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.passes(entry); got != tt.want {
				t.Errorf("passes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatLine_PassesRawText(t *testing.T) {
	got, ok := formatLine("not json", logFilter{minLevel: -1})
	if !ok || got != "not json" {
		t.Errorf("formatLine() = %q, %v", got, ok)
	}
}

func TestLoadBoard_AppliesAxisDefaults(t *testing.T) {
	wide := strings.Replace(releaseBoard, "start: 0\n        end: 1\n", "start: 0\n        end: 2\n", 1)
	path := testutil.WriteBoard(t, wide)
	cfg := defaultConfig(t)
	cfg.Axis.DefaultStep = 2
	cfg.Axis.DefaultMode = "single"

	b, err := loadBoard(path, cfg)
	if err != nil {
		t.Fatalf("loadBoard() error = %v", err)
	}
	if b.Axis.Step != 2 {
		t.Errorf("step = %d, want 2", b.Axis.Step)
	}
	if b.Axis.Mode != "single" {
		t.Errorf("mode = %q, want single", b.Axis.Mode)
	}

	withStep := testutil.WriteBoard(t, strings.Replace(wide, "  end: 10\n", "  end: 10\n  step: 1\n  mode: span\n", 1))
	b, err = loadBoard(withStep, cfg)
	if err != nil {
		t.Fatalf("loadBoard() error = %v", err)
	}
	if b.Axis.Step != 1 || b.Axis.Mode != "span" {
		t.Errorf("file settings should win: step=%d mode=%q", b.Axis.Step, b.Axis.Mode)
	}
}

func TestLoadBoard_SkipsStepLongerThanASpan(t *testing.T) {
	// build spans a single slot, so a default step of 2 cannot apply.
	path := testutil.WriteBoard(t, releaseBoard)
	cfg := defaultConfig(t)
	cfg.Axis.DefaultStep = 2

	b, err := loadBoard(path, cfg)
	if err != nil {
		t.Fatalf("loadBoard() error = %v", err)
	}
	if b.Axis.Step != 0 {
		t.Errorf("step = %d, want the file's own step 0", b.Axis.Step)
	}
	if err := b.Validate(); err != nil {
		t.Errorf("loaded board does not validate: %v", err)
	}
}

func TestNewLogger_Disabled(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Logging.Dir = t.TempDir()

	logger, err := newLogger(cfg)
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	logger.Info("dropped")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Logging.Dir, logging.FileName)); !os.IsNotExist(err) {
		t.Error("disabled logging should not create a file")
	}
}

func defaultConfig(t *testing.T) *appconfig.Config {
	t.Helper()
	return appconfig.Default()
}

func mustCompile(t *testing.T, pattern string) *regexp.Regexp {
	t.Helper()
	re, err := regexp.Compile(pattern)
	if err != nil {
		t.Fatalf("bad pattern %q: %v", pattern, err)
	}
	return re
}
