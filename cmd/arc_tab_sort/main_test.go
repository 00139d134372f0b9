package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgnsrekt/arc_tab_sort/internal/config"
	"github.com/dgnsrekt/arc_tab_sort/internal/osascript"
)

func writeFakeOsascript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "osascript")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write fake osascript: %v", err)
	}
	return path
}

func testConfig(osascriptPath string) *config.Config {
	return &config.Config{
		AppName:       "Arc",
		MenuName:      "Tabs",
		PinMenuMatch:  "Pin",
		NotifyTitle:   "Arc Tab Sort",
		OsascriptPath: osascriptPath,
		RetryAttempts: 1,
	}
}

func TestRootCmdRejectsArguments(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"extra"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for positional argument")
	}
}

func TestRunNothingToSortExitsCleanly(t *testing.T) {
	log := filepath.Join(t.TempDir(), "calls.log")
	// Query returns one unpinned tab; every script is appended to the log.
	path := writeFakeOsascript(t, `printf '%s\n--\n' "$2" >> `+log+`
case "$2" in
  *"every tab"*) printf 'A\n===\nhttps://a.com\n===\nunpinned\n' ;;
esac`)

	if err := run(context.Background(), testConfig(path)); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	raw, err := os.ReadFile(log)
	if err != nil {
		t.Fatalf("read call log: %v", err)
	}
	calls := string(raw)
	if got, want := strings.Count(calls, "\n--\n"), 2; got != want {
		t.Fatalf("osascript calls = %d; want %d\n%s", got, want, calls)
	}
	if !strings.Contains(calls, `display notification "Nothing to sort" with title "Arc Tab Sort"`) {
		t.Fatalf("calls = %s; want nothing-to-sort notification", calls)
	}
}

func TestRunSurfacesAutomationError(t *testing.T) {
	path := writeFakeOsascript(t, `echo "Arc got an error: Can't get front window. (-1728)" >&2; exit 1`)

	err := run(context.Background(), testConfig(path))
	var autoErr *osascript.AutomationError
	if !errors.As(err, &autoErr) {
		t.Fatalf("run() error type = %T; want *osascript.AutomationError", err)
	}
	if !strings.Contains(err.Error(), "Can't get front window. (-1728)") {
		t.Fatalf("run() error = %q; want diagnostic text", err)
	}
}

// redirectStdio points os.Stdout and os.Stderr at files for the test's duration.
func redirectStdio(t *testing.T) (stdout, stderr string) {
	t.Helper()
	dir := t.TempDir()
	stdout, stderr = filepath.Join(dir, "stdout"), filepath.Join(dir, "stderr")
	outFile, err := os.Create(stdout)
	if err != nil {
		t.Fatalf("create stdout: %v", err)
	}
	errFile, err := os.Create(stderr)
	if err != nil {
		t.Fatalf("create stderr: %v", err)
	}

	origOut, origErr, origLogger := os.Stdout, os.Stderr, slog.Default()
	os.Stdout, os.Stderr = outFile, errFile
	t.Cleanup(func() {
		os.Stdout, os.Stderr = origOut, origErr
		slog.SetDefault(origLogger)
		_ = outFile.Close()
		_ = errFile.Close()
	})
	return stdout, stderr
}

func TestRootCmdFailureLogsToStdoutOnly(t *testing.T) {
	workDir := t.TempDir()
	chdirForTest(t, workDir)
	t.Setenv("ARC_TAB_SORT_OSASCRIPT_PATH", writeFakeOsascript(t, `echo "Arc got an error: Can't get front window." >&2; exit 1`))
	t.Setenv("ARC_TAB_SORT_LOG_FILE", "")
	stdoutPath, stderrPath := redirectStdio(t)

	cmd := newRootCmd()
	cmd.SetArgs([]string{})
	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "Can't get front window.") {
		t.Fatalf("Execute() error = %v; want automation diagnostic", err)
	}

	stderrRaw, _ := os.ReadFile(stderrPath)
	if len(stderrRaw) != 0 {
		t.Fatalf("stderr = %q; want empty (main prints the error once)", stderrRaw)
	}
	stdoutRaw, _ := os.ReadFile(stdoutPath)
	if !strings.Contains(string(stdoutRaw), "tab sort failed") {
		t.Fatalf("stdout = %q; want failure log line", stdoutRaw)
	}
	if _, statErr := os.Stat(filepath.Join(workDir, "logs")); !os.IsNotExist(statErr) {
		t.Fatalf("logs directory created by default: stat error = %v", statErr)
	}
}

// chdirForTest mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Errorf("restore cwd %s: %v", prev, err)
		}
	})
}
