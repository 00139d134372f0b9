package osascript

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// DefaultPath is the osascript binary looked up on PATH.
const DefaultPath = "osascript"

// Runner executes a single AppleScript program and returns its stdout.
type Runner interface {
	Run(ctx context.Context, script string) (string, error)
}

// AutomationError reports a failed osascript invocation.
// Error() returns the tool's diagnostic text as-is.
type AutomationError struct {
	Script   string
	ExitCode int
	Stderr   string
	Cause    error
}

func (e *AutomationError) Error() string {
	if e.Stderr != "" {
		return e.Stderr
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "osascript failed"
}

func (e *AutomationError) Unwrap() error { return e.Cause }

// ExecRunner runs scripts through the osascript binary.
type ExecRunner struct {
	Path string
}

// NewExecRunner returns a runner for the given binary, or DefaultPath when empty.
func NewExecRunner(path string) *ExecRunner {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}
	return &ExecRunner{Path: path}
}

// Run executes `<path> -e <script>` and waits for it to exit.
func (r *ExecRunner) Run(ctx context.Context, script string) (string, error) {
	path := r.Path
	if path == "" {
		path = DefaultPath
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, "-e", script)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	slog.Debug("osascript finished",
		"duration_ms", time.Since(start).Milliseconds(),
		"script_bytes", len(script),
		"error", err,
	)
	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return "", &AutomationError{
			Script:   script,
			ExitCode: exitCode,
			Stderr:   strings.TrimSpace(stderr.String()),
			Cause:    err,
		}
	}
	return strings.TrimSpace(stdout.String()), nil
}

// Quote renders s as an AppleScript string literal.
func Quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}
