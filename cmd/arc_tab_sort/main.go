package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dgnsrekt/arc_tab_sort/internal/arc"
	"github.com/dgnsrekt/arc_tab_sort/internal/config"
	"github.com/dgnsrekt/arc_tab_sort/internal/notify"
	"github.com/dgnsrekt/arc_tab_sort/internal/osascript"
	"github.com/dgnsrekt/arc_tab_sort/internal/sorter"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "arc_tab_sort",
		Short:         "Sort Arc's unpinned tabs alphabetically by domain",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			setupLogger(cfg.LogLevel, cfg.LogFile)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	runner := osascript.NewExecRunner(cfg.OsascriptPath)
	browser := arc.NewBrowser(runner, arc.Config{
		AppName:      cfg.AppName,
		MenuName:     cfg.MenuName,
		PinMenuMatch: cfg.PinMenuMatch,
	})
	svc := sorter.NewService(browser, notify.New(runner, cfg.NotifyTitle), sorter.Options{
		Attempts:   cfg.RetryAttempts,
		RetryDelay: cfg.RetryDelay(),
	})

	res, err := svc.Run(ctx)
	if err != nil {
		slog.Error("tab sort failed", "total", res.Total, "unpinned", res.Candidates, "error", err)
		return err
	}
	slog.Info("tab sort finished", "total", res.Total, "unpinned", res.Candidates, "sorted", res.Sorted)
	return nil
}

func setupLogger(level, filename string) {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	var out io.Writer = os.Stdout
	var logDirErr error
	if filename != "" {
		if logDirErr = os.MkdirAll(filepath.Dir(filename), 0o755); logDirErr == nil {
			out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
				Filename:   filename,
				MaxSize:    25,
				MaxBackups: 10,
				MaxAge:     14,
				Compress:   true,
			})
		}
	}

	h := slog.NewTextHandler(out, &slog.HandlerOptions{Level: slogLevel})
	slog.SetDefault(slog.New(h))
	if logDirErr != nil {
		slog.Warn("log file disabled", "log_file", filename, "error", logDirErr)
	}
}
