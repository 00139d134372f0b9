package sorter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgnsrekt/arc_tab_sort/internal/notify"
	"github.com/dgnsrekt/arc_tab_sort/internal/tabs"
)

// Automation is the browser capability the sorter depends on.
type Automation interface {
	QueryTabs(ctx context.Context) ([]tabs.TabRecord, error)
	SelectTab(ctx context.Context, id string) error
	TogglePin(ctx context.Context) error
}

// Notifier posts user-visible status messages.
type Notifier interface {
	Send(ctx context.Context, message string) error
}

// Options tunes retry of idempotent automation steps.
// Attempts below 1 are treated as 1 (no retry).
type Options struct {
	Attempts   int
	RetryDelay time.Duration
}

// Result summarises one sort run.
type Result struct {
	Total      int
	Candidates int
	Sorted     bool
	Order      []string
}

// Service sorts the unpinned tabs of the active space by domain.
type Service struct {
	browser  Automation
	notifier Notifier
	opts     Options
}

// NewService creates a sorter driving browser and reporting through notifier.
func NewService(browser Automation, notifier Notifier, opts Options) *Service {
	if opts.Attempts < 1 {
		opts.Attempts = 1
	}
	return &Service{browser: browser, notifier: notifier, opts: opts}
}

// Run fetches, orders and reorders the tabs. Fewer than two unpinned tabs is a no-op.
func (s *Service) Run(ctx context.Context) (Result, error) {
	var all []tabs.TabRecord
	err := s.retry(ctx, "query tabs", func() error {
		var qerr error
		all, qerr = s.browser.QueryTabs(ctx)
		return qerr
	})
	if err != nil {
		return Result{}, fmt.Errorf("query tabs: %w", err)
	}

	candidates := tabs.SelectCandidates(all)
	res := Result{Total: len(all), Candidates: len(candidates)}
	slog.Info("tabs fetched", "total", res.Total, "unpinned", res.Candidates)

	if len(candidates) < 2 {
		if err := s.notifier.Send(ctx, notify.MessageNothingToSort); err != nil {
			return res, fmt.Errorf("notify: %w", err)
		}
		return res, nil
	}

	res.Order = tabs.OrderByDomain(candidates)
	for _, t := range candidates {
		slog.Debug("sort candidate", "id", t.ID, "domain", t.Domain)
	}

	if err := s.notifier.Send(ctx, notify.SortingMessage(len(res.Order))); err != nil {
		return res, fmt.Errorf("notify: %w", err)
	}
	if err := s.ApplyOrder(ctx, res.Order); err != nil {
		return res, err
	}
	res.Sorted = true

	if err := s.notifier.Send(ctx, notify.MessageDone); err != nil {
		return res, fmt.Errorf("notify: %w", err)
	}
	return res, nil
}

// ApplyOrder pins every tab in order, then unpins them last to first so
// the first id ends up at the head of the unpinned list.
// It stops at the first failure and leaves already toggled tabs as they are.
func (s *Service) ApplyOrder(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if err := s.toggle(ctx, id); err != nil {
			return fmt.Errorf("pin pass: tab %s: %w", id, err)
		}
	}
	slog.Debug("pin pass complete", "tabs", len(ids))

	for i := len(ids) - 1; i >= 0; i-- {
		if err := s.toggle(ctx, ids[i]); err != nil {
			return fmt.Errorf("unpin pass: tab %s: %w", ids[i], err)
		}
	}
	slog.Debug("unpin pass complete", "tabs", len(ids))
	return nil
}

// toggle selects a tab and flips its pin state. Only the selection is
// retried; a repeated toggle would undo the first one.
func (s *Service) toggle(ctx context.Context, id string) error {
	if err := s.retry(ctx, "select tab", func() error {
		return s.browser.SelectTab(ctx, id)
	}); err != nil {
		return err
	}
	return s.browser.TogglePin(ctx)
}

func (s *Service) retry(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt >= s.opts.Attempts {
			return err
		}
		slog.Warn("automation step failed, retrying",
			"op", op, "attempt", attempt, "max_attempts", s.opts.Attempts, "error", err)

		timer := time.NewTimer(s.opts.RetryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
