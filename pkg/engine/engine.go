// Package engine runs the computation cycle: fetch a snapshot, run the
// analyzers, rank the result, and publish it to the inbox.
package engine

import (
	"context"
	"log/slog"

	"github.com/shopmetrics/sentinel/pkg/alerts"
	"github.com/shopmetrics/sentinel/pkg/analyzer"
	"github.com/shopmetrics/sentinel/pkg/history"
	"github.com/shopmetrics/sentinel/pkg/inbox"
	"github.com/shopmetrics/sentinel/pkg/model"
)

// Fetcher produces the snapshot a cycle runs over.
type Fetcher interface {
	Fetch(ctx context.Context) *model.Snapshot
}

// Engine wires the pipeline stages together. History storage and outbound
// notifiers are optional; everything else is required.
type Engine struct {
	fetcher   Fetcher
	analyzers []analyzer.Analyzer
	inbox     *inbox.Inbox
	history   history.Storage
	notifiers []alerts.Notifier
	logger    *slog.Logger
}

// New creates an engine. Pass nil history and notifiers to disable the audit
// log and outbound dispatch.
func New(fetcher Fetcher, analyzers []analyzer.Analyzer, box *inbox.Inbox, hist history.Storage, notifiers []alerts.Notifier, logger *slog.Logger) *Engine {
	return &Engine{
		fetcher:   fetcher,
		analyzers: analyzers,
		inbox:     box,
		history:   hist,
		notifiers: notifiers,
		logger:    logger,
	}
}

// Inbox returns the inbox the engine publishes to.
func (e *Engine) Inbox() *inbox.Inbox {
	return e.inbox
}

// RunCycle executes one full computation cycle. It never fails: source
// errors degrade to empty collections inside the fetcher, and history or
// notifier errors are logged without affecting the published list.
func (e *Engine) RunCycle(ctx context.Context) {
	snap := e.fetcher.Fetch(ctx)

	var list []model.Notification
	for _, a := range e.analyzers {
		list = append(list, a.Analyze(snap)...)
	}
	Rank(list)

	newIDs := e.inbox.Replace(list)

	e.logger.Info("computation cycle complete",
		"products", len(snap.Products),
		"sales", len(snap.Sales),
		"users", len(snap.Users),
		"notifications", len(list),
		"new", len(newIDs),
	)

	if len(newIDs) == 0 {
		return
	}

	newSet := make(map[string]bool, len(newIDs))
	for _, id := range newIDs {
		newSet[id] = true
	}
	var fresh []model.Notification
	for _, n := range list {
		if newSet[n.ID] {
			fresh = append(fresh, n)
		}
	}

	if e.history != nil {
		if err := e.history.Append(ctx, snap.FetchedAt, fresh); err != nil {
			e.logger.Error("append alert history", "error", err)
		}
	}

	e.dispatch(ctx, fresh)
}

// dispatch forwards newly appeared critical notifications to the outbound
// notifiers.
func (e *Engine) dispatch(ctx context.Context, fresh []model.Notification) {
	if len(e.notifiers) == 0 {
		return
	}
	for _, n := range fresh {
		if n.Severity != model.SeverityCritical {
			continue
		}
		for _, notifier := range e.notifiers {
			if err := notifier.Send(ctx, n); err != nil {
				e.logger.Error("send alert failed",
					"notifier", notifier.Name(),
					"notification", n.ID,
					"error", err,
				)
			}
		}
	}
}
