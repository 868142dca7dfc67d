package analyzer

import (
	"fmt"

	"github.com/shopmetrics/sentinel/pkg/model"
	"github.com/shopmetrics/sentinel/pkg/rules"
)

// Cancellation computes the share of cancelled or refunded orders and raises
// one aggregate alert when it crosses the configured rate.
type Cancellation struct {
	rules rules.CancellationRules
}

// NewCancellation creates a cancellation analyzer with the given thresholds.
func NewCancellation(r rules.CancellationRules) *Cancellation {
	return &Cancellation{rules: r}
}

func (a *Cancellation) Name() string { return "cancellation" }

func (a *Cancellation) Analyze(snap *model.Snapshot) []model.Notification {
	if len(snap.Sales) == 0 {
		return nil
	}

	cancelled := 0
	for _, s := range snap.Sales {
		if s.Status == model.StatusCancelled || s.Status == model.StatusRefunded {
			cancelled++
		}
	}

	rate := float64(cancelled) / float64(len(snap.Sales))
	if rate <= a.rules.WarnRate {
		return nil
	}

	severity := model.SeverityWarning
	if rate > a.rules.CriticalRate {
		severity = model.SeverityCritical
	}

	return []model.Notification{{
		ID:        "cancellation-rate",
		Type:      model.TypeSystem,
		Severity:  severity,
		Title:     "High Cancellation Rate",
		Message:   fmt.Sprintf("%d orders (%.1f%%) cancelled or refunded", cancelled, rate*100),
		Timestamp: snap.FetchedAt,
		ActionURL: "/analytics/sales",
		Payload:   map[string]any{"cancelledCount": cancelled, "cancelRate": rate * 100},
	}}
}
