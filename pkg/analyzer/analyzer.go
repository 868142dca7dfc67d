// Package analyzer derives notifications from a snapshot. Every analyzer is
// a pure function of its input: no I/O, no shared state, deterministic given
// the same snapshot and ruleset.
package analyzer

import (
	"github.com/shopmetrics/sentinel/pkg/model"
	"github.com/shopmetrics/sentinel/pkg/rules"
)

// Analyzer inspects one business concern of a snapshot and emits zero or
// more notifications for it.
type Analyzer interface {
	// Name returns the analyzer identifier used in logs.
	Name() string

	// Analyze derives notifications from the snapshot. Implementations must
	// not retain or mutate the snapshot.
	Analyze(snap *model.Snapshot) []model.Notification
}

// Defaults returns the standard analyzer set in its fixed evaluation order.
// The order is part of the ranking contract: notifications with equal
// severity and timestamp keep this order after sorting.
func Defaults(rs *rules.Ruleset) []Analyzer {
	return []Analyzer{
		NewStock(rs.Stock),
		NewChurn(rs.Churn),
		NewAnomaly(rs.Anomaly),
		NewCancellation(rs.Cancellation),
	}
}
