package analyzer

import (
	"fmt"
	"time"

	"github.com/shopmetrics/sentinel/pkg/model"
	"github.com/shopmetrics/sentinel/pkg/rules"
)

// Churn computes the share of users whose most recent purchase falls outside
// the recency window and raises one aggregate alert when that share crosses
// the configured rate.
type Churn struct {
	rules rules.ChurnRules
}

// NewChurn creates a churn analyzer with the given thresholds.
func NewChurn(r rules.ChurnRules) *Churn {
	return &Churn{rules: r}
}

func (a *Churn) Name() string { return "churn" }

func (a *Churn) Analyze(snap *model.Snapshot) []model.Notification {
	if len(snap.Users) == 0 {
		return nil
	}

	// Latest sale per user, regardless of order status. A cancelled order
	// still counts as activity for recency purposes.
	lastSale := make(map[int64]time.Time, len(snap.Users))
	for _, s := range snap.Sales {
		if s.DateOfSale.After(lastSale[s.UserID]) {
			lastSale[s.UserID] = s.DateOfSale
		}
	}

	cutoff := snap.FetchedAt.Add(-a.rules.Window())
	inactive := 0
	for _, u := range snap.Users {
		last, ok := lastSale[u.ID]
		if !ok || last.Before(cutoff) {
			inactive++
		}
	}

	rate := float64(inactive) / float64(len(snap.Users))
	if rate <= a.rules.WarnRate {
		return nil
	}

	severity := model.SeverityWarning
	if rate > a.rules.CriticalRate {
		severity = model.SeverityCritical
	}

	return []model.Notification{{
		ID:       "churn-risk",
		Type:     model.TypeHighChurn,
		Severity: severity,
		Title:    "High Churn Risk",
		Message: fmt.Sprintf("%d customers (%.1f%%) haven't purchased in %d+ days",
			inactive, rate*100, a.rules.WindowDays),
		Timestamp: snap.FetchedAt,
		ActionURL: "/analytics/users",
		Payload:   map[string]any{"inactiveCount": inactive, "churnRate": rate * 100},
	}}
}
