package analyzer

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopmetrics/sentinel/pkg/model"
	"github.com/shopmetrics/sentinel/pkg/rules"
)

const dayFormat = "2006-01-02"

// Anomaly buckets completed sales by UTC calendar day and flags recent days
// whose revenue deviates from the mean by more than the configured multiple
// of the population standard deviation.
type Anomaly struct {
	rules rules.AnomalyRules
}

// NewAnomaly creates a sales anomaly analyzer with the given parameters.
func NewAnomaly(r rules.AnomalyRules) *Anomaly {
	return &Anomaly{rules: r}
}

func (a *Anomaly) Name() string { return "anomaly" }

func (a *Anomaly) Analyze(snap *model.Snapshot) []model.Notification {
	totals := make(map[string]float64)
	for _, s := range snap.Sales {
		if s.Status != model.StatusCompleted {
			continue
		}
		day := s.DateOfSale.UTC().Format(dayFormat)
		totals[day] += s.TotalAmount
	}

	// A single day has no dispersion to deviate from; flat data has zero
	// stddev. Neither can produce a meaningful anomaly.
	if len(totals) < 2 {
		return nil
	}
	mean, stddev := meanStddev(totals)
	if stddev <= 0 {
		return nil
	}

	days := make([]string, 0, len(totals))
	for day := range totals {
		days = append(days, day)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(days)))
	if len(days) > a.rules.RecentDays {
		days = days[:a.rules.RecentDays]
	}

	var out []model.Notification
	for _, day := range days {
		total := totals[day]
		if math.Abs(total-mean) <= a.rules.DeviationFactor*stddev {
			continue
		}

		title := "Sales Dip Detected"
		if total > mean {
			title = "Sales Spike Detected"
		}
		bucket, _ := time.Parse(dayFormat, day)

		out = append(out, model.Notification{
			ID:       "anomaly-" + day,
			Type:     model.TypeSalesAnomaly,
			Severity: model.SeverityInfo,
			Title:    title,
			Message:  fmt.Sprintf("%s: $%.0f (avg: $%.0f)", day, total, mean),
			// The notification carries the anomalous day, not the detection
			// time, so ranking reflects when the anomaly happened.
			Timestamp: bucket,
			ActionURL: "/analytics/sales",
			Payload:   map[string]any{"day": day, "amount": total, "average": mean},
		})
	}
	return out
}

// meanStddev returns the mean and population standard deviation of the
// bucket totals.
func meanStddev(totals map[string]float64) (mean, stddev float64) {
	n := float64(len(totals))
	var sum float64
	for _, v := range totals {
		sum += v
	}
	mean = sum / n

	var sq float64
	for _, v := range totals {
		d := v - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / n)
}
