package rules

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Ruleset holds the thresholds the analyzers classify against. A ruleset is
// loaded once at startup and treated as immutable afterwards.
type Ruleset struct {
	Stock        StockRules        `yaml:"stock"`
	Churn        ChurnRules        `yaml:"churn"`
	Anomaly      AnomalyRules      `yaml:"anomaly"`
	Cancellation CancellationRules `yaml:"cancellation"`
}

// StockRules defines the stock level bands. A product alerts when its stock
// is strictly below NoticeBelow; the severity escalates as it falls below
// WarnBelow and finally to or below zero.
type StockRules struct {
	WarnBelow   int64 `yaml:"warn_below"`
	NoticeBelow int64 `yaml:"notice_below"`
}

// ChurnRules defines the inactivity window and aggregate churn thresholds.
// Rates are fractions in [0,1] and compared strictly (a rate exactly at the
// threshold does not alert).
type ChurnRules struct {
	WindowDays   int     `yaml:"window_days"`
	WarnRate     float64 `yaml:"warn_rate"`
	CriticalRate float64 `yaml:"critical_rate"`
}

// AnomalyRules defines the daily revenue anomaly detection parameters.
type AnomalyRules struct {
	RecentDays      int     `yaml:"recent_days"`
	DeviationFactor float64 `yaml:"deviation_factor"`
}

// CancellationRules defines the cancelled/refunded order rate thresholds,
// compared strictly like the churn rates.
type CancellationRules struct {
	WarnRate     float64 `yaml:"warn_rate"`
	CriticalRate float64 `yaml:"critical_rate"`
}

// Default returns the stock ruleset used when no rules file is configured.
func Default() *Ruleset {
	return &Ruleset{
		Stock:        StockRules{WarnBelow: 5, NoticeBelow: 10},
		Churn:        ChurnRules{WindowDays: 30, WarnRate: 0.20, CriticalRate: 0.50},
		Anomaly:      AnomalyRules{RecentDays: 7, DeviationFactor: 2.0},
		Cancellation: CancellationRules{WarnRate: 0.10, CriticalRate: 0.25},
	}
}

// Load reads a YAML rules file and validates it.
func Load(path string) (*Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file %s: %w", path, err)
	}

	rs := Default()
	if err := yaml.Unmarshal(data, rs); err != nil {
		return nil, fmt.Errorf("parse rules file %s: %w", path, err)
	}

	if err := rs.validate(); err != nil {
		return nil, fmt.Errorf("rules file %s: %w", path, err)
	}
	return rs, nil
}

// Window returns the inactivity window as a duration.
func (r ChurnRules) Window() time.Duration {
	return time.Duration(r.WindowDays) * 24 * time.Hour
}

func (r *Ruleset) validate() error {
	if r.Stock.WarnBelow > r.Stock.NoticeBelow {
		return fmt.Errorf("stock: warn_below %d exceeds notice_below %d", r.Stock.WarnBelow, r.Stock.NoticeBelow)
	}
	if r.Churn.WindowDays <= 0 {
		return fmt.Errorf("churn: window_days must be positive, got %d", r.Churn.WindowDays)
	}
	if r.Churn.WarnRate > r.Churn.CriticalRate {
		return fmt.Errorf("churn: warn_rate %.2f exceeds critical_rate %.2f", r.Churn.WarnRate, r.Churn.CriticalRate)
	}
	if r.Anomaly.RecentDays <= 0 {
		return fmt.Errorf("anomaly: recent_days must be positive, got %d", r.Anomaly.RecentDays)
	}
	if r.Anomaly.DeviationFactor <= 0 {
		return fmt.Errorf("anomaly: deviation_factor must be positive, got %.2f", r.Anomaly.DeviationFactor)
	}
	if r.Cancellation.WarnRate > r.Cancellation.CriticalRate {
		return fmt.Errorf("cancellation: warn_rate %.2f exceeds critical_rate %.2f", r.Cancellation.WarnRate, r.Cancellation.CriticalRate)
	}
	return nil
}
