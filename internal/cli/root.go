package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/shopmetrics/sentinel/internal/config"
	"github.com/shopmetrics/sentinel/pkg/alerts"
	"github.com/shopmetrics/sentinel/pkg/analyzer"
	"github.com/shopmetrics/sentinel/pkg/engine"
	"github.com/shopmetrics/sentinel/pkg/history"
	"github.com/shopmetrics/sentinel/pkg/inbox"
	"github.com/shopmetrics/sentinel/pkg/rules"
	"github.com/shopmetrics/sentinel/pkg/source"
)

// Version is set at build time via ldflags.
var Version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "sentinel",
	Short: "Sentinel - Operational alerting for storefront data",
	Long: `Sentinel watches a storefront backend and derives operational alerts
(low stock, churn risk, sales anomalies, cancellation spikes) directly from
raw product, sale, and user snapshots. It keeps a live read/unread inbox,
re-computes on a fixed interval, and exposes the inbox over an HTTP API.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.sentinel/config.yaml)")
}

// loadConfig loads the configuration.
func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

// newLogger creates a structured logger from config.
func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.Logging.Format == "text" {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler)
}

// loadRules returns the configured ruleset, or the defaults when no rules
// file is set.
func loadRules(cfg *config.Config) (*rules.Ruleset, error) {
	if cfg.Engine.RulesFile == "" {
		return rules.Default(), nil
	}
	return rules.Load(cfg.Engine.RulesFile)
}

// initFetcher creates the snapshot fetcher over the configured sources.
func initFetcher(cfg *config.Config, logger *slog.Logger) *source.Fetcher {
	client := source.NewHTTPClient(cfg.Sources.FetchTimeout())
	return source.NewFetcher(
		source.NewHTTPProductSource(cfg.Sources.ProductsEndpoint(), client),
		source.NewHTTPSaleSource(cfg.Sources.SalesEndpoint(), client),
		source.NewCSVUserSource(cfg.Sources.UsersEndpoint(), client),
		logger,
	)
}

// initNotifiers creates outbound alert notifiers from config.
func initNotifiers(cfg *config.Config) []alerts.Notifier {
	var notifiers []alerts.Notifier

	if cfg.Alerts.Slack.Enabled && cfg.Alerts.Slack.WebhookURL != "" {
		notifiers = append(notifiers, alerts.NewSlackNotifier(
			cfg.Alerts.Slack.WebhookURL,
			cfg.Alerts.Slack.Channel,
		))
	}

	if cfg.Alerts.Webhook.Enabled && cfg.Alerts.Webhook.URL != "" {
		notifiers = append(notifiers, alerts.NewWebhookNotifier(
			cfg.Alerts.Webhook.URL,
			cfg.Alerts.Webhook.Secret,
		))
	}

	return notifiers
}

// initHistory opens the alert history log when enabled. Returns nil storage
// when the log is disabled.
func initHistory(cfg *config.Config) (history.Storage, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}
	return history.NewSQLite(cfg.History.Path)
}

// initEngine creates a fully wired engine. The returned cleanup closes the
// history storage and must be called on shutdown.
func initEngine(cfg *config.Config, logger *slog.Logger) (*engine.Engine, func(), error) {
	rs, err := loadRules(cfg)
	if err != nil {
		return nil, nil, err
	}

	hist, err := initHistory(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if hist != nil {
			hist.Close()
		}
	}

	eng := engine.New(
		initFetcher(cfg, logger),
		analyzer.Defaults(rs),
		inbox.New(),
		hist,
		initNotifiers(cfg),
		logger,
	)
	return eng, cleanup, nil
}
