package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/shopmetrics/sentinel/internal/server"
	"github.com/shopmetrics/sentinel/pkg/engine"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the alerting engine and HTTP API",
	Long: `Start the refresh scheduler (immediate cycle, then one per configured
interval) and serve the notification inbox over HTTP.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	eng, cleanup, err := initEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := engine.NewScheduler(eng, cfg.Engine.Interval(), logger)
	sched.Start(ctx)
	defer sched.Stop()

	api := server.NewServer(eng.Inbox(), sched, logger)
	srv := &http.Server{
		Addr:        cfg.Server.Listen,
		Handler:     api.Handler(),
		ReadTimeout: 30 * time.Second,
		// No write timeout: the SSE stream stays open indefinitely.
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("sentinel started",
			"listen", cfg.Server.Listen,
			"refresh_interval", cfg.Engine.Interval().String(),
		)
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
		sched.Stop()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	}
}
