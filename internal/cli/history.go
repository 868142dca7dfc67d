package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shopmetrics/sentinel/pkg/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the alert history log",
	Long:  `Print the most recent entries from the alert history log, newest first.`,
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().Int("limit", 20, "Maximum number of entries to show")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return fmt.Errorf("history log is disabled in config")
	}

	limit, _ := cmd.Flags().GetInt("limit")

	store, err := history.NewSQLite(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("open history log: %w", err)
	}
	defer store.Close()

	entries, err := store.Recent(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("read history log: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("History log is empty.")
		return nil
	}

	for _, e := range entries {
		fmt.Printf("%s  [%-8s] %-14s %s\n",
			e.RecordedAt.Format("2006-01-02 15:04"), e.Severity, e.Type, e.Title)
		fmt.Printf("                   %s\n", e.Message)
	}
	return nil
}
