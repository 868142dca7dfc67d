package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shopmetrics/sentinel/pkg/model"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run one computation cycle and print the notifications",
	Long: `Fetch a snapshot, run the analyzers once, and print the ranked
notification list. Exits non-zero when any critical notification is active,
so the command can back a cron or CI health check.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
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

	eng.RunCycle(cmd.Context())

	notifications := eng.Inbox().Notifications()
	if len(notifications) == 0 {
		fmt.Println("No active notifications.")
		return nil
	}

	criticals := 0
	for _, n := range notifications {
		if n.Severity == model.SeverityCritical {
			criticals++
		}
		fmt.Printf("[%-8s] %-14s %s\n", n.Severity, n.Type, n.Title)
		fmt.Printf("           %s\n", n.Message)
	}

	if criticals > 0 {
		return fmt.Errorf("%d critical notification(s) active", criticals)
	}
	return nil
}
