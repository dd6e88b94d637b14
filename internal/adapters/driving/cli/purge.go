package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var purgeDays int

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete old feedback records",
	Long: `Deletes feedback records older than the retention window given
with --days and reports how many were removed.`,
	RunE: runPurge,
}

func init() {
	purgeCmd.Flags().IntVar(&purgeDays, "days", 90, "delete feedback older than this many days")
	rootCmd.AddCommand(purgeCmd)
}

func runPurge(cmd *cobra.Command, _ []string) error {
	if feedbackService == nil {
		return errors.New("feedback service not configured")
	}

	removed, err := feedbackService.Purge(cmd.Context(), purgeDays)
	if err != nil {
		return fmt.Errorf("purge failed: %w", err)
	}

	cmd.Printf("Removed %d feedback records older than %d days\n", removed, purgeDays)
	return nil
}
