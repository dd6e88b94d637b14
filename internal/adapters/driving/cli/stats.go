package cli

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/maestro-chat/maestro/internal/core/domain"
)

var (
	statsRecent int
	statsLow    int
	statsUser   string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show feedback rating statistics",
	Long: `Prints aggregate feedback statistics: average rating, total
count and the rating distribution. With --recent N the latest N
feedback records are listed as well, with --low T the records rated
at or below T, and with --user ID one user's history.`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().IntVar(&statsRecent, "recent", 0, "also list the N most recent feedback records")
	statsCmd.Flags().IntVar(&statsLow, "low", 0, "also list feedback rated at or below this score")
	statsCmd.Flags().StringVar(&statsUser, "user", "", "also list feedback from this user")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if feedbackService == nil {
		return errors.New("feedback service not configured")
	}

	stats, err := feedbackService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("stats failed: %w", err)
	}

	cmd.Println("Feedback statistics:")
	cmd.Printf("  Total:   %d\n", stats.TotalFeedback)
	cmd.Printf("  Average: %.2f\n", stats.AverageRating)

	if len(stats.RatingDistribution) > 0 {
		cmd.Println("  Distribution:")
		ratings := make([]int, 0, len(stats.RatingDistribution))
		for rating := range stats.RatingDistribution {
			ratings = append(ratings, rating)
		}
		sort.Ints(ratings)
		for _, rating := range ratings {
			cmd.Printf("    %2d: %d\n", rating, stats.RatingDistribution[rating])
		}
	}

	if statsRecent > 0 {
		recent, err := feedbackService.Recent(cmd.Context(), statsRecent)
		if err != nil {
			return fmt.Errorf("recent feedback failed: %w", err)
		}
		cmd.Println()
		cmd.Printf("Latest %d:\n", len(recent))
		printFeedback(cmd, recent)
	}

	if statsLow > 0 {
		low, err := feedbackService.LowRated(cmd.Context(), statsLow, 0)
		if err != nil {
			return fmt.Errorf("low rated feedback failed: %w", err)
		}
		cmd.Println()
		cmd.Printf("Rated %d or below (%d):\n", statsLow, len(low))
		printFeedback(cmd, low)
	}

	if statsUser != "" {
		byUser, err := feedbackService.ByUser(cmd.Context(), statsUser, 0)
		if err != nil {
			return fmt.Errorf("user feedback failed: %w", err)
		}
		cmd.Println()
		cmd.Printf("From %s (%d):\n", statsUser, len(byUser))
		printFeedback(cmd, byUser)
	}

	return nil
}

func printFeedback(cmd *cobra.Command, records []domain.Feedback) {
	for _, fb := range records {
		comment := fb.Rating.Comment
		if comment == "" {
			comment = "(no comment)"
		}
		cmd.Printf("  [%s] %d/10 %s\n", fb.CreatedAt.Format(time.DateOnly), fb.Rating.Overall, comment)
	}
}
