package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var indexReset bool

var indexCmd = &cobra.Command{
	Use:   "index [data-dir]",
	Short: "Build the vector index from text files",
	Long: `Chunks, embeds and upserts every .txt file under the data
directory. Each subdirectory becomes a retrieval namespace; files
directly under the root go to the default namespace.

With --reset the backing index is dropped and recreated first.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&indexReset, "reset", false, "drop and recreate the index before loading")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	if indexerService == nil {
		return errors.New("indexer service not configured")
	}

	dataDir := args[0]
	if indexReset {
		cmd.Println("Resetting index...")
	}
	cmd.Printf("Indexing %s\n", dataDir)

	stats, err := indexerService.BuildIndex(cmd.Context(), dataDir, indexReset)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	names := make([]string, len(stats.Namespaces))
	for i, ns := range stats.Namespaces {
		names[i] = ns.String()
	}

	cmd.Printf("Indexed %d chunks from %d files\n", stats.Chunks, stats.Files)
	cmd.Printf("Namespaces: %s\n", strings.Join(names, ", "))
	return nil
}
