// Package cli implements the maestro command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/maestro-chat/maestro/internal/adapters/driven/config/file"
	"github.com/maestro-chat/maestro/internal/core/ports/driving"
	"github.com/maestro-chat/maestro/internal/logger"
)

// version is the release version, overridable at build time with
// -ldflags "-X .../cli.version=v1.2.3".
var version = "0.1.0"

// Services injected by the initializer before a command runs.
var (
	chatService     driving.ChatService
	feedbackService driving.FeedbackService
	indexerService  driving.IndexerService
	appConfig       *file.Config
)

// initApp wires the application after flags are parsed. main installs
// it; tests inject services directly and leave it nil.
var initApp func(configPath string) error

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "maestro",
	Short: "Retrieval-augmented persona chat service",
	Long: `Maestro answers questions in the voice of a configured persona,
grounded on passages retrieved from a vector index.

Run "maestro serve" to start the HTTP API, "maestro index" to build
the vector index from a directory of text files, or "maestro chat"
for an interactive session in the terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// version and help need no provider clients and must work
		// without API keys configured.
		switch cmd.Name() {
		case "version", "help", "completion":
			return nil
		}
		if initApp != nil {
			if err := initApp(configPath); err != nil {
				return err
			}
		}
		if verbose || (appConfig != nil && appConfig.Verbose) {
			logger.SetVerbose(true)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default ~/.maestro/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetInitializer installs the wiring function run before every command.
func SetInitializer(fn func(configPath string) error) {
	initApp = fn
}

// SetServices injects the wired application services.
func SetServices(chat driving.ChatService, feedback driving.FeedbackService, indexer driving.IndexerService) {
	chatService = chat
	feedbackService = feedback
	indexerService = indexer
}

// SetConfig injects the loaded application configuration.
func SetConfig(cfg *file.Config) {
	appConfig = cfg
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
