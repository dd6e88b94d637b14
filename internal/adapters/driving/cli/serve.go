package cli

import (
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/maestro-chat/maestro/internal/adapters/driving/httpapi"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Starts the chat and telemetry HTTP API.

The server exposes POST /api/v1/chat (single-shot JSON or SSE
streaming), POST /api/v1/telemetry, GET /api/v1/telemetry/stats,
GET /healthz and GET /metrics. It shuts down gracefully on SIGINT
and SIGTERM.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen address (overrides config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if chatService == nil || feedbackService == nil {
		return errors.New("services not configured")
	}

	srvCfg := httpapi.Config{}
	if appConfig != nil {
		srvCfg = httpapi.Config{
			Host:            appConfig.Server.Host,
			Port:            appConfig.Server.Port,
			ReadTimeout:     appConfig.Server.ReadTimeout.Duration,
			WriteTimeout:    appConfig.Server.WriteTimeout.Duration,
			ShutdownTimeout: appConfig.Server.ShutdownTimeout.Duration,
			AllowedOrigins:  appConfig.Server.AllowedOrigins,
		}
	}
	if serveHost != "" {
		srvCfg.Host = serveHost
	}
	if servePort != 0 {
		srvCfg.Port = servePort
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := httpapi.NewServer(srvCfg, chatService, feedbackService)

	cmd.Printf("maestro %s listening on %s:%d\n", version, srvCfg.Host, srvCfg.Port)

	start := time.Now()
	if err := server.Start(ctx); err != nil {
		return err
	}
	cmd.Printf("server stopped after %s\n", time.Since(start).Round(time.Second))
	return nil
}
