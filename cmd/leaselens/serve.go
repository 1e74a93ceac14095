package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/leaselens/internal/server"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Leaselens server",
	Long: `Start the Leaselens HTTP server.

The server exposes the analysis pipeline, report export, and the chat
assistant over HTTP. Configuration is hot-reloaded on change, so provider
settings can be edited without a restart.

Examples:
  leaselens serve                    # Start on default port 8080
  leaselens serve --port 3000        # Start on custom port
  leaselens serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger()

		mgr, err := loadConfig()
		if err != nil {
			return err
		}
		mgr.WatchConfig()

		host := serveHost
		port := servePort
		if host == "" {
			host = mgr.Get().Server.Host
		}
		if port == "" {
			port = mgr.Get().Server.Port
		}

		srv, err := server.New(server.Config{
			Host:          host,
			Port:          port,
			ConfigManager: mgr,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default: from config)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (default: from config)")

	rootCmd.AddCommand(serveCmd)
}
