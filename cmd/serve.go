package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/seaward0/seaward/api"
	"github.com/seaward0/seaward/internal/app"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "",
		"listen address (overrides server_addr config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger := newLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("cleanup failed", "error", closeErr)
		}
	}()

	if err := a.EnsureIndex(ctx, false); err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.ServerAddr
	}

	srv := api.NewServer(a.SessionStore, a.DBPool, a.Flow, logger)
	return srv.Run(ctx, addr)
}
