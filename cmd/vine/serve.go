package main

import (
	"fmt"

	"github.com/aretw0/vine/internal/cli"
	httpAdapter "github.com/aretw0/vine/pkg/adapters/http"
	"github.com/aretw0/vine/pkg/observability"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves the configured feature over HTTP: session CRUD, actions,
markdown views, server-sent state events and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.HTTP.Addr, _ = cmd.Flags().GetString("addr")
		}

		logger, err := cli.NewLogger(cfg.LogLevel, false, false)
		if err != nil {
			return err
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		app, err := cli.NewApp(sigCtx, cfg, logger)
		if err != nil {
			return fmt.Errorf("error initializing vine: %w", err)
		}
		defer app.Close()

		handler := httpAdapter.NewHandler(app.Host,
			httpAdapter.WithLogger(logger),
			httpAdapter.WithMetrics(observability.Handler(app.Registry)),
		)

		logger.Info("Starting vine server", "feature", cfg.Feature, "store", cfg.Store.Backend)
		if err := cli.ListenAndServe(sigCtx, cfg.HTTP.Addr, handler, logger); err != nil {
			return err
		}
		logger.Info("Vine server stopped gracefully", "signal", sigCtx.Signal())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "", "Address to listen on (default from config, :8080)")
}
