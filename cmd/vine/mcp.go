package main

import (
	"fmt"
	"log"
	"os"

	"github.com/aretw0/vine/internal/cli"
	"github.com/aretw0/vine/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the configured feature as an MCP Server.
This allows AI agents to drive sessions through the dispatch_action,
get_state, list_sessions and render_view tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		transport, _ := cmd.Flags().GetString("transport")
		addr, _ := cmd.Flags().GetString("addr")

		// Logs go to stderr so they never corrupt JSON-RPC on stdout.
		log.SetOutput(os.Stderr)
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

		if cfg.Metrics.Addr != "" {
			go func() {
				if err := cli.ServeMetrics(sigCtx, cfg.Metrics.Addr, app.Registry, logger); err != nil {
					logger.Error("metrics listener failed", "err", err)
				}
			}()
		}

		srv := mcp.NewServer(app.Host, mcp.WithLogger(logger))

		switch transport {
		case "stdio":
			logger.Info("Starting vine MCP Server (Stdio)", "feature", cfg.Feature)
			if err := srv.ServeStdio(); err != nil {
				return fmt.Errorf("MCP Server execution failed: %w", err)
			}
		case "sse":
			logger.Info("Starting vine MCP Server (SSE)", "feature", cfg.Feature, "address", addr)
			if err := srv.ServeSSE(sigCtx, addr); err != nil {
				return fmt.Errorf("MCP Server execution failed: %w", err)
			}
			logger.Info("MCP Server stopped gracefully")
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().String("addr", ":8081", "Address to listen on (only for SSE)")
}
