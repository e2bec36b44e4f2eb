package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/vine"
	"github.com/aretw0/vine/internal/config"
	"github.com/aretw0/vine/internal/presentation/tui"
)

// DefaultSessionID is used when run is given no --session.
const DefaultSessionID = "default"

// RunOptions contains all the configuration for the Run command.
type RunOptions struct {
	Config    config.Config
	SessionID string
	Debug     bool
	// Fresh deletes the stored session before starting.
	Fresh bool
	// Plain disables markdown styling even on a terminal.
	Plain bool
}

// Execute handles the 'run' command: an interactive session on stdin/stdout.
func Execute(opts RunOptions) error {
	if opts.SessionID == "" {
		opts.SessionID = DefaultSessionID
	}

	logger, err := NewLogger(opts.Config.LogLevel, opts.Debug, !opts.Debug)
	if err != nil {
		return err
	}

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	app, err := NewApp(sigCtx, opts.Config, logger)
	if err != nil {
		return fmt.Errorf("error initializing vine: %w", err)
	}
	defer app.Close()

	if opts.Fresh {
		if err := app.Host.Delete(sigCtx, opts.SessionID); err != nil {
			return fmt.Errorf("reset session %s: %w", opts.SessionID, err)
		}
	}

	if addr := opts.Config.Metrics.Addr; addr != "" {
		go func() {
			if err := ServeMetrics(sigCtx, addr, app.Registry, logger); err != nil {
				logger.Error("metrics listener failed", "address", addr, "err", err)
			}
		}()
	}

	tui.PrintBanner(os.Stdout, strings.TrimSpace(vine.Version))

	repl := NewREPL(app.Host, opts.SessionID, os.Stdout,
		WithRenderer(ChooseRenderer(os.Stdout, opts.Plain)),
		WithREPLLogger(logger),
	)
	runErr := repl.Run(sigCtx, NewInterruptibleReader(os.Stdin, sigCtx.Done()))

	logCompletion(os.Stdout, opts.SessionID, runErr, sigCtx.Signal())
	return handleExecutionError(runErr)
}
