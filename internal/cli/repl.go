package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/vine/internal/logging"
	"github.com/aretw0/vine/internal/presentation/tui"
	"github.com/aretw0/vine/pkg/codec"
	"github.com/aretw0/vine/pkg/session"
)

const helpText = `Commands:
  <action> [key=value ...]   send an action, e.g. add_item.set_name name="Blue hat"
  actions                    list the action types of this feature
  state                      print the raw state as JSON
  help                       show this help
  quit                       leave (the session is kept)`

// REPL drives one session from text commands and prints its view after
// every change, including changes made by effects (timers, fetched facts).
type REPL struct {
	host      session.Host
	sessionID string
	out       io.Writer
	render    tui.Renderer
	logger    *slog.Logger

	last string
}

// REPLOption configures a REPL.
type REPLOption func(*REPL)

// WithRenderer sets how markdown views are printed.
func WithRenderer(r tui.Renderer) REPLOption {
	return func(p *REPL) {
		p.render = r
	}
}

// WithREPLLogger configures the REPL logger.
func WithREPLLogger(logger *slog.Logger) REPLOption {
	return func(p *REPL) {
		p.logger = logger
	}
}

// NewREPL creates a REPL for sessionID writing to out.
func NewREPL(host session.Host, sessionID string, out io.Writer, opts ...REPLOption) *REPL {
	p := &REPL{
		host:      host,
		sessionID: sessionID,
		out:       out,
		render:    tui.Plain,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run reads commands from in until quit, EOF or ctx is done.
func (p *REPL) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	_, created, err := p.host.Open(ctx, p.sessionID)
	if err != nil {
		return fmt.Errorf("open session %s: %w", p.sessionID, err)
	}
	if created {
		printSystemMessage(p.out, "Session '%s' created (%s).", p.sessionID, p.host.Feature())
	} else {
		printSystemMessage(p.out, "Resuming session '%s' (%s).", p.sessionID, p.host.Feature())
	}
	p.logger.Info("REPL started", "session_id", p.sessionID, "created", created)

	states, err := p.host.Watch(ctx, p.sessionID)
	if err != nil {
		return fmt.Errorf("watch session %s: %w", p.sessionID, err)
	}

	p.refresh(ctx)
	p.prompt()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 4096), codec.DefaultMaxInputSize*2)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-states:
			if !ok {
				return nil
			}
			if p.refresh(ctx) {
				p.prompt()
			}
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					if err != nil {
						return err
					}
				default:
				}
				return io.EOF
			}
			if p.handle(ctx, line) {
				return nil
			}
			p.prompt()
		}
	}
}

// handle runs one command line and reports whether the REPL should stop.
func (p *REPL) handle(ctx context.Context, line string) bool {
	switch strings.TrimSpace(line) {
	case "":
		return false
	case "quit", "exit":
		return true
	case "help", "?":
		fmt.Fprintln(p.out, helpText)
		return false
	case "actions":
		for _, name := range p.host.Actions() {
			fmt.Fprintf(p.out, "  %s\n", name)
		}
		return false
	case "state":
		state, err := p.host.Snapshot(ctx, p.sessionID)
		if err != nil {
			p.fail(err)
			return false
		}
		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			p.fail(err)
			return false
		}
		fmt.Fprintln(p.out, string(data))
		return false
	}

	env, err := codec.ParseCommand(line)
	if err != nil {
		p.fail(err)
		return false
	}
	if _, err := p.host.Send(ctx, p.sessionID, env); err != nil {
		p.fail(err)
		return false
	}
	p.logger.Debug("action sent", "session_id", p.sessionID, "action", env.Type)
	p.refresh(ctx)
	return false
}

// refresh prints the view if it changed since the last print.
func (p *REPL) refresh(ctx context.Context) bool {
	view, err := p.host.Render(ctx, p.sessionID)
	if err != nil {
		p.fail(err)
		return false
	}
	if view == p.last {
		return false
	}
	p.last = view

	out, err := p.render(view)
	if err != nil {
		p.logger.Warn("render failed, printing markdown", "err", err)
		out = view
	}
	fmt.Fprintln(p.out)
	fmt.Fprint(p.out, out)
	if !strings.HasSuffix(out, "\n") {
		fmt.Fprintln(p.out)
	}
	return true
}

func (p *REPL) prompt() {
	fmt.Fprint(p.out, tui.Prompt(p.out, "> "))
}

func (p *REPL) fail(err error) {
	fmt.Fprintln(p.out, tui.Errorf(p.out, "error: %v", err))
}
