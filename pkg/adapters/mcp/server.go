package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/vine"
	"github.com/aretw0/vine/internal/logging"
	"github.com/aretw0/vine/pkg/codec"
	"github.com/aretw0/vine/pkg/domain"
	"github.com/aretw0/vine/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// StateResponse is the result of every tool that reads or changes a session.
type StateResponse struct {
	SessionID string `json:"session_id" jsonschema_description:"The session the state belongs to"`
	Feature   string `json:"feature" jsonschema_description:"The feature the session runs"`
	State     any    `json:"state" jsonschema_description:"The current state of the session"`
}

// SessionsResponse is the result of list_sessions.
type SessionsResponse struct {
	Feature  string   `json:"feature" jsonschema_description:"The feature this server hosts"`
	Sessions []string `json:"sessions" jsonschema_description:"Stored session ids"`
	Actions  []string `json:"actions" jsonschema_description:"Action types the feature accepts"`
}

// DispatchArgs are the arguments of dispatch_action. Either Command or Type
// must be set.
type DispatchArgs struct {
	SessionID string         `json:"session_id"`
	Type      string         `json:"type,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
	Command   string         `json:"command,omitempty"`
}

// SessionArgs are the arguments of tools that address one session.
type SessionArgs struct {
	SessionID string `json:"session_id"`
}

// Server wraps a session host and exposes it as an MCP Server.
type Server struct {
	host      session.Host
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(host session.Host, opts ...Option) *Server {
	s := &Server{
		host:      host,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("vine-mcp", strings.TrimSpace(vine.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mcpServer.AddTools(s.tools()...)
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the MCP SSE transport on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	baseURL := "http://localhost" + addr
	if !strings.HasPrefix(addr, ":") {
		baseURL = "http://" + addr
	}

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) tools() []server.ServerTool {
	actions := strings.Join(s.host.Actions(), ", ")

	return []server.ServerTool{
		{
			Tool: mcp.NewTool("dispatch_action",
				mcp.WithDescription("Send one action to a session and return the resulting state. "+
					"The session is created on first use. Accepted action types: "+actions),
				mcp.WithString("session_id", mcp.Required(), mcp.Description("Session to act on")),
				mcp.WithString("type", mcp.Description("Action type, dotted for nested features (e.g. add_item.set_name)")),
				mcp.WithObject("payload", mcp.Description("Action fields keyed by snake_case name")),
				mcp.WithString("command", mcp.Description("Alternative to type/payload: one command line such as `increment_button_tapped` or `add_item.set_name name=Hat`")),
				mcp.WithOutputSchema[StateResponse](),
			),
			Handler: mcp.NewStructuredToolHandler(s.handleDispatch),
		},
		{
			Tool: mcp.NewTool("get_state",
				mcp.WithDescription("Return the current state of a session."),
				mcp.WithString("session_id", mcp.Required(), mcp.Description("Session to read")),
				mcp.WithOutputSchema[StateResponse](),
			),
			Handler: mcp.NewStructuredToolHandler(s.handleGetState),
		},
		{
			Tool: mcp.NewTool("list_sessions",
				mcp.WithDescription("List stored sessions and the action types the feature accepts."),
				mcp.WithOutputSchema[SessionsResponse](),
			),
			Handler: mcp.NewStructuredToolHandler(s.handleListSessions),
		},
		{
			Tool: mcp.NewTool("render_view",
				mcp.WithDescription("Render a session as markdown."),
				mcp.WithString("session_id", mcp.Required(), mcp.Description("Session to render")),
			),
			Handler: s.handleRenderView,
		},
	}
}

func (s *Server) handleDispatch(ctx context.Context, request mcp.CallToolRequest, args DispatchArgs) (StateResponse, error) {
	if args.SessionID == "" {
		return StateResponse{}, errors.New("session_id is required")
	}

	env, err := envelope(args)
	if err != nil {
		s.logger.Warn("MCP dispatch: input rejected", "session_id", args.SessionID, "err", err)
		return StateResponse{}, err
	}

	state, err := s.host.Send(ctx, args.SessionID, env)
	if err != nil {
		return StateResponse{}, fmt.Errorf("dispatch failed: %w", err)
	}
	s.logger.Debug("MCP dispatch", "session_id", args.SessionID, "action", env.Type)
	return s.response(args.SessionID, state), nil
}

func envelope(args DispatchArgs) (domain.ActionEnvelope, error) {
	if args.Command != "" {
		if args.Type != "" {
			return domain.ActionEnvelope{}, errors.New("set either command or type, not both")
		}
		return codec.ParseCommand(args.Command)
	}
	if strings.TrimSpace(args.Type) == "" {
		return domain.ActionEnvelope{}, codec.ErrEmptyCommand
	}
	return domain.ActionEnvelope{Type: args.Type, Payload: args.Payload}, nil
}

func (s *Server) handleGetState(ctx context.Context, request mcp.CallToolRequest, args SessionArgs) (StateResponse, error) {
	state, err := s.host.Snapshot(ctx, args.SessionID)
	if err != nil {
		return StateResponse{}, fmt.Errorf("get state failed: %w", err)
	}
	return s.response(args.SessionID, state), nil
}

func (s *Server) handleListSessions(ctx context.Context, request mcp.CallToolRequest, _ struct{}) (SessionsResponse, error) {
	ids, err := s.host.List(ctx)
	if err != nil {
		return SessionsResponse{}, fmt.Errorf("list sessions failed: %w", err)
	}
	return SessionsResponse{
		Feature:  s.host.Feature(),
		Sessions: ids,
		Actions:  s.host.Actions(),
	}, nil
}

func (s *Server) handleRenderView(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	view, err := s.host.Render(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("render failed: %v", err)), nil
	}
	return mcp.NewToolResultText(view), nil
}

func (s *Server) response(id string, state any) StateResponse {
	return StateResponse{SessionID: id, Feature: s.host.Feature(), State: state}
}

func (s *Server) registerResources() {
	uri := "vine://" + s.host.Feature() + "/actions"
	s.mcpServer.AddResource(mcp.NewResource(uri, "Feature Actions",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(map[string]any{
			"feature": s.host.Feature(),
			"actions": s.host.Actions(),
		})
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
