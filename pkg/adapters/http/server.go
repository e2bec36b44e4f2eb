package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/vine"
	"github.com/aretw0/vine/internal/logging"
	"github.com/aretw0/vine/pkg/codec"
	"github.com/aretw0/vine/pkg/domain"
	"github.com/aretw0/vine/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DefaultHeartbeat is how often an idle event stream sends a comment line.
const DefaultHeartbeat = 15 * time.Second

// maxBody bounds action request bodies; the payload itself is bounded
// again by codec.Sanitize for the text form.
const maxBody = 64 << 10

// Server exposes a session host over HTTP.
type Server struct {
	host      session.Host
	logger    *slog.Logger
	metrics   http.Handler
	heartbeat time.Duration
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithHeartbeat sets the event stream keep-alive interval.
func WithHeartbeat(d time.Duration) Option {
	return func(s *Server) {
		s.heartbeat = d
	}
}

// SessionResponse is the body of every session read or write.
type SessionResponse struct {
	SessionID string `json:"session_id"`
	Feature   string `json:"feature"`
	State     any    `json:"state"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewHandler creates the HTTP handler for host.
func NewHandler(host session.Host, opts ...Option) http.Handler {
	s := &Server{
		host:      host,
		logger:    logging.NewNop(),
		heartbeat: DefaultHeartbeat,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/healthz", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Put("/", s.OpenSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/actions", s.PostAction)
			r.Get("/view", s.GetView)
			r.Get("/events", s.SubscribeEvents)
		})
	})
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"app":     "vine-http",
		"version": strings.TrimSpace(vine.Version),
		"feature": s.host.Feature(),
		"actions": s.host.Actions(),
	})
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.host.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"feature":  s.host.Feature(),
		"sessions": ids,
	})
}

// GetSession handles GET /sessions/{id}. Unknown sessions are 404.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	state, err := s.host.Snapshot(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.response(id, state))
}

// OpenSession handles PUT /sessions/{id}: 201 when created, 200 otherwise.
func (s *Server) OpenSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	state, created, err := s.host.Open(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, s.response(id, state))
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.host.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PostAction handles POST /sessions/{id}/actions.
//
// The body is either a JSON envelope {"type": ..., "payload": {...}} or,
// with Content-Type text/plain, one REPL command line.
func (s *Server) PostAction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	env, err := decodeAction(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	state, err := s.host.Send(r.Context(), id, env)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Debug("action dispatched", "session_id", id, "action", env.Type)
	writeJSON(w, http.StatusOK, s.response(id, state))
}

// GetView handles GET /sessions/{id}/view, the markdown rendering.
func (s *Server) GetView(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	view, err := s.host.Render(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = io.WriteString(w, view)
}

// SubscribeEvents handles GET /sessions/{id}/events (SSE). Every state the
// session publishes is sent as a "state" event; slow clients skip
// intermediate states.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: streaming not supported")
		return
	}

	if _, err := s.host.Snapshot(ctx, id); err != nil {
		s.fail(w, r, err)
		return
	}

	states, err := s.host.Watch(ctx, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()
	s.logger.Info("SSE: client subscribed", "session_id", id)

	heartbeat := time.NewTicker(s.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("SSE: client disconnected", "session_id", id)
			return
		case <-heartbeat.C:
			fmt.Fprintf(w, ": keep-alive\n\n")
			flusher.Flush()
		case state, ok := <-states:
			if !ok {
				fmt.Fprintf(w, "event: closed\ndata: %s\n\n", id)
				flusher.Flush()
				return
			}
			data, err := json.Marshal(s.response(id, state))
			if err != nil {
				s.logger.Error("SSE: encode state failed", "session_id", id, "err", err)
				continue
			}
			fmt.Fprintf(w, "event: state\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}

func (s *Server) response(id string, state any) SessionResponse {
	return SessionResponse{SessionID: id, Feature: s.host.Feature(), State: state}
}

func decodeAction(r *http.Request) (domain.ActionEnvelope, error) {
	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.ActionEnvelope{}, fmt.Errorf("%w: %w", codec.ErrInputTooLarge, err)
		}
		return domain.ActionEnvelope{}, fmt.Errorf("%w: read body: %w", codec.ErrMalformedCommand, err)
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "text/plain" {
		return codec.ParseCommand(string(body))
	}

	var env domain.ActionEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return env, fmt.Errorf("%w: %w", codec.ErrMalformedCommand, err)
	}
	if strings.TrimSpace(env.Type) == "" {
		return env, codec.ErrEmptyCommand
	}
	return env, nil
}

// StatusFor maps host errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnknownAction),
		errors.Is(err, codec.ErrInvalidPayload),
		errors.Is(err, codec.ErrMalformedCommand),
		errors.Is(err, codec.ErrEmptyCommand),
		errors.Is(err, codec.ErrInvalidUTF8):
		return http.StatusBadRequest
	case errors.Is(err, codec.ErrInputTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrStoreClosed):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
