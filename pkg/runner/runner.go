package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/vine/pkg/domain"
	"github.com/aretw0/vine/pkg/ports"
)

// Runner executes effect requests. It implements ports.Executor.
type Runner struct {
	handlers     map[string]ports.EffectHandler
	logger       *slog.Logger
	tickInterval time.Duration
	timeout      time.Duration
	interceptor  Interceptor

	mu      sync.Mutex
	flights map[string]*flight
	seq     uint64
	closed  bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type flight struct {
	ports.Flight
	cancel context.CancelFunc
}

var _ ports.Executor = (*Runner)(nil)

// New creates a Runner ready to accept effects.
func New(opts ...Option) *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Runner{
		handlers:    make(map[string]ports.EffectHandler),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		timeout:     DefaultTimeout,
		interceptor: AutoApprove(),
		flights:     make(map[string]*flight),
		ctx:         ctx,
		cancel:      cancel,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start launches req and returns its flight. Results are delivered to sink
// from the flight's goroutine, one at a time, until the flight ends or is
// cancelled. A flight returned by a closed runner is never active.
func (r *Runner) Start(req domain.EffectRequest, sink ports.Sink) ports.Flight {
	switch req.Kind {
	case domain.EffectCancel:
		r.Cancel(req.ID)
		return ports.Flight{ID: req.ID}
	case domain.EffectDismiss:
		return ports.Flight{ID: req.ID}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		r.logger.Warn("effect dropped, runner closed", "effect_id", req.ID)
		return ports.Flight{ID: req.ID}
	}

	if prev, ok := r.flights[req.ID]; ok {
		prev.cancel()
		delete(r.flights, req.ID)
		r.logger.Debug("effect superseded", "effect_id", req.ID, "seq", prev.Seq)
	}

	r.seq++
	f := ports.Flight{ID: req.ID, Seq: r.seq}
	ctx, cancel := context.WithCancel(r.ctx)
	r.flights[req.ID] = &flight{Flight: f, cancel: cancel}

	r.wg.Add(1)
	switch req.Kind {
	case domain.EffectTimer:
		go r.tick(ctx, f, req, sink)
	default:
		go r.run(ctx, f, req, r.handlers[req.Name], sink)
	}
	r.logger.Debug("effect started", "effect_id", req.ID, "kind", req.Kind, "effect", req.Name, "seq", f.Seq)
	return f
}

// Cancel stops the flight with id and every flight scoped beneath it.
func (r *Runner) Cancel(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prefix := id + domain.IDSeparator
	for key, f := range r.flights {
		if key == id || strings.HasPrefix(key, prefix) {
			f.cancel()
			delete(r.flights, key)
			r.logger.Debug("effect cancelled", "effect_id", key, "seq", f.Seq)
		}
	}
}

// Active reports whether f is still the live flight for its ID.
func (r *Runner) Active(f ports.Flight) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.flights[f.ID]
	return ok && cur.Seq == f.Seq
}

// InFlight returns the IDs of the live flights.
func (r *Runner) InFlight() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.flights))
	for id := range r.flights {
		ids = append(ids, id)
	}
	return ids
}

// Close cancels every flight and waits for their goroutines to return.
// Sinks must not block on anything that waits for Close.
func (r *Runner) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	for key, f := range r.flights {
		f.cancel()
		delete(r.flights, key)
	}
	r.cancel()
	r.mu.Unlock()

	r.wg.Wait()
	return nil
}

func (r *Runner) run(ctx context.Context, f ports.Flight, req domain.EffectRequest, h ports.EffectHandler, sink ports.Sink) {
	defer r.wg.Done()
	defer r.finish(f)

	result := r.execute(ctx, req, h)
	if ctx.Err() != nil {
		r.logger.Debug("effect result discarded", "effect_id", req.ID, "seq", f.Seq)
		return
	}
	if result.IsError {
		r.logger.Warn("effect failed", "effect_id", req.ID, "effect", req.Name, "err", result.Error)
	}
	sink(f, result)
}

func (r *Runner) execute(ctx context.Context, req domain.EffectRequest, h ports.EffectHandler) (result domain.EffectResult) {
	defer func() {
		if p := recover(); p != nil {
			result = domain.Failed(req, fmt.Errorf("effect panicked: %v", p))
		}
	}()

	if h == nil {
		return domain.Failed(req, fmt.Errorf("%w: %q", domain.ErrUnknownEffect, req.Name))
	}

	allowed, denied, err := r.interceptor(ctx, req)
	if err != nil {
		return domain.Failed(req, fmt.Errorf("interceptor: %w", err))
	}
	if !allowed {
		denied.ID = req.ID
		denied.Name = req.Name
		denied.IsError = true
		return denied
	}

	runCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	value, err := h.Handle(runCtx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			err = fmt.Errorf("effect timed out after %s: %w", r.timeout, err)
		}
		return domain.Failed(req, err)
	}
	return domain.Succeeded(req, value)
}

func (r *Runner) tick(ctx context.Context, f ports.Flight, req domain.EffectRequest, sink ports.Sink) {
	defer r.wg.Done()
	defer r.finish(f)

	interval := req.Interval
	if r.tickInterval > 0 {
		interval = r.tickInterval
	}
	if interval <= 0 {
		r.logger.Warn("timer effect without interval", "effect_id", req.ID)
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for seq := 1; ; seq++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if ctx.Err() != nil {
			return
		}
		sink(f, domain.EffectResult{ID: req.ID, Name: req.Name, Seq: seq})
	}
}

// finish forgets f unless it has already been superseded.
func (r *Runner) finish(f ports.Flight) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.flights[f.ID]; ok && cur.Seq == f.Seq {
		cur.cancel()
		delete(r.flights, f.ID)
	}
}
