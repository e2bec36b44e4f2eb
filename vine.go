package vine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/vine/pkg/domain"
	"github.com/aretw0/vine/pkg/ports"
	"github.com/aretw0/vine/pkg/reducer"
	"github.com/aretw0/vine/pkg/runner"
)

// Store owns the state of one feature instance.
//
// Send and effect feedback go through a single mutex, so the reducer sees
// one action at a time in arrival order. Effects are handed to the executor
// after the new state has been published.
type Store[S, A any] struct {
	id           string
	reducer      reducer.Reducer[S, A]
	executor     ports.Executor
	ownsExecutor bool
	logger       *slog.Logger
	hooks        domain.LifecycleHooks

	mu      sync.Mutex
	state   S
	version uint64
	closed  bool
	done    chan struct{}

	subsMu sync.Mutex
	subs   map[chan S]struct{}
}

// NewStore creates a store holding initial.
func NewStore[S, A any](initial S, r reducer.Reducer[S, A], opts ...Option) *Store[S, A] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.id != "" {
		o.logger = o.logger.With("store", o.id)
	}

	s := &Store[S, A]{
		id:       o.id,
		reducer:  r,
		executor: o.executor,
		logger:   o.logger,
		hooks:    o.hooks,
		state:    initial,
		done:     make(chan struct{}),
		subs:     make(map[chan S]struct{}),
	}
	if s.executor == nil {
		s.executor = runner.New(runner.WithLogger(o.logger))
		s.ownsExecutor = true
	}
	return s
}

// ID returns the label given with WithID.
func (s *Store[S, A]) ID() string {
	return s.id
}

// Send reduces action and returns the resulting state.
func (s *Store[S, A]) Send(action A) (S, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		var zero S
		return zero, domain.ErrStoreClosed
	}
	return s.dispatch(action), nil
}

// State returns the current state.
func (s *Store[S, A]) State() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Version counts the actions reduced so far.
func (s *Store[S, A]) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Subscribe returns a channel that receives the current state immediately
// and every later state. Slow readers only see the latest one. The channel
// is closed when ctx is done or the store is closed.
func (s *Store[S, A]) Subscribe(ctx context.Context) <-chan S {
	ch := make(chan S, 1)

	s.mu.Lock()
	ch <- s.state
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch
	}
	s.subsMu.Lock()
	s.subs[ch] = struct{}{}
	s.subsMu.Unlock()
	s.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			s.unsubscribe(ch)
		case <-s.done:
		}
	}()
	return ch
}

// Close stops accepting actions, cancels every effect and closes
// subscriptions. It is safe to call more than once.
func (s *Store[S, A]) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.done)
	s.mu.Unlock()

	var err error
	if s.ownsExecutor {
		err = s.executor.Close()
	}

	s.subsMu.Lock()
	for ch := range s.subs {
		close(ch)
		delete(s.subs, ch)
	}
	s.subsMu.Unlock()
	return err
}

// dispatch must be called with s.mu held.
func (s *Store[S, A]) dispatch(action A) S {
	start := time.Now()
	next, effects := s.reducer.Reduce(s.state, action)
	s.state = next
	s.version++
	s.publish(next)

	name := ActionName(action)
	s.logger.Debug("action reduced", "action", name, "effects", len(effects))
	if s.hooks.OnAction != nil {
		s.hooks.OnAction(context.Background(), &domain.ActionEvent{
			EventBase: domain.NewEventBase(domain.EventAction, s.id),
			Action:    name,
			Effects:   len(effects),
			Duration:  time.Since(start),
		})
	}

	for _, e := range effects {
		s.launch(e)
	}
	return next
}

// launch must be called with s.mu held.
func (s *Store[S, A]) launch(e reducer.Effect[A]) {
	req := e.Request
	switch req.Kind {
	case domain.EffectDismiss:
		s.logger.Warn("dismiss effect reached the store; it is only meaningful inside a presentation slot")
		return
	case domain.EffectCancel:
		s.executor.Cancel(req.ID)
		s.fire(s.hooks.OnEffectCancel, domain.EventEffectCancel, req, false)
		return
	}

	feedback := e.Feedback
	s.executor.Start(req, func(f ports.Flight, res domain.EffectResult) {
		s.deliver(f, req, res, feedback)
	})
	s.fire(s.hooks.OnEffectStart, domain.EventEffectStart, req, false)
}

func (s *Store[S, A]) deliver(f ports.Flight, req domain.EffectRequest, res domain.EffectResult, feedback func(domain.EffectResult) A) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || !s.executor.Active(f) {
		s.logger.Debug("stale effect result dropped", "effect_id", f.ID, "seq", f.Seq)
		s.fire(s.hooks.OnStaleResult, domain.EventStaleResult, req, res.IsError)
		return
	}

	s.fire(s.hooks.OnEffectFinish, domain.EventEffectFinish, req, res.IsError)
	if feedback == nil {
		return
	}
	s.dispatch(feedback(res))
}

func (s *Store[S, A]) fire(hook func(context.Context, *domain.EffectEvent), t domain.EventType, req domain.EffectRequest, isError bool) {
	if hook == nil {
		return
	}
	hook(context.Background(), &domain.EffectEvent{
		EventBase: domain.NewEventBase(t, s.id),
		EffectID:  req.ID,
		Kind:      req.Kind,
		Name:      req.Name,
		IsError:   isError,
	})
}

func (s *Store[S, A]) publish(state S) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	for ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- state:
		default:
		}
	}
}

func (s *Store[S, A]) unsubscribe(ch chan S) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	if _, ok := s.subs[ch]; ok {
		delete(s.subs, ch)
		close(ch)
	}
}

// ActionName is the label used for an action in logs, metrics and events.
func ActionName(action any) string {
	return fmt.Sprintf("%T", action)
}
