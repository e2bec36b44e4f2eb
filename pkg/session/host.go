package session

import (
	"context"

	"github.com/aretw0/vine/pkg/domain"
)

// Host is the feature-agnostic view of a Manager used by transports.
// States are returned as the feature's state values boxed in any; they
// marshal to the same JSON the snapshots hold.
type Host interface {
	Feature() string
	Actions() []string
	Open(ctx context.Context, sessionID string) (state any, created bool, err error)
	Send(ctx context.Context, sessionID string, env domain.ActionEnvelope) (any, error)
	Snapshot(ctx context.Context, sessionID string) (any, error)
	Render(ctx context.Context, sessionID string) (string, error)
	Watch(ctx context.Context, sessionID string) (<-chan any, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, sessionID string) error
	Close() error
}

// Host adapts the manager to the Host interface.
func (m *Manager[S, A]) Host() Host {
	return host[S, A]{m: m}
}

type host[S, A any] struct {
	m *Manager[S, A]
}

func (h host[S, A]) Feature() string { return h.m.feature.Name }

func (h host[S, A]) Actions() []string {
	if h.m.feature.Actions == nil {
		return nil
	}
	return h.m.feature.Actions.Names()
}

func (h host[S, A]) Open(ctx context.Context, sessionID string) (any, bool, error) {
	store, created, err := h.m.Open(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}
	return store.State(), created, nil
}

func (h host[S, A]) Send(ctx context.Context, sessionID string, env domain.ActionEnvelope) (any, error) {
	state, err := h.m.DispatchEnvelope(ctx, sessionID, env)
	if err != nil {
		return nil, err
	}
	return state, nil
}

func (h host[S, A]) Snapshot(ctx context.Context, sessionID string) (any, error) {
	state, err := h.m.State(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return state, nil
}

func (h host[S, A]) Render(ctx context.Context, sessionID string) (string, error) {
	state, err := h.m.State(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if h.m.feature.Render == nil {
		return "", nil
	}
	return h.m.feature.Render(state), nil
}

func (h host[S, A]) Watch(ctx context.Context, sessionID string) (<-chan any, error) {
	states, err := h.m.Subscribe(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	out := make(chan any, 1)
	go func() {
		defer close(out)
		for state := range states {
			select {
			case out <- state:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (h host[S, A]) List(ctx context.Context) ([]string, error) {
	return h.m.List(ctx)
}

func (h host[S, A]) Delete(ctx context.Context, sessionID string) error {
	return h.m.Delete(ctx, sessionID)
}

func (h host[S, A]) Close() error {
	return h.m.Close()
}
