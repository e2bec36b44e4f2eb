package ports

import (
	"context"

	"github.com/aretw0/vine/pkg/domain"
)

// Flight identifies one execution of an effect.
// Seq distinguishes successive flights that reuse the same ID.
type Flight struct {
	ID  string
	Seq uint64
}

// Sink receives results produced by a flight.
type Sink func(flight Flight, result domain.EffectResult)

// Executor runs effect requests on behalf of a store.
//
// Implementations must keep at most one flight per ID, cancel ID and every
// ID/... descendant on Cancel, and report a flight as inactive as soon as it
// is cancelled or superseded, so the caller can drop stale results.
type Executor interface {
	Start(req domain.EffectRequest, sink Sink) Flight
	Cancel(id string)
	Active(flight Flight) bool
	Close() error
}

// EffectHandler performs the operation behind a run effect.
type EffectHandler interface {
	Handle(ctx context.Context, req domain.EffectRequest) (any, error)
}

// EffectHandlerFunc adapts a function to EffectHandler.
type EffectHandlerFunc func(ctx context.Context, req domain.EffectRequest) (any, error)

// Handle calls f(ctx, req).
func (f EffectHandlerFunc) Handle(ctx context.Context, req domain.EffectRequest) (any, error) {
	return f(ctx, req)
}
