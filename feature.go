package vine

import (
	"github.com/aretw0/vine/pkg/codec"
	"github.com/aretw0/vine/pkg/reducer"
)

// Feature bundles what a host needs to run a reducer without knowing its
// concrete types: a name, the initial state, the reducer, the action codec
// and a markdown view.
type Feature[S, A any] struct {
	Name    string
	Initial func() S
	Reducer reducer.Reducer[S, A]
	Actions *codec.Registry[A]
	Render  func(S) string

	// Resume normalizes a state loaded from a snapshot. Effects do not
	// survive a restart, so state that waits on one (a running timer, a
	// loading flag) must be reset. Nil keeps the state as loaded.
	Resume func(S) S
}

// Restore applies Resume, if any.
func (f Feature[S, A]) Restore(state S) S {
	if f.Resume == nil {
		return state
	}
	return f.Resume(state)
}

// NewStore starts a store at the feature's initial state.
func (f Feature[S, A]) NewStore(opts ...Option) *Store[S, A] {
	return NewStore(f.Initial(), f.Reducer, append([]Option{WithID(f.Name)}, opts...)...)
}
