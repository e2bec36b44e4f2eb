package vine

import (
	"log/slog"

	"github.com/aretw0/vine/pkg/domain"
	"github.com/aretw0/vine/pkg/ports"
)

type options struct {
	id       string
	executor ports.Executor
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
}

// Option configures a Store.
type Option func(*options)

// WithID labels the store in logs and lifecycle events.
func WithID(id string) Option {
	return func(o *options) {
		o.id = id
	}
}

// WithExecutor injects the effect executor. The store does not close an
// injected executor; by default it creates and owns a runner.Runner.
func WithExecutor(e ports.Executor) Option {
	return func(o *options) {
		o.executor = e
	}
}

// WithLogger sets a custom structured logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(o *options) {
		o.hooks = hooks
	}
}
