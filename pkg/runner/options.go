package runner

import (
	"log/slog"
	"time"

	"github.com/aretw0/vine/pkg/ports"
)

// DefaultTimeout bounds a single run effect when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithHandler registers the handler for run effects named name.
func WithHandler(name string, h ports.EffectHandler) Option {
	return func(r *Runner) {
		r.handlers[name] = h
	}
}

// WithHandlers registers several handlers at once.
func WithHandlers(handlers map[string]ports.EffectHandler) Option {
	return func(r *Runner) {
		for name, h := range handlers {
			r.handlers[name] = h
		}
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithTickInterval overrides the interval of every timer effect.
// Zero keeps the interval requested by the reducer.
func WithTickInterval(d time.Duration) Option {
	return func(r *Runner) {
		r.tickInterval = d
	}
}

// WithTimeout bounds each run effect. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.timeout = d
	}
}

// WithInterceptor configures the run effect policy.
func WithInterceptor(i Interceptor) Option {
	return func(r *Runner) {
		r.interceptor = i
	}
}
