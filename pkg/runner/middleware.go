package runner

import (
	"context"
	"fmt"

	"github.com/aretw0/vine/pkg/domain"
)

// Interceptor can block a run effect before its handler is called.
// It returns true if execution should proceed. When blocking, it returns the
// result to deliver instead (typically an error result).
type Interceptor func(ctx context.Context, req domain.EffectRequest) (bool, domain.EffectResult, error)

// MultiInterceptor chains interceptors; the first to block wins.
func MultiInterceptor(interceptors ...Interceptor) Interceptor {
	return func(ctx context.Context, req domain.EffectRequest) (bool, domain.EffectResult, error) {
		for _, interceptor := range interceptors {
			allowed, result, err := interceptor(ctx, req)
			if err != nil {
				return false, domain.EffectResult{}, err
			}
			if !allowed {
				return false, result, nil
			}
		}
		return true, domain.EffectResult{}, nil
	}
}

// AutoApprove allows everything.
func AutoApprove() Interceptor {
	return func(context.Context, domain.EffectRequest) (bool, domain.EffectResult, error) {
		return true, domain.EffectResult{}, nil
	}
}

// AllowOnly lets through run effects whose name is listed and denies the
// rest with an error result. An empty list allows everything.
func AllowOnly(names ...string) Interceptor {
	if len(names) == 0 {
		return AutoApprove()
	}
	allowed := make(map[string]bool, len(names))
	for _, n := range names {
		allowed[n] = true
	}
	return func(_ context.Context, req domain.EffectRequest) (bool, domain.EffectResult, error) {
		if allowed[req.Name] {
			return true, domain.EffectResult{}, nil
		}
		return false, domain.Failed(req, fmt.Errorf("effect %q denied by policy", req.Name)), nil
	}
}
