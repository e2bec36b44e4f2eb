package observability

import (
	"context"

	"github.com/aretw0/vine/pkg/domain"
)

// Combine merges several hook sets into one. Each callback fans out to
// every non-nil callback of the same kind, in argument order.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var (
		onAction []func(context.Context, *domain.ActionEvent)
		start    []func(context.Context, *domain.EffectEvent)
		finish   []func(context.Context, *domain.EffectEvent)
		cancel   []func(context.Context, *domain.EffectEvent)
		stale    []func(context.Context, *domain.EffectEvent)
	)
	for _, h := range sets {
		if h.OnAction != nil {
			onAction = append(onAction, h.OnAction)
		}
		start = appendEffect(start, h.OnEffectStart)
		finish = appendEffect(finish, h.OnEffectFinish)
		cancel = appendEffect(cancel, h.OnEffectCancel)
		stale = appendEffect(stale, h.OnStaleResult)
	}

	var out domain.LifecycleHooks
	if len(onAction) > 0 {
		out.OnAction = func(ctx context.Context, e *domain.ActionEvent) {
			for _, fn := range onAction {
				fn(ctx, e)
			}
		}
	}
	out.OnEffectStart = fanOut(start)
	out.OnEffectFinish = fanOut(finish)
	out.OnEffectCancel = fanOut(cancel)
	out.OnStaleResult = fanOut(stale)
	return out
}

func appendEffect(fns []func(context.Context, *domain.EffectEvent), fn func(context.Context, *domain.EffectEvent)) []func(context.Context, *domain.EffectEvent) {
	if fn == nil {
		return fns
	}
	return append(fns, fn)
}

func fanOut(fns []func(context.Context, *domain.EffectEvent)) func(context.Context, *domain.EffectEvent) {
	if len(fns) == 0 {
		return nil
	}
	return func(ctx context.Context, e *domain.EffectEvent) {
		for _, fn := range fns {
			fn(ctx, e)
		}
	}
}
