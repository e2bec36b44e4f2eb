package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/vine/pkg/domain"
)

// LogHooks logs every lifecycle event. Actions and effect transitions go
// to Debug; failed effects and stale results go to Info.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	effect := func(msg string) func(context.Context, *domain.EffectEvent) {
		return func(ctx context.Context, e *domain.EffectEvent) {
			level := slog.LevelDebug
			if e.IsError || e.Type == domain.EventStaleResult {
				level = slog.LevelInfo
			}
			logger.Log(ctx, level, msg,
				"store", e.StoreID,
				"effect_id", e.EffectID,
				"kind", e.Kind,
				"effect", e.Name,
				"is_error", e.IsError,
			)
		}
	}

	return domain.LifecycleHooks{
		OnAction: func(ctx context.Context, e *domain.ActionEvent) {
			logger.Debug("action",
				"store", e.StoreID,
				"action", e.Action,
				"effects", e.Effects,
				"duration", e.Duration,
			)
		},
		OnEffectStart:  effect("effect_start"),
		OnEffectFinish: effect("effect_finish"),
		OnEffectCancel: effect("effect_cancel"),
		OnStaleResult:  effect("stale_result"),
	}
}
