package reducer

import (
	"time"

	"github.com/aretw0/vine/pkg/domain"
)

// Effect is an inert description of work for the host plus the pure
// constructor that turns the work's result into the next action.
// Feedback is nil for requests that never produce results (cancel, dismiss).
type Effect[A any] struct {
	Request  domain.EffectRequest
	Feedback func(domain.EffectResult) A
}

// Run requests a one-shot execution of the operation registered as name.
// Starting an id that is already in flight cancels the previous flight.
func Run[A any](id, name string, args map[string]any, feedback func(domain.EffectResult) A) Effect[A] {
	return Effect[A]{
		Request: domain.EffectRequest{
			Kind: domain.EffectRun,
			ID:   id,
			Name: name,
			Args: args,
		},
		Feedback: feedback,
	}
}

// Timer requests a result every interval until the id is cancelled.
func Timer[A any](id string, every time.Duration, feedback func(domain.EffectResult) A) Effect[A] {
	return Effect[A]{
		Request: domain.EffectRequest{
			Kind:     domain.EffectTimer,
			ID:       id,
			Interval: every,
		},
		Feedback: feedback,
	}
}

// Cancel stops the flight with id and every flight scoped beneath it.
func Cancel[A any](id string) Effect[A] {
	return Effect[A]{
		Request: domain.EffectRequest{Kind: domain.EffectCancel, ID: id},
	}
}

// DismissSelf lets a presented child ask its slot to tear it down.
func DismissSelf[A any]() Effect[A] {
	return Effect[A]{
		Request: domain.EffectRequest{Kind: domain.EffectDismiss},
	}
}

// Map lifts child effects into the parent's action space.
// Request IDs are namespaced under scope and feedback is wrapped with embed.
func Map[C, P any](effects []Effect[C], scope string, embed func(C) P) []Effect[P] {
	if len(effects) == 0 {
		return nil
	}
	out := make([]Effect[P], 0, len(effects))
	for _, e := range effects {
		req := e.Request
		if req.Kind != domain.EffectDismiss {
			req.ID = domain.Scoped(scope, req.ID)
		}
		lifted := Effect[P]{Request: req}
		if e.Feedback != nil {
			feedback := e.Feedback
			lifted.Feedback = func(res domain.EffectResult) P {
				return embed(feedback(res))
			}
		}
		out = append(out, lifted)
	}
	return out
}

// Requests extracts the inert requests, in order.
func Requests[A any](effects []Effect[A]) []domain.EffectRequest {
	if len(effects) == 0 {
		return nil
	}
	reqs := make([]domain.EffectRequest, len(effects))
	for i, e := range effects {
		reqs[i] = e.Request
	}
	return reqs
}

func splitDismiss[A any](effects []Effect[A]) (kept []Effect[A], dismissed bool) {
	for _, e := range effects {
		if e.Request.Kind == domain.EffectDismiss {
			dismissed = true
			continue
		}
		kept = append(kept, e)
	}
	return kept, dismissed
}
