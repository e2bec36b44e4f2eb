package domain

import "time"

// EffectKind defines how the host should treat an EffectRequest.
type EffectKind string

const (
	// EffectRun asks the host to execute a named operation once.
	EffectRun EffectKind = "run"

	// EffectTimer asks the host to deliver a result every Interval until cancelled.
	EffectTimer EffectKind = "timer"

	// EffectCancel asks the host to stop the flight with ID and all of its descendants.
	EffectCancel EffectKind = "cancel"

	// EffectDismiss is consumed by presentation slots and never reaches the host.
	EffectDismiss EffectKind = "dismiss"
)

// IDSeparator joins a scope and a child effect ID ("add_item/fact").
const IDSeparator = "/"

// EffectRequest is an inert description of a side-effect.
// Reducers return requests; they never perform the work themselves.
type EffectRequest struct {
	Kind     EffectKind     `json:"kind"`
	ID       string         `json:"id,omitempty"`
	Name     string         `json:"name,omitempty"`
	Args     map[string]any `json:"args,omitempty"`
	Interval time.Duration  `json:"interval,omitempty"`
}

// EffectResult is what the host reports back after executing a request.
type EffectResult struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Value   any    `json:"value,omitempty"`
	IsError bool   `json:"is_error,omitempty"`
	Error   string `json:"error,omitempty"`

	// Seq counts deliveries for timer effects, starting at 1.
	Seq int `json:"seq,omitempty"`
}

// Failed builds an error result for the given request.
func Failed(req EffectRequest, err error) EffectResult {
	return EffectResult{
		ID:      req.ID,
		Name:    req.Name,
		IsError: true,
		Error:   err.Error(),
	}
}

// Succeeded builds a successful result for the given request.
func Succeeded(req EffectRequest, value any) EffectResult {
	return EffectResult{
		ID:    req.ID,
		Name:  req.Name,
		Value: value,
	}
}

// Scoped prefixes id with scope. An empty scope leaves id untouched.
func Scoped(scope, id string) string {
	if scope == "" {
		return id
	}
	if id == "" {
		return scope
	}
	return scope + IDSeparator + id
}
