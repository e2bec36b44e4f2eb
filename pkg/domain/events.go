package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventAction       EventType = "action"
	EventEffectStart  EventType = "effect_start"
	EventEffectFinish EventType = "effect_finish"
	EventEffectCancel EventType = "effect_cancel"
	EventStaleResult  EventType = "stale_result"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	StoreID   string    `json:"store_id,omitempty"`
}

// ActionEvent is emitted after an action has been reduced.
type ActionEvent struct {
	EventBase
	Action   string        `json:"action"`
	Effects  int           `json:"effects"`
	Duration time.Duration `json:"duration"`
}

// EffectEvent describes a transition in an effect's life.
type EffectEvent struct {
	EventBase
	EffectID string     `json:"effect_id"`
	Kind     EffectKind `json:"kind"`
	Name     string     `json:"name,omitempty"`
	IsError  bool       `json:"is_error,omitempty"`
}

// LifecycleHooks defines callbacks for store observability.
// Any field may be nil.
type LifecycleHooks struct {
	OnAction       func(context.Context, *ActionEvent)
	OnEffectStart  func(context.Context, *EffectEvent)
	OnEffectFinish func(context.Context, *EffectEvent)
	OnEffectCancel func(context.Context, *EffectEvent)
	OnStaleResult  func(context.Context, *EffectEvent)
}

// NewEventBase stamps an event with the current time.
func NewEventBase(t EventType, storeID string) EventBase {
	return EventBase{Timestamp: time.Now(), Type: t, StoreID: storeID}
}
