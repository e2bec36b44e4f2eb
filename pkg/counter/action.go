package counter

import (
	"github.com/aretw0/vine/pkg/domain"
	"github.com/aretw0/vine/pkg/reducer"
)

// Action is the closed set of counter actions.
type Action interface {
	apply(Handler, State) (State, []reducer.Effect[Action])
}

// Handler has one method per Action variant.
type Handler interface {
	OnDecrementButtonTapped(State, DecrementButtonTapped) (State, []reducer.Effect[Action])
	OnIncrementButtonTapped(State, IncrementButtonTapped) (State, []reducer.Effect[Action])
	OnFactButtonTapped(State, FactButtonTapped) (State, []reducer.Effect[Action])
	OnFactResponse(State, FactResponse) (State, []reducer.Effect[Action])
	OnAlertDismissed(State, AlertDismissed) (State, []reducer.Effect[Action])
	OnStartTimerButtonTapped(State, StartTimerButtonTapped) (State, []reducer.Effect[Action])
	OnStopTimerButtonTapped(State, StopTimerButtonTapped) (State, []reducer.Effect[Action])
	OnTimerTicked(State, TimerTicked) (State, []reducer.Effect[Action])
	OnToggleSecondsElapsed(State, ToggleSecondsElapsed) (State, []reducer.Effect[Action])
}

type (
	DecrementButtonTapped  struct{}
	IncrementButtonTapped  struct{}
	FactButtonTapped       struct{}
	AlertDismissed         struct{}
	StartTimerButtonTapped struct{}
	StopTimerButtonTapped  struct{}

	// FactResponse is the feedback of a fact fetch.
	FactResponse struct {
		Result domain.EffectResult
	}

	// TimerTicked is the feedback of the polling timer.
	TimerTicked struct {
		Token string `mapstructure:"token" json:"token"`
	}

	ToggleSecondsElapsed struct {
		On bool `mapstructure:"on" json:"on"`
	}
)

func (a DecrementButtonTapped) apply(h Handler, s State) (State, []reducer.Effect[Action]) {
	return h.OnDecrementButtonTapped(s, a)
}

func (a IncrementButtonTapped) apply(h Handler, s State) (State, []reducer.Effect[Action]) {
	return h.OnIncrementButtonTapped(s, a)
}

func (a FactButtonTapped) apply(h Handler, s State) (State, []reducer.Effect[Action]) {
	return h.OnFactButtonTapped(s, a)
}

func (a FactResponse) apply(h Handler, s State) (State, []reducer.Effect[Action]) {
	return h.OnFactResponse(s, a)
}

func (a AlertDismissed) apply(h Handler, s State) (State, []reducer.Effect[Action]) {
	return h.OnAlertDismissed(s, a)
}

func (a StartTimerButtonTapped) apply(h Handler, s State) (State, []reducer.Effect[Action]) {
	return h.OnStartTimerButtonTapped(s, a)
}

func (a StopTimerButtonTapped) apply(h Handler, s State) (State, []reducer.Effect[Action]) {
	return h.OnStopTimerButtonTapped(s, a)
}

func (a TimerTicked) apply(h Handler, s State) (State, []reducer.Effect[Action]) {
	return h.OnTimerTicked(s, a)
}

func (a ToggleSecondsElapsed) apply(h Handler, s State) (State, []reducer.Effect[Action]) {
	return h.OnToggleSecondsElapsed(s, a)
}
