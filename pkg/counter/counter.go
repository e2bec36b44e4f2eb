// Package counter implements a single counter with a fact lookup and a
// one-second polling timer.
//
// The timer is an explicit state machine, Idle or Running{Token}. Starting
// mints a token from the injected generator and every tick carries it back,
// so ticks from a stopped or superseded timer never match and are ignored.
package counter

import (
	"fmt"
	"time"

	"github.com/aretw0/vine"
	"github.com/aretw0/vine/pkg/domain"
	"github.com/aretw0/vine/pkg/ports"
	"github.com/aretw0/vine/pkg/reducer"
)

const (
	// TimerEffectID identifies the polling timer flight.
	TimerEffectID = "timer"
	// FactEffectID identifies the fact lookup flight.
	FactEffectID = "fact"
	// FactEffectName is the runner operation that fetches a fact for a number.
	FactEffectName = "fact.fetch"
	// TickInterval is how often a running timer ticks.
	TickInterval = time.Second
)

// Timer is Idle when Running is false.
type Timer struct {
	Running bool   `json:"running"`
	Token   string `json:"token,omitempty"`
}

// Alert is a user-visible error message.
type Alert struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// State is the counter state.
type State struct {
	Count                      int    `json:"count"`
	SecondsElapsed             int    `json:"seconds_elapsed"`
	IsDisplayingSecondsElapsed bool   `json:"is_displaying_seconds_elapsed"`
	Timer                      Timer  `json:"timer"`
	Fact                       string `json:"fact,omitempty"`
	IsLoadingFact              bool   `json:"is_loading_fact,omitempty"`
	Alert                      *Alert `json:"alert,omitempty"`
}

// NewState returns a zero counter that displays elapsed seconds.
func NewState() State {
	return State{IsDisplayingSecondsElapsed: true}
}

// NewReducer returns the counter reducer. ids mints timer tokens.
func NewReducer(ids ports.IDGenerator) reducer.Reducer[State, Action] {
	return feature{ids: ids}
}

type feature struct {
	ids ports.IDGenerator
}

var _ Handler = feature{}

func (f feature) Reduce(state State, action Action) (State, []reducer.Effect[Action]) {
	if action == nil {
		return state, nil
	}
	return action.apply(f, state)
}

func (feature) OnDecrementButtonTapped(s State, _ DecrementButtonTapped) (State, []reducer.Effect[Action]) {
	s.Count--
	return s, nil
}

func (feature) OnIncrementButtonTapped(s State, _ IncrementButtonTapped) (State, []reducer.Effect[Action]) {
	s.Count++
	return s, nil
}

func (feature) OnFactButtonTapped(s State, _ FactButtonTapped) (State, []reducer.Effect[Action]) {
	s.IsLoadingFact = true
	s.Alert = nil
	return s, []reducer.Effect[Action]{FetchFact[Action](s.Count, func(r domain.EffectResult) Action {
		return FactResponse{Result: r}
	})}
}

func (feature) OnFactResponse(s State, a FactResponse) (State, []reducer.Effect[Action]) {
	s.IsLoadingFact = false
	if a.Result.IsError {
		s.Alert = &Alert{Title: "Error", Message: "Couldn't load fact"}
		return s, nil
	}
	s.Fact = FactText(a.Result)
	return s, nil
}

func (feature) OnAlertDismissed(s State, _ AlertDismissed) (State, []reducer.Effect[Action]) {
	s.Alert = nil
	return s, nil
}

func (f feature) OnStartTimerButtonTapped(s State, _ StartTimerButtonTapped) (State, []reducer.Effect[Action]) {
	var effects []reducer.Effect[Action]
	if s.Timer.Running {
		effects = append(effects, reducer.Cancel[Action](TimerEffectID))
	}

	token := f.ids.NewID()
	s.Timer = Timer{Running: true, Token: token}
	effects = append(effects, reducer.Timer(TimerEffectID, TickInterval, func(domain.EffectResult) Action {
		return TimerTicked{Token: token}
	}))
	return s, effects
}

func (feature) OnStopTimerButtonTapped(s State, _ StopTimerButtonTapped) (State, []reducer.Effect[Action]) {
	if !s.Timer.Running {
		return s, nil
	}
	s.Timer = Timer{}
	return s, []reducer.Effect[Action]{reducer.Cancel[Action](TimerEffectID)}
}

func (feature) OnTimerTicked(s State, a TimerTicked) (State, []reducer.Effect[Action]) {
	if !s.Timer.Running || s.Timer.Token != a.Token {
		return s, nil
	}
	s.SecondsElapsed++
	return s, nil
}

func (feature) OnToggleSecondsElapsed(s State, a ToggleSecondsElapsed) (State, []reducer.Effect[Action]) {
	s.IsDisplayingSecondsElapsed = a.On
	return s, nil
}

// FetchFact requests a fact about number under FactEffectID.
// Features that show facts share it so the runner sees one operation name.
func FetchFact[A any](number int, feedback func(domain.EffectResult) A) reducer.Effect[A] {
	return reducer.Run(FactEffectID, FactEffectName, map[string]any{"number": number}, feedback)
}

// FactText extracts the fact from a successful fetch result.
func FactText(r domain.EffectResult) string {
	if s, ok := r.Value.(string); ok {
		return s
	}
	if r.Value == nil {
		return ""
	}
	return fmt.Sprint(r.Value)
}

// Feature describes the counter feature for hosts.
func Feature(ids ports.IDGenerator) vine.Feature[State, Action] {
	return vine.Feature[State, Action]{
		Name:    "counter",
		Initial: NewState,
		Reducer: NewReducer(ids),
		Actions: Actions(),
		Render:  Markdown,
		Resume:  Resume,
	}
}

// Resume stops the timer and clears the loading flag of a restored state.
func Resume(s State) State {
	s.Timer = Timer{}
	s.IsLoadingFact = false
	return s
}
