package counter

import "github.com/aretw0/vine/pkg/codec"

// Actions decodes the user-facing counter actions. Effect feedback is
// produced by the store and is not decodable.
func Actions() *codec.Registry[Action] {
	return codec.NewRegistry[Action]().
		Register("decrement_button_tapped", codec.Unit[Action](DecrementButtonTapped{})).
		Register("increment_button_tapped", codec.Unit[Action](IncrementButtonTapped{})).
		Register("fact_button_tapped", codec.Unit[Action](FactButtonTapped{})).
		Register("alert_dismissed", codec.Unit[Action](AlertDismissed{})).
		Register("start_timer_button_tapped", codec.Unit[Action](StartTimerButtonTapped{})).
		Register("stop_timer_button_tapped", codec.Unit[Action](StopTimerButtonTapped{})).
		Register("toggle_seconds_elapsed", codec.Payload(func(a ToggleSecondsElapsed) Action { return a }))
}
