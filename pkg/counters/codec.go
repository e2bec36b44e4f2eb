package counters

import (
	"github.com/aretw0/vine/pkg/codec"
	"github.com/aretw0/vine/pkg/counter"
	"github.com/aretw0/vine/pkg/reducer"
)

// Actions decodes counter list actions. Row actions take the row identity
// in the "id" field: "counter.increment_button_tapped id=<row>".
func Actions() *codec.Registry[Action] {
	r := codec.NewRegistry[Action]().
		Register("add_button_tapped", codec.Unit[Action](AddButtonTapped{})).
		Register("remove_button_tapped", codec.Payload(func(a RemoveButtonTapped) Action { return a }))

	prompt := codec.NewRegistry[PromptAction]().
		Register("get_another_fact_button_tapped", codec.Unit[PromptAction](GetAnotherFactButtonTapped{})).
		Register("dismiss_button_tapped", codec.Unit[PromptAction](DismissButtonTapped{}))

	codec.NestRows(r, "counter", counter.Actions(), func(id string, a counter.Action) Action {
		return Counter{ID: id, Action: a}
	})
	codec.Nest(r, FactPromptSlotID, prompt, func(p reducer.Presentation[PromptAction]) Action {
		return FactPrompt{Presentation: p}
	})
	return r
}
