package counters

import (
	"github.com/aretw0/vine/pkg/counter"
	"github.com/aretw0/vine/pkg/domain"
	"github.com/aretw0/vine/pkg/reducer"
)

// Action is the closed set of counter list actions.
type Action interface {
	apply(Handler, State) (State, []reducer.Effect[Action])
}

// Handler has one method per Action variant.
type Handler interface {
	OnAddButtonTapped(State, AddButtonTapped) (State, []reducer.Effect[Action])
	OnRemoveButtonTapped(State, RemoveButtonTapped) (State, []reducer.Effect[Action])
	OnCounter(State, Counter) (State, []reducer.Effect[Action])
	OnFactPrompt(State, FactPrompt) (State, []reducer.Effect[Action])
}

type (
	AddButtonTapped struct{}

	RemoveButtonTapped struct {
		ID string `mapstructure:"id" json:"id"`
	}

	// Counter addresses the row with ID.
	Counter struct {
		ID     string
		Action counter.Action
	}

	// FactPrompt addresses the fact prompt sheet.
	FactPrompt struct {
		Presentation reducer.Presentation[PromptAction]
	}
)

func (a AddButtonTapped) apply(h Handler, s State) (State, []reducer.Effect[Action]) {
	return h.OnAddButtonTapped(s, a)
}

func (a RemoveButtonTapped) apply(h Handler, s State) (State, []reducer.Effect[Action]) {
	return h.OnRemoveButtonTapped(s, a)
}

func (a Counter) apply(h Handler, s State) (State, []reducer.Effect[Action]) {
	return h.OnCounter(s, a)
}

func (a FactPrompt) apply(h Handler, s State) (State, []reducer.Effect[Action]) {
	return h.OnFactPrompt(s, a)
}

// PromptAction is the closed set of fact prompt actions.
type PromptAction interface {
	applyPrompt(PromptHandler, Prompt) (Prompt, []reducer.Effect[PromptAction])
}

// PromptHandler has one method per PromptAction variant.
type PromptHandler interface {
	OnGetAnotherFactButtonTapped(Prompt, GetAnotherFactButtonTapped) (Prompt, []reducer.Effect[PromptAction])
	OnFactResponse(Prompt, FactResponse) (Prompt, []reducer.Effect[PromptAction])
	OnDismissButtonTapped(Prompt, DismissButtonTapped) (Prompt, []reducer.Effect[PromptAction])
}

type (
	GetAnotherFactButtonTapped struct{}
	DismissButtonTapped        struct{}

	// FactResponse is the feedback of the prompt's own fact lookup.
	FactResponse struct {
		Result domain.EffectResult
	}
)

func (a GetAnotherFactButtonTapped) applyPrompt(h PromptHandler, s Prompt) (Prompt, []reducer.Effect[PromptAction]) {
	return h.OnGetAnotherFactButtonTapped(s, a)
}

func (a FactResponse) applyPrompt(h PromptHandler, s Prompt) (Prompt, []reducer.Effect[PromptAction]) {
	return h.OnFactResponse(s, a)
}

func (a DismissButtonTapped) applyPrompt(h PromptHandler, s Prompt) (Prompt, []reducer.Effect[PromptAction]) {
	return h.OnDismissButtonTapped(s, a)
}
