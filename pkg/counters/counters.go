// Package counters implements a list of counter rows and a fact prompt.
//
// Each row embeds a counter feature composed with reducer.ForEach, so row
// effects are scoped as "rows/<id>/..." and stop when the row is removed.
// A successful fact lookup in any row opens the fact prompt sheet.
package counters

import (
	"github.com/aretw0/vine"
	"github.com/aretw0/vine/pkg/counter"
	"github.com/aretw0/vine/pkg/domain"
	"github.com/aretw0/vine/pkg/identified"
	"github.com/aretw0/vine/pkg/ports"
	"github.com/aretw0/vine/pkg/reducer"
)

const (
	// RowsID scopes the effects of every row.
	RowsID = "rows"
	// FactPromptSlotID scopes the fact prompt's effects.
	FactPromptSlotID = "fact_prompt"
)

// Row is one counter in the list.
type Row struct {
	ID      string        `json:"id"`
	Counter counter.State `json:"counter"`
}

// Identity implements identified.Identifiable.
func (r Row) Identity() string { return r.ID }

// Prompt is the fact prompt sheet.
type Prompt struct {
	Count     int    `json:"count"`
	Fact      string `json:"fact"`
	IsLoading bool   `json:"is_loading,omitempty"`
}

// State is the counter list state.
type State struct {
	Rows       identified.Array[Row] `json:"rows"`
	FactPrompt *Prompt               `json:"fact_prompt,omitempty"`
}

// NewState returns an empty list.
func NewState() State {
	return State{}
}

// NewReducer composes the list with its rows and its prompt.
// ids mints row identities and the rows' timer tokens.
func NewReducer(ids ports.IDGenerator) reducer.Reducer[State, Action] {
	var r reducer.Reducer[State, Action] = list{ids: ids}

	r = reducer.IfLet(r,
		reducer.Slot[State, Prompt]{
			ID:  FactPromptSlotID,
			Get: func(s State) *Prompt { return s.FactPrompt },
			Set: func(s State, p *Prompt) State { s.FactPrompt = p; return s },
		},
		func(a Action) (reducer.Presentation[PromptAction], bool) {
			x, ok := a.(FactPrompt)
			return x.Presentation, ok
		},
		func(p reducer.Presentation[PromptAction]) Action { return FactPrompt{Presentation: p} },
		PromptReducer{},
	)

	return reducer.ForEach(r,
		reducer.Rows[State, Row]{
			ID:  RowsID,
			Get: func(s State) identified.Array[Row] { return s.Rows },
			Set: func(s State, rows identified.Array[Row]) State { s.Rows = rows; return s },
		},
		func(a Action) (string, counter.Action, bool) {
			x, ok := a.(Counter)
			return x.ID, x.Action, ok
		},
		func(id string, a counter.Action) Action { return Counter{ID: id, Action: a} },
		reducer.Scope(
			"",
			func(r Row) counter.State { return r.Counter },
			func(r Row, c counter.State) Row { r.Counter = c; return r },
			func(a counter.Action) (counter.Action, bool) { return a, true },
			func(a counter.Action) counter.Action { return a },
			counter.NewReducer(ids),
		),
	)
}

type list struct {
	ids ports.IDGenerator
}

var _ Handler = list{}

func (l list) Reduce(state State, action Action) (State, []reducer.Effect[Action]) {
	if action == nil {
		return state, nil
	}
	return action.apply(l, state)
}

func (l list) OnAddButtonTapped(s State, _ AddButtonTapped) (State, []reducer.Effect[Action]) {
	s.Rows, _ = s.Rows.Append(Row{ID: l.ids.NewID(), Counter: counter.NewState()})
	return s, nil
}

func (list) OnRemoveButtonTapped(s State, a RemoveButtonTapped) (State, []reducer.Effect[Action]) {
	s.Rows, _ = s.Rows.Remove(a.ID)
	return s, nil
}

func (list) OnCounter(s State, a Counter) (State, []reducer.Effect[Action]) {
	resp, ok := a.Action.(counter.FactResponse)
	if !ok || resp.Result.IsError {
		return s, nil
	}
	row, ok := s.Rows.Get(a.ID)
	if !ok {
		return s, nil
	}
	s.FactPrompt = &Prompt{Count: row.Counter.Count, Fact: counter.FactText(resp.Result)}
	return s, nil
}

func (list) OnFactPrompt(s State, _ FactPrompt) (State, []reducer.Effect[Action]) {
	return s, nil
}

// PromptReducer drives the fact prompt sheet.
type PromptReducer struct{}

var _ PromptHandler = PromptReducer{}

func (r PromptReducer) Reduce(state Prompt, action PromptAction) (Prompt, []reducer.Effect[PromptAction]) {
	if action == nil {
		return state, nil
	}
	return action.applyPrompt(r, state)
}

func (PromptReducer) OnGetAnotherFactButtonTapped(s Prompt, _ GetAnotherFactButtonTapped) (Prompt, []reducer.Effect[PromptAction]) {
	s.IsLoading = true
	return s, []reducer.Effect[PromptAction]{counter.FetchFact[PromptAction](s.Count, func(r domain.EffectResult) PromptAction {
		return FactResponse{Result: r}
	})}
}

func (PromptReducer) OnFactResponse(s Prompt, a FactResponse) (Prompt, []reducer.Effect[PromptAction]) {
	s.IsLoading = false
	if !a.Result.IsError {
		s.Fact = counter.FactText(a.Result)
	}
	return s, nil
}

func (PromptReducer) OnDismissButtonTapped(s Prompt, _ DismissButtonTapped) (Prompt, []reducer.Effect[PromptAction]) {
	return s, []reducer.Effect[PromptAction]{reducer.DismissSelf[PromptAction]()}
}

// Feature describes the counters feature for hosts.
func Feature(ids ports.IDGenerator) vine.Feature[State, Action] {
	return vine.Feature[State, Action]{
		Name:    "counters",
		Initial: NewState,
		Reducer: NewReducer(ids),
		Actions: Actions(),
		Render:  Markdown,
		Resume:  Resume,
	}
}

// Resume resets every row with counter.Resume and the prompt's loading flag.
func Resume(s State) State {
	rows := s.Rows.Items()
	for i := range rows {
		rows[i].Counter = counter.Resume(rows[i].Counter)
	}
	s.Rows = identified.New(rows...)
	if s.FactPrompt != nil {
		p := *s.FactPrompt
		p.IsLoading = false
		s.FactPrompt = &p
	}
	return s
}
