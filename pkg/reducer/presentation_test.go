package reducer_test

import (
	"testing"

	"github.com/aretw0/vine/pkg/domain"
	"github.com/aretw0/vine/pkg/reducer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type screen struct {
	Sheet *tally
	Seen  []string
}

// msg is either structural (Name set) or addressed to the sheet.
type msg struct {
	Name  string
	Sheet *reducer.Presentation[string]
}

func sheetMsg(p reducer.Presentation[string]) msg { return msg{Sheet: &p} }

var sheetSlot = reducer.Slot[screen, tally]{
	ID:  "sheet",
	Get: func(s screen) *tally { return s.Sheet },
	Set: func(s screen, c *tally) screen { s.Sheet = c; return s },
}

// screenCore records what it saw, including the child's N at that moment.
var screenCore = reducer.Func[screen, msg](func(s screen, m msg) (screen, []reducer.Effect[msg]) {
	note := m.Name
	if m.Sheet != nil {
		note = "sheet"
		if s.Sheet != nil {
			note += ":present"
		}
	}
	s.Seen = append(append([]string(nil), s.Seen...), note)

	switch m.Name {
	case "open":
		s.Sheet = &tally{}
	case "close":
		s.Sheet = nil
	}
	return s, nil
})

func newScreen() reducer.Reducer[screen, msg] {
	return reducer.IfLet[screen, msg, tally, string](
		screenCore,
		sheetSlot,
		func(m msg) (reducer.Presentation[string], bool) {
			if m.Sheet == nil {
				return reducer.Presentation[string]{}, false
			}
			return *m.Sheet, true
		},
		sheetMsg,
		tallyReducer,
	)
}

func TestIfLet_ForwardToAbsentChildIsNoop(t *testing.T) {
	r := newScreen()

	state, effects := r.Reduce(screen{}, sheetMsg(reducer.Forward("inc")))
	assert.Nil(t, state.Sheet)
	assert.Empty(t, effects)
	assert.Equal(t, []string{"sheet"}, state.Seen, "parent still observes the action")
}

func TestIfLet_ChildRunsBeforeParentForForwardedActions(t *testing.T) {
	r := newScreen()

	state, _ := r.Reduce(screen{}, msg{Name: "open"})
	require.NotNil(t, state.Sheet)

	state, effects := r.Reduce(state, sheetMsg(reducer.Forward("inc")))
	assert.Equal(t, 1, state.Sheet.N)
	assert.Empty(t, effects)
	assert.Equal(t, []string{"open", "sheet:present"}, state.Seen)
}

func TestIfLet_ChildEffectsAreScoped(t *testing.T) {
	r := newScreen()
	state, _ := r.Reduce(screen{}, msg{Name: "open"})

	_, effects := r.Reduce(state, sheetMsg(reducer.Forward("fetch")))
	require.Len(t, effects, 1)
	assert.Equal(t, "sheet/fetch", effects[0].Request.ID)

	back := effects[0].Feedback(domain.EffectResult{})
	require.NotNil(t, back.Sheet)
	assert.Equal(t, reducer.Forward("fetched"), *back.Sheet)
}

func TestIfLet_ChildDismissSelfClearsSlot(t *testing.T) {
	r := newScreen()
	state, _ := r.Reduce(screen{}, msg{Name: "open"})

	state, effects := r.Reduce(state, sheetMsg(reducer.Forward("close")))
	assert.Nil(t, state.Sheet)
	assert.Equal(t, []domain.EffectRequest{{Kind: domain.EffectCancel, ID: "sheet"}}, reducer.Requests(effects))
}

func TestIfLet_DismissRunsParentFirstThenClears(t *testing.T) {
	r := newScreen()
	state, _ := r.Reduce(screen{}, msg{Name: "open"})

	state, effects := r.Reduce(state, sheetMsg(reducer.Dismiss[string]()))
	assert.Nil(t, state.Sheet)
	assert.Equal(t, []string{"open", "sheet:present"}, state.Seen)
	assert.Equal(t, []domain.EffectRequest{{Kind: domain.EffectCancel, ID: "sheet"}}, reducer.Requests(effects))

	// Dismissing again is harmless.
	again, effects := r.Reduce(state, sheetMsg(reducer.Dismiss[string]()))
	assert.Nil(t, again.Sheet)
	assert.Empty(t, effects)
}

func TestIfLet_StructuralTeardownCancelsScope(t *testing.T) {
	r := newScreen()
	state, _ := r.Reduce(screen{}, msg{Name: "open"})

	state, effects := r.Reduce(state, msg{Name: "close"})
	assert.Nil(t, state.Sheet)
	assert.Equal(t, []domain.EffectRequest{{Kind: domain.EffectCancel, ID: "sheet"}}, reducer.Requests(effects))

	_, effects = r.Reduce(state, msg{Name: "close"})
	assert.Empty(t, effects, "closing an empty slot emits nothing")
}

func TestIfLet_ReplacingPresentChildCancelsScope(t *testing.T) {
	r := newScreen()
	state, _ := r.Reduce(screen{}, msg{Name: "open"})
	state, _ = r.Reduce(state, sheetMsg(reducer.Forward("inc")))
	first := state.Sheet

	state, effects := r.Reduce(state, msg{Name: "open"})
	require.NotNil(t, state.Sheet)
	assert.NotSame(t, first, state.Sheet)
	assert.Equal(t, 0, state.Sheet.N, "the new child starts fresh")
	assert.Equal(t, []domain.EffectRequest{{Kind: domain.EffectCancel, ID: "sheet"}}, reducer.Requests(effects))

	_, effects = r.Reduce(state, msg{Name: "noop"})
	assert.Empty(t, effects, "leaving the child alone emits nothing")
}
