package reducer_test

import (
	"testing"

	"github.com/aretw0/vine/pkg/domain"
	"github.com/aretw0/vine/pkg/identified"
	"github.com/aretw0/vine/pkg/reducer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type line struct {
	ID string
	N  int
}

func (l line) Identity() string { return l.ID }

type sheet struct {
	Lines identified.Array[line]
}

type lineMsg struct {
	Remove string
	Row    string
	Action string
}

var lineReducer = reducer.Func[line, string](func(l line, a string) (line, []reducer.Effect[string]) {
	switch a {
	case "inc":
		l.N++
	case "fetch":
		return l, []reducer.Effect[string]{reducer.Run("fetch", "op", nil, func(domain.EffectResult) string { return "inc" })}
	case "close":
		return l, []reducer.Effect[string]{reducer.DismissSelf[string]()}
	}
	return l, nil
})

func newSheet() reducer.Reducer[sheet, lineMsg] {
	core := reducer.Func[sheet, lineMsg](func(s sheet, m lineMsg) (sheet, []reducer.Effect[lineMsg]) {
		if m.Remove != "" {
			s.Lines, _ = s.Lines.Remove(m.Remove)
		}
		return s, nil
	})
	return reducer.ForEach[sheet, lineMsg, line, string](
		core,
		reducer.Rows[sheet, line]{
			ID:  "lines",
			Get: func(s sheet) identified.Array[line] { return s.Lines },
			Set: func(s sheet, a identified.Array[line]) sheet { s.Lines = a; return s },
		},
		func(m lineMsg) (string, string, bool) { return m.Row, m.Action, m.Row != "" },
		func(id, a string) lineMsg { return lineMsg{Row: id, Action: a} },
		lineReducer,
	)
}

func TestForEach_RoutesByIdentity(t *testing.T) {
	r := newSheet()
	state := sheet{Lines: identified.New(line{ID: "a"}, line{ID: "b"})}

	state, effects := r.Reduce(state, lineMsg{Row: "b", Action: "inc"})
	assert.Empty(t, effects)
	b, _ := state.Lines.Get("b")
	a, _ := state.Lines.Get("a")
	assert.Equal(t, 1, b.N)
	assert.Equal(t, 0, a.N)
}

func TestForEach_MissingRowIsNoop(t *testing.T) {
	r := newSheet()
	state := sheet{Lines: identified.New(line{ID: "a"})}

	next, effects := r.Reduce(state, lineMsg{Row: "zzz", Action: "inc"})
	assert.Equal(t, state, next)
	assert.Empty(t, effects)
}

func TestForEach_RowEffectsAreScopedAndFedBack(t *testing.T) {
	r := newSheet()
	state := sheet{Lines: identified.New(line{ID: "a"})}

	_, effects := r.Reduce(state, lineMsg{Row: "a", Action: "fetch"})
	require.Len(t, effects, 1)
	assert.Equal(t, "lines/a/fetch", effects[0].Request.ID)
	assert.Equal(t, lineMsg{Row: "a", Action: "inc"}, effects[0].Feedback(domain.EffectResult{}))
}

func TestForEach_RemovedRowsCancelTheirScope(t *testing.T) {
	r := newSheet()
	state := sheet{Lines: identified.New(line{ID: "a"}, line{ID: "b"})}

	state, effects := r.Reduce(state, lineMsg{Remove: "a"})
	assert.Equal(t, []string{"b"}, state.Lines.IDs())
	assert.Equal(t, []domain.EffectRequest{{Kind: domain.EffectCancel, ID: "lines/a"}}, reducer.Requests(effects))

	state, effects = r.Reduce(state, lineMsg{Row: "b", Action: "close"})
	assert.Zero(t, state.Lines.Len())
	assert.Equal(t, []domain.EffectRequest{{Kind: domain.EffectCancel, ID: "lines/b"}}, reducer.Requests(effects))
}
