package reducer

// Presentation wraps an action addressed to a presented child.
// A presentation either forwards a child action or dismisses the child.
type Presentation[A any] struct {
	Dismissed bool
	Action    A
}

// Forward addresses action to the presented child.
func Forward[A any](action A) Presentation[A] {
	return Presentation[A]{Action: action}
}

// Dismiss asks the slot to tear the child down.
func Dismiss[A any]() Presentation[A] {
	return Presentation[A]{Dismissed: true}
}

// Slot reads and writes an optional child state on its parent.
// A nil child means the slot is empty and its UI surface is hidden.
type Slot[P, C any] struct {
	// ID namespaces the child's effects; it must be unique within the parent.
	ID  string
	Get func(P) *C
	Set func(P, *C) P
}

// IfLet composes parent with a child that only runs while slot is present.
//
// route extracts a Presentation from parent actions addressed to the child;
// embed wraps the child's feedback actions back into parent actions.
func IfLet[P, PA, C, CA any](
	parent Reducer[P, PA],
	slot Slot[P, C],
	route func(PA) (Presentation[CA], bool),
	embed func(Presentation[CA]) PA,
	child Reducer[C, CA],
) Reducer[P, PA] {
	return Func[P, PA](func(state P, action PA) (P, []Effect[PA]) {
		p, ok := route(action)
		if !ok {
			before := slot.Get(state)
			next, effects := parent.Reduce(state, action)
			if replaced(before, slot.Get(next)) {
				effects = append(effects, Cancel[PA](slot.ID))
			}
			return next, effects
		}

		if p.Dismissed {
			wasPresent := slot.Get(state) != nil
			next, effects := parent.Reduce(state, action)
			if slot.Get(next) != nil {
				next = slot.Set(next, nil)
				wasPresent = true
			}
			if wasPresent {
				effects = append(effects, Cancel[PA](slot.ID))
			}
			return next, effects
		}

		var effects []Effect[PA]
		if current := slot.Get(state); current != nil {
			childState, childEffects := child.Reduce(*current, p.Action)
			kept, dismissed := splitDismiss(childEffects)
			if dismissed {
				state = slot.Set(state, nil)
				effects = append(effects, Cancel[PA](slot.ID))
			} else {
				state = slot.Set(state, &childState)
				effects = Map(kept, slot.ID, func(ca CA) PA {
					return embed(Forward(ca))
				})
			}
		}

		before := slot.Get(state)
		next, parentEffects := parent.Reduce(state, action)
		effects = append(effects, parentEffects...)
		if replaced(before, slot.Get(next)) {
			effects = append(effects, Cancel[PA](slot.ID))
		}
		return next, effects
	})
}

// replaced reports whether a present child was torn down or swapped for
// another one. Slot writers always store a fresh pointer, so identity is
// enough to tell a new child from an updated one.
func replaced[C any](before, after *C) bool {
	return before != nil && before != after
}
