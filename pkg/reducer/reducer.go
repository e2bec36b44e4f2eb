package reducer

// Reducer evolves state in response to actions.
// Implementations must be pure: the same (state, action) pair always yields
// the same (state, effect requests) pair.
type Reducer[S, A any] interface {
	Reduce(state S, action A) (S, []Effect[A])
}

// Func adapts an ordinary function to the Reducer interface.
type Func[S, A any] func(state S, action A) (S, []Effect[A])

// Reduce calls f(state, action).
func (f Func[S, A]) Reduce(state S, action A) (S, []Effect[A]) {
	return f(state, action)
}

// Combine runs reducers in order, threading state through each of them and
// concatenating their effects.
func Combine[S, A any](reducers ...Reducer[S, A]) Reducer[S, A] {
	return Func[S, A](func(state S, action A) (S, []Effect[A]) {
		var effects []Effect[A]
		for _, r := range reducers {
			var next []Effect[A]
			state, next = r.Reduce(state, action)
			effects = append(effects, next...)
		}
		return state, effects
	})
}

// Scope embeds a child feature whose state is always present in the parent.
// Only actions accepted by route reach the child; the resulting reducer leaves
// state untouched for every other action and is meant to be Combined with the
// parent's own reducer.
func Scope[P, PA, C, CA any](
	id string,
	get func(P) C,
	set func(P, C) P,
	route func(PA) (CA, bool),
	embed func(CA) PA,
	child Reducer[C, CA],
) Reducer[P, PA] {
	return Func[P, PA](func(state P, action PA) (P, []Effect[PA]) {
		childAction, ok := route(action)
		if !ok {
			return state, nil
		}
		childState, effects := child.Reduce(get(state), childAction)
		return set(state, childState), Map(withoutDismiss(effects), id, embed)
	})
}

// withoutDismiss drops dismiss requests, which only optional children honour.
func withoutDismiss[A any](effects []Effect[A]) []Effect[A] {
	kept, _ := splitDismiss(effects)
	return kept
}
