package reducer

import (
	"github.com/aretw0/vine/pkg/domain"
	"github.com/aretw0/vine/pkg/identified"
)

// Rows reads and writes an identity-keyed collection of child states.
type Rows[P any, C identified.Identifiable] struct {
	// ID namespaces every row's effects as ID/<row identity>.
	ID  string
	Get func(P) identified.Array[C]
	Set func(P, identified.Array[C]) P
}

// ForEach composes parent with one child feature per row.
//
// route extracts the row identity and child action from parent actions;
// actions for identities that are not present are no-ops for the child.
// A row whose child emits DismissSelf is removed. Rows that disappear, by
// either path, get their effect scope cancelled.
func ForEach[P, PA any, C identified.Identifiable, CA any](
	parent Reducer[P, PA],
	rows Rows[P, C],
	route func(PA) (string, CA, bool),
	embed func(id string, action CA) PA,
	child Reducer[C, CA],
) Reducer[P, PA] {
	return Func[P, PA](func(state P, action PA) (P, []Effect[PA]) {
		before := rows.Get(state)

		var effects []Effect[PA]
		if id, childAction, ok := route(action); ok {
			if current, found := before.Get(id); found {
				childState, childEffects := child.Reduce(current, childAction)
				kept, dismissed := splitDismiss(childEffects)
				if dismissed {
					remaining, _ := before.Remove(id)
					state = rows.Set(state, remaining)
				} else {
					if updated, replaced := before.Replace(childState); replaced {
						state = rows.Set(state, updated)
					}
					effects = Map(kept, domain.Scoped(rows.ID, id), func(ca CA) PA {
						return embed(id, ca)
					})
				}
			}
		}

		next, parentEffects := parent.Reduce(state, action)
		effects = append(effects, parentEffects...)

		after := rows.Get(next)
		for _, id := range before.IDs() {
			if !after.Contains(id) {
				effects = append(effects, Cancel[PA](domain.Scoped(rows.ID, id)))
			}
		}
		return next, effects
	})
}
