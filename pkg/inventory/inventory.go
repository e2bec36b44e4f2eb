package inventory

import (
	"github.com/aretw0/vine"
	"github.com/aretw0/vine/pkg/ports"
	"github.com/aretw0/vine/pkg/reducer"
)

// Effect scopes owned by the presentation slots.
const (
	AlertSlotID         = "alert"
	AddItemSlotID       = "add_item"
	DuplicateItemSlotID = "duplicate_item"
)

// NewReducer composes the root inventory reducer with its three slots.
// ids mints identities for new and duplicated items.
func NewReducer(ids ports.IDGenerator) reducer.Reducer[State, Action] {
	var r reducer.Reducer[State, Action] = core{ids: ids}

	r = reducer.IfLet(r,
		reducer.Slot[State, DeleteAlert]{
			ID:  AlertSlotID,
			Get: func(s State) *DeleteAlert { return s.Alert },
			Set: func(s State, a *DeleteAlert) State { s.Alert = a; return s },
		},
		func(a Action) (reducer.Presentation[AlertAction], bool) {
			x, ok := a.(Alert)
			return x.Presentation, ok
		},
		func(p reducer.Presentation[AlertAction]) Action { return Alert{Presentation: p} },
		AlertReducer{},
	)

	r = reducer.IfLet(r,
		reducer.Slot[State, ItemForm]{
			ID:  AddItemSlotID,
			Get: func(s State) *ItemForm { return s.AddItem },
			Set: func(s State, f *ItemForm) State { s.AddItem = f; return s },
		},
		func(a Action) (reducer.Presentation[FormAction], bool) {
			x, ok := a.(AddItem)
			return x.Presentation, ok
		},
		func(p reducer.Presentation[FormAction]) Action { return AddItem{Presentation: p} },
		FormReducer{},
	)

	return reducer.IfLet(r,
		reducer.Slot[State, ItemForm]{
			ID:  DuplicateItemSlotID,
			Get: func(s State) *ItemForm { return s.DuplicateItem },
			Set: func(s State, f *ItemForm) State { s.DuplicateItem = f; return s },
		},
		func(a Action) (reducer.Presentation[FormAction], bool) {
			x, ok := a.(DuplicateItem)
			return x.Presentation, ok
		},
		func(p reducer.Presentation[FormAction]) Action { return DuplicateItem{Presentation: p} },
		FormReducer{},
	)
}

// AlertReducer dismisses the alert after any button is pressed.
type AlertReducer struct{}

var _ AlertHandler = AlertReducer{}

func (r AlertReducer) Reduce(state DeleteAlert, action AlertAction) (DeleteAlert, []reducer.Effect[AlertAction]) {
	if action == nil {
		return state, nil
	}
	return action.applyAlert(r, state)
}

func (AlertReducer) OnConfirmDeletion(s DeleteAlert, _ ConfirmDeletion) (DeleteAlert, []reducer.Effect[AlertAction]) {
	return s, []reducer.Effect[AlertAction]{reducer.DismissSelf[AlertAction]()}
}

// core handles the root's own logic. Slot children have already run by the
// time it sees a forwarded action.
type core struct {
	ids ports.IDGenerator
}

var _ Handler = core{}

func (c core) Reduce(state State, action Action) (State, []reducer.Effect[Action]) {
	if action == nil {
		return state, nil
	}
	return action.apply(c, state)
}

func (c core) OnAddButtonTapped(s State, _ AddButtonTapped) (State, []reducer.Effect[Action]) {
	s.AddItem = &ItemForm{Item: Item{ID: c.ids.NewID(), Status: InStock(1)}}
	return s, nil
}

func (core) OnCancelAddItemButtonTapped(s State, _ CancelAddItemButtonTapped) (State, []reducer.Effect[Action]) {
	s.AddItem = nil
	return s, nil
}

func (core) OnConfirmAddItemButtonTapped(s State, _ ConfirmAddItemButtonTapped) (State, []reducer.Effect[Action]) {
	if s.AddItem != nil {
		s.Items, _ = s.Items.Append(s.AddItem.Item)
	}
	s.AddItem = nil
	return s, nil
}

func (c core) OnDuplicateButtonTapped(s State, a DuplicateButtonTapped) (State, []reducer.Effect[Action]) {
	item, ok := s.Items.Get(a.ID)
	if !ok {
		return s, nil
	}
	draft := item.clone()
	draft.ID = c.ids.NewID()
	s.DuplicateItem = &ItemForm{Item: draft}
	return s, nil
}

func (core) OnCancelDuplicateItemButtonTapped(s State, _ CancelDuplicateItemButtonTapped) (State, []reducer.Effect[Action]) {
	s.DuplicateItem = nil
	return s, nil
}

func (core) OnConfirmDuplicateItemButtonTapped(s State, _ ConfirmDuplicateItemButtonTapped) (State, []reducer.Effect[Action]) {
	if s.DuplicateItem != nil {
		s.Items, _ = s.Items.Append(s.DuplicateItem.Item)
	}
	s.DuplicateItem = nil
	return s, nil
}

func (core) OnDeleteButtonTapped(s State, a DeleteButtonTapped) (State, []reducer.Effect[Action]) {
	item, ok := s.Items.Get(a.ID)
	if !ok {
		return s, nil
	}
	s.Alert = newDeleteAlert(item)
	return s, nil
}

func (core) OnAlert(s State, a Alert) (State, []reducer.Effect[Action]) {
	if a.Presentation.Dismissed {
		return s, nil
	}
	if confirm, ok := a.Presentation.Action.(ConfirmDeletion); ok {
		s.Items, _ = s.Items.Remove(confirm.ID)
	}
	return s, nil
}

func (core) OnAddItem(s State, _ AddItem) (State, []reducer.Effect[Action]) {
	return s, nil
}

func (core) OnDuplicateItem(s State, _ DuplicateItem) (State, []reducer.Effect[Action]) {
	return s, nil
}

// Feature describes the inventory for hosts.
func Feature(ids ports.IDGenerator) vine.Feature[State, Action] {
	return vine.Feature[State, Action]{
		Name:    "inventory",
		Initial: func() State { return NewState() },
		Reducer: NewReducer(ids),
		Actions: Actions(),
		Render:  Markdown,
	}
}
