package inventory

import "github.com/aretw0/vine/pkg/reducer"

// Action is the closed set of inventory actions.
// Every variant dispatches to exactly one Handler method.
type Action interface {
	apply(Handler, State) (State, []reducer.Effect[Action])
}

// Handler has one method per Action variant. A reducer that implements it
// handles every action; adding a variant breaks the build until it does.
type Handler interface {
	OnAddButtonTapped(State, AddButtonTapped) (State, []reducer.Effect[Action])
	OnCancelAddItemButtonTapped(State, CancelAddItemButtonTapped) (State, []reducer.Effect[Action])
	OnConfirmAddItemButtonTapped(State, ConfirmAddItemButtonTapped) (State, []reducer.Effect[Action])
	OnDuplicateButtonTapped(State, DuplicateButtonTapped) (State, []reducer.Effect[Action])
	OnCancelDuplicateItemButtonTapped(State, CancelDuplicateItemButtonTapped) (State, []reducer.Effect[Action])
	OnConfirmDuplicateItemButtonTapped(State, ConfirmDuplicateItemButtonTapped) (State, []reducer.Effect[Action])
	OnDeleteButtonTapped(State, DeleteButtonTapped) (State, []reducer.Effect[Action])
	OnAlert(State, Alert) (State, []reducer.Effect[Action])
	OnAddItem(State, AddItem) (State, []reducer.Effect[Action])
	OnDuplicateItem(State, DuplicateItem) (State, []reducer.Effect[Action])
}

type (
	AddButtonTapped                  struct{}
	CancelAddItemButtonTapped        struct{}
	ConfirmAddItemButtonTapped       struct{}
	CancelDuplicateItemButtonTapped  struct{}
	ConfirmDuplicateItemButtonTapped struct{}

	DuplicateButtonTapped struct {
		ID string `mapstructure:"id" json:"id"`
	}
	DeleteButtonTapped struct {
		ID string `mapstructure:"id" json:"id"`
	}

	// Alert addresses the delete confirmation alert.
	Alert struct {
		Presentation reducer.Presentation[AlertAction]
	}
	// AddItem addresses the add item form.
	AddItem struct {
		Presentation reducer.Presentation[FormAction]
	}
	// DuplicateItem addresses the duplicate item form.
	DuplicateItem struct {
		Presentation reducer.Presentation[FormAction]
	}
)

func (a AddButtonTapped) apply(h Handler, s State) (State, []reducer.Effect[Action]) {
	return h.OnAddButtonTapped(s, a)
}

func (a CancelAddItemButtonTapped) apply(h Handler, s State) (State, []reducer.Effect[Action]) {
	return h.OnCancelAddItemButtonTapped(s, a)
}

func (a ConfirmAddItemButtonTapped) apply(h Handler, s State) (State, []reducer.Effect[Action]) {
	return h.OnConfirmAddItemButtonTapped(s, a)
}

func (a DuplicateButtonTapped) apply(h Handler, s State) (State, []reducer.Effect[Action]) {
	return h.OnDuplicateButtonTapped(s, a)
}

func (a CancelDuplicateItemButtonTapped) apply(h Handler, s State) (State, []reducer.Effect[Action]) {
	return h.OnCancelDuplicateItemButtonTapped(s, a)
}

func (a ConfirmDuplicateItemButtonTapped) apply(h Handler, s State) (State, []reducer.Effect[Action]) {
	return h.OnConfirmDuplicateItemButtonTapped(s, a)
}

func (a DeleteButtonTapped) apply(h Handler, s State) (State, []reducer.Effect[Action]) {
	return h.OnDeleteButtonTapped(s, a)
}

func (a Alert) apply(h Handler, s State) (State, []reducer.Effect[Action]) {
	return h.OnAlert(s, a)
}

func (a AddItem) apply(h Handler, s State) (State, []reducer.Effect[Action]) {
	return h.OnAddItem(s, a)
}

func (a DuplicateItem) apply(h Handler, s State) (State, []reducer.Effect[Action]) {
	return h.OnDuplicateItem(s, a)
}

// AlertAction is the closed set of delete alert buttons.
type AlertAction interface {
	applyAlert(AlertHandler, DeleteAlert) (DeleteAlert, []reducer.Effect[AlertAction])
}

// AlertHandler has one method per AlertAction variant.
type AlertHandler interface {
	OnConfirmDeletion(DeleteAlert, ConfirmDeletion) (DeleteAlert, []reducer.Effect[AlertAction])
}

// ConfirmDeletion is the alert's destructive button.
type ConfirmDeletion struct {
	ID string `mapstructure:"id" json:"id"`
}

func (a ConfirmDeletion) applyAlert(h AlertHandler, s DeleteAlert) (DeleteAlert, []reducer.Effect[AlertAction]) {
	return h.OnConfirmDeletion(s, a)
}
