package inventory

import "github.com/aretw0/vine/pkg/reducer"

// ItemForm is the child state behind the add and duplicate flows.
type ItemForm struct {
	Item Item `json:"item"`
}

// FormAction is the closed set of ItemForm actions.
type FormAction interface {
	applyForm(FormHandler, ItemForm) (ItemForm, []reducer.Effect[FormAction])
}

// FormHandler has one method per FormAction variant.
type FormHandler interface {
	OnSetName(ItemForm, SetName) (ItemForm, []reducer.Effect[FormAction])
	OnSetColor(ItemForm, SetColor) (ItemForm, []reducer.Effect[FormAction])
	OnSetQuantity(ItemForm, SetQuantity) (ItemForm, []reducer.Effect[FormAction])
	OnSetInStock(ItemForm, SetInStock) (ItemForm, []reducer.Effect[FormAction])
	OnSetBackOrdered(ItemForm, SetBackOrdered) (ItemForm, []reducer.Effect[FormAction])
	OnDiscardButtonTapped(ItemForm, DiscardButtonTapped) (ItemForm, []reducer.Effect[FormAction])
}

type (
	SetName struct {
		Name string `mapstructure:"name" json:"name"`
	}
	// SetColor picks a palette color by name; an empty name clears it.
	SetColor struct {
		Color string `mapstructure:"color" json:"color"`
	}
	SetQuantity struct {
		Quantity int `mapstructure:"quantity" json:"quantity"`
	}
	SetInStock struct {
		InStock bool `mapstructure:"in_stock" json:"in_stock"`
	}
	SetBackOrdered struct {
		BackOrdered bool `mapstructure:"back_ordered" json:"back_ordered"`
	}
	DiscardButtonTapped struct{}
)

func (a SetName) applyForm(h FormHandler, s ItemForm) (ItemForm, []reducer.Effect[FormAction]) {
	return h.OnSetName(s, a)
}

func (a SetColor) applyForm(h FormHandler, s ItemForm) (ItemForm, []reducer.Effect[FormAction]) {
	return h.OnSetColor(s, a)
}

func (a SetQuantity) applyForm(h FormHandler, s ItemForm) (ItemForm, []reducer.Effect[FormAction]) {
	return h.OnSetQuantity(s, a)
}

func (a SetInStock) applyForm(h FormHandler, s ItemForm) (ItemForm, []reducer.Effect[FormAction]) {
	return h.OnSetInStock(s, a)
}

func (a SetBackOrdered) applyForm(h FormHandler, s ItemForm) (ItemForm, []reducer.Effect[FormAction]) {
	return h.OnSetBackOrdered(s, a)
}

func (a DiscardButtonTapped) applyForm(h FormHandler, s ItemForm) (ItemForm, []reducer.Effect[FormAction]) {
	return h.OnDiscardButtonTapped(s, a)
}

// FormReducer edits the draft item.
type FormReducer struct{}

var _ FormHandler = FormReducer{}

func (r FormReducer) Reduce(state ItemForm, action FormAction) (ItemForm, []reducer.Effect[FormAction]) {
	if action == nil {
		return state, nil
	}
	return action.applyForm(r, state)
}

func (FormReducer) OnSetName(s ItemForm, a SetName) (ItemForm, []reducer.Effect[FormAction]) {
	s.Item.Name = a.Name
	return s, nil
}

func (FormReducer) OnSetColor(s ItemForm, a SetColor) (ItemForm, []reducer.Effect[FormAction]) {
	if a.Color == "" {
		s.Item.Color = nil
		return s, nil
	}
	if c, ok := ColorNamed(a.Color); ok {
		s.Item.Color = &c
	}
	return s, nil
}

func (FormReducer) OnSetQuantity(s ItemForm, a SetQuantity) (ItemForm, []reducer.Effect[FormAction]) {
	if !s.Item.Status.InStock {
		return s, nil
	}
	s.Item.Status = InStock(max(a.Quantity, 0))
	return s, nil
}

func (FormReducer) OnSetInStock(s ItemForm, a SetInStock) (ItemForm, []reducer.Effect[FormAction]) {
	if a.InStock == s.Item.Status.InStock {
		return s, nil
	}
	if a.InStock {
		s.Item.Status = InStock(1)
	} else {
		s.Item.Status = OutOfStock(false)
	}
	return s, nil
}

func (FormReducer) OnSetBackOrdered(s ItemForm, a SetBackOrdered) (ItemForm, []reducer.Effect[FormAction]) {
	if s.Item.Status.InStock {
		return s, nil
	}
	s.Item.Status = OutOfStock(a.BackOrdered)
	return s, nil
}

func (FormReducer) OnDiscardButtonTapped(s ItemForm, _ DiscardButtonTapped) (ItemForm, []reducer.Effect[FormAction]) {
	return s, []reducer.Effect[FormAction]{reducer.DismissSelf[FormAction]()}
}
