package inventory

import (
	"github.com/aretw0/vine/pkg/codec"
	"github.com/aretw0/vine/pkg/reducer"
)

// FormActions decodes ItemForm actions.
func FormActions() *codec.Registry[FormAction] {
	return codec.NewRegistry[FormAction]().
		Register("set_name", codec.Payload(func(a SetName) FormAction { return a })).
		Register("set_color", codec.Payload(func(a SetColor) FormAction { return a })).
		Register("set_quantity", codec.Payload(func(a SetQuantity) FormAction { return a })).
		Register("set_in_stock", codec.Payload(func(a SetInStock) FormAction { return a })).
		Register("set_back_ordered", codec.Payload(func(a SetBackOrdered) FormAction { return a })).
		Register("discard_button_tapped", codec.Unit[FormAction](DiscardButtonTapped{}))
}

// Actions decodes inventory actions, including the nested slot actions
// ("alert.confirm_deletion", "add_item.set_name", "duplicate_item.dismiss").
func Actions() *codec.Registry[Action] {
	r := codec.NewRegistry[Action]().
		Register("add_button_tapped", codec.Unit[Action](AddButtonTapped{})).
		Register("cancel_add_item_button_tapped", codec.Unit[Action](CancelAddItemButtonTapped{})).
		Register("confirm_add_item_button_tapped", codec.Unit[Action](ConfirmAddItemButtonTapped{})).
		Register("duplicate_button_tapped", codec.Payload(func(a DuplicateButtonTapped) Action { return a })).
		Register("cancel_duplicate_item_button_tapped", codec.Unit[Action](CancelDuplicateItemButtonTapped{})).
		Register("confirm_duplicate_item_button_tapped", codec.Unit[Action](ConfirmDuplicateItemButtonTapped{})).
		Register("delete_button_tapped", codec.Payload(func(a DeleteButtonTapped) Action { return a }))

	alert := codec.NewRegistry[AlertAction]().
		Register("confirm_deletion", codec.Payload(func(a ConfirmDeletion) AlertAction { return a }))

	codec.Nest(r, AlertSlotID, alert, func(p reducer.Presentation[AlertAction]) Action { return Alert{Presentation: p} })
	codec.Nest(r, AddItemSlotID, FormActions(), func(p reducer.Presentation[FormAction]) Action { return AddItem{Presentation: p} })
	codec.Nest(r, DuplicateItemSlotID, FormActions(), func(p reducer.Presentation[FormAction]) Action { return DuplicateItem{Presentation: p} })
	return r
}
