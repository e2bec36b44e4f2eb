package inventory

import "github.com/aretw0/vine/pkg/identified"

// State is the root inventory state.
type State struct {
	Items         identified.Array[Item] `json:"items"`
	AddItem       *ItemForm              `json:"add_item,omitempty"`
	DuplicateItem *ItemForm              `json:"duplicate_item,omitempty"`
	Alert         *DeleteAlert           `json:"alert,omitempty"`
}

// NewState builds a state holding items, with every slot dismissed.
func NewState(items ...Item) State {
	return State{Items: identified.New(items...)}
}

// DeleteAlert asks the user to confirm the deletion of ItemID.
type DeleteAlert struct {
	ItemID  string `json:"item_id"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

func newDeleteAlert(item Item) *DeleteAlert {
	title := "Delete item?"
	if item.Name != "" {
		title = "Delete \"" + item.Name + "\"?"
	}
	return &DeleteAlert{
		ItemID:  item.ID,
		Title:   title,
		Message: "Are you sure you want to delete this item?",
	}
}
