package inventory_test

import (
	"fmt"
	"testing"

	"github.com/aretw0/vine/pkg/domain"
	"github.com/aretw0/vine/pkg/inventory"
	"github.com/aretw0/vine/pkg/ports"
	"github.com/aretw0/vine/pkg/reducer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequence(prefix string) ports.IDGenerator {
	n := 0
	return ports.IDGeneratorFunc(func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	})
}

func shirt() inventory.Item {
	blue, _ := inventory.ColorNamed("blue")
	return inventory.Item{ID: "1", Name: "T-shirt", Color: &blue, Status: inventory.InStock(5)}
}

func reduce(t *testing.T, r reducer.Reducer[inventory.State, inventory.Action], s inventory.State, actions ...inventory.Action) (inventory.State, []domain.EffectRequest) {
	t.Helper()
	var reqs []domain.EffectRequest
	for _, a := range actions {
		var effects []reducer.Effect[inventory.Action]
		s, effects = r.Reduce(s, a)
		reqs = append(reqs, reducer.Requests(effects)...)
	}
	return s, reqs
}

func TestAddFlow(t *testing.T) {
	r := inventory.NewReducer(sequence("new"))

	s, _ := reduce(t, r, inventory.NewState(), inventory.AddButtonTapped{})
	require.NotNil(t, s.AddItem)
	assert.Equal(t, inventory.Item{ID: "new-1", Status: inventory.InStock(1)}, s.AddItem.Item)

	s, _ = reduce(t, r, s,
		inventory.AddItem{Presentation: reducer.Forward[inventory.FormAction](inventory.SetName{Name: "Mug"})},
		inventory.AddItem{Presentation: reducer.Forward[inventory.FormAction](inventory.SetQuantity{Quantity: 3})},
	)
	assert.Equal(t, "Mug", s.AddItem.Item.Name)

	s, reqs := reduce(t, r, s, inventory.ConfirmAddItemButtonTapped{})
	assert.Nil(t, s.AddItem)
	assert.Equal(t, []string{"new-1"}, s.Items.IDs())
	assert.Equal(t, inventory.InStock(3), s.Items.At(0).Status)
	assert.Equal(t, []domain.EffectRequest{{Kind: domain.EffectCancel, ID: inventory.AddItemSlotID}}, reqs)
}

func TestCancelClearsSlotAndKeepsItems(t *testing.T) {
	r := inventory.NewReducer(sequence("new"))
	base := inventory.NewState(shirt())

	tests := []struct {
		name   string
		open   inventory.Action
		cancel inventory.Action
		slot   func(inventory.State) bool
	}{
		{
			name:   "add",
			open:   inventory.AddButtonTapped{},
			cancel: inventory.CancelAddItemButtonTapped{},
			slot:   func(s inventory.State) bool { return s.AddItem != nil },
		},
		{
			name:   "duplicate",
			open:   inventory.DuplicateButtonTapped{ID: "1"},
			cancel: inventory.CancelDuplicateItemButtonTapped{},
			slot:   func(s inventory.State) bool { return s.DuplicateItem != nil },
		},
		{
			name:   "alert",
			open:   inventory.DeleteButtonTapped{ID: "1"},
			cancel: inventory.Alert{Presentation: reducer.Dismiss[inventory.AlertAction]()},
			slot:   func(s inventory.State) bool { return s.Alert != nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opened, _ := reduce(t, r, base, tt.open)
			require.True(t, tt.slot(opened))

			closed, _ := reduce(t, r, opened, tt.cancel)
			assert.False(t, tt.slot(closed))
			assert.Equal(t, base.Items, closed.Items)

			// Cancelling an empty slot is harmless.
			fromEmpty, reqs := reduce(t, r, base, tt.cancel)
			assert.False(t, tt.slot(fromEmpty))
			assert.Equal(t, base, fromEmpty)
			assert.Empty(t, reqs)
		})
	}
}

func TestCancelAddTwiceIsIdempotent(t *testing.T) {
	r := inventory.NewReducer(sequence("new"))
	s, _ := reduce(t, r, inventory.NewState(shirt()), inventory.AddButtonTapped{})

	once, _ := reduce(t, r, s, inventory.CancelAddItemButtonTapped{})
	twice, reqs := reduce(t, r, once, inventory.CancelAddItemButtonTapped{})
	assert.Equal(t, once, twice)
	assert.Empty(t, reqs)
}

func TestConfirmAddWithoutForm(t *testing.T) {
	r := inventory.NewReducer(sequence("new"))
	base := inventory.NewState(shirt())

	s, _ := reduce(t, r, base, inventory.ConfirmAddItemButtonTapped{})
	assert.Nil(t, s.AddItem)
	assert.Equal(t, 1, s.Items.Len(), "nothing to append")
}

func TestDelete(t *testing.T) {
	r := inventory.NewReducer(sequence("new"))
	other := inventory.Item{ID: "2", Name: "Hat", Status: inventory.OutOfStock(true)}
	base := inventory.NewState(shirt(), other)

	t.Run("present id asks for confirmation then removes exactly that item", func(t *testing.T) {
		s, _ := reduce(t, r, base, inventory.DeleteButtonTapped{ID: "1"})
		require.NotNil(t, s.Alert)
		assert.Equal(t, "1", s.Alert.ItemID)
		assert.Equal(t, `Delete "T-shirt"?`, s.Alert.Title)

		s, reqs := reduce(t, r, s, inventory.Alert{Presentation: reducer.Forward[inventory.AlertAction](inventory.ConfirmDeletion{ID: "1"})})
		assert.Nil(t, s.Alert, "the alert dismisses itself")
		assert.Equal(t, []string{"2"}, s.Items.IDs())
		assert.Equal(t, []domain.EffectRequest{{Kind: domain.EffectCancel, ID: inventory.AlertSlotID}}, reqs)
	})

	t.Run("absent id is a no-op", func(t *testing.T) {
		s, reqs := reduce(t, r, base, inventory.DeleteButtonTapped{ID: "404"})
		assert.Equal(t, base, s)
		assert.Empty(t, reqs)
	})

	t.Run("confirming an absent id leaves items alone", func(t *testing.T) {
		s, _ := reduce(t, r, base, inventory.Alert{Presentation: reducer.Forward[inventory.AlertAction](inventory.ConfirmDeletion{ID: "404"})})
		assert.Equal(t, base.Items, s.Items)
	})
}

func TestDuplicateScenario(t *testing.T) {
	r := inventory.NewReducer(sequence("dup"))
	a := shirt()

	s, _ := reduce(t, r, inventory.NewState(a), inventory.DuplicateButtonTapped{ID: "1"})
	require.NotNil(t, s.DuplicateItem)
	draft := s.DuplicateItem.Item
	assert.Equal(t, "dup-1", draft.ID)
	assert.Equal(t, a.Name, draft.Name)
	assert.Equal(t, a.Status, draft.Status)
	assert.Equal(t, a.Color, draft.Color)
	assert.NotSame(t, a.Color, draft.Color, "the copy owns its color")

	s, _ = reduce(t, r, s, inventory.ConfirmDuplicateItemButtonTapped{})
	assert.Nil(t, s.DuplicateItem)
	assert.Equal(t, []string{"1", "dup-1"}, s.Items.IDs())
}

func TestDuplicateAlwaysMintsFreshIdentity(t *testing.T) {
	r := inventory.NewReducer(sequence("dup"))
	s := inventory.NewState(shirt())

	seen := map[string]bool{"1": true}
	for i := 0; i < 3; i++ {
		s, _ = reduce(t, r, s, inventory.DuplicateButtonTapped{ID: "1"}, inventory.ConfirmDuplicateItemButtonTapped{})
	}
	for _, id := range s.Items.IDs()[1:] {
		assert.False(t, seen[id], "identity %s reused", id)
		seen[id] = true
	}
	assert.Equal(t, 4, s.Items.Len())
}

func TestDuplicateMissingIsNoop(t *testing.T) {
	r := inventory.NewReducer(sequence("dup"))
	base := inventory.NewState(shirt())

	s, _ := reduce(t, r, base, inventory.DuplicateButtonTapped{ID: "nope"})
	assert.Equal(t, base, s)
}

func TestFormDiscardDismissesSlot(t *testing.T) {
	r := inventory.NewReducer(sequence("new"))
	s, _ := reduce(t, r, inventory.NewState(), inventory.AddButtonTapped{})

	s, reqs := reduce(t, r, s, inventory.AddItem{Presentation: reducer.Forward[inventory.FormAction](inventory.DiscardButtonTapped{})})
	assert.Nil(t, s.AddItem)
	assert.Equal(t, 0, s.Items.Len())
	assert.Equal(t, []domain.EffectRequest{{Kind: domain.EffectCancel, ID: inventory.AddItemSlotID}}, reqs)
}

func TestForwardToClosedFormIsNoop(t *testing.T) {
	r := inventory.NewReducer(sequence("new"))
	base := inventory.NewState(shirt())

	s, reqs := reduce(t, r, base, inventory.DuplicateItem{Presentation: reducer.Forward[inventory.FormAction](inventory.SetName{Name: "x"})})
	assert.Equal(t, base, s)
	assert.Empty(t, reqs)
}

func TestSlotsAreIndependent(t *testing.T) {
	r := inventory.NewReducer(sequence("new"))

	s, _ := reduce(t, r, inventory.NewState(shirt()),
		inventory.AddButtonTapped{},
		inventory.DuplicateButtonTapped{ID: "1"},
		inventory.DeleteButtonTapped{ID: "1"},
	)
	assert.NotNil(t, s.AddItem)
	assert.NotNil(t, s.DuplicateItem)
	assert.NotNil(t, s.Alert)

	s, _ = reduce(t, r, s, inventory.CancelDuplicateItemButtonTapped{})
	assert.NotNil(t, s.AddItem)
	assert.Nil(t, s.DuplicateItem)
	assert.NotNil(t, s.Alert)
}

func TestReducerIsDeterministic(t *testing.T) {
	actions := []inventory.Action{
		inventory.AddButtonTapped{},
		inventory.AddItem{Presentation: reducer.Forward[inventory.FormAction](inventory.SetName{Name: "Mug"})},
		inventory.ConfirmAddItemButtonTapped{},
		inventory.DuplicateButtonTapped{ID: "1"},
		inventory.DeleteButtonTapped{ID: "1"},
	}

	first, firstReqs := reduce(t, inventory.NewReducer(sequence("id")), inventory.NewState(shirt()), actions...)
	second, secondReqs := reduce(t, inventory.NewReducer(sequence("id")), inventory.NewState(shirt()), actions...)
	assert.Equal(t, first, second)
	assert.Equal(t, firstReqs, secondReqs)
}
