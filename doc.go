/*
Package vine is a composable reducer core with a host-side effect runtime.

Features are pure reducers: given a state and an action they return the next
state and a list of inert effect requests. They never block, sleep or touch
the network. A Store holds the current state of one feature, serializes
actions through its reducer, publishes snapshots to subscribers and hands the
requested effects to an executor (see package runner). Effect results come
back as actions through the same entry point, and results from flights that
were cancelled or superseded are dropped before they reach the reducer.

# Composition

Package reducer provides the combinators that build a feature tree:

  - IfLet runs a child only while its optional state (a presentation slot
    such as a sheet or an alert) is present, and tears it down on dismiss.
  - ForEach runs one child per row of an identified collection.
  - Scope embeds an always-present child; Combine chains reducers.

# Usage

	ids := identity.UUID()
	store := vine.NewStore(inventory.NewState(), inventory.NewReducer(ids))
	defer store.Close()

	store.Send(inventory.AddButtonTapped{})
	store.Send(inventory.AddItem{Presentation: reducer.Forward[inventory.FormAction](inventory.SetName{Name: "Mug"})})
	store.Send(inventory.ConfirmAddItemButtonTapped{})

	for _, item := range store.State().Items.Items() {
		fmt.Println(item.Name)
	}

Hosts that need several independent sessions, persistence or a transport
(HTTP, MCP, CLI) use package session on top of Store.
*/
package vine
