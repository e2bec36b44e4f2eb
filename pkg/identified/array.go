// Package identified provides an ordered collection keyed by stable identity.
//
// Array is a value type with copy-on-write semantics: every mutating method
// returns a new Array and leaves the receiver untouched, which keeps reducers
// pure. Insertion order is display order and identities are unique.
package identified

import "encoding/json"

// Identifiable values expose a stable identity used for lookups and diffing.
// Identity never participates in value equality.
type Identifiable interface {
	Identity() string
}

// Array is an ordered, identity-keyed collection.
// The zero value is an empty array ready to use.
type Array[T Identifiable] struct {
	items []T
}

// New builds an array from items. Later duplicates of an identity are dropped.
func New[T Identifiable](items ...T) Array[T] {
	var a Array[T]
	for _, item := range items {
		a, _ = a.Append(item)
	}
	return a
}

// Len returns the number of elements.
func (a Array[T]) Len() int {
	return len(a.items)
}

// Items returns a copy of the elements in order.
func (a Array[T]) Items() []T {
	if len(a.items) == 0 {
		return nil
	}
	dup := make([]T, len(a.items))
	copy(dup, a.items)
	return dup
}

// IDs returns the identities in order.
func (a Array[T]) IDs() []string {
	if len(a.items) == 0 {
		return nil
	}
	ids := make([]string, len(a.items))
	for i, item := range a.items {
		ids[i] = item.Identity()
	}
	return ids
}

// At returns the element at position i. It panics when i is out of range.
func (a Array[T]) At(i int) T {
	return a.items[i]
}

// Index returns the position of id, or -1.
func (a Array[T]) Index(id string) int {
	for i, item := range a.items {
		if item.Identity() == id {
			return i
		}
	}
	return -1
}

// Contains reports whether id is present.
func (a Array[T]) Contains(id string) bool {
	return a.Index(id) >= 0
}

// Get returns the element with id.
func (a Array[T]) Get(id string) (T, bool) {
	if i := a.Index(id); i >= 0 {
		return a.items[i], true
	}
	var zero T
	return zero, false
}

// Append adds item at the end. It reports false, and returns the receiver,
// when the identity is already present.
func (a Array[T]) Append(item T) (Array[T], bool) {
	if a.Contains(item.Identity()) {
		return a, false
	}
	items := make([]T, len(a.items), len(a.items)+1)
	copy(items, a.items)
	return Array[T]{items: append(items, item)}, true
}

// Remove deletes the element with id. It reports false, and returns the
// receiver, when id is absent.
func (a Array[T]) Remove(id string) (Array[T], bool) {
	i := a.Index(id)
	if i < 0 {
		return a, false
	}
	if len(a.items) == 1 {
		return Array[T]{}, true
	}
	items := make([]T, 0, len(a.items)-1)
	items = append(items, a.items[:i]...)
	items = append(items, a.items[i+1:]...)
	return Array[T]{items: items}, true
}

// Replace swaps the element sharing item's identity, keeping its position.
// It reports false, and returns the receiver, when the identity is absent.
func (a Array[T]) Replace(item T) (Array[T], bool) {
	i := a.Index(item.Identity())
	if i < 0 {
		return a, false
	}
	items := make([]T, len(a.items))
	copy(items, a.items)
	items[i] = item
	return Array[T]{items: items}, true
}

// MarshalJSON encodes the array as a JSON list.
func (a Array[T]) MarshalJSON() ([]byte, error) {
	if a.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a.items)
}

// UnmarshalJSON decodes a JSON list, dropping duplicate identities.
func (a *Array[T]) UnmarshalJSON(data []byte) error {
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*a = New(items...)
	return nil
}
