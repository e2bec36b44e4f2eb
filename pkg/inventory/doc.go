// Package inventory implements the inventory list feature.
//
// The root state is an ordered collection of items plus three presentation
// slots: the add item sheet, the duplicate item popover and the delete
// confirmation alert. Each slot is composed onto the root reducer with
// reducer.IfLet, so a child reducer only ever runs while its slot is present.
package inventory
