/*
Package reducer implements the composable, unidirectional state-reducer core.

A Reducer is a pure function from (state, action) to (new state, effects). It
never blocks and never performs I/O: asynchronous work is described by inert
Effect values that a host executes, feeding results back in as new actions.

# Composition

Features are composed from smaller reducers:

  - Combine runs several reducers over the same state in order.
  - Scope embeds a child feature that is always present.
  - IfLet embeds an optional child (a presentation slot). The child only runs
    while its state is present; forwarded actions for an absent child are no-ops.
  - ForEach embeds an identity-keyed collection of child features.

Child effect IDs are namespaced under the slot or row ID, so tearing a child
down cancels everything it started with a single Cancel request.

# Ordering

For IfLet and ForEach, structural actions (not addressed to the child) run the
parent only. Forwarded child actions run the child first and the parent after,
so the parent observes the child's updated state. Dismiss runs the parent
first, while the child is still present, and then clears the slot.
*/
package reducer
