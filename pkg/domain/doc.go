/*
Package domain contains the core types shared by every Vine component.

It defines the contract between pure reducers and the host that runs them:
inert effect requests, the results a host feeds back, lifecycle events for
observability and the snapshot envelope used by persistence adapters. The
package is kept free of I/O so that reducers and adapters can both depend on it.

# Key Entities

  - EffectRequest: an inert description of work a reducer wants done (run, timer, cancel).
  - EffectResult: the outcome of an effect, delivered back to the store by the host.
  - LifecycleHooks: callbacks fired by the store for actions, effects and stale events.
  - Snapshot: the persisted form of a feature's state for a session.
*/
package domain
