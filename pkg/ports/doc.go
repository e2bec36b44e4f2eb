/*
Package ports defines the driven ports (interfaces) of the Vine host.

These interfaces decouple the pure reducer core and the store from concrete
implementations, so the same feature can be persisted in memory, on disk or
in Redis, and its effects can be executed by any runtime.

# Key Interfaces

  - SnapshotStore: persists and loads the snapshot of a session's feature state.
  - DistributedLocker: coordinates concurrent session access across replicas.
  - Executor: runs effect requests and reports results back through a Sink.
  - EffectHandler: performs one named operation for run effects (e.g. "fact.fetch").
  - IDGenerator: produces fresh identities; injected so tests stay deterministic.
*/
package ports
