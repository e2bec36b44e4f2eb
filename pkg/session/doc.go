/*
Package session runs many independent instances of one feature.

A Manager keeps a live vine.Store per session ID, loads it from a
ports.SnapshotStore on first use and writes a snapshot back after every
change. Concurrent access to a session is serialized with reference-counted
local locks and, when configured, a ports.DistributedLocker so several
replicas can share one snapshot store.

Transports that should not depend on a feature's concrete types talk to a
Manager through the Host interface.
*/
package session
