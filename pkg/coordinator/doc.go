/*
Package coordinator serializes work on module instances.

Execution cycles and configuration changes of the same module go through
Manager.WithLock, so a module's state is only mutated between cycles. Locks
are reference counted and dropped once unused. An optional
ports.DistributedLocker extends the exclusion across runtime replicas, and
the Manager doubles as the checkpoint/restore path to a ports.StateStore.
*/
package coordinator
