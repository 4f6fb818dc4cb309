/*
Package ports defines the driven ports (interfaces) of the dataflow runtime.

These interfaces decouple the execution core from concrete transports,
state storage and locking backends, so modules can be wired to in-memory
test doubles or to networked implementations without changes.

# Key Interfaces

  - DataSink / DataSource: The data-transport capabilities behind input and output ports.
  - ModuleState / StateFactory: Per-module parameter storage and its construction strategy.
  - Logger: The status/warning/error channel handed to every module.
  - StateStore: Persists module state snapshots keyed by module id.
  - DistributedLocker / Coordinator: Serialize execution cycles and configuration changes.
*/
package ports
