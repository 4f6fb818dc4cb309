/*
Package domain contains the core domain models of the dataflow runtime.

It defines the identity of a module (LookupInfo), the declarative description
of its ports (PortDescription), the closed set of values a module state can
hold (Value), the execution outcome reported by every cycle (Outcome) and the
errors shared across packages. This package is kept pure and free of I/O.

# Key Entities

  - LookupInfo: Immutable identity used to find a module description.
  - PortDescription: Name, datatype tag and color tag of a port.
  - Value: Tagged scalar (string, bool, int, float) stored in a module state.
  - Outcome: Machine-readable result of one supervised execution cycle.
  - StateSnapshot: Persistable copy of a module state.
*/
package domain
