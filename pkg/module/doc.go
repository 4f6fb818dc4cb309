/*
Package module implements the module execution runtime.

A Module is the composition of an identity, two PortManagers (inputs and
outputs), a shared ModuleState and one Executor. The supervising DoExecute
owns the lifecycle of a cycle:

 1. Log a "starting" status tagged with the module id.
 2. Reset every output port, then every input port.
 3. Run Executor.Execute inside a containment boundary.
 4. Log a "finished" status and return an Outcome.

DoExecute never panics and never returns an error: failures are
classified, logged and reported through the Outcome so the surrounding
network run can continue.

Process-wide configuration (instance counter, logger, sink/source makers,
state factory, hooks) lives in a Context created once by the composition
root and passed to every Builder.
*/
package module
