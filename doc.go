/*
Package dataflow is a runtime for dataflow modules: self-contained units of
computation with typed input and output ports and a mutable parameter state.

A module is driven through supervised execution cycles. Each cycle resets
the ports, runs the module's executor and contains every error or panic it
raises, reporting it in a domain.Outcome instead. Modules are created by
name from a factory table and exchange data through pluggable sinks and
sources.

# Usage

	rt := dataflow.New(dataflow.WithLogger(logging.New(slog.LevelInfo)))
	defer rt.Close()

	ctx := context.Background()
	send, _ := rt.Create(ctx, "SendScalar")
	recv, _ := rt.Create(ctx, "ReceiveScalar")
	_, _ = rt.Connect(send.ID(), 0, recv.ID(), 0)

	_, _ = rt.UpdateState(ctx, send.ID(), map[string]domain.Value{
		"Value": domain.FloatValue(3.5),
	})
	outcomes, _ := rt.Run(ctx, send.ID(), recv.ID())

# Architecture

  - pkg/module: Module, ports, the builder and the execution supervisor.
  - pkg/factory: the name-keyed table of known modules.
  - pkg/modules: concrete module implementations.
  - pkg/coordinator: per-module locking, checkpoints and restores.
  - pkg/adapters: transport (memory), state stores (memory, file, redis)
    and the HTTP surface.
  - pkg/observability: Prometheus metrics fed by lifecycle hooks.

Execution order between modules is left to the caller: Run executes
instances in the order given.
*/
package dataflow
