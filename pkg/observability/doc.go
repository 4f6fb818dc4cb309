/*
Package observability turns runtime lifecycle hooks into Prometheus metrics.

Metrics.Hooks returns a domain.LifecycleHooks value that can be merged with
any other hooks and passed to module.WithLifecycleHooks. Each Metrics owns
its registry, so several runtimes can coexist in one process.
*/
package observability
