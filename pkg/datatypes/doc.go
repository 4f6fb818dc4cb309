// Package datatypes defines the opaque data handles that flow between ports.
//
// The execution core never interprets a handle: it only moves it from an
// output port to the connected input ports. Modules type-assert the handle
// to the concrete type they expect. Handles are immutable; every operation
// returns a new handle with a fresh ID.
package datatypes
