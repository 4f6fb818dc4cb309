// Package middleware wraps a ports.StateStore with behavior applied to every
// snapshot on its way in or out.
package middleware

import "github.com/aretw0/dataflow/pkg/ports"

// Middleware allows wrapping a StateStore to add behavior.
type Middleware func(ports.StateStore) ports.StateStore

// Chain applies mws to store. The first middleware is the outermost one,
// so it sees a snapshot before any other on Save.
func Chain(store ports.StateStore, mws ...Middleware) ports.StateStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
