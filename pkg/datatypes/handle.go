package datatypes

import "sync/atomic"

// Handle is a reference to a datatype instance.
// Two reads of the same sent handle return the same pointer.
type Handle interface {
	// TypeName returns the datatype tag, e.g. "Matrix".
	TypeName() string
	// ID is unique within the process and stable for the handle's lifetime.
	ID() uint64
}

var nextID atomic.Uint64

func newID() uint64 {
	return nextID.Add(1)
}

type base struct {
	id uint64
}

func (b base) ID() uint64 { return b.id }
