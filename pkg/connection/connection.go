// Package connection wires output ports to input ports and enforces
// datatype compatibility, which the execution core leaves to this layer.
package connection

import (
	"errors"
	"fmt"
	"sync"

	"github.com/aretw0/dataflow/pkg/domain"
	"github.com/aretw0/dataflow/pkg/module"
)

var (
	// ErrIncompatiblePorts is returned when the datatypes of both ends differ.
	ErrIncompatiblePorts = errors.New("incompatible ports")
	// ErrInputAlreadyConnected is returned when the input already has an upstream.
	ErrInputAlreadyConnected = errors.New("input port already connected")
	// ErrNoTransport is returned when either port was built without a transport.
	ErrNoTransport = errors.New("port has no transport")
)

// Connection is a live link from one output port to one input port.
type Connection struct {
	id  string
	out *module.OutputPort
	in  *module.InputPort

	once sync.Once
}

// Compatible reports whether data tagged out can flow into in.
// The "Datatype" tag is a wildcard on either side.
func Compatible(out, in string) bool {
	return out == in || out == domain.DatatypeAny || in == domain.DatatypeAny
}

// Connect links out to in.
func Connect(out *module.OutputPort, in *module.InputPort) (*Connection, error) {
	if !Compatible(out.Datatype(), in.Datatype()) {
		return nil, fmt.Errorf("%w: %s:%s (%s) -> %s:%s (%s)", ErrIncompatiblePorts,
			out.ModuleID(), out.Name(), out.Datatype(), in.ModuleID(), in.Name(), in.Datatype())
	}
	if up := in.Upstream(); up != "" {
		return nil, fmt.Errorf("%w: %s:%s is fed by %s", ErrInputAlreadyConnected, in.ModuleID(), in.Name(), up)
	}
	if out.Source() == nil || in.Sink() == nil {
		return nil, ErrNoTransport
	}

	c := &Connection{
		id:  fmt.Sprintf("%s:%d_%s:%d", out.ModuleID(), out.Index(), in.ModuleID(), in.Index()),
		out: out,
		in:  in,
	}
	in.SetUpstream(c.id)
	out.Source().Attach(in.Sink())
	return c, nil
}

// ConnectModules links output outIdx of from to input inIdx of to.
func ConnectModules(from *module.Module, outIdx int, to *module.Module, inIdx int) (*Connection, error) {
	if outIdx < 0 || outIdx >= from.NumOutputPorts() {
		return nil, fmt.Errorf("%w: output %d of module %s", domain.ErrInvalidArgument, outIdx, from.ID())
	}
	if inIdx < 0 || inIdx >= to.NumInputPorts() {
		return nil, fmt.Errorf("%w: input %d of module %s", domain.ErrPortNotFound, inIdx, to.ID())
	}
	return Connect(from.OutputPort(outIdx), to.InputPort(inIdx))
}

// ID returns "<outModule>:<outIdx>_<inModule>:<inIdx>".
func (c *Connection) ID() string {
	return c.id
}

func (c *Connection) Output() *module.OutputPort { return c.out }
func (c *Connection) Input() *module.InputPort   { return c.in }

// Disconnect removes the link. Calling it again is a no-op.
func (c *Connection) Disconnect() {
	c.once.Do(func() {
		c.out.Source().Detach(c.in.Sink())
		c.in.SetUpstream("")
	})
}
