package module

import (
	"sync"

	"github.com/aretw0/dataflow/pkg/datatypes"
	"github.com/aretw0/dataflow/pkg/domain"
	"github.com/aretw0/dataflow/pkg/ports"
)

// Port is the metadata shared by input and output ports.
// It refers to its module by id only.
type Port struct {
	index     int
	desc      domain.PortDescription
	direction domain.Direction
	moduleID  string
}

func (p *Port) Index() int                          { return p.index }
func (p *Port) Name() string                        { return p.desc.Name }
func (p *Port) Datatype() string                    { return p.desc.Datatype }
func (p *Port) Color() string                       { return p.desc.Color }
func (p *Port) Direction() domain.Direction         { return p.direction }
func (p *Port) ModuleID() string                    { return p.moduleID }
func (p *Port) Description() domain.PortDescription { return p.desc }

func (p *Port) setIndex(idx int)    { p.index = idx }
func (p *Port) setModule(id string) { p.moduleID = id }

// InputPort wraps a data sink.
type InputPort struct {
	Port
	sink ports.DataSink

	mu       sync.Mutex
	upstream string
}

// NewInputPort creates an input port. A nil sink yields a port that never has data.
func NewInputPort(desc domain.PortDescription, sink ports.DataSink) *InputPort {
	return &InputPort{
		Port: Port{desc: desc, direction: domain.DirectionInput},
		sink: sink,
	}
}

// GetData returns the currently buffered handle.
func (p *InputPort) GetData() (datatypes.Handle, bool) {
	if p.sink == nil {
		return nil, false
	}
	return p.sink.GetData()
}

// Reset clears the buffered handle.
func (p *InputPort) Reset() {
	if p.sink != nil {
		p.sink.Reset()
	}
}

func (p *InputPort) Sink() ports.DataSink { return p.sink }

// Upstream returns the id of the connection feeding this port, if any.
func (p *InputPort) Upstream() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.upstream
}

// SetUpstream records the connection feeding this port. Used by the connection layer.
func (p *InputPort) SetUpstream(connID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.upstream = connID
}

// OutputPort wraps a data source.
type OutputPort struct {
	Port
	source ports.DataSource
}

// NewOutputPort creates an output port. A nil source drops every send.
func NewOutputPort(desc domain.PortDescription, source ports.DataSource) *OutputPort {
	return &OutputPort{
		Port:   Port{desc: desc, direction: domain.DirectionOutput},
		source: source,
	}
}

// SendData publishes h to the connected inputs.
func (p *OutputPort) SendData(h datatypes.Handle) {
	if p.source != nil {
		p.source.Send(h)
	}
}

// Reset clears the last sent handle.
func (p *OutputPort) Reset() {
	if p.source != nil {
		p.source.Reset()
	}
}

func (p *OutputPort) Source() ports.DataSource { return p.source }
