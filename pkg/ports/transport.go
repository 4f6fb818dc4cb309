package ports

import "github.com/aretw0/dataflow/pkg/datatypes"

// DataSink is the receive capability of an input port.
type DataSink interface {
	// Receive buffers a handle pushed by an upstream source.
	Receive(h datatypes.Handle)
	// GetData returns the buffered handle, if any.
	GetData() (datatypes.Handle, bool)
	// Reset clears the buffer.
	Reset()
	// SetProvider links the sink to the upstream source (nil unlinks).
	SetProvider(src DataSource)
}

// DataSource is the send capability of an output port.
type DataSource interface {
	// Send publishes h to every attached sink.
	Send(h datatypes.Handle)
	// Current returns the last handle sent since the last Reset.
	Current() (datatypes.Handle, bool)
	Reset()
	Attach(sink DataSink)
	Detach(sink DataSink)
}

// SinkMaker creates the sink of a new input port.
type SinkMaker func() DataSink

// SourceMaker creates the source of a new output port.
type SourceMaker func() DataSource
