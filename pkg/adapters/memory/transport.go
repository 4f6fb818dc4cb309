package memory

import (
	"sync"

	"github.com/aretw0/dataflow/pkg/datatypes"
	"github.com/aretw0/dataflow/pkg/ports"
)

// Sink is an in-process input buffer.
// When its buffer is empty it pulls the current value of its provider, so
// an input reset at the start of a cycle still sees the upstream output.
type Sink struct {
	mu       sync.Mutex
	data     datatypes.Handle
	provider ports.DataSource
}

var _ ports.DataSink = (*Sink)(nil)

// NewSink returns an empty sink. It matches ports.SinkMaker.
func NewSink() ports.DataSink {
	return &Sink{}
}

func (s *Sink) Receive(h datatypes.Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = h
}

func (s *Sink) GetData() (datatypes.Handle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil && s.provider != nil {
		if h, ok := s.provider.Current(); ok {
			s.data = h
		}
	}
	return s.data, s.data != nil
}

func (s *Sink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
}

func (s *Sink) SetProvider(src ports.DataSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.provider = src
}

// Source is an in-process output. Sends fan out to every attached sink.
type Source struct {
	mu      sync.Mutex
	current datatypes.Handle
	sinks   []ports.DataSink
}

var _ ports.DataSource = (*Source)(nil)

// NewSource returns a source with no attached sinks. It matches ports.SourceMaker.
func NewSource() ports.DataSource {
	return &Source{}
}

func (s *Source) Send(h datatypes.Handle) {
	s.mu.Lock()
	s.current = h
	sinks := append([]ports.DataSink(nil), s.sinks...)
	s.mu.Unlock()

	for _, sink := range sinks {
		sink.Receive(h)
	}
}

func (s *Source) Current() (datatypes.Handle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.current != nil
}

func (s *Source) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

// Attach registers sink and makes s its provider.
func (s *Source) Attach(sink ports.DataSink) {
	s.mu.Lock()
	for _, existing := range s.sinks {
		if existing == sink {
			s.mu.Unlock()
			return
		}
	}
	s.sinks = append(s.sinks, sink)
	s.mu.Unlock()

	sink.SetProvider(s)
}

// Detach unregisters sink and clears its provider.
func (s *Source) Detach(sink ports.DataSink) {
	s.mu.Lock()
	found := false
	for i, existing := range s.sinks {
		if existing == sink {
			s.sinks = append(s.sinks[:i], s.sinks[i+1:]...)
			found = true
			break
		}
	}
	s.mu.Unlock()

	if found {
		sink.SetProvider(nil)
		sink.Reset()
	}
}

// Sinks returns the number of attached sinks.
func (s *Source) Sinks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sinks)
}
