package http

import (
	"github.com/aretw0/dataflow/pkg/domain"
	"github.com/aretw0/dataflow/pkg/module"
)

// PortView is the JSON shape of one port.
type PortView struct {
	Index    int    `json:"index"`
	Name     string `json:"name"`
	Datatype string `json:"datatype"`
	Color    string `json:"color"`
	Upstream string `json:"upstream,omitempty"`
}

// InstanceView is the JSON shape of a module instance.
type InstanceView struct {
	ID      string                  `json:"id"`
	Info    domain.LookupInfo       `json:"info"`
	HasUI   bool                    `json:"has_ui"`
	Inputs  []PortView              `json:"inputs"`
	Outputs []PortView              `json:"outputs"`
	State   map[string]domain.Value `json:"state"`
}

// NewInstanceView snapshots m for rendering.
func NewInstanceView(m *module.Module) InstanceView {
	v := InstanceView{
		ID:      m.ID(),
		Info:    m.Info(),
		HasUI:   m.HasUI(),
		Inputs:  make([]PortView, 0, m.NumInputPorts()),
		Outputs: make([]PortView, 0, m.NumOutputPorts()),
		State:   m.State().Snapshot(),
	}
	for _, p := range m.Inputs().All() {
		v.Inputs = append(v.Inputs, PortView{
			Index: p.Index(), Name: p.Name(), Datatype: p.Datatype(), Color: p.Color(), Upstream: p.Upstream(),
		})
	}
	for _, p := range m.Outputs().All() {
		v.Outputs = append(v.Outputs, PortView{
			Index: p.Index(), Name: p.Name(), Datatype: p.Datatype(), Color: p.Color(),
		})
	}
	return v
}
