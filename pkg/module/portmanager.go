package module

// managedPort is satisfied by *InputPort and *OutputPort.
type managedPort interface {
	Reset()
	setIndex(idx int)
	setModule(id string)
}

// PortManager owns the ports of one module side, in declaration order.
type PortManager[P managedPort] struct {
	ports    []P
	moduleID string
}

// NewPortManager creates an empty manager.
func NewPortManager[P managedPort]() *PortManager[P] {
	return &PortManager[P]{}
}

// Add appends p and returns its index. The index never changes afterwards.
func (pm *PortManager[P]) Add(p P) int {
	idx := len(pm.ports)
	p.setIndex(idx)
	p.setModule(pm.moduleID)
	pm.ports = append(pm.ports, p)
	return idx
}

// At returns the port at idx. It panics when idx is out of range.
func (pm *PortManager[P]) At(idx int) P {
	return pm.ports[idx]
}

func (pm *PortManager[P]) Size() int {
	return len(pm.ports)
}

// All returns the ports in index order.
func (pm *PortManager[P]) All() []P {
	return append([]P(nil), pm.ports...)
}

// ResetAll clears the transient data of every port.
func (pm *PortManager[P]) ResetAll() {
	for _, p := range pm.ports {
		p.Reset()
	}
}

// SetModule records the owning module id on the manager and its ports.
func (pm *PortManager[P]) SetModule(id string) {
	pm.moduleID = id
	for _, p := range pm.ports {
		p.setModule(id)
	}
}

func (pm *PortManager[P]) inRange(idx int) bool {
	return idx >= 0 && idx < len(pm.ports)
}
