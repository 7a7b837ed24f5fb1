// Package netlist defines the in-memory representation of a flattened,
// bit-level gate netlist: modules, wires, ports, primitive cells, and
// direct bit-to-bit connections.
//
// A netlist is produced by a loader (see [ReadJSON]) and consumed read-only
// by the analysis packages. Widths are decomposed into individual [SigBit]
// values; there is no aggregate signal arithmetic here.
package netlist

import (
	"errors"
	"maps"
	"slices"
)

var (
	// ErrInvalidWireName is returned by [Module.AddWire] when the wire name
	// is empty. The empty name is reserved for the constant bit variant.
	ErrInvalidWireName = errors.New("wire name must not be empty")

	// ErrInvalidWireWidth is returned by [Module.AddWire] when the declared
	// width is not positive.
	ErrInvalidWireWidth = errors.New("wire width must be positive")

	// ErrDuplicateWire is returned by [Module.AddWire] when a wire with the
	// same name already exists in the module.
	ErrDuplicateWire = errors.New("duplicate wire name")

	// ErrUnknownWire is returned by [Module.AddPort] when the named wire has
	// not been declared.
	ErrUnknownWire = errors.New("unknown wire")

	// ErrDuplicateCell is returned by [Module.AddCell] when a cell with the
	// same instance name already exists in the module.
	ErrDuplicateCell = errors.New("duplicate cell name")
)

// Wire is a named multi-bit signal with a declared width and a port role.
// A wire may be a primary input, a primary output, both, or neither
// (an internal signal).
type Wire struct {
	Name   string // unique within the module
	Width  int    // number of bits, >= 1
	Input  bool   // primary input
	Output bool   // primary output
}

// Bit returns the SigBit for one offset of the wire.
// Offsets outside [0, Width) are not validated here; callers that take
// offsets from external input must range-check first.
func (w *Wire) Bit(offset int) SigBit {
	return SigBit{Wire: w.Name, Offset: offset}
}

// Cell is an instance of a primitive operator. Connections are single-bit
// and tagged by role (e.g. "A", "B", "S" for inputs, "Y" for the output).
// Which roles a given type requires is decided by the analysis layer, not
// here; the netlist merely records what the loader saw.
type Cell struct {
	Name  string            // instance name, unique within the module
	Type  string            // primitive type identifier, e.g. "$_AND_"
	Conns map[string]SigBit // role -> connected bit
}

// Connection is a direct bit-level alias group: Dest[i] is driven by
// Src[i] for every aligned position. Dest and Src must have equal length;
// the graph builder rejects mismatched groups as malformed.
type Connection struct {
	Dest []SigBit
	Src  []SigBit
}

// Module is one flattened design unit: declared wires, an ordered port
// list, direct connections, and primitive cells. A Module is owned by the
// caller for the duration of one analysis and is never mutated by it.
type Module struct {
	Name  string
	Ports []string // port wire names in declaration order
	Conns []Connection
	Cells []Cell

	wires map[string]*Wire
}

// NewModule creates an empty module with the given name.
func NewModule(name string) *Module {
	return &Module{Name: name, wires: make(map[string]*Wire)}
}

// AddWire declares a wire. Returns ErrInvalidWireName, ErrInvalidWireWidth,
// or ErrDuplicateWire on invalid input.
func (m *Module) AddWire(w Wire) error {
	if w.Name == "" {
		return ErrInvalidWireName
	}
	if w.Width < 1 {
		return ErrInvalidWireWidth
	}
	if _, exists := m.wires[w.Name]; exists {
		return ErrDuplicateWire
	}
	wire := &w
	m.wires[wire.Name] = wire
	return nil
}

// AddPort appends a declared wire to the ordered port list.
// The wire must have been added first and must carry an Input or Output
// role flag.
func (m *Module) AddPort(name string) error {
	if _, ok := m.wires[name]; !ok {
		return ErrUnknownWire
	}
	m.Ports = append(m.Ports, name)
	return nil
}

// AddConn records a direct bit-level connection group.
func (m *Module) AddConn(c Connection) {
	m.Conns = append(m.Conns, c)
}

// AddCell records a primitive cell instance. The cell's Conns map is
// automatically initialized if nil. Returns ErrDuplicateCell if the
// instance name is already taken.
func (m *Module) AddCell(c Cell) error {
	for _, existing := range m.Cells {
		if existing.Name == c.Name {
			return ErrDuplicateCell
		}
	}
	if c.Conns == nil {
		c.Conns = make(map[string]SigBit)
	}
	m.Cells = append(m.Cells, c)
	return nil
}

// Wire returns the declared wire with the given name and true, or nil and
// false if no such wire exists. The empty name (constant bit) always
// returns false.
func (m *Module) Wire(name string) (*Wire, bool) {
	w, ok := m.wires[name]
	return w, ok
}

// WireOf resolves the wire behind a SigBit. Constant bits and bits naming
// undeclared wires resolve to nil, false.
func (m *Module) WireOf(bit SigBit) (*Wire, bool) {
	if !bit.IsWire() {
		return nil, false
	}
	return m.Wire(bit.Wire)
}

// Wires returns all declared wires sorted by name.
func (m *Module) Wires() []*Wire {
	wires := make([]*Wire, 0, len(m.wires))
	for _, name := range slices.Sorted(maps.Keys(m.wires)) {
		wires = append(wires, m.wires[name])
	}
	return wires
}

// WireCount returns the number of declared wires.
func (m *Module) WireCount() int { return len(m.wires) }

// PortWires returns the wires behind the ordered port list.
// Ports referencing undeclared wires are skipped (AddPort prevents them,
// so this only matters for hand-built modules).
func (m *Module) PortWires() []*Wire {
	wires := make([]*Wire, 0, len(m.Ports))
	for _, name := range m.Ports {
		if w, ok := m.wires[name]; ok {
			wires = append(wires, w)
		}
	}
	return wires
}

// InputBits returns every primary-input bit in port order, offsets
// ascending within each port.
func (m *Module) InputBits() []SigBit {
	return m.portBits(func(w *Wire) bool { return w.Input })
}

// OutputBits returns every primary-output bit in port order, offsets
// ascending within each port.
func (m *Module) OutputBits() []SigBit {
	return m.portBits(func(w *Wire) bool { return w.Output })
}

func (m *Module) portBits(keep func(*Wire) bool) []SigBit {
	var bits []SigBit
	for _, w := range m.PortWires() {
		if !keep(w) {
			continue
		}
		for offset := 0; offset < w.Width; offset++ {
			bits = append(bits, w.Bit(offset))
		}
	}
	return bits
}

// Design is a collection of modules, typically one loaded netlist file.
type Design struct {
	Modules []*Module
}

// Module returns the module with the given name and true, or nil and false.
func (d *Design) Module(name string) (*Module, bool) {
	for _, m := range d.Modules {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}
