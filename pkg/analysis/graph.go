package analysis

import (
	"maps"
	"slices"

	"github.com/mbertsch/ioflow/pkg/errors"
	"github.com/mbertsch/ioflow/pkg/netlist"
)

// Graph is the bit-level fan-in map of one module: for every destination
// bit, the set of bits that directly drive it. It is built once per module
// by [BuildGraph] and is read-only afterwards.
//
// A destination driven by more than one source (through overlapping
// connections or multiple gates) keeps the union of its drivers; the
// resolver treats the merged set as joint fan-in.
type Graph struct {
	drivers map[netlist.SigBit]map[netlist.SigBit]struct{}
	edges   int
}

// BuildGraph constructs the fan-in map for a module from its two edge
// sources:
//
//   - Direct connections: each (dest, src) group is decomposed bit-by-bit
//     and contributes one src_bit → dest_bit edge per aligned position.
//     Groups with differing dest/src widths are a structural-integrity
//     error (WIDTH_MISMATCH).
//   - Primitive cells: each cell's output bit gets one edge from every
//     input bit of the same cell. Cell types listed in cfg.Annotations are
//     skipped entirely; any other type missing from cfg.Primitives is an
//     UNSUPPORTED_CELL error, and a recognized type with missing, constant-
//     output, or undeclared roles is an INVALID_CELL error.
//
// Port direction plays no role here: primary-input bits may appear as
// destinations (e.g. through aliases), and it is the resolver that gives
// input-ness precedence over recorded drivers.
func BuildGraph(m *netlist.Module, cfg Config) (*Graph, error) {
	g := &Graph{drivers: make(map[netlist.SigBit]map[netlist.SigBit]struct{})}

	for i, conn := range m.Conns {
		if len(conn.Dest) != len(conn.Src) {
			return nil, errors.New(errors.ErrCodeWidthMismatch,
				"module %s: connection %d: dest is %d bits, src is %d bits",
				m.Name, i, len(conn.Dest), len(conn.Src))
		}
		for j := range conn.Dest {
			g.addEdge(conn.Src[j], conn.Dest[j])
		}
	}

	for i := range m.Cells {
		if err := g.addCell(m, &m.Cells[i], cfg); err != nil {
			return nil, err
		}
	}

	return g, nil
}

func (g *Graph) addCell(m *netlist.Module, cell *netlist.Cell, cfg Config) error {
	if cfg.Annotations[cell.Type] {
		return nil
	}
	gate, ok := cfg.Primitives[cell.Type]
	if !ok {
		return errors.New(errors.ErrCodeUnsupportedCell,
			"module %s: cell %s has unrecognized type %s", m.Name, cell.Name, cell.Type)
	}

	output, ok := cell.Conns[gate.Output]
	if !ok {
		return errors.New(errors.ErrCodeInvalidCell,
			"module %s: cell %s (%s) is missing output role %s", m.Name, cell.Name, cell.Type, gate.Output)
	}
	if !output.IsWire() {
		return errors.New(errors.ErrCodeInvalidCell,
			"module %s: cell %s (%s) drives a constant bit", m.Name, cell.Name, cell.Type)
	}

	inputs := make([]netlist.SigBit, 0, len(gate.Inputs))
	for _, role := range gate.Inputs {
		bit, ok := cell.Conns[role]
		if !ok {
			return errors.New(errors.ErrCodeInvalidCell,
				"module %s: cell %s (%s) is missing input role %s", m.Name, cell.Name, cell.Type, role)
		}
		inputs = append(inputs, bit)
	}

	// Reject roles outside the gate's contract rather than silently
	// dropping them: an unexpected operand would corrupt the result.
	if len(cell.Conns) != len(gate.Inputs)+1 {
		for role := range cell.Conns {
			if role != gate.Output && !slices.Contains(gate.Inputs, role) {
				return errors.New(errors.ErrCodeInvalidCell,
					"module %s: cell %s (%s) has unexpected role %s", m.Name, cell.Name, cell.Type, role)
			}
		}
	}

	for _, input := range inputs {
		g.addEdge(input, output)
	}
	return nil
}

func (g *Graph) addEdge(src, dest netlist.SigBit) {
	set, ok := g.drivers[dest]
	if !ok {
		set = make(map[netlist.SigBit]struct{})
		g.drivers[dest] = set
	}
	if _, dup := set[src]; !dup {
		set[src] = struct{}{}
		g.edges++
	}
}

// Drivers returns the direct drivers of a bit in sorted order.
// Bits absent from the map have no drivers and return nil.
func (g *Graph) Drivers(bit netlist.SigBit) []netlist.SigBit {
	set, ok := g.drivers[bit]
	if !ok {
		return nil
	}
	bits := slices.Collect(maps.Keys(set))
	netlist.SortBits(bits)
	return bits
}

// HasDrivers reports whether any edge targets the bit.
func (g *Graph) HasDrivers(bit netlist.SigBit) bool {
	return len(g.drivers[bit]) > 0
}

// Bits returns every bit that appears in the graph, as a source or a
// destination, in sorted order.
func (g *Graph) Bits() []netlist.SigBit {
	seen := make(map[netlist.SigBit]struct{})
	for dest, srcs := range g.drivers {
		seen[dest] = struct{}{}
		for src := range srcs {
			seen[src] = struct{}{}
		}
	}
	bits := slices.Collect(maps.Keys(seen))
	netlist.SortBits(bits)
	return bits
}

// EdgeCount returns the number of distinct fan-in edges.
func (g *Graph) EdgeCount() int { return g.edges }
