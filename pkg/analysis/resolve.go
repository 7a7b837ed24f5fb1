package analysis

import (
	"maps"
	"slices"

	"github.com/mbertsch/ioflow/pkg/errors"
	"github.com/mbertsch/ioflow/pkg/netlist"
)

// Resolver computes the set of primary-input bits transitively reachable
// backward from any signal bit of one module. Results are memoized per
// bit, so shared sub-expressions are expanded at most once regardless of
// how many output bits are queried through the same Resolver.
//
// A Resolver is bound to one module and one fan-in graph and is not safe
// for concurrent use; analyses of independent modules each get their own.
type Resolver struct {
	mod  *netlist.Module
	g    *Graph
	memo map[netlist.SigBit]map[netlist.SigBit]struct{}
	busy map[netlist.SigBit]struct{}
}

// NewResolver creates a resolver over the module's fan-in graph with an
// empty memo table.
func NewResolver(mod *netlist.Module, g *Graph) *Resolver {
	return &Resolver{
		mod:  mod,
		g:    g,
		memo: make(map[netlist.SigBit]map[netlist.SigBit]struct{}),
		busy: make(map[netlist.SigBit]struct{}),
	}
}

// Resolve returns the sorted primary-input dependency set of a bit:
//
//  1. Constant or undeclared bits depend on nothing.
//  2. A primary-input bit depends on exactly itself, even if the fan-in
//     graph records drivers for it; input-ness takes precedence.
//  3. Any other bit depends on the union of its direct drivers' sets; a
//     bit with no recorded drivers depends on nothing.
//
// The fan-in graph of a combinational module is required to be acyclic.
// Resolve guards that precondition instead of trusting it: a bit
// re-entered while its own expansion is still in progress fails with a
// CYCLE_DETECTED error rather than recursing forever.
func (r *Resolver) Resolve(bit netlist.SigBit) ([]netlist.SigBit, error) {
	set, err := r.resolve(bit)
	if err != nil {
		return nil, err
	}
	bits := slices.Collect(maps.Keys(set))
	netlist.SortBits(bits)
	return bits, nil
}

func (r *Resolver) resolve(bit netlist.SigBit) (map[netlist.SigBit]struct{}, error) {
	if deps, ok := r.memo[bit]; ok {
		return deps, nil
	}

	deps := make(map[netlist.SigBit]struct{})

	wire, ok := r.mod.WireOf(bit)
	if !ok {
		r.memo[bit] = deps
		return deps, nil
	}

	if wire.Input {
		deps[bit] = struct{}{}
		r.memo[bit] = deps
		return deps, nil
	}

	if _, inProgress := r.busy[bit]; inProgress {
		return nil, errors.New(errors.ErrCodeCycleDetected,
			"module %s: combinational cycle through %s", r.mod.Name, bit.Label())
	}
	r.busy[bit] = struct{}{}
	defer delete(r.busy, bit)

	for _, driver := range r.g.Drivers(bit) {
		sub, err := r.resolve(driver)
		if err != nil {
			return nil, err
		}
		for dep := range sub {
			deps[dep] = struct{}{}
		}
	}

	r.memo[bit] = deps
	return deps, nil
}
