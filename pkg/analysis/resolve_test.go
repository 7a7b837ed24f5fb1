package analysis

import (
	"fmt"
	"testing"

	"github.com/mbertsch/ioflow/pkg/errors"
	"github.com/mbertsch/ioflow/pkg/netlist"
)

func mustGraph(t *testing.T, m *netlist.Module) *Graph {
	t.Helper()
	g, err := BuildGraph(m, DefaultConfig())
	if err != nil {
		t.Fatalf("BuildGraph: %v", err)
	}
	return g
}

func TestResolveDirectWiring(t *testing.T) {
	// Y is a plain alias of A.
	m := netlist.NewModule("m")
	addInput(t, m, "A", 1)
	addOutput(t, m, "Y", 1)
	connect(m, []netlist.SigBit{bit("Y", 0)}, []netlist.SigBit{bit("A", 0)})

	r := NewResolver(m, mustGraph(t, m))
	deps, err := r.Resolve(bit("Y", 0))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	wantBits(t, deps, []netlist.SigBit{bit("A", 0)})
}

func TestResolveGateChain(t *testing.T) {
	// t0 = AND(A, B); Y = NOT(t0). Y depends on both inputs.
	m := netlist.NewModule("m")
	addInput(t, m, "A", 1)
	addInput(t, m, "B", 1)
	addOutput(t, m, "Y", 1)
	addInternal(t, m, "t0", 1)
	addGate(t, m, "g1", "$_AND_", map[string]netlist.SigBit{
		"A": bit("A", 0), "B": bit("B", 0), "Y": bit("t0", 0),
	})
	addGate(t, m, "g2", "$_NOT_", map[string]netlist.SigBit{
		"A": bit("t0", 0), "Y": bit("Y", 0),
	})

	r := NewResolver(m, mustGraph(t, m))
	deps, err := r.Resolve(bit("Y", 0))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	wantBits(t, deps, []netlist.SigBit{bit("A", 0), bit("B", 0)})
}

func TestResolveMuxAllOperandsContribute(t *testing.T) {
	// Y = MUX(A, B, S): data inputs and the select all influence Y.
	m := netlist.NewModule("m")
	addInput(t, m, "A", 1)
	addInput(t, m, "B", 1)
	addInput(t, m, "S", 1)
	addOutput(t, m, "Y", 1)
	addGate(t, m, "mux", "$_MUX_", map[string]netlist.SigBit{
		"A": bit("A", 0), "B": bit("B", 0), "S": bit("S", 0), "Y": bit("Y", 0),
	})

	r := NewResolver(m, mustGraph(t, m))
	deps, err := r.Resolve(bit("Y", 0))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	wantBits(t, deps, []netlist.SigBit{bit("A", 0), bit("B", 0), bit("S", 0)})
}

func TestResolvePerBitIndependence(t *testing.T) {
	// OUT[i] = NOT(DATA[i]) for a 4-bit bus: no cross-bit leakage.
	m := netlist.NewModule("m")
	addInput(t, m, "DATA", 4)
	addOutput(t, m, "OUT", 4)
	for i := range 4 {
		addGate(t, m, fmt.Sprintf("inv%d", i), "$_NOT_", map[string]netlist.SigBit{
			"A": bit("DATA", i), "Y": bit("OUT", i),
		})
	}

	r := NewResolver(m, mustGraph(t, m))
	for i := range 4 {
		deps, err := r.Resolve(bit("OUT", i))
		if err != nil {
			t.Fatalf("Resolve OUT[%d]: %v", i, err)
		}
		wantBits(t, deps, []netlist.SigBit{bit("DATA", i)})
	}
}

func TestResolveInputIdentity(t *testing.T) {
	// A primary-input bit resolves to exactly itself, even when the
	// fan-in graph records a driver for it.
	m := netlist.NewModule("m")
	addInput(t, m, "A", 1)
	addInput(t, m, "B", 1)
	connect(m, []netlist.SigBit{bit("A", 0)}, []netlist.SigBit{bit("B", 0)})

	r := NewResolver(m, mustGraph(t, m))
	deps, err := r.Resolve(bit("A", 0))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	wantBits(t, deps, []netlist.SigBit{bit("A", 0)})
}

func TestResolveConstantBit(t *testing.T) {
	m := netlist.NewModule("m")
	r := NewResolver(m, mustGraph(t, m))
	deps, err := r.Resolve(netlist.ConstBit())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(deps) != 0 {
		t.Errorf("constant bit deps = %v, want empty", deps)
	}
}

func TestResolveUndrivenBit(t *testing.T) {
	// An internal bit with no recorded drivers depends on nothing.
	m := netlist.NewModule("m")
	addInternal(t, m, "t0", 1)

	r := NewResolver(m, mustGraph(t, m))
	deps, err := r.Resolve(bit("t0", 0))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(deps) != 0 {
		t.Errorf("undriven bit deps = %v, want empty", deps)
	}
}

func TestResolveUnionOfDrivers(t *testing.T) {
	// Y has two direct drivers; its set is the union of theirs.
	m := netlist.NewModule("m")
	addInput(t, m, "A", 1)
	addInput(t, m, "B", 1)
	addOutput(t, m, "Y", 1)
	connect(m, []netlist.SigBit{bit("Y", 0)}, []netlist.SigBit{bit("A", 0)})
	connect(m, []netlist.SigBit{bit("Y", 0)}, []netlist.SigBit{bit("B", 0)})

	r := NewResolver(m, mustGraph(t, m))
	deps, err := r.Resolve(bit("Y", 0))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	wantBits(t, deps, []netlist.SigBit{bit("A", 0), bit("B", 0)})
}

func TestResolveIdempotent(t *testing.T) {
	// Resolving the same bit twice through one resolver returns the same
	// set; the memo table must not be corrupted by reads.
	m := netlist.NewModule("m")
	addInput(t, m, "A", 1)
	addOutput(t, m, "Y", 1)
	addInternal(t, m, "t0", 1)
	addGate(t, m, "g1", "$_NOT_", map[string]netlist.SigBit{"A": bit("A", 0), "Y": bit("t0", 0)})
	addGate(t, m, "g2", "$_NOT_", map[string]netlist.SigBit{"A": bit("t0", 0), "Y": bit("Y", 0)})

	r := NewResolver(m, mustGraph(t, m))
	first, err := r.Resolve(bit("Y", 0))
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Resolve(bit("Y", 0))
	if err != nil {
		t.Fatal(err)
	}
	wantBits(t, second, first)
}

func TestResolveSharedSubexpression(t *testing.T) {
	// Two outputs share a sub-expression; both resolve correctly through
	// the shared memo entry.
	m := netlist.NewModule("m")
	addInput(t, m, "A", 1)
	addInput(t, m, "B", 1)
	addOutput(t, m, "Y0", 1)
	addOutput(t, m, "Y1", 1)
	addInternal(t, m, "t0", 1)
	addGate(t, m, "g1", "$_XOR_", map[string]netlist.SigBit{
		"A": bit("A", 0), "B": bit("B", 0), "Y": bit("t0", 0),
	})
	addGate(t, m, "g2", "$_NOT_", map[string]netlist.SigBit{"A": bit("t0", 0), "Y": bit("Y0", 0)})
	addGate(t, m, "g3", "$_NOT_", map[string]netlist.SigBit{"A": bit("t0", 0), "Y": bit("Y1", 0)})

	r := NewResolver(m, mustGraph(t, m))
	for _, out := range []netlist.SigBit{bit("Y0", 0), bit("Y1", 0)} {
		deps, err := r.Resolve(out)
		if err != nil {
			t.Fatalf("Resolve %v: %v", out, err)
		}
		wantBits(t, deps, []netlist.SigBit{bit("A", 0), bit("B", 0)})
	}
}

func TestResolveCycleDetected(t *testing.T) {
	// Two inverters feeding each other: resolution must fail, not hang.
	m := netlist.NewModule("ring")
	addOutput(t, m, "Y", 1)
	addInternal(t, m, "t0", 1)
	addGate(t, m, "g1", "$_NOT_", map[string]netlist.SigBit{"A": bit("Y", 0), "Y": bit("t0", 0)})
	addGate(t, m, "g2", "$_NOT_", map[string]netlist.SigBit{"A": bit("t0", 0), "Y": bit("Y", 0)})

	r := NewResolver(m, mustGraph(t, m))
	_, err := r.Resolve(bit("Y", 0))
	if !errors.Is(err, errors.ErrCodeCycleDetected) {
		t.Errorf("error code = %v, want CYCLE_DETECTED", errors.GetCode(err))
	}
}

func TestResolveSelfLoop(t *testing.T) {
	m := netlist.NewModule("m")
	addOutput(t, m, "Y", 1)
	connect(m, []netlist.SigBit{bit("Y", 0)}, []netlist.SigBit{bit("Y", 0)})

	r := NewResolver(m, mustGraph(t, m))
	_, err := r.Resolve(bit("Y", 0))
	if !errors.Is(err, errors.ErrCodeCycleDetected) {
		t.Errorf("error code = %v, want CYCLE_DETECTED", errors.GetCode(err))
	}
}

func TestResolveDiamondIsNotACycle(t *testing.T) {
	// A diamond (A feeds two paths that reconverge) is acyclic and must
	// not trip the cycle guard.
	m := netlist.NewModule("m")
	addInput(t, m, "A", 1)
	addOutput(t, m, "Y", 1)
	addInternal(t, m, "l", 1)
	addInternal(t, m, "r", 1)
	addGate(t, m, "g1", "$_NOT_", map[string]netlist.SigBit{"A": bit("A", 0), "Y": bit("l", 0)})
	addGate(t, m, "g2", "$_NOT_", map[string]netlist.SigBit{"A": bit("A", 0), "Y": bit("r", 0)})
	addGate(t, m, "g3", "$_AND_", map[string]netlist.SigBit{
		"A": bit("l", 0), "B": bit("r", 0), "Y": bit("Y", 0),
	})

	r := NewResolver(m, mustGraph(t, m))
	deps, err := r.Resolve(bit("Y", 0))
	if err != nil {
		t.Fatalf("diamond should resolve: %v", err)
	}
	wantBits(t, deps, []netlist.SigBit{bit("A", 0)})
}
