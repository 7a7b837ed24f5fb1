package analysis

import (
	"testing"

	"github.com/mbertsch/ioflow/pkg/netlist"
)

// Test module builders. Every helper fails the test on construction
// errors so scenario tests stay focused on analysis behavior.

func bit(wire string, offset int) netlist.SigBit {
	return netlist.SigBit{Wire: wire, Offset: offset}
}

func addInput(t *testing.T, m *netlist.Module, name string, width int) {
	t.Helper()
	if err := m.AddWire(netlist.Wire{Name: name, Width: width, Input: true}); err != nil {
		t.Fatalf("add input %s: %v", name, err)
	}
	if err := m.AddPort(name); err != nil {
		t.Fatalf("add port %s: %v", name, err)
	}
}

func addOutput(t *testing.T, m *netlist.Module, name string, width int) {
	t.Helper()
	if err := m.AddWire(netlist.Wire{Name: name, Width: width, Output: true}); err != nil {
		t.Fatalf("add output %s: %v", name, err)
	}
	if err := m.AddPort(name); err != nil {
		t.Fatalf("add port %s: %v", name, err)
	}
}

func addInternal(t *testing.T, m *netlist.Module, name string, width int) {
	t.Helper()
	if err := m.AddWire(netlist.Wire{Name: name, Width: width}); err != nil {
		t.Fatalf("add wire %s: %v", name, err)
	}
}

func addGate(t *testing.T, m *netlist.Module, name, typ string, conns map[string]netlist.SigBit) {
	t.Helper()
	if err := m.AddCell(netlist.Cell{Name: name, Type: typ, Conns: conns}); err != nil {
		t.Fatalf("add cell %s: %v", name, err)
	}
}

func connect(m *netlist.Module, dest, src []netlist.SigBit) {
	m.AddConn(netlist.Connection{Dest: dest, Src: src})
}

func wantBits(t *testing.T, got, want []netlist.SigBit) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
