package netlist

import (
	"strings"
	"testing"
)

func buildFingerprintModule(t *testing.T) *Module {
	t.Helper()
	m := NewModule("m")
	for _, w := range []Wire{
		{Name: "A", Width: 1, Input: true},
		{Name: "Y", Width: 1, Output: true},
	} {
		if err := m.AddWire(w); err != nil {
			t.Fatal(err)
		}
	}
	for _, p := range []string{"A", "Y"} {
		if err := m.AddPort(p); err != nil {
			t.Fatal(err)
		}
	}
	if err := m.AddCell(Cell{Name: "g", Type: "$_NOT_", Conns: map[string]SigBit{
		"A": {Wire: "A"}, "Y": {Wire: "Y"},
	}}); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestFingerprintStable(t *testing.T) {
	a := buildFingerprintModule(t)
	b := buildFingerprintModule(t)

	fa, fb := a.Fingerprint(), b.Fingerprint()
	if fa != fb {
		t.Errorf("identical modules fingerprint differently: %s vs %s", fa, fb)
	}
	if len(fa) != 64 {
		t.Errorf("fingerprint length = %d, want 64 hex chars", len(fa))
	}
	if strings.ToLower(fa) != fa {
		t.Errorf("fingerprint should be lowercase hex: %s", fa)
	}
}

func TestFingerprintSensitivity(t *testing.T) {
	base := buildFingerprintModule(t).Fingerprint()

	// Changed cell type
	m := buildFingerprintModule(t)
	m.Cells[0].Type = "$_AND_"
	if m.Fingerprint() == base {
		t.Error("cell type change should change the fingerprint")
	}

	// Added connection
	m = buildFingerprintModule(t)
	m.AddConn(Connection{Dest: []SigBit{{Wire: "Y"}}, Src: []SigBit{{Wire: "A"}}})
	if m.Fingerprint() == base {
		t.Error("added connection should change the fingerprint")
	}

	// Changed port direction
	m = buildFingerprintModule(t)
	w, _ := m.Wire("A")
	w.Output = true
	if m.Fingerprint() == base {
		t.Error("direction change should change the fingerprint")
	}
}
