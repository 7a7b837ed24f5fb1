package netlist

import "testing"

func TestSigBitLabel(t *testing.T) {
	tests := []struct {
		name string
		bit  SigBit
		want string
	}{
		{"wire bit", SigBit{Wire: "data", Offset: 3}, "data[3]"},
		{"offset zero", SigBit{Wire: "clk", Offset: 0}, "clk[0]"},
		{"constant", ConstBit(), "<const>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.bit.Label(); got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConstBit(t *testing.T) {
	c := ConstBit()
	if c.IsWire() {
		t.Error("ConstBit should not be a wire bit")
	}
	if w := (SigBit{Wire: "a"}); !w.IsWire() {
		t.Error("named bit should be a wire bit")
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b SigBit
		want int
	}{
		{"equal", SigBit{Wire: "a", Offset: 1}, SigBit{Wire: "a", Offset: 1}, 0},
		{"wire order", SigBit{Wire: "a"}, SigBit{Wire: "b"}, -1},
		{"offset order", SigBit{Wire: "a", Offset: 0}, SigBit{Wire: "a", Offset: 2}, -1},
		{"const before wires", ConstBit(), SigBit{Wire: "a"}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compare(tt.a, tt.b)
			if (got < 0) != (tt.want < 0) || (got == 0) != (tt.want == 0) {
				t.Errorf("Compare(%v, %v) = %d, want sign of %d", tt.a, tt.b, got, tt.want)
			}
			if rev := Compare(tt.b, tt.a); (rev < 0) != (tt.want > 0) {
				t.Errorf("Compare is not antisymmetric for %v, %v", tt.a, tt.b)
			}
		})
	}
}

func TestSortBits(t *testing.T) {
	bits := []SigBit{
		{Wire: "b", Offset: 0},
		{Wire: "a", Offset: 2},
		{Wire: "a", Offset: 0},
	}
	SortBits(bits)

	want := []SigBit{
		{Wire: "a", Offset: 0},
		{Wire: "a", Offset: 2},
		{Wire: "b", Offset: 0},
	}
	for i := range want {
		if bits[i] != want[i] {
			t.Fatalf("SortBits[%d] = %v, want %v", i, bits[i], want[i])
		}
	}
}
