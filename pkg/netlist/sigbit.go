package netlist

import (
	"cmp"
	"fmt"
	"slices"
)

// SigBit identifies one bit of one named wire within a module.
// The zero value (empty wire name) is the constant/disconnected variant:
// a bit that carries a fixed value or nothing at all and therefore has no
// wire behind it.
//
// SigBit is an immutable value type. Two SigBits are equal iff they name
// the same wire and offset, which makes SigBit usable as a map key.
type SigBit struct {
	Wire   string // wire name, empty for constant/disconnected bits
	Offset int    // bit position within the wire, 0-based
}

// ConstBit returns the constant/disconnected SigBit.
func ConstBit() SigBit { return SigBit{} }

// IsWire reports whether the bit belongs to a named wire.
// Constant and disconnected bits return false.
func (s SigBit) IsWire() bool { return s.Wire != "" }

// Label returns the canonical "name[offset]" form used as a key in
// analysis reports. Constant bits render as "<const>".
func (s SigBit) Label() string {
	if !s.IsWire() {
		return "<const>"
	}
	return fmt.Sprintf("%s[%d]", s.Wire, s.Offset)
}

// String implements fmt.Stringer.
func (s SigBit) String() string { return s.Label() }

// Compare orders SigBits lexicographically by wire name, then by offset.
// Constant bits (empty name) sort first. The total order makes set output
// deterministic regardless of map iteration order.
func Compare(a, b SigBit) int {
	if c := cmp.Compare(a.Wire, b.Wire); c != 0 {
		return c
	}
	return cmp.Compare(a.Offset, b.Offset)
}

// SortBits sorts a slice of SigBits in place using [Compare].
func SortBits(bits []SigBit) {
	slices.SortFunc(bits, Compare)
}
