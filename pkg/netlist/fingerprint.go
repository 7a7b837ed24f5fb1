package netlist

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Fingerprint returns a SHA-256 content hash of the module, stable across
// loads of the same design. Wires are hashed in name order; ports,
// connections, and cells in declaration order; cell roles in role order.
// The hash is used as a cache key component, so any structural change to
// the module must change the fingerprint.
func (m *Module) Fingerprint() string {
	var b strings.Builder

	fmt.Fprintf(&b, "module %s\n", m.Name)
	for _, w := range m.Wires() {
		fmt.Fprintf(&b, "wire %s %d %t %t\n", w.Name, w.Width, w.Input, w.Output)
	}
	for _, p := range m.Ports {
		fmt.Fprintf(&b, "port %s\n", p)
	}
	for _, c := range m.Conns {
		b.WriteString("conn")
		for _, bit := range c.Dest {
			fmt.Fprintf(&b, " %s", bit.Label())
		}
		b.WriteString(" <=")
		for _, bit := range c.Src {
			fmt.Fprintf(&b, " %s", bit.Label())
		}
		b.WriteByte('\n')
	}
	for _, c := range m.Cells {
		fmt.Fprintf(&b, "cell %s %s", c.Name, c.Type)
		for _, role := range slices.Sorted(maps.Keys(c.Conns)) {
			fmt.Fprintf(&b, " %s=%s", role, c.Conns[role].Label())
		}
		b.WriteByte('\n')
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
