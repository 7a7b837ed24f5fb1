package analysis

import (
	"strings"

	"github.com/mbertsch/ioflow/pkg/netlist"
)

// Classifier flags modules containing state-holding cells. It is a pure
// predicate over cell type strings and keeps no per-module state, so one
// Classifier may be shared across concurrent analyses.
type Classifier struct {
	markers []string
}

// NewClassifier creates a classifier with the given marker substrings.
// Passing nil or an empty slice yields a classifier that marks every
// module combinational.
func NewClassifier(markers []string) *Classifier {
	return &Classifier{markers: markers}
}

// FindStateful returns the first cell whose type name contains one of the
// configured markers, along with the marker that matched. Returns nil and
// the empty string when the module has no stateful cells.
//
// The scan follows cell declaration order, so the reported cell is stable
// for a given module.
func (c *Classifier) FindStateful(m *netlist.Module) (*netlist.Cell, string) {
	for i := range m.Cells {
		for _, marker := range c.markers {
			if strings.Contains(m.Cells[i].Type, marker) {
				return &m.Cells[i], marker
			}
		}
	}
	return nil, ""
}

// Sequential reports whether the module contains at least one cell flagged
// as state-holding.
func (c *Classifier) Sequential(m *netlist.Module) bool {
	cell, _ := c.FindStateful(m)
	return cell != nil
}
