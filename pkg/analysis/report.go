package analysis

import (
	"github.com/mbertsch/ioflow/pkg/netlist"
)

// BitDesc describes one bit of a port wire in analysis output.
type BitDesc struct {
	Name   string `json:"name"`
	Offset int    `json:"offset"`
	Width  int    `json:"width"`
}

// Report is the structured result of analyzing one module.
//
// Inputs and Outputs list every primary-input and primary-output bit in
// port declaration order, offsets ascending. Dependencies maps each output
// bit's "name[offset]" label to the sorted input bits that influence it.
// For sequential modules Dependencies is nil and absent from the JSON form
// entirely, signalling "analysis skipped" as distinct from "no
// dependencies found".
type Report struct {
	Module       string               `json:"module"`
	IsSequential bool                 `json:"is_sequential"`
	Inputs       []BitDesc            `json:"inputs"`
	Outputs      []BitDesc            `json:"outputs"`
	Dependencies map[string][]BitDesc `json:"dependencies,omitempty"`
}

// Analyze runs the full two-phase analysis of one module: classify, then,
// only for combinational modules, build the fan-in graph and resolve
// every primary-output bit. The module is read-only to Analyze, and all
// intermediate state is discarded when it returns.
//
// Errors carry the structured codes of [pkg/errors]: WIDTH_MISMATCH and
// UNSUPPORTED_CELL/INVALID_CELL from graph construction, CYCLE_DETECTED
// from resolution.
func Analyze(m *netlist.Module, cfg Config) (*Report, error) {
	report := &Report{
		Module:  m.Name,
		Inputs:  describeBits(m, m.InputBits()),
		Outputs: describeBits(m, m.OutputBits()),
	}

	classifier := NewClassifier(cfg.SequentialMarkers)
	if cell, _ := classifier.FindStateful(m); cell != nil {
		report.IsSequential = true
		return report, nil
	}

	g, err := BuildGraph(m, cfg)
	if err != nil {
		return nil, err
	}

	resolver := NewResolver(m, g)
	report.Dependencies = make(map[string][]BitDesc, len(report.Outputs))
	for _, bit := range m.OutputBits() {
		deps, err := resolver.Resolve(bit)
		if err != nil {
			return nil, err
		}
		report.Dependencies[bit.Label()] = describeBits(m, deps)
	}

	return report, nil
}

// describeBits converts signal bits to port descriptors, preserving order.
// Bits whose wire is not declared are skipped.
func describeBits(m *netlist.Module, bits []netlist.SigBit) []BitDesc {
	descs := make([]BitDesc, 0, len(bits))
	for _, bit := range bits {
		w, ok := m.WireOf(bit)
		if !ok {
			continue
		}
		descs = append(descs, BitDesc{Name: w.Name, Offset: bit.Offset, Width: w.Width})
	}
	return descs
}
