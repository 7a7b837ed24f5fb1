// Package render converts a module's bit-level fan-in graph to Graphviz
// DOT and renders it to SVG. This is a diagnostic surface: the graph shows
// exactly the edges the dependency resolver walks, which makes unexpected
// analysis results inspectable.
package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/mbertsch/ioflow/pkg/analysis"
	"github.com/mbertsch/ioflow/pkg/netlist"
)

// Options configures fan-in graph rendering.
type Options struct {
	// Detailed includes wire widths in node labels.
	// When false, only the "name[offset]" label is shown.
	Detailed bool
}

// ToDOT converts a module's fan-in graph to Graphviz DOT format.
// Primary-input bits are drawn as green ellipses, primary-output bits as
// blue boxes, constant bits as grey diamonds, and internal bits as plain
// boxes. Edges point from driver to driven bit.
func ToDOT(m *netlist.Module, g *analysis.Graph, opts Options) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", m.Name)
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=filled, fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	for _, bit := range g.Bits() {
		label := fmtLabel(m, bit, opts.Detailed)
		attrs := fmtAttrs(m, bit, label)
		fmt.Fprintf(&buf, "  %q [%s];\n", bit.Label(), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, dest := range g.Bits() {
		for _, src := range g.Drivers(dest) {
			fmt.Fprintf(&buf, "  %q -> %q;\n", src.Label(), dest.Label())
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(m *netlist.Module, bit netlist.SigBit, detailed bool) string {
	if !detailed {
		return bit.Label()
	}
	w, ok := m.WireOf(bit)
	if !ok {
		return bit.Label()
	}
	return fmt.Sprintf("%s\nwidth: %d", bit.Label(), w.Width)
}

func fmtAttrs(m *netlist.Module, bit netlist.SigBit, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	w, ok := m.WireOf(bit)
	switch {
	case !ok:
		attrs = append(attrs, "shape=diamond", "fillcolor=lightgrey")
	case w.Input && w.Output:
		attrs = append(attrs, "shape=ellipse", "fillcolor=lightyellow")
	case w.Input:
		attrs = append(attrs, "shape=ellipse", "fillcolor=palegreen")
	case w.Output:
		attrs = append(attrs, "fillcolor=lightblue")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
