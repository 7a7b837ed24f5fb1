package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mbertsch/ioflow/pkg/analysis"
	"github.com/mbertsch/ioflow/pkg/errors"
	"github.com/mbertsch/ioflow/pkg/netlist"
	"github.com/mbertsch/ioflow/pkg/render"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	output   string // output file path (stdout if empty, DOT only)
	format   string // "dot" or "svg"
	detailed bool   // include wire widths in node labels
}

// graphCommand creates the graph export command.
func (c *CLI) graphCommand() *cobra.Command {
	var opts graphOpts

	cmd := &cobra.Command{
		Use:   "graph <netlist.json> <module>",
		Short: "Export a module's bit-level fan-in graph",
		Long: `Export the fan-in graph the dependency resolver walks for one module,
as Graphviz DOT or rendered SVG.

Examples:
  ioflow graph design.json alu                      # DOT to stdout
  ioflow graph design.json alu -o alu.dot           # DOT to file
  ioflow graph design.json alu --format svg -o alu.svg`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "dot", "output format: dot or svg")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include wire widths in node labels")

	return cmd
}

func (c *CLI) runGraph(path, module string, opts graphOpts) error {
	format := strings.ToLower(opts.format)
	if format != "dot" && format != "svg" {
		return errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want dot or svg)", opts.format)
	}
	if format == "svg" && opts.output == "" {
		return errors.New(errors.ErrCodeInvalidInput, "svg output requires --output")
	}

	design, err := netlist.ImportJSON(path)
	if err != nil {
		return err
	}
	m, ok := design.Module(module)
	if !ok {
		return errors.New(errors.ErrCodeModuleNotFound, "module %q not found in %s", module, path)
	}

	cfg, err := c.config()
	if err != nil {
		return err
	}
	g, err := analysis.BuildGraph(m, cfg.AnalysisConfig())
	if err != nil {
		return err
	}
	c.Logger.Debugf("Module %s: fan-in graph has %d bits, %d edges",
		m.Name, len(g.Bits()), g.EdgeCount())

	dot := render.ToDOT(m, g, render.Options{Detailed: opts.detailed})

	if format == "dot" {
		if opts.output == "" {
			fmt.Print(dot)
			return nil
		}
		if err := os.WriteFile(opts.output, []byte(dot), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", opts.output, err)
		}
		printSuccess("Exported fan-in graph for %s", m.Name)
		printFile(opts.output)
		return nil
	}

	sp := newSpinner(fmt.Sprintf("Rendering %s", m.Name))
	sp.Start()
	svg, err := render.RenderSVG(dot)
	if err != nil {
		sp.StopWithError(fmt.Sprintf("Render failed: %v", err))
		return err
	}
	if err := os.WriteFile(opts.output, svg, 0o644); err != nil {
		sp.Stop()
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	sp.StopWithSuccess(fmt.Sprintf("Rendered fan-in graph for %s", m.Name))
	printFile(opts.output)
	return nil
}
