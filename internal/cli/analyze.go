package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mbertsch/ioflow/pkg/errors"
	pkgio "github.com/mbertsch/ioflow/pkg/io"
	"github.com/mbertsch/ioflow/pkg/netlist"
	"github.com/mbertsch/ioflow/pkg/pipeline"
)

// analyzeOpts holds the command-line flags for the analyze command.
type analyzeOpts struct {
	output  string // output file path (stdout if empty)
	module  string // restrict analysis to one module
	workers int    // concurrent module analyses
	noCache bool   // bypass report cache
	summary bool   // print a per-module summary table instead of JSON
}

// analyzeCommand creates the analyze command.
func (c *CLI) analyzeCommand() *cobra.Command {
	var opts analyzeOpts

	cmd := &cobra.Command{
		Use:   "analyze <netlist.json>",
		Short: "Resolve input-output dependencies for every module",
		Long: `Analyze a flattened gate-level netlist and report, for every output bit
of every combinational module, the set of input bits it depends on.
Modules containing sequential elements are classified and reported
without dependency resolution.

Examples:
  ioflow analyze design.json                   # JSON reports to stdout
  ioflow analyze design.json -o reports.json   # JSON reports to file
  ioflow analyze design.json --summary         # per-module table
  ioflow analyze design.json --module alu      # single module`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnalyze(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&opts.module, "module", "m", "", "analyze only the named module")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "concurrent module analyses (0 = default)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the report cache")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "print a summary table instead of JSON")

	return cmd
}

func (c *CLI) runAnalyze(cmd *cobra.Command, path string, opts analyzeOpts) error {
	ctx := cmd.Context()

	design, err := netlist.ImportJSON(path)
	if err != nil {
		return err
	}
	c.Logger.Debugf("Loaded %d modules from %s", len(design.Modules), path)

	if opts.module != "" {
		m, ok := design.Module(opts.module)
		if !ok {
			return errors.New(errors.ErrCodeModuleNotFound, "module %q not found in %s", opts.module, path)
		}
		design = &netlist.Design{Modules: []*netlist.Module{m}}
	}

	cfg, err := c.config()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, design, pipeline.Options{
		Workers:  opts.workers,
		NoCache:  opts.noCache,
		CacheTTL: cfg.TTL(),
		Config:   cfg.AnalysisConfig(),
		Logger:   c.Logger,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Analyzed %d modules", result.Stats.Modules))

	if opts.summary {
		fmt.Println(renderSummaryTable(result.Reports))
		printRunStats(result.Stats)
		return nil
	}

	if opts.output != "" {
		if err := pkgio.ExportReports(result.Reports, opts.output); err != nil {
			return err
		}
		printSuccess("Wrote %d reports", len(result.Reports))
		printFile(opts.output)
		printRunStats(result.Stats)
		return nil
	}

	return pkgio.WriteReports(os.Stdout, result.Reports)
}
