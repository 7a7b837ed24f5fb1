package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/mbertsch/ioflow/pkg/analysis"
	"github.com/mbertsch/ioflow/pkg/cache"
	"github.com/mbertsch/ioflow/pkg/errors"
	"github.com/mbertsch/ioflow/pkg/netlist"
	"github.com/mbertsch/ioflow/pkg/observability"
)

// Runner executes analysis runs against a report cache.
// A Runner is safe for concurrent use; each Execute call owns its state.
type Runner struct {
	cache  cache.Cache
	logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching and a nil
// logger discards output.
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{cache: c, logger: logger}
}

// moduleOutcome carries one module's analysis out of the worker pool.
type moduleOutcome struct {
	index  int
	report *analysis.Report
	hit    bool
	err    error
}

// Execute analyzes every module of the design and returns one report per
// module, in design order.
//
// Modules are independent, so they are distributed over opts.Workers
// goroutines; within one module, resolution is sequential and memoized.
// The first module error (lowest design index, for determinism) aborts
// the run. Cancellation is honored between modules: a module's own
// resolution is bounded by its finite bit count and is not interrupted.
func (r *Runner) Execute(ctx context.Context, design *netlist.Design, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if design == nil || len(design.Modules) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "design has no modules")
	}

	result := &Result{
		RunID:   uuid.NewString(),
		Reports: make([]*analysis.Report, len(design.Modules)),
	}
	start := time.Now()
	observability.Analysis().OnDesignStart(ctx, result.RunID, len(design.Modules))

	configHash := opts.Config.Fingerprint()

	jobs := make(chan int)
	outcomes := make(chan moduleOutcome)

	var wg sync.WaitGroup
	for range opts.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				report, hit, err := r.analyzeModule(ctx, design.Modules[i], configHash, opts)
				outcomes <- moduleOutcome{index: i, report: report, hit: hit, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range design.Modules {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	var firstErr error
	firstErrIndex := len(design.Modules)
	for out := range outcomes {
		if out.err != nil {
			if out.index < firstErrIndex {
				firstErr, firstErrIndex = out.err, out.index
			}
			continue
		}
		result.Reports[out.index] = out.report
		if out.hit {
			result.Stats.CacheHits++
		}
	}

	if firstErr == nil {
		firstErr = ctx.Err()
	}
	result.Stats.Elapsed = time.Since(start)
	observability.Analysis().OnDesignComplete(ctx, result.RunID, result.Stats.Elapsed, firstErr)
	if firstErr != nil {
		return nil, firstErr
	}

	for _, report := range result.Reports {
		result.Stats.Modules++
		if report.IsSequential {
			result.Stats.Sequential++
		} else {
			result.Stats.Combinational++
		}
	}

	return result, nil
}

// analyzeModule analyzes one module, consulting the report cache first.
func (r *Runner) analyzeModule(ctx context.Context, m *netlist.Module, configHash string, opts Options) (*analysis.Report, bool, error) {
	key := cache.ReportKey(m.Fingerprint(), configHash)

	if !opts.NoCache {
		if data, hit, err := r.cache.Get(ctx, key); err == nil && hit {
			var report analysis.Report
			if err := json.Unmarshal(data, &report); err == nil {
				observability.Cache().OnCacheHit(ctx, "report")
				r.logger.Debugf("Module %s: report served from cache", m.Name)
				return &report, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "report")
	}

	observability.Analysis().OnModuleStart(ctx, m.Name)
	start := time.Now()
	report, err := analysis.Analyze(m, opts.Config)
	elapsed := time.Since(start)
	sequential := err == nil && report.IsSequential
	observability.Analysis().OnModuleComplete(ctx, m.Name, sequential, elapsed, err)
	if err != nil {
		return nil, false, err
	}

	if sequential {
		r.logger.Debugf("Module %s: sequential, analysis skipped", m.Name)
	} else {
		r.logger.Debugf("Module %s: resolved %d output bits (%s)",
			m.Name, len(report.Outputs), elapsed.Round(time.Microsecond))
	}

	if !opts.NoCache {
		if data, err := json.Marshal(report); err == nil {
			if err := r.cache.Set(ctx, key, data, opts.CacheTTL); err == nil {
				observability.Cache().OnCacheSet(ctx, "report", len(data))
			}
		}
	}

	return report, false, nil
}
