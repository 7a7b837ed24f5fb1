// Package pipeline provides the analysis pipeline for ioflow.
//
// This package implements the complete classify → build → resolve flow
// over a loaded netlist design, shared by the CLI and the HTTP API so all
// entry points behave identically.
//
// # Architecture
//
// A design run has two levels:
//
//  1. Per design: modules are distributed over a bounded worker pool.
//     Modules are analyzed independently (each gets its own fan-in graph
//     and memo table), so the run is embarrassingly parallel at module
//     granularity.
//  2. Per module: classification first; combinational modules then get a
//     fan-in graph and a memoized dependency resolution of every output
//     bit. This level is strictly sequential.
//
// Reports are cached by (module fingerprint, config fingerprint), so
// re-analyzing an unchanged design is a cache read per module.
//
// # Usage
//
//	runner := pipeline.NewRunner(fileCache, logger)
//	result, err := runner.Execute(ctx, design, pipeline.Options{Workers: 8})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, report := range result.Reports {
//	    // ...
//	}
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mbertsch/ioflow/pkg/analysis"
	"github.com/mbertsch/ioflow/pkg/errors"
)

const (
	// DefaultWorkers is the default number of concurrent module analyses.
	// Module graphs are small relative to I/O, so a modest pool suffices.
	DefaultWorkers = 4

	// MaxWorkers bounds the worker pool to keep goroutine fanout sane for
	// API callers that pass user-supplied options.
	MaxWorkers = 64

	// DefaultCacheTTL is how long cached reports stay valid. Reports are
	// content-addressed, so the TTL only bounds cache growth.
	DefaultCacheTTL = 30 * 24 * time.Hour
)

// Options contains all configuration for one analysis run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Workers is the number of modules analyzed concurrently.
	Workers int `json:"workers,omitempty"`

	// NoCache bypasses report caching entirely.
	NoCache bool `json:"no_cache,omitempty"`

	// CacheTTL overrides the default report lifetime.
	CacheTTL time.Duration `json:"cache_ttl,omitempty"`

	// Config is the analysis policy (markers, primitives, annotations).
	// Zero-valued fields fall back to analysis.DefaultConfig.
	Config analysis.Config `json:"config,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks fields and applies defaults.
// This method is idempotent - calling it multiple times has the same
// effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "workers must be non-negative")
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers
	}
	if o.Workers > MaxWorkers {
		o.Workers = MaxWorkers
	}
	if o.CacheTTL == 0 {
		o.CacheTTL = DefaultCacheTTL
	}

	def := analysis.DefaultConfig()
	if o.Config.SequentialMarkers == nil {
		o.Config.SequentialMarkers = def.SequentialMarkers
	}
	if o.Config.Primitives == nil {
		o.Config.Primitives = def.Primitives
	}
	if o.Config.Annotations == nil {
		o.Config.Annotations = def.Annotations
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// Result contains the outputs of one analysis run.
type Result struct {
	// RunID uniquely identifies this run for logs and API responses.
	RunID string `json:"run_id"`

	// Reports holds one report per module, in design order.
	Reports []*analysis.Report `json:"reports"`

	// Stats contains timing and cache information.
	Stats Stats `json:"stats"`
}

// Stats contains run statistics.
type Stats struct {
	Modules       int           `json:"modules"`
	Sequential    int           `json:"sequential"`
	Combinational int           `json:"combinational"`
	CacheHits     int           `json:"cache_hits"`
	Elapsed       time.Duration `json:"elapsed"`
}
