// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register
// hooks at startup to receive events about module analysis and cache
// operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This avoids import cycles (hooks are registered by main, not by
// libraries) and keeps the core library free of observability framework
// dependencies.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetAnalysisHooks(&myAnalysisHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Analysis().OnModuleStart(ctx, module)
//	// ... analyze ...
//	observability.Analysis().OnModuleComplete(ctx, module, sequential, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Analysis Hooks
// =============================================================================

// AnalysisHooks receives events from the analysis pipeline.
type AnalysisHooks interface {
	// OnDesignStart records the start of a design run.
	OnDesignStart(ctx context.Context, runID string, moduleCount int)

	// OnDesignComplete records the end of a design run.
	OnDesignComplete(ctx context.Context, runID string, duration time.Duration, err error)

	// OnModuleStart records the start of one module's analysis.
	OnModuleStart(ctx context.Context, module string)

	// OnModuleComplete records the end of one module's analysis.
	OnModuleComplete(ctx context.Context, module string, sequential bool, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopAnalysisHooks is a no-op implementation of AnalysisHooks.
type NoopAnalysisHooks struct{}

func (NoopAnalysisHooks) OnDesignStart(context.Context, string, int)                      {}
func (NoopAnalysisHooks) OnDesignComplete(context.Context, string, time.Duration, error)  {}
func (NoopAnalysisHooks) OnModuleStart(context.Context, string)                           {}
func (NoopAnalysisHooks) OnModuleComplete(context.Context, string, bool, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	analysisHooks AnalysisHooks = NoopAnalysisHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	hooksMu       sync.RWMutex
)

// SetAnalysisHooks registers custom analysis hooks.
// This should be called once at application startup before any analysis runs.
func SetAnalysisHooks(h AnalysisHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		analysisHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Analysis returns the registered analysis hooks.
func Analysis() AnalysisHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return analysisHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	analysisHooks = NoopAnalysisHooks{}
	cacheHooks = NoopCacheHooks{}
}
