// Package pkg provides the core libraries for ioflow netlist analysis.
//
// # Overview
//
// ioflow traces, for every output bit of a combinational module, the set
// of primary input bits it depends on. The pkg directory is organized as:
//
//  1. [netlist] - Data model and JSON loader for flattened gate-level designs
//  2. [analysis] - Classification, fan-in graph construction, dependency resolution
//  3. [pipeline] - Orchestration (load → classify → resolve → report) with caching
//  4. [cache] - Report cache backends (file, redis, mongo)
//  5. [render] - Fan-in graph export as Graphviz DOT/SVG
//
// # Architecture
//
// The typical data flow through ioflow:
//
//	Netlist JSON
//	         ↓
//	    [netlist] package (parse + validate design)
//	         ↓
//	    [analysis] package (classify, build fan-in graph, resolve)
//	         ↓
//	    [pipeline] package (per-module reports, cached by content)
//	         ↓
//	    JSON reports / DOT / SVG output
//
// Supporting packages: [errors] for structured error codes shared by the
// CLI and HTTP API, [observability] for optional instrumentation hooks,
// [backoff] for retrying transient backend failures, [io] for report
// serialization, and [buildinfo] for version stamping.
package pkg
