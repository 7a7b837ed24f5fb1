// Package analysis computes, for every primary-output bit of a
// combinational module, the exact set of primary-input bits that
// transitively influence it.
//
// The analysis runs in two phases. A [Classifier] first decides whether a
// module contains state-holding cells; sequential modules are skipped
// because their fan-in graph may contain cycles through state. For
// combinational modules, [BuildGraph] constructs a bit-level fan-in map
// from direct connections and primitive gate cells, and a [Resolver]
// memoizes the backward reachability closure from each output bit down to
// the primary inputs.
//
// All per-module state (fan-in map, memo table) is created by [Analyze]
// and discarded with the returned [Report]; modules are never mutated, so
// independent modules can be analyzed concurrently.
package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Gate describes the role contract of one recognized primitive: the tagged
// input roles it requires and the single output role it drives. Every role
// carries exactly one bit.
type Gate struct {
	Inputs []string // required input roles, e.g. ["A", "B", "S"]
	Output string   // output role, e.g. "Y"
}

// Config carries the analysis policy knobs. The zero value is not usable;
// start from [DefaultConfig] and extend.
type Config struct {
	// SequentialMarkers are substrings matched against cell type names to
	// flag state-holding cells. This is a coarse, name-based classification,
	// not a structural cycle detector: a cell whose type merely contains a
	// marker is treated as stateful.
	SequentialMarkers []string

	// Primitives is the closed set of recognized combinational primitives,
	// keyed by cell type name. Cells of any other type (except Annotations)
	// are an unsupported-construct error at graph-build time.
	Primitives map[string]Gate

	// Annotations are non-structural cell types skipped entirely by the
	// graph builder (scope markers and similar metadata carriers).
	Annotations map[string]bool
}

// defaultMarkers mirror the state-element naming conventions of flattened
// gate-level netlists: flip-flops, D-latches, set/reset latches, memories.
var defaultMarkers = []string{"FF", "DLATCH", "DLE", "SR", "mem"}

var defaultPrimitives = map[string]Gate{
	"$_NOT_": {Inputs: []string{"A"}, Output: "Y"},
	"$_AND_": {Inputs: []string{"A", "B"}, Output: "Y"},
	"$_OR_":  {Inputs: []string{"A", "B"}, Output: "Y"},
	"$_XOR_": {Inputs: []string{"A", "B"}, Output: "Y"},
	"$_MUX_": {Inputs: []string{"A", "B", "S"}, Output: "Y"},
}

var defaultAnnotations = map[string]bool{
	"$scopeinfo": true,
}

// DefaultConfig returns the default analysis policy. The returned maps and
// slices are fresh copies, so callers may extend them freely.
func DefaultConfig() Config {
	return Config{
		SequentialMarkers: slices.Clone(defaultMarkers),
		Primitives:        maps.Clone(defaultPrimitives),
		Annotations:       maps.Clone(defaultAnnotations),
	}
}

// Fingerprint returns a SHA-256 content hash of the configuration, used as
// a cache key component: a report computed under one policy must never be
// served for another.
func (c Config) Fingerprint() string {
	var b strings.Builder

	fmt.Fprintf(&b, "markers %s\n", strings.Join(c.SequentialMarkers, ","))
	for _, typ := range slices.Sorted(maps.Keys(c.Primitives)) {
		g := c.Primitives[typ]
		fmt.Fprintf(&b, "gate %s %s -> %s\n", typ, strings.Join(g.Inputs, ","), g.Output)
	}
	for _, typ := range slices.Sorted(maps.Keys(c.Annotations)) {
		if c.Annotations[typ] {
			fmt.Fprintf(&b, "annotation %s\n", typ)
		}
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
