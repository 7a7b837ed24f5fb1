// Package io provides JSON export for analysis results.
//
// Reports are written in a stable, indented format so diffs between runs
// stay readable. Netlist input parsing lives in package netlist; this
// package only handles the output side.
//
// # Usage
//
// Write reports to any writer:
//
//	if err := io.WriteReports(os.Stdout, result.Reports); err != nil {
//	    log.Fatal(err)
//	}
//
// Or directly to a file:
//
//	if err := io.ExportReports(result.Reports, "reports.json"); err != nil {
//	    log.Fatal(err)
//	}
package io
