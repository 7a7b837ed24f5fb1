package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mbertsch/ioflow/pkg/analysis"
	"github.com/mbertsch/ioflow/pkg/pipeline"
)

// WriteReports encodes reports as an indented JSON array and writes it to w.
// Report order is preserved, so output is deterministic for a given design.
func WriteReports(w io.Writer, reports []*analysis.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(reports); err != nil {
		return fmt.Errorf("encode reports: %w", err)
	}
	return nil
}

// ExportReports writes reports to a JSON file at path.
// This is a convenience wrapper around [WriteReports] for file-based output.
func ExportReports(reports []*analysis.Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteReports(f, reports)
}

// WriteResult encodes a full pipeline result, including run statistics,
// as indented JSON. The HTTP API uses this format for responses.
func WriteResult(w io.Writer, result *pipeline.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}
