package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/mbertsch/ioflow/pkg/pipeline"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(nil, logger)
	srv := httptest.NewServer(NewServer(runner, logger).Router())
	t.Cleanup(srv.Close)
	return srv
}

const analyzeBody = `{
  "netlist": {
    "modules": [
      {
        "name": "buffer",
        "ports": [
          {"name": "A", "width": 1, "direction": "input"},
          {"name": "Y", "width": 1, "direction": "output"}
        ],
        "connections": [{"dest": [{"wire": "Y"}], "src": [{"wire": "A"}]}]
      },
      {
        "name": "register",
        "ports": [
          {"name": "D", "width": 1, "direction": "input"},
          {"name": "Q", "width": 1, "direction": "output"}
        ],
        "cells": [{"name": "ff", "type": "$_DFF_P_",
                   "connections": {"D": {"wire": "D"}, "Q": {"wire": "Q"}}}]
      }
    ]
  },
  "options": {"no_cache": true}
}`

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestVersion(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/version")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["version"] == "" {
		t.Error("version should be set")
	}
}

func TestAnalyze(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/analyze", "application/json", strings.NewReader(analyzeBody))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, body = %s", resp.StatusCode, data)
	}

	var result pipeline.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.RunID == "" {
		t.Error("run_id should be set")
	}
	if len(result.Reports) != 2 {
		t.Fatalf("reports = %d, want 2", len(result.Reports))
	}
	if result.Reports[0].Module != "buffer" || result.Reports[0].IsSequential {
		t.Errorf("buffer report = %+v", result.Reports[0])
	}
	if !result.Reports[1].IsSequential {
		t.Errorf("register report = %+v", result.Reports[1])
	}
	if result.Reports[1].Dependencies != nil {
		t.Error("sequential report should omit dependencies")
	}
}

func TestAnalyzeErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{
			"malformed body",
			`{"netlist": `,
			http.StatusBadRequest,
			"INVALID_INPUT",
		},
		{
			"missing netlist",
			`{"options": {}}`,
			http.StatusBadRequest,
			"INVALID_INPUT",
		},
		{
			"invalid netlist",
			`{"netlist": {"modules": [{"name": "m",
			   "ports": [{"name": "A", "width": 1, "direction": "sideways"}]}]}}`,
			http.StatusBadRequest,
			"INVALID_NETLIST",
		},
		{
			"unsupported cell",
			`{"netlist": {"modules": [{"name": "m",
			   "cells": [{"name": "g", "type": "$_NAND_", "connections": {}}]}]}}`,
			http.StatusUnprocessableEntity,
			"UNSUPPORTED_CELL",
		},
		{
			"empty design",
			`{"netlist": {"modules": []}}`,
			http.StatusBadRequest,
			"INVALID_INPUT",
		},
	}

	srv := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/api/v1/analyze", "application/json", bytes.NewBufferString(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			var body errorResponse
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Code, tt.wantCode)
			}
			if body.Message == "" {
				t.Error("message should not be empty")
			}
		})
	}
}
