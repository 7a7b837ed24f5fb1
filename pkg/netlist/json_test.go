package netlist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mbertsch/ioflow/pkg/errors"
)

const sampleNetlist = `{
  "modules": [{
    "name": "inverter",
    "ports": [
      {"name": "A", "width": 1, "direction": "input"},
      {"name": "Y", "width": 1, "direction": "output"}
    ],
    "wires": [{"name": "t0", "width": 1}],
    "connections": [
      {"dest": [{"wire": "Y"}], "src": [{"wire": "t0"}]}
    ],
    "cells": [{
      "name": "g1", "type": "$_NOT_",
      "connections": {"A": {"wire": "A"}, "Y": {"wire": "t0"}}
    }]
  }]
}`

func TestReadJSON(t *testing.T) {
	d, err := ReadJSON(strings.NewReader(sampleNetlist))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if len(d.Modules) != 1 {
		t.Fatalf("modules = %d, want 1", len(d.Modules))
	}

	m := d.Modules[0]
	if m.Name != "inverter" {
		t.Errorf("name = %q", m.Name)
	}
	if m.WireCount() != 3 {
		t.Errorf("wires = %d, want 3", m.WireCount())
	}
	if len(m.Ports) != 2 {
		t.Errorf("ports = %d, want 2", len(m.Ports))
	}
	if len(m.Conns) != 1 || len(m.Cells) != 1 {
		t.Errorf("conns = %d, cells = %d", len(m.Conns), len(m.Cells))
	}

	a, ok := m.Wire("A")
	if !ok || !a.Input || a.Output {
		t.Errorf("wire A = %+v, want input", a)
	}
	y, ok := m.Wire("Y")
	if !ok || y.Input || !y.Output {
		t.Errorf("wire Y = %+v, want output", y)
	}
}

func TestReadJSONConstantBit(t *testing.T) {
	input := `{
	  "modules": [{
	    "name": "m",
	    "ports": [{"name": "Y", "width": 1, "direction": "output"}],
	    "connections": [{"dest": [{"wire": "Y"}], "src": [{}]}]
	  }]
	}`
	d, err := ReadJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	src := d.Modules[0].Conns[0].Src[0]
	if src.IsWire() {
		t.Errorf("src = %v, want constant bit", src)
	}
}

func TestReadJSONValidation(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			"malformed json",
			`{"modules": [`,
		},
		{
			"bad direction",
			`{"modules": [{"name": "m", "ports": [{"name": "A", "width": 1, "direction": "sideways"}]}]}`,
		},
		{
			"undeclared wire in connection",
			`{"modules": [{"name": "m",
			  "ports": [{"name": "Y", "width": 1, "direction": "output"}],
			  "connections": [{"dest": [{"wire": "Y"}], "src": [{"wire": "ghost"}]}]}]}`,
		},
		{
			"offset out of range",
			`{"modules": [{"name": "m",
			  "ports": [{"name": "Y", "width": 2, "direction": "output"}],
			  "connections": [{"dest": [{"wire": "Y", "offset": 2}], "src": [{}]}]}]}`,
		},
		{
			"negative offset",
			`{"modules": [{"name": "m",
			  "ports": [{"name": "Y", "width": 1, "direction": "output"}],
			  "connections": [{"dest": [{"wire": "Y", "offset": -1}], "src": [{}]}]}]}`,
		},
		{
			"undeclared wire in cell",
			`{"modules": [{"name": "m",
			  "cells": [{"name": "g", "type": "$_NOT_", "connections": {"A": {"wire": "x"}}}]}]}`,
		},
		{
			"duplicate wire",
			`{"modules": [{"name": "m", "ports": [
			  {"name": "A", "width": 1, "direction": "input"},
			  {"name": "A", "width": 1, "direction": "input"}]}]}`,
		},
		{
			"zero width port",
			`{"modules": [{"name": "m", "ports": [{"name": "A", "width": 0, "direction": "input"}]}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("ReadJSON should fail")
			}
			if !errors.Is(err, errors.ErrCodeInvalidNetlist) {
				t.Errorf("error code = %v, want INVALID_NETLIST (%v)", errors.GetCode(err), err)
			}
		})
	}
}

func TestParseJSON(t *testing.T) {
	d, err := ParseJSON([]byte(sampleNetlist))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if len(d.Modules) != 1 {
		t.Errorf("modules = %d, want 1", len(d.Modules))
	}
}

func TestImportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "design.json")
	if err := os.WriteFile(path, []byte(sampleNetlist), 0o644); err != nil {
		t.Fatal(err)
	}

	d, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if len(d.Modules) != 1 {
		t.Errorf("modules = %d, want 1", len(d.Modules))
	}
}

func TestImportJSONMissingFile(t *testing.T) {
	_, err := ImportJSON(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error code = %v, want FILE_NOT_FOUND", errors.GetCode(err))
	}
}
