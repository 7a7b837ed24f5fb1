package netlist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mbertsch/ioflow/pkg/errors"
)

// JSON wire format for flattened netlist designs.
//
//	{
//	  "modules": [{
//	    "name": "top",
//	    "ports": [{"name": "A", "width": 1, "direction": "input"}],
//	    "wires": [{"name": "t0", "width": 1}],
//	    "connections": [{"dest": [{"wire": "Y"}], "src": [{"wire": "t0"}]}],
//	    "cells": [{"name": "g1", "type": "$_AND_",
//	               "connections": {"A": {"wire": "A"}, "B": {"wire": "B"}, "Y": {"wire": "t0"}}}]
//	  }]
//	}
//
// A bit reference without a "wire" field denotes the constant/disconnected
// bit. Offsets default to 0.
type design struct {
	Modules []jsonModule `json:"modules"`
}

type jsonModule struct {
	Name        string           `json:"name"`
	Ports       []jsonPort       `json:"ports"`
	Wires       []jsonWire       `json:"wires,omitempty"`
	Connections []jsonConnection `json:"connections,omitempty"`
	Cells       []jsonCell       `json:"cells,omitempty"`
}

type jsonPort struct {
	Name      string `json:"name"`
	Width     int    `json:"width"`
	Direction string `json:"direction"` // "input", "output", or "inout"
}

type jsonWire struct {
	Name  string `json:"name"`
	Width int    `json:"width"`
}

type jsonBit struct {
	Wire   string `json:"wire,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

type jsonConnection struct {
	Dest []jsonBit `json:"dest"`
	Src  []jsonBit `json:"src"`
}

type jsonCell struct {
	Name        string             `json:"name"`
	Type        string             `json:"type"`
	Connections map[string]jsonBit `json:"connections"`
}

// ReadJSON decodes a netlist design from r.
//
// ReadJSON validates structural integrity as it builds the design: module
// and wire names must be well-formed, port directions must be one of
// "input", "output", or "inout", and every bit reference must name a
// declared wire with an in-range offset. Violations are reported as
// INVALID_NETLIST errors identifying the offending entity.
//
// The returned design is independent of r. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Design, error) {
	var data design
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidNetlist, err, "decode netlist")
	}

	d := &Design{}
	for _, jm := range data.Modules {
		m, err := buildModule(jm)
		if err != nil {
			return nil, err
		}
		d.Modules = append(d.Modules, m)
	}
	return d, nil
}

// ParseJSON decodes a netlist design from raw JSON bytes.
func ParseJSON(data []byte) (*Design, error) {
	return ReadJSON(bytes.NewReader(data))
}

// ImportJSON reads a netlist design from the JSON file at path.
func ImportJSON(path string) (*Design, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

func buildModule(jm jsonModule) (*Module, error) {
	if err := errors.ValidateModuleName(jm.Name); err != nil {
		return nil, err
	}
	m := NewModule(jm.Name)

	for _, p := range jm.Ports {
		if err := errors.ValidateWireName(p.Name); err != nil {
			return nil, moduleErr(jm.Name, err)
		}
		w := Wire{Name: p.Name, Width: p.Width}
		switch p.Direction {
		case "input":
			w.Input = true
		case "output":
			w.Output = true
		case "inout":
			w.Input, w.Output = true, true
		default:
			return nil, errors.New(errors.ErrCodeInvalidNetlist,
				"module %s: port %s has invalid direction %q", jm.Name, p.Name, p.Direction)
		}
		if err := m.AddWire(w); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidNetlist, err, "module %s: port %s", jm.Name, p.Name)
		}
		if err := m.AddPort(p.Name); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidNetlist, err, "module %s: port %s", jm.Name, p.Name)
		}
	}

	for _, jw := range jm.Wires {
		if err := errors.ValidateWireName(jw.Name); err != nil {
			return nil, moduleErr(jm.Name, err)
		}
		if err := m.AddWire(Wire{Name: jw.Name, Width: jw.Width}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidNetlist, err, "module %s: wire %s", jm.Name, jw.Name)
		}
	}

	for i, jc := range jm.Connections {
		conn := Connection{}
		var err error
		if conn.Dest, err = resolveBits(m, jc.Dest); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidNetlist, err, "module %s: connection %d dest", jm.Name, i)
		}
		if conn.Src, err = resolveBits(m, jc.Src); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidNetlist, err, "module %s: connection %d src", jm.Name, i)
		}
		m.AddConn(conn)
	}

	for _, jc := range jm.Cells {
		cell := Cell{Name: jc.Name, Type: jc.Type, Conns: make(map[string]SigBit, len(jc.Connections))}
		for role, jb := range jc.Connections {
			bit, err := resolveBit(m, jb)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidNetlist, err,
					"module %s: cell %s role %s", jm.Name, jc.Name, role)
			}
			cell.Conns[role] = bit
		}
		if err := m.AddCell(cell); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidNetlist, err, "module %s: cell %s", jm.Name, jc.Name)
		}
	}

	return m, nil
}

func resolveBits(m *Module, refs []jsonBit) ([]SigBit, error) {
	bits := make([]SigBit, len(refs))
	for i, ref := range refs {
		bit, err := resolveBit(m, ref)
		if err != nil {
			return nil, err
		}
		bits[i] = bit
	}
	return bits, nil
}

func resolveBit(m *Module, ref jsonBit) (SigBit, error) {
	if ref.Wire == "" {
		return ConstBit(), nil
	}
	w, ok := m.Wire(ref.Wire)
	if !ok {
		return SigBit{}, fmt.Errorf("undeclared wire %q", ref.Wire)
	}
	if ref.Offset < 0 || ref.Offset >= w.Width {
		return SigBit{}, fmt.Errorf("offset %d out of range for wire %q (width %d)", ref.Offset, ref.Wire, w.Width)
	}
	return w.Bit(ref.Offset), nil
}

func moduleErr(module string, err error) error {
	return errors.Wrap(errors.ErrCodeInvalidNetlist, err, "module %s", module)
}
