package tech

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/layoutwriter/pkg/errors"
)

type lypFile struct {
	XMLName    xml.Name      `xml:"layer-properties"`
	Properties []lypProperty `xml:"properties"`
}

type lypProperty struct {
	Name   string `xml:"name"`
	Source string `xml:"source"`
}

// ReadLYP derives layer and purpose numbers from a KLayout layer-properties
// file. Each entry named "layer.purpose" with a source "L/D@N" maps the layer
// to L and the purpose to D. A name without a purpose maps to "drawing".
// Entries without a usable source are ignored; the first entry for a name wins.
func ReadLYP(r io.Reader) (*Tech, error) {
	var f lypFile
	if err := xml.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layer properties")
	}

	t := New("")
	for _, p := range f.Properties {
		layer, datatype, ok := parseSource(p.Source)
		if !ok {
			continue
		}
		lname, pname := splitName(p.Name)
		if lname == "" {
			continue
		}
		if _, seen := t.layers[lname]; !seen {
			t.AddLayer(lname, layer)
		}
		if _, seen := t.purposes[pname]; !seen {
			t.AddPurpose(pname, datatype)
		}
	}
	return t, nil
}

// splitName turns "Metal1.drawing - 8/0" into ("Metal1", "drawing").
func splitName(name string) (layer, purpose string) {
	name = strings.TrimSpace(name)
	if i := strings.Index(name, " "); i >= 0 {
		name = name[:i]
	}
	layer, purpose, ok := strings.Cut(name, ".")
	if !ok || purpose == "" {
		purpose = "drawing"
	}
	return layer, purpose
}

// parseSource parses "L/D@N" or "L/D".
func parseSource(src string) (layer, datatype uint32, ok bool) {
	src, _, _ = strings.Cut(strings.TrimSpace(src), "@")
	ls, ds, found := strings.Cut(src, "/")
	if !found {
		return 0, 0, false
	}
	l, err := strconv.ParseUint(strings.TrimSpace(ls), 10, 32)
	if err != nil {
		return 0, 0, false
	}
	d, err := strconv.ParseUint(strings.TrimSpace(ds), 10, 32)
	if err != nil {
		return 0, 0, false
	}
	return uint32(l), uint32(d), true
}
