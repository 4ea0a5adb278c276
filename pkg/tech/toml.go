package tech

import (
	"io"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/layoutwriter/pkg/errors"
	"github.com/matzehuels/layoutwriter/pkg/geom"
)

// techFile is the TOML layout of a technology file:
//
//	name = "demo"
//
//	[units]
//	dbu_per_uu = 1000
//	grid_res = 5
//
//	[layers]
//	M1 = 8
//
//	[purposes]
//	drawing = 0
//	pin = 2
//
//	[[vias]]
//	name = "M1_M2"
//	layer1 = "M1"
//	layer2 = "M2"
//	cut = "V1"
type techFile struct {
	Name     string            `toml:"name"`
	Units    geom.Units        `toml:"units"`
	Layers   map[string]uint32 `toml:"layers"`
	Purposes map[string]uint32 `toml:"purposes"`
	Vias     []ViaDef          `toml:"vias"`
}

// ReadTOML decodes a TOML technology file.
func ReadTOML(r io.Reader) (*Tech, error) {
	var f techFile
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode tech file")
	}

	t := New(f.Name)
	t.SetUnits(f.Units)
	for name, num := range f.Layers {
		t.AddLayer(name, num)
	}
	for name, num := range f.Purposes {
		t.AddPurpose(name, num)
	}
	for _, v := range f.Vias {
		if v.Name == "" {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "via definition without a name")
		}
		t.AddViaDef(v)
	}
	return t, nil
}

// WriteTOML encodes t as a TOML technology file.
func WriteTOML(t *Tech, w io.Writer) error {
	f := techFile{
		Name:     t.Name,
		Units:    t.units,
		Layers:   t.Layers(),
		Purposes: t.Purposes(),
		Vias:     t.ViaDefs(),
	}
	return toml.NewEncoder(w).Encode(f)
}
