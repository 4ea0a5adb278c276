// Package tech holds the technology tables a layout is emitted against:
// the unit scale, layer and purpose numbers, and the known via definitions.
//
// A [Tech] is the explicit lookup context of the emission pipeline. It can
// be built in code, loaded from a TOML technology file ([ReadTOML]) or
// derived from a KLayout layer-properties file ([ReadLYP]). Lookups that
// miss return soft errors (UNKNOWN_LAYER, UNKNOWN_PURPOSE, UNKNOWN_VIA_DEF)
// so the pipeline can skip the affected entity.
package tech

import (
	"maps"
	"slices"

	"github.com/matzehuels/layoutwriter/pkg/errors"
	"github.com/matzehuels/layoutwriter/pkg/geom"
)

// ViaDef is a standard via definition known to the technology.
type ViaDef struct {
	Name   string `toml:"name" json:"name"`
	Layer1 string `toml:"layer1" json:"layer1,omitempty"`
	Layer2 string `toml:"layer2" json:"layer2,omitempty"`
	Cut    string `toml:"cut" json:"cut,omitempty"`
}

// Tech is a technology description. The zero value is not usable; call [New].
type Tech struct {
	Name     string
	units    geom.Units
	layers   map[string]uint32
	purposes map[string]uint32
	vias     map[string]ViaDef
}

// New returns an empty technology with default units.
func New(name string) *Tech {
	return &Tech{
		Name:     name,
		units:    geom.DefaultUnits(),
		layers:   make(map[string]uint32),
		purposes: make(map[string]uint32),
		vias:     make(map[string]ViaDef),
	}
}

// Units returns the unit scale of the technology.
func (t *Tech) Units() geom.Units {
	return t.units
}

// SetUnits replaces the unit scale. Non-positive values keep the defaults.
func (t *Tech) SetUnits(u geom.Units) {
	if u.DBUPerUU <= 0 {
		u.DBUPerUU = geom.DefaultDBUPerUU
	}
	if u.GridRes <= 0 {
		u.GridRes = geom.DefaultGridRes
	}
	t.units = u
}

// AddLayer registers or renumbers a layer.
func (t *Tech) AddLayer(name string, num uint32) {
	t.layers[name] = num
}

// AddPurpose registers or renumbers a purpose.
func (t *Tech) AddPurpose(name string, num uint32) {
	t.purposes[name] = num
}

// AddViaDef registers a via definition.
func (t *Tech) AddViaDef(def ViaDef) {
	t.vias[def.Name] = def
}

// Layer returns the number of a layer.
func (t *Tech) Layer(name string) (uint32, error) {
	num, ok := t.layers[name]
	if !ok {
		return 0, errors.New(errors.ErrCodeUnknownLayer, "unknown layer %s", name)
	}
	return num, nil
}

// Purpose returns the number of a purpose.
func (t *Tech) Purpose(name string) (uint32, error) {
	num, ok := t.purposes[name]
	if !ok {
		return 0, errors.New(errors.ErrCodeUnknownPurpose, "unknown purpose %s", name)
	}
	return num, nil
}

// ViaDef returns a via definition by name.
func (t *Tech) ViaDef(name string) (ViaDef, error) {
	def, ok := t.vias[name]
	if !ok {
		return ViaDef{}, errors.New(errors.ErrCodeUnknownViaDef, "unknown via %s", name)
	}
	return def, nil
}

// Layers returns the layer table.
func (t *Tech) Layers() map[string]uint32 { return maps.Clone(t.layers) }

// Purposes returns the purpose table.
func (t *Tech) Purposes() map[string]uint32 { return maps.Clone(t.purposes) }

// ViaDefs returns the via definitions sorted by name.
func (t *Tech) ViaDefs() []ViaDef {
	out := make([]ViaDef, 0, len(t.vias))
	for _, name := range sortedKeys(t.vias) {
		out = append(out, t.vias[name])
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
