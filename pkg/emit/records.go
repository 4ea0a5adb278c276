package emit

import (
	"github.com/matzehuels/layoutwriter/pkg/errors"
	"github.com/matzehuels/layoutwriter/pkg/geom"
)

// ParamType tags the value held by a [Param].
type ParamType uint8

const (
	ParamInt ParamType = iota
	ParamDouble
	ParamString
)

// Param is one typed instance parameter.
type Param struct {
	Name   string    `json:"name" msgpack:"name"`
	Type   ParamType `json:"type" msgpack:"type"`
	Int    int64     `json:"int,omitempty" msgpack:"int,omitempty"`
	Double float64   `json:"double,omitempty" msgpack:"double,omitempty"`
	Str    string    `json:"str,omitempty" msgpack:"str,omitempty"`
}

// IntParam returns an integer parameter.
func IntParam(name string, v int64) Param { return Param{Name: name, Type: ParamInt, Int: v} }

// DoubleParam returns a floating-point parameter.
func DoubleParam(name string, v float64) Param {
	return Param{Name: name, Type: ParamDouble, Double: v}
}

// StringParam returns a string parameter.
func StringParam(name, v string) Param { return Param{Name: name, Type: ParamString, Str: v} }

// Value returns the parameter value as int64, float64 or string.
func (p Param) Value() any {
	switch p.Type {
	case ParamInt:
		return p.Int
	case ParamDouble:
		return p.Double
	}
	return p.Str
}

// Inst is an encoded instance. Rows and Cols above 1 make it an array
// instance; Spacing then holds the column (X) and row (Y) pitch. Params is
// nil when the instance has no parameters.
type Inst struct {
	Lib     string      `json:"lib" msgpack:"lib"`
	Cell    string      `json:"cell" msgpack:"cell"`
	View    string      `json:"view" msgpack:"view"`
	Name    string      `json:"name" msgpack:"name"`
	Origin  geom.Vector `json:"origin" msgpack:"origin"`
	Orient  geom.Orient `json:"orient" msgpack:"orient"`
	Rows    int         `json:"rows" msgpack:"rows"`
	Cols    int         `json:"cols" msgpack:"cols"`
	Spacing geom.Vector `json:"spacing" msgpack:"spacing"`
	Params  []Param     `json:"params,omitempty" msgpack:"params,omitempty"`
}

// IsArray reports whether the instance is an array instance.
func (i Inst) IsArray() bool { return i.Rows > 1 || i.Cols > 1 }

// Rect is an encoded rectangle.
type Rect struct {
	Layer   uint32       `json:"layer" msgpack:"layer"`
	Purpose uint32       `json:"purpose" msgpack:"purpose"`
	Box     geom.GridBox `json:"box" msgpack:"box"`
}

// PathSeg is an encoded path segment.
type PathSeg struct {
	Layer   uint32         `json:"layer" msgpack:"layer"`
	Purpose uint32         `json:"purpose" msgpack:"purpose"`
	Style   geom.PathStyle `json:"style" msgpack:"style"`
}

// Via is an encoded standard via.
type Via struct {
	Def    string         `json:"def" msgpack:"def"`
	Origin geom.Vector    `json:"origin" msgpack:"origin"`
	Orient geom.Orient    `json:"orient" msgpack:"orient"`
	Params geom.ViaParams `json:"params" msgpack:"params"`
}

// TextAlign is the anchor of a label relative to its origin.
type TextAlign string

const AlignCenterCenter TextAlign = "centerCenter"

// Label is an encoded text label.
type Label struct {
	Layer   uint32      `json:"layer" msgpack:"layer"`
	Purpose uint32      `json:"purpose" msgpack:"purpose"`
	Text    string      `json:"text" msgpack:"text"`
	Origin  geom.Vector `json:"origin" msgpack:"origin"`
	Orient  geom.Orient `json:"orient" msgpack:"orient"`
	Height  geom.Coord  `json:"height" msgpack:"height"`
	Align   TextAlign   `json:"align" msgpack:"align"`
}

// Access is a set of pin access directions.
type Access uint8

const (
	AccessTop Access = 1 << iota
	AccessBottom
	AccessLeft
	AccessRight

	AccessAll = AccessTop | AccessBottom | AccessLeft | AccessRight
)

// Pin is an encoded physical pin: a rectangle attached to the terminal
// named Term. Backends create the terminal and its net when missing.
type Pin struct {
	Layer   uint32       `json:"layer" msgpack:"layer"`
	Purpose uint32       `json:"purpose" msgpack:"purpose"`
	Box     geom.GridBox `json:"box" msgpack:"box"`
	Term    string       `json:"term" msgpack:"term"`
	Name    string       `json:"name" msgpack:"name"`
	Access  Access       `json:"access" msgpack:"access"`
}

// Polygon is an encoded polygon.
type Polygon struct {
	Layer   uint32        `json:"layer" msgpack:"layer"`
	Purpose uint32        `json:"purpose" msgpack:"purpose"`
	Points  []geom.Vector `json:"points" msgpack:"points"`
}

// BlockageType names a blockage. [BlockagePlacement] is an area blockage;
// every other type blocks a single layer.
type BlockageType string

const (
	BlockagePlacement BlockageType = "placement"
	BlockageRouting   BlockageType = "routing"
	BlockageVia       BlockageType = "via"
	BlockageWiring    BlockageType = "wiring"
	BlockageFill      BlockageType = "fill"
	BlockageSlot      BlockageType = "slot"
	BlockagePin       BlockageType = "pin"
	BlockageFeedthru  BlockageType = "feedthru"
	BlockageScreen    BlockageType = "screen"
)

var blockageTypes = map[BlockageType]bool{
	BlockagePlacement: true,
	BlockageRouting:   true,
	BlockageVia:       true,
	BlockageWiring:    true,
	BlockageFill:      true,
	BlockageSlot:      true,
	BlockagePin:       true,
	BlockageFeedthru:  true,
	BlockageScreen:    true,
}

// ParseBlockageType validates a blockage type name.
func ParseBlockageType(s string) (BlockageType, error) {
	t := BlockageType(s)
	if !blockageTypes[t] {
		return "", errors.New(errors.ErrCodeUnknownBlockage, "unrecognized blockage type %q", s)
	}
	return t, nil
}

// Blockage is an encoded blockage. Layer is meaningful only for layer
// blockages.
type Blockage struct {
	Type   BlockageType  `json:"type" msgpack:"type"`
	Layer  uint32        `json:"layer,omitempty" msgpack:"layer,omitempty"`
	Points []geom.Vector `json:"points" msgpack:"points"`
}

// IsArea reports whether b is an area (placement) blockage.
func (b Blockage) IsArea() bool { return b.Type == BlockagePlacement }

// BoundaryKind names a boundary.
type BoundaryKind string

const (
	BoundaryPR   BoundaryKind = "PR"
	BoundarySnap BoundaryKind = "snap"
	BoundaryArea BoundaryKind = "area"
)

// ParseBoundaryKind validates a boundary type name. Matching is exact.
func ParseBoundaryKind(s string) (BoundaryKind, error) {
	switch k := BoundaryKind(s); k {
	case BoundaryPR, BoundarySnap, BoundaryArea:
		return k, nil
	}
	return "", errors.New(errors.ErrCodeUnknownBoundary, "unrecognized boundary type %q", s)
}

// Boundary is an encoded boundary.
type Boundary struct {
	Kind   BoundaryKind  `json:"kind" msgpack:"kind"`
	Points []geom.Vector `json:"points" msgpack:"points"`
}
