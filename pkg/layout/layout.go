package layout

import (
	"maps"
	"math"
	"slices"

	"github.com/matzehuels/layoutwriter/pkg/errors"
	"github.com/matzehuels/layoutwriter/pkg/geom"
)

// Master names the library/cell/view an instance refers to.
type Master struct {
	Lib  string
	Cell string
	View string
}

// String returns "lib/cell/view".
func (m Master) String() string {
	return m.Lib + "/" + m.Cell + "/" + m.View
}

// Params are the typed instance parameters. Keys are unique within each map.
type Params struct {
	Ints    map[string]int
	Strings map[string]string
	Doubles map[string]float64
}

// Len returns the total number of parameters.
func (p Params) Len() int {
	return len(p.Ints) + len(p.Strings) + len(p.Doubles)
}

func (p Params) clone() Params {
	return Params{
		Ints:    maps.Clone(p.Ints),
		Strings: maps.Clone(p.Strings),
		Doubles: maps.Clone(p.Doubles),
	}
}

// InstArray is the row/column repetition of an instance. Zero counts mean 1.
type InstArray struct {
	Rows, Cols     int
	SpRows, SpCols float64
}

// Inst is a placement of another cell.
type Inst struct {
	Master Master
	Name   string
	Loc    geom.Point
	Orient geom.Orient
	Array  InstArray
	Params Params
}

// IsArray reports whether the instance repeats in rows or columns.
func (i Inst) IsArray() bool {
	return i.Array.Rows > 1 || i.Array.Cols > 1
}

// Rect is a rectangle on a layer/purpose pair, optionally arrayed.
type Rect struct {
	Layer   string
	Purpose string
	Box     geom.Box
	Array   geom.Array
}

// PathSeg is a single straight path segment. Begin and End are the raw cap
// style tags; unknown tags encode as truncate.
type PathSeg struct {
	Layer   string
	Purpose string
	P0, P1  geom.Point
	Width   float64
	Begin   string
	End     string
}

// Via is a standard via placement. The enclosure boxes in Cut stay in raw
// bounding-box form until emission.
type Via struct {
	ViaID  string
	Loc    geom.Point
	Orient geom.Orient
	Cut    geom.ViaCut
	Array  geom.Array
}

// Pin is a pin shape with its label. A label is always produced; the
// physical pin object only when MakePin is set.
type Pin struct {
	Net     string
	Name    string
	Label   string
	Layer   string
	Purpose string
	Box     geom.Box
	MakePin bool
}

// Polygon is a closed polygon given by parallel x/y vertex lists.
type Polygon struct {
	Layer   string
	Purpose string
	X, Y    []float64
}

// Blockage is an area blockage (Type "placement", Layer ignored) or a layer
// blockage of the named type.
type Blockage struct {
	Type  string
	Layer string
	X, Y  []float64
}

// Boundary is a PR, snap or area boundary.
type Boundary struct {
	Type string
	X, Y []float64
}

// Layout is the set of entities of one cell, one ordered list per kind.
type Layout struct {
	Insts      []Inst
	Rects      []Rect
	PathSegs   []PathSeg
	Vias       []Via
	Pins       []Pin
	Polygons   []Polygon
	Blockages  []Blockage
	Boundaries []Boundary
}

// New returns an empty layout.
func New() *Layout {
	return &Layout{}
}

// AddInst appends an instance of master. Zero row/column counts default
// to 1.
func (l *Layout) AddInst(master Master, name string, loc geom.Point, orient string, params Params, arr InstArray) error {
	o, err := geom.ParseOrient(orient)
	if err != nil {
		return err
	}
	if err := checkFinite("location", loc.X, loc.Y); err != nil {
		return err
	}
	if err := checkFinite("spacing", arr.SpRows, arr.SpCols); err != nil {
		return err
	}
	if arr.Rows, err = count("rows", arr.Rows); err != nil {
		return err
	}
	if arr.Cols, err = count("cols", arr.Cols); err != nil {
		return err
	}
	l.Insts = append(l.Insts, Inst{
		Master: master,
		Name:   name,
		Loc:    loc,
		Orient: o,
		Array:  arr,
		Params: params.clone(),
	})
	return nil
}

// AddRect appends a rectangle.
func (l *Layout) AddRect(layer, purpose string, box geom.Box, arr geom.Array) error {
	if err := checkBox(box); err != nil {
		return err
	}
	arr, err := normalizeArray(arr)
	if err != nil {
		return err
	}
	l.Rects = append(l.Rects, Rect{Layer: layer, Purpose: purpose, Box: box, Array: arr})
	return nil
}

// AddPathSeg appends a path segment from p0 to p1.
func (l *Layout) AddPathSeg(layer, purpose string, p0, p1 geom.Point, width float64, begin, end string) error {
	if !(width > 0) || math.IsInf(width, 1) {
		return errors.New(errors.ErrCodeInvalidInput, "path width must be positive and finite, got %g", width)
	}
	if err := checkFinite("endpoint", p0.X, p0.Y, p1.X, p1.Y); err != nil {
		return err
	}
	l.PathSegs = append(l.PathSegs, PathSeg{
		Layer:   layer,
		Purpose: purpose,
		P0:      p0,
		P1:      p1,
		Width:   width,
		Begin:   begin,
		End:     end,
	})
	return nil
}

// AddVia appends a via. Zero cut counts default to 1; non-positive cut
// sizes mean the via definition's default.
func (l *Layout) AddVia(viaID string, loc geom.Point, orient string, cut geom.ViaCut, arr geom.Array) error {
	o, err := geom.ParseOrient(orient)
	if err != nil {
		return err
	}
	if err := checkFinite("location", loc.X, loc.Y); err != nil {
		return err
	}
	if err := checkFinite("cut size", cut.SpRows, cut.SpCols, cut.CutWidth, cut.CutHeight); err != nil {
		return err
	}
	if cut.Rows, err = count("cut rows", cut.Rows); err != nil {
		return err
	}
	if cut.Cols, err = count("cut cols", cut.Cols); err != nil {
		return err
	}
	if err := checkBox(cut.Enc1); err != nil {
		return err
	}
	if err := checkBox(cut.Enc2); err != nil {
		return err
	}
	if arr, err = normalizeArray(arr); err != nil {
		return err
	}
	l.Vias = append(l.Vias, Via{ViaID: viaID, Loc: loc, Orient: o, Cut: cut, Array: arr})
	return nil
}

// AddPin appends a pin on net with the given label.
func (l *Layout) AddPin(net, name, label, layer, purpose string, box geom.Box, makePin bool) error {
	if err := checkBox(box); err != nil {
		return err
	}
	l.Pins = append(l.Pins, Pin{
		Net:     net,
		Name:    name,
		Label:   label,
		Layer:   layer,
		Purpose: purpose,
		Box:     box,
		MakePin: makePin,
	})
	return nil
}

// AddPolygon appends a polygon. The vertex count is not checked.
func (l *Layout) AddPolygon(layer, purpose string, xs, ys []float64) error {
	if err := checkVertices(xs, ys); err != nil {
		return err
	}
	l.Polygons = append(l.Polygons, Polygon{Layer: layer, Purpose: purpose, X: slices.Clone(xs), Y: slices.Clone(ys)})
	return nil
}

// AddBlockage appends a blockage. The type is checked at emission.
func (l *Layout) AddBlockage(typ, layer string, xs, ys []float64) error {
	if err := checkVertices(xs, ys); err != nil {
		return err
	}
	l.Blockages = append(l.Blockages, Blockage{Type: typ, Layer: layer, X: slices.Clone(xs), Y: slices.Clone(ys)})
	return nil
}

// AddBoundary appends a boundary. The type is checked at emission.
func (l *Layout) AddBoundary(typ string, xs, ys []float64) error {
	if err := checkVertices(xs, ys); err != nil {
		return err
	}
	l.Boundaries = append(l.Boundaries, Boundary{Type: typ, X: slices.Clone(xs), Y: slices.Clone(ys)})
	return nil
}

// Count returns the number of entities of kind k.
func (l *Layout) Count(k Kind) int {
	switch k {
	case KindInst:
		return len(l.Insts)
	case KindRect:
		return len(l.Rects)
	case KindPathSeg:
		return len(l.PathSegs)
	case KindVia:
		return len(l.Vias)
	case KindPin:
		return len(l.Pins)
	case KindPolygon:
		return len(l.Polygons)
	case KindBlockage:
		return len(l.Blockages)
	case KindBoundary:
		return len(l.Boundaries)
	}
	return 0
}

// Counts returns the number of entities per kind, omitting empty kinds.
func (l *Layout) Counts() map[Kind]int {
	out := make(map[Kind]int)
	for _, k := range Kinds {
		if n := l.Count(k); n > 0 {
			out[k] = n
		}
	}
	return out
}

// Len returns the total number of entities.
func (l *Layout) Len() int {
	n := 0
	for _, k := range Kinds {
		n += l.Count(k)
	}
	return n
}

// Masters returns the distinct instance masters in first-use order.
func (l *Layout) Masters() []Master {
	seen := make(map[Master]bool)
	var out []Master
	for _, inst := range l.Insts {
		if !seen[inst.Master] {
			seen[inst.Master] = true
			out = append(out, inst.Master)
		}
	}
	return out
}

func count(name string, n int) (int, error) {
	switch {
	case n == 0:
		return 1, nil
	case n < 0:
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s must be at least 1, got %d", name, n)
	}
	return n, nil
}

func normalizeArray(a geom.Array) (geom.Array, error) {
	if err := checkFinite("spacing", a.SPX, a.SPY); err != nil {
		return a, err
	}
	var err error
	if a.NX, err = count("nx", a.NX); err != nil {
		return a, err
	}
	if a.NY, err = count("ny", a.NY); err != nil {
		return a, err
	}
	return a, nil
}

func checkBox(b geom.Box) error {
	if err := checkFinite("box coordinate", b.Coords()...); err != nil {
		return err
	}
	if !b.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "malformed box (%g, %g, %g, %g)", b.XL, b.YB, b.XR, b.YT)
	}
	return nil
}

func checkVertices(xs, ys []float64) error {
	if len(xs) != len(ys) {
		return errors.New(errors.ErrCodeInvalidInput, "vertex lists differ in length: %d x, %d y", len(xs), len(ys))
	}
	if err := checkFinite("vertex", xs...); err != nil {
		return err
	}
	return checkFinite("vertex", ys...)
}

func checkFinite(what string, vals ...float64) error {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New(errors.ErrCodeInvalidInput, "%s must be finite, got %g", what, v)
		}
	}
	return nil
}
