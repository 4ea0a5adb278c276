package pipeline

import (
	"maps"
	"slices"

	"github.com/matzehuels/layoutwriter/pkg/emit"
	"github.com/matzehuels/layoutwriter/pkg/errors"
	"github.com/matzehuels/layoutwriter/pkg/geom"
	"github.com/matzehuels/layoutwriter/pkg/layout"
)

// encoder turns layout entities into backend records. Errors from the
// resolver are returned unchanged so the caller can tell soft misses from
// fatal failures. Orientation and coordinate range are checked before any
// lookup, so a malformed entity is never soft-skipped.
type encoder struct {
	res   Resolver
	units geom.Units
}

func newEncoder(res Resolver) encoder {
	return encoder{res: res, units: res.Units()}
}

func (e encoder) layerPurpose(layer, purpose string) (uint32, uint32, error) {
	lay, err := e.res.Layer(layer)
	if err != nil {
		return 0, 0, err
	}
	purp, err := e.res.Purpose(purpose)
	if err != nil {
		return 0, 0, err
	}
	return lay, purp, nil
}

func checkOrient(o geom.Orient) error {
	if !o.Valid() {
		return errors.New(errors.ErrCodeInvalidOrientation, "invalid orientation code: %d", o)
	}
	return nil
}

// span returns lo and hi, the spacing, and lo and hi moved to the last of
// n copies.
func span(lo, hi, sp float64, n int) []float64 {
	d := sp * float64(max(n, 1)-1)
	return []float64{lo, hi, sp, lo + d, hi + d}
}

func (e encoder) inst(in layout.Inst) (emit.Inst, error) {
	if err := checkOrient(in.Orient); err != nil {
		return emit.Inst{}, err
	}
	if err := e.units.CheckRange(slices.Concat(
		span(in.Loc.X, in.Loc.X, in.Array.SpCols, in.Array.Cols),
		span(in.Loc.Y, in.Loc.Y, in.Array.SpRows, in.Array.Rows),
	)...); err != nil {
		return emit.Inst{}, err
	}
	return emit.Inst{
		Lib:    in.Master.Lib,
		Cell:   in.Master.Cell,
		View:   in.Master.View,
		Name:   in.Name,
		Origin: e.units.Point(in.Loc),
		Orient: in.Orient,
		Rows:   max(in.Array.Rows, 1),
		Cols:   max(in.Array.Cols, 1),
		Spacing: geom.Vector{
			X: e.units.ToGrid(in.Array.SpCols),
			Y: e.units.ToGrid(in.Array.SpRows),
		},
		Params: encodeParams(in.Params),
	}, nil
}

// encodeParams orders parameters as ints, then doubles, then strings, each
// sorted by name. No parameters encode as nil.
func encodeParams(p layout.Params) []emit.Param {
	if p.Len() == 0 {
		return nil
	}
	out := make([]emit.Param, 0, p.Len())
	for _, k := range slices.Sorted(maps.Keys(p.Ints)) {
		out = append(out, emit.IntParam(k, int64(p.Ints[k])))
	}
	for _, k := range slices.Sorted(maps.Keys(p.Doubles)) {
		out = append(out, emit.DoubleParam(k, p.Doubles[k]))
	}
	for _, k := range slices.Sorted(maps.Keys(p.Strings)) {
		out = append(out, emit.StringParam(k, p.Strings[k]))
	}
	return out
}

// rects returns the base rectangle followed by its array copies.
func (e encoder) rects(r layout.Rect) ([]emit.Rect, error) {
	if err := e.units.CheckRange(slices.Concat(
		span(r.Box.XL, r.Box.XR, r.Array.SPX, r.Array.NX),
		span(r.Box.YB, r.Box.YT, r.Array.SPY, r.Array.NY),
	)...); err != nil {
		return nil, err
	}
	lay, purp, err := e.layerPurpose(r.Layer, r.Purpose)
	if err != nil {
		return nil, err
	}
	base := e.units.Box(r.Box)
	offsets := e.units.GridOffsets(r.Array)
	out := make([]emit.Rect, 0, len(offsets)+1)
	out = append(out, emit.Rect{Layer: lay, Purpose: purp, Box: base})
	for _, d := range offsets {
		out = append(out, emit.Rect{Layer: lay, Purpose: purp, Box: base.Translate(d)})
	}
	return out, nil
}

func (e encoder) pathSeg(s layout.PathSeg) (emit.PathSeg, error) {
	if err := e.units.CheckRange(s.P0.X, s.P0.Y, s.P1.X, s.P1.Y, s.Width); err != nil {
		return emit.PathSeg{}, err
	}
	lay, purp, err := e.layerPurpose(s.Layer, s.Purpose)
	if err != nil {
		return emit.PathSeg{}, err
	}
	return emit.PathSeg{
		Layer:   lay,
		Purpose: purp,
		Style:   e.units.EncodePathSeg(s.P0, s.P1, s.Width, s.Begin, s.End),
	}, nil
}

// vias returns the base via followed by its array copies.
func (e encoder) vias(v layout.Via) ([]emit.Via, error) {
	if err := checkOrient(v.Orient); err != nil {
		return nil, err
	}
	c := v.Cut
	if err := e.units.CheckRange(slices.Concat(
		span(v.Loc.X, v.Loc.X, v.Array.SPX, v.Array.NX),
		span(v.Loc.Y, v.Loc.Y, v.Array.SPY, v.Array.NY),
		[]float64{c.SpRows, c.SpCols, c.CutWidth, c.CutHeight},
		c.Enc1.Coords(),
		c.Enc2.Coords(),
	)...); err != nil {
		return nil, err
	}
	def, err := e.res.ViaDef(v.ViaID)
	if err != nil {
		return nil, err
	}
	base := emit.Via{
		Def:    def.Name,
		Origin: e.units.Point(v.Loc),
		Orient: v.Orient,
		Params: e.units.EncodeVia(v.Cut),
	}
	offsets := e.units.GridOffsets(v.Array)
	out := make([]emit.Via, 0, len(offsets)+1)
	out = append(out, base)
	for _, d := range offsets {
		cp := base
		cp.Origin = base.Origin.Add(d)
		out = append(out, cp)
	}
	return out, nil
}

// pin returns the label of a pin and, when requested, the pin object.
// The label sits at the box center, reads along the longer side and is as
// tall as the shorter side.
func (e encoder) pin(p layout.Pin) (emit.Label, *emit.Pin, error) {
	if err := e.units.CheckRange(p.Box.Coords()...); err != nil {
		return emit.Label{}, nil, err
	}
	lay, purp, err := e.layerPurpose(p.Layer, p.Purpose)
	if err != nil {
		return emit.Label{}, nil, err
	}
	box := e.units.Box(p.Box)
	label := emit.Label{
		Layer:   lay,
		Purpose: purp,
		Text:    p.Label,
		Origin:  box.Center(),
		Orient:  geom.R0,
		Height:  box.Height(),
		Align:   emit.AlignCenterCenter,
	}
	if box.Height() > box.Width() {
		label.Orient = geom.R90
		label.Height = box.Width()
	}
	if !p.MakePin {
		return label, nil, nil
	}
	return label, &emit.Pin{
		Layer:   lay,
		Purpose: purp,
		Box:     box,
		Term:    p.Net,
		Name:    p.Name,
		Access:  emit.AccessAll,
	}, nil
}

func (e encoder) polygon(p layout.Polygon) (emit.Polygon, error) {
	if err := e.units.CheckRange(slices.Concat(p.X, p.Y)...); err != nil {
		return emit.Polygon{}, err
	}
	lay, purp, err := e.layerPurpose(p.Layer, p.Purpose)
	if err != nil {
		return emit.Polygon{}, err
	}
	return emit.Polygon{Layer: lay, Purpose: purp, Points: e.units.Points(p.X, p.Y)}, nil
}

// blockage encodes an area blockage for type "placement" and a layer
// blockage otherwise. The layer is resolved before the type is checked.
func (e encoder) blockage(b layout.Blockage) (emit.Blockage, error) {
	if err := e.units.CheckRange(slices.Concat(b.X, b.Y)...); err != nil {
		return emit.Blockage{}, err
	}
	pts := e.units.Points(b.X, b.Y)
	if b.Type == string(emit.BlockagePlacement) {
		return emit.Blockage{Type: emit.BlockagePlacement, Points: pts}, nil
	}
	lay, err := e.res.Layer(b.Layer)
	if err != nil {
		return emit.Blockage{}, err
	}
	typ, err := emit.ParseBlockageType(b.Type)
	if err != nil {
		return emit.Blockage{}, err
	}
	return emit.Blockage{Type: typ, Layer: lay, Points: pts}, nil
}

func (e encoder) boundary(b layout.Boundary) (emit.Boundary, error) {
	if err := e.units.CheckRange(slices.Concat(b.X, b.Y)...); err != nil {
		return emit.Boundary{}, err
	}
	kind, err := emit.ParseBoundaryKind(b.Type)
	if err != nil {
		return emit.Boundary{}, err
	}
	return emit.Boundary{Kind: kind, Points: e.units.Points(b.X, b.Y)}, nil
}
