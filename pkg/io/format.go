package io

import (
	"fmt"

	"github.com/matzehuels/layoutwriter/pkg/geom"
	"github.com/matzehuels/layoutwriter/pkg/layout"
)

type layoutFile struct {
	Insts      []inst     `json:"insts,omitempty" yaml:"insts,omitempty"`
	Rects      []rect     `json:"rects,omitempty" yaml:"rects,omitempty"`
	PathSegs   []pathSeg  `json:"path_segs,omitempty" yaml:"path_segs,omitempty"`
	Vias       []via      `json:"vias,omitempty" yaml:"vias,omitempty"`
	Pins       []pin      `json:"pins,omitempty" yaml:"pins,omitempty"`
	Polygons   []polygon  `json:"polygons,omitempty" yaml:"polygons,omitempty"`
	Blockages  []blockage `json:"blockages,omitempty" yaml:"blockages,omitempty"`
	Boundaries []boundary `json:"boundaries,omitempty" yaml:"boundaries,omitempty"`
}

type array struct {
	NX  int     `json:"nx,omitempty" yaml:"nx,omitempty"`
	NY  int     `json:"ny,omitempty" yaml:"ny,omitempty"`
	SPX float64 `json:"spx,omitempty" yaml:"spx,omitempty"`
	SPY float64 `json:"spy,omitempty" yaml:"spy,omitempty"`
}

type instArray struct {
	Rows   int     `json:"rows,omitempty" yaml:"rows,omitempty"`
	Cols   int     `json:"cols,omitempty" yaml:"cols,omitempty"`
	SpRows float64 `json:"sp_rows,omitempty" yaml:"sp_rows,omitempty"`
	SpCols float64 `json:"sp_cols,omitempty" yaml:"sp_cols,omitempty"`
}

type params struct {
	Ints    map[string]int     `json:"ints,omitempty" yaml:"ints,omitempty"`
	Strings map[string]string  `json:"strings,omitempty" yaml:"strings,omitempty"`
	Doubles map[string]float64 `json:"doubles,omitempty" yaml:"doubles,omitempty"`
}

type inst struct {
	Lib    string     `json:"lib" yaml:"lib"`
	Cell   string     `json:"cell" yaml:"cell"`
	View   string     `json:"view" yaml:"view"`
	Name   string     `json:"name,omitempty" yaml:"name,omitempty"`
	Loc    geom.Point `json:"loc" yaml:"loc"`
	Orient *string    `json:"orient,omitempty" yaml:"orient,omitempty"`
	Array  *instArray `json:"array,omitempty" yaml:"array,omitempty"`
	Params *params    `json:"params,omitempty" yaml:"params,omitempty"`
}

type rect struct {
	Layer   string   `json:"layer" yaml:"layer"`
	Purpose string   `json:"purpose" yaml:"purpose"`
	Box     geom.Box `json:"box" yaml:"box"`
	Array   *array   `json:"array,omitempty" yaml:"array,omitempty"`
}

type pathSeg struct {
	Layer   string     `json:"layer" yaml:"layer"`
	Purpose string     `json:"purpose" yaml:"purpose"`
	P0      geom.Point `json:"p0" yaml:"p0"`
	P1      geom.Point `json:"p1" yaml:"p1"`
	Width   float64    `json:"width" yaml:"width"`
	Begin   string     `json:"begin,omitempty" yaml:"begin,omitempty"`
	End     string     `json:"end,omitempty" yaml:"end,omitempty"`
}

type viaCut struct {
	Rows      int      `json:"rows,omitempty" yaml:"rows,omitempty"`
	Cols      int      `json:"cols,omitempty" yaml:"cols,omitempty"`
	SpRows    float64  `json:"sp_rows,omitempty" yaml:"sp_rows,omitempty"`
	SpCols    float64  `json:"sp_cols,omitempty" yaml:"sp_cols,omitempty"`
	Enc1      geom.Box `json:"enc1" yaml:"enc1"`
	Enc2      geom.Box `json:"enc2" yaml:"enc2"`
	CutWidth  float64  `json:"cut_width,omitempty" yaml:"cut_width,omitempty"`
	CutHeight float64  `json:"cut_height,omitempty" yaml:"cut_height,omitempty"`
}

type via struct {
	ViaID  string     `json:"via" yaml:"via"`
	Loc    geom.Point `json:"loc" yaml:"loc"`
	Orient *string    `json:"orient,omitempty" yaml:"orient,omitempty"`
	Cut    viaCut     `json:"cut" yaml:"cut"`
	Array  *array     `json:"array,omitempty" yaml:"array,omitempty"`
}

type pin struct {
	Net     string   `json:"net" yaml:"net"`
	Name    string   `json:"name" yaml:"name"`
	Label   string   `json:"label" yaml:"label"`
	Layer   string   `json:"layer" yaml:"layer"`
	Purpose string   `json:"purpose" yaml:"purpose"`
	Box     geom.Box `json:"box" yaml:"box"`
	MakePin bool     `json:"make_pin,omitempty" yaml:"make_pin,omitempty"`
}

type polygon struct {
	Layer   string    `json:"layer" yaml:"layer"`
	Purpose string    `json:"purpose" yaml:"purpose"`
	X       []float64 `json:"x" yaml:"x"`
	Y       []float64 `json:"y" yaml:"y"`
}

type blockage struct {
	Type  string    `json:"type" yaml:"type"`
	Layer string    `json:"layer,omitempty" yaml:"layer,omitempty"`
	X     []float64 `json:"x" yaml:"x"`
	Y     []float64 `json:"y" yaml:"y"`
}

type boundary struct {
	Type string    `json:"type" yaml:"type"`
	X    []float64 `json:"x" yaml:"x"`
	Y    []float64 `json:"y" yaml:"y"`
}

// build replays the file through the layout constructors.
func (f *layoutFile) build() (*layout.Layout, error) {
	l := layout.New()
	for i, in := range f.Insts {
		var arr layout.InstArray
		if in.Array != nil {
			arr = layout.InstArray(*in.Array)
		}
		var p layout.Params
		if in.Params != nil {
			p = layout.Params(*in.Params)
		}
		master := layout.Master{Lib: in.Lib, Cell: in.Cell, View: in.View}
		if err := l.AddInst(master, in.Name, in.Loc, orientName(in.Orient), p, arr); err != nil {
			return nil, fmt.Errorf("insts[%d]: %w", i, err)
		}
	}
	for i, r := range f.Rects {
		if err := l.AddRect(r.Layer, r.Purpose, r.Box, r.Array.geom()); err != nil {
			return nil, fmt.Errorf("rects[%d]: %w", i, err)
		}
	}
	for i, s := range f.PathSegs {
		if err := l.AddPathSeg(s.Layer, s.Purpose, s.P0, s.P1, s.Width, s.Begin, s.End); err != nil {
			return nil, fmt.Errorf("path_segs[%d]: %w", i, err)
		}
	}
	for i, v := range f.Vias {
		if err := l.AddVia(v.ViaID, v.Loc, orientName(v.Orient), geom.ViaCut(v.Cut), v.Array.geom()); err != nil {
			return nil, fmt.Errorf("vias[%d]: %w", i, err)
		}
	}
	for i, p := range f.Pins {
		if err := l.AddPin(p.Net, p.Name, p.Label, p.Layer, p.Purpose, p.Box, p.MakePin); err != nil {
			return nil, fmt.Errorf("pins[%d]: %w", i, err)
		}
	}
	for i, p := range f.Polygons {
		if err := l.AddPolygon(p.Layer, p.Purpose, p.X, p.Y); err != nil {
			return nil, fmt.Errorf("polygons[%d]: %w", i, err)
		}
	}
	for i, b := range f.Blockages {
		if err := l.AddBlockage(b.Type, b.Layer, b.X, b.Y); err != nil {
			return nil, fmt.Errorf("blockages[%d]: %w", i, err)
		}
	}
	for i, b := range f.Boundaries {
		if err := l.AddBoundary(b.Type, b.X, b.Y); err != nil {
			return nil, fmt.Errorf("boundaries[%d]: %w", i, err)
		}
	}
	return l, nil
}

// orientName returns the stored orientation, R0 when the field is absent.
// An explicit empty string is passed on and rejected by the codec.
func orientName(s *string) string {
	if s == nil {
		return geom.R0.String()
	}
	return *s
}

func orientRef(o geom.Orient) *string {
	name := o.String()
	return &name
}

func (a *array) geom() geom.Array {
	if a == nil {
		return geom.Array{}
	}
	return geom.Array(*a)
}

func fromLayout(l *layout.Layout) *layoutFile {
	f := &layoutFile{}
	for _, in := range l.Insts {
		out := inst{
			Lib:    in.Master.Lib,
			Cell:   in.Master.Cell,
			View:   in.Master.View,
			Name:   in.Name,
			Loc:    in.Loc,
			Orient: orientRef(in.Orient),
		}
		if in.Array != (layout.InstArray{Rows: 1, Cols: 1}) {
			a := instArray(in.Array)
			out.Array = &a
		}
		if in.Params.Len() > 0 {
			p := params(in.Params)
			out.Params = &p
		}
		f.Insts = append(f.Insts, out)
	}
	for _, r := range l.Rects {
		f.Rects = append(f.Rects, rect{Layer: r.Layer, Purpose: r.Purpose, Box: r.Box, Array: fromArray(r.Array)})
	}
	for _, s := range l.PathSegs {
		f.PathSegs = append(f.PathSegs, pathSeg(s))
	}
	for _, v := range l.Vias {
		f.Vias = append(f.Vias, via{
			ViaID:  v.ViaID,
			Loc:    v.Loc,
			Orient: orientRef(v.Orient),
			Cut:    viaCut(v.Cut),
			Array:  fromArray(v.Array),
		})
	}
	for _, p := range l.Pins {
		f.Pins = append(f.Pins, pin(p))
	}
	for _, p := range l.Polygons {
		f.Polygons = append(f.Polygons, polygon(p))
	}
	for _, b := range l.Blockages {
		f.Blockages = append(f.Blockages, blockage(b))
	}
	for _, b := range l.Boundaries {
		f.Boundaries = append(f.Boundaries, boundary(b))
	}
	return f
}

func fromArray(a geom.Array) *array {
	if a == (geom.Array{NX: 1, NY: 1}) {
		return nil
	}
	out := array(a)
	return &out
}
