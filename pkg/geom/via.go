package geom

// Enclosure is a per-layer via enclosure in center plus half-extent form.
type Enclosure struct {
	Center Point
	Half   Point
}

// EncodeEnclosure converts an enclosure bounding box, given relative to the
// via origin, into its center and half extent.
func EncodeEnclosure(b Box) Enclosure {
	return Enclosure{
		Center: Point{X: (b.XR + b.XL) / 2, Y: (b.YT + b.YB) / 2},
		Half:   Point{X: (b.XR - b.XL) / 2, Y: (b.YT - b.YB) / 2},
	}
}

// ViaCut describes the cut array of a standard via in user units.
//
// SpRows and SpCols are the caller's spacing values. They land on the
// encoded spacing as x = SpCols and y = SpRows.
type ViaCut struct {
	Rows, Cols     int
	SpRows, SpCols float64
	Enc1, Enc2     Box

	// CutWidth and CutHeight override the via definition's cut size when
	// positive. Zero or negative means "use the default".
	CutWidth, CutHeight float64
}

// ViaParams is the encoded parameter set of a standard via in database units.
//
// Layer1Enc/Layer2Enc carry the enclosure centers and Layer1Offset/
// Layer2Offset the half extents, matching the backend's parameter slots.
type ViaParams struct {
	CutRows    int    `json:"cut_rows" msgpack:"cut_rows"`
	CutCols    int    `json:"cut_cols" msgpack:"cut_cols"`
	CutSpacing Vector `json:"cut_spacing" msgpack:"cut_spacing"`

	Layer1Enc    Vector `json:"layer1_enc" msgpack:"layer1_enc"`
	Layer1Offset Vector `json:"layer1_offset" msgpack:"layer1_offset"`
	Layer2Enc    Vector `json:"layer2_enc" msgpack:"layer2_enc"`
	Layer2Offset Vector `json:"layer2_offset" msgpack:"layer2_offset"`

	// Zero means the override is absent.
	CutWidth  Coord `json:"cut_width,omitempty" msgpack:"cut_width,omitempty"`
	CutHeight Coord `json:"cut_height,omitempty" msgpack:"cut_height,omitempty"`
}

// HasCutWidth reports whether a cut width override is present.
func (p ViaParams) HasCutWidth() bool { return p.CutWidth > 0 }

// HasCutHeight reports whether a cut height override is present.
func (p ViaParams) HasCutHeight() bool { return p.CutHeight > 0 }

// EncodeVia converts a cut description into backend via parameters.
func (u Units) EncodeVia(c ViaCut) ViaParams {
	e1, e2 := EncodeEnclosure(c.Enc1), EncodeEnclosure(c.Enc2)
	p := ViaParams{
		CutRows:      c.Rows,
		CutCols:      c.Cols,
		CutSpacing:   Vector{X: u.ToGrid(c.SpCols), Y: u.ToGrid(c.SpRows)},
		Layer1Enc:    u.Point(e1.Center),
		Layer1Offset: u.Point(e1.Half),
		Layer2Enc:    u.Point(e2.Center),
		Layer2Offset: u.Point(e2.Half),
	}
	if c.CutWidth > 0 {
		p.CutWidth = u.ToGrid(c.CutWidth)
	}
	if c.CutHeight > 0 {
		p.CutHeight = u.ToGrid(c.CutHeight)
	}
	return p
}
