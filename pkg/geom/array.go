package geom

// Array describes an nx × ny repetition of a figure with spacing spx, spy in
// user units. The zero value and {1, 1, ...} both mean a single figure.
type Array struct {
	NX  int     `json:"nx,omitempty" yaml:"nx,omitempty"`
	NY  int     `json:"ny,omitempty" yaml:"ny,omitempty"`
	SPX float64 `json:"spx,omitempty" yaml:"spx,omitempty"`
	SPY float64 `json:"spy,omitempty" yaml:"spy,omitempty"`
}

// Count returns the number of figures the array realizes.
func (a Array) Count() int {
	if a.NX < 1 || a.NY < 1 {
		return 1
	}
	return a.NX * a.NY
}

// Offset is a displacement in user units.
type Offset struct {
	DX, DY float64
}

// Expand returns the offsets of the copies of a repeated figure, relative to
// the base figure at (0, 0). The base itself is not included, so the result
// has nx*ny-1 entries, or none for a single figure.
//
// The order is fixed: column 0 rows 1..ny-1, then for each column i ≥ 1 rows
// 0..ny-1. Backends that copy figures rely on it.
func Expand(nx, ny int, spx, spy float64) []Offset {
	var out []Offset
	walk(nx, ny, func(i, j int) {
		out = append(out, Offset{DX: float64(i) * spx, DY: float64(j) * spy})
	})
	return out
}

// GridOffsets is [Expand] in database units. The spacing is converted once
// and multiplied by the integer index, so copies never drift from the grid.
func (u Units) GridOffsets(a Array) []Vector {
	spx, spy := u.ToGrid(a.SPX), u.ToGrid(a.SPY)
	var out []Vector
	walk(a.NX, a.NY, func(i, j int) {
		out = append(out, Vector{X: Coord(i) * spx, Y: Coord(j) * spy})
	})
	return out
}

// walk visits the copy indices of an nx × ny array, skipping (0, 0).
func walk(nx, ny int, fn func(i, j int)) {
	if nx < 1 || ny < 1 || (nx == 1 && ny == 1) {
		return
	}
	for j := 1; j < ny; j++ {
		fn(0, j)
	}
	for i := 1; i < nx; i++ {
		for j := 0; j < ny; j++ {
			fn(i, j)
		}
	}
}
