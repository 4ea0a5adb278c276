package geom

import (
	"math"

	"github.com/matzehuels/layoutwriter/pkg/errors"
)

// Coord is a length or position in database units.
type Coord int64

// Point is a location in user units.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Vector is a location or displacement in database units.
type Vector struct {
	X Coord `json:"x" msgpack:"x"`
	Y Coord `json:"y" msgpack:"y"`
}

// Add returns v translated by d.
func (v Vector) Add(d Vector) Vector {
	return Vector{X: v.X + d.X, Y: v.Y + d.Y}
}

// Box is an axis-aligned bounding box in user units.
type Box struct {
	XL float64 `json:"xl" yaml:"xl"`
	YB float64 `json:"yb" yaml:"yb"`
	XR float64 `json:"xr" yaml:"xr"`
	YT float64 `json:"yt" yaml:"yt"`
}

// Valid reports whether the box is well formed (xl ≤ xr and yb ≤ yt).
func (b Box) Valid() bool {
	return b.XL <= b.XR && b.YB <= b.YT
}

// Coords returns xl, yb, xr, yt.
func (b Box) Coords() []float64 {
	return []float64{b.XL, b.YB, b.XR, b.YT}
}

// GridBox is an axis-aligned bounding box in database units.
type GridBox struct {
	Left   Coord `json:"left" msgpack:"left"`
	Bottom Coord `json:"bottom" msgpack:"bottom"`
	Right  Coord `json:"right" msgpack:"right"`
	Top    Coord `json:"top" msgpack:"top"`
}

// Width returns the horizontal extent.
func (b GridBox) Width() Coord { return b.Right - b.Left }

// Height returns the vertical extent.
func (b GridBox) Height() Coord { return b.Top - b.Bottom }

// Center returns the box center, truncated to the grid.
func (b GridBox) Center() Vector {
	return Vector{X: (b.Left + b.Right) / 2, Y: (b.Bottom + b.Top) / 2}
}

// Translate returns b moved by d.
func (b GridBox) Translate(d Vector) GridBox {
	return GridBox{Left: b.Left + d.X, Bottom: b.Bottom + d.Y, Right: b.Right + d.X, Top: b.Top + d.Y}
}

// Default unit settings used when a technology does not say otherwise.
const (
	DefaultDBUPerUU = 1000
	DefaultGridRes  = 1
)

// gridLimit is 2^63, the first magnitude a Coord cannot hold.
const gridLimit = float64(1 << 63)

// ToGrid converts a user-unit value to database units: round(v*scale),
// rounding halves away from zero. Results outside the Coord range saturate
// and NaN maps to 0; use [Units.CheckRange] to reject such values instead.
func ToGrid(v float64, scale int) Coord {
	r := math.Round(v * float64(scale))
	switch {
	case math.IsNaN(r):
		return 0
	case r >= gridLimit:
		return math.MaxInt64
	case r < -gridLimit:
		return math.MinInt64
	}
	return Coord(r)
}

// InRange reports whether v converts to a Coord without saturating.
func InRange(v float64, scale int) bool {
	r := math.Round(v * float64(scale))
	return r >= -gridLimit && r < gridLimit
}

// Units holds the scale of a layout session. DBUPerUU is the number of
// database units per user unit. GridRes is the manufacturing grid
// resolution; it is carried for the backend and not applied here.
type Units struct {
	DBUPerUU int `json:"dbu_per_uu" toml:"dbu_per_uu"`
	GridRes  int `json:"grid_res" toml:"grid_res"`
}

// DefaultUnits returns 1000 database units per user unit and a grid
// resolution of 1.
func DefaultUnits() Units {
	return Units{DBUPerUU: DefaultDBUPerUU, GridRes: DefaultGridRes}
}

// ToGrid converts a user-unit value with the session scale.
func (u Units) ToGrid(v float64) Coord {
	return ToGrid(v, u.DBUPerUU)
}

// CheckRange fails with INVALID_INPUT when any value is not finite or
// does not fit a Coord at the session scale.
func (u Units) CheckRange(vals ...float64) error {
	for _, v := range vals {
		if !InRange(v, u.DBUPerUU) {
			return errors.New(errors.ErrCodeInvalidInput, "coordinate %g is outside the database unit range", v)
		}
	}
	return nil
}

// Point converts a user-unit point.
func (u Units) Point(p Point) Vector {
	return Vector{X: u.ToGrid(p.X), Y: u.ToGrid(p.Y)}
}

// Box converts a user-unit box.
func (u Units) Box(b Box) GridBox {
	return GridBox{
		Left:   u.ToGrid(b.XL),
		Bottom: u.ToGrid(b.YB),
		Right:  u.ToGrid(b.XR),
		Top:    u.ToGrid(b.YT),
	}
}

// Points converts parallel x and y coordinate slices into grid points.
// Extra entries in the longer slice are ignored.
func (u Units) Points(xs, ys []float64) []Vector {
	n := min(len(xs), len(ys))
	pts := make([]Vector, n)
	for i := range n {
		pts[i] = Vector{X: u.ToGrid(xs[i]), Y: u.ToGrid(ys[i])}
	}
	return pts
}
