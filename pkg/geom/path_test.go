package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEndStyle(t *testing.T) {
	tests := []struct {
		tag  string
		want EndStyle
	}{
		{"", Truncate},
		{"truncate", Truncate},
		{"extend", Extend},
		{"round", Round},
		{"Round", Truncate},
		{"variable", Truncate},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseEndStyle(tt.tag), "ParseEndStyle(%q)", tt.tag)
	}
}

func TestEncodePathSegOrthogonal(t *testing.T) {
	u := Units{DBUPerUU: 1000, GridRes: 1}
	s := u.EncodePathSeg(Point{0, 0}, Point{1, 0}, 0.1, "", "")

	assert.False(t, s.Diagonal)
	assert.Equal(t, Coord(100), s.Width)
	assert.Equal(t, Coord(71), s.DiagExt)
	assert.Equal(t, Vector{0, 0}, s.Start)
	assert.Equal(t, Vector{1000, 0}, s.Stop)
	assert.Equal(t, EndCap{Style: Truncate}, s.Begin)
	assert.Equal(t, EndCap{Style: Truncate}, s.End)
}

func TestEncodePathSegDiagonal(t *testing.T) {
	u := Units{DBUPerUU: 1000, GridRes: 1}
	s := u.EncodePathSeg(Point{0, 0}, Point{1, 1}, 0.1, "", "")

	assert.True(t, s.Diagonal)
	assert.Equal(t, Coord(142), s.Width)
	assert.Equal(t, Coord(50), s.DiagExt)
}

func TestEncodePathSegEvenWidth(t *testing.T) {
	u := DefaultUnits()
	for _, w := range []float64{0.001, 0.003, 0.045, 0.0999, 0.13} {
		orth := u.EncodePathSeg(Point{0, 0}, Point{0, 2}, w, "", "")
		diag := u.EncodePathSeg(Point{0, 0}, Point{2, 2}, w, "", "")
		assert.Zero(t, orth.Width%2, "orthogonal width %v", w)
		assert.Zero(t, diag.Width%2, "diagonal width %v", w)
	}
}

func TestEncodePathSegCaps(t *testing.T) {
	u := DefaultUnits()
	s := u.EncodePathSeg(Point{0, 0}, Point{0, 1}, 0.1, "extend", "round")

	assert.Equal(t, EndCap{Style: Extend, Ext: 50}, s.Begin)
	assert.Equal(t, EndCap{
		Style:        Round,
		Ext:          50,
		LeftDiagExt:  71,
		RightDiagExt: 71,
		HalfWidth:    50,
	}, s.End)

	s = u.EncodePathSeg(Point{0, 0}, Point{0, 1}, 0.1, "round", "bogus")
	assert.Equal(t, Round, s.Begin.Style)
	assert.Equal(t, EndCap{Style: Truncate}, s.End)
}

func TestEncodePathSegGridClassification(t *testing.T) {
	// the x difference rounds away on the grid, so the segment is orthogonal
	u := DefaultUnits()
	s := u.EncodePathSeg(Point{0, 0}, Point{0.0001, 1}, 0.1, "", "")
	assert.False(t, s.Diagonal)
	assert.Equal(t, Coord(100), s.Width)
}
