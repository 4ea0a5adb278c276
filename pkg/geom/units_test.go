package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matzehuels/layoutwriter/pkg/errors"
)

func TestToGrid(t *testing.T) {
	tests := []struct {
		name  string
		v     float64
		scale int
		want  Coord
	}{
		{"zero", 0, 1000, 0},
		{"zero any scale", 0, 7, 0},
		{"exact", 1.5, 1000, 1500},
		{"float noise", 0.1, 1000, 100},
		{"half up", 0.0005, 1000, 1},
		{"half away from zero", -0.0005, 1000, -1},
		{"round down", 0.0704, 1000, 70},
		{"negative", -2.25, 100, -225},
		{"overflow saturates", 1e16, 1000, math.MaxInt64},
		{"negative overflow saturates", -1e16, 1000, math.MinInt64},
		{"inf saturates", math.Inf(1), 1000, math.MaxInt64},
		{"negative inf saturates", math.Inf(-1), 1000, math.MinInt64},
		{"nan", math.NaN(), 1000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToGrid(tt.v, tt.scale))
		})
	}
}

func TestUnitsConversions(t *testing.T) {
	u := DefaultUnits()
	assert.Equal(t, 1000, u.DBUPerUU)
	assert.Equal(t, 1, u.GridRes)

	assert.Equal(t, Vector{X: 100, Y: -250}, u.Point(Point{X: 0.1, Y: -0.25}))
	assert.Equal(t, GridBox{Left: 0, Bottom: 100, Right: 2000, Top: 400}, u.Box(Box{XL: 0, YB: 0.1, XR: 2, YT: 0.4}))
	assert.Equal(t, []Vector{{0, 0}, {1000, 0}, {1000, 500}}, u.Points([]float64{0, 1, 1}, []float64{0, 0, 0.5}))
	assert.Len(t, u.Points([]float64{0, 1, 2}, []float64{0}), 1)
}

func TestGridResNotApplied(t *testing.T) {
	u := Units{DBUPerUU: 1000, GridRes: 5}
	// 0.001 is one database unit, off a 5-unit manufacturing grid.
	assert.Equal(t, Coord(1), u.ToGrid(0.001))
}

func TestGridBox(t *testing.T) {
	b := GridBox{Left: 0, Bottom: 0, Right: 101, Top: 40}
	assert.Equal(t, Coord(101), b.Width())
	assert.Equal(t, Coord(40), b.Height())
	assert.Equal(t, Vector{X: 50, Y: 20}, b.Center())
	assert.Equal(t, GridBox{Left: 10, Bottom: -5, Right: 111, Top: 35}, b.Translate(Vector{X: 10, Y: -5}))
}

func TestBoxValid(t *testing.T) {
	assert.True(t, Box{0, 0, 1, 1}.Valid())
	assert.True(t, Box{1, 1, 1, 1}.Valid())
	assert.False(t, Box{2, 0, 1, 1}.Valid())
	assert.False(t, Box{0, 2, 1, 1}.Valid())
}

func TestCheckRange(t *testing.T) {
	u := DefaultUnits()
	tests := []struct {
		name string
		vals []float64
		ok   bool
	}{
		{"empty", nil, true},
		{"ordinary", []float64{0, -3.5, 1e6}, true},
		{"largest user value", []float64{9e15}, true},
		{"overflow", []float64{0, 1e16}, false},
		{"negative overflow", []float64{-1e16}, false},
		{"inf", []float64{math.Inf(1)}, false},
		{"nan", []float64{1, math.NaN()}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := u.CheckRange(tt.vals...)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "got %v", err)
		})
	}
}
