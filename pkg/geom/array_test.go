package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandSingle(t *testing.T) {
	assert.Empty(t, Expand(1, 1, 0.5, 0.5))
	assert.Empty(t, Expand(1, 1, 0, 0))
	assert.Empty(t, Expand(0, 3, 1, 1))
}

func TestExpandOrder(t *testing.T) {
	got := Expand(3, 2, 0.3, 0.6)
	want := []Offset{
		{0, 0.6},
		{0.3, 0}, {0.3, 0.6},
		{0.6, 0}, {0.6, 0.6},
	}
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i].DX, got[i].DX, 1e-12, "offset %d dx", i)
		assert.InDelta(t, want[i].DY, got[i].DY, 1e-12, "offset %d dy", i)
	}
}

func TestExpandCounts(t *testing.T) {
	tests := []struct{ nx, ny int }{{1, 4}, {4, 1}, {2, 2}, {4, 5}}
	for _, tt := range tests {
		assert.Len(t, Expand(tt.nx, tt.ny, 1, 1), tt.nx*tt.ny-1)
		assert.Equal(t, tt.nx*tt.ny, Array{NX: tt.nx, NY: tt.ny}.Count())
	}
	assert.Equal(t, 1, Array{}.Count())
}

func TestGridOffsets(t *testing.T) {
	u := DefaultUnits()
	got := u.GridOffsets(Array{NX: 2, NY: 3, SPX: 0.3333, SPY: 0.1})
	want := []Vector{
		{0, 100}, {0, 200},
		{333, 0}, {333, 100}, {333, 200},
	}
	assert.Equal(t, want, got)
	assert.Empty(t, u.GridOffsets(Array{NX: 1, NY: 1, SPX: 1}))
}
