package record

import (
	"bytes"
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/layoutwriter/pkg/emit"
	"github.com/matzehuels/layoutwriter/pkg/errors"
	"github.com/matzehuels/layoutwriter/pkg/geom"
)

func fill(t *testing.T, blk emit.Block) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, blk.CreateInst(ctx, emit.Inst{
		Lib: "std", Cell: "inv", View: "layout", Name: "I0",
		Origin: geom.Vector{X: 10, Y: 20}, Orient: geom.R90, Rows: 1, Cols: 1,
		Params: []emit.Param{emit.IntParam("nf", 2), emit.StringParam("model", "nch")},
	}))
	require.NoError(t, blk.CreateRect(ctx, emit.Rect{Layer: 8, Box: geom.GridBox{Right: 100, Top: 50}}))
	require.NoError(t, blk.CreatePathSeg(ctx, emit.PathSeg{Layer: 10, Style: geom.PathStyle{
		Stop: geom.Vector{X: 500}, Width: 200, DiagExt: 141,
		Begin: geom.EndCap{Style: geom.Extend, Ext: 100},
	}}))
	require.NoError(t, blk.CreateVia(ctx, emit.Via{Def: "M1_M2", Params: geom.ViaParams{CutRows: 2, CutCols: 1}}))
	require.NoError(t, blk.CreateLabel(ctx, emit.Label{Layer: 8, Purpose: 2, Text: "VDD", Height: 50, Align: emit.AlignCenterCenter}))
	require.NoError(t, blk.CreatePin(ctx, emit.Pin{Layer: 8, Purpose: 2, Term: "VDD", Name: "VDD", Access: emit.AccessAll}))
	require.NoError(t, blk.CreatePolygon(ctx, emit.Polygon{Layer: 12, Points: []geom.Vector{{}, {X: 1}, {X: 1, Y: 1}}}))
	require.NoError(t, blk.CreateBlockage(ctx, emit.Blockage{Type: emit.BlockagePlacement, Points: []geom.Vector{{}, {X: 4}, {X: 4, Y: 4}}}))
	require.NoError(t, blk.CreateBoundary(ctx, emit.Boundary{Kind: emit.BoundaryPR, Points: []geom.Vector{{}, {X: 9}, {X: 9, Y: 9}}}))
}

func TestRecordsCallsInOrder(t *testing.T) {
	b := New()
	blk, err := b.Open(context.Background(), "top", "layout")
	require.NoError(t, err)
	fill(t, blk)
	require.NoError(t, blk.SaveAndClose(context.Background()))

	d, ok := b.Design("top", "layout")
	require.True(t, ok)
	assert.True(t, d.Saved)
	assert.Equal(t, []Op{OpInst, OpRect, OpPathSeg, OpVia, OpLabel, OpPin, OpPolygon, OpBlockage, OpBoundary}, d.Ops())
	assert.Equal(t, 1, d.Count(OpRect))
	assert.Equal(t, []string{"VDD"}, d.Nets)
	assert.Equal(t, []Term{{Name: "VDD", Net: "VDD"}}, d.Terms)
}

func TestPinReusesTerminal(t *testing.T) {
	ctx := context.Background()
	b := New()
	blk, err := b.Open(ctx, "top", "layout")
	require.NoError(t, err)

	for _, name := range []string{"A", "A", "B", "A"} {
		require.NoError(t, blk.CreatePin(ctx, emit.Pin{Term: name, Name: name}))
	}
	d, _ := b.Design("top", "layout")
	assert.Len(t, d.Pins, 4)
	assert.Equal(t, []string{"A", "B"}, d.Nets)
	assert.Len(t, d.Terms, 2)
}

func TestOpenReplacesDesign(t *testing.T) {
	ctx := context.Background()
	b := New()

	blk, err := b.Open(ctx, "top", "layout")
	require.NoError(t, err)
	require.NoError(t, blk.CreateRect(ctx, emit.Rect{}))

	_, err = b.Open(ctx, "other", "layout")
	require.NoError(t, err)

	blk, err = b.Open(ctx, "top", "layout")
	require.NoError(t, err)
	d, _ := b.Design("top", "layout")
	assert.Empty(t, d.Calls)

	var keys []string
	for _, d := range b.Designs() {
		keys = append(keys, d.Key())
	}
	assert.Equal(t, []string{"top/layout", "other/layout"}, keys)
	require.NoError(t, blk.SaveAndClose(ctx))
}

func TestClosedBlockRejectsCalls(t *testing.T) {
	ctx := context.Background()
	b := New()
	blk, err := b.Open(ctx, "top", "layout")
	require.NoError(t, err)
	require.NoError(t, blk.SaveAndClose(ctx))

	err = blk.CreateRect(ctx, emit.Rect{})
	assert.True(t, errors.Is(err, errors.ErrCodeBackend))
	err = blk.SaveAndClose(ctx)
	assert.True(t, errors.Is(err, errors.ErrCodeBackend))
}

func TestDiscard(t *testing.T) {
	ctx := context.Background()
	b := New()
	blk, err := b.Open(ctx, "top", "layout")
	require.NoError(t, err)
	require.NoError(t, blk.CreateRect(ctx, emit.Rect{}))
	require.NoError(t, blk.(emit.Discarder).Discard(ctx))

	d, _ := b.Design("top", "layout")
	assert.True(t, d.Discarded)
	assert.False(t, d.Saved)
	assert.Equal(t, 1, d.Count(OpRect))

	assert.True(t, errors.Is(blk.SaveAndClose(ctx), errors.ErrCodeBackend))
	assert.True(t, errors.Is(blk.(emit.Discarder).Discard(ctx), errors.ErrCodeBackend))
}

func TestFaults(t *testing.T) {
	ctx := context.Background()
	boom := stderrors.New("boom")

	t.Run("open", func(t *testing.T) {
		b := New()
		b.Fault = FailOn(OpOpen, boom)
		_, err := b.Open(ctx, "top", "layout")
		assert.ErrorIs(t, err, boom)
		assert.Empty(t, b.Designs())
	})

	t.Run("nth call keeps earlier calls", func(t *testing.T) {
		b := New()
		b.Fault = FailAt(2, boom)
		blk, err := b.Open(ctx, "top", "layout")
		require.NoError(t, err)

		require.NoError(t, blk.CreateRect(ctx, emit.Rect{}))
		require.NoError(t, blk.CreateRect(ctx, emit.Rect{}))
		assert.ErrorIs(t, blk.CreateRect(ctx, emit.Rect{}), boom)

		d, _ := b.Design("top", "layout")
		assert.Equal(t, 2, d.Count(OpRect))
		assert.False(t, d.Saved)
	})

	t.Run("save", func(t *testing.T) {
		b := New()
		b.Fault = FailOn(OpSave, boom)
		blk, err := b.Open(ctx, "top", "layout")
		require.NoError(t, err)
		assert.ErrorIs(t, blk.SaveAndClose(ctx), boom)
	})
}

func TestDumpRoundTrip(t *testing.T) {
	ctx := context.Background()
	b := New()
	blk, err := b.Open(ctx, "top", "layout")
	require.NoError(t, err)
	fill(t, blk)
	require.NoError(t, blk.SaveAndClose(ctx))

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, b.WriteJSON(&buf))
		designs, err := ReadJSON(&buf)
		require.NoError(t, err)
		assert.Equal(t, b.Designs(), designs)
	})

	t.Run("msgpack", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, b.WriteMsgpack(&buf))
		designs, err := ReadMsgpack(&buf)
		require.NoError(t, err)
		assert.Equal(t, b.Designs(), designs)
	})
}

func TestReadMsgpackInvalid(t *testing.T) {
	_, err := ReadMsgpack(bytes.NewReader([]byte{0xc1}))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
}
