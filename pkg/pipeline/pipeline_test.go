package pipeline

import (
	"context"
	stderrors "errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/layoutwriter/pkg/cache"
	"github.com/matzehuels/layoutwriter/pkg/emit"
	"github.com/matzehuels/layoutwriter/pkg/emit/record"
	"github.com/matzehuels/layoutwriter/pkg/errors"
	"github.com/matzehuels/layoutwriter/pkg/geom"
	"github.com/matzehuels/layoutwriter/pkg/layout"
	"github.com/matzehuels/layoutwriter/pkg/observability"
	"github.com/matzehuels/layoutwriter/pkg/tech"
)

func testTech() *tech.Tech {
	tc := tech.New("test")
	tc.AddLayer("M1", 8)
	tc.AddLayer("M2", 10)
	tc.AddPurpose("drawing", 0)
	tc.AddPurpose("pin", 2)
	tc.AddViaDef(tech.ViaDef{Name: "M1_M2", Layer1: "M1", Layer2: "M2", Cut: "V1"})
	return tc
}

var unitBox = geom.Box{XL: 0, YB: 0, XR: 1, YT: 1}

func emitInto(t *testing.T, l *layout.Layout) (*Result, *record.Design, error) {
	t.Helper()
	b := record.New()
	res, err := NewRunner(nil, nil, nil).Emit(context.Background(), b, testTech(), Options{Cell: "top"}, l)
	d, _ := b.Design("top", DefaultView)
	return res, d, err
}

func repeat(op record.Op, n int) []record.Op {
	out := make([]record.Op, n)
	for i := range out {
		out[i] = op
	}
	return out
}

func TestEmitEndToEndCallCount(t *testing.T) {
	l := layout.New()
	require.NoError(t, l.AddPin("VDD", "VDD", "VDD", "M1", "pin", geom.Box{XR: 2, YT: 1}, true))
	require.NoError(t, l.AddVia("M1_M2", geom.Point{}, "R0", geom.ViaCut{
		Enc1: geom.Box{XL: -0.1, YB: -0.1, XR: 0.1, YT: 0.1},
		Enc2: geom.Box{XL: -0.1, YB: -0.1, XR: 0.1, YT: 0.1},
	}, geom.Array{NX: 4, NY: 5, SPX: 1, SPY: 1}))
	require.NoError(t, l.AddRect("M1", "drawing", unitBox, geom.Array{NX: 3, NY: 2, SPX: 2, SPY: 2}))

	res, d, err := emitInto(t, l)
	require.NoError(t, err)

	want := append(repeat(record.OpRect, 6), repeat(record.OpVia, 20)...)
	want = append(want, record.OpLabel, record.OpPin)
	assert.Equal(t, want, d.Ops())
	assert.Equal(t, 28, res.Stats.Figures)
	assert.Equal(t, map[layout.Kind]int{layout.KindRect: 1, layout.KindVia: 1, layout.KindPin: 1}, res.Stats.Emitted)
	assert.Empty(t, res.Diagnostics)
	assert.True(t, d.Saved)
	assert.Equal(t, "top", res.Cell)
	assert.Equal(t, "layout", res.View)
	assert.NotEmpty(t, res.RunID)
}

func TestEmitKindOrder(t *testing.T) {
	l := layout.New()
	require.NoError(t, l.AddBoundary("PR", []float64{0, 1, 1}, []float64{0, 0, 1}))
	require.NoError(t, l.AddBlockage("placement", "", []float64{0, 1, 1}, []float64{0, 0, 1}))
	require.NoError(t, l.AddPolygon("M1", "drawing", []float64{0, 1, 1}, []float64{0, 0, 1}))
	require.NoError(t, l.AddPin("A", "A", "A", "M1", "pin", unitBox, false))
	require.NoError(t, l.AddPathSeg("M1", "drawing", geom.Point{}, geom.Point{X: 1}, 0.1, "", ""))
	require.NoError(t, l.AddRect("M1", "drawing", unitBox, geom.Array{}))
	require.NoError(t, l.AddInst(layout.Master{Lib: "l", Cell: "c", View: "v"}, "I0", geom.Point{}, "R0", layout.Params{}, layout.InstArray{}))

	_, d, err := emitInto(t, l)
	require.NoError(t, err)
	assert.Equal(t, []record.Op{
		record.OpInst, record.OpRect, record.OpPathSeg, record.OpLabel,
		record.OpPolygon, record.OpBlockage, record.OpBoundary,
	}, d.Ops())
}

func TestEmitInsertionOrderWithinKind(t *testing.T) {
	l := layout.New()
	for i := range 3 {
		x := float64(i)
		require.NoError(t, l.AddRect("M1", "drawing", geom.Box{XL: x, XR: x + 1, YT: 1}, geom.Array{}))
	}
	_, d, err := emitInto(t, l)
	require.NoError(t, err)
	require.Len(t, d.Rects, 3)
	for i, r := range d.Rects {
		assert.Equal(t, geom.Coord(i*1000), r.Box.Left)
	}
}

func TestEmitSkipsUnknownLayer(t *testing.T) {
	l := layout.New()
	require.NoError(t, l.AddRect("M9", "drawing", unitBox, geom.Array{NX: 2}))
	require.NoError(t, l.AddRect("M1", "drawing", unitBox, geom.Array{}))

	res, d, err := emitInto(t, l)
	require.NoError(t, err)

	assert.Equal(t, []record.Op{record.OpRect}, d.Ops())
	assert.Equal(t, geom.Coord(1000), d.Rects[0].Box.Right)
	require.Len(t, res.Diagnostics, 1)
	diag := res.Diagnostics[0]
	assert.Equal(t, layout.KindRect, diag.Kind)
	assert.Equal(t, 0, diag.Index)
	assert.Equal(t, errors.ErrCodeUnknownLayer, diag.Code)
	assert.Equal(t, "rect[0]: unknown layer M9", diag.String())
	assert.Equal(t, 1, res.SkippedTotal())
	assert.Equal(t, 1, res.EmittedTotal())
	assert.True(t, d.Saved)
}

func TestEmitSoftMisses(t *testing.T) {
	pts := []float64{0, 1, 1}
	tests := []struct {
		name  string
		build func(l *layout.Layout) error
		kind  layout.Kind
		code  errors.Code
	}{
		{"unknown purpose", func(l *layout.Layout) error {
			return l.AddRect("M1", "fill", unitBox, geom.Array{})
		}, layout.KindRect, errors.ErrCodeUnknownPurpose},
		{"path unknown layer", func(l *layout.Layout) error {
			return l.AddPathSeg("M7", "drawing", geom.Point{}, geom.Point{X: 1}, 0.1, "", "")
		}, layout.KindPathSeg, errors.ErrCodeUnknownLayer},
		{"unknown via", func(l *layout.Layout) error {
			return l.AddVia("M5_M6", geom.Point{}, "R0", geom.ViaCut{}, geom.Array{NX: 3})
		}, layout.KindVia, errors.ErrCodeUnknownViaDef},
		{"pin unknown purpose", func(l *layout.Layout) error {
			return l.AddPin("A", "A", "A", "M1", "label", unitBox, true)
		}, layout.KindPin, errors.ErrCodeUnknownPurpose},
		{"polygon unknown layer", func(l *layout.Layout) error {
			return l.AddPolygon("PO", "drawing", pts, pts)
		}, layout.KindPolygon, errors.ErrCodeUnknownLayer},
		{"blockage unknown layer", func(l *layout.Layout) error {
			return l.AddBlockage("routing", "M9", pts, pts)
		}, layout.KindBlockage, errors.ErrCodeUnknownLayer},
		{"blockage unknown type", func(l *layout.Layout) error {
			return l.AddBlockage("keepout", "M1", pts, pts)
		}, layout.KindBlockage, errors.ErrCodeUnknownBlockage},
		{"boundary unknown type", func(l *layout.Layout) error {
			return l.AddBoundary("cell", pts, pts)
		}, layout.KindBoundary, errors.ErrCodeUnknownBoundary},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := layout.New()
			require.NoError(t, tt.build(l))

			res, d, err := emitInto(t, l)
			require.NoError(t, err)
			assert.Empty(t, d.Calls)
			assert.True(t, d.Saved)
			require.Len(t, res.Diagnostics, 1)
			assert.Equal(t, tt.kind, res.Diagnostics[0].Kind)
			assert.Equal(t, tt.code, res.Diagnostics[0].Code)
			assert.Equal(t, 1, res.Stats.Skipped[tt.kind])
		})
	}
}

func TestEmitBlockages(t *testing.T) {
	pts := []float64{0, 1, 1}
	l := layout.New()
	require.NoError(t, l.AddBlockage("placement", "does-not-matter", pts, pts))
	require.NoError(t, l.AddBlockage("routing", "M2", pts, pts))

	_, d, err := emitInto(t, l)
	require.NoError(t, err)
	require.Len(t, d.Blockages, 2)
	assert.True(t, d.Blockages[0].IsArea())
	assert.Equal(t, uint32(0), d.Blockages[0].Layer)
	assert.Equal(t, emit.BlockageRouting, d.Blockages[1].Type)
	assert.Equal(t, uint32(10), d.Blockages[1].Layer)
	assert.Equal(t, []geom.Vector{{X: 0, Y: 0}, {X: 1000, Y: 1000}, {X: 1000, Y: 1000}}, d.Blockages[1].Points)
}

func TestEmitBoundaries(t *testing.T) {
	pts := []float64{0, 1, 1}
	l := layout.New()
	for _, typ := range []string{"PR", "snap", "area"} {
		require.NoError(t, l.AddBoundary(typ, pts, pts))
	}
	_, d, err := emitInto(t, l)
	require.NoError(t, err)
	require.Len(t, d.Boundaries, 3)
	assert.Equal(t, emit.BoundaryPR, d.Boundaries[0].Kind)
	assert.Equal(t, emit.BoundarySnap, d.Boundaries[1].Kind)
	assert.Equal(t, emit.BoundaryArea, d.Boundaries[2].Kind)
}

func TestEmitInvalidOrientationIsFatal(t *testing.T) {
	l := layout.New()
	require.NoError(t, l.AddRect("M1", "drawing", unitBox, geom.Array{}))
	l.Insts = append(l.Insts, layout.Inst{Orient: geom.Orient(9)})

	res, d, err := emitInto(t, l)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidOrientation))
	assert.Empty(t, d.Calls)
	assert.False(t, d.Saved)
	assert.NotNil(t, res)
}

func TestEmitViaOrientationCheckedBeforeLookup(t *testing.T) {
	l := layout.New()
	l.Vias = append(l.Vias, layout.Via{ViaID: "NOPE", Orient: geom.Orient(42)})

	res, d, err := emitInto(t, l)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidOrientation))
	assert.Empty(t, res.Diagnostics)
	assert.Empty(t, d.Calls)
}

func TestEmitRejectsOutOfRangeCoordinates(t *testing.T) {
	tests := []struct {
		name  string
		build func(t *testing.T, l *layout.Layout)
	}{
		{"rect beyond grid", func(t *testing.T, l *layout.Layout) {
			require.NoError(t, l.AddRect("M1", "drawing", geom.Box{XR: 1e16, YT: 1}, geom.Array{}))
		}},
		{"rect array reaches beyond grid", func(t *testing.T, l *layout.Layout) {
			require.NoError(t, l.AddRect("M1", "drawing", unitBox, geom.Array{NX: 2, SPX: 1e16}))
		}},
		{"inst location", func(t *testing.T, l *layout.Layout) {
			require.NoError(t, l.AddInst(layout.Master{Lib: "a", Cell: "b", View: "c"}, "X0",
				geom.Point{Y: -1e16}, "R0", layout.Params{}, layout.InstArray{}))
		}},
		{"nan path endpoint", func(t *testing.T, l *layout.Layout) {
			l.PathSegs = append(l.PathSegs, layout.PathSeg{
				Layer: "M1", Purpose: "drawing", P1: geom.Point{X: math.NaN()}, Width: 0.1,
			})
		}},
		{"inf via on unknown def", func(t *testing.T, l *layout.Layout) {
			l.Vias = append(l.Vias, layout.Via{ViaID: "NOPE", Loc: geom.Point{X: math.Inf(1)}})
		}},
		{"pin box", func(t *testing.T, l *layout.Layout) {
			require.NoError(t, l.AddPin("A", "A", "A", "M1", "pin", geom.Box{XL: -1e16, XR: 0, YT: 1}, true))
		}},
		{"polygon on unknown layer", func(t *testing.T, l *layout.Layout) {
			require.NoError(t, l.AddPolygon("M9", "drawing", []float64{0, 1e16, 0}, []float64{0, 0, 1}))
		}},
		{"placement blockage", func(t *testing.T, l *layout.Layout) {
			require.NoError(t, l.AddBlockage("placement", "", []float64{0, 1, 1}, []float64{0, 0, 1e17}))
		}},
		{"boundary", func(t *testing.T, l *layout.Layout) {
			l.Boundaries = append(l.Boundaries, layout.Boundary{Type: "PR", X: []float64{math.Inf(-1)}, Y: []float64{0}})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := layout.New()
			tt.build(t, l)

			res, d, err := emitInto(t, l)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "got %v", err)
			assert.Empty(t, res.Diagnostics)
			assert.Empty(t, d.Calls)
			assert.False(t, d.Saved)
		})
	}
}

func TestEmitLargestCoordinateFits(t *testing.T) {
	l := layout.New()
	require.NoError(t, l.AddRect("M1", "drawing", geom.Box{XL: -9e15, XR: 9e15, YT: 1}, geom.Array{}))

	_, d, err := emitInto(t, l)
	require.NoError(t, err)
	require.Len(t, d.Rects, 1)
	got := d.Rects[0].Box
	assert.Equal(t, geom.Coord(-9e18), got.Left)
	assert.Equal(t, geom.Coord(9e18), got.Right)
	assert.Less(t, got.Left, got.Right)
}

func TestEmitBackendFailures(t *testing.T) {
	boom := stderrors.New("disk full")
	build := func(t *testing.T) *layout.Layout {
		l := layout.New()
		require.NoError(t, l.AddRect("M1", "drawing", unitBox, geom.Array{NX: 3, NY: 2, SPX: 2, SPY: 2}))
		require.NoError(t, l.AddPin("A", "A", "A", "M1", "pin", unitBox, true))
		return l
	}

	t.Run("open", func(t *testing.T) {
		b := record.New()
		b.Fault = record.FailOn(record.OpOpen, boom)
		res, err := NewRunner(nil, nil, nil).Emit(context.Background(), b, testTech(), Options{Cell: "top"}, build(t))
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrCodeBackend))
		assert.ErrorIs(t, err, boom)
		require.NotNil(t, res)
		assert.Equal(t, 0, res.Stats.Figures)
	})

	t.Run("mid pass keeps earlier figures", func(t *testing.T) {
		b := record.New()
		b.Fault = record.FailAt(3, boom)
		res, err := NewRunner(nil, nil, nil).Emit(context.Background(), b, testTech(), Options{Cell: "top"}, build(t))
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrCodeBackend))
		assert.Equal(t, 3, res.Stats.Figures)
		assert.Empty(t, res.Stats.Emitted)

		d, _ := b.Design("top", "layout")
		assert.Equal(t, repeat(record.OpRect, 3), d.Ops())
		assert.False(t, d.Saved)
	})

	t.Run("save", func(t *testing.T) {
		b := record.New()
		b.Fault = record.FailOn(record.OpSave, boom)
		res, err := NewRunner(nil, nil, nil).Emit(context.Background(), b, testTech(), Options{Cell: "top"}, build(t))
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrCodeBackend))
		assert.Equal(t, 8, res.Stats.Figures)
	})
}

func TestEmitCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := layout.New()
	require.NoError(t, l.AddRect("M1", "drawing", unitBox, geom.Array{}))
	_, err := NewRunner(nil, nil, nil).Emit(ctx, record.New(), testTech(), Options{Cell: "top"}, l)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEmitUsesContextRunID(t *testing.T) {
	ctx := emit.WithRunID(context.Background(), "run-42")
	res, err := NewRunner(nil, nil, nil).Emit(ctx, record.New(), testTech(), Options{Cell: "top"}, layout.New())
	require.NoError(t, err)
	assert.Equal(t, "run-42", res.RunID)
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	var opts Options
	err := opts.ValidateAndSetDefaults()
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	opts = Options{Cell: "top"}
	require.NoError(t, opts.ValidateAndSetDefaults())
	assert.Equal(t, DefaultView, opts.View)
	assert.NotNil(t, opts.Logger)

	opts = Options{Cell: "top", View: "abstract"}
	require.NoError(t, opts.ValidateAndSetDefaults())
	assert.Equal(t, "abstract", opts.View)
}

type recordingHooks struct {
	observability.NoopEmitHooks
	started, completed int
	skipped            []string
	lastErr            error
}

func (h *recordingHooks) OnEmitStart(context.Context, string, string, int) { h.started++ }
func (h *recordingHooks) OnEntitySkipped(_ context.Context, kind string, _ int, code string) {
	h.skipped = append(h.skipped, kind+":"+code)
}
func (h *recordingHooks) OnEmitComplete(_ context.Context, _, _ string, _ int, _ time.Duration, err error) {
	h.completed++
	h.lastErr = err
}

func TestEmitHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetEmitHooks(hooks)
	defer observability.Reset()

	l := layout.New()
	require.NoError(t, l.AddRect("M9", "drawing", unitBox, geom.Array{}))
	_, _, err := emitInto(t, l)
	require.NoError(t, err)

	assert.Equal(t, 1, hooks.started)
	assert.Equal(t, 1, hooks.completed)
	assert.Equal(t, []string{"rect:UNKNOWN_LAYER"}, hooks.skipped)
	assert.NoError(t, hooks.lastErr)
}

func TestEmitCached(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	runner := NewRunner(fc, nil, nil)

	l := layout.New()
	require.NoError(t, l.AddRect("M1", "drawing", unitBox, geom.Array{NX: 2}))
	require.NoError(t, l.AddRect("M9", "drawing", unitBox, geom.Array{}))
	require.NoError(t, l.AddPin("A", "A", "A", "M1", "pin", unitBox, true))

	first := record.New()
	res1, err := runner.EmitCached(ctx, first, testTech(), Options{Cell: "top"}, l)
	require.NoError(t, err)
	assert.False(t, res1.CacheHit)

	second := record.New()
	res2, err := runner.EmitCached(ctx, second, testTech(), Options{Cell: "top"}, l)
	require.NoError(t, err)
	assert.True(t, res2.CacheHit)
	assert.Equal(t, res1.Stats.Figures, res2.Stats.Figures)
	assert.Equal(t, res1.Stats.Emitted, res2.Stats.Emitted)
	assert.Equal(t, res1.Diagnostics, res2.Diagnostics)
	assert.NotEqual(t, res1.RunID, res2.RunID)

	d1, _ := first.Design("top", "layout")
	d2, _ := second.Design("top", "layout")
	assert.Equal(t, d1, d2)

	// A different technology misses.
	other := testTech()
	other.AddLayer("M9", 30)
	third := record.New()
	res3, err := runner.EmitCached(ctx, third, other, Options{Cell: "top"}, l)
	require.NoError(t, err)
	assert.False(t, res3.CacheHit)
	assert.Empty(t, res3.Diagnostics)

	// Refresh bypasses the read.
	res4, err := runner.EmitCached(ctx, record.New(), testTech(), Options{Cell: "top", Refresh: true}, l)
	require.NoError(t, err)
	assert.False(t, res4.CacheHit)
}

// plainResolver hides the Digest method of *tech.Tech.
type plainResolver struct{ *tech.Tech }

func (plainResolver) Digest() {}

func TestEmitCachedWithoutDigestSkipsCache(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	runner := NewRunner(fc, nil, nil)

	l := layout.New()
	require.NoError(t, l.AddRect("M1", "drawing", unitBox, geom.Array{}))

	res := plainResolver{testTech()}
	for range 2 {
		out, err := runner.EmitCached(ctx, record.New(), res, Options{Cell: "top"}, l)
		require.NoError(t, err)
		assert.False(t, out.CacheHit)
	}
}

func TestEmitCachedFailureIsNotCached(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	runner := NewRunner(fc, nil, nil)

	l := layout.New()
	require.NoError(t, l.AddRect("M1", "drawing", unitBox, geom.Array{}))

	failing := record.New()
	failing.Fault = record.FailOn(record.OpSave, stderrors.New("boom"))
	_, err = runner.EmitCached(ctx, failing, testTech(), Options{Cell: "top"}, l)
	require.Error(t, err)

	res, err := runner.EmitCached(ctx, record.New(), testTech(), Options{Cell: "top"}, l)
	require.NoError(t, err)
	assert.False(t, res.CacheHit)
}
