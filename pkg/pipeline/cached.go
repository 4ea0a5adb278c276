package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/matzehuels/layoutwriter/pkg/cache"
	"github.com/matzehuels/layoutwriter/pkg/emit"
	"github.com/matzehuels/layoutwriter/pkg/emit/record"
	"github.com/matzehuels/layoutwriter/pkg/layout"
	"github.com/matzehuels/layoutwriter/pkg/observability"
)

// cachedRun is what the cache stores for one emission.
type cachedRun struct {
	Design      *record.Design `msgpack:"design"`
	Stats       Stats          `msgpack:"stats"`
	Diagnostics []Diagnostic   `msgpack:"diagnostics"`
}

// LayoutHash returns the content hash of l.
func LayoutHash(l *layout.Layout) (string, error) {
	data, err := json.Marshal(l)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}

// EmitCached behaves like [Runner.Emit] but serves repeated emissions of the
// same layout, technology and cell/view from the cache by replaying the
// recorded backend calls. Resolvers without a Digest method bypass the cache.
// Only successful runs are cached.
func (r *Runner) EmitCached(ctx context.Context, backend emit.Backend, res Resolver, opts Options, l *layout.Layout) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	d, ok := res.(digester)
	if !ok {
		return r.Emit(ctx, backend, res, opts, l)
	}
	layoutHash, err := LayoutHash(l)
	if err != nil {
		return r.Emit(ctx, backend, res, opts, l)
	}
	key := r.Keyer.DesignKey(layoutHash, d.Digest(), opts.Cell, opts.View)
	logger := opts.Logger.With("cell", opts.Cell, "view", opts.View)

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var run cachedRun
			if err := msgpack.Unmarshal(data, &run); err == nil && run.Design != nil {
				logger.Debug("replaying cached emission", "figures", run.Stats.Figures)
				return r.replay(ctx, backend, opts, run)
			}
			logger.Debug("discarding unreadable cache entry")
		}
	}

	rec := record.New()
	result, err := r.Emit(ctx, emit.Tee(backend, rec), res, opts, l)
	if err != nil {
		return result, err
	}

	design, _ := rec.Design(opts.Cell, opts.View)
	data, err := msgpack.Marshal(cachedRun{Design: design, Stats: result.Stats, Diagnostics: result.Diagnostics})
	if err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLDesign); err != nil {
			logger.Warn("cache write failed", "err", err)
		}
	}
	return result, nil
}

func (r *Runner) replay(ctx context.Context, backend emit.Backend, opts Options, run cachedRun) (*Result, error) {
	runID := emit.RunID(ctx)
	if runID == "" {
		runID = uuid.NewString()
		ctx = emit.WithRunID(ctx, runID)
	}
	result := &Result{
		RunID:       runID,
		Cell:        opts.Cell,
		View:        opts.View,
		Stats:       run.Stats,
		Diagnostics: run.Diagnostics,
		CacheHit:    true,
	}

	start := time.Now()
	observability.Emit().OnEmitStart(ctx, opts.Cell, opts.View, result.EmittedTotal()+result.SkippedTotal())
	err := run.Design.Replay(ctx, backend)
	if err != nil {
		err = backendError(err, "replay %s/%s", opts.Cell, opts.View)
	}
	result.Stats.Duration = time.Since(start)
	observability.Emit().OnEmitComplete(ctx, opts.Cell, opts.View, result.Stats.Figures, result.Stats.Duration, err)
	if err != nil {
		return result, err
	}
	opts.Logger.Info("emitted design from cache",
		"cell", opts.Cell,
		"view", opts.View,
		"figures", result.Stats.Figures,
		"duration", result.Stats.Duration)
	return result, nil
}

