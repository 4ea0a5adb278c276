package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/layoutwriter/pkg/cache"
	"github.com/matzehuels/layoutwriter/pkg/emit"
	"github.com/matzehuels/layoutwriter/pkg/errors"
	"github.com/matzehuels/layoutwriter/pkg/layout"
	"github.com/matzehuels/layoutwriter/pkg/observability"
)

// Runner executes emissions, optionally through a result cache.
//
// The Runner holds no per-run state. Multiple goroutines may share one
// Runner as long as each emission targets its own backend handle.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Emit writes l into backend as opts.Cell/opts.View.
//
// On a fatal error the partial result is returned along with the error.
// Entities already handed to the backend stay there.
func (r *Runner) Emit(ctx context.Context, backend emit.Backend, res Resolver, opts Options, l *layout.Layout) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	runID := emit.RunID(ctx)
	if runID == "" {
		runID = uuid.NewString()
		ctx = emit.WithRunID(ctx, runID)
	}
	result := newResult(runID, opts.Cell, opts.View)
	logger := opts.Logger.With("cell", opts.Cell, "view", opts.View)

	start := time.Now()
	err := r.emit(ctx, backend, res, opts, l, result, logger)
	result.Stats.Duration = time.Since(start)

	observability.Emit().OnEmitComplete(ctx, opts.Cell, opts.View, result.Stats.Figures, result.Stats.Duration, err)
	if err != nil {
		logger.Error("emission aborted", "figures", result.Stats.Figures, "err", err)
		return result, err
	}
	logger.Info("emitted design",
		"figures", result.Stats.Figures,
		"skipped", result.SkippedTotal(),
		"duration", result.Stats.Duration)
	return result, nil
}

func (r *Runner) emit(ctx context.Context, backend emit.Backend, res Resolver, opts Options, l *layout.Layout, result *Result, logger *log.Logger) error {
	blk, err := backend.Open(ctx, opts.Cell, opts.View)
	if err != nil {
		return backendError(err, "open %s/%s", opts.Cell, opts.View)
	}
	observability.Emit().OnEmitStart(ctx, opts.Cell, opts.View, l.Len())
	logger.Debug("opened design", "entities", l.Len(), "run", result.RunID)

	em := &emission{ctx: ctx, blk: blk, enc: newEncoder(res), result: result, logger: logger}
	for _, k := range layout.Kinds {
		if err := em.kind(k, l); err != nil {
			return err
		}
	}
	if err := blk.SaveAndClose(ctx); err != nil {
		return backendError(err, "save %s/%s", opts.Cell, opts.View)
	}
	return nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// backendError wraps err as BACKEND_ERROR unless it already is one.
func backendError(err error, format string, args ...any) error {
	if errors.Is(err, errors.ErrCodeBackend) {
		return err
	}
	return errors.Wrap(errors.ErrCodeBackend, err, format, args...)
}
