// Package pipeline emits a [layout.Layout] into a backend.
//
// The pipeline walks the layout once, kind by kind in a fixed order
// (instances, rectangles, path segments, vias, pins, polygons, blockages,
// boundaries) and entity by entity in insertion order. Each entity is
// encoded to grid units and technology numbers, expanded over its array
// and handed to the backend's create calls.
//
// # Error policy
//
// Lookup misses (unknown layer, purpose or via definition, unrecognized
// blockage or boundary type) skip the one entity and are recorded as a
// [Diagnostic]. Anything else aborts: an invalid orientation, or any
// backend failure (wrapped as BACKEND_ERROR). Nothing already written is
// rolled back; the partial [Result] is returned together with the error.
//
// # Usage
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	res, err := runner.Emit(ctx, backend, tech, pipeline.Options{Cell: "top"}, l)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, d := range res.Diagnostics {
//	    fmt.Println(d)
//	}
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/layoutwriter/pkg/errors"
	"github.com/matzehuels/layoutwriter/pkg/geom"
	"github.com/matzehuels/layoutwriter/pkg/layout"
	"github.com/matzehuels/layoutwriter/pkg/tech"
)

// DefaultView is the view written when Options.View is empty.
const DefaultView = "layout"

// Resolver supplies the technology lookups of an emission.
// [*tech.Tech] implements it.
type Resolver interface {
	Layer(name string) (uint32, error)
	Purpose(name string) (uint32, error)
	ViaDef(name string) (tech.ViaDef, error)
	Units() geom.Units
}

// digester is implemented by resolvers whose tables can be hashed for
// cache keys.
type digester interface {
	Digest() string
}

// =============================================================================
// Options
// =============================================================================

// Options configures one emission.
type Options struct {
	Cell string `json:"cell"`
	View string `json:"view,omitempty"`

	// Refresh ignores cached results (they are still written).
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Cell == "" {
		return errors.New(errors.ErrCodeInvalidInput, "cell is required")
	}
	if o.View == "" {
		o.View = DefaultView
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// =============================================================================
// Result
// =============================================================================

// Diagnostic records one skipped entity.
type Diagnostic struct {
	Kind    layout.Kind `json:"kind" msgpack:"kind"`
	Index   int         `json:"index" msgpack:"index"`
	Code    errors.Code `json:"code" msgpack:"code"`
	Message string      `json:"message" msgpack:"message"`
}

// String returns "kind[index]: message".
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s[%d]: %s", d.Kind, d.Index, d.Message)
}

// Stats counts what an emission did.
type Stats struct {
	// Emitted and Skipped count layout entities per kind.
	Emitted map[layout.Kind]int `json:"emitted" msgpack:"emitted"`
	Skipped map[layout.Kind]int `json:"skipped,omitempty" msgpack:"skipped,omitempty"`

	// Figures is the number of backend create calls, counting every array
	// copy and both the label and the pin of a pin entity.
	Figures int `json:"figures" msgpack:"figures"`

	Duration time.Duration `json:"duration" msgpack:"duration"`
}

// Result describes one emission run.
type Result struct {
	RunID       string       `json:"run_id"`
	Cell        string       `json:"cell"`
	View        string       `json:"view"`
	Stats       Stats        `json:"stats"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
	CacheHit    bool         `json:"cache_hit,omitempty"`
}

// SkippedTotal returns the number of skipped entities.
func (r *Result) SkippedTotal() int {
	n := 0
	for _, c := range r.Stats.Skipped {
		n += c
	}
	return n
}

// EmittedTotal returns the number of emitted entities.
func (r *Result) EmittedTotal() int {
	n := 0
	for _, c := range r.Stats.Emitted {
		n += c
	}
	return n
}

func newResult(runID, cell, view string) *Result {
	return &Result{
		RunID: runID,
		Cell:  cell,
		View:  view,
		Stats: Stats{
			Emitted: make(map[layout.Kind]int),
			Skipped: make(map[layout.Kind]int),
		},
	}
}
