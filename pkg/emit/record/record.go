// Package record implements an in-memory [emit.Backend] that keeps every
// create call in order.
//
// The recorder is what the CLI and the HTTP server emit into by default: the
// recorded designs can be inspected directly, or serialized with
// [Backend.WriteJSON] and [Backend.WriteMsgpack] for other tools to consume.
package record

import (
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/layoutwriter/pkg/emit"
	"github.com/matzehuels/layoutwriter/pkg/errors"
)

// Op names a backend call.
type Op string

const (
	OpOpen     Op = "open"
	OpInst     Op = "inst"
	OpRect     Op = "rect"
	OpPathSeg  Op = "path_seg"
	OpVia      Op = "via"
	OpLabel    Op = "label"
	OpPin      Op = "pin"
	OpPolygon  Op = "polygon"
	OpBlockage Op = "blockage"
	OpBoundary Op = "boundary"
	OpSave     Op = "save"
)

// Call is one recorded create call. Index points into the design's slice
// for Op.
type Call struct {
	Op    Op  `json:"op" msgpack:"op"`
	Index int `json:"index" msgpack:"index"`
}

// Term is a terminal and the net it connects to.
type Term struct {
	Name string `json:"name" msgpack:"name"`
	Net  string `json:"net" msgpack:"net"`
}

// Design is everything written to one cell/view.
type Design struct {
	Cell  string `json:"cell" msgpack:"cell"`
	View  string `json:"view" msgpack:"view"`
	Saved bool   `json:"saved" msgpack:"saved"`

	// Discarded is set when the block was closed without saving.
	Discarded bool `json:"discarded,omitempty" msgpack:"discarded,omitempty"`

	Calls []Call `json:"calls" msgpack:"calls"`

	Insts      []emit.Inst     `json:"insts,omitempty" msgpack:"insts,omitempty"`
	Rects      []emit.Rect     `json:"rects,omitempty" msgpack:"rects,omitempty"`
	PathSegs   []emit.PathSeg  `json:"path_segs,omitempty" msgpack:"path_segs,omitempty"`
	Vias       []emit.Via      `json:"vias,omitempty" msgpack:"vias,omitempty"`
	Labels     []emit.Label    `json:"labels,omitempty" msgpack:"labels,omitempty"`
	Pins       []emit.Pin      `json:"pins,omitempty" msgpack:"pins,omitempty"`
	Polygons   []emit.Polygon  `json:"polygons,omitempty" msgpack:"polygons,omitempty"`
	Blockages  []emit.Blockage `json:"blockages,omitempty" msgpack:"blockages,omitempty"`
	Boundaries []emit.Boundary `json:"boundaries,omitempty" msgpack:"boundaries,omitempty"`

	Nets  []string `json:"nets,omitempty" msgpack:"nets,omitempty"`
	Terms []Term   `json:"terms,omitempty" msgpack:"terms,omitempty"`
}

// Key returns "cell/view".
func (d *Design) Key() string { return key(d.Cell, d.View) }

// Ops returns the recorded call sequence.
func (d *Design) Ops() []Op {
	ops := make([]Op, len(d.Calls))
	for i, c := range d.Calls {
		ops[i] = c.Op
	}
	return ops
}

// Count returns the number of calls of op.
func (d *Design) Count(op Op) int {
	n := 0
	for _, c := range d.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// FaultFunc decides whether a call fails. seq is the zero-based position of
// the call within the design (Open is -1).
type FaultFunc func(op Op, seq int) error

// Backend records designs in memory. It is safe for concurrent use across
// designs; a single open block is not.
type Backend struct {
	mu      sync.Mutex
	designs map[string]*Design
	order   []string

	// Fault, when set, is consulted before every call.
	Fault FaultFunc
}

// New returns an empty recorder.
func New() *Backend {
	return &Backend{designs: make(map[string]*Design)}
}

// Open starts a fresh design, replacing any earlier recording of cell/view.
func (b *Backend) Open(_ context.Context, cell, view string) (emit.Block, error) {
	if err := b.fault(OpOpen, -1); err != nil {
		return nil, err
	}
	d := &Design{Cell: cell, View: view}

	b.mu.Lock()
	k := d.Key()
	if _, ok := b.designs[k]; !ok {
		b.order = append(b.order, k)
	}
	b.designs[k] = d
	b.mu.Unlock()

	return &block{backend: b, design: d}, nil
}

// Design returns the recording of cell/view.
func (b *Backend) Design(cell, view string) (*Design, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	d, ok := b.designs[key(cell, view)]
	return d, ok
}

// Designs returns all recordings in first-open order.
func (b *Backend) Designs() []*Design {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*Design, 0, len(b.order))
	for _, k := range b.order {
		out = append(out, b.designs[k])
	}
	return out
}

func (b *Backend) fault(op Op, seq int) error {
	if b.Fault == nil {
		return nil
	}
	return b.Fault(op, seq)
}

func key(cell, view string) string { return cell + "/" + view }

// FailAt returns a FaultFunc failing the call at position seq.
func FailAt(seq int, err error) FaultFunc {
	return func(_ Op, n int) error {
		if n == seq {
			return err
		}
		return nil
	}
}

// FailOn returns a FaultFunc failing every call of op.
func FailOn(op Op, err error) FaultFunc {
	return func(o Op, _ int) error {
		if o == op {
			return err
		}
		return nil
	}
}

type block struct {
	backend *Backend
	design  *Design
	closed  bool
}

var (
	_ emit.Block     = (*block)(nil)
	_ emit.Discarder = (*block)(nil)
)

func (k *block) record(op Op, n int) error {
	if k.closed {
		return errors.New(errors.ErrCodeBackend, "design %s is closed", k.design.Key())
	}
	if err := k.backend.fault(op, len(k.design.Calls)); err != nil {
		return err
	}
	k.design.Calls = append(k.design.Calls, Call{Op: op, Index: n})
	return nil
}

func (k *block) CreateInst(_ context.Context, inst emit.Inst) error {
	if err := k.record(OpInst, len(k.design.Insts)); err != nil {
		return err
	}
	k.design.Insts = append(k.design.Insts, inst)
	return nil
}

func (k *block) CreateRect(_ context.Context, rect emit.Rect) error {
	if err := k.record(OpRect, len(k.design.Rects)); err != nil {
		return err
	}
	k.design.Rects = append(k.design.Rects, rect)
	return nil
}

func (k *block) CreatePathSeg(_ context.Context, seg emit.PathSeg) error {
	if err := k.record(OpPathSeg, len(k.design.PathSegs)); err != nil {
		return err
	}
	k.design.PathSegs = append(k.design.PathSegs, seg)
	return nil
}

func (k *block) CreateVia(_ context.Context, via emit.Via) error {
	if err := k.record(OpVia, len(k.design.Vias)); err != nil {
		return err
	}
	k.design.Vias = append(k.design.Vias, via)
	return nil
}

func (k *block) CreateLabel(_ context.Context, label emit.Label) error {
	if err := k.record(OpLabel, len(k.design.Labels)); err != nil {
		return err
	}
	k.design.Labels = append(k.design.Labels, label)
	return nil
}

// CreatePin attaches the pin to its terminal, creating the terminal and
// its net on first use.
func (k *block) CreatePin(_ context.Context, pin emit.Pin) error {
	if err := k.record(OpPin, len(k.design.Pins)); err != nil {
		return err
	}
	k.design.Pins = append(k.design.Pins, pin)

	for _, t := range k.design.Terms {
		if t.Name == pin.Term {
			return nil
		}
	}
	if !slices.Contains(k.design.Nets, pin.Term) {
		k.design.Nets = append(k.design.Nets, pin.Term)
	}
	k.design.Terms = append(k.design.Terms, Term{Name: pin.Term, Net: pin.Term})
	return nil
}

func (k *block) CreatePolygon(_ context.Context, poly emit.Polygon) error {
	if err := k.record(OpPolygon, len(k.design.Polygons)); err != nil {
		return err
	}
	k.design.Polygons = append(k.design.Polygons, poly)
	return nil
}

func (k *block) CreateBlockage(_ context.Context, blk emit.Blockage) error {
	if err := k.record(OpBlockage, len(k.design.Blockages)); err != nil {
		return err
	}
	k.design.Blockages = append(k.design.Blockages, blk)
	return nil
}

func (k *block) CreateBoundary(_ context.Context, bnd emit.Boundary) error {
	if err := k.record(OpBoundary, len(k.design.Boundaries)); err != nil {
		return err
	}
	k.design.Boundaries = append(k.design.Boundaries, bnd)
	return nil
}

// SaveAndClose marks the design saved. The save itself is not recorded as
// a call.
func (k *block) SaveAndClose(context.Context) error {
	if k.closed {
		return errors.New(errors.ErrCodeBackend, "design %s is closed", k.design.Key())
	}
	if err := k.backend.fault(OpSave, len(k.design.Calls)); err != nil {
		return err
	}
	k.closed = true
	k.backend.mu.Lock()
	k.design.Saved = true
	k.backend.mu.Unlock()
	return nil
}

// Discard closes the block without saving.
func (k *block) Discard(context.Context) error {
	if k.closed {
		return errors.New(errors.ErrCodeBackend, "design %s is closed", k.design.Key())
	}
	k.closed = true
	k.backend.mu.Lock()
	k.design.Discarded = true
	k.backend.mu.Unlock()
	return nil
}
