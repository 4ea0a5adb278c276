package record

import (
	"context"

	"github.com/matzehuels/layoutwriter/pkg/emit"
	"github.com/matzehuels/layoutwriter/pkg/errors"
)

// Replay re-issues the recorded calls of d, in order, against b and saves
// the design. The design is opened under d's cell and view.
func (d *Design) Replay(ctx context.Context, b emit.Backend) error {
	blk, err := b.Open(ctx, d.Cell, d.View)
	if err != nil {
		return err
	}
	for _, c := range d.Calls {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.replayCall(ctx, blk, c); err != nil {
			return err
		}
	}
	return blk.SaveAndClose(ctx)
}

func (d *Design) replayCall(ctx context.Context, blk emit.Block, c Call) error {
	if !d.hasIndex(c) {
		return errors.New(errors.ErrCodeInvalidFormat, "call %s refers to missing record %d", c.Op, c.Index)
	}
	switch c.Op {
	case OpInst:
		return blk.CreateInst(ctx, d.Insts[c.Index])
	case OpRect:
		return blk.CreateRect(ctx, d.Rects[c.Index])
	case OpPathSeg:
		return blk.CreatePathSeg(ctx, d.PathSegs[c.Index])
	case OpVia:
		return blk.CreateVia(ctx, d.Vias[c.Index])
	case OpLabel:
		return blk.CreateLabel(ctx, d.Labels[c.Index])
	case OpPin:
		return blk.CreatePin(ctx, d.Pins[c.Index])
	case OpPolygon:
		return blk.CreatePolygon(ctx, d.Polygons[c.Index])
	case OpBlockage:
		return blk.CreateBlockage(ctx, d.Blockages[c.Index])
	case OpBoundary:
		return blk.CreateBoundary(ctx, d.Boundaries[c.Index])
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unknown call %q", c.Op)
}

func (d *Design) hasIndex(c Call) bool {
	n := -1
	switch c.Op {
	case OpInst:
		n = len(d.Insts)
	case OpRect:
		n = len(d.Rects)
	case OpPathSeg:
		n = len(d.PathSegs)
	case OpVia:
		n = len(d.Vias)
	case OpLabel:
		n = len(d.Labels)
	case OpPin:
		n = len(d.Pins)
	case OpPolygon:
		n = len(d.Polygons)
	case OpBlockage:
		n = len(d.Blockages)
	case OpBoundary:
		n = len(d.Boundaries)
	default:
		return true
	}
	return c.Index >= 0 && c.Index < n
}
