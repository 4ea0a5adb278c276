package pipeline

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/layoutwriter/pkg/emit"
	"github.com/matzehuels/layoutwriter/pkg/errors"
	"github.com/matzehuels/layoutwriter/pkg/layout"
	"github.com/matzehuels/layoutwriter/pkg/observability"
)

// emission is the state of one pass over a layout.
type emission struct {
	ctx    context.Context
	blk    emit.Block
	enc    encoder
	result *Result
	logger *log.Logger
}

// kind emits every entity of kind k in insertion order.
func (em *emission) kind(k layout.Kind, l *layout.Layout) error {
	n := l.Count(k)
	for i := range n {
		if err := em.ctx.Err(); err != nil {
			return err
		}
		err := em.entity(k, i, l)
		switch {
		case err == nil:
			em.result.Stats.Emitted[k]++
		case errors.IsSoft(err):
			em.skip(k, i, err)
		default:
			return err
		}
	}
	return nil
}

func (em *emission) skip(k layout.Kind, i int, err error) {
	d := Diagnostic{Kind: k, Index: i, Code: errors.GetCode(err), Message: errors.UserMessage(err)}
	em.result.Diagnostics = append(em.result.Diagnostics, d)
	em.result.Stats.Skipped[k]++
	em.logger.Warn("skipped entity", "kind", k, "index", i, "code", d.Code, "reason", d.Message)
	observability.Emit().OnEntitySkipped(em.ctx, k.String(), i, string(d.Code))
}

// create issues one backend call and counts it.
func (em *emission) create(op string, call func() error) error {
	if err := call(); err != nil {
		return backendError(err, "create %s", op)
	}
	em.result.Stats.Figures++
	return nil
}

func (em *emission) entity(k layout.Kind, i int, l *layout.Layout) error {
	ctx, blk, enc := em.ctx, em.blk, em.enc
	switch k {
	case layout.KindInst:
		inst, err := enc.inst(l.Insts[i])
		if err != nil {
			return err
		}
		return em.create("inst", func() error { return blk.CreateInst(ctx, inst) })

	case layout.KindRect:
		rects, err := enc.rects(l.Rects[i])
		if err != nil {
			return err
		}
		for _, r := range rects {
			if err := em.create("rect", func() error { return blk.CreateRect(ctx, r) }); err != nil {
				return err
			}
		}
		return nil

	case layout.KindPathSeg:
		seg, err := enc.pathSeg(l.PathSegs[i])
		if err != nil {
			return err
		}
		return em.create("path segment", func() error { return blk.CreatePathSeg(ctx, seg) })

	case layout.KindVia:
		vias, err := enc.vias(l.Vias[i])
		if err != nil {
			return err
		}
		for _, v := range vias {
			if err := em.create("via", func() error { return blk.CreateVia(ctx, v) }); err != nil {
				return err
			}
		}
		return nil

	case layout.KindPin:
		label, pin, err := enc.pin(l.Pins[i])
		if err != nil {
			return err
		}
		if err := em.create("label", func() error { return blk.CreateLabel(ctx, label) }); err != nil {
			return err
		}
		if pin == nil {
			return nil
		}
		return em.create("pin", func() error { return blk.CreatePin(ctx, *pin) })

	case layout.KindPolygon:
		poly, err := enc.polygon(l.Polygons[i])
		if err != nil {
			return err
		}
		return em.create("polygon", func() error { return blk.CreatePolygon(ctx, poly) })

	case layout.KindBlockage:
		b, err := enc.blockage(l.Blockages[i])
		if err != nil {
			return err
		}
		return em.create("blockage", func() error { return blk.CreateBlockage(ctx, b) })

	case layout.KindBoundary:
		b, err := enc.boundary(l.Boundaries[i])
		if err != nil {
			return err
		}
		return em.create("boundary", func() error { return blk.CreateBoundary(ctx, b) })
	}
	return errors.New(errors.ErrCodeInternal, "unknown entity kind %d", k)
}
