package emit

import (
	"context"
	"errors"
)

// Tee returns a Backend that writes every call to primary and then to
// secondary. A failure in either stops the call and is returned as is.
// When secondary fails to open, the primary block is discarded if it
// implements [Discarder]; otherwise it is left open and unsaved.
func Tee(primary, secondary Backend) Backend {
	return teeBackend{primary, secondary}
}

type teeBackend struct{ a, b Backend }

func (t teeBackend) Open(ctx context.Context, cell, view string) (Block, error) {
	ba, err := t.a.Open(ctx, cell, view)
	if err != nil {
		return nil, err
	}
	bb, err := t.b.Open(ctx, cell, view)
	if err != nil {
		return nil, errors.Join(err, discard(ctx, ba))
	}
	return teeBlock{ba, bb}, nil
}

func discard(ctx context.Context, b Block) error {
	if d, ok := b.(Discarder); ok {
		return d.Discard(ctx)
	}
	return nil
}

type teeBlock struct{ a, b Block }

func both(fa, fb func() error) error {
	if err := fa(); err != nil {
		return err
	}
	return fb()
}

func (t teeBlock) CreateInst(ctx context.Context, v Inst) error {
	return both(func() error { return t.a.CreateInst(ctx, v) }, func() error { return t.b.CreateInst(ctx, v) })
}

func (t teeBlock) CreateRect(ctx context.Context, v Rect) error {
	return both(func() error { return t.a.CreateRect(ctx, v) }, func() error { return t.b.CreateRect(ctx, v) })
}

func (t teeBlock) CreatePathSeg(ctx context.Context, v PathSeg) error {
	return both(func() error { return t.a.CreatePathSeg(ctx, v) }, func() error { return t.b.CreatePathSeg(ctx, v) })
}

func (t teeBlock) CreateVia(ctx context.Context, v Via) error {
	return both(func() error { return t.a.CreateVia(ctx, v) }, func() error { return t.b.CreateVia(ctx, v) })
}

func (t teeBlock) CreateLabel(ctx context.Context, v Label) error {
	return both(func() error { return t.a.CreateLabel(ctx, v) }, func() error { return t.b.CreateLabel(ctx, v) })
}

func (t teeBlock) CreatePin(ctx context.Context, v Pin) error {
	return both(func() error { return t.a.CreatePin(ctx, v) }, func() error { return t.b.CreatePin(ctx, v) })
}

func (t teeBlock) CreatePolygon(ctx context.Context, v Polygon) error {
	return both(func() error { return t.a.CreatePolygon(ctx, v) }, func() error { return t.b.CreatePolygon(ctx, v) })
}

func (t teeBlock) CreateBlockage(ctx context.Context, v Blockage) error {
	return both(func() error { return t.a.CreateBlockage(ctx, v) }, func() error { return t.b.CreateBlockage(ctx, v) })
}

func (t teeBlock) CreateBoundary(ctx context.Context, v Boundary) error {
	return both(func() error { return t.a.CreateBoundary(ctx, v) }, func() error { return t.b.CreateBoundary(ctx, v) })
}

func (t teeBlock) SaveAndClose(ctx context.Context) error {
	return both(func() error { return t.a.SaveAndClose(ctx) }, func() error { return t.b.SaveAndClose(ctx) })
}

// Discard discards both blocks.
func (t teeBlock) Discard(ctx context.Context) error {
	return errors.Join(discard(ctx, t.a), discard(ctx, t.b))
}
