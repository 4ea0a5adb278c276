package emit

import "context"

// Backend opens designs for writing.
type Backend interface {
	// Open opens (creating or replacing) the design cell/view in write mode.
	Open(ctx context.Context, cell, view string) (Block, error)
}

// Block is the top-level block of an open design. Calls are made from a
// single goroutine; implementations need not be safe for concurrent use.
type Block interface {
	CreateInst(ctx context.Context, inst Inst) error
	CreateRect(ctx context.Context, rect Rect) error
	CreatePathSeg(ctx context.Context, seg PathSeg) error
	CreateVia(ctx context.Context, via Via) error
	CreateLabel(ctx context.Context, label Label) error
	CreatePin(ctx context.Context, pin Pin) error
	CreatePolygon(ctx context.Context, poly Polygon) error
	CreateBlockage(ctx context.Context, blk Blockage) error
	CreateBoundary(ctx context.Context, bnd Boundary) error

	// SaveAndClose commits the design. The block must not be used afterwards.
	SaveAndClose(ctx context.Context) error
}

// Discarder is implemented by blocks that can be closed without saving.
// The design stays unsaved and the block must not be used afterwards.
type Discarder interface {
	Discard(ctx context.Context) error
}

type runIDKey struct{}

// WithRunID tags ctx with the id of the emission run.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunID returns the run id stored by [WithRunID], or "".
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}
