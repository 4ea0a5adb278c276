package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/layoutwriter/pkg/emit"
	"github.com/matzehuels/layoutwriter/pkg/errors"
)

// figureDoc is one stored create call.
type figureDoc struct {
	Design    string    `bson:"design"`
	Run       string    `bson:"run"`
	Seq       int       `bson:"seq"`
	Kind      string    `bson:"kind"`
	Figure    any       `bson:"figure"`
	CreatedAt time.Time `bson:"created_at"`
}

// designDoc is the per-design summary written on save.
type designDoc struct {
	Cell     string         `bson:"cell"`
	View     string         `bson:"view"`
	Run      string         `bson:"run"`
	Figures  int            `bson:"figures"`
	Counts   map[string]int `bson:"counts"`
	OpenedAt time.Time      `bson:"opened_at"`
	SavedAt  time.Time      `bson:"saved_at"`
}

type block struct {
	backend *Backend
	cell    string
	view    string
	key     string
	run     string
	opened  time.Time
	seq     int
	counts  map[string]int
	closed  bool
}

var (
	_ emit.Block     = (*block)(nil)
	_ emit.Discarder = (*block)(nil)
)

func (k *block) figure(kind string, v any) figureDoc {
	return figureDoc{
		Design:    k.key,
		Run:       k.run,
		Seq:       k.seq,
		Kind:      kind,
		Figure:    v,
		CreatedAt: k.backend.now(),
	}
}

func (k *block) insert(ctx context.Context, kind string, v any) error {
	if k.closed {
		return errors.New(errors.ErrCodeBackend, "design %s is closed", k.key)
	}
	doc := k.figure(kind, v)
	if _, err := k.backend.db.Collection(CollectionFigures).InsertOne(ctx, doc); err != nil {
		return errors.Wrap(errors.ErrCodeBackend, err, "insert %s into %s", kind, k.key)
	}
	k.seq++
	k.counts[kind]++
	return nil
}

func (k *block) CreateInst(ctx context.Context, inst emit.Inst) error {
	return k.insert(ctx, "inst", inst)
}

func (k *block) CreateRect(ctx context.Context, rect emit.Rect) error {
	return k.insert(ctx, "rect", rect)
}

func (k *block) CreatePathSeg(ctx context.Context, seg emit.PathSeg) error {
	return k.insert(ctx, "path_seg", seg)
}

func (k *block) CreateVia(ctx context.Context, via emit.Via) error {
	return k.insert(ctx, "via", via)
}

func (k *block) CreateLabel(ctx context.Context, label emit.Label) error {
	return k.insert(ctx, "label", label)
}

// CreatePin stores the pin figure and makes sure its terminal exists.
func (k *block) CreatePin(ctx context.Context, pin emit.Pin) error {
	if err := k.insert(ctx, "pin", pin); err != nil {
		return err
	}
	filter := bson.M{"design": k.key, "name": pin.Term}
	update := bson.M{"$setOnInsert": bson.M{"net": pin.Term, "run": k.run}}
	opts := options.Update().SetUpsert(true)
	if _, err := k.backend.db.Collection(CollectionTerms).UpdateOne(ctx, filter, update, opts); err != nil {
		return errors.Wrap(errors.ErrCodeBackend, err, "create terminal %s in %s", pin.Term, k.key)
	}
	return nil
}

func (k *block) CreatePolygon(ctx context.Context, poly emit.Polygon) error {
	return k.insert(ctx, "polygon", poly)
}

func (k *block) CreateBlockage(ctx context.Context, blk emit.Blockage) error {
	return k.insert(ctx, "blockage", blk)
}

func (k *block) CreateBoundary(ctx context.Context, bnd emit.Boundary) error {
	return k.insert(ctx, "boundary", bnd)
}

func (k *block) summary() designDoc {
	return designDoc{
		Cell:     k.cell,
		View:     k.view,
		Run:      k.run,
		Figures:  k.seq,
		Counts:   k.counts,
		OpenedAt: k.opened,
		SavedAt:  k.backend.now(),
	}
}

// SaveAndClose upserts the design summary.
func (k *block) SaveAndClose(ctx context.Context) error {
	if k.closed {
		return errors.New(errors.ErrCodeBackend, "design %s is closed", k.key)
	}
	k.closed = true

	filter := bson.M{"_id": k.key}
	update := bson.M{"$set": k.summary()}
	opts := options.Update().SetUpsert(true)
	if _, err := k.backend.db.Collection(CollectionDesigns).UpdateOne(ctx, filter, update, opts); err != nil {
		return errors.Wrap(errors.ErrCodeBackend, err, "save %s", k.key)
	}
	return nil
}

// Discard closes the block without writing the design summary. Figures
// already inserted are kept; the previous contents were cleared on open.
func (k *block) Discard(context.Context) error {
	if k.closed {
		return errors.New(errors.ErrCodeBackend, "design %s is closed", k.key)
	}
	k.closed = true
	return nil
}
