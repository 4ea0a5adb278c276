// Package mongo implements an [emit.Backend] that stores designs in MongoDB.
//
// Three collections are used:
//
//   - figures: one document per create call, tagged with the design key
//     ("cell/view"), the call sequence number and the run id
//   - terms: one document per terminal, created on first pin use
//   - designs: one summary document per design, upserted on save
//
// Opening a design deletes its previous figures and terminals, mirroring a
// database opened in write mode. Nothing is rolled back when a later call
// fails.
package mongo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	driver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/layoutwriter/pkg/emit"
	"github.com/matzehuels/layoutwriter/pkg/errors"
)

// Collection names.
const (
	CollectionDesigns = "designs"
	CollectionFigures = "figures"
	CollectionTerms   = "terms"
)

// DefaultDatabase is used when Config.Database is empty.
const DefaultDatabase = "layoutwriter"

// Config configures a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Backend writes designs to a MongoDB database.
type Backend struct {
	client *driver.Client
	db     *driver.Database
	now    func() time.Time
}

// Connect dials MongoDB and verifies the connection.
func Connect(ctx context.Context, cfg Config) (*Backend, error) {
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	opts := options.Client().ApplyURI(cfg.URI).SetConnectTimeout(cfg.Timeout)
	client, err := driver.Connect(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBackend, err, "connect mongodb")
	}
	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeBackend, err, "ping mongodb")
	}
	return &Backend{client: client, db: client.Database(cfg.Database), now: time.Now}, nil
}

// Close disconnects from MongoDB.
func (b *Backend) Close(ctx context.Context) error {
	return b.client.Disconnect(ctx)
}

// Open clears the previous contents of cell/view and returns a block
// writing to it.
func (b *Backend) Open(ctx context.Context, cell, view string) (emit.Block, error) {
	key := designKey(cell, view)
	filter := bson.M{"design": key}
	if _, err := b.db.Collection(CollectionFigures).DeleteMany(ctx, filter); err != nil {
		return nil, errors.Wrap(errors.ErrCodeBackend, err, "clear figures of %s", key)
	}
	if _, err := b.db.Collection(CollectionTerms).DeleteMany(ctx, filter); err != nil {
		return nil, errors.Wrap(errors.ErrCodeBackend, err, "clear terms of %s", key)
	}

	run := emit.RunID(ctx)
	if run == "" {
		run = uuid.NewString()
	}
	return &block{
		backend: b,
		cell:    cell,
		view:    view,
		key:     key,
		run:     run,
		opened:  b.now(),
		counts:  make(map[string]int),
	}, nil
}

func designKey(cell, view string) string { return cell + "/" + view }
