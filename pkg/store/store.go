// Package store keeps named diagrams.
//
// A [Store] holds encoded documents as record trees (see package document),
// so every backend sees exactly what a JSON file would contain. Three
// backends are provided:
//   - [FileStore]: one <name>.json file per diagram in a directory
//   - [SQLiteStore]: a single SQLite database (modernc.org/sqlite, no cgo)
//   - [MongoStore]: a MongoDB collection with records stored as BSON
//
// [Save] and [Load] convert between stores and live diagrams:
//
//	s, err := store.Open(ctx, store.Config{Backend: "sqlite", DSN: "boards.db"})
//	if err := store.Save(ctx, s, "linked-list", d); err != nil { ... }
//	d, report, err := store.Load(ctx, s, "linked-list")
//
// Names are checked with errors.ValidateName by every backend. Missing
// diagrams are reported with an error wrapping [ErrNotFound].
package store

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/matzehuels/structboard/pkg/diagram"
	"github.com/matzehuels/structboard/pkg/document"
	"github.com/matzehuels/structboard/pkg/errors"
	"github.com/matzehuels/structboard/pkg/observability"
)

// ErrNotFound is wrapped by errors for diagrams that do not exist.
var ErrNotFound = stderrors.New("diagram not found")

// Info describes a stored diagram.
type Info struct {
	Name      string    `json:"name" bson:"_id"`
	Elements  int       `json:"elements" bson:"elements"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}

// Store is a collection of named record trees.
type Store interface {
	// Put creates or replaces a diagram.
	Put(ctx context.Context, name string, records []document.Record) error

	// Get returns a diagram's records.
	Get(ctx context.Context, name string) ([]document.Record, error)

	// List returns every diagram sorted by name.
	List(ctx context.Context) ([]Info, error)

	// Delete removes a diagram.
	Delete(ctx context.Context, name string) error

	// Close releases the backend.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
)

// Config selects and configures a backend.
type Config struct {
	Backend string

	// Dir is the FileStore directory.
	Dir string

	// DSN is the SQLite database path.
	DSN string

	MongoURI      string
	MongoDatabase string
}

// Open returns the store named by cfg.Backend. An empty backend means file.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", BackendFile:
		return NewFileStore(cfg.Dir)
	case BackendSQLite:
		return OpenSQLite(ctx, cfg.DSN)
	case BackendMongo:
		return OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q (want file, sqlite or mongo)", cfg.Backend)
}

// Save encodes d and stores it under name.
func Save(ctx context.Context, s Store, name string, d *diagram.Document) error {
	return s.Put(ctx, name, document.Encode(d))
}

// Load fetches and decodes a diagram. The report describes records that
// could not be restored.
func Load(ctx context.Context, s Store, name string, opts ...diagram.Option) (*diagram.Document, document.Report, error) {
	records, err := s.Get(ctx, name)
	if err != nil {
		return nil, document.Report{}, err
	}
	d, rep := document.Decode(records, opts...)
	observability.Render().OnDecode(ctx, d.Len(), rep.Skipped, rep.Dangling)
	return d, rep, nil
}

// IsNotFound reports whether err means a diagram does not exist.
func IsNotFound(err error) bool {
	return stderrors.Is(err, ErrNotFound)
}

func notFound(name string) error {
	return errors.Wrap(errors.ErrCodeNotFound, ErrNotFound, "diagram %q", name)
}

func countRecords(records []document.Record) int {
	n := 0
	for _, r := range records {
		n += r.Count()
	}
	return n
}

// observe reports one operation to the store hooks and returns err.
func observe(ctx context.Context, backend, op, name string, start time.Time, err error) error {
	observability.Store().OnStoreOp(ctx, backend, op, name, time.Since(start), err)
	return err
}

func wrapBackend(backend, op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s store %s: %w", backend, op, err)
}
