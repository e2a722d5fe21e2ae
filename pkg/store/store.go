// Package store serves pre-rendered mxGraph documents by variant name.
//
// A variant is a short name such as "simple" or "complex" that maps onto one
// stored document. The HTTP API serves them at GET /api/v1/diagram.
//
// Backends:
//   - [FileStore]: "<dir>/<variant>.xml" files, the default
//   - [MongoStore]: documents in a MongoDB collection
//   - [CachedStore]: read-through cache in front of either
//
// Every backend validates the variant with errors.ValidateVariant before any
// lookup and reports a missing document as a NOT_FOUND error whose message is
// "Diagram '<variant>.xml' not found".
package store

import (
	"context"
	"time"

	"github.com/PigStep/vibe-idef0-front/pkg/errors"
	"github.com/PigStep/vibe-idef0-front/pkg/observability"
)

// Backend names reported by [Store.Name] and used in cache keys.
const (
	BackendFile  = "file"
	BackendMongo = "mongo"
)

// Extension is the file extension of a stored document.
const Extension = ".xml"

// Store is a read-mostly collection of stored documents.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// Name identifies the backend ("file", "mongo").
	Name() string
	// Get returns the document stored under variant.
	Get(ctx context.Context, variant string) ([]byte, error)
	// Put stores data under variant, replacing any previous document.
	Put(ctx context.Context, variant string, data []byte) error
	// List returns the stored variant names in ascending order.
	List(ctx context.Context) ([]string, error)
	Close() error
}

// Filename returns the file name a variant is stored and served under.
func Filename(variant string) string {
	return variant + Extension
}

// NotFound returns the NOT_FOUND error for a missing variant.
func NotFound(variant string) error {
	return errors.New(errors.ErrCodeNotFound, "Diagram '%s' not found", Filename(variant))
}

// observe reports a lookup to the store hooks.
func observe(ctx context.Context, backend, variant string, start time.Time, data []byte, err error) {
	observability.Store().OnLookup(ctx, backend, variant, len(data), time.Since(start), err)
}
