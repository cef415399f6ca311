// Package tagindex persists the relation between role labels and board item ids.
//
// Role labels ("Segments", "Product Chat", ...) are not stored on the remote
// board, so they are recorded here when frames are created and overlaid on
// every snapshot build. Every index is scoped to a single board id.
package tagindex

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// ErrStorage wraps every failure of the underlying store.
var ErrStorage = errors.New("tag index storage error")

// Index is the durable tag → item ids relation for one board.
type Index interface {
	// Record associates itemID with each tag. Recording an existing pair is a no-op.
	Record(ctx context.Context, itemID string, tags ...string) error

	// ItemsForTag returns the ids recorded for tag, sorted.
	ItemsForTag(ctx context.Context, tag string) ([]string, error)

	// AllMappings returns every tag with its ids, each id list sorted.
	AllMappings(ctx context.Context) (map[string][]string, error)

	// Prune removes every mapping whose item id is not live and returns the count removed.
	Prune(ctx context.Context, live func(itemID string) bool) (int, error)

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error

	Close() error
}

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Options selects and configures a backend.
type Options struct {
	Backend  string
	BoardID  string
	DBPath   string // sqlite
	RedisURL string // redis
}

// Open constructs the index selected by opts.
func Open(ctx context.Context, opts Options) (Index, error) {
	switch opts.Backend {
	case "", BackendSQLite:
		return OpenSQLite(opts.DBPath, opts.BoardID)
	case BackendRedis:
		return OpenRedis(ctx, opts.RedisURL, opts.BoardID)
	default:
		return nil, fmt.Errorf("unknown tag index backend %q (must be %q or %q)", opts.Backend, BackendSQLite, BackendRedis)
	}
}

// IsStorageError returns true if err came from the underlying store.
func IsStorageError(err error) bool {
	return errors.Is(err, ErrStorage)
}

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
}

func validateRecord(itemID string, tags []string) error {
	if itemID == "" {
		return fmt.Errorf("item id cannot be empty")
	}
	for _, tag := range tags {
		if tag == "" {
			return fmt.Errorf("tag cannot be empty")
		}
	}
	return nil
}

func sortMappings(m map[string][]string) map[string][]string {
	for tag := range m {
		sort.Strings(m[tag])
	}
	return m
}
