// Package memory serves the dataset straight from the one-time CSV
// load. This is the default backend: two flat files, loaded eagerly at
// startup into an immutable in-memory table.
package memory

import (
	"context"

	"cashtrack/internal/core"
	"cashtrack/internal/loader"
)

type Store struct {
	ds *loader.Dataset
}

// New wraps an already-loaded dataset.
func New(ds *loader.Dataset) *Store {
	return &Store{ds: ds}
}

// NewFromFiles loads both tables once and returns the store. The load
// is memoized per source, so repeated stores over the same files share
// one dataset. Load errors (unreadable file, bad date, bad amount)
// abort startup.
func NewFromFiles(src loader.Source) (*Store, error) {
	ds, err := loader.LoadCached(src)
	if err != nil {
		return nil, err
	}
	return New(ds), nil
}

// Users returns a copy of the user table.
func (s *Store) Users(_ context.Context) ([]core.User, error) {
	return append([]core.User(nil), s.ds.Users...), nil
}

// Records returns a copy of the joined record table.
func (s *Store) Records(_ context.Context) ([]core.Record, error) {
	return append([]core.Record(nil), s.ds.Records...), nil
}

// Dataset exposes the underlying immutable handle for callers that
// need bounds or profile lookups without re-deriving them.
func (s *Store) Dataset() *loader.Dataset {
	return s.ds
}
