// Package catalogue stores the workflow definitions that suggestions are
// drawn from.
//
// Two backends are provided: a single YAML document for catalogues kept next
// to the notes they serve, and an SQLite database for larger collections.
// Both keep definitions in insertion order, which is the order the suggester
// scans them in.
//
// Key types:
//   - [Store] - The storage contract used by the CLI
//   - [FileStore] - YAML file backend
//   - [SQLiteStore] - SQLite backend
package catalogue

import (
	"context"
	"errors"
	"fmt"

	"outlineflow/internal/workflow"
)

// ErrNotFound indicates that no definition with the requested id is stored.
var ErrNotFound = errors.New("workflow not found")

// Drivers accepted by [Open].
const (
	DriverYAML   = "yaml"
	DriverSQLite = "sqlite"
)

// Store persists workflow definitions.
//
// List returns definitions in insertion order. Put replaces the definition
// with the same id in place, or appends it when the id is new.
type Store interface {
	List(ctx context.Context) ([]workflow.Definition, error)
	Get(ctx context.Context, id string) (workflow.Definition, error)
	Put(ctx context.Context, def workflow.Definition) error
	Close() error
}

// Open returns the [Store] for driver backed by path. An empty driver means
// [DriverYAML].
func Open(driver, path string) (Store, error) {
	switch driver {
	case "", DriverYAML:
		return NewFileStore(path), nil
	case DriverSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown catalogue driver: %s", driver)
	}
}

// FindShape returns the first stored definition whose [workflow.Fingerprint]
// matches def's. The second result is false when none does.
func FindShape(ctx context.Context, s Store, def workflow.Definition) (workflow.Definition, bool, error) {
	want, err := workflow.Fingerprint(def)
	if err != nil {
		return workflow.Definition{}, false, err
	}

	defs, err := s.List(ctx)
	if err != nil {
		return workflow.Definition{}, false, err
	}

	for _, d := range defs {
		fp, err := workflow.Fingerprint(d)
		if err != nil {
			return workflow.Definition{}, false, err
		}
		if fp == want {
			return d, true, nil
		}
	}
	return workflow.Definition{}, false, nil
}
