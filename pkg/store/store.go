// Package store persists packed layouts served by the HTTP API.
//
// Two backends are provided: [MemoryStore] for single-process use and tests,
// and [MongoStore] when server.mongo_uri is configured.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/matzehuels/texatlas/pkg/atlas"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// DefaultListLimit bounds List when the caller passes a non-positive limit.
const DefaultListLimit = 50

// Record is one stored layout.
type Record struct {
	ID        string        `json:"id" bson:"_id"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
	Names     []string      `json:"names,omitempty" bson:"names,omitempty"`
	Layout    *atlas.Layout `json:"layout" bson:"layout"`
}

// Store saves and retrieves layout records.
type Store interface {
	// Save stores rec. The ID must be set and unique.
	Save(ctx context.Context, rec *Record) error

	// Get returns the record with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns up to limit records, newest first.
	List(ctx context.Context, limit int) ([]*Record, error)

	// Close releases resources.
	Close() error
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
