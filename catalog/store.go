// Package catalog persists generated model specifications keyed by their
// configuration fingerprint, so regenerated variants can be compared
// against earlier runs byte for byte. It offers an in-memory store for
// tests and a SQLite store for durable catalogs.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/latentlab/lcspec"
	"github.com/latentlab/lcspec/export"
)

// ErrNotFound indicates a lookup for an entry the store does not hold.
var ErrNotFound = errors.New("catalog entry not found")

// Entry is one stored specification: its identity, provenance, and both
// rendered forms.
type Entry struct {
	ID          string    `json:"id"`
	Fingerprint string    `json:"fingerprint"`
	ConfigJSON  string    `json:"config"`
	PathList    string    `json:"pathlist"`
	Equations   string    `json:"equations"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store persists catalog entries. Implementations are safe for concurrent
// use.
type Store interface {
	// Save stores an entry. Saving an ID twice is an error.
	Save(ctx context.Context, entry Entry) error

	// Get returns the entry with the given ID.
	Get(ctx context.Context, id string) (Entry, error)

	// GetByFingerprint returns the newest entry for a configuration
	// fingerprint.
	GetByFingerprint(ctx context.Context, fingerprint string) (Entry, error)

	// List returns entries newest first; limit 0 means no limit.
	List(ctx context.Context, limit int) ([]Entry, error)

	// Delete removes an entry by ID.
	Delete(ctx context.Context, id string) error

	// Close releases store resources.
	Close() error
}

// NewEntry renders spec into a catalog entry carrying both external forms.
func NewEntry(spec *lcspec.ModelSpec) (Entry, error) {
	cfgJSON, err := json.Marshal(spec.Config())
	if err != nil {
		return Entry{}, fmt.Errorf("marshal config: %w", err)
	}

	var pathList bytes.Buffer
	if err := export.WritePathList(&pathList, spec); err != nil {
		return Entry{}, err
	}
	equations, err := export.ToEquationText(spec)
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		ID:          spec.ID(),
		Fingerprint: spec.Fingerprint(),
		ConfigJSON:  string(cfgJSON),
		PathList:    pathList.String(),
		Equations:   equations,
		CreatedAt:   time.Now().UTC(),
	}, nil
}
