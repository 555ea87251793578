package store

import (
	"context"
	"errors"
	"time"

	"github.com/flowsmith/flowsmith/flow"
)

// ErrNotFound is returned when a flow ID has no stored record.
var ErrNotFound = errors.New("flow not found")

// Record is a stored flow together with its build status. Built flips to
// true once a pipeline build over the flow has completed.
type Record struct {
	Flow    *flow.Document `json:"flow"`
	Built   bool           `json:"built"`
	SavedAt time.Time      `json:"saved_at"`
}

// FlowStore defines the interface for flow persistence between builds.
type FlowStore interface {
	// Save stores or replaces the record for a flow ID
	Save(ctx context.Context, id string, record *Record) error

	// Load retrieves a record by flow ID
	Load(ctx context.Context, id string) (*Record, error)

	// List returns the stored flow IDs
	List(ctx context.Context) ([]string, error)

	// Delete removes a stored flow
	Delete(ctx context.Context, id string) error
}
