package storage

import (
	"context"
	"errors"

	"github.com/ogulcanaydogan/cur-scenarios/pkg/model"
)

// ErrNotFound is returned when a run id does not exist.
var ErrNotFound = errors.New("run not found")

// Storage defines the persistence layer for analysis runs.
type Storage interface {
	// SaveRun persists a run, assigning an id and timestamp when unset.
	SaveRun(ctx context.Context, run *model.Run) error

	// GetRun retrieves a run, including its full result.
	GetRun(ctx context.Context, id string) (*model.Run, error)

	// ListRuns returns run headers matching the filter, newest first.
	// The Result field is not populated.
	ListRuns(ctx context.Context, filter model.RunFilter) ([]model.Run, error)

	// DeleteRun removes a run.
	DeleteRun(ctx context.Context, id string) error

	// Close releases resources.
	Close() error
}
