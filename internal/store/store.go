// Package store defines the persistence contract for task snapshots and the
// default JSON file backend.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-ports/tasks/internal/models"
)

// ErrMalformedStore is matched by every error returned when persisted content
// cannot be interpreted as a task list.
var ErrMalformedStore = errors.New("malformed task store")

// MalformedError describes why the store at Path was rejected.
type MalformedError struct {
	Path string
	Err  error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed task store %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *MalformedError) Unwrap() error { return e.Err }

// Is reports true for ErrMalformedStore.
func (*MalformedError) Is(target error) bool { return target == ErrMalformedStore }

// Backend loads and saves whole snapshots.
//
// Load returns an empty, nil error snapshot when nothing has been persisted
// yet. When the content is unreadable as a task list it returns an empty
// snapshot together with an error matching ErrMalformedStore; callers that
// degrade to "no tasks" keep the returned slice.
//
// Save replaces the persisted snapshot completely or not at all.
type Backend interface {
	Load(ctx context.Context) ([]models.Task, error)
	Save(ctx context.Context, tasks []models.Task) error
	Path() string
}

// CheckUnique rejects snapshots that reuse an id.
func CheckUnique(tasks []models.Task) error {
	seen := make(map[int]bool, len(tasks))
	for _, t := range tasks {
		if seen[t.ID] {
			return fmt.Errorf("duplicate task id %d", t.ID)
		}
		seen[t.ID] = true
	}
	return nil
}
