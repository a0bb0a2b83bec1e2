package application

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists expert applications and their status history.
type Repository interface {
	Create(ctx context.Context, app *ExpertApplication) error
	GetByID(ctx context.Context, id uuid.UUID) (*ExpertApplication, error)

	// FindActiveByEmail returns the caller's in-flight application, if
	// any. Rejected and withdrawn applications do not count: their
	// owners may apply again.
	FindActiveByEmail(ctx context.Context, email string) (*ExpertApplication, error)

	// Update writes the given fields only if expectedVersion still
	// matches the stored row, bumping the version on success. Returns
	// ErrVersionConflict when another writer got there first.
	Update(ctx context.Context, id uuid.UUID, expectedVersion int, fields map[string]interface{}) (*ExpertApplication, error)

	Delete(ctx context.Context, id uuid.UUID) error

	List(ctx context.Context, filter ListApplicationsFilter) ([]*ExpertApplication, int64, error)

	InsertHistory(ctx context.Context, entry *HistoryEntry) error
	ListHistory(ctx context.Context, applicationID uuid.UUID) ([]*HistoryEntry, error)
}
