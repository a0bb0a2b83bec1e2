package application

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RequestMeta is submission provenance captured from the HTTP layer.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// DeleteOutcome tells the handler which of the two DELETE semantics
// actually happened for the caller.
type DeleteOutcome string

const (
	// OutcomeWithdrawn is the owner path: the row survives with
	// status withdrawn.
	OutcomeWithdrawn DeleteOutcome = "withdrawn"
	// OutcomeDeleted is the admin path: the row is gone.
	OutcomeDeleted DeleteOutcome = "deleted"
)

// Service is the application lifecycle: creation, partial updates with
// optional submission, authorization-scoped reads, withdraw/delete,
// admin review, export, and profile image handling.
type Service interface {
	Create(ctx context.Context, caller *Caller, req CreateApplicationRequest, meta RequestMeta) (*ExpertApplication, error)

	// Get returns the application if the caller may see it. History is
	// populated for admin callers only.
	Get(ctx context.Context, caller *Caller, id uuid.UUID) (*ExpertApplication, []*HistoryEntry, error)

	Update(ctx context.Context, caller *Caller, id uuid.UUID, req UpdateApplicationRequest) (*ExpertApplication, error)

	// Delete withdraws for owners and hard-deletes for admins.
	Delete(ctx context.Context, caller *Caller, id uuid.UUID) (DeleteOutcome, error)

	List(ctx context.Context, caller *Caller, filter ListApplicationsFilter) ([]*ExpertApplication, int64, error)

	Review(ctx context.Context, caller *Caller, id uuid.UUID, req ReviewRequest) (*ExpertApplication, error)

	// Export renders the filtered application set as an XLSX workbook.
	Export(ctx context.Context, caller *Caller, filter ListApplicationsFilter) ([]byte, string, error)

	// UploadProfileImage validates, resizes and stores the image, then
	// persists the public URL on the application.
	UploadProfileImage(ctx context.Context, caller *Caller, id uuid.UUID, data []byte) (string, error)

	// CleanupStaleDrafts withdraws drafts untouched for longer than
	// maxAge. Returns the number of drafts withdrawn.
	CleanupStaleDrafts(ctx context.Context, maxAge time.Duration) (int, error)
}
