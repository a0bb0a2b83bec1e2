package profile

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	GetByEmail(ctx context.Context, email string) (*Profile, error)

	// GetRole is the role lookup the authorization resolver depends
	// on; it must hit the store on every call (roles can change
	// between requests).
	GetRole(ctx context.Context, id uuid.UUID) (Role, error)

	UpdateRole(ctx context.Context, id uuid.UUID, role Role) error
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
}
