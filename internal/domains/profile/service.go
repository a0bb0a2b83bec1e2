package profile

import (
	"context"

	"github.com/google/uuid"
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*ProfileDTO, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ProfileDTO, error)
	GetRole(ctx context.Context, id uuid.UUID) (Role, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role Role) error
}
