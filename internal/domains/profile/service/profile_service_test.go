package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"humanglue-backend/internal/domains/profile"
	"humanglue-backend/pkg/jwt"
)

type fakeRepo struct {
	profiles map[uuid.UUID]*profile.Profile
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{profiles: map[uuid.UUID]*profile.Profile{}}
}

func (r *fakeRepo) Create(ctx context.Context, p *profile.Profile) error {
	for _, existing := range r.profiles {
		if strings.EqualFold(existing.Email, p.Email) {
			return profile.ErrEmailAlreadyExists
		}
	}
	p.ID = uuid.New()
	p.IsActive = true
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	r.profiles[p.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeRepo) GetByEmail(ctx context.Context, email string) (*profile.Profile, error) {
	for _, p := range r.profiles {
		if strings.EqualFold(p.Email, email) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, profile.ErrProfileNotFound
}

func (r *fakeRepo) GetRole(ctx context.Context, id uuid.UUID) (profile.Role, error) {
	p, ok := r.profiles[id]
	if !ok {
		return "", profile.ErrProfileNotFound
	}
	return p.Role, nil
}

func (r *fakeRepo) UpdateRole(ctx context.Context, id uuid.UUID, role profile.Role) error {
	p, ok := r.profiles[id]
	if !ok {
		return profile.ErrProfileNotFound
	}
	p.Role = role
	return nil
}

func (r *fakeRepo) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	p, ok := r.profiles[id]
	if !ok {
		return profile.ErrProfileNotFound
	}
	now := time.Now()
	p.LastLoginAt = &now
	return nil
}

func newTestService() (profile.Service, *fakeRepo) {
	repo := newFakeRepo()
	return NewProfileService(repo, jwt.NewManager("test-secret", 60)), repo
}

func register(t *testing.T, svc profile.Service) *profile.ProfileDTO {
	t.Helper()
	dto, err := svc.Register(context.Background(), profile.RegisterRequest{
		Email:    "alice@example.com",
		Password: "Sup3rSecret",
		FullName: "Alice Nguyen",
	})
	require.NoError(t, err)
	return dto
}

func TestRegister_HashesPassword(t *testing.T) {
	svc, repo := newTestService()
	dto := register(t, svc)

	assert.Equal(t, profile.RoleMember, dto.Role, "new accounts always start as members")

	stored := repo.profiles[dto.ID]
	assert.NotEqual(t, "Sup3rSecret", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("Sup3rSecret")))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	register(t, svc)

	_, err := svc.Register(context.Background(), profile.RegisterRequest{
		Email:    "alice@example.com",
		Password: "An0therSecret",
		FullName: "Alice Again",
	})
	assert.ErrorIs(t, err, profile.ErrEmailAlreadyExists)
}

func TestLogin_Success(t *testing.T) {
	svc, repo := newTestService()
	dto := register(t, svc)

	resp, err := svc.Login(context.Background(), profile.LoginRequest{
		Email:    "alice@example.com",
		Password: "Sup3rSecret",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, dto.ID, resp.Profile.ID)
	assert.NotNil(t, repo.profiles[dto.ID].LastLoginAt)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestService()
	register(t, svc)

	_, err := svc.Login(context.Background(), profile.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, profile.ErrInvalidCredentials)
}

func TestLogin_UnknownEmailLooksLikeBadPassword(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Login(context.Background(), profile.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	// Same error as a wrong password, so login cannot be used to
	// probe which emails are registered.
	assert.ErrorIs(t, err, profile.ErrInvalidCredentials)
}

func TestLogin_InactiveAccount(t *testing.T) {
	svc, repo := newTestService()
	dto := register(t, svc)
	repo.profiles[dto.ID].IsActive = false

	_, err := svc.Login(context.Background(), profile.LoginRequest{
		Email:    "alice@example.com",
		Password: "Sup3rSecret",
	})
	assert.ErrorIs(t, err, profile.ErrProfileInactive)
}

func TestUpdateRole(t *testing.T) {
	svc, repo := newTestService()
	dto := register(t, svc)

	require.NoError(t, svc.UpdateRole(context.Background(), dto.ID, profile.RoleAdmin))
	assert.Equal(t, profile.RoleAdmin, repo.profiles[dto.ID].Role)

	err := svc.UpdateRole(context.Background(), dto.ID, profile.Role("emperor"))
	assert.ErrorIs(t, err, profile.ErrInvalidRole)
}
