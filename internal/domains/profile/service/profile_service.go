package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"humanglue-backend/internal/domains/profile"
	"humanglue-backend/pkg/jwt"
)

type profileService struct {
	repo profile.Repository
	jwt  *jwt.Manager
}

func NewProfileService(repo profile.Repository, jwtManager *jwt.Manager) profile.Service {
	return &profileService{repo: repo, jwt: jwtManager}
}

func (s *profileService) Register(ctx context.Context, req profile.RegisterRequest) (*profile.ProfileDTO, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	p := &profile.Profile{
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Role:         profile.RoleMember,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	log.Info().Str("profile_id", p.ID.String()).Msg("Profile registered")

	dto := p.ToDTO()
	return &dto, nil
}

func (s *profileService) Login(ctx context.Context, req profile.LoginRequest) (*profile.LoginResponse, error) {
	p, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		// Do not reveal whether the email exists.
		return nil, profile.ErrInvalidCredentials
	}

	if !p.IsActive {
		return nil, profile.ErrProfileInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(req.Password)); err != nil {
		return nil, profile.ErrInvalidCredentials
	}

	accessToken, err := s.jwt.GenerateAccessToken(p.ID.String(), p.Email, p.Role.String())
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwt.GenerateRefreshToken(p.ID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := s.repo.TouchLastLogin(ctx, p.ID); err != nil {
		log.Error().Err(err).Str("profile_id", p.ID.String()).Msg("Failed to record login time")
	}

	return &profile.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Profile:      p.ToDTO(),
	}, nil
}

func (s *profileService) GetByID(ctx context.Context, id uuid.UUID) (*profile.ProfileDTO, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := p.ToDTO()
	return &dto, nil
}

func (s *profileService) GetRole(ctx context.Context, id uuid.UUID) (profile.Role, error) {
	return s.repo.GetRole(ctx, id)
}

func (s *profileService) UpdateRole(ctx context.Context, id uuid.UUID, role profile.Role) error {
	if !role.IsValid() {
		return profile.ErrInvalidRole
	}
	return s.repo.UpdateRole(ctx, id, role)
}
