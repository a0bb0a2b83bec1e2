package profile

import "errors"

// Repository-level errors
var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Service-level errors
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrProfileInactive    = errors.New("account is inactive")
	ErrInvalidRole        = errors.New("invalid role")
)
