package application

import "errors"

// Repository-level errors
var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrVersionConflict     = errors.New("application was modified concurrently")
)

// Authorization errors
var (
	ErrForbidden    = errors.New("not authorized for this application")
	ErrUnauthorized = errors.New("authentication required")
)

// Transition errors
var (
	ErrInvalidStatus     = errors.New("operation not allowed in the current status")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrTermsRequired     = errors.New("you must agree to the terms to submit")
	ErrBioRequired       = errors.New("bio must be at least 100 characters")
	ErrTitleRequired     = errors.New("professional title is required")
	ErrReasonRequired    = errors.New("rejection reason is required")
)

// Creation errors
var (
	ErrApplicationExists = errors.New("an application already exists for this email address")
)

// Upload errors
var (
	ErrInvalidImage = errors.New("invalid image")
)
