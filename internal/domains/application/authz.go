package application

import (
	"github.com/google/uuid"

	"humanglue-backend/internal/domains/profile"
)

// Caller is the authenticated principal acting on an application.
// A nil *Caller means the request is anonymous.
type Caller struct {
	ID    uuid.UUID
	Email string
	Role  profile.Role
}

// Capability classifies what a caller may do with an application.
type Capability int

const (
	CapabilityNone Capability = iota
	CapabilityOwner
	CapabilityAdmin
	CapabilityBoth
)

func (c Capability) IsOwner() bool { return c == CapabilityOwner || c == CapabilityBoth }
func (c Capability) IsAdmin() bool { return c == CapabilityAdmin || c == CapabilityBoth }

// ResolveCapability classifies the caller against the target
// application. It is a pure function and must be evaluated fresh on
// every request: roles change between calls and must never be cached.
//
// Ownership is deliberately widened to an email match so applications
// created before the owning account existed can still be claimed.
func ResolveCapability(caller *Caller, app *ExpertApplication) Capability {
	if caller == nil {
		return CapabilityNone
	}

	owner := false
	if app != nil {
		if app.UserID != nil && *app.UserID == caller.ID {
			owner = true
		}
		if app.Email != "" && app.Email == caller.Email {
			owner = true
		}
	}

	admin := caller.Role.IsAdmin()

	switch {
	case owner && admin:
		return CapabilityBoth
	case owner:
		return CapabilityOwner
	case admin:
		return CapabilityAdmin
	default:
		return CapabilityNone
	}
}
