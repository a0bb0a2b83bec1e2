package shared

// Asynq task type names, shared between the API (enqueue side) and
// the worker (handler side).
const (
	TypeApplicationConfirmation = "application:confirmation"
	TypeApplicationAdminNotify  = "application:admin_notify"
	TypeApplicationDecision     = "application:decision"
	TypeCleanupStaleDrafts      = "application:cleanup_stale_drafts"
)

// Decision kinds carried by TypeApplicationDecision tasks.
const (
	DecisionApproved         = "approved"
	DecisionRejected         = "rejected"
	DecisionChangesRequested = "changes_requested"
)

// ApplicationEmailPayload is the task payload for all application
// lifecycle emails.
type ApplicationEmailPayload struct {
	ApplicationID     string `json:"applicationId"`
	FullName          string `json:"fullName"`
	Email             string `json:"email"`
	ProfessionalTitle string `json:"professionalTitle"`

	// Decision emails only.
	Decision        string `json:"decision,omitempty"`
	ReviewNotes     string `json:"reviewNotes,omitempty"`
	RejectionReason string `json:"rejectionReason,omitempty"`
}
