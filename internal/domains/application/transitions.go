package application

import "unicode/utf8"

// The transition engine: which status changes are legal, and which
// field values gate them. Pure functions over the entity; persistence
// side effects live in the service.

// CheckSubmission decides whether a draft may move to submitted.
//
// Each precondition is checked against the effective value: the
// request value when supplied, the persisted value otherwise, so one
// PATCH can fill missing fields and submit atomically.
//
// Preconditions run in a fixed order (terms, bio, title) and the
// first failure wins. This is intentionally different from the
// aggregate behavior of schema validation: clients rely on getting
// exactly one submission error at a time.
func CheckSubmission(app *ExpertApplication, req *UpdateApplicationRequest) error {
	termsAgreed := app.AgreedToTerms
	if req.AgreedToTerms != nil {
		termsAgreed = *req.AgreedToTerms
	}
	if !termsAgreed {
		return ErrTermsRequired
	}

	bio := app.Bio
	if req.Bio != nil {
		bio = *req.Bio
	}
	if utf8.RuneCountInString(bio) < 100 {
		return ErrBioRequired
	}

	title := app.ProfessionalTitle
	if req.ProfessionalTitle != nil {
		title = *req.ProfessionalTitle
	}
	if utf8.RuneCountInString(title) < 5 {
		return ErrTitleRequired
	}

	return nil
}

// CanOwnerEdit reports whether a non-admin owner may mutate content
// fields. Once an application leaves draft it is read-only for the
// applicant; only admins may act on it.
func CanOwnerEdit(s Status) bool {
	return s == StatusDraft
}

// CanOwnerWithdraw is the withdraw allowlist: pending applications
// only. Approved and rejected applications are terminal for the
// applicant.
func CanOwnerWithdraw(s Status) bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusUnderReview:
		return true
	}
	return false
}

// ReviewAction is an admin review verb.
type ReviewAction string

const (
	ActionApprove         ReviewAction = "approve"
	ActionReject          ReviewAction = "reject"
	ActionRequestChanges  ReviewAction = "request_changes"
	ActionMarkUnderReview ReviewAction = "mark_under_review"
)

func (a ReviewAction) IsValid() bool {
	switch a {
	case ActionApprove, ActionReject, ActionRequestChanges, ActionMarkUnderReview:
		return true
	}
	return false
}

// reviewTarget maps each review verb to the status it produces.
// request_changes sends the application back to the applicant's queue.
var reviewTarget = map[ReviewAction]Status{
	ActionApprove:         StatusApproved,
	ActionReject:          StatusRejected,
	ActionMarkUnderReview: StatusUnderReview,
	ActionRequestChanges:  StatusSubmitted,
}

// adminTransitions is the review transition table. Drafts belong to
// the applicant, approved and withdrawn are terminal; rejected can be
// reopened for re-review.
var adminTransitions = map[Status][]Status{
	StatusSubmitted:   {StatusUnderReview, StatusApproved, StatusRejected},
	StatusUnderReview: {StatusApproved, StatusRejected, StatusSubmitted},
	StatusRejected:    {StatusSubmitted},
	StatusDraft:       {},
	StatusApproved:    {},
	StatusWithdrawn:   {},
}

// ResolveReviewTransition validates an admin review action against the
// current status and returns the resulting status.
func ResolveReviewTransition(current Status, action ReviewAction) (Status, error) {
	target, ok := reviewTarget[action]
	if !ok {
		return "", ErrInvalidTransition
	}

	for _, allowed := range adminTransitions[current] {
		if allowed == target {
			return target, nil
		}
	}
	return "", ErrInvalidTransition
}
