package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"humanglue-backend/internal/domains/application"
	"humanglue-backend/internal/shared"
	"humanglue-backend/pkg/logger"
)

// TaskEnqueuer is the slice of asynq.Client the service needs.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ObjectStorage stores profile images and returns public URLs.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// ImageProcessor validates and normalizes uploaded images.
type ImageProcessor interface {
	ValidateImage(data []byte) error
	ProcessProfileImage(data []byte) ([]byte, error)
}

type applicationService struct {
	repo      application.Repository
	tasks     TaskEnqueuer
	storage   ObjectStorage
	processor ImageProcessor
}

// NewApplicationService wires the application lifecycle service.
// tasks, storage and processor may be nil in contexts that never
// submit, export or upload (the cleanup worker, most tests).
func NewApplicationService(
	repo application.Repository,
	tasks TaskEnqueuer,
	storage ObjectStorage,
	processor ImageProcessor,
) application.Service {
	return &applicationService{
		repo:      repo,
		tasks:     tasks,
		storage:   storage,
		processor: processor,
	}
}

// ========================================
// CREATE
// ========================================

func (s *applicationService) Create(ctx context.Context, caller *application.Caller, req application.CreateApplicationRequest, meta application.RequestMeta) (*application.ExpertApplication, error) {
	// One active application per email address.
	if existing, err := s.repo.FindActiveByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, application.ErrApplicationExists
	} else if err != nil && !errors.Is(err, application.ErrApplicationNotFound) {
		return nil, fmt.Errorf("failed to check existing application: %w", err)
	}

	now := time.Now()
	app := &application.ExpertApplication{
		ID:                     uuid.New(),
		FullName:               req.FullName,
		Email:                  req.Email,
		Phone:                  req.Phone,
		Location:               req.Location,
		Timezone:               req.Timezone,
		ProfessionalTitle:      req.ProfessionalTitle,
		Headline:               req.Headline,
		Bio:                    req.Bio,
		ProfileImageURL:        req.ProfileImageURL,
		VideoIntroURL:          req.VideoIntroURL,
		YearsExperience:        req.YearsExperience,
		ExpertiseAreas:         req.ExpertiseAreas,
		AIPillars:              req.AIPillars,
		Industries:             req.Industries,
		Education:              req.Education,
		Certifications:         req.Certifications,
		WorkHistory:            req.WorkHistory,
		LinkedinURL:            req.LinkedinURL,
		TwitterURL:             req.TwitterURL,
		WebsiteURL:             req.WebsiteURL,
		GithubURL:              req.GithubURL,
		PortfolioURLs:          req.PortfolioURLs,
		DesiredHourlyRate:      req.DesiredHourlyRate,
		Availability:           req.Availability,
		ServicesOffered:        req.ServicesOffered,
		WhyJoin:                req.WhyJoin,
		UniqueValue:            req.UniqueValue,
		SampleTopics:           req.SampleTopics,
		References:             req.References,
		AgreedToTerms:          req.AgreedToTerms,
		BackgroundCheckConsent: req.BackgroundCheckConsent,
		Source:                 req.Source,
		ReferralCode:           req.ReferralCode,
		Status:                 application.StatusDraft,
		Version:                1,
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	if caller != nil {
		id := caller.ID
		app.UserID = &id
	}
	if req.AgreedToTerms {
		app.AgreedToTermsAt = &now
	}
	if meta.IPAddress != "" {
		app.IPAddress = &meta.IPAddress
	}
	if meta.UserAgent != "" {
		app.UserAgent = &meta.UserAgent
	}

	if req.SubmitNow {
		if err := application.CheckSubmission(app, &application.UpdateApplicationRequest{}); err != nil {
			return nil, err
		}
		app.Status = application.StatusSubmitted
		app.SubmittedAt = &now
	}

	if err := s.repo.Create(ctx, app); err != nil {
		return nil, err
	}

	s.recordHistory(ctx, app, callerID(caller), "", app.Status, nil)

	if app.Status == application.StatusSubmitted {
		s.enqueueSubmissionEmails(ctx, app)
	}

	logger.Info("Application created", map[string]interface{}{
		"application_id": app.ID.String(),
		"status":         app.Status.String(),
	})

	return app, nil
}

// ========================================
// READ
// ========================================

func (s *applicationService) Get(ctx context.Context, caller *application.Caller, id uuid.UUID) (*application.ExpertApplication, []*application.HistoryEntry, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	capability := application.ResolveCapability(caller, app)
	if capability == application.CapabilityNone {
		// Same answer as for a missing row, so callers cannot probe
		// which IDs exist.
		return nil, nil, application.ErrApplicationNotFound
	}

	var history []*application.HistoryEntry
	if capability.IsAdmin() {
		history, err = s.repo.ListHistory(ctx, id)
		if err != nil {
			return nil, nil, err
		}
	}

	return app, history, nil
}

func (s *applicationService) List(ctx context.Context, caller *application.Caller, filter application.ListApplicationsFilter) ([]*application.ExpertApplication, int64, error) {
	if caller == nil {
		return nil, 0, application.ErrUnauthorized
	}

	// Non-admins only ever see their own applications, whatever the
	// filter says.
	if !caller.Role.IsAdmin() {
		ownerID := caller.ID.String()
		ownerEmail := caller.Email
		filter.OwnerID = &ownerID
		filter.OwnerEmail = &ownerEmail
	}
	filter.SetDefaults()

	return s.repo.List(ctx, filter)
}

// ========================================
// UPDATE / SUBMIT
// ========================================

func (s *applicationService) Update(ctx context.Context, caller *application.Caller, id uuid.UUID, req application.UpdateApplicationRequest) (*application.ExpertApplication, error) {
	if caller == nil {
		return nil, application.ErrUnauthorized
	}

	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	capability := application.ResolveCapability(caller, app)
	if capability == application.CapabilityNone {
		return nil, application.ErrForbidden
	}

	// Applicants lose write access the moment the application leaves
	// draft. Admins may still correct fields at any stage.
	if !capability.IsAdmin() && !application.CanOwnerEdit(app.Status) {
		return nil, application.ErrInvalidStatus
	}

	// The flag only means anything while the application is still a
	// draft; on any other status it is ignored and the patch applies
	// as usual.
	submitting := req.SubmitNow && app.Status == application.StatusDraft
	if submitting {
		if err := application.CheckSubmission(app, &req); err != nil {
			return nil, err
		}
	}

	if req.IsEmpty() && !submitting {
		// Nothing to write: an empty patch is a no-op, not an error.
		return app, nil
	}

	fields, err := buildUpdateFields(app, &req)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if submitting {
		fields["status"] = application.StatusSubmitted.String()
		if app.SubmittedAt == nil {
			// submitted_at records the first submission only.
			fields["submitted_at"] = now
		}
	}

	updated, err := s.repo.Update(ctx, id, app.Version, fields)
	if err != nil {
		return nil, err
	}

	if submitting {
		s.recordHistory(ctx, updated, callerID(caller), application.StatusDraft, application.StatusSubmitted, nil)
		s.enqueueSubmissionEmails(ctx, updated)
	}

	return updated, nil
}

// buildUpdateFields maps the provided request fields to their columns.
// nil means "leave alone" throughout.
func buildUpdateFields(app *application.ExpertApplication, req *application.UpdateApplicationRequest) (map[string]interface{}, error) {
	fields := map[string]interface{}{}

	setStr := func(column string, v *string) {
		if v != nil {
			fields[column] = *v
		}
	}
	setStr("full_name", req.FullName)
	setStr("email", req.Email)
	setStr("phone", req.Phone)
	setStr("location", req.Location)
	setStr("timezone", req.Timezone)
	setStr("professional_title", req.ProfessionalTitle)
	setStr("headline", req.Headline)
	setStr("bio", req.Bio)
	setStr("profile_image_url", req.ProfileImageURL)
	setStr("video_intro_url", req.VideoIntroURL)
	setStr("linkedin_url", req.LinkedinURL)
	setStr("twitter_url", req.TwitterURL)
	setStr("website_url", req.WebsiteURL)
	setStr("github_url", req.GithubURL)
	setStr("why_join", req.WhyJoin)
	setStr("unique_value", req.UniqueValue)

	if req.YearsExperience != nil {
		fields["years_experience"] = *req.YearsExperience
	}
	if req.ExpertiseAreas != nil {
		fields["expertise_areas"] = req.ExpertiseAreas
	}
	if req.AIPillars != nil {
		fields["ai_pillars"] = req.AIPillars
	}
	if req.Industries != nil {
		fields["industries"] = req.Industries
	}
	if req.PortfolioURLs != nil {
		fields["portfolio_urls"] = req.PortfolioURLs
	}
	if req.ServicesOffered != nil {
		fields["services_offered"] = req.ServicesOffered
	}
	if req.DesiredHourlyRate != nil {
		fields["desired_hourly_rate"] = *req.DesiredHourlyRate
	}
	if req.Availability != nil {
		fields["availability"] = req.Availability.String()
	}
	if req.BackgroundCheckConsent != nil {
		fields["background_check_consent"] = *req.BackgroundCheckConsent
	}

	if req.AgreedToTerms != nil {
		fields["agreed_to_terms"] = *req.AgreedToTerms
		// The consent timestamp is set on the first agreement and
		// kept forever as the audit record, even if the flag is
		// later flipped off.
		if *req.AgreedToTerms && app.AgreedToTermsAt == nil {
			fields["agreed_to_terms_at"] = time.Now()
		}
	}

	setJSON := func(column string, v interface{}) error {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", column, err)
		}
		fields[column] = data
		return nil
	}
	if req.Education != nil {
		if err := setJSON("education", req.Education); err != nil {
			return nil, err
		}
	}
	if req.Certifications != nil {
		if err := setJSON("certifications", req.Certifications); err != nil {
			return nil, err
		}
	}
	if req.WorkHistory != nil {
		if err := setJSON("work_history", req.WorkHistory); err != nil {
			return nil, err
		}
	}
	if req.SampleTopics != nil {
		if err := setJSON("sample_topics", req.SampleTopics); err != nil {
			return nil, err
		}
	}
	if req.References != nil {
		if err := setJSON("reference_contacts", req.References); err != nil {
			return nil, err
		}
	}

	return fields, nil
}

// ========================================
// DELETE / WITHDRAW
// ========================================

func (s *applicationService) Delete(ctx context.Context, caller *application.Caller, id uuid.UUID) (application.DeleteOutcome, error) {
	if caller == nil {
		return "", application.ErrUnauthorized
	}

	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	capability := application.ResolveCapability(caller, app)
	switch {
	case capability.IsAdmin():
		// Admins remove the row outright; history goes with it.
		if err := s.repo.Delete(ctx, id); err != nil {
			return "", err
		}
		logger.Info("Application deleted", map[string]interface{}{
			"application_id": id.String(),
			"deleted_by":     caller.ID.String(),
		})
		return application.OutcomeDeleted, nil

	case capability.IsOwner():
		if !application.CanOwnerWithdraw(app.Status) {
			return "", application.ErrInvalidStatus
		}
		updated, err := s.repo.Update(ctx, id, app.Version, map[string]interface{}{
			"status": application.StatusWithdrawn.String(),
		})
		if err != nil {
			return "", err
		}
		s.recordHistory(ctx, updated, callerID(caller), app.Status, application.StatusWithdrawn, nil)
		return application.OutcomeWithdrawn, nil

	default:
		return "", application.ErrForbidden
	}
}

// ========================================
// REVIEW
// ========================================

func (s *applicationService) Review(ctx context.Context, caller *application.Caller, id uuid.UUID, req application.ReviewRequest) (*application.ExpertApplication, error) {
	if caller == nil {
		return nil, application.ErrUnauthorized
	}
	if !caller.Role.IsAdmin() {
		return nil, application.ErrForbidden
	}

	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	target, err := application.ResolveReviewTransition(app.Status, req.Action)
	if err != nil {
		return nil, err
	}

	if req.Action == application.ActionReject && (req.RejectionReason == nil || *req.RejectionReason == "") {
		return nil, application.ErrReasonRequired
	}

	now := time.Now()
	fields := map[string]interface{}{
		"status":      target.String(),
		"reviewer_id": caller.ID,
		"reviewed_at": now,
	}
	if req.ReviewNotes != nil {
		fields["review_notes"] = *req.ReviewNotes
	}

	switch req.Action {
	case application.ActionApprove:
		fields["approved_at"] = now
	case application.ActionReject:
		fields["rejection_reason"] = *req.RejectionReason
	case application.ActionRequestChanges:
		metadata := map[string]interface{}{}
		for k, v := range app.Metadata {
			metadata[k] = v
		}
		metadata["changes_requested_at"] = now.Format(time.RFC3339)
		metadata["changes_requested_by"] = caller.ID.String()
		data, err := json.Marshal(metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		fields["metadata"] = data
	}

	updated, err := s.repo.Update(ctx, id, app.Version, fields)
	if err != nil {
		return nil, err
	}

	s.recordHistory(ctx, updated, callerID(caller), app.Status, target, req.ReviewNotes)

	if decision := decisionKind(req.Action); decision != "" {
		s.enqueueTask(ctx, shared.TypeApplicationDecision, decisionPayload(updated, decision))
	}

	logger.Info("Application reviewed", map[string]interface{}{
		"application_id": id.String(),
		"action":         string(req.Action),
		"from":           app.Status.String(),
		"to":             target.String(),
		"reviewer_id":    caller.ID.String(),
	})

	return updated, nil
}

func decisionKind(action application.ReviewAction) string {
	switch action {
	case application.ActionApprove:
		return shared.DecisionApproved
	case application.ActionReject:
		return shared.DecisionRejected
	case application.ActionRequestChanges:
		return shared.DecisionChangesRequested
	default:
		return ""
	}
}

// ========================================
// PROFILE IMAGE
// ========================================

func (s *applicationService) UploadProfileImage(ctx context.Context, caller *application.Caller, id uuid.UUID, data []byte) (string, error) {
	if caller == nil {
		return "", application.ErrUnauthorized
	}

	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	capability := application.ResolveCapability(caller, app)
	if capability == application.CapabilityNone {
		return "", application.ErrForbidden
	}
	if !capability.IsAdmin() && !application.CanOwnerEdit(app.Status) {
		return "", application.ErrInvalidStatus
	}

	if err := s.processor.ValidateImage(data); err != nil {
		return "", fmt.Errorf("%w: %v", application.ErrInvalidImage, err)
	}
	processed, err := s.processor.ProcessProfileImage(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", application.ErrInvalidImage, err)
	}

	if s.storage == nil {
		return "", fmt.Errorf("object storage not configured")
	}

	key := fmt.Sprintf("applications/%s/profile.jpg", app.ID)
	url, err := s.storage.Upload(ctx, key, processed, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to upload profile image: %w", err)
	}

	if _, err := s.repo.Update(ctx, id, app.Version, map[string]interface{}{
		"profile_image_url": url,
	}); err != nil {
		return "", err
	}

	return url, nil
}

// ========================================
// STALE DRAFT CLEANUP
// ========================================

func (s *applicationService) CleanupStaleDrafts(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	status := application.StatusDraft
	note := "withdrawn automatically: draft inactive"

	// The cutoff is part of the query, so every page contains only
	// stale drafts and withdrawn rows drop out of the next listing.
	withdrawn := 0
	for {
		apps, _, err := s.repo.List(ctx, application.ListApplicationsFilter{
			Status:        &status,
			UpdatedBefore: &cutoff,
			Limit:         100,
		})
		if err != nil {
			return withdrawn, err
		}

		progressed := false
		for _, app := range apps {
			updated, err := s.repo.Update(ctx, app.ID, app.Version, map[string]interface{}{
				"status": application.StatusWithdrawn.String(),
			})
			if err != nil {
				// Skip rows that changed under us; the next run will
				// pick them up if they are still stale.
				logger.Error("Failed to withdraw stale draft "+app.ID.String(), err)
				continue
			}
			s.recordHistory(ctx, updated, nil, application.StatusDraft, application.StatusWithdrawn, &note)
			withdrawn++
			progressed = true
		}

		if !progressed || len(apps) < 100 {
			return withdrawn, nil
		}
	}
}

// ========================================
// HELPERS
// ========================================

func callerID(caller *application.Caller) *uuid.UUID {
	if caller == nil {
		return nil
	}
	id := caller.ID
	return &id
}

func (s *applicationService) recordHistory(ctx context.Context, app *application.ExpertApplication, actorID *uuid.UUID, from, to application.Status, note *string) {
	entry := &application.HistoryEntry{
		ID:            uuid.New(),
		ApplicationID: app.ID,
		ActorID:       actorID,
		FromStatus:    from,
		ToStatus:      to,
		Note:          note,
	}
	if err := s.repo.InsertHistory(ctx, entry); err != nil {
		// The transition already happened; a missing audit row is
		// logged, not surfaced.
		logger.Error("Failed to record status history for "+app.ID.String(), err)
	}
}

func (s *applicationService) enqueueSubmissionEmails(ctx context.Context, app *application.ExpertApplication) {
	payload := shared.ApplicationEmailPayload{
		ApplicationID:     app.ID.String(),
		FullName:          app.FullName,
		Email:             app.Email,
		ProfessionalTitle: app.ProfessionalTitle,
	}
	s.enqueueTask(ctx, shared.TypeApplicationConfirmation, payload)
	s.enqueueTask(ctx, shared.TypeApplicationAdminNotify, payload)
}

func decisionPayload(app *application.ExpertApplication, decision string) shared.ApplicationEmailPayload {
	payload := shared.ApplicationEmailPayload{
		ApplicationID:     app.ID.String(),
		FullName:          app.FullName,
		Email:             app.Email,
		ProfessionalTitle: app.ProfessionalTitle,
		Decision:          decision,
	}
	if app.ReviewNotes != nil {
		payload.ReviewNotes = *app.ReviewNotes
	}
	if app.RejectionReason != nil {
		payload.RejectionReason = *app.RejectionReason
	}
	return payload
}

func (s *applicationService) enqueueTask(ctx context.Context, taskType string, payload shared.ApplicationEmailPayload) {
	if s.tasks == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal "+taskType+" payload", err)
		return
	}
	task := asynq.NewTask(taskType, data, asynq.MaxRetry(5), asynq.Queue("emails"))
	if _, err := s.tasks.EnqueueContext(ctx, task); err != nil {
		// Email delivery is best effort; the state change stands.
		logger.Error("Failed to enqueue "+taskType, err)
	}
}
