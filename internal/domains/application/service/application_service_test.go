package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"humanglue-backend/internal/domains/application"
	"humanglue-backend/internal/domains/profile"
	"humanglue-backend/internal/shared"
)

// ========================================
// FAKES
// ========================================

type fakeRepo struct {
	apps       map[uuid.UUID]*application.ExpertApplication
	history    []*application.HistoryEntry
	lastFilter application.ListApplicationsFilter
	updateErr  error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{apps: map[uuid.UUID]*application.ExpertApplication{}}
}

func (r *fakeRepo) Create(ctx context.Context, app *application.ExpertApplication) error {
	cp := *app
	r.apps[app.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*application.ExpertApplication, error) {
	app, ok := r.apps[id]
	if !ok {
		return nil, application.ErrApplicationNotFound
	}
	cp := *app
	return &cp, nil
}

func (r *fakeRepo) FindActiveByEmail(ctx context.Context, email string) (*application.ExpertApplication, error) {
	for _, app := range r.apps {
		if strings.EqualFold(app.Email, email) &&
			app.Status != application.StatusRejected &&
			app.Status != application.StatusWithdrawn {
			cp := *app
			return &cp, nil
		}
	}
	return nil, application.ErrApplicationNotFound
}

func (r *fakeRepo) Update(ctx context.Context, id uuid.UUID, expectedVersion int, fields map[string]interface{}) (*application.ExpertApplication, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	app, ok := r.apps[id]
	if !ok {
		return nil, application.ErrApplicationNotFound
	}
	if app.Version != expectedVersion {
		return nil, application.ErrVersionConflict
	}

	for column, value := range fields {
		switch column {
		case "status":
			app.Status = application.Status(value.(string))
		case "full_name":
			app.FullName = value.(string)
		case "email":
			app.Email = value.(string)
		case "bio":
			app.Bio = value.(string)
		case "professional_title":
			app.ProfessionalTitle = value.(string)
		case "headline":
			headline := value.(string)
			app.Headline = &headline
		case "availability":
			a := application.Availability(value.(string))
			app.Availability = &a
		case "agreed_to_terms":
			app.AgreedToTerms = value.(bool)
		case "agreed_to_terms_at":
			at := value.(time.Time)
			app.AgreedToTermsAt = &at
		case "submitted_at":
			at := value.(time.Time)
			app.SubmittedAt = &at
		case "reviewer_id":
			rid := value.(uuid.UUID)
			app.ReviewerID = &rid
		case "reviewed_at":
			at := value.(time.Time)
			app.ReviewedAt = &at
		case "review_notes":
			notes := value.(string)
			app.ReviewNotes = &notes
		case "rejection_reason":
			reason := value.(string)
			app.RejectionReason = &reason
		case "approved_at":
			at := value.(time.Time)
			app.ApprovedAt = &at
		case "profile_image_url":
			url := value.(string)
			app.ProfileImageURL = &url
		}
	}
	app.Version++
	app.UpdatedAt = time.Now()

	cp := *app
	return &cp, nil
}

func (r *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.apps[id]; !ok {
		return application.ErrApplicationNotFound
	}
	delete(r.apps, id)
	return nil
}

func (r *fakeRepo) List(ctx context.Context, filter application.ListApplicationsFilter) ([]*application.ExpertApplication, int64, error) {
	r.lastFilter = filter
	var matched []*application.ExpertApplication
	for _, app := range r.apps {
		if filter.Status != nil && app.Status != *filter.Status {
			continue
		}
		if filter.UpdatedBefore != nil && !app.UpdatedAt.Before(*filter.UpdatedBefore) {
			continue
		}
		cp := *app
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[filter.Offset:]
		}
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (r *fakeRepo) InsertHistory(ctx context.Context, entry *application.HistoryEntry) error {
	r.history = append(r.history, entry)
	return nil
}

func (r *fakeRepo) ListHistory(ctx context.Context, applicationID uuid.UUID) ([]*application.HistoryEntry, error) {
	var out []*application.HistoryEntry
	for _, e := range r.history {
		if e.ApplicationID == applicationID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeEnqueuer struct {
	types []string
}

func (f *fakeEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	f.types = append(f.types, task.Type())
	return &asynq.TaskInfo{}, nil
}

func newTestService() (application.Service, *fakeRepo, *fakeEnqueuer) {
	repo := newFakeRepo()
	tasks := &fakeEnqueuer{}
	return NewApplicationService(repo, tasks, nil, nil), repo, tasks
}

func member(email string) *application.Caller {
	return &application.Caller{ID: uuid.New(), Email: email, Role: profile.RoleMember}
}

func admin() *application.Caller {
	return &application.Caller{ID: uuid.New(), Email: "reviewer@humanglue.ai", Role: profile.RoleAdmin}
}

func draftRequest() application.CreateApplicationRequest {
	return application.CreateApplicationRequest{
		FullName:          "Alice Nguyen",
		Email:             "alice@example.com",
		ProfessionalTitle: "AI Transformation Consultant",
		Bio:               strings.Repeat("b", 150),
		YearsExperience:   8,
		AgreedToTerms:     true,
	}
}

// ========================================
// CREATE
// ========================================

func TestCreate_Draft(t *testing.T) {
	svc, repo, tasks := newTestService()

	app, err := svc.Create(context.Background(), nil, draftRequest(), application.RequestMeta{IPAddress: "10.0.0.1"})
	require.NoError(t, err)

	assert.Equal(t, application.StatusDraft, app.Status)
	assert.Equal(t, 1, app.Version)
	assert.Nil(t, app.UserID)
	assert.Nil(t, app.SubmittedAt)
	assert.NotNil(t, app.AgreedToTermsAt, "agreeing to terms must stamp the consent time")
	require.NotNil(t, app.IPAddress)
	assert.Equal(t, "10.0.0.1", *app.IPAddress)

	// Drafts trigger no emails.
	assert.Empty(t, tasks.types)
	assert.Len(t, repo.history, 1)
	assert.Equal(t, application.StatusDraft, repo.history[0].ToStatus)
}

func TestCreate_SubmitNow(t *testing.T) {
	svc, repo, tasks := newTestService()
	caller := member("alice@example.com")

	req := draftRequest()
	req.SubmitNow = true

	app, err := svc.Create(context.Background(), caller, req, application.RequestMeta{})
	require.NoError(t, err)

	assert.Equal(t, application.StatusSubmitted, app.Status)
	assert.NotNil(t, app.SubmittedAt)
	require.NotNil(t, app.UserID)
	assert.Equal(t, caller.ID, *app.UserID)

	assert.ElementsMatch(t, []string{
		shared.TypeApplicationConfirmation,
		shared.TypeApplicationAdminNotify,
	}, tasks.types)
	assert.Len(t, repo.history, 1)
}

func TestCreate_SubmitNowWithoutTermsPersistsNothing(t *testing.T) {
	svc, repo, _ := newTestService()

	req := draftRequest()
	req.AgreedToTerms = false
	req.SubmitNow = true

	_, err := svc.Create(context.Background(), nil, req, application.RequestMeta{})
	assert.ErrorIs(t, err, application.ErrTermsRequired)
	assert.Empty(t, repo.apps, "a failed submission must not leave a row behind")
}

func TestCreate_DuplicateActiveEmail(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(context.Background(), nil, draftRequest(), application.RequestMeta{})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), nil, draftRequest(), application.RequestMeta{})
	assert.ErrorIs(t, err, application.ErrApplicationExists)
}

func TestCreate_AfterWithdrawalAllowsReapply(t *testing.T) {
	svc, repo, _ := newTestService()

	first, err := svc.Create(context.Background(), nil, draftRequest(), application.RequestMeta{})
	require.NoError(t, err)
	repo.apps[first.ID].Status = application.StatusWithdrawn

	_, err = svc.Create(context.Background(), nil, draftRequest(), application.RequestMeta{})
	assert.NoError(t, err)
}

// ========================================
// READ
// ========================================

func TestGet_UnrelatedCallerSeesNotFound(t *testing.T) {
	svc, _, _ := newTestService()

	app, err := svc.Create(context.Background(), nil, draftRequest(), application.RequestMeta{})
	require.NoError(t, err)

	// A stranger gets the same answer as for a random ID, so existing
	// IDs cannot be probed.
	_, _, err = svc.Get(context.Background(), member("bob@example.com"), app.ID)
	assert.ErrorIs(t, err, application.ErrApplicationNotFound)

	_, _, err = svc.Get(context.Background(), member("bob@example.com"), uuid.New())
	assert.ErrorIs(t, err, application.ErrApplicationNotFound)
}

func TestGet_OwnerByEmailSeesNoHistory(t *testing.T) {
	svc, _, _ := newTestService()

	app, err := svc.Create(context.Background(), nil, draftRequest(), application.RequestMeta{})
	require.NoError(t, err)

	got, history, err := svc.Get(context.Background(), member("alice@example.com"), app.ID)
	require.NoError(t, err)
	assert.Equal(t, app.ID, got.ID)
	assert.Nil(t, history, "audit history is admin-only")
}

func TestGet_AdminSeesHistory(t *testing.T) {
	svc, _, _ := newTestService()

	app, err := svc.Create(context.Background(), nil, draftRequest(), application.RequestMeta{})
	require.NoError(t, err)

	_, history, err := svc.Get(context.Background(), admin(), app.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestList_NonAdminIsScopedToOwn(t *testing.T) {
	svc, repo, _ := newTestService()
	caller := member("alice@example.com")

	_, _, err := svc.List(context.Background(), caller, application.ListApplicationsFilter{})
	require.NoError(t, err)

	require.NotNil(t, repo.lastFilter.OwnerEmail)
	assert.Equal(t, "alice@example.com", *repo.lastFilter.OwnerEmail)
	require.NotNil(t, repo.lastFilter.OwnerID)

	// Admins list everything.
	_, _, err = svc.List(context.Background(), admin(), application.ListApplicationsFilter{})
	require.NoError(t, err)
	assert.Nil(t, repo.lastFilter.OwnerEmail)
}

// ========================================
// UPDATE / SUBMIT
// ========================================

func TestUpdate_EmptyPatchIsIdempotent(t *testing.T) {
	svc, _, _ := newTestService()

	app, err := svc.Create(context.Background(), nil, draftRequest(), application.RequestMeta{})
	require.NoError(t, err)

	got, err := svc.Update(context.Background(), member("alice@example.com"), app.ID, application.UpdateApplicationRequest{})
	require.NoError(t, err)
	assert.Equal(t, app.Version, got.Version, "an empty patch must not bump the version")
}

func TestUpdate_OwnerLockedOutAfterSubmission(t *testing.T) {
	svc, _, _ := newTestService()

	req := draftRequest()
	req.SubmitNow = true
	app, err := svc.Create(context.Background(), nil, req, application.RequestMeta{})
	require.NoError(t, err)

	name := "Alice N."
	_, err = svc.Update(context.Background(), member("alice@example.com"), app.ID,
		application.UpdateApplicationRequest{FullName: &name})
	assert.ErrorIs(t, err, application.ErrInvalidStatus)

	// Admins may still correct fields.
	_, err = svc.Update(context.Background(), admin(), app.ID,
		application.UpdateApplicationRequest{FullName: &name})
	assert.NoError(t, err)
}

func TestUpdate_AvailabilityPersistsAsEnumString(t *testing.T) {
	svc, _, _ := newTestService()
	caller := member("alice@example.com")

	app, err := svc.Create(context.Background(), caller, draftRequest(), application.RequestMeta{})
	require.NoError(t, err)

	avail := application.AvailabilityPartTime
	updated, err := svc.Update(context.Background(), caller, app.ID,
		application.UpdateApplicationRequest{Availability: &avail})
	require.NoError(t, err)

	require.NotNil(t, updated.Availability)
	assert.Equal(t, application.AvailabilityPartTime, *updated.Availability)
}

func TestUpdate_SubmitNowIgnoredOutsideDraft(t *testing.T) {
	svc, repo, tasks := newTestService()

	req := draftRequest()
	req.SubmitNow = true
	app, err := svc.Create(context.Background(), nil, req, application.RequestMeta{})
	require.NoError(t, err)
	emailsAfterCreate := len(tasks.types)

	// A stray submitNow on an already-submitted application is a no-op
	// flag; the rest of the patch still applies.
	headline := "Org design for AI-era teams"
	updated, err := svc.Update(context.Background(), admin(), app.ID,
		application.UpdateApplicationRequest{Headline: &headline, SubmitNow: true})
	require.NoError(t, err)

	assert.Equal(t, application.StatusSubmitted, updated.Status)
	require.NotNil(t, updated.Headline)
	assert.Equal(t, headline, *updated.Headline)
	assert.Len(t, tasks.types, emailsAfterCreate, "no second submission emails")
	assert.Len(t, repo.history, 1, "no extra transition recorded")
}

func TestUpdate_SubmitFillsAndSubmitsAtomically(t *testing.T) {
	svc, repo, tasks := newTestService()

	req := draftRequest()
	req.Bio = strings.Repeat("b", 150)
	app, err := svc.Create(context.Background(), nil, req, application.RequestMeta{})
	require.NoError(t, err)

	title := "Organizational AI Readiness Expert"
	got, err := svc.Update(context.Background(), member("alice@example.com"), app.ID,
		application.UpdateApplicationRequest{ProfessionalTitle: &title, SubmitNow: true})
	require.NoError(t, err)

	assert.Equal(t, application.StatusSubmitted, got.Status)
	assert.Equal(t, title, got.ProfessionalTitle)
	assert.NotNil(t, got.SubmittedAt)
	assert.ElementsMatch(t, []string{
		shared.TypeApplicationConfirmation,
		shared.TypeApplicationAdminNotify,
	}, tasks.types)
	assert.Len(t, repo.history, 2)
}

func TestUpdate_FailedSubmissionChangesNothing(t *testing.T) {
	svc, repo, _ := newTestService()

	req := draftRequest()
	req.AgreedToTerms = false
	app, err := svc.Create(context.Background(), nil, req, application.RequestMeta{})
	require.NoError(t, err)

	name := "Alice Changed"
	_, err = svc.Update(context.Background(), member("alice@example.com"), app.ID,
		application.UpdateApplicationRequest{FullName: &name, SubmitNow: true})
	assert.ErrorIs(t, err, application.ErrTermsRequired)

	// The field change was rejected along with the submission.
	stored := repo.apps[app.ID]
	assert.Equal(t, "Alice Nguyen", stored.FullName)
	assert.Equal(t, application.StatusDraft, stored.Status)
}

func TestUpdate_TermsTimestampSetOnceAndKept(t *testing.T) {
	svc, _, _ := newTestService()

	req := draftRequest()
	req.AgreedToTerms = false
	app, err := svc.Create(context.Background(), nil, req, application.RequestMeta{})
	require.NoError(t, err)
	assert.Nil(t, app.AgreedToTermsAt)

	agree := true
	got, err := svc.Update(context.Background(), member("alice@example.com"), app.ID,
		application.UpdateApplicationRequest{AgreedToTerms: &agree})
	require.NoError(t, err)
	require.NotNil(t, got.AgreedToTermsAt)
	firstStamp := *got.AgreedToTermsAt

	// Flipping the flag off keeps the consent timestamp as the audit
	// record of when agreement happened.
	disagree := false
	got, err = svc.Update(context.Background(), member("alice@example.com"), app.ID,
		application.UpdateApplicationRequest{AgreedToTerms: &disagree})
	require.NoError(t, err)
	assert.False(t, got.AgreedToTerms)
	require.NotNil(t, got.AgreedToTermsAt)
	assert.Equal(t, firstStamp, *got.AgreedToTermsAt)

	// Agreeing again does not move the original stamp either.
	got, err = svc.Update(context.Background(), member("alice@example.com"), app.ID,
		application.UpdateApplicationRequest{AgreedToTerms: &agree})
	require.NoError(t, err)
	assert.Equal(t, firstStamp, *got.AgreedToTermsAt)
}

func TestUpdate_VersionConflictSurfaces(t *testing.T) {
	svc, repo, _ := newTestService()

	app, err := svc.Create(context.Background(), nil, draftRequest(), application.RequestMeta{})
	require.NoError(t, err)

	repo.updateErr = application.ErrVersionConflict
	name := "Alice Raced"
	_, err = svc.Update(context.Background(), member("alice@example.com"), app.ID,
		application.UpdateApplicationRequest{FullName: &name})
	assert.ErrorIs(t, err, application.ErrVersionConflict)
}

// ========================================
// DELETE / WITHDRAW
// ========================================

func TestDelete_OwnerWithdraws(t *testing.T) {
	svc, repo, _ := newTestService()

	app, err := svc.Create(context.Background(), nil, draftRequest(), application.RequestMeta{})
	require.NoError(t, err)

	outcome, err := svc.Delete(context.Background(), member("alice@example.com"), app.ID)
	require.NoError(t, err)
	assert.Equal(t, application.OutcomeWithdrawn, outcome)
	assert.Equal(t, application.StatusWithdrawn, repo.apps[app.ID].Status)
}

func TestDelete_OwnerCannotWithdrawDecidedApplication(t *testing.T) {
	svc, repo, _ := newTestService()

	app, err := svc.Create(context.Background(), nil, draftRequest(), application.RequestMeta{})
	require.NoError(t, err)
	repo.apps[app.ID].Status = application.StatusApproved

	_, err = svc.Delete(context.Background(), member("alice@example.com"), app.ID)
	assert.ErrorIs(t, err, application.ErrInvalidStatus)
}

func TestDelete_AdminRemovesRow(t *testing.T) {
	svc, repo, _ := newTestService()

	app, err := svc.Create(context.Background(), nil, draftRequest(), application.RequestMeta{})
	require.NoError(t, err)

	outcome, err := svc.Delete(context.Background(), admin(), app.ID)
	require.NoError(t, err)
	assert.Equal(t, application.OutcomeDeleted, outcome)
	assert.Empty(t, repo.apps)
}

func TestDelete_StrangerIsForbidden(t *testing.T) {
	svc, _, _ := newTestService()

	app, err := svc.Create(context.Background(), nil, draftRequest(), application.RequestMeta{})
	require.NoError(t, err)

	_, err = svc.Delete(context.Background(), member("bob@example.com"), app.ID)
	assert.ErrorIs(t, err, application.ErrForbidden)
}

// ========================================
// REVIEW
// ========================================

func submitted(t *testing.T, svc application.Service) *application.ExpertApplication {
	t.Helper()
	req := draftRequest()
	req.SubmitNow = true
	app, err := svc.Create(context.Background(), nil, req, application.RequestMeta{})
	require.NoError(t, err)
	return app
}

func TestReview_NonAdminForbidden(t *testing.T) {
	svc, _, _ := newTestService()
	app := submitted(t, svc)

	_, err := svc.Review(context.Background(), member("alice@example.com"), app.ID,
		application.ReviewRequest{Action: application.ActionApprove})
	assert.ErrorIs(t, err, application.ErrForbidden)
}

func TestReview_Approve(t *testing.T) {
	svc, repo, tasks := newTestService()
	app := submitted(t, svc)
	reviewer := admin()

	notes := "Strong profile"
	got, err := svc.Review(context.Background(), reviewer, app.ID,
		application.ReviewRequest{Action: application.ActionApprove, ReviewNotes: &notes})
	require.NoError(t, err)

	assert.Equal(t, application.StatusApproved, got.Status)
	assert.NotNil(t, got.ApprovedAt)
	assert.NotNil(t, got.ReviewedAt)
	require.NotNil(t, got.ReviewerID)
	assert.Equal(t, reviewer.ID, *got.ReviewerID)

	assert.Contains(t, tasks.types, shared.TypeApplicationDecision)
	last := repo.history[len(repo.history)-1]
	assert.Equal(t, application.StatusSubmitted, last.FromStatus)
	assert.Equal(t, application.StatusApproved, last.ToStatus)
}

func TestReview_RejectRequiresReason(t *testing.T) {
	svc, _, _ := newTestService()
	app := submitted(t, svc)

	_, err := svc.Review(context.Background(), admin(), app.ID,
		application.ReviewRequest{Action: application.ActionReject})
	assert.ErrorIs(t, err, application.ErrReasonRequired)

	reason := "Insufficient enterprise experience"
	got, err := svc.Review(context.Background(), admin(), app.ID,
		application.ReviewRequest{Action: application.ActionReject, RejectionReason: &reason})
	require.NoError(t, err)
	assert.Equal(t, application.StatusRejected, got.Status)
	require.NotNil(t, got.RejectionReason)
	assert.Equal(t, reason, *got.RejectionReason)
}

func TestReview_DraftIsNotReviewable(t *testing.T) {
	svc, _, _ := newTestService()

	app, err := svc.Create(context.Background(), nil, draftRequest(), application.RequestMeta{})
	require.NoError(t, err)

	_, err = svc.Review(context.Background(), admin(), app.ID,
		application.ReviewRequest{Action: application.ActionApprove})
	assert.ErrorIs(t, err, application.ErrInvalidTransition)
}

func TestReview_RequestChangesReopensForApplicant(t *testing.T) {
	svc, _, _ := newTestService()
	app := submitted(t, svc)

	_, err := svc.Review(context.Background(), admin(), app.ID,
		application.ReviewRequest{Action: application.ActionMarkUnderReview})
	require.NoError(t, err)

	notes := "Please add work history"
	got, err := svc.Review(context.Background(), admin(), app.ID,
		application.ReviewRequest{Action: application.ActionRequestChanges, ReviewNotes: &notes})
	require.NoError(t, err)
	assert.Equal(t, application.StatusSubmitted, got.Status)
}

// ========================================
// CLEANUP
// ========================================

func TestCleanupStaleDrafts(t *testing.T) {
	svc, repo, _ := newTestService()

	stale, err := svc.Create(context.Background(), nil, draftRequest(), application.RequestMeta{})
	require.NoError(t, err)

	freshReq := draftRequest()
	freshReq.Email = "bob@example.com"
	fresh, err := svc.Create(context.Background(), nil, freshReq, application.RequestMeta{})
	require.NoError(t, err)

	repo.apps[stale.ID].UpdatedAt = time.Now().Add(-100 * 24 * time.Hour)
	repo.apps[fresh.ID].UpdatedAt = time.Now().Add(-time.Hour)

	withdrawn, err := svc.CleanupStaleDrafts(context.Background(), 90*24*time.Hour)
	require.NoError(t, err)

	assert.Equal(t, 1, withdrawn)
	assert.Equal(t, application.StatusWithdrawn, repo.apps[stale.ID].Status)
	assert.Equal(t, application.StatusDraft, repo.apps[fresh.ID].Status)
}

func TestCleanupStaleDrafts_FindsDraftsBeyondFirstPage(t *testing.T) {
	svc, repo, _ := newTestService()

	// A full page of fresh drafts sorts ahead of the stale one.
	for i := 0; i < 100; i++ {
		id := uuid.New()
		repo.apps[id] = &application.ExpertApplication{
			ID:        id,
			Email:     fmt.Sprintf("fresh%d@example.com", i),
			Status:    application.StatusDraft,
			Version:   1,
			CreatedAt: time.Now().Add(-time.Duration(i) * time.Minute),
			UpdatedAt: time.Now().Add(-time.Hour),
		}
	}
	staleID := uuid.New()
	repo.apps[staleID] = &application.ExpertApplication{
		ID:        staleID,
		Email:     "stale@example.com",
		Status:    application.StatusDraft,
		Version:   1,
		CreatedAt: time.Now().Add(-200 * 24 * time.Hour),
		UpdatedAt: time.Now().Add(-100 * 24 * time.Hour),
	}

	withdrawn, err := svc.CleanupStaleDrafts(context.Background(), 90*24*time.Hour)
	require.NoError(t, err)

	assert.Equal(t, 1, withdrawn)
	assert.Equal(t, application.StatusWithdrawn, repo.apps[staleID].Status)
}
