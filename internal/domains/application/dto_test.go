package application

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreateRequest() CreateApplicationRequest {
	return CreateApplicationRequest{
		FullName:          "Alice Nguyen",
		Email:             "alice@example.com",
		ProfessionalTitle: "AI Transformation Consultant",
		Bio:               strings.Repeat("b", 150),
		YearsExperience:   8,
		AgreedToTerms:     true,
	}
}

func TestCreateApplicationRequest_Valid(t *testing.T) {
	assert.NoError(t, validCreateRequest().Validate())
}

func TestCreateApplicationRequest_ReportsEveryInvalidField(t *testing.T) {
	req := validCreateRequest()
	req.FullName = "A"
	req.Email = "not-an-email"
	req.Bio = "too short"

	err := req.Validate()
	require.Error(t, err)

	details := ValidationDetails(err)
	fields := make([]string, 0, len(details))
	for _, d := range details {
		fields = append(fields, d.Field)
	}

	// All three failures surface in one pass, not just the first.
	assert.Contains(t, fields, "fullName")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "bio")
	assert.Len(t, details, 3)
}

func TestCreateApplicationRequest_NestedCredentialErrors(t *testing.T) {
	req := validCreateRequest()
	req.Education = []Education{{Institution: "MIT"}} // degree missing
	req.References = []Reference{{Email: "bad"}}      // name missing, email invalid

	err := req.Validate()
	require.Error(t, err)

	details := ValidationDetails(err)
	fields := make([]string, 0, len(details))
	for _, d := range details {
		fields = append(fields, d.Field)
	}
	assert.Contains(t, fields, "education.0.degree")
	assert.Contains(t, fields, "references.0.name")
	assert.Contains(t, fields, "references.0.email")
}

func TestUpdateApplicationRequest_EmptyIsValid(t *testing.T) {
	req := UpdateApplicationRequest{}
	assert.NoError(t, req.Validate())
	assert.True(t, req.IsEmpty())
}

func TestUpdateApplicationRequest_RejectsOutOfRangeFields(t *testing.T) {
	shortTitle := "Dev"
	badURL := "not a url"
	negative := -1

	req := UpdateApplicationRequest{
		ProfessionalTitle: &shortTitle,
		LinkedinURL:       &badURL,
		YearsExperience:   &negative,
	}

	err := req.Validate()
	require.Error(t, err)

	details := ValidationDetails(err)
	fields := make([]string, 0, len(details))
	for _, d := range details {
		fields = append(fields, d.Field)
	}
	assert.Contains(t, fields, "professionalTitle")
	assert.Contains(t, fields, "linkedinUrl")
	assert.Contains(t, fields, "yearsExperience")
}

func TestUpdateApplicationRequest_SubmitNowAloneIsEmpty(t *testing.T) {
	// submitNow is an action, not a field change.
	req := UpdateApplicationRequest{SubmitNow: true}
	assert.True(t, req.IsEmpty())
}

func TestReviewRequest_Validate(t *testing.T) {
	assert.NoError(t, ReviewRequest{Action: ActionApprove}.Validate())
	assert.Error(t, ReviewRequest{}.Validate())
	assert.Error(t, ReviewRequest{Action: ReviewAction("escalate")}.Validate())

	tooLong := strings.Repeat("n", 2001)
	assert.Error(t, ReviewRequest{Action: ActionApprove, ReviewNotes: &tooLong}.Validate())
}

func TestListApplicationsFilter_SetDefaults(t *testing.T) {
	f := ListApplicationsFilter{}
	f.SetDefaults()
	assert.Equal(t, 50, f.Limit)
	assert.Equal(t, 0, f.Offset)

	f = ListApplicationsFilter{Limit: 500, Offset: -3}
	f.SetDefaults()
	assert.Equal(t, 100, f.Limit)
	assert.Equal(t, 0, f.Offset)
}
