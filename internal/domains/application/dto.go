package application

import (
	"errors"
	"sort"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"
)

// Element-level rules for the structured credential arrays. ozzo
// validates Validatable slice elements automatically, so attaching
// the rules here is enough to get per-element errors keyed by index.

func (e Education) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Degree, validation.Required.Error("degree is required")),
		validation.Field(&e.Institution, validation.Required.Error("institution is required")),
	)
}

func (c Certification) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required.Error("name is required")),
		validation.Field(&c.Issuer, validation.Required.Error("issuer is required")),
		validation.Field(&c.URL, is.URL),
	)
}

func (w WorkHistory) Validate() error {
	return validation.ValidateStruct(&w,
		validation.Field(&w.Title, validation.Required.Error("title is required")),
		validation.Field(&w.Company, validation.Required.Error("company is required")),
	)
}

func (t SampleTopic) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Title, validation.Required.Error("title is required")),
	)
}

func (r Reference) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.Error("name is required")),
		validation.Field(&r.Email, is.Email),
	)
}

func validAvailability(value interface{}) error {
	a, ok := value.(*Availability)
	if !ok || a == nil {
		return nil
	}
	if !a.IsValid() {
		return errors.New("must be one of full_time, part_time, limited")
	}
	return nil
}

func nonNegativeRate(value interface{}) error {
	rate, ok := value.(*decimal.Decimal)
	if !ok || rate == nil {
		return nil
	}
	if rate.IsNegative() {
		return errors.New("must be 0 or greater")
	}
	return nil
}

// ========================================
// CREATE
// ========================================

// CreateApplicationRequest creates a new application, optionally
// submitting it in the same call.
type CreateApplicationRequest struct {
	// Personal information
	FullName string  `json:"fullName"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone,omitempty"`
	Location *string `json:"location,omitempty"`
	Timezone *string `json:"timezone,omitempty"`

	// Professional information
	ProfessionalTitle string  `json:"professionalTitle"`
	Headline          *string `json:"headline,omitempty"`
	Bio               string  `json:"bio"`

	// Visual assets
	ProfileImageURL *string `json:"profileImageUrl,omitempty"`
	VideoIntroURL   *string `json:"videoIntroUrl,omitempty"`

	// Experience & expertise
	YearsExperience int      `json:"yearsExperience"`
	ExpertiseAreas  []string `json:"expertiseAreas,omitempty"`
	AIPillars       []string `json:"aiPillars,omitempty"`
	Industries      []string `json:"industries,omitempty"`

	// Credentials
	Education      []Education     `json:"education,omitempty"`
	Certifications []Certification `json:"certifications,omitempty"`
	WorkHistory    []WorkHistory   `json:"workHistory,omitempty"`

	// Social links
	LinkedinURL   *string  `json:"linkedinUrl,omitempty"`
	TwitterURL    *string  `json:"twitterUrl,omitempty"`
	WebsiteURL    *string  `json:"websiteUrl,omitempty"`
	GithubURL     *string  `json:"githubUrl,omitempty"`
	PortfolioURLs []string `json:"portfolioUrls,omitempty"`

	// Service information
	DesiredHourlyRate *decimal.Decimal `json:"desiredHourlyRate,omitempty"`
	Availability      *Availability    `json:"availability,omitempty"`
	ServicesOffered   []string         `json:"servicesOffered,omitempty"`

	// Application narrative
	WhyJoin      *string       `json:"whyJoin,omitempty"`
	UniqueValue  *string       `json:"uniqueValue,omitempty"`
	SampleTopics []SampleTopic `json:"sampleTopics,omitempty"`
	References   []Reference   `json:"references,omitempty"`

	// Legal
	AgreedToTerms          bool `json:"agreedToTerms"`
	BackgroundCheckConsent bool `json:"backgroundCheckConsent"`

	// Submission options
	SubmitNow    bool    `json:"submitNow"`
	Source       *string `json:"source,omitempty"`
	ReferralCode *string `json:"referralCode,omitempty"`
}

func (r CreateApplicationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName,
			validation.Required.Error("full name is required"),
			validation.Length(2, 100).Error("name must be 2-100 characters"),
		),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			is.Email.Error("invalid email address"),
		),
		validation.Field(&r.ProfessionalTitle,
			validation.Required.Error("professional title is required"),
			validation.Length(5, 200).Error("title must be 5-200 characters"),
		),
		validation.Field(&r.Headline, validation.Length(0, 200)),
		validation.Field(&r.Bio,
			validation.Required.Error("bio is required"),
			validation.Length(100, 3000).Error("bio must be 100-3000 characters"),
		),
		validation.Field(&r.ProfileImageURL, is.URL),
		validation.Field(&r.VideoIntroURL, is.URL),
		validation.Field(&r.YearsExperience, validation.Min(0).Error("years must be 0 or greater")),
		validation.Field(&r.Education),
		validation.Field(&r.Certifications),
		validation.Field(&r.WorkHistory),
		validation.Field(&r.LinkedinURL, is.URL),
		validation.Field(&r.TwitterURL, is.URL),
		validation.Field(&r.WebsiteURL, is.URL),
		validation.Field(&r.GithubURL, is.URL),
		validation.Field(&r.PortfolioURLs, validation.Each(is.URL)),
		validation.Field(&r.DesiredHourlyRate, validation.By(nonNegativeRate)),
		validation.Field(&r.Availability, validation.By(validAvailability)),
		validation.Field(&r.WhyJoin, validation.Length(0, 2000)),
		validation.Field(&r.UniqueValue, validation.Length(0, 2000)),
		validation.Field(&r.SampleTopics),
		validation.Field(&r.References),
	)
}

// ========================================
// UPDATE
// ========================================

// UpdateApplicationRequest is a true partial update: every field is
// optional and absent fields leave persisted values untouched.
// Requiredness for submission is enforced by the transition engine,
// not here.
type UpdateApplicationRequest struct {
	// Personal information
	FullName *string `json:"fullName,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Location *string `json:"location,omitempty"`
	Timezone *string `json:"timezone,omitempty"`

	// Professional information
	ProfessionalTitle *string `json:"professionalTitle,omitempty"`
	Headline          *string `json:"headline,omitempty"`
	Bio               *string `json:"bio,omitempty"`

	// Visual assets
	ProfileImageURL *string `json:"profileImageUrl,omitempty"`
	VideoIntroURL   *string `json:"videoIntroUrl,omitempty"`

	// Experience & expertise
	YearsExperience *int     `json:"yearsExperience,omitempty"`
	ExpertiseAreas  []string `json:"expertiseAreas,omitempty"`
	AIPillars       []string `json:"aiPillars,omitempty"`
	Industries      []string `json:"industries,omitempty"`

	// Credentials
	Education      []Education     `json:"education,omitempty"`
	Certifications []Certification `json:"certifications,omitempty"`
	WorkHistory    []WorkHistory   `json:"workHistory,omitempty"`

	// Social links
	LinkedinURL   *string  `json:"linkedinUrl,omitempty"`
	TwitterURL    *string  `json:"twitterUrl,omitempty"`
	WebsiteURL    *string  `json:"websiteUrl,omitempty"`
	GithubURL     *string  `json:"githubUrl,omitempty"`
	PortfolioURLs []string `json:"portfolioUrls,omitempty"`

	// Service information
	DesiredHourlyRate *decimal.Decimal `json:"desiredHourlyRate,omitempty"`
	Availability      *Availability    `json:"availability,omitempty"`
	ServicesOffered   []string         `json:"servicesOffered,omitempty"`

	// Application narrative
	WhyJoin      *string       `json:"whyJoin,omitempty"`
	UniqueValue  *string       `json:"uniqueValue,omitempty"`
	SampleTopics []SampleTopic `json:"sampleTopics,omitempty"`
	References   []Reference   `json:"references,omitempty"`

	// Legal
	AgreedToTerms          *bool `json:"agreedToTerms,omitempty"`
	BackgroundCheckConsent *bool `json:"backgroundCheckConsent,omitempty"`

	// Action
	SubmitNow bool `json:"submitNow,omitempty"`
}

func (r UpdateApplicationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName, validation.Length(2, 100).Error("name must be 2-100 characters")),
		validation.Field(&r.Email, is.Email.Error("invalid email address")),
		validation.Field(&r.ProfessionalTitle, validation.Length(5, 200).Error("title must be 5-200 characters")),
		validation.Field(&r.Headline, validation.Length(0, 200)),
		validation.Field(&r.Bio, validation.Length(100, 3000).Error("bio must be 100-3000 characters")),
		validation.Field(&r.ProfileImageURL, is.URL),
		validation.Field(&r.VideoIntroURL, is.URL),
		validation.Field(&r.YearsExperience, validation.Min(0).Error("years must be 0 or greater")),
		validation.Field(&r.Education),
		validation.Field(&r.Certifications),
		validation.Field(&r.WorkHistory),
		validation.Field(&r.LinkedinURL, is.URL.Error("invalid URL")),
		validation.Field(&r.TwitterURL, is.URL),
		validation.Field(&r.WebsiteURL, is.URL),
		validation.Field(&r.GithubURL, is.URL),
		validation.Field(&r.PortfolioURLs, validation.Each(is.URL)),
		validation.Field(&r.DesiredHourlyRate, validation.By(nonNegativeRate)),
		validation.Field(&r.Availability, validation.By(validAvailability)),
		validation.Field(&r.WhyJoin, validation.Length(0, 2000)),
		validation.Field(&r.UniqueValue, validation.Length(0, 2000)),
		validation.Field(&r.SampleTopics),
		validation.Field(&r.References),
	)
}

// IsEmpty reports whether the request carries no field changes at all.
func (r UpdateApplicationRequest) IsEmpty() bool {
	return r.FullName == nil && r.Email == nil && r.Phone == nil &&
		r.Location == nil && r.Timezone == nil && r.ProfessionalTitle == nil &&
		r.Headline == nil && r.Bio == nil && r.ProfileImageURL == nil &&
		r.VideoIntroURL == nil && r.YearsExperience == nil &&
		r.ExpertiseAreas == nil && r.AIPillars == nil && r.Industries == nil &&
		r.Education == nil && r.Certifications == nil && r.WorkHistory == nil &&
		r.LinkedinURL == nil && r.TwitterURL == nil && r.WebsiteURL == nil &&
		r.GithubURL == nil && r.PortfolioURLs == nil &&
		r.DesiredHourlyRate == nil && r.Availability == nil &&
		r.ServicesOffered == nil && r.WhyJoin == nil && r.UniqueValue == nil &&
		r.SampleTopics == nil && r.References == nil &&
		r.AgreedToTerms == nil && r.BackgroundCheckConsent == nil
}

// ========================================
// REVIEW
// ========================================

// ReviewRequest is an admin review action.
type ReviewRequest struct {
	Action          ReviewAction `json:"action" binding:"required"`
	ReviewNotes     *string      `json:"reviewNotes,omitempty"`
	RejectionReason *string      `json:"rejectionReason,omitempty"`
}

func (r ReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Action,
			validation.Required,
			validation.By(func(value interface{}) error {
				if action, ok := value.(ReviewAction); !ok || !action.IsValid() {
					return errors.New("must be one of approve, reject, request_changes, mark_under_review")
				}
				return nil
			}),
		),
		validation.Field(&r.ReviewNotes, validation.Length(0, 2000)),
		validation.Field(&r.RejectionReason, validation.Length(0, 1000)),
	)
}

// ========================================
// LIST
// ========================================

type ListApplicationsFilter struct {
	Status *Status
	// Owner scoping for non-admin callers: match on either linkage.
	OwnerID    *string
	OwnerEmail *string
	// UpdatedBefore keeps only rows untouched since the given time.
	UpdatedBefore *time.Time
	Limit         int
	Offset        int
}

func (f *ListApplicationsFilter) SetDefaults() {
	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// ========================================
// VALIDATION ERROR DETAILS
// ========================================

// FieldError is one entry of a VALIDATION_ERROR details array.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationDetails flattens ozzo's nested error map into a stable,
// sorted list with one entry per offending field, so a client can
// render every form error from a single round trip.
func ValidationDetails(err error) []FieldError {
	var details []FieldError
	flattenValidationErrors("", err, &details)
	sort.Slice(details, func(i, j int) bool { return details[i].Field < details[j].Field })
	return details
}

func flattenValidationErrors(prefix string, err error, out *[]FieldError) {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		if err != nil {
			*out = append(*out, FieldError{Field: prefix, Message: err.Error()})
		}
		return
	}

	for field, fieldErr := range errs {
		key := field
		if prefix != "" {
			key = prefix + "." + field
		}
		flattenValidationErrors(key, fieldErr, out)
	}
}
