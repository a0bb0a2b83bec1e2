package application

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the closed lifecycle enum for expert applications.
//
// draft -> submitted -> under_review -> approved | rejected
// withdrawn is reachable from draft, submitted and under_review only.
type Status string

const (
	StatusDraft       Status = "draft"
	StatusSubmitted   Status = "submitted"
	StatusUnderReview Status = "under_review"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
	StatusWithdrawn   Status = "withdrawn"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusUnderReview, StatusApproved, StatusRejected, StatusWithdrawn:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// Availability is the closed enum for an expert's stated capacity.
type Availability string

const (
	AvailabilityFullTime Availability = "full_time"
	AvailabilityPartTime Availability = "part_time"
	AvailabilityLimited  Availability = "limited"
)

func (a Availability) String() string {
	return string(a)
}

func (a Availability) IsValid() bool {
	switch a {
	case AvailabilityFullTime, AvailabilityPartTime, AvailabilityLimited:
		return true
	}
	return false
}

// Structured credential records, persisted as JSONB.

type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        *int   `json:"year,omitempty"`
}

type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Year   *int   `json:"year,omitempty"`
	URL    string `json:"url,omitempty"`
}

type WorkHistory struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	StartYear   *int   `json:"startYear,omitempty"`
	EndYear     *int   `json:"endYear,omitempty"`
	Description string `json:"description,omitempty"`
}

type SampleTopic struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Format      string `json:"format,omitempty"`
}

type Reference struct {
	Name         string `json:"name"`
	Title        string `json:"title,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Relationship string `json:"relationship,omitempty"`
}

// ExpertApplication is the central entity, mapped 1:1 to the
// expert_applications table.
type ExpertApplication struct {
	ID uuid.UUID `json:"id"`

	// UserID is nil when the application was created anonymously and
	// not yet claimed by an account; ownership then falls back to the
	// email match.
	UserID *uuid.UUID `json:"user_id,omitempty"`

	// Personal information
	FullName string  `json:"full_name"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone,omitempty"`
	Location *string `json:"location,omitempty"`
	Timezone *string `json:"timezone,omitempty"`

	// Professional information
	ProfessionalTitle string  `json:"professional_title"`
	Headline          *string `json:"headline,omitempty"`
	Bio               string  `json:"bio"`

	// Visual assets
	ProfileImageURL *string `json:"profile_image_url,omitempty"`
	VideoIntroURL   *string `json:"video_intro_url,omitempty"`

	// Experience & expertise
	YearsExperience int      `json:"years_experience"`
	ExpertiseAreas  []string `json:"expertise_areas"`
	AIPillars       []string `json:"ai_pillars"`
	Industries      []string `json:"industries"`

	// Credentials
	Education      []Education     `json:"education"`
	Certifications []Certification `json:"certifications"`
	WorkHistory    []WorkHistory   `json:"work_history"`

	// Social links
	LinkedinURL   *string  `json:"linkedin_url,omitempty"`
	TwitterURL    *string  `json:"twitter_url,omitempty"`
	WebsiteURL    *string  `json:"website_url,omitempty"`
	GithubURL     *string  `json:"github_url,omitempty"`
	PortfolioURLs []string `json:"portfolio_urls"`

	// Service information
	DesiredHourlyRate *decimal.Decimal `json:"desired_hourly_rate,omitempty"`
	Availability      *Availability    `json:"availability,omitempty"`
	ServicesOffered   []string         `json:"services_offered"`

	// Application narrative
	WhyJoin      *string       `json:"why_join,omitempty"`
	UniqueValue  *string       `json:"unique_value,omitempty"`
	SampleTopics []SampleTopic `json:"sample_topics"`
	References   []Reference   `json:"references"`

	// Legal consents
	AgreedToTerms          bool       `json:"agreed_to_terms"`
	AgreedToTermsAt        *time.Time `json:"agreed_to_terms_at,omitempty"`
	BackgroundCheckConsent bool       `json:"background_check_consent"`

	// Lifecycle
	Status      Status     `json:"status"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`

	// Review
	ReviewerID      *uuid.UUID `json:"reviewer_id,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	ReviewNotes     *string    `json:"review_notes,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`

	// Tracking
	IPAddress    *string                `json:"ip_address,omitempty"`
	UserAgent    *string                `json:"user_agent,omitempty"`
	Source       *string                `json:"source,omitempty"`
	ReferralCode *string                `json:"referral_code,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`

	// Version guards against lost updates: every write carries the
	// version it read and increments it.
	Version int `json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HistoryEntry is one append-only audit row, visible to admins only.
type HistoryEntry struct {
	ID            uuid.UUID  `json:"id"`
	ApplicationID uuid.UUID  `json:"application_id"`
	ActorID       *uuid.UUID `json:"actor_id,omitempty"`
	FromStatus    Status     `json:"from_status"`
	ToStatus      Status     `json:"to_status"`
	Note          *string    `json:"note,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
