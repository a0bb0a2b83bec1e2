package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"humanglue-backend/internal/domains/application"
)

type postgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a PostgreSQL-backed application repository.
func NewPostgresRepository(db *pgxpool.Pool) application.Repository {
	return &postgresRepository{db: db}
}

const applicationColumns = `
	id, user_id, full_name, email, phone, location, timezone,
	professional_title, headline, bio, profile_image_url, video_intro_url,
	years_experience, expertise_areas, ai_pillars, industries,
	education, certifications, work_history,
	linkedin_url, twitter_url, website_url, github_url, portfolio_urls,
	desired_hourly_rate, availability, services_offered,
	why_join, unique_value, sample_topics, reference_contacts,
	agreed_to_terms, agreed_to_terms_at, background_check_consent,
	status, submitted_at, reviewer_id, reviewed_at, review_notes,
	rejection_reason, approved_at, ip_address, user_agent, source,
	referral_code, metadata, version, created_at, updated_at`

func (r *postgresRepository) Create(ctx context.Context, app *application.ExpertApplication) error {
	education, err := json.Marshal(app.Education)
	if err != nil {
		return fmt.Errorf("failed to marshal education: %w", err)
	}
	certifications, err := json.Marshal(app.Certifications)
	if err != nil {
		return fmt.Errorf("failed to marshal certifications: %w", err)
	}
	workHistory, err := json.Marshal(app.WorkHistory)
	if err != nil {
		return fmt.Errorf("failed to marshal work history: %w", err)
	}
	sampleTopics, err := json.Marshal(app.SampleTopics)
	if err != nil {
		return fmt.Errorf("failed to marshal sample topics: %w", err)
	}
	references, err := json.Marshal(app.References)
	if err != nil {
		return fmt.Errorf("failed to marshal references: %w", err)
	}
	metadata, err := json.Marshal(app.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := `
		INSERT INTO expert_applications (
			id, user_id, full_name, email, phone, location, timezone,
			professional_title, headline, bio, profile_image_url, video_intro_url,
			years_experience, expertise_areas, ai_pillars, industries,
			education, certifications, work_history,
			linkedin_url, twitter_url, website_url, github_url, portfolio_urls,
			desired_hourly_rate, availability, services_offered,
			why_join, unique_value, sample_topics, reference_contacts,
			agreed_to_terms, agreed_to_terms_at, background_check_consent,
			status, submitted_at, ip_address, user_agent, source,
			referral_code, metadata, version, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29, $30,
			$31, $32, $33, $34, $35, $36, $37, $38, $39, $40,
			$41, $42, NOW(), NOW()
		)`

	var availability *string
	if app.Availability != nil {
		s := app.Availability.String()
		availability = &s
	}

	_, err = r.db.Exec(ctx, query,
		app.ID, app.UserID, app.FullName, app.Email, app.Phone, app.Location, app.Timezone,
		app.ProfessionalTitle, app.Headline, app.Bio, app.ProfileImageURL, app.VideoIntroURL,
		app.YearsExperience, app.ExpertiseAreas, app.AIPillars, app.Industries,
		education, certifications, workHistory,
		app.LinkedinURL, app.TwitterURL, app.WebsiteURL, app.GithubURL, app.PortfolioURLs,
		app.DesiredHourlyRate, availability, app.ServicesOffered,
		app.WhyJoin, app.UniqueValue, sampleTopics, references,
		app.AgreedToTerms, app.AgreedToTermsAt, app.BackgroundCheckConsent,
		app.Status.String(), app.SubmittedAt, app.IPAddress, app.UserAgent, app.Source,
		app.ReferralCode, metadata, app.Version,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return application.ErrApplicationExists
		}
		return fmt.Errorf("failed to create application: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*application.ExpertApplication, error) {
	query := fmt.Sprintf(`SELECT %s FROM expert_applications WHERE id = $1`, applicationColumns)
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *postgresRepository) FindActiveByEmail(ctx context.Context, email string) (*application.ExpertApplication, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM expert_applications
		WHERE LOWER(email) = LOWER($1)
		  AND status NOT IN ('rejected', 'withdrawn')
		ORDER BY created_at DESC
		LIMIT 1`, applicationColumns)
	return r.scanOne(r.db.QueryRow(ctx, query, email))
}

func (r *postgresRepository) Update(ctx context.Context, id uuid.UUID, expectedVersion int, fields map[string]interface{}) (*application.ExpertApplication, error) {
	if len(fields) == 0 {
		return r.GetByID(ctx, id)
	}

	setClauses := make([]string, 0, len(fields)+2)
	args := make([]interface{}, 0, len(fields)+2)
	argIdx := 1

	for column, value := range fields {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}
	setClauses = append(setClauses, "version = version + 1", "updated_at = NOW()")

	query := fmt.Sprintf(`
		UPDATE expert_applications
		SET %s
		WHERE id = $%d AND version = $%d
		RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, argIdx+1, applicationColumns)
	args = append(args, id, expectedVersion)

	app, err := r.scanOne(r.db.QueryRow(ctx, query, args...))
	if err == nil {
		return app, nil
	}
	if !errors.Is(err, application.ErrApplicationNotFound) {
		return nil, err
	}

	// Zero rows: either the row is gone or another writer bumped the
	// version. Re-read to tell the two apart.
	if _, getErr := r.GetByID(ctx, id); getErr == nil {
		return nil, application.ErrVersionConflict
	}
	return nil, application.ErrApplicationNotFound
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM expert_applications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	if result.RowsAffected() == 0 {
		return application.ErrApplicationNotFound
	}
	return nil
}

func (r *postgresRepository) List(ctx context.Context, filter application.ListApplicationsFilter) ([]*application.ExpertApplication, int64, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, filter.Status.String())
		argIdx++
	}
	if filter.OwnerID != nil || filter.OwnerEmail != nil {
		ownerClauses := []string{}
		if filter.OwnerID != nil {
			ownerClauses = append(ownerClauses, fmt.Sprintf("user_id = $%d", argIdx))
			args = append(args, *filter.OwnerID)
			argIdx++
		}
		if filter.OwnerEmail != nil {
			ownerClauses = append(ownerClauses, fmt.Sprintf("LOWER(email) = LOWER($%d)", argIdx))
			args = append(args, *filter.OwnerEmail)
			argIdx++
		}
		conditions = append(conditions, "("+strings.Join(ownerClauses, " OR ")+")")
	}
	if filter.UpdatedBefore != nil {
		conditions = append(conditions, fmt.Sprintf("updated_at < $%d", argIdx))
		args = append(args, *filter.UpdatedBefore)
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM expert_applications WHERE %s`, where)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count applications: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM expert_applications
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, applicationColumns, where, argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []*application.ExpertApplication
	for rows.Next() {
		app, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate applications: %w", err)
	}

	return apps, total, nil
}

func (r *postgresRepository) InsertHistory(ctx context.Context, entry *application.HistoryEntry) error {
	query := `
		INSERT INTO application_status_history (id, application_id, actor_id, from_status, to_status, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())`

	// The creation entry has no prior status; store NULL instead of "".
	var fromStatus *string
	if entry.FromStatus != "" {
		s := entry.FromStatus.String()
		fromStatus = &s
	}

	_, err := r.db.Exec(ctx, query,
		entry.ID, entry.ApplicationID, entry.ActorID, fromStatus, entry.ToStatus.String(), entry.Note)
	if err != nil {
		return fmt.Errorf("failed to insert status history: %w", err)
	}
	return nil
}

func (r *postgresRepository) ListHistory(ctx context.Context, applicationID uuid.UUID) ([]*application.HistoryEntry, error) {
	query := `
		SELECT id, application_id, actor_id, from_status, to_status, note, created_at
		FROM application_status_history
		WHERE application_id = $1
		ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list status history: %w", err)
	}
	defer rows.Close()

	var entries []*application.HistoryEntry
	for rows.Next() {
		var entry application.HistoryEntry
		var fromStatus *string
		var toStatus string
		if err := rows.Scan(&entry.ID, &entry.ApplicationID, &entry.ActorID, &fromStatus, &toStatus, &entry.Note, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan status history: %w", err)
		}
		if fromStatus != nil {
			entry.FromStatus = application.Status(*fromStatus)
		}
		entry.ToStatus = application.Status(toStatus)
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate status history: %w", err)
	}

	return entries, nil
}

func (r *postgresRepository) scanOne(row pgx.Row) (*application.ExpertApplication, error) {
	app, err := r.scanRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, application.ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

func (r *postgresRepository) scanRow(row pgx.Row) (*application.ExpertApplication, error) {
	var app application.ExpertApplication
	var status string
	var availability *string
	var education, certifications, workHistory, sampleTopics, references, metadata []byte

	err := row.Scan(
		&app.ID, &app.UserID, &app.FullName, &app.Email, &app.Phone, &app.Location, &app.Timezone,
		&app.ProfessionalTitle, &app.Headline, &app.Bio, &app.ProfileImageURL, &app.VideoIntroURL,
		&app.YearsExperience, &app.ExpertiseAreas, &app.AIPillars, &app.Industries,
		&education, &certifications, &workHistory,
		&app.LinkedinURL, &app.TwitterURL, &app.WebsiteURL, &app.GithubURL, &app.PortfolioURLs,
		&app.DesiredHourlyRate, &availability, &app.ServicesOffered,
		&app.WhyJoin, &app.UniqueValue, &sampleTopics, &references,
		&app.AgreedToTerms, &app.AgreedToTermsAt, &app.BackgroundCheckConsent,
		&status, &app.SubmittedAt, &app.ReviewerID, &app.ReviewedAt, &app.ReviewNotes,
		&app.RejectionReason, &app.ApprovedAt, &app.IPAddress, &app.UserAgent, &app.Source,
		&app.ReferralCode, &metadata, &app.Version, &app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan application: %w", err)
	}

	app.Status = application.Status(status)
	if availability != nil {
		a := application.Availability(*availability)
		app.Availability = &a
	}
	if err := unmarshalInto(education, &app.Education); err != nil {
		return nil, err
	}
	if err := unmarshalInto(certifications, &app.Certifications); err != nil {
		return nil, err
	}
	if err := unmarshalInto(workHistory, &app.WorkHistory); err != nil {
		return nil, err
	}
	if err := unmarshalInto(sampleTopics, &app.SampleTopics); err != nil {
		return nil, err
	}
	if err := unmarshalInto(references, &app.References); err != nil {
		return nil, err
	}
	if err := unmarshalInto(metadata, &app.Metadata); err != nil {
		return nil, err
	}

	return &app, nil
}

func unmarshalInto(data []byte, dest interface{}) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal application field: %w", err)
	}
	return nil
}
