package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"humanglue-backend/internal/domains/application"
)

const exportSheet = "Applications"

var exportHeaders = []string{
	"ID", "Full Name", "Email", "Professional Title", "Years Experience",
	"Expertise Areas", "AI Pillars", "Industries", "Availability",
	"Hourly Rate", "Status", "Submitted At", "Reviewed At", "Review Notes",
	"Source", "Created At",
}

// Export renders the filtered application set as an XLSX workbook.
// Admin only.
func (s *applicationService) Export(ctx context.Context, caller *application.Caller, filter application.ListApplicationsFilter) ([]byte, string, error) {
	if caller == nil {
		return nil, "", application.ErrUnauthorized
	}
	if !caller.Role.IsAdmin() {
		return nil, "", application.ErrForbidden
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, "", fmt.Errorf("failed to write header: %w", err)
		}
	}

	// Walk all pages; export ignores the caller's pagination.
	filter.Offset = 0
	filter.Limit = 500
	row := 2
	for {
		apps, total, err := s.repo.List(ctx, filter)
		if err != nil {
			return nil, "", err
		}
		for _, app := range apps {
			if err := writeExportRow(f, row, app); err != nil {
				return nil, "", err
			}
			row++
		}
		filter.Offset += len(apps)
		if len(apps) == 0 || int64(filter.Offset) >= total {
			break
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to write workbook: %w", err)
	}

	filename := fmt.Sprintf("expert-applications-%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func writeExportRow(f *excelize.File, row int, app *application.ExpertApplication) error {
	values := []interface{}{
		app.ID.String(),
		app.FullName,
		app.Email,
		app.ProfessionalTitle,
		app.YearsExperience,
		strings.Join(app.ExpertiseAreas, ", "),
		strings.Join(app.AIPillars, ", "),
		strings.Join(app.Industries, ", "),
		optionalEnum(app.Availability),
		optionalRate(app),
		app.Status.String(),
		optionalTime(app.SubmittedAt),
		optionalTime(app.ReviewedAt),
		optionalString(app.ReviewNotes),
		optionalString(app.Source),
		app.CreatedAt.Format(time.RFC3339),
	}

	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("failed to address cell: %w", err)
		}
		if err := f.SetCellValue(exportSheet, cell, value); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
	}
	return nil
}

func optionalString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func optionalTime(v *time.Time) string {
	if v == nil {
		return ""
	}
	return v.Format(time.RFC3339)
}

func optionalEnum(v *application.Availability) string {
	if v == nil {
		return ""
	}
	return v.String()
}

func optionalRate(app *application.ExpertApplication) string {
	if app.DesiredHourlyRate == nil {
		return ""
	}
	return app.DesiredHourlyRate.StringFixed(2)
}
