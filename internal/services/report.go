package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"back2u-backend/internal/models"
	"back2u-backend/internal/query"
	"back2u-backend/internal/repository"
)

// ReportService handles lost-item reports
type ReportService struct {
	reportRepo *repository.ReportRepository
	now        func() time.Time
}

// NewReportService creates a new report service
func NewReportService(reportRepo *repository.ReportRepository) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		now:        time.Now,
	}
}

// CreateReport stores a new OPEN report authored by author
func (s *ReportService) CreateReport(ctx context.Context, input models.ReportInput, author models.UserSnapshot) (*models.Report, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("title is required: %w", ErrValidation)
	}

	report := &models.Report{
		UserID:       author.UID,
		User:         author,
		Title:        input.Title,
		Description:  input.Description,
		LocationName: input.LocationName,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		ImagePath:    normalizeImagePath(input.ImagePath),
		Status:       models.StatusOpen,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, storeError(err, "report")
	}
	return report, nil
}

// GetReport retrieves a report by ID
func (s *ReportService) GetReport(ctx context.Context, id string) (*models.Report, error) {
	report, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "report "+id)
	}
	return report, nil
}

// ListReports returns every report in store order
func (s *ReportService) ListReports(ctx context.Context) ([]*models.Report, error) {
	reports, err := s.reportRepo.List(ctx)
	if err != nil {
		return nil, storeError(err, "reports")
	}
	return reports, nil
}

// SearchReports lists reports matching q on title or description. A
// non-empty ownerUID restricts the result to that user's reports.
func (s *ReportService) SearchReports(ctx context.Context, q, ownerUID string) ([]*models.Report, error) {
	reports, err := s.ListReports(ctx)
	if err != nil {
		return nil, err
	}
	if ownerUID != "" {
		reports = query.FilterByOwner(reports, ownerUID)
	}
	return query.FilterBySubstring(reports, q, query.ReportFields...), nil
}

// SetStatus moves a report to newStatus on behalf of callerUID. Linked
// returns and notifications are left untouched.
func (s *ReportService) SetStatus(ctx context.Context, id string, newStatus models.ReportStatus, callerUID string) (*models.Report, error) {
	report, err := s.GetReport(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := CheckTransition(report, newStatus, callerUID); err != nil {
		return nil, err
	}

	if err := s.reportRepo.UpdateStatus(ctx, id, newStatus); err != nil {
		return nil, storeError(err, "report "+id)
	}
	report.Status = newStatus
	return report, nil
}

func normalizeImagePath(p *string) *string {
	if p == nil || strings.TrimSpace(*p) == "" {
		return nil
	}
	v := *p
	return &v
}
