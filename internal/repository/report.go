package repository

import (
	"context"
	"fmt"

	"back2u-backend/internal/models"
)

// ReportRepository handles persistence of lost-item reports
type ReportRepository struct {
	store DocumentStore
}

// NewReportRepository creates a new report repository
func NewReportRepository(store DocumentStore) *ReportRepository {
	return &ReportRepository{store: store}
}

// Create stores a new report and assigns its ID
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	id, err := r.store.Create(ctx, CollectionReports, report)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	report.ID = id
	return nil
}

// GetByID retrieves a report by ID
func (r *ReportRepository) GetByID(ctx context.Context, id string) (*models.Report, error) {
	doc, err := r.store.Get(ctx, CollectionReports, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get report %s: %w", id, err)
	}
	var report models.Report
	if err := doc.Decode(&report); err != nil {
		return nil, err
	}
	report.ID = doc.ID
	return &report, nil
}

// List retrieves every report in store order
func (r *ReportRepository) List(ctx context.Context) ([]*models.Report, error) {
	docs, err := r.store.List(ctx, CollectionReports)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	reports := make([]*models.Report, 0, len(docs))
	for i := range docs {
		var report models.Report
		if err := docs[i].Decode(&report); err != nil {
			return nil, err
		}
		report.ID = docs[i].ID
		reports = append(reports, &report)
	}
	return reports, nil
}

// UpdateStatus overwrites the status field of a report
func (r *ReportRepository) UpdateStatus(ctx context.Context, id string, status models.ReportStatus) error {
	err := r.store.Update(ctx, CollectionReports, id, map[string]any{"status": status})
	if err != nil {
		return fmt.Errorf("failed to update report status: %w", err)
	}
	return nil
}
