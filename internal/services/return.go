package services

import (
	"context"
	"sort"
	"time"

	"back2u-backend/internal/models"
	"back2u-backend/internal/query"
	"back2u-backend/internal/repository"

	"github.com/rs/zerolog/log"
)

// ReturnService handles found-item returns
type ReturnService struct {
	returnRepo *repository.ReturnRepository
	reportRepo *repository.ReportRepository
	emitter    *NotificationService
	now        func() time.Time
}

// NewReturnService creates a new return service
func NewReturnService(
	returnRepo *repository.ReturnRepository,
	reportRepo *repository.ReportRepository,
	emitter *NotificationService,
) *ReturnService {
	return &ReturnService{
		returnRepo: returnRepo,
		reportRepo: reportRepo,
		emitter:    emitter,
		now:        time.Now,
	}
}

// CreateReturn records that author found the item of input.ReportID and
// notifies the report owner.
//
// The return and its notification are two separate writes. If the
// notification write fails the return is still reported as created; the
// reconciler emits the missing notification later.
func (s *ReturnService) CreateReturn(ctx context.Context, input models.ReturnInput, author models.UserSnapshot) (*models.Return, error) {
	report, err := s.reportRepo.GetByID(ctx, input.ReportID)
	if err != nil {
		return nil, storeError(err, "report "+input.ReportID)
	}

	ret := &models.Return{
		ReportID:     report.ID,
		UserID:       author.UID,
		User:         author,
		Title:        input.Title,
		Description:  input.Description,
		LocationName: input.LocationName,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		ImagePath:    normalizeImagePath(input.ImagePath),
		Status:       models.StatusFound,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.returnRepo.Create(ctx, ret); err != nil {
		return nil, storeError(err, "return")
	}

	if _, err := s.emitter.EmitForReturn(ctx, report, ret); err != nil {
		log.Warn().
			Err(err).
			Str("return_id", ret.ID).
			Str("report_id", report.ID).
			Msg("Notification deferred to reconciler")
	}

	return ret, nil
}

// GetReturn retrieves a return by ID
func (s *ReturnService) GetReturn(ctx context.Context, id string) (*models.Return, error) {
	ret, err := s.returnRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "return "+id)
	}
	return ret, nil
}

// ListReturns returns every return in store order
func (s *ReturnService) ListReturns(ctx context.Context) ([]*models.Return, error) {
	returns, err := s.returnRepo.List(ctx)
	if err != nil {
		return nil, storeError(err, "returns")
	}
	return returns, nil
}

// SearchReturns lists returns whose title matches q. A non-empty ownerUID
// restricts the result to returns submitted by that user.
func (s *ReturnService) SearchReturns(ctx context.Context, q, ownerUID string) ([]*models.Return, error) {
	returns, err := s.ListReturns(ctx)
	if err != nil {
		return nil, err
	}
	if ownerUID != "" {
		returns = query.FilterByOwner(returns, ownerUID)
	}
	return query.FilterBySubstring(returns, q, query.ReturnFields...), nil
}

// ListForReport returns the returns submitted for a report, newest first
func (s *ReturnService) ListForReport(ctx context.Context, reportID string) ([]*models.Return, error) {
	if _, err := s.reportRepo.GetByID(ctx, reportID); err != nil {
		return nil, storeError(err, "report "+reportID)
	}

	returns, err := s.ListReturns(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*models.Return, 0)
	for _, ret := range returns {
		if ret.ReportID == reportID {
			out = append(out, ret)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
