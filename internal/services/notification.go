package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"back2u-backend/internal/models"
	"back2u-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const returnMessageFormat = "%s telah menemukan barang anda. cek apakah milik anda"

var notificationNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("back2u.notification"))

// Publisher delivers freshly emitted notifications to realtime listeners
type Publisher interface {
	Publish(ctx context.Context, n *models.Notification) error
}

// NotificationService emits and reads notifications
type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	reportRepo       *repository.ReportRepository
	returnRepo       *repository.ReturnRepository
	publisher        Publisher
	now              func() time.Time
}

// NewNotificationService creates a new notification service. publisher may
// be nil.
func NewNotificationService(
	notificationRepo *repository.NotificationRepository,
	reportRepo *repository.ReportRepository,
	returnRepo *repository.ReturnRepository,
	publisher Publisher,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		reportRepo:       reportRepo,
		returnRepo:       returnRepo,
		publisher:        publisher,
		now:              time.Now,
	}
}

// NotificationID derives the notification ID of a return. There is at most
// one notification per return.
func NotificationID(returnID string) string {
	return uuid.NewSHA1(notificationNamespace, []byte(returnID)).String()
}

// EmitForReturn stores the notification telling the owner of report that
// ret was submitted. Emitting twice for the same return is a no-op that
// returns the same ID.
func (s *NotificationService) EmitForReturn(ctx context.Context, report *models.Report, ret *models.Return) (string, error) {
	now := s.now().UTC()
	n := &models.Notification{
		ID:        NotificationID(ret.ID),
		ReportID:  report.ID,
		ReturnID:  ret.ID,
		Report:    *report,
		Return:    *ret,
		Message:   fmt.Sprintf(returnMessageFormat, ret.User.Name),
		Type:      models.NotificationReturn,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.notificationRepo.Put(ctx, n)
	if err != nil {
		return "", storeError(err, "notification")
	}
	if !created {
		return n.ID, nil
	}

	log.Info().
		Str("notification_id", n.ID).
		Str("report_id", n.ReportID).
		Str("return_id", n.ReturnID).
		Msg("Notification emitted")

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, n); err != nil {
			log.Error().
				Err(err).
				Str("notification_id", n.ID).
				Msg("Failed to publish notification")
		}
	}

	return n.ID, nil
}

// ListForUser returns the notifications about reports owned by uid, newest
// first. Equal timestamps keep the later insertion first.
func (s *NotificationService) ListForUser(ctx context.Context, uid string) ([]*models.Notification, error) {
	all, err := s.notificationRepo.List(ctx)
	if err != nil {
		return nil, storeError(err, "notifications")
	}

	out := make([]*models.Notification, 0)
	for _, n := range all {
		if n.Report.UserID == uid {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Seq > out[j].Seq
	})
	return out, nil
}

// GetNotification retrieves a notification by ID
func (s *NotificationService) GetNotification(ctx context.Context, id string) (*models.Notification, error) {
	n, err := s.notificationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "notification "+id)
	}
	return n, nil
}

// Reconcile emits the notification of every return that lacks one and
// returns how many were created.
func (s *NotificationService) Reconcile(ctx context.Context) (int, error) {
	returns, err := s.returnRepo.List(ctx)
	if err != nil {
		return 0, storeError(err, "returns")
	}
	notifications, err := s.notificationRepo.List(ctx)
	if err != nil {
		return 0, storeError(err, "notifications")
	}

	notified := make(map[string]struct{}, len(notifications))
	for _, n := range notifications {
		notified[n.ReturnID] = struct{}{}
	}

	emitted := 0
	for _, ret := range returns {
		if _, ok := notified[ret.ID]; ok {
			continue
		}

		report, err := s.reportRepo.GetByID(ctx, ret.ReportID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				log.Warn().
					Str("return_id", ret.ID).
					Str("report_id", ret.ReportID).
					Msg("Return references a missing report, skipping")
				continue
			}
			return emitted, storeError(err, "report "+ret.ReportID)
		}

		if _, err := s.EmitForReturn(ctx, report, ret); err != nil {
			return emitted, err
		}
		emitted++
	}

	return emitted, nil
}

// RunReconciler calls Reconcile immediately and then every interval until
// ctx is cancelled.
func (s *NotificationService) RunReconciler(ctx context.Context, interval time.Duration) {
	reconcile := func() {
		n, err := s.Reconcile(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Notification reconcile failed")
			return
		}
		if n > 0 {
			log.Info().Int("emitted", n).Msg("Reconciled missing notifications")
		}
	}

	reconcile()
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reconcile()
		}
	}
}
