package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"back2u-backend/internal/models"
	"back2u-backend/internal/repository"
	"back2u-backend/internal/repository/sqlite"
)

// stepClock returns base, base+1s, base+2s, ... on successive calls
type stepClock struct {
	mu   sync.Mutex
	next time.Time
	step time.Duration
}

func newStepClock() *stepClock {
	return &stepClock{next: time.Date(2025, 10, 10, 8, 0, 0, 0, time.UTC), step: time.Second}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.next
	c.next = c.next.Add(c.step)
	return t
}

// flakyStore fails writes to one collection while failing is set
type flakyStore struct {
	repository.DocumentStore
	mu         sync.Mutex
	collection string
	failing    bool
}

var errInjected = errors.New("injected store failure")

func (s *flakyStore) setFailing(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing = v
}

func (s *flakyStore) Put(ctx context.Context, collection, id string, doc any) (bool, error) {
	s.mu.Lock()
	fail := s.failing && collection == s.collection
	s.mu.Unlock()
	if fail {
		return false, errInjected
	}
	return s.DocumentStore.Put(ctx, collection, id, doc)
}

type recordingPublisher struct {
	mu        sync.Mutex
	published []*models.Notification
}

func (p *recordingPublisher) Publish(_ context.Context, n *models.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, n)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}

type testEnv struct {
	store         *flakyStore
	reports       *ReportService
	returns       *ReturnService
	notifications *NotificationService
	profiles      *ProfileService
	dashboard     *DashboardService
	publisher     *recordingPublisher
	clock         *stepClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	base, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { base.Close() })

	store := &flakyStore{DocumentStore: base, collection: repository.CollectionNotifications}
	reportRepo := repository.NewReportRepository(store)
	returnRepo := repository.NewReturnRepository(store)
	notificationRepo := repository.NewNotificationRepository(store)
	profileRepo := repository.NewProfileRepository(store)

	clock := newStepClock()
	publisher := &recordingPublisher{}

	notifications := NewNotificationService(notificationRepo, reportRepo, returnRepo, publisher)
	notifications.now = clock.Now
	reports := NewReportService(reportRepo)
	reports.now = clock.Now
	returns := NewReturnService(returnRepo, reportRepo, notifications)
	returns.now = clock.Now

	return &testEnv{
		store:         store,
		reports:       reports,
		returns:       returns,
		notifications: notifications,
		profiles:      NewProfileService(profileRepo),
		dashboard:     NewDashboardService(reports, returns),
		publisher:     publisher,
		clock:         clock,
	}
}

func user(uid, name string) models.UserSnapshot {
	return models.UserSnapshot{Name: name, Email: uid + "@example.com", UID: uid}
}

func (e *testEnv) mustReport(t *testing.T, owner models.UserSnapshot, title string) *models.Report {
	t.Helper()
	report, err := e.reports.CreateReport(context.Background(), models.ReportInput{Title: title}, owner)
	if err != nil {
		t.Fatalf("CreateReport(%q): %v", title, err)
	}
	return report
}

func (e *testEnv) mustReturn(t *testing.T, finder models.UserSnapshot, reportID, title string) *models.Return {
	t.Helper()
	ret, err := e.returns.CreateReturn(context.Background(), models.ReturnInput{ReportID: reportID, Title: title}, finder)
	if err != nil {
		t.Fatalf("CreateReturn(%q): %v", title, err)
	}
	return ret
}
