package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"back2u-backend/internal/config"
	"back2u-backend/internal/identity"
	"back2u-backend/internal/repository"
	"back2u-backend/internal/repository/sqlite"
	"back2u-backend/internal/services"
)

type testServer struct {
	*httptest.Server
	provider *identity.JWTProvider
	hub      *services.WSHub
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	reportRepo := repository.NewReportRepository(store)
	returnRepo := repository.NewReturnRepository(store)
	notificationRepo := repository.NewNotificationRepository(store)
	profileRepo := repository.NewProfileRepository(store)

	hub := services.NewWSHub()
	provider := identity.NewJWTProvider("test-secret")

	notificationService := services.NewNotificationService(notificationRepo, reportRepo, returnRepo, hub)
	reportService := services.NewReportService(reportRepo)
	returnService := services.NewReturnService(returnRepo, reportRepo, notificationService)
	profileService := services.NewProfileService(profileRepo)
	imageService, err := services.NewImageService(context.Background(), config.AWSConfig{
		Region:    "ap-southeast-1",
		S3Bucket:  "back2u-images",
		AccessKey: "AKIDEXAMPLE",
		SecretKey: "secret",
	})
	if err != nil {
		t.Fatalf("failed to create image service: %v", err)
	}

	router := NewRouter(RouterConfig{
		Provider:      provider,
		Reports:       NewReportHandler(reportService, returnService, profileService),
		Returns:       NewReturnHandler(returnService),
		Notifications: NewNotificationHandler(notificationService),
		Profiles:      NewProfileHandler(profileService),
		Images:        NewImageHandler(imageService),
		Dashboard:     NewDashboardHandler(services.NewDashboardService(reportService, returnService)),
		WebSocket:     NewWebSocketHandler(hub, provider),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testServer{Server: srv, provider: provider, hub: hub}
}

func (s *testServer) token(t *testing.T, uid, name string) string {
	t.Helper()
	token, err := s.provider.Issue(identity.Identity{UID: uid, Name: name, Email: uid + "@example.com"}, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return token
}

// do sends a JSON request and decodes the JSON response into out when out
// is non-nil. It returns the status code.
func (s *testServer) do(t *testing.T, method, path, token string, body, out interface{}) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, s.URL+path, reader)
	if err != nil {
		t.Fatal(err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode response: %v", method, path, err)
		}
	}
	return resp.StatusCode
}
