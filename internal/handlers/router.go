package handlers

import (
	"net/http"

	"back2u-backend/internal/identity"
	"back2u-backend/internal/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// RouterConfig wires handlers into the HTTP API
type RouterConfig struct {
	Provider      identity.Provider
	Reports       *ReportHandler
	Returns       *ReturnHandler
	Notifications *NotificationHandler
	Profiles      *ProfileHandler
	Images        *ImageHandler
	Dashboard     *DashboardHandler
	WebSocket     *WebSocketHandler
}

// NewRouter builds the HTTP API
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Get("/health", Health)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(cfg.Provider))

			r.Route("/reports", func(r chi.Router) {
				r.Post("/", cfg.Reports.CreateReport)
				r.Get("/", cfg.Reports.ListReports)
				r.Get("/{id}", cfg.Reports.GetReport)
				r.Patch("/{id}/status", cfg.Reports.UpdateStatus)
				r.Post("/{id}/returns", cfg.Reports.CreateReturn)
				r.Get("/{id}/returns", cfg.Reports.ListReturnsForReport)
			})

			r.Get("/returns", cfg.Returns.ListReturns)
			r.Get("/returns/{id}", cfg.Returns.GetReturn)

			r.Get("/notifications", cfg.Notifications.ListNotifications)
			r.Get("/notifications/{id}", cfg.Notifications.GetNotification)

			r.Get("/profile", cfg.Profiles.GetProfile)
			r.Put("/profile", cfg.Profiles.UpdateProfile)

			if cfg.Images != nil {
				r.Post("/images/upload", cfg.Images.UploadImage)
			}

			r.Get("/dashboard", cfg.Dashboard.GetDashboard)
		})
	})

	// WebSocket route
	r.Get("/ws", cfg.WebSocket.HandleWebSocket)

	return r
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
