package handlers

import (
	"net/http"

	"back2u-backend/internal/middleware"
	"back2u-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// ListNotifications handles GET /api/v1/notifications
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	notifications, err := h.notificationService.ListForUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list notifications")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, map[string]interface{}{"notifications": notifications}, http.StatusOK)
}

// GetNotification handles GET /api/v1/notifications/{id}. Notifications
// about someone else's report are reported as missing.
func (h *NotificationHandler) GetNotification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	n, err := h.notificationService.GetNotification(ctx, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if n.Report.UserID != userID {
		respondError(w, "notification not found", http.StatusNotFound)
		return
	}

	respondJSON(w, n, http.StatusOK)
}
