package handlers

import (
	"net/http"

	"back2u-backend/internal/middleware"
	"back2u-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// DashboardHandler serves the home screen summary
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetDashboard handles GET /api/v1/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	dashboard, err := h.dashboardService.GetDashboard(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to build dashboard")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, dashboard, http.StatusOK)
}
