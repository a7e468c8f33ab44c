package handlers

import (
	"net/http"

	"back2u-backend/internal/middleware"
	"back2u-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ReturnHandler handles return-related HTTP requests
type ReturnHandler struct {
	returnService *services.ReturnService
}

// NewReturnHandler creates a new return handler
func NewReturnHandler(returnService *services.ReturnService) *ReturnHandler {
	return &ReturnHandler{returnService: returnService}
}

// ListReturns handles GET /api/v1/returns?q=&mine=
func (h *ReturnHandler) ListReturns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	ownerUID := ""
	if mineParam(r) {
		ownerUID = userID
	}

	returns, err := h.returnService.SearchReturns(ctx, r.URL.Query().Get("q"), ownerUID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list returns")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, map[string]interface{}{"returns": returns}, http.StatusOK)
}

// GetReturn handles GET /api/v1/returns/{id}
func (h *ReturnHandler) GetReturn(w http.ResponseWriter, r *http.Request) {
	ret, err := h.returnService.GetReturn(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, ret, http.StatusOK)
}
