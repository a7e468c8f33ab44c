package handlers

import (
	"encoding/json"
	"net/http"

	"back2u-backend/internal/middleware"
	"back2u-backend/internal/models"
	"back2u-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ReportHandler handles report-related HTTP requests
type ReportHandler struct {
	reportService  *services.ReportService
	returnService  *services.ReturnService
	profileService *services.ProfileService
}

// NewReportHandler creates a new report handler
func NewReportHandler(
	reportService *services.ReportService,
	returnService *services.ReturnService,
	profileService *services.ProfileService,
) *ReportHandler {
	return &ReportHandler{
		reportService:  reportService,
		returnService:  returnService,
		profileService: profileService,
	}
}

// ReportResponse is a report together with what the caller may do with it
type ReportResponse struct {
	Report  *models.Report   `json:"report"`
	Actions services.Actions `json:"actions"`
}

// UpdateStatusRequest represents the request body for changing a report status
type UpdateStatusRequest struct {
	Status models.ReportStatus `json:"status"`
}

// CreateReport handles POST /api/v1/reports
func (h *ReportHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := middleware.GetIdentity(ctx)

	var input models.ReportInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	author, err := h.profileService.Resolve(ctx, *id)
	if err != nil {
		log.Error().Err(err).Str("user_id", id.UID).Msg("Failed to resolve author")
		respondServiceError(w, err)
		return
	}

	report, err := h.reportService.CreateReport(ctx, input, author)
	if err != nil {
		log.Error().Err(err).Str("user_id", id.UID).Msg("Failed to create report")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", id.UID).
		Str("report_id", report.ID).
		Msg("Report created")

	respondJSON(w, report, http.StatusCreated)
}

// ListReports handles GET /api/v1/reports?q=&mine=
func (h *ReportHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	ownerUID := ""
	if mineParam(r) {
		ownerUID = userID
	}

	reports, err := h.reportService.SearchReports(ctx, r.URL.Query().Get("q"), ownerUID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list reports")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, map[string]interface{}{"reports": reports}, http.StatusOK)
}

// GetReport handles GET /api/v1/reports/{id}
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	reportID := chi.URLParam(r, "id")

	report, err := h.reportService.GetReport(ctx, reportID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, ReportResponse{
		Report:  report,
		Actions: services.VisibleActions(report, userID),
	}, http.StatusOK)
}

// UpdateStatus handles PATCH /api/v1/reports/{id}/status
func (h *ReportHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	reportID := chi.URLParam(r, "id")

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Status == "" {
		respondError(w, "status is required", http.StatusBadRequest)
		return
	}

	report, err := h.reportService.SetStatus(ctx, reportID, req.Status, userID)
	if err != nil {
		log.Warn().
			Err(err).
			Str("user_id", userID).
			Str("report_id", reportID).
			Str("status", string(req.Status)).
			Msg("Status change rejected")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("report_id", reportID).
		Str("status", string(report.Status)).
		Msg("Report status updated")

	respondJSON(w, ReportResponse{
		Report:  report,
		Actions: services.VisibleActions(report, userID),
	}, http.StatusOK)
}

// CreateReturn handles POST /api/v1/reports/{id}/returns
func (h *ReportHandler) CreateReturn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := middleware.GetIdentity(ctx)

	var input models.ReturnInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	input.ReportID = chi.URLParam(r, "id")

	author, err := h.profileService.Resolve(ctx, *id)
	if err != nil {
		log.Error().Err(err).Str("user_id", id.UID).Msg("Failed to resolve author")
		respondServiceError(w, err)
		return
	}

	ret, err := h.returnService.CreateReturn(ctx, input, author)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", id.UID).
			Str("report_id", input.ReportID).
			Msg("Failed to create return")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", id.UID).
		Str("report_id", ret.ReportID).
		Str("return_id", ret.ID).
		Msg("Return created")

	respondJSON(w, ret, http.StatusCreated)
}

// ListReturnsForReport handles GET /api/v1/reports/{id}/returns
func (h *ReportHandler) ListReturnsForReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reportID := chi.URLParam(r, "id")

	returns, err := h.returnService.ListForReport(ctx, reportID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, map[string]interface{}{"returns": returns}, http.StatusOK)
}

func mineParam(r *http.Request) bool {
	switch r.URL.Query().Get("mine") {
	case "1", "true", "yes":
		return true
	}
	return false
}
