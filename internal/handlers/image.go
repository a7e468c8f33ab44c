package handlers

import (
	"encoding/json"
	"net/http"

	"back2u-backend/internal/middleware"
	"back2u-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// ImageHandler handles image upload requests
type ImageHandler struct {
	imageService *services.ImageService
}

// NewImageHandler creates a new image handler
func NewImageHandler(imageService *services.ImageService) *ImageHandler {
	return &ImageHandler{imageService: imageService}
}

// UploadRequest represents the request body for an image upload
type UploadRequest struct {
	ContentType string `json:"content_type"`
}

// UploadImage handles POST /api/v1/images/upload
func (h *ImageHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req UploadRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}

	response, err := h.imageService.PresignUpload(ctx, userID, req.ContentType)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("content_type", req.ContentType).
			Msg("Failed to generate pre-signed URL")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("image_path", response.ImagePath).
		Msg("Pre-signed URL generated")

	respondJSON(w, response, http.StatusOK)
}
