package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/etczermerivil/Stay-Scape/internal/auth"
	"github.com/etczermerivil/Stay-Scape/internal/services"
)

// ImageHandler handles direct deletion of spot and review images.
type ImageHandler struct {
	spots   services.SpotServiceProvider
	reviews services.ReviewServiceProvider
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(spots services.SpotServiceProvider, reviews services.ReviewServiceProvider) *ImageHandler {
	return &ImageHandler{spots: spots, reviews: reviews}
}

// DeleteSpotImage removes a spot image by its own ID.
func (h *ImageHandler) DeleteSpotImage(w http.ResponseWriter, r *http.Request) {
	if err := h.spots.DeleteSpotImage(chi.URLParam(r, "imageId"), auth.CurrentUserID(r)); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully deleted"})
}

// DeleteReviewImage removes a review image by its own ID.
func (h *ImageHandler) DeleteReviewImage(w http.ResponseWriter, r *http.Request) {
	if err := h.reviews.DeleteReviewImage(chi.URLParam(r, "imageId"), auth.CurrentUserID(r)); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully deleted"})
}
