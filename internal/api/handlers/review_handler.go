package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/etczermerivil/Stay-Scape/internal/auth"
	"github.com/etczermerivil/Stay-Scape/internal/services"
)

// ReviewHandler handles HTTP requests for reviews.
type ReviewHandler struct {
	service services.ReviewServiceProvider
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(service services.ReviewServiceProvider) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// ReviewPayload defines the body for create and update requests.
type ReviewPayload struct {
	Review string `json:"review"`
	Stars  int    `json:"stars"`
}

// GetAllForSpot handles listing all reviews for a spot.
func (h *ReviewHandler) GetAllForSpot(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.ListForSpot(chi.URLParam(r, "spotId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"Reviews": reviews})
}

// GetCurrent handles listing the requesting user's reviews.
func (h *ReviewHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.ListForUser(auth.CurrentUserID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"Reviews": reviews})
}

// Create handles posting a review for a spot.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload ReviewPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid request body"})
		return
	}

	review, err := h.service.CreateReview(chi.URLParam(r, "spotId"), auth.CurrentUserID(r), payload.Review, payload.Stars)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

// Update handles editing a review owned by the requesting user.
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payload ReviewPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid request body"})
		return
	}

	review, err := h.service.UpdateReview(chi.URLParam(r, "reviewId"), auth.CurrentUserID(r), payload.Review, payload.Stars)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}

// Delete handles deleting a review owned by the requesting user.
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteReview(chi.URLParam(r, "reviewId"), auth.CurrentUserID(r)); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully deleted"})
}

// AddImage handles attaching an image to a review.
func (h *ReviewHandler) AddImage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid request body"})
		return
	}

	img, err := h.service.AddReviewImage(chi.URLParam(r, "reviewId"), auth.CurrentUserID(r), payload.URL)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, img)
}
