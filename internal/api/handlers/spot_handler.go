package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/etczermerivil/Stay-Scape/internal/apperr"
	"github.com/etczermerivil/Stay-Scape/internal/auth"
	"github.com/etczermerivil/Stay-Scape/internal/services"
)

// SpotHandler handles HTTP requests for spot listings.
type SpotHandler struct {
	service services.SpotServiceProvider
}

// NewSpotHandler creates a new SpotHandler.
func NewSpotHandler(service services.SpotServiceProvider) *SpotHandler {
	return &SpotHandler{service: service}
}

// parseSpotFilter reads the query filters, accumulating every invalid
// parameter into one validation error.
func parseSpotFilter(r *http.Request) (services.SpotFilter, error) {
	q := r.URL.Query()
	errs := map[string]string{}
	filter := services.SpotFilter{Page: 1, Size: 20}

	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			errs["page"] = "Page must be greater than or equal to 1"
		} else {
			filter.Page = page
		}
	}
	if v := q.Get("size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size < 1 || size > 20 {
			errs["size"] = "Size must be between 1 and 20"
		} else {
			filter.Size = size
		}
	}

	parseBound := func(name, message string, min, max float64) *float64 {
		v := q.Get(name)
		if v == "" {
			return nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < min || f > max {
			errs[name] = message
			return nil
		}
		return &f
	}

	filter.MinLat = parseBound("minLat", "Minimum latitude is invalid", -90, 90)
	filter.MaxLat = parseBound("maxLat", "Maximum latitude is invalid", -90, 90)
	filter.MinLng = parseBound("minLng", "Minimum longitude is invalid", -180, 180)
	filter.MaxLng = parseBound("maxLng", "Maximum longitude is invalid", -180, 180)
	filter.MinPrice = parseBound("minPrice", "Minimum price must be greater than or equal to 0", 0, 1e12)
	filter.MaxPrice = parseBound("maxPrice", "Maximum price must be greater than or equal to 0", 0, 1e12)

	if len(errs) > 0 {
		return services.SpotFilter{}, apperr.Validation(errs)
	}
	return filter, nil
}

// GetAll handles the public spot listing with filters and pagination.
func (h *SpotHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	filter, err := parseSpotFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	spots, err := h.service.ListSpots(filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"Spots": spots,
		"page":  filter.Page,
		"size":  filter.Size,
	})
}

// GetCurrent handles listing the spots owned by the requesting user.
func (h *SpotHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	spots, err := h.service.ListSpotsByOwner(auth.CurrentUserID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"Spots": spots})
}

// Get handles retrieving a spot's details by ID.
func (h *SpotHandler) Get(w http.ResponseWriter, r *http.Request) {
	details, err := h.service.GetSpotDetails(chi.URLParam(r, "spotId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

// Create handles creating a new spot for the requesting user.
func (h *SpotHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.SpotInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid request body"})
		return
	}

	spot, err := h.service.CreateSpot(auth.CurrentUserID(r), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, spot)
}

// Update handles editing a spot owned by the requesting user.
func (h *SpotHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input services.SpotInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid request body"})
		return
	}

	spot, err := h.service.UpdateSpot(chi.URLParam(r, "spotId"), auth.CurrentUserID(r), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, spot)
}

// Delete handles deleting a spot owned by the requesting user.
func (h *SpotHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteSpot(chi.URLParam(r, "spotId"), auth.CurrentUserID(r)); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully deleted"})
}

// AddImage handles attaching an image to a spot.
func (h *SpotHandler) AddImage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		URL     string `json:"url"`
		Preview bool   `json:"preview"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid request body"})
		return
	}

	img, err := h.service.AddSpotImage(chi.URLParam(r, "spotId"), auth.CurrentUserID(r), payload.URL, payload.Preview)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, img)
}
