package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/etczermerivil/Stay-Scape/internal/auth"
	"github.com/etczermerivil/Stay-Scape/internal/models"
	"github.com/etczermerivil/Stay-Scape/internal/services"
)

// BookingHandler handles HTTP requests for the booking lifecycle.
type BookingHandler struct {
	service services.BookingServiceProvider
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service services.BookingServiceProvider) *BookingHandler {
	return &BookingHandler{service: service}
}

// BookingPayload defines the date-range body for create and update requests.
type BookingPayload struct {
	StartDate models.Date `json:"startDate"`
	EndDate   models.Date `json:"endDate"`
}

func decodeBookingPayload(w http.ResponseWriter, r *http.Request) (BookingPayload, bool) {
	var payload BookingPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Bad Request", Errors: map[string]string{
			"startDate": "startDate and endDate must be valid YYYY-MM-DD dates",
			"endDate":   "startDate and endDate must be valid YYYY-MM-DD dates",
		}})
		return BookingPayload{}, false
	}
	return payload, true
}

// GetCurrent handles listing the requesting user's bookings.
func (h *BookingHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.service.ListForUser(auth.CurrentUserID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"Bookings": bookings})
}

// GetAllForSpot handles listing the booked date ranges for a spot.
func (h *BookingHandler) GetAllForSpot(w http.ResponseWriter, r *http.Request) {
	ranges, err := h.service.ListForSpot(chi.URLParam(r, "spotId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"Bookings": ranges})
}

// Create handles booking a spot for a date range.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeBookingPayload(w, r)
	if !ok {
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), chi.URLParam(r, "spotId"), auth.CurrentUserID(r), payload.StartDate, payload.EndDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

// Update handles rescheduling a booking.
func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeBookingPayload(w, r)
	if !ok {
		return
	}

	booking, err := h.service.UpdateBooking(r.Context(), chi.URLParam(r, "bookingId"), auth.CurrentUserID(r), payload.StartDate, payload.EndDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// Delete handles cancelling a booking that has not started yet.
func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteBooking(r.Context(), chi.URLParam(r, "bookingId"), auth.CurrentUserID(r)); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully deleted"})
}
