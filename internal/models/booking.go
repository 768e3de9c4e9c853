package models

import "time"

// Booking temporal states, derived from today's date rather than stored.
const (
	BookingUpcoming  = "upcoming"
	BookingActive    = "active"
	BookingCompleted = "completed"
)

// Booking is a reservation of a spot for a date interval. The interval is
// inclusive of the start date and exclusive of the end date, so back-to-back
// bookings may share a turnover day.
type Booking struct {
	ID        string    `json:"id"`
	SpotID    string    `json:"spotId"`
	UserID    string    `json:"userId"`
	StartDate Date      `json:"startDate"`
	EndDate   Date      `json:"endDate"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Status derives the booking's temporal state from the given date. It is
// recomputed on every read so it can never go stale.
func (b Booking) Status(today Date) string {
	switch {
	case today.Before(b.StartDate.Time):
		return BookingUpcoming
	case today.Before(b.EndDate.Time):
		return BookingActive
	default:
		return BookingCompleted
	}
}

// SpotAvailability is the public per-spot booking shape: date ranges only,
// for calendar and availability views.
type SpotAvailability struct {
	SpotID    string `json:"spotId"`
	StartDate Date   `json:"startDate"`
	EndDate   Date   `json:"endDate"`
}
