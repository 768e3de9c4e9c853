package models

import "time"

// Event represents a loggable action in the system, kept as an audit trail
// of booking and listing activity.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`  // e.g., "booking.create", "spot.delete"
	Level     string    `json:"level"` // e.g., "info", "warn"
	Message   string    `json:"message"`
	SpotID    *string   `json:"spotId,omitempty"` // Nullable for account-level events
	CreatedAt time.Time `json:"createdAt"`
}
