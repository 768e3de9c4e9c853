package models

import "time"

// Review is a user's review of a spot. A user holds at most one review per
// spot.
type Review struct {
	ID        string    `json:"id"`
	SpotID    string    `json:"spotId"`
	UserID    string    `json:"userId"`
	Review    string    `json:"review"`
	Stars     int       `json:"stars"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReviewImage is an image attached to a review.
type ReviewImage struct {
	ID       string `json:"id"`
	ReviewID string `json:"-"`
	URL      string `json:"url"`
}

// ReviewDetails is a review with its author, images and (for the current-user
// listing) the reviewed spot.
type ReviewDetails struct {
	Review
	User         UserRef       `json:"User"`
	ReviewImages []ReviewImage `json:"ReviewImages"`
	Spot         *SpotSummary  `json:"Spot,omitempty"`
}

// RatingSummary is the derived rating for a spot. Avg is nil when the spot
// has no reviews, which clients render as "New".
type RatingSummary struct {
	Avg   *float64 `json:"avg"`
	Count int      `json:"count"`
}
