package models

import "time"

// Spot represents a rentable listing owned by a user.
type Spot struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	Country     string    `json:"country"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SpotImage is an image attached to a spot. At most one image per spot is
// treated as the preview thumbnail.
type SpotImage struct {
	ID      string `json:"id"`
	SpotID  string `json:"-"`
	URL     string `json:"url"`
	Preview bool   `json:"preview"`
}

// SpotSummary is the list-view shape of a spot, carrying the derived rating
// and preview image alongside the base fields.
type SpotSummary struct {
	Spot
	AvgRating    *float64 `json:"avgRating"`
	PreviewImage *string  `json:"previewImage"`
}

// SpotDetails is the single-spot shape, with review aggregates, the full
// image list and the owner.
type SpotDetails struct {
	Spot
	NumReviews    int         `json:"numReviews"`
	AvgStarRating *float64    `json:"avgStarRating"`
	SpotImages    []SpotImage `json:"SpotImages"`
	Owner         UserRef     `json:"Owner"`
}
