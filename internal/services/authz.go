package services

import "github.com/etczermerivil/Stay-Scape/internal/models"

// Ownership predicates. Mutations never compare IDs inline in handlers;
// every write path goes through one of these so the rules stay consistent
// across routes.

func canModifySpot(spot models.Spot, actorID string) bool {
	return spot.OwnerID == actorID
}

func canModifyReview(review models.Review, actorID string) bool {
	return review.UserID == actorID
}

func canModifyBooking(booking models.Booking, actorID string) bool {
	return booking.UserID == actorID
}
