package services

import (
	"database/sql"
	"time"

	"github.com/etczermerivil/Stay-Scape/internal/apperr"
	"github.com/etczermerivil/Stay-Scape/internal/models"
	"github.com/google/uuid"
)

// ReviewServiceProvider defines the interface for review services.
type ReviewServiceProvider interface {
	ListForSpot(spotID string) ([]models.ReviewDetails, error)
	ListForUser(userID string) ([]models.ReviewDetails, error)
	CreateReview(spotID, userID, text string, stars int) (models.Review, error)
	UpdateReview(reviewID, actorID, text string, stars int) (models.Review, error)
	DeleteReview(reviewID, actorID string) error
	AddReviewImage(reviewID, actorID, url string) (models.ReviewImage, error)
	DeleteReviewImage(imageID, actorID string) error
	ComputeRating(spotID string) (models.RatingSummary, error)
}

// ReviewService provides business logic for review management.
type ReviewService struct {
	db *sql.DB
}

// NewReviewService creates a new ReviewService.
func NewReviewService(db *sql.DB) *ReviewService {
	return &ReviewService{db: db}
}

// validateReviewInput accumulates all invalid fields.
func validateReviewInput(text string, stars int) error {
	errs := map[string]string{}
	if text == "" {
		errs["review"] = "Review text is required"
	}
	if stars < 1 || stars > 5 {
		errs["stars"] = "Stars must be an integer from 1 to 5"
	}
	if len(errs) > 0 {
		return apperr.Validation(errs)
	}
	return nil
}

// ListForSpot returns all reviews for a spot, each with its author and
// images.
func (s *ReviewService) ListForSpot(spotID string) ([]models.ReviewDetails, error) {
	var exists int
	if err := s.db.QueryRow("SELECT COUNT(1) FROM spots WHERE id = ?", spotID).Scan(&exists); err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, apperr.NotFound("Spot couldn't be found")
	}

	rows, err := s.db.Query(`
		SELECT r.id, r.spot_id, r.user_id, r.review, r.stars, r.created_at, r.updated_at,
		       u.id, u.first_name, u.last_name
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.spot_id = ?
		ORDER BY r.created_at DESC`, spotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return s.collectReviewDetails(rows, false)
}

// ListForUser returns a user's reviews, each with the reviewed spot attached
// for the client's "my reviews" view.
func (s *ReviewService) ListForUser(userID string) ([]models.ReviewDetails, error) {
	rows, err := s.db.Query(`
		SELECT r.id, r.spot_id, r.user_id, r.review, r.stars, r.created_at, r.updated_at,
		       u.id, u.first_name, u.last_name
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.user_id = ?
		ORDER BY r.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return s.collectReviewDetails(rows, true)
}

// collectReviewDetails scans joined review rows and loads each review's
// images, plus the spot summary when requested.
func (s *ReviewService) collectReviewDetails(rows *sql.Rows, withSpot bool) ([]models.ReviewDetails, error) {
	reviews := []models.ReviewDetails{}
	for rows.Next() {
		var rd models.ReviewDetails
		err := rows.Scan(
			&rd.ID, &rd.SpotID, &rd.UserID, &rd.Review.Review, &rd.Stars, &rd.CreatedAt, &rd.UpdatedAt,
			&rd.User.ID, &rd.User.FirstName, &rd.User.LastName)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range reviews {
		images, err := s.imagesForReview(reviews[i].ID)
		if err != nil {
			return nil, err
		}
		reviews[i].ReviewImages = images

		if withSpot {
			spot, err := s.spotSummary(reviews[i].SpotID)
			if err != nil {
				return nil, err
			}
			reviews[i].Spot = spot
		}
	}
	return reviews, nil
}

func (s *ReviewService) imagesForReview(reviewID string) ([]models.ReviewImage, error) {
	rows, err := s.db.Query("SELECT id, review_id, url FROM review_images WHERE review_id = ?", reviewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	images := []models.ReviewImage{}
	for rows.Next() {
		var img models.ReviewImage
		if err := rows.Scan(&img.ID, &img.ReviewID, &img.URL); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (s *ReviewService) spotSummary(spotID string) (*models.SpotSummary, error) {
	var sum models.SpotSummary
	var previewImage sql.NullString
	row := s.db.QueryRow(`
		SELECT id, owner_id, address, city, state, country, lat, lng, name, description, price,
		       created_at, updated_at,
		       (SELECT url FROM spot_images WHERE spot_id = spots.id AND preview = 1 LIMIT 1)
		FROM spots WHERE id = ?`, spotID)
	err := row.Scan(
		&sum.ID, &sum.OwnerID, &sum.Address, &sum.City, &sum.State, &sum.Country,
		&sum.Lat, &sum.Lng, &sum.Name, &sum.Description, &sum.Price,
		&sum.CreatedAt, &sum.UpdatedAt, &previewImage)
	if err != nil {
		return nil, err
	}
	if previewImage.Valid {
		sum.PreviewImage = &previewImage.String
	}
	return &sum, nil
}

// CreateReview persists a new review. A user may review a spot at most once.
func (s *ReviewService) CreateReview(spotID, userID, text string, stars int) (models.Review, error) {
	var exists int
	if err := s.db.QueryRow("SELECT COUNT(1) FROM spots WHERE id = ?", spotID).Scan(&exists); err != nil {
		return models.Review{}, err
	}
	if exists == 0 {
		return models.Review{}, apperr.NotFound("Spot couldn't be found")
	}

	var prior int
	if err := s.db.QueryRow("SELECT COUNT(1) FROM reviews WHERE spot_id = ? AND user_id = ?", spotID, userID).Scan(&prior); err != nil {
		return models.Review{}, err
	}
	if prior > 0 {
		return models.Review{}, apperr.Forbidden("User already has a review for this spot")
	}

	if err := validateReviewInput(text, stars); err != nil {
		return models.Review{}, err
	}

	now := time.Now().UTC()
	review := models.Review{
		ID:        uuid.New().String(),
		SpotID:    spotID,
		UserID:    userID,
		Review:    text,
		Stars:     stars,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.Exec(`
		INSERT INTO reviews (id, spot_id, user_id, review, stars, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		review.ID, review.SpotID, review.UserID, review.Review, review.Stars, review.CreatedAt, review.UpdatedAt)
	if err != nil {
		return models.Review{}, err
	}
	return review, nil
}

// GetReviewByID retrieves a single review row.
func (s *ReviewService) GetReviewByID(id string) (models.Review, error) {
	var review models.Review
	row := s.db.QueryRow(`
		SELECT id, spot_id, user_id, review, stars, created_at, updated_at
		FROM reviews WHERE id = ?`, id)
	err := row.Scan(&review.ID, &review.SpotID, &review.UserID, &review.Review, &review.Stars, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Review{}, apperr.NotFound("Review couldn't be found")
		}
		return models.Review{}, err
	}
	return review, nil
}

// UpdateReview updates a review owned by the actor.
func (s *ReviewService) UpdateReview(reviewID, actorID, text string, stars int) (models.Review, error) {
	review, err := s.GetReviewByID(reviewID)
	if err != nil {
		return models.Review{}, err
	}
	if !canModifyReview(review, actorID) {
		return models.Review{}, apperr.Forbidden("Forbidden")
	}
	if err := validateReviewInput(text, stars); err != nil {
		return models.Review{}, err
	}

	now := time.Now().UTC()
	_, err = s.db.Exec("UPDATE reviews SET review = ?, stars = ?, updated_at = ? WHERE id = ?",
		text, stars, now, reviewID)
	if err != nil {
		return models.Review{}, err
	}
	return s.GetReviewByID(reviewID)
}

// DeleteReview removes a review owned by the actor along with its images.
func (s *ReviewService) DeleteReview(reviewID, actorID string) error {
	review, err := s.GetReviewByID(reviewID)
	if err != nil {
		return err
	}
	if !canModifyReview(review, actorID) {
		return apperr.Forbidden("Forbidden")
	}

	_, err = s.db.Exec("DELETE FROM reviews WHERE id = ?", reviewID)
	return err
}

// AddReviewImage attaches an image to a review owned by the actor.
func (s *ReviewService) AddReviewImage(reviewID, actorID, url string) (models.ReviewImage, error) {
	review, err := s.GetReviewByID(reviewID)
	if err != nil {
		return models.ReviewImage{}, err
	}
	if !canModifyReview(review, actorID) {
		return models.ReviewImage{}, apperr.Forbidden("Forbidden")
	}
	if url == "" {
		return models.ReviewImage{}, apperr.Validation(map[string]string{"url": "Image url is required"})
	}

	img := models.ReviewImage{ID: uuid.New().String(), ReviewID: reviewID, URL: url}
	_, err = s.db.Exec("INSERT INTO review_images (id, review_id, url) VALUES (?, ?, ?)",
		img.ID, img.ReviewID, img.URL)
	if err != nil {
		return models.ReviewImage{}, err
	}
	return img, nil
}

// DeleteReviewImage removes a review image; only the owner of the parent
// review may do so.
func (s *ReviewService) DeleteReviewImage(imageID, actorID string) error {
	var img models.ReviewImage
	row := s.db.QueryRow("SELECT id, review_id, url FROM review_images WHERE id = ?", imageID)
	if err := row.Scan(&img.ID, &img.ReviewID, &img.URL); err != nil {
		if err == sql.ErrNoRows {
			return apperr.NotFound("Review Image couldn't be found")
		}
		return err
	}

	review, err := s.GetReviewByID(img.ReviewID)
	if err != nil {
		return err
	}
	if !canModifyReview(review, actorID) {
		return apperr.Forbidden("Forbidden")
	}

	_, err = s.db.Exec("DELETE FROM review_images WHERE id = ?", imageID)
	return err
}

// ComputeRating derives the average star rating and review count for a
// spot. Avg is nil when the spot has no reviews. The value is recomputed on
// every call; nothing is cached.
func (s *ReviewService) ComputeRating(spotID string) (models.RatingSummary, error) {
	var count int
	var avg sql.NullFloat64
	row := s.db.QueryRow("SELECT COUNT(id), AVG(stars) FROM reviews WHERE spot_id = ?", spotID)
	if err := row.Scan(&count, &avg); err != nil {
		return models.RatingSummary{}, err
	}

	summary := models.RatingSummary{Count: count}
	if avg.Valid {
		summary.Avg = &avg.Float64
	}
	return summary, nil
}
