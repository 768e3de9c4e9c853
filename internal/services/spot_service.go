package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/etczermerivil/Stay-Scape/internal/apperr"
	"github.com/etczermerivil/Stay-Scape/internal/models"
	"github.com/google/uuid"
)

// SpotInput is the write payload for creating or updating a spot.
type SpotInput struct {
	Address     string  `json:"address"`
	City        string  `json:"city"`
	State       string  `json:"state"`
	Country     string  `json:"country"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// SpotFilter narrows the public spot listing. Nil bounds are ignored.
type SpotFilter struct {
	Page     int
	Size     int
	MinLat   *float64
	MaxLat   *float64
	MinLng   *float64
	MaxLng   *float64
	MinPrice *float64
	MaxPrice *float64
}

// SpotServiceProvider defines the interface for spot services.
type SpotServiceProvider interface {
	ListSpots(filter SpotFilter) ([]models.SpotSummary, error)
	ListSpotsByOwner(ownerID string) ([]models.SpotSummary, error)
	GetSpotByID(id string) (models.Spot, error)
	GetSpotDetails(id string) (models.SpotDetails, error)
	CreateSpot(ownerID string, input SpotInput) (models.Spot, error)
	UpdateSpot(id, actorID string, input SpotInput) (models.Spot, error)
	DeleteSpot(id, actorID string) error
	AddSpotImage(spotID, actorID, url string, preview bool) (models.SpotImage, error)
	DeleteSpotImage(imageID, actorID string) error
}

// SpotService provides business logic for spot management.
type SpotService struct {
	db *sql.DB
}

// NewSpotService creates a new SpotService.
func NewSpotService(db *sql.DB) *SpotService {
	return &SpotService{db: db}
}

// validateSpotInput accumulates every invalid field into one error so the
// client sees the whole picture at once.
func validateSpotInput(input SpotInput) error {
	errs := map[string]string{}
	if input.Address == "" {
		errs["address"] = "Street address is required"
	}
	if input.City == "" {
		errs["city"] = "City is required"
	}
	if input.State == "" {
		errs["state"] = "State is required"
	}
	if input.Country == "" {
		errs["country"] = "Country is required"
	}
	if input.Lat < -90 || input.Lat > 90 {
		errs["lat"] = "Latitude must be within -90 and 90"
	}
	if input.Lng < -180 || input.Lng > 180 {
		errs["lng"] = "Longitude must be within -180 and 180"
	}
	if len(input.Name) < 1 || len(input.Name) > 50 {
		errs["name"] = "Name must be between 1 and 50 characters"
	}
	if input.Description == "" {
		errs["description"] = "Description is required"
	}
	if input.Price <= 0 {
		errs["price"] = "Price per day must be a positive number"
	}
	if len(errs) > 0 {
		return apperr.Validation(errs)
	}
	return nil
}

const spotSummarySelect = `
	SELECT s.id, s.owner_id, s.address, s.city, s.state, s.country, s.lat, s.lng,
	       s.name, s.description, s.price, s.created_at, s.updated_at,
	       AVG(r.stars) AS avg_rating,
	       (SELECT url FROM spot_images WHERE spot_id = s.id AND preview = 1 LIMIT 1) AS preview_image
	FROM spots s
	LEFT JOIN reviews r ON r.spot_id = s.id`

// ListSpots returns the public spot listing, filtered and paginated.
func (s *SpotService) ListSpots(filter SpotFilter) ([]models.SpotSummary, error) {
	query := spotSummarySelect
	var args []interface{}
	var conds []string

	appendCond := func(cond string, arg interface{}) {
		conds = append(conds, cond)
		args = append(args, arg)
	}
	if filter.MinLat != nil {
		appendCond("s.lat >= ?", *filter.MinLat)
	}
	if filter.MaxLat != nil {
		appendCond("s.lat <= ?", *filter.MaxLat)
	}
	if filter.MinLng != nil {
		appendCond("s.lng >= ?", *filter.MinLng)
	}
	if filter.MaxLng != nil {
		appendCond("s.lng <= ?", *filter.MaxLng)
	}
	if filter.MinPrice != nil {
		appendCond("s.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		appendCond("s.price <= ?", *filter.MaxPrice)
	}

	for i, cond := range conds {
		if i == 0 {
			query += "\n\tWHERE " + cond
		} else {
			query += " AND " + cond
		}
	}

	page, size := filter.Page, filter.Size
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 20 {
		size = 20
	}
	query += "\n\tGROUP BY s.id ORDER BY s.created_at DESC LIMIT ? OFFSET ?"
	args = append(args, size, (page-1)*size)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSpotSummaries(rows)
}

// ListSpotsByOwner returns the spots owned by a user, with the same derived
// fields as the public listing.
func (s *SpotService) ListSpotsByOwner(ownerID string) ([]models.SpotSummary, error) {
	rows, err := s.db.Query(spotSummarySelect+`
	WHERE s.owner_id = ?
	GROUP BY s.id ORDER BY s.created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSpotSummaries(rows)
}

// GetSpotByID retrieves a single spot row.
func (s *SpotService) GetSpotByID(id string) (models.Spot, error) {
	var spot models.Spot
	row := s.db.QueryRow(`
		SELECT id, owner_id, address, city, state, country, lat, lng, name, description, price, created_at, updated_at
		FROM spots WHERE id = ?`, id)
	err := row.Scan(
		&spot.ID, &spot.OwnerID, &spot.Address, &spot.City, &spot.State, &spot.Country,
		&spot.Lat, &spot.Lng, &spot.Name, &spot.Description, &spot.Price, &spot.CreatedAt, &spot.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Spot{}, apperr.NotFound("Spot couldn't be found")
		}
		return models.Spot{}, err
	}
	return spot, nil
}

// GetSpotDetails retrieves a spot with its review aggregates, images and
// owner.
func (s *SpotService) GetSpotDetails(id string) (models.SpotDetails, error) {
	spot, err := s.GetSpotByID(id)
	if err != nil {
		return models.SpotDetails{}, err
	}

	details := models.SpotDetails{Spot: spot, SpotImages: []models.SpotImage{}}

	var count int
	var avg sql.NullFloat64
	row := s.db.QueryRow("SELECT COUNT(id), AVG(stars) FROM reviews WHERE spot_id = ?", id)
	if err := row.Scan(&count, &avg); err != nil {
		return models.SpotDetails{}, err
	}
	details.NumReviews = count
	if avg.Valid {
		details.AvgStarRating = &avg.Float64
	}

	rows, err := s.db.Query("SELECT id, spot_id, url, preview FROM spot_images WHERE spot_id = ?", id)
	if err != nil {
		return models.SpotDetails{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var img models.SpotImage
		if err := rows.Scan(&img.ID, &img.SpotID, &img.URL, &img.Preview); err != nil {
			return models.SpotDetails{}, err
		}
		details.SpotImages = append(details.SpotImages, img)
	}

	ownerRow := s.db.QueryRow("SELECT id, first_name, last_name FROM users WHERE id = ?", spot.OwnerID)
	if err := ownerRow.Scan(&details.Owner.ID, &details.Owner.FirstName, &details.Owner.LastName); err != nil {
		return models.SpotDetails{}, err
	}

	return details, nil
}

// CreateSpot persists a new spot for the given owner.
func (s *SpotService) CreateSpot(ownerID string, input SpotInput) (models.Spot, error) {
	if err := validateSpotInput(input); err != nil {
		return models.Spot{}, err
	}

	now := time.Now().UTC()
	spot := models.Spot{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Address:     input.Address,
		City:        input.City,
		State:       input.State,
		Country:     input.Country,
		Lat:         input.Lat,
		Lng:         input.Lng,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	stmt, err := s.db.Prepare(`
		INSERT INTO spots (id, owner_id, address, city, state, country, lat, lng, name, description, price, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return models.Spot{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(spot.ID, spot.OwnerID, spot.Address, spot.City, spot.State, spot.Country,
		spot.Lat, spot.Lng, spot.Name, spot.Description, spot.Price, spot.CreatedAt, spot.UpdatedAt)
	if err != nil {
		return models.Spot{}, err
	}
	return spot, nil
}

// UpdateSpot updates a spot owned by the actor.
func (s *SpotService) UpdateSpot(id, actorID string, input SpotInput) (models.Spot, error) {
	spot, err := s.GetSpotByID(id)
	if err != nil {
		return models.Spot{}, err
	}
	if !canModifySpot(spot, actorID) {
		return models.Spot{}, apperr.Forbidden("Forbidden")
	}
	if err := validateSpotInput(input); err != nil {
		return models.Spot{}, err
	}

	now := time.Now().UTC()
	_, err = s.db.Exec(`
		UPDATE spots SET address = ?, city = ?, state = ?, country = ?, lat = ?, lng = ?,
		       name = ?, description = ?, price = ?, updated_at = ?
		WHERE id = ?`,
		input.Address, input.City, input.State, input.Country, input.Lat, input.Lng,
		input.Name, input.Description, input.Price, now, id)
	if err != nil {
		return models.Spot{}, err
	}
	return s.GetSpotByID(id)
}

// DeleteSpot removes a spot owned by the actor. Images, reviews (with their
// images) and bookings go with it via foreign key cascade.
func (s *SpotService) DeleteSpot(id, actorID string) error {
	spot, err := s.GetSpotByID(id)
	if err != nil {
		return err
	}
	if !canModifySpot(spot, actorID) {
		return apperr.Forbidden("Forbidden")
	}

	_, err = s.db.Exec("DELETE FROM spots WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete spot: %w", err)
	}
	return nil
}

// AddSpotImage attaches an image to a spot owned by the actor. When the new
// image is the preview, any previous preview flag is cleared so the spot
// keeps a single thumbnail.
func (s *SpotService) AddSpotImage(spotID, actorID, url string, preview bool) (models.SpotImage, error) {
	spot, err := s.GetSpotByID(spotID)
	if err != nil {
		return models.SpotImage{}, err
	}
	if !canModifySpot(spot, actorID) {
		return models.SpotImage{}, apperr.Forbidden("Forbidden")
	}
	if url == "" {
		return models.SpotImage{}, apperr.Validation(map[string]string{"url": "Image url is required"})
	}

	if preview {
		if _, err := s.db.Exec("UPDATE spot_images SET preview = 0 WHERE spot_id = ?", spotID); err != nil {
			return models.SpotImage{}, err
		}
	}

	img := models.SpotImage{ID: uuid.New().String(), SpotID: spotID, URL: url, Preview: preview}
	_, err = s.db.Exec("INSERT INTO spot_images (id, spot_id, url, preview) VALUES (?, ?, ?, ?)",
		img.ID, img.SpotID, img.URL, img.Preview)
	if err != nil {
		return models.SpotImage{}, err
	}
	return img, nil
}

// DeleteSpotImage removes a spot image; only the owner of the parent spot
// may do so.
func (s *SpotService) DeleteSpotImage(imageID, actorID string) error {
	var img models.SpotImage
	row := s.db.QueryRow("SELECT id, spot_id, url, preview FROM spot_images WHERE id = ?", imageID)
	if err := row.Scan(&img.ID, &img.SpotID, &img.URL, &img.Preview); err != nil {
		if err == sql.ErrNoRows {
			return apperr.NotFound("Spot Image couldn't be found")
		}
		return err
	}

	spot, err := s.GetSpotByID(img.SpotID)
	if err != nil {
		return err
	}
	if !canModifySpot(spot, actorID) {
		return apperr.Forbidden("Forbidden")
	}

	_, err = s.db.Exec("DELETE FROM spot_images WHERE id = ?", imageID)
	return err
}

// scanSpotSummaries is a helper to scan listing rows into SpotSummary values.
func scanSpotSummaries(rows *sql.Rows) ([]models.SpotSummary, error) {
	spots := []models.SpotSummary{}
	for rows.Next() {
		var sum models.SpotSummary
		var avgRating sql.NullFloat64
		var previewImage sql.NullString
		err := rows.Scan(
			&sum.ID, &sum.OwnerID, &sum.Address, &sum.City, &sum.State, &sum.Country,
			&sum.Lat, &sum.Lng, &sum.Name, &sum.Description, &sum.Price,
			&sum.CreatedAt, &sum.UpdatedAt, &avgRating, &previewImage)
		if err != nil {
			return nil, err
		}
		if avgRating.Valid {
			sum.AvgRating = &avgRating.Float64
		}
		if previewImage.Valid {
			sum.PreviewImage = &previewImage.String
		}
		spots = append(spots, sum)
	}
	return spots, rows.Err()
}
