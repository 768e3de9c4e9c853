package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/etczermerivil/Stay-Scape/internal/apperr"
	"github.com/etczermerivil/Stay-Scape/internal/models"
	"github.com/google/uuid"
)

// BookingServiceProvider defines the interface for booking services.
type BookingServiceProvider interface {
	CreateBooking(ctx context.Context, spotID, userID string, start, end models.Date) (models.Booking, error)
	UpdateBooking(ctx context.Context, bookingID, requesterID string, start, end models.Date) (models.Booking, error)
	DeleteBooking(ctx context.Context, bookingID, requesterID string) error
	ListForSpot(spotID string) ([]models.SpotAvailability, error)
	ListForUser(userID string) ([]models.Booking, error)
}

// BookingService provides the booking lifecycle: creation, rescheduling and
// cancellation, all guarded by interval-conflict detection.
//
// Intervals are inclusive of the start date and exclusive of the end date,
// so a booking ending on a given day and another starting that same day do
// not conflict (same-day turnover).
type BookingService struct {
	db     *sql.DB
	events EventServiceProvider

	// now is swapped out in tests for deterministic "today" values.
	now func() time.Time
}

// NewBookingService creates a new BookingService.
func NewBookingService(db *sql.DB, events EventServiceProvider) *BookingService {
	return &BookingService{db: db, events: events, now: time.Now}
}

func (s *BookingService) today() models.Date {
	return models.DateOf(s.now())
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRow(query string, args ...interface{}) *sql.Row
}

// hasConflict reports whether the candidate range [start, end) overlaps any
// existing booking for the spot. excludeBookingID skips a booking's own row
// when rescheduling; it is empty on create. Pure query, no side effects.
func (s *BookingService) hasConflict(q querier, spotID string, start, end models.Date, excludeBookingID string) (bool, error) {
	// Two half-open ranges overlap iff each starts before the other ends.
	var conflict bool
	err := q.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM bookings
			WHERE spot_id = ? AND id <> ? AND start_date < ? AND end_date > ?
		)`, spotID, excludeBookingID, end, start).Scan(&conflict)
	return conflict, err
}

func conflictError() error {
	return apperr.Conflict("Sorry, this spot is already booked for the specified dates", map[string]string{
		"startDate": "Start date conflicts with an existing booking",
		"endDate":   "End date conflicts with an existing booking",
	})
}

// CreateBooking books a spot for [start, end). The conflict check and the
// insert run in one serializable transaction so two concurrent requests for
// overlapping dates cannot both commit.
func (s *BookingService) CreateBooking(ctx context.Context, spotID, userID string, start, end models.Date) (models.Booking, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return models.Booking{}, err
	}
	defer tx.Rollback()

	var ownerID string
	if err := tx.QueryRow("SELECT owner_id FROM spots WHERE id = ?", spotID).Scan(&ownerID); err != nil {
		if err == sql.ErrNoRows {
			return models.Booking{}, apperr.NotFound("Spot couldn't be found")
		}
		return models.Booking{}, err
	}
	if ownerID == userID {
		return models.Booking{}, apperr.Forbidden("You cannot book your own spot")
	}

	errs := map[string]string{}
	if start.Before(s.today().Time) {
		errs["startDate"] = "Start date cannot be in the past"
	}
	if !end.After(start.Time) {
		errs["endDate"] = "End date cannot be on or before start date"
	}
	if len(errs) > 0 {
		return models.Booking{}, apperr.Validation(errs)
	}

	conflict, err := s.hasConflict(tx, spotID, start, end, "")
	if err != nil {
		return models.Booking{}, err
	}
	if conflict {
		return models.Booking{}, conflictError()
	}

	now := s.now().UTC()
	booking := models.Booking{
		ID:        uuid.New().String(),
		SpotID:    spotID,
		UserID:    userID,
		StartDate: start,
		EndDate:   end,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = tx.Exec(`
		INSERT INTO bookings (id, spot_id, user_id, start_date, end_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		booking.ID, booking.SpotID, booking.UserID, booking.StartDate, booking.EndDate, booking.CreatedAt, booking.UpdatedAt)
	if err != nil {
		return models.Booking{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Booking{}, err
	}

	s.events.CreateEvent("booking.create", "info",
		fmt.Sprintf("Spot booked from %s to %s.", booking.StartDate, booking.EndDate), &booking.SpotID)
	return booking, nil
}

// UpdateBooking reschedules a booking to [start, end). Only the booking's
// user may do so, past bookings are immutable, and the conflict check
// excludes the booking's own row so a range that overlaps only itself is
// accepted.
func (s *BookingService) UpdateBooking(ctx context.Context, bookingID, requesterID string, start, end models.Date) (models.Booking, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return models.Booking{}, err
	}
	defer tx.Rollback()

	booking, err := scanBooking(tx.QueryRow(bookingSelect+" WHERE id = ?", bookingID))
	if err != nil {
		return models.Booking{}, err
	}
	if !canModifyBooking(booking, requesterID) {
		return models.Booking{}, apperr.Forbidden("You can only edit your own bookings")
	}
	if booking.EndDate.Before(s.today().Time) {
		return models.Booking{}, apperr.Forbidden("Past bookings can't be modified")
	}
	if !end.After(start.Time) {
		return models.Booking{}, apperr.Validation(map[string]string{
			"endDate": "End date cannot be on or before start date",
		})
	}

	conflict, err := s.hasConflict(tx, booking.SpotID, start, end, booking.ID)
	if err != nil {
		return models.Booking{}, err
	}
	if conflict {
		return models.Booking{}, conflictError()
	}

	now := s.now().UTC()
	_, err = tx.Exec("UPDATE bookings SET start_date = ?, end_date = ?, updated_at = ? WHERE id = ?",
		start, end, now, booking.ID)
	if err != nil {
		return models.Booking{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Booking{}, err
	}

	s.events.CreateEvent("booking.update", "info",
		fmt.Sprintf("Booking moved to %s through %s.", start, end), &booking.SpotID)

	booking.StartDate = start
	booking.EndDate = end
	booking.UpdatedAt = now
	return booking, nil
}

// DeleteBooking cancels a booking that has not started yet. Only the
// booking's user may cancel it.
func (s *BookingService) DeleteBooking(ctx context.Context, bookingID, requesterID string) error {
	booking, err := s.GetBookingByID(bookingID)
	if err != nil {
		return err
	}
	if !canModifyBooking(booking, requesterID) {
		return apperr.Forbidden("You can only delete your own bookings")
	}
	if booking.Status(s.today()) != models.BookingUpcoming {
		return apperr.Forbidden("Bookings that have started can't be deleted")
	}

	_, err = s.db.ExecContext(ctx, "DELETE FROM bookings WHERE id = ?", bookingID)
	if err == nil {
		s.events.CreateEvent("booking.delete", "warn",
			fmt.Sprintf("Booking for %s through %s was cancelled.", booking.StartDate, booking.EndDate), &booking.SpotID)
	}
	return err
}

// GetBookingByID retrieves a single booking.
func (s *BookingService) GetBookingByID(id string) (models.Booking, error) {
	return scanBooking(s.db.QueryRow(bookingSelect+" WHERE id = ?", id))
}

// ListForSpot returns the booked date ranges for a spot, for availability
// display. No ownership gate.
func (s *BookingService) ListForSpot(spotID string) ([]models.SpotAvailability, error) {
	var exists int
	if err := s.db.QueryRow("SELECT COUNT(1) FROM spots WHERE id = ?", spotID).Scan(&exists); err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, apperr.NotFound("Spot couldn't be found")
	}

	rows, err := s.db.Query("SELECT spot_id, start_date, end_date FROM bookings WHERE spot_id = ? ORDER BY start_date", spotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ranges := []models.SpotAvailability{}
	for rows.Next() {
		var r models.SpotAvailability
		if err := rows.Scan(&r.SpotID, &r.StartDate, &r.EndDate); err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}
	return ranges, rows.Err()
}

// ListForUser returns all bookings made by a user, regardless of spot
// ownership.
func (s *BookingService) ListForUser(userID string) ([]models.Booking, error) {
	rows, err := s.db.Query(bookingSelect+" WHERE user_id = ? ORDER BY start_date", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := []models.Booking{}
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(&b.ID, &b.SpotID, &b.UserID, &b.StartDate, &b.EndDate, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

const bookingSelect = "SELECT id, spot_id, user_id, start_date, end_date, created_at, updated_at FROM bookings"

// scanBooking scans a single booking row.
func scanBooking(row *sql.Row) (models.Booking, error) {
	var b models.Booking
	err := row.Scan(&b.ID, &b.SpotID, &b.UserID, &b.StartDate, &b.EndDate, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Booking{}, apperr.NotFound("Booking couldn't be found")
		}
		return models.Booking{}, err
	}
	return b, nil
}
