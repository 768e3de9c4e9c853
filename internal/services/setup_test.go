package services

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/etczermerivil/Stay-Scape/internal/apperr"
	"github.com/etczermerivil/Stay-Scape/internal/database"
	"github.com/etczermerivil/Stay-Scape/internal/models"
)

// newTestDB opens a fresh in-memory database with the full schema applied.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// fixedNow pins "today" to 2024-09-01 so date-rule tests are deterministic.
func fixedNow() time.Time {
	return time.Date(2024, time.September, 1, 12, 0, 0, 0, time.UTC)
}

func date(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

var userSeq int

// seedUser registers a user with unique credentials.
func seedUser(t *testing.T, db *sql.DB) models.User {
	t.Helper()
	userSeq++
	svc := NewUserService(db)
	user, err := svc.CreateUser(
		"Test",
		fmt.Sprintf("User%d", userSeq),
		fmt.Sprintf("user%d@example.com", userSeq),
		fmt.Sprintf("testuser%d", userSeq),
		"password123",
	)
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func validSpotInput() SpotInput {
	return SpotInput{
		Address:     "123 Ocean Ave",
		City:        "Santa Monica",
		State:       "CA",
		Country:     "USA",
		Lat:         34.0195,
		Lng:         -118.4912,
		Name:        "Beach Bungalow",
		Description: "Two blocks from the pier.",
		Price:       250,
	}
}

// seedSpot creates a spot owned by the given user.
func seedSpot(t *testing.T, db *sql.DB, ownerID string) models.Spot {
	t.Helper()
	spot, err := NewSpotService(db).CreateSpot(ownerID, validSpotInput())
	if err != nil {
		t.Fatalf("failed to seed spot: %v", err)
	}
	return spot
}

// requireKind asserts that err is an application error of the given kind.
func requireKind(t *testing.T, err error, kind apperr.Kind) *apperr.Error {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	appErr, ok := apperr.As(err)
	if !ok {
		t.Fatalf("expected an application error, got %v", err)
	}
	if appErr.Kind != kind {
		t.Fatalf("expected error kind %d, got %d (%v)", kind, appErr.Kind, appErr)
	}
	return appErr
}

// newBookingService returns a booking service with the clock pinned.
func newBookingService(db *sql.DB) *BookingService {
	svc := NewBookingService(db, NewEventService(db))
	svc.now = fixedNow
	return svc
}
