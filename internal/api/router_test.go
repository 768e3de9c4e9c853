package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/etczermerivil/Stay-Scape/internal/auth"
	"github.com/etczermerivil/Stay-Scape/internal/database"
	"github.com/etczermerivil/Stay-Scape/internal/models"
	"github.com/etczermerivil/Stay-Scape/internal/services"
)

type testAPI struct {
	t      *testing.T
	server *httptest.Server
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	auth.Init("router-test-secret")
	db, err := database.New(":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	eventService := services.NewEventService(db)
	router := NewRouter(
		"http://localhost:3000",
		services.NewUserService(db),
		services.NewSpotService(db),
		services.NewReviewService(db),
		services.NewBookingService(db, eventService),
		eventService,
	)
	server := httptest.NewServer(router)
	t.Cleanup(func() {
		server.Close()
		db.Close()
	})
	return &testAPI{t: t, server: server}
}

// do sends a JSON request, optionally authenticated with a session token,
// and decodes the JSON response.
func (a *testAPI) do(method, path, token string, body interface{}) (int, map[string]interface{}) {
	a.t.Helper()

	var reqBody bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&reqBody).Encode(body); err != nil {
			a.t.Fatalf("failed to encode request body: %v", err)
		}
	}

	req, err := http.NewRequest(method, a.server.URL+path, &reqBody)
	if err != nil {
		a.t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	}

	resp, err := a.server.Client().Do(req)
	if err != nil {
		a.t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var decoded map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		a.t.Fatalf("failed to decode response: %v", err)
	}
	return resp.StatusCode, decoded
}

// signup registers a user through the API and returns their session token.
func (a *testAPI) signup(first, email, username string) (string, string) {
	a.t.Helper()
	status, body := a.do(http.MethodPost, "/api/users", "", map[string]string{
		"firstName": first,
		"lastName":  "Tester",
		"email":     email,
		"username":  username,
		"password":  "password123",
	})
	if status != http.StatusCreated {
		a.t.Fatalf("signup failed with %d: %v", status, body)
	}

	user := body["user"].(map[string]interface{})
	userID := user["id"].(string)

	// Log in to pick the cookie out of the response directly.
	var reqBody bytes.Buffer
	json.NewEncoder(&reqBody).Encode(map[string]string{"credential": username, "password": "password123"})
	resp, err := http.Post(a.server.URL+"/api/session", "application/json", &reqBody)
	if err != nil {
		a.t.Fatalf("login failed: %v", err)
	}
	defer resp.Body.Close()
	for _, c := range resp.Cookies() {
		if c.Name == "token" {
			return c.Value, userID
		}
	}
	a.t.Fatal("login response carried no token cookie")
	return "", ""
}

func (a *testAPI) createSpot(token string) string {
	a.t.Helper()
	status, body := a.do(http.MethodPost, "/api/spots", token, map[string]interface{}{
		"address": "123 Ocean Ave", "city": "Santa Monica", "state": "CA",
		"country": "USA", "lat": 34.0, "lng": -118.5,
		"name": "Beach Bungalow", "description": "Two blocks from the pier.", "price": 250,
	})
	if status != http.StatusCreated {
		a.t.Fatalf("create spot failed with %d: %v", status, body)
	}
	return body["id"].(string)
}

func day(offset int) string {
	return models.DateOf(time.Now().AddDate(0, 0, offset)).String()
}

func TestBookingEndToEnd(t *testing.T) {
	api := newTestAPI(t)

	ownerToken, _ := api.signup("Olive", "owner@example.com", "spotowner")
	guestToken, _ := api.signup("Gus", "guest@example.com", "firstguest")
	otherToken, _ := api.signup("Nia", "other@example.com", "secondguest")

	spotID := api.createSpot(ownerToken)
	bookingsPath := fmt.Sprintf("/api/spots/%s/bookings", spotID)

	// Unauthenticated booking attempts are rejected outright.
	req, _ := http.NewRequest(http.MethodPost, api.server.URL+bookingsPath, bytes.NewBufferString(`{}`))
	resp, err := api.server.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous booking, got %d", resp.StatusCode)
	}

	// Owner cannot book their own spot.
	status, body := api.do(http.MethodPost, bookingsPath, ownerToken, map[string]string{
		"startDate": day(30), "endDate": day(36),
	})
	if status != http.StatusForbidden {
		t.Fatalf("expected 403 for own-spot booking, got %d: %v", status, body)
	}

	// Guest books a valid range.
	status, body = api.do(http.MethodPost, bookingsPath, guestToken, map[string]string{
		"startDate": day(30), "endDate": day(36),
	})
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %v", status, body)
	}
	bookingID := body["id"].(string)

	// Overlapping request from another guest is rejected with field errors.
	status, body = api.do(http.MethodPost, bookingsPath, otherToken, map[string]string{
		"startDate": day(34), "endDate": day(39),
	})
	if status != http.StatusForbidden {
		t.Fatalf("expected 403 conflict, got %d: %v", status, body)
	}
	fieldErrs, _ := body["errors"].(map[string]interface{})
	if fieldErrs["startDate"] == nil || fieldErrs["endDate"] == nil {
		t.Errorf("conflict response missing field errors: %v", body)
	}

	// Back-to-back booking on the turnover day is accepted.
	status, body = api.do(http.MethodPost, bookingsPath, otherToken, map[string]string{
		"startDate": day(36), "endDate": day(41),
	})
	if status != http.StatusCreated {
		t.Fatalf("expected 201 for back-to-back booking, got %d: %v", status, body)
	}

	// Past start date is a validation error.
	status, body = api.do(http.MethodPost, bookingsPath, otherToken, map[string]string{
		"startDate": day(-5), "endDate": day(44),
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for past start, got %d: %v", status, body)
	}

	// Availability view lists both accepted ranges.
	status, body = api.do(http.MethodGet, bookingsPath, guestToken, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", status, body)
	}
	if ranges := body["Bookings"].([]interface{}); len(ranges) != 2 {
		t.Errorf("expected 2 booked ranges, got %d", len(ranges))
	}

	// Guest reschedules within their own slot.
	status, body = api.do(http.MethodPut, "/api/bookings/"+bookingID, guestToken, map[string]string{
		"startDate": day(31), "endDate": day(36),
	})
	if status != http.StatusOK {
		t.Fatalf("expected 200 for self-overlapping update, got %d: %v", status, body)
	}

	// A stranger cannot touch the booking.
	status, _ = api.do(http.MethodDelete, "/api/bookings/"+bookingID, otherToken, nil)
	if status != http.StatusForbidden {
		t.Fatalf("expected 403 for stranger delete, got %d", status)
	}

	// The guest's own listing shows the booking; deletion removes it.
	status, body = api.do(http.MethodGet, "/api/bookings/current", guestToken, nil)
	if status != http.StatusOK || len(body["Bookings"].([]interface{})) != 1 {
		t.Fatalf("current bookings wrong: %d %v", status, body)
	}

	status, body = api.do(http.MethodDelete, "/api/bookings/"+bookingID, guestToken, nil)
	if status != http.StatusOK || body["message"] != "Successfully deleted" {
		t.Fatalf("delete failed: %d %v", status, body)
	}

	status, _ = api.do(http.MethodDelete, "/api/bookings/"+bookingID, guestToken, nil)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 for deleted booking, got %d", status)
	}
}

func TestSpotListingAndReviewsEndToEnd(t *testing.T) {
	api := newTestAPI(t)

	ownerToken, _ := api.signup("Olive", "owner2@example.com", "spotowner2")
	guestToken, guestID := api.signup("Gus", "guest2@example.com", "guestuser2")
	spotID := api.createSpot(ownerToken)

	// Bad filter values come back as one accumulated 400.
	status, body := api.do(http.MethodGet, "/api/spots?page=0&minLat=400", "", nil)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad filters, got %d: %v", status, body)
	}
	fieldErrs, _ := body["errors"].(map[string]interface{})
	if fieldErrs["page"] == nil || fieldErrs["minLat"] == nil {
		t.Errorf("expected page and minLat errors, got %v", body)
	}

	// Public listing includes the spot with a null rating.
	status, body = api.do(http.MethodGet, "/api/spots", "", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	spots := body["Spots"].([]interface{})
	if len(spots) != 1 {
		t.Fatalf("expected 1 spot, got %d", len(spots))
	}
	if spots[0].(map[string]interface{})["avgRating"] != nil {
		t.Errorf("unreviewed spot should list avgRating null")
	}

	// Guest reviews the spot; detail view aggregates it.
	status, body = api.do(http.MethodPost, "/api/spots/"+spotID+"/reviews", guestToken, map[string]interface{}{
		"review": "Wonderful stay", "stars": 4,
	})
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %v", status, body)
	}

	// Second review by the same user is rejected.
	status, _ = api.do(http.MethodPost, "/api/spots/"+spotID+"/reviews", guestToken, map[string]interface{}{
		"review": "Again", "stars": 5,
	})
	if status != http.StatusForbidden {
		t.Fatalf("expected 403 for duplicate review, got %d", status)
	}

	status, body = api.do(http.MethodGet, "/api/spots/"+spotID, "", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if body["numReviews"].(float64) != 1 || body["avgStarRating"].(float64) != 4 {
		t.Errorf("aggregates wrong: numReviews=%v avgStarRating=%v", body["numReviews"], body["avgStarRating"])
	}

	// Spot reviews carry their author.
	status, body = api.do(http.MethodGet, "/api/spots/"+spotID+"/reviews", "", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	reviews := body["Reviews"].([]interface{})
	if len(reviews) != 1 {
		t.Fatalf("expected 1 review, got %d", len(reviews))
	}
	author := reviews[0].(map[string]interface{})["User"].(map[string]interface{})
	if author["id"] != guestID {
		t.Errorf("review author wrong: %v", author)
	}

	// Deleting the spot takes its bookings and reviews with it.
	status, body = api.do(http.MethodDelete, "/api/spots/"+spotID, ownerToken, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", status, body)
	}
	status, _ = api.do(http.MethodGet, "/api/spots/"+spotID, "", nil)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", status)
	}
}
