package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/etczermerivil/Stay-Scape/internal/auth"
	"github.com/etczermerivil/Stay-Scape/internal/models"
	"github.com/etczermerivil/Stay-Scape/internal/services"
	"github.com/rs/zerolog/log"
)

// UserHandler handles signup and session management.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// SignupPayload defines the structure for registration requests.
type SignupPayload struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

// LoginPayload defines the structure for login requests. Credential accepts
// either a username or an email address.
type LoginPayload struct {
	Credential string `json:"credential"`
	Password   string `json:"password"`
}

// setTokenCookie issues a JWT for the user and attaches it as an httpOnly
// cookie.
func setTokenCookie(w http.ResponseWriter, user models.User) (string, error) {
	token, err := auth.GenerateJWT(user)
	if err != nil {
		return "", err
	}

	// Set Secure flag based on environment.
	isProd := os.Getenv("APP_ENV") == "production"

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		Secure:   isProd,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})
	return token, nil
}

// Signup handles new user registration and logs the user in.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var payload SignupPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid request body"})
		return
	}

	user, err := h.service.CreateUser(payload.FirstName, payload.LastName, payload.Email, payload.Username, payload.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if _, err := setTokenCookie(w, user); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate JWT")
		writeJSON(w, http.StatusInternalServerError, errorBody{Message: "Failed to generate token"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"user": user})
}

// Login handles user authentication and JWT issuance.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid request body"})
		return
	}

	user, err := h.service.AuthenticateUser(payload.Credential, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("credential", payload.Credential).Msg("Failed authentication attempt")
		writeJSON(w, http.StatusUnauthorized, errorBody{Message: "Invalid credentials"})
		return
	}

	if _, err := setTokenCookie(w, user); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate JWT")
		writeJSON(w, http.StatusInternalServerError, errorBody{Message: "Failed to generate token"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// Restore returns the current session user, or null when the request
// carries no valid token.
func (h *UserHandler) Restore(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.ClaimsFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"user": nil})
		return
	}

	user, err := h.service.GetUserByID(claims.UserID)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"user": nil})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// Logout clears the session cookie.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Path:     "/",
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "success"})
}
