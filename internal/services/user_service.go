package services

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/etczermerivil/Stay-Scape/internal/apperr"
	"github.com/etczermerivil/Stay-Scape/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(id string) (models.User, error)
	CreateUser(firstName, lastName, email, username, password string) (models.User, error)
	AuthenticateUser(credential, password string) (models.User, error)
}

// UserService provides business logic for user management.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, first_name, last_name, email, username, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.Username, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, apperr.NotFound("User couldn't be found")
		}
		return models.User{}, err
	}
	return user, nil
}

// CreateUser registers a new user, hashing their password. Signup input is
// validated field by field and every problem is reported at once.
func (s *UserService) CreateUser(firstName, lastName, email, username, password string) (models.User, error) {
	errs := map[string]string{}
	if firstName == "" {
		errs["firstName"] = "First name is required"
	}
	if lastName == "" {
		errs["lastName"] = "Last name is required"
	}
	if email == "" || !strings.Contains(email, "@") {
		errs["email"] = "Invalid email"
	}
	if len(username) < 4 {
		errs["username"] = "Username must be at least 4 characters"
	}
	if len(password) < 6 {
		errs["password"] = "Password must be at least 6 characters"
	}
	if len(errs) > 0 {
		return models.User{}, apperr.Validation(errs)
	}

	if taken, err := s.credentialTaken(email, username); err != nil {
		return models.User{}, err
	} else if len(taken) > 0 {
		return models.User{}, &apperr.Error{Kind: apperr.KindForbidden, Message: "User already exists", Fields: taken}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		Username:     username,
		PasswordHash: string(hashedPassword),
	}

	stmt, err := s.db.Prepare("INSERT INTO users(id, first_name, last_name, email, username, password_hash) VALUES(?, ?, ?, ?, ?, ?)")
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	if _, err = stmt.Exec(user.ID, user.FirstName, user.LastName, user.Email, user.Username, user.PasswordHash); err != nil {
		return models.User{}, err
	}

	// Return user without password hash
	user.PasswordHash = ""
	return user, nil
}

// credentialTaken reports which of email/username are already registered.
func (s *UserService) credentialTaken(email, username string) (map[string]string, error) {
	taken := map[string]string{}
	var n int
	if err := s.db.QueryRow("SELECT COUNT(1) FROM users WHERE email = ?", email).Scan(&n); err != nil {
		return nil, err
	}
	if n > 0 {
		taken["email"] = "User with that email already exists"
	}
	if err := s.db.QueryRow("SELECT COUNT(1) FROM users WHERE username = ?", username).Scan(&n); err != nil {
		return nil, err
	}
	if n > 0 {
		taken["username"] = "User with that username already exists"
	}
	if len(taken) == 0 {
		return nil, nil
	}
	return taken, nil
}

// AuthenticateUser verifies a user's credentials. The credential may be
// either the username or the email address.
func (s *UserService) AuthenticateUser(credential, password string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow(`
		SELECT id, first_name, last_name, email, username, password_hash, created_at
		FROM users WHERE email = ? OR username = ?`, credential, credential)
	err := row.Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, fmt.Errorf("authentication failed: user not found")
		}
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, fmt.Errorf("authentication failed: invalid password")
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}
