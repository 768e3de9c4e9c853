package services

import (
	"testing"

	"github.com/etczermerivil/Stay-Scape/internal/apperr"
)

func TestCreateAndAuthenticateUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	user, err := svc.CreateUser("Ada", "Lovelace", "ada@example.com", "adalove", "s3cretpw")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if user.PasswordHash != "" {
		t.Error("password hash leaked in returned user")
	}

	// Login works with either the email or the username.
	if _, err := svc.AuthenticateUser("ada@example.com", "s3cretpw"); err != nil {
		t.Errorf("authentication by email failed: %v", err)
	}
	if _, err := svc.AuthenticateUser("adalove", "s3cretpw"); err != nil {
		t.Errorf("authentication by username failed: %v", err)
	}
	if _, err := svc.AuthenticateUser("adalove", "wrongpw"); err == nil {
		t.Error("authentication succeeded with wrong password")
	}
	if _, err := svc.AuthenticateUser("nobody@example.com", "s3cretpw"); err == nil {
		t.Error("authentication succeeded for unknown user")
	}
}

func TestCreateUserValidationAccumulates(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	_, err := svc.CreateUser("", "", "not-an-email", "ab", "123")
	appErr := requireKind(t, err, apperr.KindValidation)
	for _, field := range []string{"firstName", "lastName", "email", "username", "password"} {
		if _, ok := appErr.Fields[field]; !ok {
			t.Errorf("expected %s error, got %v", field, appErr.Fields)
		}
	}
}

func TestCreateUserDuplicateCredentials(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	if _, err := svc.CreateUser("Ada", "Lovelace", "ada@example.com", "adalove", "s3cretpw"); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	_, err := svc.CreateUser("Grace", "Hopper", "ada@example.com", "ghopper", "s3cretpw")
	appErr := requireKind(t, err, apperr.KindForbidden)
	if _, ok := appErr.Fields["email"]; !ok {
		t.Errorf("expected email duplicate error, got %v", appErr.Fields)
	}

	_, err = svc.CreateUser("Grace", "Hopper", "grace@example.com", "adalove", "s3cretpw")
	appErr = requireKind(t, err, apperr.KindForbidden)
	if _, ok := appErr.Fields["username"]; !ok {
		t.Errorf("expected username duplicate error, got %v", appErr.Fields)
	}
}
