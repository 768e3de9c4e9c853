package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/etczermerivil/Stay-Scape/internal/models"
)

func TestInitSetsSigningKey(t *testing.T) {
	Init("supersecret")

	token, err := GenerateJWT(models.User{ID: "u1", Username: "tester"})
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}

	// The token must verify against the key handed to Init.
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("supersecret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify with the configured key: %v", err)
	}
	if claims.UserID != "u1" || claims.Username != "tester" {
		t.Errorf("claims wrong: %+v", claims)
	}

	// And must not verify against any other key, the empty one included.
	for _, key := range []string{"", "otherkey"} {
		_, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (interface{}, error) {
			return []byte(key), nil
		})
		if err == nil {
			t.Errorf("token verified with wrong key %q", key)
		}
	}
}

func TestInitRotatesKey(t *testing.T) {
	Init("first-key")
	token, err := GenerateJWT(models.User{ID: "u2", Username: "rotated"})
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}

	Init("second-key")
	if _, err := ValidateJWT(token); err == nil {
		t.Error("token signed under the old key still validates")
	}
}
