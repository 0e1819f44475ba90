package auth

import (
	"testing"
	"time"

	"circstack/internal/db"
)

func TestJWTRoundTrip(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)
	user := &db.User{ID: 5, Username: "admin"}

	token, expiresAt, err := manager.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}
	if !expiresAt.After(time.Now()) {
		t.Error("token should expire in the future")
	}

	claims, err := manager.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID != 5 || claims.Username != "admin" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestValidateTokenRejects(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	t.Run("garbage", func(t *testing.T) {
		if _, err := manager.ValidateToken("not-a-token"); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTManager("other-secret", time.Hour)
		token, _, err := other.GenerateToken(&db.User{ID: 1, Username: "x"})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := manager.ValidateToken(token); err == nil {
			t.Error("expected error for token signed with a different secret")
		}
	})

	t.Run("expired", func(t *testing.T) {
		expired := NewJWTManager("test-secret", -time.Hour)
		token, _, err := expired.GenerateToken(&db.User{ID: 1, Username: "x"})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := manager.ValidateToken(token); err == nil {
			t.Error("expected error for expired token")
		}
	})
}
