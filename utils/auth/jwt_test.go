package auth

import (
	"testing"
	"time"

	"github.com/sahilchouksey/campus-shelf/model"
)

func newTestManager() *JWTManager {
	return NewJWTManager(JWTConfig{
		Secret:        "test-secret",
		Expiry:        time.Hour,
		RefreshExpiry: 24 * time.Hour,
		Issuer:        "campus-shelf-test",
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	manager := newTestManager()

	token, jti, err := manager.GenerateAccessToken(42, "user@example.com", model.RoleAdmin, 3)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	if jti == "" {
		t.Error("expected a non-empty JTI")
	}

	claims, err := manager.ValidateToken(token)
	if err != nil {
		t.Fatalf("failed to validate token: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("expected user ID 42, got %d", claims.UserID)
	}
	if claims.Email != "user@example.com" {
		t.Errorf("unexpected email %q", claims.Email)
	}
	if claims.Role != model.RoleAdmin {
		t.Errorf("unexpected role %q", claims.Role)
	}
	if claims.TokenType != "access" {
		t.Errorf("unexpected token type %q", claims.TokenType)
	}
	if claims.TokenVersion != 3 {
		t.Errorf("unexpected token version %d", claims.TokenVersion)
	}
	if claims.ID != jti {
		t.Errorf("claims JTI %q does not match returned JTI %q", claims.ID, jti)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	manager := newTestManager()
	other := NewJWTManager(JWTConfig{Secret: "different-secret", Expiry: time.Hour})

	token, _, err := manager.GenerateAccessToken(1, "user@example.com", model.RoleUser, 0)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := other.ValidateToken(token); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for a wrong secret, got %v", err)
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	manager := NewJWTManager(JWTConfig{
		Secret: "test-secret",
		Expiry: -time.Minute,
	})

	token, _, err := manager.GenerateAccessToken(1, "user@example.com", model.RoleUser, 0)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := manager.ValidateToken(token); err != ErrExpiredToken {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	manager := newTestManager()

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := manager.ValidateToken(token); err == nil {
			t.Errorf("token %q should not validate", token)
		}
	}
}

func TestRefreshAccessToken(t *testing.T) {
	manager := newTestManager()

	refresh, _, err := manager.GenerateRefreshToken(7, "user@example.com", model.RoleUser, 1)
	if err != nil {
		t.Fatalf("failed to generate refresh token: %v", err)
	}

	access, _, err := manager.RefreshAccessToken(refresh, 1)
	if err != nil {
		t.Fatalf("failed to refresh: %v", err)
	}

	claims, err := manager.ValidateToken(access)
	if err != nil {
		t.Fatalf("failed to validate refreshed token: %v", err)
	}
	if claims.TokenType != "access" {
		t.Errorf("expected an access token, got %q", claims.TokenType)
	}
	if claims.UserID != 7 {
		t.Errorf("expected user ID 7, got %d", claims.UserID)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	manager := newTestManager()

	access, _, err := manager.GenerateAccessToken(7, "user@example.com", model.RoleUser, 1)
	if err != nil {
		t.Fatalf("failed to generate access token: %v", err)
	}

	if _, _, err := manager.RefreshAccessToken(access, 1); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken when refreshing with an access token, got %v", err)
	}
}

func TestGetTokenExpiry(t *testing.T) {
	manager := newTestManager()

	before := time.Now()
	token, _, err := manager.GenerateAccessToken(1, "user@example.com", model.RoleUser, 0)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	expiry, err := manager.GetTokenExpiry(token)
	if err != nil {
		t.Fatalf("failed to read expiry: %v", err)
	}

	want := before.Add(time.Hour)
	if expiry.Before(want.Add(-time.Minute)) || expiry.After(want.Add(time.Minute)) {
		t.Errorf("expiry %v not within a minute of %v", expiry, want)
	}
}
