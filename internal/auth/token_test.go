package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/sgmi/production-backend/internal/domain"
)

const testSecret = "test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Parallel()

	token, err := NewAccessToken(testSecret, "user-1", domain.RoleOperator, 15*time.Minute)
	if err != nil {
		t.Fatalf("NewAccessToken() error = %v", err)
	}

	principal, err := VerifyAccessToken(testSecret, token)
	if err != nil {
		t.Fatalf("VerifyAccessToken() error = %v", err)
	}
	if principal.UserID != "user-1" {
		t.Fatalf("UserID = %s, want user-1", principal.UserID)
	}
	if principal.Role != domain.RoleOperator {
		t.Fatalf("Role = %s, want OPERATOR", principal.Role)
	}
}

func TestVerifyAccessTokenRejectsExpired(t *testing.T) {
	t.Parallel()

	token, err := NewAccessToken(testSecret, "user-1", domain.RoleDirector, -time.Minute)
	if err != nil {
		t.Fatalf("NewAccessToken() error = %v", err)
	}

	if _, err := VerifyAccessToken(testSecret, token); !errors.Is(err, domain.ErrInvalidCredential) {
		t.Fatalf("error = %v, want ErrInvalidCredential", err)
	}
}

func TestVerifyAccessTokenRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	token, err := NewAccessToken(testSecret, "user-1", domain.RoleManager, time.Minute)
	if err != nil {
		t.Fatalf("NewAccessToken() error = %v", err)
	}

	if _, err := VerifyAccessToken("other-secret", token); !errors.Is(err, domain.ErrInvalidCredential) {
		t.Fatalf("error = %v, want ErrInvalidCredential", err)
	}
}

func TestVerifyAccessTokenRejectsMissingOrGarbage(t *testing.T) {
	t.Parallel()

	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := VerifyAccessToken(testSecret, tok); !errors.Is(err, domain.ErrInvalidCredential) {
			t.Fatalf("VerifyAccessToken(%q) error = %v, want ErrInvalidCredential", tok, err)
		}
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	t.Parallel()

	token, err := NewRefreshToken("refresh-secret", "user-7", 24*time.Hour)
	if err != nil {
		t.Fatalf("NewRefreshToken() error = %v", err)
	}

	sub, err := VerifyRefreshToken("refresh-secret", token)
	if err != nil {
		t.Fatalf("VerifyRefreshToken() error = %v", err)
	}
	if sub != "user-7" {
		t.Fatalf("subject = %s, want user-7", sub)
	}

	// The access secret must not validate a refresh token.
	if _, err := VerifyRefreshToken(testSecret, token); !errors.Is(err, domain.ErrInvalidCredential) {
		t.Fatalf("cross-secret error = %v, want ErrInvalidCredential", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if !CheckPassword("s3cret", hash) {
		t.Fatal("CheckPassword should accept the original password")
	}
	if CheckPassword("wrong", hash) {
		t.Fatal("CheckPassword should reject a wrong password")
	}
}
