// Package auth issues and verifies the signed tokens shared by the
// HTTP layer and the realtime connection gate.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sgmi/production-backend/internal/domain"
)

// Principal is the authenticated identity decoded from an access token.
type Principal struct {
	UserID string
	Role   domain.Role
}

// NewAccessToken signs an HS256 JWT carrying the user id as subject and
// the role as a custom claim.
func NewAccessToken(secret string, userID string, role domain.Role, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role.String(),
		"exp":  now.Add(ttl).Unix(),
		"iat":  now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// NewRefreshToken signs an HS256 JWT carrying only the subject, under
// the refresh secret.
func NewRefreshToken(secret string, userID string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": now.Add(ttl).Unix(),
		"iat": now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return signed, nil
}

// VerifyAccessToken validates the signature and expiry of an access
// token and returns the embedded principal. Any failure, including a
// missing or malformed token, yields ErrInvalidCredential.
func VerifyAccessToken(secret string, token string) (Principal, error) {
	claims, err := parseHS256(secret, token)
	if err != nil {
		return Principal{}, err
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return Principal{}, fmt.Errorf("%w: missing subject", domain.ErrInvalidCredential)
	}

	roleClaim, _ := claims["role"].(string)
	role, err := domain.ParseRoleFromString(roleClaim)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: missing or invalid role", domain.ErrInvalidCredential)
	}

	return Principal{UserID: sub, Role: role}, nil
}

// VerifyRefreshToken validates a refresh token and returns its subject.
func VerifyRefreshToken(secret string, token string) (string, error) {
	claims, err := parseHS256(secret, token)
	if err != nil {
		return "", err
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", fmt.Errorf("%w: missing subject", domain.ErrInvalidCredential)
	}
	return sub, nil
}

func parseHS256(secret string, token string) (jwt.MapClaims, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: token is required", domain.ErrInvalidCredential)
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCredential, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected claims", domain.ErrInvalidCredential)
	}
	return claims, nil
}
