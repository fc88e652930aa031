package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sgmi/production-backend/internal/auth"
	"github.com/sgmi/production-backend/internal/domain"
	"github.com/sgmi/production-backend/internal/repository"
	"go.uber.org/zap"
)

const minPasswordLength = 6

// TokenPair is the access/refresh token bundle issued at login and
// refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService handles registration, credential checks and token
// issuance. Login failures never reveal whether the email exists.
type AuthService struct {
	users         repository.UserRepository
	accessSecret  string
	refreshSecret string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	logger        *zap.Logger
}

func NewAuthService(
	users repository.UserRepository,
	accessSecret string,
	refreshSecret string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
	logger *zap.Logger,
) (*AuthService, error) {
	if users == nil {
		return nil, fmt.Errorf("auth service requires a user repository")
	}
	if accessSecret == "" || refreshSecret == "" {
		return nil, fmt.Errorf("auth service requires signing secrets")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &AuthService{
		users:         users,
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		logger:        logger,
	}, nil
}

func (s *AuthService) Register(ctx context.Context, name string, email string, password string, role domain.Role) (*domain.User, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}

	user := &domain.User{
		ID:    uuid.NewString(),
		Name:  strings.TrimSpace(name),
		Email: strings.ToLower(strings.TrimSpace(email)),
		Role:  role,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("userId", user.ID),
		zap.String("role", user.Role.String()),
	)
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email string, password string) (*domain.User, TokenPair, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, TokenPair{}, domain.ErrInvalidCredential
	}
	if err != nil {
		return nil, TokenPair{}, err
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, TokenPair{}, domain.ErrInvalidCredential
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a fresh pair. The user
// is re-read so a role change takes effect on the next access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	userID, err := auth.VerifyRefreshToken(s.refreshSecret, refreshToken)
	if err != nil {
		return TokenPair{}, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return TokenPair{}, domain.ErrInvalidCredential
	}
	if err != nil {
		return TokenPair{}, err
	}

	return s.issuePair(user)
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	return s.users.GetByID(ctx, userID)
}

func (s *AuthService) issuePair(user *domain.User) (TokenPair, error) {
	access, err := auth.NewAccessToken(s.accessSecret, user.ID, user.Role, s.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := auth.NewRefreshToken(s.refreshSecret, user.ID, s.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
