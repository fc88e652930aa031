package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sgmi/production-backend/internal/domain"
	"github.com/sgmi/production-backend/internal/service"
)

type AuthService interface {
	Register(ctx context.Context, name string, email string, password string, role domain.Role) (*domain.User, error)
	Login(ctx context.Context, email string, password string) (*domain.User, service.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (service.TokenPair, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
}

type AuthHandler struct {
	service AuthService
}

func NewAuthHandler(service AuthService) (*AuthHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("auth service is required")
	}
	return &AuthHandler{service: service}, nil
}

// RegisterAuthRoutes mounts the auth endpoints. The credential
// endpoints sit behind the rate limiter; profile requires a token.
func RegisterAuthRoutes(router fiber.Router, service AuthService, limit fiber.Handler, requireAuth fiber.Handler) error {
	h, err := NewAuthHandler(service)
	if err != nil {
		return err
	}

	group := router.Group("/auth")
	group.Post("/register", limit, h.Register)
	group.Post("/login", limit, h.Login)
	group.Post("/refresh", limit, h.Refresh)
	group.Get("/profile", requireAuth, h.Profile)

	return nil
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type loginResponse struct {
	User   userResponse      `json:"user"`
	Tokens tokenPairResponse `json:"tokens"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	role, err := domain.ParseRoleFromString(req.Role)
	if err != nil {
		return err
	}

	user, err := h.service.Register(c.Context(), req.Name, req.Email, req.Password, role)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(toUserResponse(user))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	user, pair, err := h.service.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(loginResponse{
		User: toUserResponse(user),
		Tokens: tokenPairResponse{
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
		},
	})
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	pair, err := h.service.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	principal, ok := PrincipalFromCtx(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
	}

	user, err := h.service.Profile(c.Context(), principal.UserID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(toUserResponse(user))
}

func toUserResponse(u *domain.User) userResponse {
	if u == nil {
		return userResponse{}
	}
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role.String(),
		CreatedAt: u.CreatedAt,
	}
}
