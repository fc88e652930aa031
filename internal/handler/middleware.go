package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sgmi/production-backend/internal/auth"
	"github.com/sgmi/production-backend/internal/domain"
	"github.com/sgmi/production-backend/internal/observability"
	"github.com/sgmi/production-backend/internal/ratelimit"
	"go.uber.org/zap"
)

const (
	principalKey    = "principal"
	requestIDHeader = "X-Request-Id"
)

// RequestID assigns every request an identifier, echoes it in the
// response header, and stamps it into the user context so error logs
// can be tied back to the response the client saw. An identifier sent
// by the client is kept.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := strings.TrimSpace(c.Get(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(requestIDHeader, requestID)
		c.SetUserContext(observability.WithRequestID(c.UserContext(), requestID))
		return c.Next()
	}
}

// RequireAuth verifies the bearer token and attaches the principal to
// the request context.
func RequireAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		principal, err := auth.VerifyAccessToken(secret, strings.TrimSpace(token))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// RequireRoles guards a route to the given roles. It must run after
// RequireAuth.
func RequireRoles(roles ...domain.Role) fiber.Handler {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromCtx(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}
		if _, ok := allowed[principal.Role]; !ok {
			return fiber.NewError(fiber.StatusForbidden, "insufficient role")
		}
		return c.Next()
	}
}

// PrincipalFromCtx returns the principal attached by RequireAuth.
func PrincipalFromCtx(c *fiber.Ctx) (auth.Principal, bool) {
	principal, ok := c.Locals(principalKey).(auth.Principal)
	return principal, ok
}

// RateLimit throttles by client IP. Limiter errors fail open: a Redis
// outage must not take the auth endpoints down with it.
func RateLimit(limiter ratelimit.RateLimiter, keyPrefix string, logger *zap.Logger) fiber.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *fiber.Ctx) error {
		allowed, err := limiter.Allow(c.Context(), keyPrefix+":"+c.IP())
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.Error(err))
			return c.Next()
		}
		if !allowed {
			return fiber.NewError(fiber.StatusTooManyRequests, "too many requests")
		}
		return c.Next()
	}
}
