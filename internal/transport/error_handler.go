package transport

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sgmi/production-backend/internal/domain"
	"github.com/sgmi/production-backend/internal/observability"
	"go.uber.org/zap"
)

// ErrorHandler is the fiber app error handler: domain sentinels map to
// their HTTP status, explicit fiber errors keep their code, everything
// else is a 500.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := statusFromError(err)

		observability.WithContextLogger(logger, c.UserContext()).Error("request error",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		return c.Status(code).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
}

func statusFromError(err error) int {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}

	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrUnknownAction):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredential):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrPlanNotFound),
		errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateBatchNumber),
		errors.Is(err, domain.ErrEmailTaken):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
