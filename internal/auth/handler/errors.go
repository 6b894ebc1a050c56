package handler

import (
	"errors"

	autherror "github.com/AnthoniusHendriyanto/realm-auth/internal/errors"
	"github.com/gofiber/fiber/v2"
)

// writeError is the single place where core errors become HTTP responses.
func (h *AuthHandler) writeError(c *fiber.Ctx, err error) error {
	var verr *autherror.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "ValidationError",
			"message": verr.Error(),
			"details": verr.Violations,
		})
	case errors.Is(err, autherror.ErrInvalidCredentials):
		c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "InvalidCredentials"})
	case errors.Is(err, autherror.ErrUnauthenticated):
		c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthenticated"})
	case errors.Is(err, autherror.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, autherror.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "NotFound"})
	case errors.Is(err, autherror.ErrTooManyLoginAttempts):
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "TooManyLoginAttempts"})
	default:
		h.logger.Error(c.UserContext(), "request failed", "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "InternalServerError"})
	}
}
