package handler

import (
	"errors"
	"time"

	"github.com/AnthoniusHendriyanto/realm-auth/internal/auth/domain"
	"github.com/gofiber/fiber/v2"
)

const identityKey = "auth.identity"

// RequireAuth rejects the request unless the Authorization header carries a
// valid token. The resolved identity is kept in the request locals and
// dropped with the request.
func (h *AuthHandler) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, err := h.gate.Authorize(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return h.writeError(c, err)
		}
		c.Locals(identityKey, *identity)
		return c.Next()
	}
}

// IdentityFrom returns the identity RequireAuth attached to this request.
func IdentityFrom(c *fiber.Ctx) (domain.Identity, bool) {
	identity, ok := c.Locals(identityKey).(domain.Identity)
	return identity, ok
}

// AccessLog logs one line per request. Headers and bodies are never logged.
func (h *AuthHandler) AccessLog() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		h.logger.Info(c.UserContext(), "request",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency", time.Since(start).String(),
			"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
		)
		return err
	}
}
