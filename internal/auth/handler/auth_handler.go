package handler

import (
	"github.com/AnthoniusHendriyanto/realm-auth/internal/auth/dto"
	"github.com/AnthoniusHendriyanto/realm-auth/internal/auth/service"
	autherror "github.com/AnthoniusHendriyanto/realm-auth/internal/errors"
	"github.com/AnthoniusHendriyanto/realm-auth/internal/logging"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	userService    *service.UserService
	profileService *service.ProfileService
	gate           *service.Gate
	logger         logging.Logger
}

func NewAuthHandler(userService *service.UserService, profileService *service.ProfileService,
	gate *service.Gate, logger logging.Logger) *AuthHandler {
	return &AuthHandler{
		userService:    userService,
		profileService: profileService,
		gate:           gate,
		logger:         logger,
	}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	input.IPAddress = c.IP()

	token, err := h.userService.Login(c.UserContext(), input)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(token)
}

func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	identity, ok := IdentityFrom(c)
	if !ok {
		return h.writeError(c, autherror.ErrUnauthenticated)
	}

	user, err := h.profileService.GetProfile(c.UserContext(), identity)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.ProfileResponse{User: user})
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	identity, ok := IdentityFrom(c)
	if !ok {
		return h.writeError(c, autherror.ErrUnauthenticated)
	}

	var input dto.ProfileInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	if _, err := h.profileService.UpdateProfile(c.UserContext(), identity, input); err != nil {
		return h.writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.UpdateProfileResponse{Success: true})
}

func (h *AuthHandler) Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
}
