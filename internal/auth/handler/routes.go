package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func RegisterRoutes(app *fiber.App, h *AuthHandler) {
	app.Use(requestid.New())
	app.Use(h.AccessLog())
	app.Use(recover.New())

	app.Get("/healthz", h.Health)
	app.Post("/auth", h.Login)

	app.Get("/auth/profile", h.RequireAuth(), h.GetProfile)
	app.Put("/auth/profile", h.RequireAuth(), h.UpdateProfile)
}
