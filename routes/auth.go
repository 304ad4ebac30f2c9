package routes

import (
	"assetdesk-backend/controllers"

	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes wires the token-issuing endpoint
func SetupAuthRoutes(app *fiber.App, authController *controllers.AuthController) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/login", authController.Login) // POST /api/auth/login - exchange credentials for a token
}
