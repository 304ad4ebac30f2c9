package routes

import (
	"assetdesk-backend/controllers"
	"assetdesk-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupAnalyticsRoutes wires the dashboard aggregate endpoint
func SetupAnalyticsRoutes(app *fiber.App, analyticsController *controllers.AnalyticsController) {
	api := app.Group("/api")

	api.Get("/analytics", utils.AuthMiddleware, analyticsController.GetAnalytics) // GET /api/analytics - role-dependent counts
}
