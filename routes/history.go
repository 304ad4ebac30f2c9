package routes

import (
	"assetdesk-backend/controllers"
	"assetdesk-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupHistoryRoutes wires the audit log read endpoints
func SetupHistoryRoutes(app *fiber.App, historyController *controllers.HistoryController) {
	api := app.Group("/api")

	api.Get("/checkout/history", utils.AuthMiddleware, historyController.GetHistory) // GET /api/checkout/history - role-scoped audit view
	api.Get("/logs", utils.AuthMiddleware, historyController.CheckLogs)              // GET /api/logs?managerId=&employeeId= - filtered audit view
}
