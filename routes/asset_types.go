package routes

import (
	"assetdesk-backend/controllers"
	"assetdesk-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupAssetTypeRoutes wires the asset category endpoints
func SetupAssetTypeRoutes(app *fiber.App, typeController *controllers.AssetTypeController) {
	api := app.Group("/api")

	types := api.Group("/asset-types", utils.AuthMiddleware)
	types.Get("/", typeController.ListTypes)            // GET /api/asset-types - category catalog
	types.Post("/", typeController.AddType)             // POST /api/asset-types - add a category (admin)
	types.Delete("/:typeId", typeController.DeleteType) // DELETE /api/asset-types/:typeId - remove a category (admin)
}
