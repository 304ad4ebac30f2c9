package routes

import (
	"assetdesk-backend/controllers"
	"assetdesk-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupAssetRoutes wires the asset management endpoints
func SetupAssetRoutes(app *fiber.App, assetController *controllers.AssetController) {
	api := app.Group("/api")

	assets := api.Group("/assets", utils.AuthMiddleware)
	assets.Get("/", assetController.GetAssets)              // GET /api/assets - list all assets
	assets.Get("/:assetId", assetController.GetAsset)       // GET /api/assets/:assetId - single asset
	assets.Post("/", assetController.AddAsset)              // POST /api/assets - register an asset (admin)
	assets.Patch("/:assetId", assetController.UpdateAsset)  // PATCH /api/assets/:assetId - field-level update (admin)
	assets.Delete("/:assetId", assetController.DeleteAsset) // DELETE /api/assets/:assetId - remove an asset (admin)
}
