package routes

import (
	"assetdesk-backend/controllers"
	"assetdesk-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupCheckoutRoutes wires the checkout/return lifecycle endpoints
func SetupCheckoutRoutes(app *fiber.App, checkoutController *controllers.CheckoutController) {
	api := app.Group("/api")

	checkout := api.Group("/checkout", utils.AuthMiddleware)
	checkout.Post("/", checkoutController.CreateCheckout)   // POST /api/checkout - request units of an asset
	checkout.Get("/", checkoutController.ListCheckouts)     // GET /api/checkout?status=... - role-scoped record list
	checkout.Get("/pending", checkoutController.GetPending) // GET /api/checkout/pending - own pending requests

	checkout.Patch("/approve/:recordId", checkoutController.Approve)                // PATCH - approve a pending request
	checkout.Patch("/reject/:recordId", checkoutController.Reject)                  // PATCH - reject a pending request
	checkout.Patch("/reject/available/:recordId", checkoutController.MakeAvailable) // PATCH - settle a rejected record
	checkout.Patch("/cancel/:recordId", checkoutController.Cancel)                  // PATCH - withdraw own pending request

	checkout.Patch("/return/request/:recordId", checkoutController.RequestReturn) // PATCH - open a return
	checkout.Patch("/return/cancel/:recordId", checkoutController.CancelReturn)   // PATCH - withdraw a pending return
	checkout.Patch("/return/close/:recordId", checkoutController.CloseReturn)     // PATCH - settle a pending return
	checkout.Patch("/return/approve/:recordId", checkoutController.CloseReturn)   // PATCH - legacy alias of close
}
