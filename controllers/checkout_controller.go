package controllers

import (
	"strconv"

	"assetdesk-backend/models"
	"assetdesk-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CheckoutController handles the checkout/return lifecycle endpoints
type CheckoutController struct {
	service *services.CheckoutService
}

// NewCheckoutController creates a new CheckoutController
func NewCheckoutController(db *gorm.DB) *CheckoutController {
	return &CheckoutController{service: services.NewCheckoutService(db)}
}

// CreateCheckoutRequest is the request body for a new checkout
type CreateCheckoutRequest struct {
	AssetID  uint `json:"asset_id"`
	Quantity int  `json:"quantity"`
}

// CheckoutResponse is the response with a single record
type CheckoutResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message,omitempty"`
	Record  *models.CheckoutRecord `json:"data,omitempty"`
}

// CheckoutsResponse is the response with a list of records
type CheckoutsResponse struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message,omitempty"`
	Count   int                     `json:"count"`
	Records []models.CheckoutRecord `json:"data"`
}

// CreateCheckout reserves units of an asset and opens a pending request
func (cc *CheckoutController) CreateCheckout(c *fiber.Ctx) error {
	var req CreateCheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(CheckoutResponse{
			Success: false,
			Message: "Invalid request body",
		})
	}

	if req.AssetID == 0 {
		return c.Status(400).JSON(CheckoutResponse{
			Success: false,
			Message: "asset_id & quantity required",
		})
	}

	record, err := cc.service.CreateCheckout(caller(c), req.AssetID, req.Quantity)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(201).JSON(CheckoutResponse{
		Success: true,
		Message: "Checkout requested",
		Record:  record,
	})
}

// ListCheckouts returns the records visible to the caller, optionally
// filtered by one or more status query parameters
func (cc *CheckoutController) ListCheckouts(c *fiber.Ctx) error {
	var statuses []string
	for _, v := range c.Context().QueryArgs().PeekMulti("status") {
		statuses = append(statuses, string(v))
	}

	records, err := cc.service.ListCheckouts(caller(c), statuses)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(CheckoutsResponse{
		Success: true,
		Count:   len(records),
		Records: records,
	})
}

// GetPending returns the caller's own pending requests
func (cc *CheckoutController) GetPending(c *fiber.Ctx) error {
	records, err := cc.service.ListPending(caller(c))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(CheckoutsResponse{
		Success: true,
		Count:   len(records),
		Records: records,
	})
}

// Approve moves a pending record to approved
func (cc *CheckoutController) Approve(c *fiber.Ctx) error {
	recordID, err := strconv.ParseUint(c.Params("recordId"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(CheckoutResponse{
			Success: false,
			Message: "Invalid record ID",
		})
	}

	record, err := cc.service.Approve(caller(c), uint(recordID))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(CheckoutResponse{
		Success: true,
		Message: "Asset approved successfully",
		Record:  record,
	})
}

// Reject moves a pending record to rejected and restores the stock
func (cc *CheckoutController) Reject(c *fiber.Ctx) error {
	recordID, err := strconv.ParseUint(c.Params("recordId"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(CheckoutResponse{
			Success: false,
			Message: "Invalid record ID",
		})
	}

	record, err := cc.service.Reject(caller(c), uint(recordID))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(CheckoutResponse{
		Success: true,
		Message: "Rejected successfully",
		Record:  record,
	})
}

// Cancel withdraws the caller's own pending request
func (cc *CheckoutController) Cancel(c *fiber.Ctx) error {
	recordID, err := strconv.ParseUint(c.Params("recordId"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(CheckoutResponse{
			Success: false,
			Message: "Invalid record ID",
		})
	}

	if err := cc.service.CancelPending(caller(c), uint(recordID)); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(CheckoutResponse{
		Success: true,
		Message: "Request cancelled successfully",
	})
}

// RequestReturn opens a return for an approved record
func (cc *CheckoutController) RequestReturn(c *fiber.Ctx) error {
	recordID, err := strconv.ParseUint(c.Params("recordId"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(CheckoutResponse{
			Success: false,
			Message: "Invalid record ID",
		})
	}

	record, err := cc.service.RequestReturn(caller(c), uint(recordID))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(CheckoutResponse{
		Success: true,
		Message: "Return requested",
		Record:  record,
	})
}

// CancelReturn withdraws a pending return and re-reserves the units
func (cc *CheckoutController) CancelReturn(c *fiber.Ctx) error {
	recordID, err := strconv.ParseUint(c.Params("recordId"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(CheckoutResponse{
			Success: false,
			Message: "Invalid record ID",
		})
	}

	record, err := cc.service.CancelReturn(caller(c), uint(recordID))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(CheckoutResponse{
		Success: true,
		Message: "Return request cancelled successfully",
		Record:  record,
	})
}

// CloseReturn settles a pending return. Registered for both the close and
// the approve route, which existing clients use interchangeably.
func (cc *CheckoutController) CloseReturn(c *fiber.Ctx) error {
	recordID, err := strconv.ParseUint(c.Params("recordId"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(CheckoutResponse{
			Success: false,
			Message: "Invalid record ID",
		})
	}

	record, err := cc.service.CloseReturn(caller(c), uint(recordID))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(CheckoutResponse{
		Success: true,
		Message: "Return approved & quantity restored",
		Record:  record,
	})
}

// MakeAvailable settles a rejected record as closed
func (cc *CheckoutController) MakeAvailable(c *fiber.Ctx) error {
	recordID, err := strconv.ParseUint(c.Params("recordId"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(CheckoutResponse{
			Success: false,
			Message: "Invalid record ID",
		})
	}

	record, err := cc.service.MakeAvailable(caller(c), uint(recordID))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(CheckoutResponse{
		Success: true,
		Message: "Asset quantity restored successfully",
		Record:  record,
	})
}
