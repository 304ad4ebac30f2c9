package controllers

import (
	"strconv"

	"assetdesk-backend/models"
	"assetdesk-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HistoryController handles the audit log read endpoints
type HistoryController struct {
	service *services.CheckoutService
}

// NewHistoryController creates a new HistoryController
func NewHistoryController(db *gorm.DB) *HistoryController {
	return &HistoryController{service: services.NewCheckoutService(db)}
}

// HistoryResponse is the response with audit entries
type HistoryResponse struct {
	Success bool                     `json:"success"`
	Message string                   `json:"message,omitempty"`
	Count   int                      `json:"count"`
	Entries []models.CheckoutHistory `json:"data"`
}

// GetHistory returns the audit entries visible to the caller
func (hc *HistoryController) GetHistory(c *fiber.Ctx) error {
	entries, err := hc.service.ListHistory(caller(c))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(HistoryResponse{
		Success: true,
		Count:   len(entries),
		Entries: entries,
	})
}

// CheckLogs is the filtered audit view for admins and managers
func (hc *HistoryController) CheckLogs(c *fiber.Ctx) error {
	managerID := queryID(c, "managerId")
	employeeID := queryID(c, "employeeId")

	entries, err := hc.service.CheckLogs(caller(c), managerID, employeeID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(HistoryResponse{
		Success: true,
		Count:   len(entries),
		Entries: entries,
	})
}

// queryID parses an optional numeric query parameter; absent or malformed
// values mean "no filter"
func queryID(c *fiber.Ctx, name string) uint {
	raw := c.Query(name)
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}
