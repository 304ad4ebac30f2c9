package controllers

import (
	"assetdesk-backend/models"
	"assetdesk-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AnalyticsController handles the dashboard aggregate endpoint
type AnalyticsController struct {
	service *services.AnalyticsService
}

// NewAnalyticsController creates a new AnalyticsController
func NewAnalyticsController(db *gorm.DB) *AnalyticsController {
	return &AnalyticsController{service: services.NewAnalyticsService(db)}
}

// AnalyticsResponse wraps the role-dependent analytics payload
type AnalyticsResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// GetAnalytics returns the dashboard counts for the caller's role.
// Employees get an empty payload; their dashboard shows no aggregates.
func (ac *AnalyticsController) GetAnalytics(c *fiber.Ctx) error {
	who := caller(c)

	switch who.Role {
	case models.RoleAdmin:
		payload, err := ac.service.ForAdmin(who)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(AnalyticsResponse{Success: true, Data: payload})
	case models.RoleManager:
		payload, err := ac.service.ForManager(who)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(AnalyticsResponse{Success: true, Data: payload})
	default:
		return c.JSON(AnalyticsResponse{Success: true, Data: nil})
	}
}
