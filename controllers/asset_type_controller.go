package controllers

import (
	"strconv"

	"assetdesk-backend/models"
	"assetdesk-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AssetTypeController handles the asset category endpoints
type AssetTypeController struct {
	service *services.AssetService
}

// NewAssetTypeController creates a new AssetTypeController
func NewAssetTypeController(db *gorm.DB) *AssetTypeController {
	return &AssetTypeController{service: services.NewAssetService(db)}
}

// AddTypeRequest is the request body for a new asset category
type AddTypeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AssetTypeResponse is the response with a single category
type AssetTypeResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Type    *models.AssetType `json:"data,omitempty"`
}

// AssetTypesResponse is the response with a list of categories
type AssetTypesResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message,omitempty"`
	Count   int                `json:"count"`
	Types   []models.AssetType `json:"data"`
}

// ListTypes returns all asset categories
func (tc *AssetTypeController) ListTypes(c *fiber.Ctx) error {
	types, err := tc.service.ListTypes()
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(AssetTypesResponse{
		Success: true,
		Count:   len(types),
		Types:   types,
	})
}

// AddType registers a new asset category
func (tc *AssetTypeController) AddType(c *fiber.Ctx) error {
	var req AddTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(AssetTypeResponse{
			Success: false,
			Message: "Invalid request body",
		})
	}

	if req.Name == "" {
		return c.Status(400).JSON(AssetTypeResponse{
			Success: false,
			Message: "name required",
		})
	}

	assetType, err := tc.service.CreateType(caller(c), req.Name, req.Description)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(201).JSON(AssetTypeResponse{
		Success: true,
		Type:    assetType,
	})
}

// DeleteType removes an asset category
func (tc *AssetTypeController) DeleteType(c *fiber.Ctx) error {
	typeID, err := strconv.ParseUint(c.Params("typeId"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(AssetTypeResponse{
			Success: false,
			Message: "Invalid type ID",
		})
	}

	if err := tc.service.DeleteType(caller(c), uint(typeID)); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(AssetTypeResponse{
		Success: true,
		Message: "Asset type deleted",
	})
}
