package controllers

import (
	"strconv"

	"assetdesk-backend/models"
	"assetdesk-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AssetController handles the admin-side asset management endpoints
type AssetController struct {
	service *services.AssetService
}

// NewAssetController creates a new AssetController
func NewAssetController(db *gorm.DB) *AssetController {
	return &AssetController{service: services.NewAssetService(db)}
}

// AddAssetRequest is the request body for registering a new asset
type AddAssetRequest struct {
	Label    string `json:"label"`
	TypeID   uint   `json:"type_id"`
	Status   string `json:"status"`
	Quantity int    `json:"quantity"`
	ImageURL string `json:"image_url"`
}

// AssetResponse is the response with a single asset
type AssetResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	Asset   *models.Asset `json:"data,omitempty"`
}

// AssetsResponse is the response with a list of assets
type AssetsResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Count   int            `json:"count"`
	Assets  []models.Asset `json:"data"`
}

// AddAsset registers a new asset pool
func (ac *AssetController) AddAsset(c *fiber.Ctx) error {
	var req AddAssetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(AssetResponse{
			Success: false,
			Message: "Invalid request body",
		})
	}

	if req.Label == "" || req.TypeID == 0 {
		return c.Status(400).JSON(AssetResponse{
			Success: false,
			Message: "label and type_id required",
		})
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	asset, err := ac.service.CreateAsset(caller(c), req.Label, req.TypeID, req.Status, req.Quantity, req.ImageURL)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(201).JSON(AssetResponse{
		Success: true,
		Asset:   asset,
	})
}

// UpdateAsset applies a field-level update to an asset
func (ac *AssetController) UpdateAsset(c *fiber.Ctx) error {
	assetID, err := strconv.ParseUint(c.Params("assetId"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(AssetResponse{
			Success: false,
			Message: "Invalid asset ID",
		})
	}

	var update services.AssetUpdate
	if err := c.BodyParser(&update); err != nil {
		return c.Status(400).JSON(AssetResponse{
			Success: false,
			Message: "Invalid request body",
		})
	}

	if update.Empty() {
		return c.Status(400).JSON(AssetResponse{
			Success: false,
			Message: "No fields to update",
		})
	}

	asset, err := ac.service.UpdateAsset(caller(c), uint(assetID), update)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(AssetResponse{
		Success: true,
		Asset:   asset,
	})
}

// DeleteAsset removes an asset pool
func (ac *AssetController) DeleteAsset(c *fiber.Ctx) error {
	assetID, err := strconv.ParseUint(c.Params("assetId"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(AssetResponse{
			Success: false,
			Message: "Invalid asset ID",
		})
	}

	if err := ac.service.DeleteAsset(caller(c), uint(assetID)); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(AssetResponse{
		Success: true,
		Message: "Asset deleted",
	})
}

// GetAsset returns one asset
func (ac *AssetController) GetAsset(c *fiber.Ctx) error {
	assetID, err := strconv.ParseUint(c.Params("assetId"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(AssetResponse{
			Success: false,
			Message: "Invalid asset ID",
		})
	}

	asset, err := ac.service.GetAsset(uint(assetID))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(AssetResponse{
		Success: true,
		Asset:   asset,
	})
}

// GetAssets returns all assets
func (ac *AssetController) GetAssets(c *fiber.Ctx) error {
	assets, err := ac.service.ListAssets()
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(AssetsResponse{
		Success: true,
		Count:   len(assets),
		Assets:  assets,
	})
}
