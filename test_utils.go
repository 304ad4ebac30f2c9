package main

import (
	"assetdesk-backend/controllers"
	"assetdesk-backend/models"
	"assetdesk-backend/routes"
	"assetdesk-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory test database. The connection pool is
// pinned to a single connection so every session sees the same in-memory
// store and writes serialize on it.
func setupTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("Failed to connect to test database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		panic("Failed to access test database pool")
	}
	sqlDB.SetMaxOpenConns(1)

	db.AutoMigrate(&models.User{}, &models.AssetType{}, &models.Asset{}, &models.CheckoutRecord{}, &models.CheckoutHistory{})
	return db
}

// createTestUsers seeds an admin, a manager and two employees reporting to
// the manager, returning them in that order
func createTestUsers(db *gorm.DB) (models.User, models.User, models.User, models.User) {
	hash, _ := utils.HashPassword("password123")

	admin := models.User{
		Name:         "Test Admin",
		Email:        "admin@test.com",
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	db.Create(&admin)

	manager := models.User{
		Name:         "Test Manager",
		Email:        "manager@test.com",
		PasswordHash: hash,
		Role:         models.RoleManager,
		IsActive:     true,
	}
	db.Create(&manager)

	employee := models.User{
		Name:         "Test Employee",
		Email:        "employee@test.com",
		PasswordHash: hash,
		Role:         models.RoleEmployee,
		ManagerID:    &manager.ID,
		IsActive:     true,
	}
	db.Create(&employee)

	employee2 := models.User{
		Name:         "Test Employee 2",
		Email:        "employee2@test.com",
		PasswordHash: hash,
		Role:         models.RoleEmployee,
		ManagerID:    &manager.ID,
		IsActive:     true,
	}
	db.Create(&employee2)

	return admin, manager, employee, employee2
}

// createTestAsset seeds one asset type and one fully available asset pool
func createTestAsset(db *gorm.DB, quantity int) models.Asset {
	assetType := models.AssetType{Name: "Test Laptop", Description: "Test"}
	db.Create(&assetType)

	asset := models.Asset{
		TypeID:            assetType.ID,
		Label:             "ThinkPad T14",
		Status:            models.AssetStatusAvailable,
		Quantity:          quantity,
		AvailableQuantity: quantity,
	}
	db.Create(&asset)
	return asset
}

// generateTestJWT creates a token for the given user
func generateTestJWT(user models.User) string {
	token, _ := utils.GenerateJWT(user.ID, user.Email, user.Role)
	return token
}

// createTestApp creates a Fiber application with all routes wired
func createTestApp(db *gorm.DB) *fiber.App {
	app := fiber.New()

	routes.SetupAuthRoutes(app, controllers.NewAuthController(db))
	routes.SetupCheckoutRoutes(app, controllers.NewCheckoutController(db))
	routes.SetupAssetRoutes(app, controllers.NewAssetController(db))
	routes.SetupAssetTypeRoutes(app, controllers.NewAssetTypeController(db))
	routes.SetupHistoryRoutes(app, controllers.NewHistoryController(db))
	routes.SetupAnalyticsRoutes(app, controllers.NewAnalyticsController(db))

	return app
}
