package main

import (
	"log"
	"os"
	"time"

	"assetdesk-backend/controllers"
	"assetdesk-backend/models"
	"assetdesk-backend/routes"
	"assetdesk-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func main() {
	// Database initialization
	db, err := models.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto migration
	db.AutoMigrate(&models.User{}, &models.AssetType{}, &models.Asset{}, &models.CheckoutRecord{}, &models.CheckoutHistory{})

	// Bootstrap data
	initDefaultAssetTypes(db)
	initDefaultAdmin(db)

	// Fiber application
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
				"code":    code,
			})
		},
	})

	// Middleware
	app.Use(logger.New())

	// CORS settings
	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000,http://127.0.0.1:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// Controllers
	authController := controllers.NewAuthController(db)
	checkoutController := controllers.NewCheckoutController(db)
	assetController := controllers.NewAssetController(db)
	assetTypeController := controllers.NewAssetTypeController(db)
	historyController := controllers.NewHistoryController(db)
	analyticsController := controllers.NewAnalyticsController(db)

	// Routes
	routes.SetupAuthRoutes(app, authController)
	routes.SetupCheckoutRoutes(app, checkoutController)
	routes.SetupAssetRoutes(app, assetController)
	routes.SetupAssetTypeRoutes(app, assetTypeController)
	routes.SetupHistoryRoutes(app, historyController)
	routes.SetupAnalyticsRoutes(app, analyticsController)

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"message":   "AssetDesk Backend is running",
			"timestamp": time.Now().Unix(),
		})
	})

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	log.Fatal(app.Listen(":" + port))
}

// initDefaultAssetTypes seeds the base asset categories
func initDefaultAssetTypes(db *gorm.DB) {
	defaultTypes := []models.AssetType{
		{Name: "Laptop", Description: "Portable workstations"},
		{Name: "Monitor", Description: "External displays"},
		{Name: "Keyboard", Description: "External keyboards"},
		{Name: "Mouse", Description: "Pointing devices"},
		{Name: "Headset", Description: "Audio headsets"},
		{Name: "Docking Station", Description: "Port replicators"},
		{Name: "Mobile Phone", Description: "Company phones"},
		{Name: "Projector", Description: "Meeting room projectors"},
	}

	var count int64
	db.Model(&models.AssetType{}).Count(&count)

	if count == 0 {
		log.Println("Seeding default asset types...")
		for _, assetType := range defaultTypes {
			if err := db.Create(&assetType).Error; err != nil {
				log.Printf("Failed to create asset type '%s': %v", assetType.Name, err)
			}
		}
		log.Println("Default asset types seeded")
	} else {
		log.Printf("Asset types already present (%d)", count)
	}
}

// initDefaultAdmin seeds the initial admin account so a fresh deployment can
// be administered. Password comes from ADMIN_PASSWORD, falling back to a dev
// default.
func initDefaultAdmin(db *gorm.DB) {
	var count int64
	db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)
	if count > 0 {
		return
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin-change-me"
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		log.Printf("Failed to hash default admin password: %v", err)
		return
	}

	admin := models.User{
		Name:         "Administrator",
		Email:        "admin@assetdesk.local",
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("Failed to create default admin: %v", err)
		return
	}
	log.Println("Default admin account created")
}
