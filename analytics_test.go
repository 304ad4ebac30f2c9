package main

import (
	"encoding/json"
	"fmt"
	"testing"

	"assetdesk-backend/models"
	"assetdesk-backend/services"

	"github.com/stretchr/testify/assert"
)

func TestAnalytics(t *testing.T) {
	db := setupTestDB()
	app := createTestApp(db)
	admin, manager, employee, employee2 := createTestUsers(db)
	asset := createTestAsset(db, 5)

	// One request left pending, one approved
	resp, _ := app.Test(authedRequest("POST", "/api/checkout",
		map[string]interface{}{"asset_id": asset.ID, "quantity": 1}, employee))
	assert.Equal(t, 201, resp.StatusCode)

	resp, _ = app.Test(authedRequest("POST", "/api/checkout",
		map[string]interface{}{"asset_id": asset.ID, "quantity": 2}, employee2))
	assert.Equal(t, 201, resp.StatusCode)

	var approved models.CheckoutRecord
	db.Where("user_id = ?", employee2.ID).First(&approved)
	resp, _ = app.Test(authedRequest("PATCH",
		fmt.Sprintf("/api/checkout/approve/%d", approved.ID), nil, manager))
	assert.Equal(t, 200, resp.StatusCode)

	t.Run("Admin payload", func(t *testing.T) {
		resp, err := app.Test(authedRequest("GET", "/api/analytics", nil, admin))
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var body struct {
			Success bool                    `json:"success"`
			Data    services.AdminAnalytics `json:"data"`
		}
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.True(t, body.Success)
		assert.Equal(t, models.RoleAdmin, body.Data.UserRole)
		assert.Equal(t, int64(1), body.Data.Managers)
		assert.Equal(t, int64(2), body.Data.Employees)
		assert.Equal(t, int64(5), body.Data.Assets.Total)
		assert.Equal(t, int64(5), body.Data.Assets.Available)
		assert.Equal(t, int64(1), body.Data.Requests.Pending)
		assert.Equal(t, int64(1), body.Data.Requests.Approved)
		assert.Equal(t, int64(0), body.Data.Requests.Closed)
	})

	t.Run("Manager payload is team scoped", func(t *testing.T) {
		resp, err := app.Test(authedRequest("GET", "/api/analytics", nil, manager))
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var body struct {
			Success bool                      `json:"success"`
			Data    services.ManagerAnalytics `json:"data"`
		}
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.True(t, body.Success)
		assert.Equal(t, models.RoleManager, body.Data.UserRole)
		assert.Equal(t, int64(2), body.Data.TeamEmployees)
		assert.Equal(t, int64(1), body.Data.ActiveAssets)
		assert.Equal(t, int64(1), body.Data.Requests.Pending)
		assert.Equal(t, int64(1), body.Data.Requests.Approved)
	})

	t.Run("Manager with no team gets zero counts", func(t *testing.T) {
		lone := models.User{
			Name:         "Lone Manager",
			Email:        "lone-manager@test.com",
			PasswordHash: "x",
			Role:         models.RoleManager,
			IsActive:     true,
		}
		db.Create(&lone)

		resp, _ := app.Test(authedRequest("GET", "/api/analytics", nil, lone))
		assert.Equal(t, 200, resp.StatusCode)

		var body struct {
			Success bool                      `json:"success"`
			Data    services.ManagerAnalytics `json:"data"`
		}
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, int64(0), body.Data.TeamEmployees)
		assert.Equal(t, int64(0), body.Data.ActiveAssets)
		assert.Equal(t, int64(0), body.Data.Requests.Pending)
	})

	t.Run("Employee gets an empty payload", func(t *testing.T) {
		resp, _ := app.Test(authedRequest("GET", "/api/analytics", nil, employee))
		assert.Equal(t, 200, resp.StatusCode)

		var body struct {
			Success bool        `json:"success"`
			Data    interface{} `json:"data"`
		}
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.True(t, body.Success)
		assert.Nil(t, body.Data)
	})
}
