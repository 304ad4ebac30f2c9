package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"assetdesk-backend/models"

	"github.com/stretchr/testify/assert"
)

// authedRequest builds a JSON request carrying the user's token
func authedRequest(method, target string, body interface{}, user models.User) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+generateTestJWT(user))
	return req
}

func TestCheckoutLifecycle(t *testing.T) {
	db := setupTestDB()
	app := createTestApp(db)
	_, manager, employee, _ := createTestUsers(db)
	asset := createTestAsset(db, 5)

	var recordID uint

	t.Run("Create checkout reserves quantity", func(t *testing.T) {
		resp, err := app.Test(authedRequest("POST", "/api/checkout",
			map[string]interface{}{"asset_id": asset.ID, "quantity": 3}, employee))
		assert.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)

		var record models.CheckoutRecord
		err = db.Where("asset_id = ? AND user_id = ?", asset.ID, employee.ID).First(&record).Error
		assert.NoError(t, err)
		assert.Equal(t, models.CheckoutStatusPending, record.Status)
		assert.Equal(t, 3, record.Quantity)
		recordID = record.ID

		var reloaded models.Asset
		db.First(&reloaded, asset.ID)
		assert.Equal(t, 2, reloaded.AvailableQuantity)
	})

	t.Run("Approve keeps quantity and appends history", func(t *testing.T) {
		resp, err := app.Test(authedRequest("PATCH",
			fmt.Sprintf("/api/checkout/approve/%d", recordID), nil, manager))
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var record models.CheckoutRecord
		db.First(&record, recordID)
		assert.Equal(t, models.CheckoutStatusApproved, record.Status)

		// No second deduction at approve time
		var reloaded models.Asset
		db.First(&reloaded, asset.ID)
		assert.Equal(t, 2, reloaded.AvailableQuantity)
	})

	t.Run("Return request releases quantity immediately", func(t *testing.T) {
		resp, err := app.Test(authedRequest("PATCH",
			fmt.Sprintf("/api/checkout/return/request/%d", recordID), nil, employee))
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var record models.CheckoutRecord
		db.First(&record, recordID)
		assert.Equal(t, models.CheckoutStatusReturnRequested, record.Status)
		assert.NotNil(t, record.ReturnDate)

		var reloaded models.Asset
		db.First(&reloaded, asset.ID)
		assert.Equal(t, 5, reloaded.AvailableQuantity)
	})

	t.Run("Close return does not credit twice", func(t *testing.T) {
		resp, err := app.Test(authedRequest("PATCH",
			fmt.Sprintf("/api/checkout/return/close/%d", recordID), nil, manager))
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var record models.CheckoutRecord
		db.First(&record, recordID)
		assert.Equal(t, models.CheckoutStatusClosed, record.Status)
		assert.NotNil(t, record.ReturnDate)

		var reloaded models.Asset
		db.First(&reloaded, asset.ID)
		assert.Equal(t, 5, reloaded.AvailableQuantity)
	})

	t.Run("One history row per transition", func(t *testing.T) {
		var entries []models.CheckoutHistory
		db.Where("record_id = ?", recordID).Order("action_date ASC").Find(&entries)
		assert.Len(t, entries, 3)
		assert.Equal(t, models.CheckoutStatusApproved, entries[0].ActionType)
		assert.Equal(t, models.CheckoutStatusReturnRequested, entries[1].ActionType)
		assert.Equal(t, models.CheckoutStatusClosed, entries[2].ActionType)
	})
}

func TestApproveTwiceFails(t *testing.T) {
	db := setupTestDB()
	app := createTestApp(db)
	_, manager, employee, _ := createTestUsers(db)
	asset := createTestAsset(db, 5)

	resp, _ := app.Test(authedRequest("POST", "/api/checkout",
		map[string]interface{}{"asset_id": asset.ID, "quantity": 2}, employee))
	assert.Equal(t, 201, resp.StatusCode)

	var record models.CheckoutRecord
	db.Where("user_id = ?", employee.ID).First(&record)

	resp, _ = app.Test(authedRequest("PATCH",
		fmt.Sprintf("/api/checkout/approve/%d", record.ID), nil, manager))
	assert.Equal(t, 200, resp.StatusCode)

	// Second approval must fail without touching the ledger
	resp, _ = app.Test(authedRequest("PATCH",
		fmt.Sprintf("/api/checkout/approve/%d", record.ID), nil, manager))
	assert.Equal(t, 400, resp.StatusCode)

	var reloaded models.Asset
	db.First(&reloaded, asset.ID)
	assert.Equal(t, 3, reloaded.AvailableQuantity)

	var count int64
	db.Model(&models.CheckoutHistory{}).Where("record_id = ?", record.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRejectRestoresStock(t *testing.T) {
	db := setupTestDB()
	app := createTestApp(db)
	_, manager, employee, _ := createTestUsers(db)
	asset := createTestAsset(db, 2)

	// Reserve the whole pool
	resp, _ := app.Test(authedRequest("POST", "/api/checkout",
		map[string]interface{}{"asset_id": asset.ID, "quantity": 2}, employee))
	assert.Equal(t, 201, resp.StatusCode)

	var reloaded models.Asset
	db.First(&reloaded, asset.ID)
	assert.Equal(t, 0, reloaded.AvailableQuantity)
	assert.Equal(t, models.AssetStatusPending, reloaded.Status)

	var record models.CheckoutRecord
	db.Where("user_id = ?", employee.ID).First(&record)

	resp, _ = app.Test(authedRequest("PATCH",
		fmt.Sprintf("/api/checkout/reject/%d", record.ID), nil, manager))
	assert.Equal(t, 200, resp.StatusCode)

	db.First(&record, record.ID)
	assert.Equal(t, models.CheckoutStatusRejected, record.Status)

	db.First(&reloaded, asset.ID)
	assert.Equal(t, 2, reloaded.AvailableQuantity)
	assert.Equal(t, models.AssetStatusAvailable, reloaded.Status)

	// The audit trail records the rejection and no approval
	var entries []models.CheckoutHistory
	db.Where("record_id = ?", record.ID).Find(&entries)
	assert.Len(t, entries, 1)
	assert.Equal(t, models.CheckoutStatusRejected, entries[0].ActionType)
}

func TestCreateCheckoutValidation(t *testing.T) {
	db := setupTestDB()
	app := createTestApp(db)
	admin, _, employee, _ := createTestUsers(db)
	asset := createTestAsset(db, 5)

	t.Run("Zero quantity fails before touching the ledger", func(t *testing.T) {
		resp, _ := app.Test(authedRequest("POST", "/api/checkout",
			map[string]interface{}{"asset_id": asset.ID, "quantity": 0}, employee))
		assert.Equal(t, 400, resp.StatusCode)

		var reloaded models.Asset
		db.First(&reloaded, asset.ID)
		assert.Equal(t, 5, reloaded.AvailableQuantity)
	})

	t.Run("Negative quantity fails", func(t *testing.T) {
		resp, _ := app.Test(authedRequest("POST", "/api/checkout",
			map[string]interface{}{"asset_id": asset.ID, "quantity": -3}, employee))
		assert.Equal(t, 400, resp.StatusCode)
	})

	t.Run("Admins cannot request assets", func(t *testing.T) {
		resp, _ := app.Test(authedRequest("POST", "/api/checkout",
			map[string]interface{}{"asset_id": asset.ID, "quantity": 1}, admin))
		assert.Equal(t, 403, resp.StatusCode)
	})

	t.Run("Missing asset fails", func(t *testing.T) {
		resp, _ := app.Test(authedRequest("POST", "/api/checkout",
			map[string]interface{}{"asset_id": 9999, "quantity": 1}, employee))
		assert.Equal(t, 404, resp.StatusCode)
	})

	t.Run("Requesting more than available fails", func(t *testing.T) {
		resp, _ := app.Test(authedRequest("POST", "/api/checkout",
			map[string]interface{}{"asset_id": asset.ID, "quantity": 6}, employee))
		assert.Equal(t, 400, resp.StatusCode)
	})

	t.Run("Unauthenticated request fails", func(t *testing.T) {
		body, _ := json.Marshal(map[string]interface{}{"asset_id": asset.ID, "quantity": 1})
		req := httptest.NewRequest("POST", "/api/checkout", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)
		assert.Equal(t, 401, resp.StatusCode)
	})
}

func TestCancelPending(t *testing.T) {
	db := setupTestDB()
	app := createTestApp(db)
	_, _, employee, employee2 := createTestUsers(db)
	asset := createTestAsset(db, 5)

	resp, _ := app.Test(authedRequest("POST", "/api/checkout",
		map[string]interface{}{"asset_id": asset.ID, "quantity": 2}, employee))
	assert.Equal(t, 201, resp.StatusCode)

	var record models.CheckoutRecord
	db.Where("user_id = ?", employee.ID).First(&record)

	t.Run("Only the owner can cancel", func(t *testing.T) {
		resp, _ := app.Test(authedRequest("PATCH",
			fmt.Sprintf("/api/checkout/cancel/%d", record.ID), nil, employee2))
		assert.Equal(t, 403, resp.StatusCode)
	})

	t.Run("Cancel restores stock and deletes the record", func(t *testing.T) {
		resp, _ := app.Test(authedRequest("PATCH",
			fmt.Sprintf("/api/checkout/cancel/%d", record.ID), nil, employee))
		assert.Equal(t, 200, resp.StatusCode)

		var reloaded models.Asset
		db.First(&reloaded, asset.ID)
		assert.Equal(t, 5, reloaded.AvailableQuantity)

		var count int64
		db.Model(&models.CheckoutRecord{}).Where("id = ?", record.ID).Count(&count)
		assert.Equal(t, int64(0), count)

		db.Model(&models.CheckoutHistory{}).Where("record_id = ?", record.ID).Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("Cancel of a processed record fails", func(t *testing.T) {
		resp, _ := app.Test(authedRequest("PATCH",
			fmt.Sprintf("/api/checkout/cancel/%d", record.ID), nil, employee))
		assert.Equal(t, 404, resp.StatusCode)
	})
}

func TestMakeAvailableDoesNotDoubleRelease(t *testing.T) {
	db := setupTestDB()
	app := createTestApp(db)
	_, manager, employee, _ := createTestUsers(db)
	asset := createTestAsset(db, 5)

	resp, _ := app.Test(authedRequest("POST", "/api/checkout",
		map[string]interface{}{"asset_id": asset.ID, "quantity": 2}, employee))
	assert.Equal(t, 201, resp.StatusCode)

	var record models.CheckoutRecord
	db.Where("user_id = ?", employee.ID).First(&record)

	resp, _ = app.Test(authedRequest("PATCH",
		fmt.Sprintf("/api/checkout/reject/%d", record.ID), nil, manager))
	assert.Equal(t, 200, resp.StatusCode)

	var reloaded models.Asset
	db.First(&reloaded, asset.ID)
	assert.Equal(t, 5, reloaded.AvailableQuantity)

	// Settling the rejected record must not credit the pool again
	resp, _ = app.Test(authedRequest("PATCH",
		fmt.Sprintf("/api/checkout/reject/available/%d", record.ID), nil, manager))
	assert.Equal(t, 200, resp.StatusCode)

	db.First(&record, record.ID)
	assert.Equal(t, models.CheckoutStatusClosed, record.Status)

	db.First(&reloaded, asset.ID)
	assert.Equal(t, 5, reloaded.AvailableQuantity)
}

func TestReturnCancelReReserves(t *testing.T) {
	db := setupTestDB()
	app := createTestApp(db)
	_, manager, employee, _ := createTestUsers(db)
	asset := createTestAsset(db, 5)

	resp, _ := app.Test(authedRequest("POST", "/api/checkout",
		map[string]interface{}{"asset_id": asset.ID, "quantity": 3}, employee))
	assert.Equal(t, 201, resp.StatusCode)

	var record models.CheckoutRecord
	db.Where("user_id = ?", employee.ID).First(&record)

	resp, _ = app.Test(authedRequest("PATCH",
		fmt.Sprintf("/api/checkout/approve/%d", record.ID), nil, manager))
	assert.Equal(t, 200, resp.StatusCode)

	resp, _ = app.Test(authedRequest("PATCH",
		fmt.Sprintf("/api/checkout/return/request/%d", record.ID), nil, employee))
	assert.Equal(t, 200, resp.StatusCode)

	var reloaded models.Asset
	db.First(&reloaded, asset.ID)
	assert.Equal(t, 5, reloaded.AvailableQuantity)

	resp, _ = app.Test(authedRequest("PATCH",
		fmt.Sprintf("/api/checkout/return/cancel/%d", record.ID), nil, employee))
	assert.Equal(t, 200, resp.StatusCode)

	db.First(&record, record.ID)
	assert.Equal(t, models.CheckoutStatusApproved, record.Status)
	assert.Nil(t, record.ReturnDate)

	db.First(&reloaded, asset.ID)
	assert.Equal(t, 2, reloaded.AvailableQuantity)
}

func TestRaceForLastUnit(t *testing.T) {
	db := setupTestDB()
	app := createTestApp(db)
	_, _, employee, employee2 := createTestUsers(db)
	asset := createTestAsset(db, 1)

	resp, _ := app.Test(authedRequest("POST", "/api/checkout",
		map[string]interface{}{"asset_id": asset.ID, "quantity": 1}, employee))
	assert.Equal(t, 201, resp.StatusCode)

	// The pool is empty now; the competing request must lose cleanly
	resp, _ = app.Test(authedRequest("POST", "/api/checkout",
		map[string]interface{}{"asset_id": asset.ID, "quantity": 1}, employee2))
	assert.Equal(t, 400, resp.StatusCode)

	var reloaded models.Asset
	db.First(&reloaded, asset.ID)
	assert.Equal(t, 0, reloaded.AvailableQuantity)
}
