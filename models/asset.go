package models

import (
	"time"

	"gorm.io/gorm"
)

// Asset statuses
const (
	AssetStatusAvailable     = "AVAILABLE"
	AssetStatusCheckedOut    = "CHECKED_OUT"
	AssetStatusPending       = "PENDING"
	AssetStatusInMaintenance = "IN_MAINTENANCE"
	AssetStatusLost          = "LOST"
	AssetStatusRetired       = "RETIRED"
)

// ValidAssetStatus reports whether s is one of the known asset statuses
func ValidAssetStatus(s string) bool {
	switch s {
	case AssetStatusAvailable, AssetStatusCheckedOut, AssetStatusPending,
		AssetStatusInMaintenance, AssetStatusLost, AssetStatusRetired:
		return true
	}
	return false
}

// AssetType represents a category of assets (laptops, monitors, ...)
type AssetType struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null;size:255;uniqueIndex"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Asset represents a pool of interchangeable units of one labeled item.
// Quantity is the total number of owned units; AvailableQuantity counts the
// units not currently committed to a live checkout record. Both quantity
// fields are mutated only through the ledger operations in the asset
// repository, never by direct assignment.
type Asset struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	TypeID            uint      `json:"type_id" gorm:"not null;index"`
	Label             string    `json:"label" gorm:"not null;size:255"`
	Status            string    `json:"status" gorm:"not null;default:'AVAILABLE';size:20"`
	Quantity          int       `json:"quantity" gorm:"not null;default:1"`
	AvailableQuantity int       `json:"available_quantity" gorm:"not null;default:1"`
	ImageURL          string    `json:"image_url" gorm:"default:''"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	Type AssetType `json:"type" gorm:"foreignKey:TypeID"`
}

// BeforeCreate sets the creation timestamps
func (a *Asset) BeforeCreate(tx *gorm.DB) error {
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate refreshes the update timestamp
func (a *Asset) BeforeUpdate(tx *gorm.DB) error {
	a.UpdatedAt = time.Now()
	return nil
}
