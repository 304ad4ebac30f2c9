package repositories

import (
	"errors"

	"assetdesk-backend/models"

	"gorm.io/gorm"
)

var (
	// ErrInsufficientQuantity is returned by Reserve when the asset has
	// fewer available units than requested.
	ErrInsufficientQuantity = errors.New("insufficient available quantity")

	// ErrInvariantViolation is returned when a ledger operation would break
	// the 0 <= available <= quantity invariant. It signals a bookkeeping bug
	// upstream, not a user error.
	ErrInvariantViolation = errors.New("asset quantity invariant violation")
)

// AssetRepository is the inventory ledger. It owns the quantity fields of an
// asset: all increments and decrements of AvailableQuantity go through
// Reserve, Release and Resize so the bounds are enforced in one place.
type AssetRepository interface {
	FindByID(id uint) (*models.Asset, error)
	FindByIDWithType(id uint) (*models.Asset, error)
	List() ([]models.Asset, error)
	Create(asset *models.Asset) error
	Delete(id uint) error

	// UpdateDetails writes the descriptive columns of an asset. The quantity
	// columns are owned by Reserve/Release/Resize and are never touched here,
	// so a detail update can't overwrite a concurrent reservation with values
	// read before it.
	UpdateDetails(asset *models.Asset) error

	// Reserve atomically decrements AvailableQuantity by qty, failing with
	// ErrInsufficientQuantity when not enough units are available. When the
	// pool is exhausted the asset status flips to PENDING.
	Reserve(id uint, qty int) error

	// Release atomically increments AvailableQuantity by qty and marks the
	// asset AVAILABLE. Crediting past the total Quantity fails with
	// ErrInvariantViolation instead of silently capping.
	Release(id uint, qty int) error

	// Resize sets new quantity bounds, keeping 0 <= available <= quantity.
	Resize(id uint, quantity, available int) error
}

type assetRepository struct {
	db *gorm.DB
}

// NewAssetRepository creates a ledger bound to db, which may be a transaction handle
func NewAssetRepository(db *gorm.DB) AssetRepository {
	return &assetRepository{db: db}
}

func (r *assetRepository) FindByID(id uint) (*models.Asset, error) {
	var asset models.Asset
	if err := r.db.First(&asset, id).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *assetRepository) FindByIDWithType(id uint) (*models.Asset, error) {
	var asset models.Asset
	if err := r.db.Preload("Type").First(&asset, id).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *assetRepository) List() ([]models.Asset, error) {
	var assets []models.Asset
	if err := r.db.Preload("Type").Order("created_at DESC").Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

func (r *assetRepository) Create(asset *models.Asset) error {
	return r.db.Create(asset).Error
}

func (r *assetRepository) UpdateDetails(asset *models.Asset) error {
	return r.db.Model(&models.Asset{}).
		Where("id = ?", asset.ID).
		Updates(map[string]interface{}{
			"label":     asset.Label,
			"type_id":   asset.TypeID,
			"status":    asset.Status,
			"image_url": asset.ImageURL,
		}).Error
}

func (r *assetRepository) Delete(id uint) error {
	return r.db.Delete(&models.Asset{}, id).Error
}

func (r *assetRepository) Reserve(id uint, qty int) error {
	if qty <= 0 {
		return ErrInvariantViolation
	}

	// Conditional decrement: the WHERE clause re-checks availability at
	// write time, so two concurrent reservations of the last unit serialize
	// on the row and only one succeeds.
	res := r.db.Model(&models.Asset{}).
		Where("id = ? AND available_quantity >= ?", id, qty).
		Update("available_quantity", gorm.Expr("available_quantity - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientQuantity
	}

	// Exhausted pools are flagged PENDING until units come back
	return r.db.Model(&models.Asset{}).
		Where("id = ? AND available_quantity = 0", id).
		Update("status", models.AssetStatusPending).Error
}

func (r *assetRepository) Release(id uint, qty int) error {
	if qty <= 0 {
		return ErrInvariantViolation
	}

	// Conditional increment: refuses to credit more units than the asset owns
	res := r.db.Model(&models.Asset{}).
		Where("id = ? AND available_quantity + ? <= quantity", id, qty).
		Updates(map[string]interface{}{
			"available_quantity": gorm.Expr("available_quantity + ?", qty),
			"status":             models.AssetStatusAvailable,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInvariantViolation
	}
	return nil
}

func (r *assetRepository) Resize(id uint, quantity, available int) error {
	if quantity < 1 || available < 0 || available > quantity {
		return ErrInvariantViolation
	}
	return r.db.Model(&models.Asset{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"quantity":           quantity,
			"available_quantity": available,
		}).Error
}
