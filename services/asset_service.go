package services

import (
	"errors"

	"assetdesk-backend/models"
	"assetdesk-backend/repositories"

	"gorm.io/gorm"
)

// AssetUpdate enumerates exactly the mutable fields of an asset. Nil means
// "leave unchanged"; unknown payload fields are dropped by the JSON decoder.
type AssetUpdate struct {
	Label             *string `json:"label"`
	TypeID            *uint   `json:"type_id"`
	Status            *string `json:"status"`
	ImageURL          *string `json:"image_url"`
	Quantity          *int    `json:"quantity"`
	AvailableQuantity *int    `json:"available_quantity"`
}

// Empty reports whether the update carries no fields at all
func (u AssetUpdate) Empty() bool {
	return u.Label == nil && u.TypeID == nil && u.Status == nil &&
		u.ImageURL == nil && u.Quantity == nil && u.AvailableQuantity == nil
}

// AssetService covers the admin-side asset and asset-type management.
// Quantity bounds always go through the ledger's resize rules so the
// available/total invariant cannot be broken from the admin panel either.
type AssetService struct {
	db *gorm.DB
}

// NewAssetService creates a new AssetService
func NewAssetService(db *gorm.DB) *AssetService {
	return &AssetService{db: db}
}

// CreateAsset registers a new asset pool. All units start available.
func (s *AssetService) CreateAsset(caller Caller, label string, typeID uint, status string, quantity int, imageURL string) (*models.Asset, error) {
	if !caller.IsAdmin() {
		return nil, ErrForbidden
	}
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	if status == "" {
		status = models.AssetStatusAvailable
	}
	if !models.ValidAssetStatus(status) {
		return nil, ErrInvalidStateTransition
	}

	var asset models.Asset
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var assetType models.AssetType
		if err := tx.First(&assetType, typeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		asset = models.Asset{
			TypeID:            typeID,
			Label:             label,
			Status:            status,
			Quantity:          quantity,
			AvailableQuantity: quantity,
			ImageURL:          imageURL,
		}
		return repositories.NewAssetRepository(tx).Create(&asset)
	})
	if err != nil {
		return nil, err
	}

	return repositories.NewAssetRepository(s.db).FindByIDWithType(asset.ID)
}

// UpdateAsset applies an explicit field-level update. Quantity changes are
// validated against the units currently committed to live records.
func (s *AssetService) UpdateAsset(caller Caller, assetID uint, update AssetUpdate) (*models.Asset, error) {
	if !caller.IsAdmin() {
		return nil, ErrForbidden
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		assets := repositories.NewAssetRepository(tx)
		records := repositories.NewCheckoutRepository(tx)

		asset, err := assets.FindByID(assetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if update.TypeID != nil {
			var assetType models.AssetType
			if err := tx.First(&assetType, *update.TypeID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			asset.TypeID = *update.TypeID
		}
		if update.Label != nil {
			asset.Label = *update.Label
		}
		if update.Status != nil {
			if !models.ValidAssetStatus(*update.Status) {
				return ErrInvalidStateTransition
			}
			asset.Status = *update.Status
		}
		if update.ImageURL != nil {
			asset.ImageURL = *update.ImageURL
		}

		newQuantity := asset.Quantity
		newAvailable := asset.AvailableQuantity

		if update.Quantity != nil {
			if *update.Quantity < 1 {
				return ErrInvalidQuantity
			}
			newQuantity = *update.Quantity
		}
		if update.AvailableQuantity != nil {
			if *update.AvailableQuantity < 0 {
				return ErrInvalidQuantity
			}
			newAvailable = *update.AvailableQuantity
		}
		if newAvailable > newQuantity {
			return ErrInvalidQuantity
		}

		if newQuantity != asset.Quantity || newAvailable != asset.AvailableQuantity {
			// Shrinking below the units held by live records would strand
			// reservations the pool can no longer cover
			committed, err := records.CommittedQuantity(assetID)
			if err != nil {
				return err
			}
			if newQuantity < committed {
				return ErrInvalidQuantity
			}
			if err := assets.Resize(assetID, newQuantity, newAvailable); err != nil {
				return err
			}
		}

		// The quantity columns went through Resize; this write covers only
		// the descriptive fields, so it cannot clobber a reservation that
		// committed after the read above
		return assets.UpdateDetails(asset)
	})
	if err != nil {
		return nil, err
	}

	return repositories.NewAssetRepository(s.db).FindByIDWithType(assetID)
}

// DeleteAsset removes an asset pool. Refused while checkout records still
// hold or await units from it.
func (s *AssetService) DeleteAsset(caller Caller, assetID uint) error {
	if !caller.IsAdmin() {
		return ErrForbidden
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		assets := repositories.NewAssetRepository(tx)

		if _, err := assets.FindByID(assetID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var live int64
		err := tx.Model(&models.CheckoutRecord{}).
			Where("asset_id = ? AND status IN ?", assetID, []string{
				models.CheckoutStatusPending,
				models.CheckoutStatusApproved,
				models.CheckoutStatusReturnRequested,
			}).Count(&live).Error
		if err != nil {
			return err
		}
		if live > 0 {
			return ErrInvalidStateTransition
		}

		return assets.Delete(assetID)
	})
}

// GetAsset loads one asset with its type
func (s *AssetService) GetAsset(assetID uint) (*models.Asset, error) {
	asset, err := repositories.NewAssetRepository(s.db).FindByIDWithType(assetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return asset, nil
}

// ListAssets returns all assets with their types
func (s *AssetService) ListAssets() ([]models.Asset, error) {
	return repositories.NewAssetRepository(s.db).List()
}

// CreateType registers a new asset category
func (s *AssetService) CreateType(caller Caller, name, description string) (*models.AssetType, error) {
	if !caller.IsAdmin() {
		return nil, ErrForbidden
	}

	assetType := models.AssetType{Name: name, Description: description}
	if err := s.db.Create(&assetType).Error; err != nil {
		return nil, err
	}
	return &assetType, nil
}

// DeleteType removes an asset category. Refused while assets of the type exist.
func (s *AssetService) DeleteType(caller Caller, typeID uint) error {
	if !caller.IsAdmin() {
		return ErrForbidden
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var assetType models.AssetType
		if err := tx.First(&assetType, typeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var inUse int64
		if err := tx.Model(&models.Asset{}).Where("type_id = ?", typeID).Count(&inUse).Error; err != nil {
			return err
		}
		if inUse > 0 {
			return ErrInvalidStateTransition
		}

		return tx.Delete(&assetType).Error
	})
}

// ListTypes returns all asset categories
func (s *AssetService) ListTypes() ([]models.AssetType, error) {
	var types []models.AssetType
	if err := s.db.Order("name ASC").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}
