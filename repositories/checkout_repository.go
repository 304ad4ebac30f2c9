package repositories

import (
	"assetdesk-backend/models"

	"gorm.io/gorm"
)

// RecordFilter narrows record listings. A nil/empty field means "no filter".
type RecordFilter struct {
	UserIDs  []uint
	Statuses []string
}

// CheckoutRepository is the store for the mutable current-state record of a
// checkout request. Status transitions themselves are decided by the
// orchestrator; this store only persists them.
type CheckoutRepository interface {
	Create(record *models.CheckoutRecord) error
	FindByID(id uint) (*models.CheckoutRecord, error)
	FindByIDWithRelations(id uint) (*models.CheckoutRecord, error)
	Save(record *models.CheckoutRecord) error
	Delete(id uint) error
	List(filter RecordFilter) ([]models.CheckoutRecord, error)
	CountByStatus(status string, userIDs []uint) (int64, error)

	// CommittedQuantity sums the units currently held out of the asset's
	// pool, i.e. the quantities of records whose stock has not been released
	// back. Used by resize validation and the reconciliation check.
	CommittedQuantity(assetID uint) (int, error)
}

type checkoutRepository struct {
	db *gorm.DB
}

// NewCheckoutRepository creates a record store bound to db
func NewCheckoutRepository(db *gorm.DB) CheckoutRepository {
	return &checkoutRepository{db: db}
}

func (r *checkoutRepository) Create(record *models.CheckoutRecord) error {
	return r.db.Create(record).Error
}

func (r *checkoutRepository) FindByID(id uint) (*models.CheckoutRecord, error) {
	var record models.CheckoutRecord
	if err := r.db.First(&record, id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *checkoutRepository) FindByIDWithRelations(id uint) (*models.CheckoutRecord, error) {
	var record models.CheckoutRecord
	if err := r.db.Preload("Asset.Type").Preload("User").First(&record, id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *checkoutRepository) Save(record *models.CheckoutRecord) error {
	return r.db.Save(record).Error
}

func (r *checkoutRepository) Delete(id uint) error {
	return r.db.Delete(&models.CheckoutRecord{}, id).Error
}

func (r *checkoutRepository) List(filter RecordFilter) ([]models.CheckoutRecord, error) {
	query := r.db.Model(&models.CheckoutRecord{})

	if len(filter.UserIDs) > 0 {
		query = query.Where("user_id IN ?", filter.UserIDs)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}

	var records []models.CheckoutRecord
	if err := query.Preload("Asset.Type").Preload("User").
		Order("checkout_date DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *checkoutRepository) CountByStatus(status string, userIDs []uint) (int64, error) {
	query := r.db.Model(&models.CheckoutRecord{}).Where("status = ?", status)
	if len(userIDs) > 0 {
		query = query.Where("user_id IN ?", userIDs)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *checkoutRepository) CommittedQuantity(assetID uint) (int, error) {
	var committed int
	err := r.db.Model(&models.CheckoutRecord{}).
		Where("asset_id = ? AND stock_released = ? AND status IN ?",
			assetID, false,
			[]string{models.CheckoutStatusPending, models.CheckoutStatusApproved}).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&committed).Error
	if err != nil {
		return 0, err
	}
	return committed, nil
}
