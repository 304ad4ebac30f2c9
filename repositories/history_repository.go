package repositories

import (
	"assetdesk-backend/models"

	"gorm.io/gorm"
)

// HistoryFilter narrows audit log listings. ForManagerID expands to "rows
// acted on by this manager or belonging to this manager's employees".
type HistoryFilter struct {
	UserID       uint
	ActionByID   uint
	ForManagerID uint
}

// HistoryRepository is the append-only audit log. Entries are inserted once
// per transition and never updated; DeleteByRecordID exists solely for the
// cancellation of a pending record, which takes its (normally empty) history
// with it.
type HistoryRepository interface {
	Append(recordID, userID, actionByID uint, actionType string, qty int) error
	DeleteByRecordID(recordID uint) error
	List(filter HistoryFilter) ([]models.CheckoutHistory, error)
}

type historyRepository struct {
	db *gorm.DB
}

// NewHistoryRepository creates an audit log bound to db
func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Append(recordID, userID, actionByID uint, actionType string, qty int) error {
	entry := models.CheckoutHistory{
		RecordID:   recordID,
		UserID:     userID,
		ActionByID: actionByID,
		ActionType: actionType,
		Quantity:   qty,
	}
	return r.db.Create(&entry).Error
}

func (r *historyRepository) DeleteByRecordID(recordID uint) error {
	return r.db.Where("record_id = ?", recordID).Delete(&models.CheckoutHistory{}).Error
}

func (r *historyRepository) List(filter HistoryFilter) ([]models.CheckoutHistory, error) {
	query := r.db.Model(&models.CheckoutHistory{})

	if filter.ForManagerID != 0 {
		query = query.Where(
			"action_by_id = ? OR user_id IN (SELECT id FROM users WHERE manager_id = ?)",
			filter.ForManagerID, filter.ForManagerID)
	}
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.ActionByID != 0 {
		query = query.Where("action_by_id = ?", filter.ActionByID)
	}

	var entries []models.CheckoutHistory
	if err := query.Preload("Record.Asset.Type").Preload("User").Preload("ActionBy").
		Order("action_date DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
