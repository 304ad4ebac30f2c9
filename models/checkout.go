package models

import (
	"time"

	"gorm.io/gorm"
)

// Checkout record statuses. A record is created PENDING and either gets
// deleted (cancellation of a pending request) or terminates in REJECTED or
// CLOSED.
const (
	CheckoutStatusPending         = "PENDING"
	CheckoutStatusApproved        = "APPROVED"
	CheckoutStatusRejected        = "REJECTED"
	CheckoutStatusReturnRequested = "RETURN_REQUESTED"
	CheckoutStatusClosed          = "CLOSED"
)

// ValidCheckoutStatus reports whether s is one of the known record statuses
func ValidCheckoutStatus(s string) bool {
	switch s {
	case CheckoutStatusPending, CheckoutStatusApproved, CheckoutStatusRejected,
		CheckoutStatusReturnRequested, CheckoutStatusClosed:
		return true
	}
	return false
}

// CheckoutRecord represents one reservation of N units of one asset by one
// user. Quantity is fixed at creation. StockReleased tracks whether the
// record's units are currently back in the asset's available pool; every
// release path checks it so stock can never be credited twice for the same
// record.
type CheckoutRecord struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	AssetID       uint       `json:"asset_id" gorm:"not null;index"`
	UserID        uint       `json:"user_id" gorm:"not null;index"`
	Quantity      int        `json:"quantity" gorm:"not null;default:1"`
	Status        string     `json:"status" gorm:"not null;default:'PENDING';size:20;index"`
	StockReleased bool       `json:"stock_released" gorm:"not null;default:false"`
	CheckoutDate  time.Time  `json:"checkout_date"`
	ReturnDate    *time.Time `json:"return_date"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Asset Asset `json:"asset" gorm:"foreignKey:AssetID"`
	User  User  `json:"user" gorm:"foreignKey:UserID"`
}

// CheckoutHistory is an append-only audit entry documenting one state
// transition of a record. UserID is the employee the record belongs to,
// ActionByID the account that caused the transition (possibly the same).
// Rows are never updated; they are deleted only together with a cancelled
// pending record.
type CheckoutHistory struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	RecordID   uint      `json:"record_id" gorm:"not null;index"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	ActionByID uint      `json:"action_by_id" gorm:"not null;index"`
	ActionType string    `json:"action_type" gorm:"not null;size:20"`
	Quantity   int       `json:"quantity" gorm:"not null;default:1"`
	ActionDate time.Time `json:"action_date"`

	Record   CheckoutRecord `json:"record" gorm:"foreignKey:RecordID"`
	User     User           `json:"user" gorm:"foreignKey:UserID"`
	ActionBy User           `json:"action_by" gorm:"foreignKey:ActionByID"`
}

// BeforeCreate sets the checkout date and timestamps
func (r *CheckoutRecord) BeforeCreate(tx *gorm.DB) error {
	if r.CheckoutDate.IsZero() {
		r.CheckoutDate = time.Now()
	}
	r.CreatedAt = time.Now()
	r.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate refreshes the update timestamp
func (r *CheckoutRecord) BeforeUpdate(tx *gorm.DB) error {
	r.UpdatedAt = time.Now()
	return nil
}

// BeforeCreate stamps the action date
func (h *CheckoutHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ActionDate.IsZero() {
		h.ActionDate = time.Now()
	}
	return nil
}
