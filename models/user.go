package models

import (
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Role names used for access control across the API
const (
	RoleAdmin    = "ADMIN"
	RoleManager  = "MANAGER"
	RoleEmployee = "EMPLOYEE"
)

// User represents an account in the system. Employees are linked to the
// manager who reviews their checkout requests via ManagerID.
type User struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Name         string `json:"name" gorm:"not null"`
	Email        string `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"not null"` // hash is never serialized
	Role         string `json:"role" gorm:"not null;default:'EMPLOYEE';size:20"`
	ManagerID    *uint  `json:"manager_id"` // nil for admins and managers
	IsActive     bool   `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Manager *User `json:"manager,omitempty" gorm:"foreignKey:ManagerID"`
}

// InitDB opens the database connection
func InitDB() (*gorm.DB, error) {
	// DATABASE_URL selects PostgreSQL for production deployments
	databaseURL := os.Getenv("DATABASE_URL")

	if databaseURL != "" {
		db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
		if err != nil {
			return nil, err
		}
		return db, nil
	}

	// SQLite fallback for local development
	db, err := gorm.Open(sqlite.Open("assetdesk.db"), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}

// BeforeCreate sets the creation timestamps
func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate refreshes the update timestamp
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}
