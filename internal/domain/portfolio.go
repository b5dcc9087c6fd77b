package domain

import (
	"time" // Creation dates

	"github.com/google/uuid" // UUID generation for primary keys
	"gorm.io/gorm"           // GORM ORM library
)

// Portfolio Model
type Portfolio struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`             // Primary key (UUID)
	Name      string    `gorm:"size:191;not null" json:"name"`            // Portfolio name, unique per user among live rows
	CreatedAt time.Time `gorm:"type:date" json:"created_at"`              // Creation date
	IsDeleted bool      `gorm:"not null;default:false" json:"is_deleted"` // Soft-delete flag
	UserID    string    `gorm:"size:36;index;not null" json:"user_id"`    // Owning user
}

// NewPortfolio builds a portfolio with a fresh id and today's date.
func NewPortfolio(name, userID string) Portfolio {
	return Portfolio{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC().Truncate(24 * time.Hour),
		UserID:    userID,
	}
}

// GetPortfoliosByUser lists a user's live portfolios.
func GetPortfoliosByUser(db *gorm.DB, userID string) ([]Portfolio, error) {
	var portfolios []Portfolio
	err := db.Where("user_id = ? AND is_deleted = ?", userID, false).Find(&portfolios).Error
	return portfolios, err
}

// GetPortfolioByID fetches a live portfolio by primary key.
func GetPortfolioByID(db *gorm.DB, id string) (Portfolio, error) {
	var portfolio Portfolio
	err := db.Where("id = ? AND is_deleted = ?", id, false).First(&portfolio).Error
	return portfolio, err
}

// PortfolioNameTaken reports whether a live portfolio with this (name, user)
// pair already exists. Pre-insert duplicate guard only; see DESIGN.md on the
// check-then-act race.
func PortfolioNameTaken(db *gorm.DB, name, userID string) (bool, error) {
	var count int64
	err := db.Model(&Portfolio{}).
		Where("user_id = ? AND name = ? AND is_deleted = ?", userID, name, false).
		Count(&count).Error
	return count > 0, err
}

// UpdatePortfolioName renames a live portfolio and returns the updated record.
func UpdatePortfolioName(db *gorm.DB, id, name string) (Portfolio, error) {
	res := db.Model(&Portfolio{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("name", name)
	if res.Error != nil {
		return Portfolio{}, res.Error
	}
	if res.RowsAffected == 0 {
		return Portfolio{}, gorm.ErrRecordNotFound
	}
	return GetPortfolioByID(db, id)
}

// SoftDeletePortfolio flags a live portfolio as deleted and returns the
// updated record. An already-deleted portfolio reports gorm.ErrRecordNotFound
// so the caller never runs a second cascade.
func SoftDeletePortfolio(db *gorm.DB, id string) (Portfolio, error) {
	res := db.Model(&Portfolio{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("is_deleted", true)
	if res.Error != nil {
		return Portfolio{}, res.Error
	}
	if res.RowsAffected == 0 {
		return Portfolio{}, gorm.ErrRecordNotFound
	}
	var portfolio Portfolio
	err := db.Where("id = ?", id).First(&portfolio).Error
	return portfolio, err
}
