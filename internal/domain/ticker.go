package domain

import (
	"github.com/google/uuid" // UUID generation for primary keys
	"gorm.io/gorm"           // GORM ORM library
)

// Ticker Model
type Ticker struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`               // Primary key (UUID)
	Name        string `gorm:"size:191;not null" json:"name"`              // Stock symbol, unique per portfolio among live rows
	PortfolioID string `gorm:"size:36;index;not null" json:"portfolio_id"` // Owning portfolio
	IsDeleted   bool   `gorm:"not null;default:false" json:"is_deleted"`   // Soft-delete flag
}

// NewTicker builds a ticker with a fresh id.
func NewTicker(name, portfolioID string) Ticker {
	return Ticker{
		ID:          uuid.NewString(),
		Name:        name,
		PortfolioID: portfolioID,
	}
}

// GetTickersByPortfolio lists a portfolio's live tickers.
func GetTickersByPortfolio(db *gorm.DB, portfolioID string) ([]Ticker, error) {
	var tickers []Ticker
	err := db.Where("portfolio_id = ? AND is_deleted = ?", portfolioID, false).Find(&tickers).Error
	return tickers, err
}

// TickerNameTaken reports whether a live ticker with this (name, portfolio)
// pair already exists. Pre-insert duplicate guard only.
func TickerNameTaken(db *gorm.DB, name, portfolioID string) (bool, error) {
	var count int64
	err := db.Model(&Ticker{}).
		Where("portfolio_id = ? AND name = ? AND is_deleted = ?", portfolioID, name, false).
		Count(&count).Error
	return count > 0, err
}

// SoftDeleteTicker flags a live ticker as deleted and returns the updated
// record. An already-deleted ticker reports gorm.ErrRecordNotFound.
func SoftDeleteTicker(db *gorm.DB, id string) (Ticker, error) {
	res := db.Model(&Ticker{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("is_deleted", true)
	if res.Error != nil {
		return Ticker{}, res.Error
	}
	if res.RowsAffected == 0 {
		return Ticker{}, gorm.ErrRecordNotFound
	}
	var ticker Ticker
	err := db.Where("id = ?", id).First(&ticker).Error
	return ticker, err
}

// SoftDeleteTickers flags every live ticker under a portfolio as deleted and
// returns the updated records. A portfolio with no live tickers yields an
// empty slice, not an error.
func SoftDeleteTickers(db *gorm.DB, portfolioID string) ([]Ticker, error) {
	tickers, err := GetTickersByPortfolio(db, portfolioID)
	if err != nil {
		return nil, err
	}
	if len(tickers) == 0 {
		return []Ticker{}, nil
	}
	if err := db.Model(&Ticker{}).
		Where("portfolio_id = ? AND is_deleted = ?", portfolioID, false).
		Update("is_deleted", true).Error; err != nil {
		return nil, err
	}
	for i := range tickers {
		tickers[i].IsDeleted = true
	}
	return tickers, nil
}
