package api

import (
	"net/http" // HTTP status codes

	"github.com/DinoSarlija/StockInformer/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// NewPortfolioRequest carries the fields of a portfolio to create
type NewPortfolioRequest struct {
	Name   string `json:"name" binding:"required"`    // Portfolio name
	UserID string `json:"user_id" binding:"required"` // Owning user
}

// PortfolioAndTickers is the delete-cascade response: the removed portfolio
// together with every ticker the cascade touched.
type PortfolioAndTickers struct {
	Portfolio domain.Portfolio `json:"portfolio"` // Soft-deleted portfolio
	Tickers   []domain.Ticker  `json:"tickers"`   // Soft-deleted tickers
}

// GetPortfoliosHandler lists the live portfolios of a user
func GetPortfoliosHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req IDRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		portfolios, err := domain.GetPortfoliosByUser(db, req.ID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User ID does not exist."})
			return
		}
		c.JSON(http.StatusOK, portfolios)
	}
}

// GetPortfolioHandler returns one live portfolio by id
func GetPortfolioHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req IDRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		portfolio, err := domain.GetPortfolioByID(db, req.ID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Portfolio with that ID does not exist."})
			return
		}
		c.JSON(http.StatusOK, portfolio)
	}
}

// CreatePortfolioHandler creates a portfolio unless the user already has a
// live one with the same name
func CreatePortfolioHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req NewPortfolioRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		taken, err := domain.PortfolioNameTaken(db, req.Name, req.UserID)
		if err != nil {
			logrus.WithError(err).Error("Failed to check portfolio name")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create portfolio"})
			return
		}
		if taken {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Portfolio with that name already exists"})
			return
		}
		portfolio := domain.NewPortfolio(req.Name, req.UserID)
		if err := db.Create(&portfolio).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": req.UserID,
				"name":    req.Name,
				"error":   err.Error(),
			}).Error("Failed to create portfolio")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Portfolio with that name already exists"})
			return
		}
		c.JSON(http.StatusCreated, portfolio)
	}
}

// UpdatePortfolioNameHandler renames a live portfolio
func UpdatePortfolioNameHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req IDAndValue
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		portfolio, err := domain.UpdatePortfolioName(db, req.ID, req.Value)
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Portfolio with that ID does not exist."})
			return
		}
		if err != nil {
			logrus.WithField("portfolio_id", req.ID).WithError(err).Error("Failed to rename portfolio")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rename portfolio"})
			return
		}
		c.JSON(http.StatusOK, portfolio)
	}
}

// DeletePortfolioHandler soft-deletes a portfolio and all its tickers in
// one transaction and returns both. Deleting an already-deleted portfolio
// is a not-found rejection, never a second cascade.
func DeletePortfolioHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		var result PortfolioAndTickers
		err := db.Transaction(func(tx *gorm.DB) error {
			portfolio, err := domain.SoftDeletePortfolio(tx, id)
			if err != nil {
				return err
			}
			tickers, err := domain.SoftDeleteTickers(tx, id)
			if err != nil {
				return err // Abort to rollback the portfolio delete
			}
			result = PortfolioAndTickers{Portfolio: portfolio, Tickers: tickers}
			return nil // Commit transaction
		})
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Portfolio with that ID does not exist."})
			return
		}
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"portfolio_id": id,
				"error":        err.Error(),
			}).Error("Portfolio delete cascade failed")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to delete portfolio"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
