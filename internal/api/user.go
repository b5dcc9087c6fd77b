package api

import (
	"net/http" // HTTP status codes

	"github.com/DinoSarlija/StockInformer/internal/domain" // Importing domain models
	"github.com/DinoSarlija/StockInformer/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// IDRequest addresses an entity by id
type IDRequest struct {
	ID string `json:"id" binding:"required"` // Target id
}

// IDAndValue pairs a target id with the new field value
type IDAndValue struct {
	ID    string `json:"id" binding:"required"`    // Target id
	Value string `json:"value" binding:"required"` // New value
}

// usersCacheKey caches the full user catalogue
const usersCacheKey = "users:all"

// ListUsersHandler returns every user record, soft-deleted ones included.
func ListUsersHandler(db *gorm.DB, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var cached []domain.User
		// Serve from cache when possible
		if found, err := cache.Get(ctx, usersCacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, cached)
			return
		}
		users, err := domain.GetAllUsers(db)
		if err != nil {
			logrus.WithError(err).Error("Failed to list users")
			c.Status(http.StatusNotFound)
			return
		}
		if err := cache.Set(ctx, usersCacheKey, users); err != nil {
			logrus.WithError(err).Warn("Failed to cache user list")
		}
		c.JSON(http.StatusOK, users)
	}
}

// GetUserHandler returns one user by id. Soft-deleted users are still
// readable here; see DESIGN.md on the visibility rules.
func GetUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req IDRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		user, err := domain.GetUserByID(db, req.ID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User ID does not exist."})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// UpdateUserEmailHandler changes a user's email after a format check
func UpdateUserEmailHandler(db *gorm.DB, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req IDAndValue
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if !verifyEmail(req.Value) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Not valid email format"})
			return
		}
		user, err := domain.GetUserByID(db, req.ID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User ID does not exist."})
			return
		}
		if err := db.Model(&user).Update("email", req.Value).Error; err != nil {
			// Most likely the unique index: the email belongs to someone else
			logrus.WithField("user_id", req.ID).WithError(err).Error("Failed to update email")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid email address"})
			return
		}
		if err := cache.Delete(c.Request.Context(), usersCacheKey); err != nil {
			logrus.WithError(err).Warn("Failed to invalidate user list cache")
		}
		c.JSON(http.StatusOK, user)
	}
}

// UpdateUserPasswordHandler changes a user's password after a strength check
func UpdateUserPasswordHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req IDAndValue
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if !verifyPassword(req.Value) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password is not strong enough"})
			return
		}
		user, err := domain.GetUserByID(db, req.ID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User ID does not exist."})
			return
		}
		hash, err := utils.HashPassword(req.Value)
		if err != nil {
			logrus.WithError(err).Error("Failed to hash password")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		if err := db.Model(&user).Update("password", hash).Error; err != nil {
			logrus.WithField("user_id", req.ID).WithError(err).Error("Failed to update password")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid password"})
			return
		}
		c.String(http.StatusOK, "Password successfully updated")
	}
}

// DeleteUserHandler soft-deletes a user and cascades to every live
// portfolio and its tickers. The whole cascade runs in one transaction, so
// a mid-cascade failure leaves nothing half-deleted.
func DeleteUserHandler(db *gorm.DB, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		err := db.Transaction(func(tx *gorm.DB) error {
			portfolios, err := domain.GetPortfoliosByUser(tx, id)
			if err != nil {
				return err
			}
			if _, err := domain.SoftDeleteUser(tx, id); err != nil {
				return err
			}
			for _, portfolio := range portfolios {
				if _, err := domain.SoftDeletePortfolio(tx, portfolio.ID); err != nil {
					return err // Abort to rollback
				}
				if _, err := domain.SoftDeleteTickers(tx, portfolio.ID); err != nil {
					return err // Abort to rollback
				}
			}
			return nil // Commit transaction
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": id,
				"error":   err.Error(),
			}).Error("User delete cascade failed")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to delete user"})
			return
		}
		if err := cache.Delete(c.Request.Context(), usersCacheKey); err != nil {
			logrus.WithError(err).Warn("Failed to invalidate user list cache")
		}
		c.String(http.StatusOK, "User successfully deleted")
	}
}
