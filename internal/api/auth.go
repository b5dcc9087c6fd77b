package api

import (
	"net/http" // HTTP status codes
	"time"     // Token lifetime

	"github.com/DinoSarlija/StockInformer/internal/domain" // Importing domain models
	"github.com/DinoSarlija/StockInformer/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// RegisterRequest carries the credentials of a new account
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// LoginRequest carries the credentials for a login attempt
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// RegisterHandler creates a new user account
func RegisterHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Validate email and password formats
		if !verifyEmail(req.Email) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Not valid email format"})
			return
		}
		if !verifyPassword(req.Password) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password is not strong enough"})
			return
		}
		// Duplicate guard: soft-deleted accounts also block re-registration,
		// and the unique index on email backs this check up under races.
		var existing domain.User
		if err := db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
			return
		}
		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			// Hashing only fails on catastrophic internal error
			logrus.WithError(err).Error("Failed to hash password")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		user := domain.NewUser(req.Email, hash)
		if err := db.Create(&user).Error; err != nil {
			logrus.WithField("email", req.Email).WithError(err).Error("Failed to create user")
			c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
			return
		}
		c.JSON(http.StatusCreated, user)
	}
}

// LoginHandler authenticates a user and returns the account with a fresh
// JWT in the "jwt" response header. Bad credentials are a bare 404 so the
// response never says which check failed.
func LoginHandler(db *gorm.DB, jwtSecret string, lifetime time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		user, err := domain.GetUserByEmail(db, req.Email)
		if err != nil {
			logrus.WithField("email", req.Email).Warn("Login: unknown email")
			c.Status(http.StatusNotFound)
			return
		}
		if !utils.CheckPassword(req.Password, user.Password) {
			logrus.WithField("email", req.Email).Warn("Login: password mismatch")
			c.Status(http.StatusNotFound)
			return
		}
		token, err := utils.GenerateJWT(user.ID, user.Email, jwtSecret, lifetime)
		if err != nil {
			logrus.WithError(err).Error("Failed to generate token")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		c.Header("jwt", token) // Token travels in a response header
		c.JSON(http.StatusOK, user)
	}
}
