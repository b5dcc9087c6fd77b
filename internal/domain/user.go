package domain

import (
	"github.com/google/uuid" // UUID generation for primary keys
	"gorm.io/gorm"           // GORM ORM library
)

// User Model
type User struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`               // Primary key (UUID)
	Email     string `gorm:"uniqueIndex;size:191;not null" json:"email"` // Unique email
	Password  string `gorm:"size:255;not null" json:"-"`                 // Bcrypt hash, never serialized
	IsDeleted bool   `gorm:"not null;default:false" json:"is_deleted"`   // Soft-delete flag
}

// NewUser builds a user with a fresh id. The password must already be hashed.
func NewUser(email, hashedPassword string) User {
	return User{
		ID:       uuid.NewString(),
		Email:    email,
		Password: hashedPassword,
	}
}

// GetAllUsers returns every user record, soft-deleted ones included.
func GetAllUsers(db *gorm.DB) ([]User, error) {
	var users []User
	err := db.Find(&users).Error
	return users, err
}

// GetUserByID looks a user up by primary key. The soft-delete flag is
// deliberately not checked: a deleted user stays reachable by id.
func GetUserByID(db *gorm.DB, id string) (User, error) {
	var user User
	err := db.Where("id = ?", id).First(&user).Error
	return user, err
}

// GetUserByEmail resolves the account used for authentication.
// Soft-deleted users are invisible to this lookup.
func GetUserByEmail(db *gorm.DB, email string) (User, error) {
	var user User
	err := db.Where("email = ? AND is_deleted = ?", email, false).First(&user).Error
	return user, err
}

// SoftDeleteUser flags a live user as deleted and returns the updated record.
// Deleting an already-deleted user reports gorm.ErrRecordNotFound.
func SoftDeleteUser(db *gorm.DB, id string) (User, error) {
	res := db.Model(&User{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("is_deleted", true)
	if res.Error != nil {
		return User{}, res.Error
	}
	if res.RowsAffected == 0 {
		return User{}, gorm.ErrRecordNotFound
	}
	return GetUserByID(db, id)
}
