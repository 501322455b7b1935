package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ubigeo_app_go/models"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing
	BcryptCost = 10
	// LastLoginInterval limits how often a login refreshes last_login
	LastLoginInterval = time.Hour
)

// ErrInvalidCredentials is returned for unknown users, wrong passwords and inactive accounts
var ErrInvalidCredentials = errors.New("credenciales inválidas")

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPassword verifies a password against a hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Authenticate checks a username/password pair against active users
func Authenticate(db *gorm.DB, username, password string) (*models.User, error) {
	var user models.User
	err := db.Where("username = ? AND is_active = ?", username, true).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !CheckPassword(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// TouchLastLogin stores now as the user's last login when the stored value is
// older than LastLoginInterval. The change is recorded as a history event.
func TouchLastLogin(ctx context.Context, db *gorm.DB, user *models.User, now time.Time) error {
	if user.LastLogin != nil && now.Sub(*user.LastLogin) < LastLoginInterval {
		return nil
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		before := user.Snapshot()
		user.LastLogin = &now
		if err := tx.Model(user).Omit(clause.Associations).UpdateColumn("last_login", now).Error; err != nil {
			return fmt.Errorf("failed to update last login: %w", err)
		}
		return RecordHistory(ctx, tx, user, models.HistoryUpdate, before)
	})
}
