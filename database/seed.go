package database

import (
	"errors"
	"fmt"

	"github.com/yeremiapane/dinein-backend/models"
	"github.com/yeremiapane/dinein-backend/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedSuperAdmin creates the superadmin account when it does not exist yet.
// Nothing happens when email or password is empty.
func SeedSuperAdmin(db *gorm.DB, email, password string) error {
	if email == "" || password == "" {
		utils.InfoLogger.Warn("Superadmin credentials not configured, skipping seed")
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("lookup superadmin: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash superadmin password: %w", err)
	}

	admin := models.User{
		FirstName: "Super",
		LastName:  "Admin",
		Email:     email,
		Password:  string(hashed),
		Role:      models.RoleSuperadmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create superadmin: %w", err)
	}

	utils.InfoLogger.WithField("email", email).Info("Superadmin seeded")
	return nil
}
