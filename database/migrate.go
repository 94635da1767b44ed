package database

import (
	"fmt"

	"github.com/yeremiapane/dinein-backend/models"
	"github.com/yeremiapane/dinein-backend/utils"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema of every model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	utils.InfoLogger.Info("AutoMigrate completed.")
	return nil
}
