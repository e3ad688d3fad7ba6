package database

import (
	"fmt"

	"github.com/yukikurage/task-tracker/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the users and tasks tables. Unique indexes on
// username and email and the lookup indexes on tasks come from model tags.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Task{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
