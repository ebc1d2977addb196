package migration

import (
	"Meal-Tracker/entities"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if db.Dialector.Name() == "postgres" {
		db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	}

	if err := db.AutoMigrate(&entities.User{}); err != nil {
		log.Errorf("Error migrating user database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.MealEntry{}); err != nil {
		log.Errorf("Error migrating meal entry database: %v", err)
		return err
	}

	log.Info("Database migration complete")
	return nil
}
