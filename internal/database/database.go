package database

import (
	"log"

	"github.com/Giddala-Anjaiah/Student-Achievement-Management-system/internal/config"
	"github.com/Giddala-Anjaiah/Student-Achievement-Management-system/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto Migrate
	err = db.AutoMigrate(&models.User{}, &models.Achievement{}, &models.Notification{})
	if err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	return db
}
