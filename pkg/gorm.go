package pkg

import (
	"fmt"

	"github.com/MC3-2026/assessment-delivery-service/internal/config"
	"github.com/MC3-2026/assessment-delivery-service/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	var logLevel logger.LogLevel
	if cfg.Environment == "production" {
		logLevel = logger.Info
	} else {
		logLevel = logger.Error
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Bank{},
		&models.Item{},
		&models.Question{},
		&models.Answer{},
		&models.Assessment{},
		&models.AssessmentItem{},
		&models.Offering{},
		&models.Taken{},
		&models.Response{},
		&models.User{},
	); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}
