// Package database manages the optional Postgres connection. The service
// runs fully in memory when no DATABASE_URL is configured.
package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/merlai/merlai-api/internal/logger"
	"github.com/merlai/merlai-api/internal/models"
)

// Connect opens the Postgres connection and runs migrations. An empty DSN
// returns nil, nil: persistence is disabled.
func Connect(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		logger.Info("Database disabled (DATABASE_URL not set)", nil)
		return nil, nil
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	logger.Info("Database connected", nil)
	return db, nil
}

// Migrate applies the schema for all persisted models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.GenerationLog{},
		&models.AIModelConfig{},
	); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// SaveGenerationLog writes one generation record. A nil db is a no-op so
// callers never need to branch on persistence being enabled.
func SaveGenerationLog(db *gorm.DB, entry *models.GenerationLog) {
	if db == nil {
		return
	}
	if err := db.Create(entry).Error; err != nil {
		logger.Warn("Failed to persist generation log", logger.Fields{"error": err.Error()})
	}
}

// SaveAIModelConfig upserts a model registration by name.
func SaveAIModelConfig(db *gorm.DB, entry *models.AIModelConfig) {
	if db == nil {
		return
	}
	var existing models.AIModelConfig
	err := db.Where("name = ?", entry.Name).First(&existing).Error
	if err == nil {
		entry.ID = existing.ID
		err = db.Save(entry).Error
	} else {
		err = db.Create(entry).Error
	}
	if err != nil {
		logger.Warn("Failed to persist model config", logger.Fields{
			"model": entry.Name,
			"error": err.Error(),
		})
	}
}

// DeleteAIModelConfig removes a persisted model registration.
func DeleteAIModelConfig(db *gorm.DB, name string) {
	if db == nil {
		return
	}
	if err := db.Where("name = ?", name).Delete(&models.AIModelConfig{}).Error; err != nil {
		logger.Warn("Failed to delete model config", logger.Fields{
			"model": name,
			"error": err.Error(),
		})
	}
}

// SetDefaultAIModelConfig marks one persisted model as the default.
func SetDefaultAIModelConfig(db *gorm.DB, name string) {
	if db == nil {
		return
	}
	if err := db.Model(&models.AIModelConfig{}).Where("is_default = ?", true).Update("is_default", false).Error; err != nil {
		logger.Warn("Failed to clear default model", logger.Fields{"error": err.Error()})
		return
	}
	if err := db.Model(&models.AIModelConfig{}).Where("name = ?", name).Update("is_default", true).Error; err != nil {
		logger.Warn("Failed to set default model", logger.Fields{
			"model": name,
			"error": err.Error(),
		})
	}
}

// LoadAIModelConfigs returns all persisted model registrations.
func LoadAIModelConfigs(db *gorm.DB) []models.AIModelConfig {
	if db == nil {
		return nil
	}
	var out []models.AIModelConfig
	if err := db.Find(&out).Error; err != nil {
		logger.Warn("Failed to load model configs", logger.Fields{"error": err.Error()})
		return nil
	}
	return out
}
