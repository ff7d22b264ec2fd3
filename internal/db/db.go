package db

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"clanci-blog/internal/config"
	"clanci-blog/internal/models"
)

// Init opens the postgres connection and migrates the schema.
func Init(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), Options())
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	if err := db.AutoMigrate(&models.Account{}, &models.Post{}, &models.Comment{}, &models.Like{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	log.Info("database ready")
	return db, nil
}

// Options is the gorm configuration shared by the server and repository tests.
// Unique-index violations come back as gorm.ErrDuplicatedKey.
func Options() *gorm.Config {
	return &gorm.Config{
		TranslateError:         true,
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	}
}
