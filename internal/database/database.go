package database

import (
	"log"
	"time"

	"github.com/SumantMunagala/civiclens/internal/config"
	"github.com/SumantMunagala/civiclens/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connection pool limits
const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 300 * time.Second
)

type DB struct {
	*gorm.DB
}

func Connect(cfg *config.Config) (*DB, error) {
	logLevel := logger.Silent
	if cfg.ServerEnv == "development" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logLevel),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, err
	}

	// Register metrics plugin for Prometheus
	if err := db.Use(&MetricsPlugin{}); err != nil {
		log.Printf("Failed to register metrics plugin: %v", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.SetMaxOpenConns(maxOpenConns)
		sqlDB.SetMaxIdleConns(maxIdleConns)
		sqlDB.SetConnMaxLifetime(connMaxLifetime)
	}

	return &DB{db}, nil
}

// Migrate runs AutoMigrate for all models
func Migrate(db *DB) error {
	err := db.AutoMigrate(
		// User domain
		&models.User{},
		&models.UserSettings{},

		// Cache
		&models.APICache{},
	)
	if err != nil {
		// Log migration errors but don't fail - a pre-provisioned schema may
		// carry different constraint names
		log.Printf("AutoMigrate warning (non-fatal): %v", err)
	}
	return nil
}
