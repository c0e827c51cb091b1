package database

import (
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/weatherwatch/weather-watch/internal/models"
)

type DB struct {
	*gorm.DB
}

// Connect opens the Postgres connection and configures the pool.
func Connect(databaseURL string, debug bool) (*DB, error) {
	logLevel := logger.Silent
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	return &DB{db}, nil
}

// Migrate creates the weather_queries table and its indexes.
func Migrate(db *DB) error {
	return db.AutoMigrate(&models.WeatherQuery{})
}
