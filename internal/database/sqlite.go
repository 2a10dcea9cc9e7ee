package database

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/codyseavey/cardledger/backend/internal/models"
)

// Open connects to the SQLite cache database at dbPath and brings the
// schema up to date.
func Open(dbPath string, logger *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open sqlite database %s", dbPath)
	}

	logger.Info("Database connected successfully", zap.String("path", dbPath))

	// Duplicates must go before AutoMigrate adds the unique index.
	if err := cleanupDuplicateCacheEntries(db, logger); err != nil {
		return nil, errors.Wrap(err, "failed to clean duplicate cache entries")
	}

	if err := db.AutoMigrate(&models.CacheEntry{}); err != nil {
		return nil, errors.Wrap(err, "failed to migrate schema")
	}

	if err := RunMigrations(db, logger); err != nil {
		return nil, errors.Wrap(err, "failed to run data migrations")
	}

	logger.Info("Database migration completed")
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql handle")
	}
	return sqlDB.Close()
}
