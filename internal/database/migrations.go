package database

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/codyseavey/cardledger/backend/internal/models"
)

// cleanupDuplicateCacheEntries removes rows sharing a query hash, keeping the
// newest, so the unique index can be created on databases written before it
// existed.
func cleanupDuplicateCacheEntries(db *gorm.DB, logger *zap.Logger) error {
	table := models.CacheEntry{}.TableName()
	if !db.Migrator().HasTable(table) {
		return nil
	}

	result := db.Exec(`
		DELETE FROM ` + table + `
		WHERE id NOT IN (
			SELECT MAX(id)
			FROM ` + table + `
			GROUP BY query_hash
		)
	`)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		logger.Info("Cleaned up duplicate cache entries", zap.Int64("rows", result.RowsAffected))
	}
	return nil
}

// RunMigrations runs data fixes after schema changes. It is safe to run on
// every start.
func RunMigrations(db *gorm.DB, logger *zap.Logger) error {
	return purgeExpiredOnStartup(db, logger)
}

// purgeExpiredOnStartup drops rows that expired while the process was down
// so the first janitor tick does not have to.
func purgeExpiredOnStartup(db *gorm.DB, logger *zap.Logger) error {
	result := db.Where("expires_at <= ?", time.Now()).Delete(&models.CacheEntry{})
	if result.Error != nil {
		logger.Warn("Failed to purge expired cache entries", zap.Error(result.Error))
		return nil
	}
	if result.RowsAffected > 0 {
		logger.Info("Purged expired cache entries", zap.Int64("rows", result.RowsAffected))
	}
	return nil
}
