package database

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/codyseavey/cardledger/backend/internal/models"
)

func memoryDSN(t *testing.T) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
}

func TestOpenMigratesSchema(t *testing.T) {
	db, err := Open(memoryDSN(t), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	assert.True(t, db.Migrator().HasTable(&models.CacheEntry{}))
	assert.True(t, db.Migrator().HasIndex(&models.CacheEntry{}, "idx_cache_query_hash"))
}

func TestOpenCleansDuplicatesAndExpiredRows(t *testing.T) {
	dsn := memoryDSN(t)

	// Keep one connection alive so the shared in-memory database survives.
	raw, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(raw) })

	require.NoError(t, raw.Exec(`CREATE TABLE search_cache_entries (
		id integer PRIMARY KEY AUTOINCREMENT,
		query_hash text NOT NULL,
		normalized_query text,
		results text,
		created_at datetime,
		expires_at datetime NOT NULL
	)`).Error)

	future := time.Now().Add(time.Hour)
	past := time.Now().Add(-time.Hour)
	for _, row := range []struct {
		hash    string
		query   string
		expires time.Time
	}{
		{"h1", "old charizard", future},
		{"h1", "new charizard", future},
		{"h2", "stale pikachu", past},
	} {
		require.NoError(t, raw.Exec(
			`INSERT INTO search_cache_entries (query_hash, normalized_query, results, created_at, expires_at) VALUES (?, ?, '[]', ?, ?)`,
			row.hash, row.query, time.Now(), row.expires,
		).Error)
	}

	db, err := Open(dsn, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	var entries []models.CacheEntry
	require.NoError(t, db.Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, "h1", entries[0].QueryHash)
	assert.Equal(t, "new charizard", entries[0].NormalizedQuery)
}
