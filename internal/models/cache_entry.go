package models

import (
	"time"
)

// CacheEntry stores one ranked result set keyed by the hash of its normalized query.
// Entries are never mutated: a newer write with the same hash replaces the row.
type CacheEntry struct {
	ID              uint        `json:"-" gorm:"primaryKey"`
	QueryHash       string      `json:"query_hash" gorm:"not null;uniqueIndex:idx_cache_query_hash"`
	NormalizedQuery string      `json:"normalized_query"`
	Results         []Candidate `json:"results" gorm:"type:text;serializer:json"`
	CreatedAt       time.Time   `json:"created_at"`
	ExpiresAt       time.Time   `json:"expires_at" gorm:"not null;index"`
}

// TableName keeps the table name stable regardless of gorm naming strategy.
func (CacheEntry) TableName() string {
	return "search_cache_entries"
}

// Expired reports whether the entry must be treated as absent at now.
func (e *CacheEntry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}
