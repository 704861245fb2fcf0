package metadata

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vmunix/plexrename/internal/migrations"
)

// Cache provides SQLite-backed caching for provider responses across runs.
type Cache struct {
	db  *sql.DB
	now func() time.Time
}

// NewCache creates the cache table if needed and returns a cache on db.
func NewCache(db *sql.DB) (*Cache, error) {
	if _, err := db.Exec(migrations.CacheSQL); err != nil {
		return nil, fmt.Errorf("apply cache schema: %w", err)
	}
	return &Cache{db: db, now: time.Now}, nil
}

// Get retrieves a cached value by key.
// Returns nil, false if not found or expired.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	var value string
	var expiresAt time.Time

	err := c.db.QueryRowContext(ctx,
		"SELECT value, expires_at FROM metadata_cache WHERE key = ?", key,
	).Scan(&value, &expiresAt)

	if err != nil || c.now().After(expiresAt) {
		return nil, false
	}
	return []byte(value), true
}

// Set stores a value with the given TTL.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO metadata_cache (key, value, expires_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, string(value), c.now().Add(ttl),
	)
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Prune removes all expired entries and returns how many went.
func (c *Cache) Prune(ctx context.Context) (int64, error) {
	result, err := c.db.ExecContext(ctx,
		"DELETE FROM metadata_cache WHERE expires_at < ?", c.now(),
	)
	if err != nil {
		return 0, fmt.Errorf("cache prune: %w", err)
	}
	return result.RowsAffected()
}
