package searcherator

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteCache is a persistent Cache backed by a local SQLite file, for
// callers that want cached searches to survive process restarts. It
// implements the same best-effort contract as the in-memory cache: a
// storage failure surfaces as a miss or a dropped write, never as a
// failed search.
type SQLiteCache struct {
	db *sql.DB
}

// NewSQLiteCache opens (or creates) the cache database at dbPath.
func NewSQLiteCache(dbPath string) (*SQLiteCache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// SQLite allows one writer at a time; funneling through a single
	// connection avoids SQLITE_BUSY under concurrent searches.
	db.SetMaxOpenConns(1)

	cache := &SQLiteCache{db: db}
	if err := cache.initTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache tables: %w", err)
	}

	return cache, nil
}

func (c *SQLiteCache) initTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS search_cache (
			key TEXT PRIMARY KEY,
			payload BLOB NOT NULL,
			expires_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_search_cache_expires ON search_cache(expires_at)`,
	}

	for _, query := range queries {
		if _, err := c.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute SQL: %s, error: %w", query, err)
		}
	}

	return nil
}

func (c *SQLiteCache) Get(key string) (Document, bool) {
	var payload []byte
	var expiresAt int64
	err := c.db.QueryRow(
		"SELECT payload, expires_at FROM search_cache WHERE key = ?",
		key,
	).Scan(&payload, &expiresAt)
	if err != nil {
		return nil, false
	}

	if time.Now().UnixNano() > expiresAt {
		_, _ = c.db.Exec("DELETE FROM search_cache WHERE key = ?", key)
		return nil, false
	}

	var doc Document
	if err := json.Unmarshal(payload, &doc); err != nil {
		_, _ = c.db.Exec("DELETE FROM search_cache WHERE key = ?", key)
		return nil, false
	}

	return doc, true
}

func (c *SQLiteCache) Set(key string, doc Document, ttl time.Duration) {
	payload, err := json.Marshal(doc)
	if err != nil {
		return
	}

	expiresAt := time.Now().Add(ttl).UnixNano()
	_, _ = c.db.Exec(
		"INSERT OR REPLACE INTO search_cache (key, payload, expires_at) VALUES (?, ?, ?)",
		key, payload, expiresAt,
	)
}

func (c *SQLiteCache) Delete(key string) {
	_, _ = c.db.Exec("DELETE FROM search_cache WHERE key = ?", key)
}

func (c *SQLiteCache) Clear() {
	_, _ = c.db.Exec("DELETE FROM search_cache")
}

// PruneExpired removes every expired row. The read path already treats
// expired rows as misses; this reclaims the disk space.
func (c *SQLiteCache) PruneExpired() error {
	_, err := c.db.Exec(
		"DELETE FROM search_cache WHERE expires_at < ?",
		time.Now().UnixNano(),
	)
	return err
}

// Len reports the number of stored rows, expired ones included until
// pruned.
func (c *SQLiteCache) Len() (int, error) {
	var n int
	err := c.db.QueryRow("SELECT COUNT(*) FROM search_cache").Scan(&n)
	return n, err
}

// Close releases the underlying database handle.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}
