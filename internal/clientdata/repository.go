// Package clientdata provides persistent caching for NAV provider responses.
// Values are stored as msgpack blobs with expiration timestamps for
// cache-first behavior.
package clientdata

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// AllTables lists all tables in the cache database for cleanup operations.
var AllTables = []string{
	"nav_history",
	"fund_meta",
	"fund_list",
}

// validTables is a set for O(1) table name validation.
var validTables = func() map[string]bool {
	m := make(map[string]bool, len(AllTables))
	for _, t := range AllTables {
		m[t] = true
	}
	return m
}()

// Repository provides cache operations for provider data.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new cache repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// validateTable ensures the table name is in our allowed list.
// This prevents SQL injection through table names.
func validateTable(table string) error {
	if !validTables[table] {
		return fmt.Errorf("invalid table name: %s", table)
	}
	return nil
}

// Store saves a value with expiration = now + ttl.
// Uses INSERT OR REPLACE to upsert data.
func (r *Repository) Store(table, key string, v interface{}, ttl time.Duration) error {
	if err := validateTable(table); err != nil {
		return err
	}

	blob, err := msgpack.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	expiresAt := time.Now().Add(ttl).Unix()

	query := fmt.Sprintf(
		"INSERT OR REPLACE INTO %s (cache_key, data, expires_at) VALUES (?, ?, ?)",
		table,
	)
	if _, err := r.db.Exec(query, key, blob, expiresAt); err != nil {
		return fmt.Errorf("failed to store data in %s: %w", table, err)
	}

	return nil
}

// GetIfFresh unmarshals the value into dst only if expires_at > now.
// Returns false when the key doesn't exist or the value is expired.
// Use Get to retrieve stale data as a fallback when provider calls fail.
func (r *Repository) GetIfFresh(table, key string, dst interface{}) (bool, error) {
	if err := validateTable(table); err != nil {
		return false, err
	}

	now := time.Now().Unix()
	query := fmt.Sprintf(
		"SELECT data FROM %s WHERE cache_key = ? AND expires_at > ?",
		table,
	)

	return r.scan(query, dst, key, now)
}

// Get unmarshals the value into dst regardless of expiration status.
// Stale data is better than no data when the provider is down.
// Returns false when the key doesn't exist.
func (r *Repository) Get(table, key string, dst interface{}) (bool, error) {
	if err := validateTable(table); err != nil {
		return false, err
	}

	query := fmt.Sprintf("SELECT data FROM %s WHERE cache_key = ?", table)
	return r.scan(query, dst, key)
}

func (r *Repository) scan(query string, dst interface{}, args ...interface{}) (bool, error) {
	var blob []byte
	err := r.db.QueryRow(query, args...).Scan(&blob)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cache: %w", err)
	}

	if err := msgpack.Unmarshal(blob, dst); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

// Delete removes a single cache entry. Missing keys are not an error.
func (r *Repository) Delete(table, key string) error {
	if err := validateTable(table); err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE cache_key = ?", table)
	if _, err := r.db.Exec(query, key); err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	return nil
}

// CleanupExpired deletes entries past a grace period beyond their expiration.
// Entries within the grace period are kept so they remain available as stale
// fallbacks. Returns the number of rows removed across all tables.
func (r *Repository) CleanupExpired(grace time.Duration) (int64, error) {
	cutoff := time.Now().Add(-grace).Unix()

	var total int64
	for _, table := range AllTables {
		query := fmt.Sprintf("DELETE FROM %s WHERE expires_at < ?", table)
		res, err := r.db.Exec(query, cutoff)
		if err != nil {
			return total, fmt.Errorf("failed to clean up %s: %w", table, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			total += n
		}
	}
	return total, nil
}
