package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Repository implements repository.BlobRepository using SQLite
type Repository struct {
	db *sql.DB
}

// New creates a new SQLite blob repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS blobs (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := r.db.Exec(schema)
	return err
}

// Get returns the blob stored under key, or nil if the key is absent
func (r *Repository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM blobs WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query blob %s: %w", key, err)
	}
	return value, nil
}

// Put stores value under key. The row replace is atomic, so readers never
// observe a partial blob.
func (r *Repository) Put(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO blobs (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to put blob %s: %w", key, err)
	}
	return nil
}

// Delete removes the blob under key; deleting an absent key is a no-op
func (r *Repository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM blobs WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete blob %s: %w", key, err)
	}
	return nil
}

// Keys lists all stored keys with the given prefix
func (r *Repository) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT key FROM blobs WHERE key LIKE ? || '%' ORDER BY key
	`, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to query keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating keys: %w", err)
	}
	return keys, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}
