// Package sqlite provides a SQLite-backed snapshot store for single-node
// deployments that want durable carts without running Redis.
//
// WAL mode is enabled on Open so readers never block writers — a cart read
// on one request can overlap a snapshot write on another.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// Register the pure-Go SQLite driver. modernc.org/sqlite avoids CGO,
	// which keeps cross-compilation and Alpine images simple.
	_ "modernc.org/sqlite"
)

// schema is the DDL executed once on Open. One row per cart key; Save
// upserts, so the table never grows past the number of live sessions.
const schema = `
CREATE TABLE IF NOT EXISTS cart_snapshots (
    -- Session key the cart is stored under.
    key        TEXT PRIMARY KEY,

    -- Serialised cart lines (JSON array of {id, name, price, quantity}).
    snapshot   TEXT NOT NULL,

    -- Wall-clock time of the last write (RFC3339 stored as TEXT, SQLite idiom).
    updated_at TEXT NOT NULL
);
`

// Store is the SQLite implementation of the snapshot store.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
//
//	st, err := sqlite.Open("./data/storefront.db")
func Open(path string) (*Store, error) {
	// The pure-Go driver takes _pragma query parameters. busy_timeout waits
	// for locks instead of failing immediately.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	// Use "sqlite", not "sqlite3", for the modernc driver.
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle. Call it with defer in main().
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Load(ctx context.Context, key string) (string, bool, error) {
	const q = `SELECT snapshot FROM cart_snapshots WHERE key = ?`

	var snapshot string
	err := s.db.QueryRowContext(ctx, q, key).Scan(&snapshot)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("sqlite: load snapshot %q: %w", key, err)
	}
	return snapshot, true, nil
}

func (s *Store) Save(ctx context.Context, key, value string) error {
	const q = `
		INSERT INTO cart_snapshots (key, snapshot, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			snapshot   = excluded.snapshot,
			updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, q, key, value, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("sqlite: save snapshot %q: %w", key, err)
	}
	return nil
}
