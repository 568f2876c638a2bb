package store

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "modernc.org/sqlite"

	"fragments/internal/models"
)

const (
	backendName = "sqlite"

	busyTimeoutMS   = 5000
	maxOpenConns    = 1
	maxIdleConns    = 1
	connMaxLifetime = 5 * time.Minute
)

// Store is the SQLite metadata store.
type Store struct {
	db *sql.DB
}

// Open opens the SQLite database and applies pending migrations.
func Open(path string) (*Store, error) {
	dsn, err := sqliteDSN(path)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := configureDB(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Put upserts one record. The first write fixes created_at.
func (s *Store) Put(ctx context.Context, ownerID, id string, record []byte) error {
	if err := validateKey(ownerID, id); err != nil {
		return err
	}
	now := formatTime(time.Now())
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fragments (owner_id, id, record, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(owner_id, id) DO UPDATE SET
			record = excluded.record,
			updated_at = excluded.updated_at
	`, ownerID, id, string(record), now, now)
	return models.WrapStorage(backendName, "put", models.StorageKey(ownerID, id), err)
}

// Get returns one record, or nil when absent.
func (s *Store) Get(ctx context.Context, ownerID, id string) ([]byte, error) {
	if err := validateKey(ownerID, id); err != nil {
		return nil, err
	}
	var record string
	err := s.db.QueryRowContext(ctx, "SELECT record FROM fragments WHERE owner_id = ? AND id = ?", ownerID, id).Scan(&record)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, models.WrapStorage(backendName, "get", models.StorageKey(ownerID, id), err)
	}
	return []byte(record), nil
}

// Query lists all records for one owner in insertion order.
func (s *Store) Query(ctx context.Context, ownerID string) ([][]byte, error) {
	if err := validateOwner(ownerID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, "SELECT record FROM fragments WHERE owner_id = ? ORDER BY rowid ASC", ownerID)
	if err != nil {
		return nil, models.WrapStorage(backendName, "query", ownerID, err)
	}
	defer rows.Close()

	records := [][]byte{}
	for rows.Next() {
		var record string
		if err := rows.Scan(&record); err != nil {
			return nil, models.WrapStorage(backendName, "query", ownerID, err)
		}
		records = append(records, []byte(record))
	}
	if err := rows.Err(); err != nil {
		return nil, models.WrapStorage(backendName, "query", ownerID, err)
	}
	return records, nil
}

// Delete removes one record. Missing records are ignored.
func (s *Store) Delete(ctx context.Context, ownerID, id string) error {
	if err := validateKey(ownerID, id); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, "DELETE FROM fragments WHERE owner_id = ? AND id = ?", ownerID, id)
	return models.WrapStorage(backendName, "delete", models.StorageKey(ownerID, id), err)
}

func configureDB(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		fmt.Sprintf("PRAGMA busy_timeout = %d;", busyTimeoutMS),
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	// Tune connection pool for local usage.
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	return nil
}

func sqliteDSN(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("db path is required")
	}
	u := url.URL{Scheme: "file", Path: path}
	return u.String(), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
