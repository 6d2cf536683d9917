package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS resume_sessions (
	session_id TEXT PRIMARY KEY,
	document   TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);`

// SQLiteBackend stores documents in a local SQLite file, for CLI sessions
// that outlive one process.
type SQLiteBackend struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path
func OpenSQLite(path string) (*SQLiteBackend, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer at a time; sqlite locks the file anyway
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLiteBackend{db: db}, nil
}

// Load implements Backend
func (b *SQLiteBackend) Load(ctx context.Context, sessionID string) ([]byte, error) {
	var doc string
	err := b.db.QueryRowContext(ctx,
		`SELECT document FROM resume_sessions WHERE session_id = ?`, sessionID,
	).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return []byte(doc), nil
}

// Save implements Backend
func (b *SQLiteBackend) Save(ctx context.Context, sessionID string, document []byte) error {
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO resume_sessions (session_id, document, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			document = excluded.document,
			updated_at = excluded.updated_at`,
		sessionID, string(document), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete implements Backend
func (b *SQLiteBackend) Delete(ctx context.Context, sessionID string) error {
	if _, err := b.db.ExecContext(ctx, `DELETE FROM resume_sessions WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Close closes the database
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
