package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// SaveSession upserts the document snapshot of a session
func (db *DB) SaveSession(ctx context.Context, sessionID string, document []byte) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO resume_sessions (session_id, document)
		 VALUES ($1, $2)
		 ON CONFLICT (session_id) DO UPDATE SET document = $2, updated_at = NOW()`,
		sessionID, document,
	)
	if err != nil {
		return fmt.Errorf("failed to save session %s: %w", sessionID, err)
	}
	return nil
}

// GetSession retrieves a session, or nil when none is stored
func (db *DB) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	var s Session
	err := db.pool.QueryRow(ctx,
		`SELECT session_id, document, updated_at
		 FROM resume_sessions WHERE session_id = $1`,
		sessionID,
	).Scan(&s.ID, &s.Document, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session %s: %w", sessionID, err)
	}
	return &s, nil
}

// DeleteSession removes a session; deleting a missing session is not an error
func (db *DB) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM resume_sessions WHERE session_id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	return nil
}
