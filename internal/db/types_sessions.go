package db

import "time"

// SchemaSQL creates the session snapshot table
const SchemaSQL = `CREATE TABLE IF NOT EXISTS resume_sessions (
	session_id   TEXT PRIMARY KEY,
	document     JSONB NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// Session is a saved editing session
type Session struct {
	ID        string    `json:"session_id"`
	Document  []byte    `json:"document"`
	UpdatedAt time.Time `json:"updated_at"`
}
