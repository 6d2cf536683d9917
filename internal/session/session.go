// Package session persists the document of an editing session so that it
// survives a round trip to the preview page but not a reload.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/store"
	"github.com/jonathan/resume-builder/internal/types"
	"go.uber.org/zap"
)

// Navigation describes how the editor was reached
type Navigation int

const (
	// NavigationFresh is a first visit in a new tab or window
	NavigationFresh Navigation = iota
	// NavigationReload is a page reload without the from-preview flag
	NavigationReload
	// NavigationFromPreview is a return from the preview page
	NavigationFromPreview
)

func (n Navigation) String() string {
	switch n {
	case NavigationReload:
		return "reload"
	case NavigationFromPreview:
		return "from-preview"
	default:
		return "fresh"
	}
}

// ParseNavigation parses the names produced by Navigation.String
func ParseNavigation(s string) (Navigation, error) {
	switch s {
	case "", "fresh":
		return NavigationFresh, nil
	case "reload":
		return NavigationReload, nil
	case "from-preview", "fromPreview":
		return NavigationFromPreview, nil
	}
	return NavigationFresh, fmt.Errorf("unknown navigation %q", s)
}

// Error reports a failed backend operation
type Error struct {
	SessionID string
	Message   string
	Cause     error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("session %s: %s: %v", e.SessionID, e.Message, e.Cause)
	}
	return fmt.Sprintf("session %s: %s", e.SessionID, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Backend stores one serialized document per session id
type Backend interface {
	// Load returns the saved document, or nil when there is none
	Load(ctx context.Context, sessionID string) ([]byte, error)
	Save(ctx context.Context, sessionID string, document []byte) error
	Delete(ctx context.Context, sessionID string) error
}

// MemoryBackend keeps documents in process memory
type MemoryBackend struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryBackend creates an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{docs: make(map[string][]byte)}
}

// Load implements Backend
func (m *MemoryBackend) Load(_ context.Context, sessionID string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[sessionID]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), doc...), nil
}

// Save implements Backend
func (m *MemoryBackend) Save(_ context.Context, sessionID string, document []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[sessionID] = append([]byte(nil), document...)
	return nil
}

// Delete implements Backend
func (m *MemoryBackend) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, sessionID)
	return nil
}

// PostgresBackend stores documents in the resume_sessions table
type PostgresBackend struct {
	db *db.DB
}

// NewPostgresBackend wraps an open database
func NewPostgresBackend(database *db.DB) *PostgresBackend {
	return &PostgresBackend{db: database}
}

// Load implements Backend
func (p *PostgresBackend) Load(ctx context.Context, sessionID string) ([]byte, error) {
	s, err := p.db.GetSession(ctx, sessionID)
	if err != nil || s == nil {
		return nil, err
	}
	return s.Document, nil
}

// Save implements Backend
func (p *PostgresBackend) Save(ctx context.Context, sessionID string, document []byte) error {
	return p.db.SaveSession(ctx, sessionID, document)
}

// Delete implements Backend
func (p *PostgresBackend) Delete(ctx context.Context, sessionID string) error {
	return p.db.DeleteSession(ctx, sessionID)
}

// Keeper connects a store to a backend for one session
type Keeper struct {
	backend   Backend
	sessionID string
	logger    *zap.Logger
}

// NewKeeper creates a keeper for sessionID
func NewKeeper(backend Backend, sessionID string, logger *zap.Logger) *Keeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Keeper{backend: backend, sessionID: sessionID, logger: logger}
}

// SessionID returns the id the keeper saves under
func (k *Keeper) SessionID() string {
	return k.sessionID
}

// Restore applies the navigation policy to s. Returning from the preview
// restores the saved document; a reload discards it; a fresh visit starts
// empty. It reports whether a saved document was restored.
func (k *Keeper) Restore(ctx context.Context, nav Navigation, s *store.Store) (bool, error) {
	switch nav {
	case NavigationFromPreview:
		raw, err := k.backend.Load(ctx, k.sessionID)
		if err != nil {
			return false, &Error{SessionID: k.sessionID, Message: "failed to load saved document", Cause: err}
		}
		if raw == nil {
			k.logger.Debug("no saved document to restore", zap.String("session_id", k.sessionID))
			return false, nil
		}
		if err := s.ImportDocument(raw); err != nil {
			return false, &Error{SessionID: k.sessionID, Message: "saved document is invalid", Cause: err}
		}
		k.logger.Info("restored session", zap.String("session_id", k.sessionID))
		return true, nil

	case NavigationReload:
		if err := k.backend.Delete(ctx, k.sessionID); err != nil {
			return false, &Error{SessionID: k.sessionID, Message: "failed to clear saved document", Cause: err}
		}
		s.ResetDocument()
		k.logger.Info("cleared session on reload", zap.String("session_id", k.sessionID))
		return false, nil

	default:
		s.ResetDocument()
		return false, nil
	}
}

// Save writes the current document of s to the backend
func (k *Keeper) Save(ctx context.Context, s *store.Store) error {
	return k.save(ctx, s.Snapshot())
}

func (k *Keeper) save(ctx context.Context, doc types.ResumeData) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return &Error{SessionID: k.sessionID, Message: "failed to encode document", Cause: err}
	}
	if err := k.backend.Save(ctx, k.sessionID, raw); err != nil {
		return &Error{SessionID: k.sessionID, Message: "failed to save document", Cause: err}
	}
	return nil
}

// Attach saves every snapshot s publishes until the returned function is
// called. Save failures are logged, not returned.
func (k *Keeper) Attach(ctx context.Context, s *store.Store) (detach func()) {
	return s.Subscribe(func(doc types.ResumeData) {
		if err := k.save(ctx, doc); err != nil {
			k.logger.Warn("autosave failed", zap.String("session_id", k.sessionID), zap.Error(err))
		}
	})
}
