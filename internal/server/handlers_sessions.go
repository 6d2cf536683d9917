package server

import (
	"io"
	"net/http"

	"github.com/jonathan/resume-builder/internal/session"
	"github.com/jonathan/resume-builder/internal/store"
)

const maxSessionID = 128

func (s *Server) sessionKeeper(r *http.Request) (*session.Keeper, error) {
	id := r.PathValue("id")
	if id == "" || len(id) > maxSessionID {
		return nil, &ErrValidation{Field: "id", Message: "session id must be 1-128 characters"}
	}
	return session.NewKeeper(s.sessions, id, s.logger), nil
}

// handleGetSession returns the document the editor should start from. The
// navigation query parameter selects the restore policy.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	keeper, err := s.sessionKeeper(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	nav, err := session.ParseNavigation(r.URL.Query().Get("navigation"))
	if err != nil {
		s.fail(w, &ErrValidation{Field: "navigation", Message: err.Error()})
		return
	}

	st := store.New(store.WithLogger(s.logger))
	restored, err := keeper.Restore(r.Context(), nav, st)
	if err != nil {
		s.fail(w, err)
		return
	}

	raw, err := st.ExportDocument()
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if restored {
		w.Header().Set("X-Session-Restored", "true")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

// handlePutSession validates and saves a document snapshot
func (s *Server) handlePutSession(w http.ResponseWriter, r *http.Request) {
	keeper, err := s.sessionKeeper(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.fail(w, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}

	st := store.New(store.WithLogger(s.logger))
	if err := st.ImportDocument(raw); err != nil {
		s.fail(w, err)
		return
	}
	if err := keeper.Save(r.Context(), st); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDeleteSession drops a saved snapshot
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	keeper, err := s.sessionKeeper(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	if err := s.sessions.Delete(r.Context(), keeper.SessionID()); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
