// Package store holds the resume document aggregate and its mutation operations.
package store

import (
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/types"
	"go.uber.org/zap"
)

// Listener receives a snapshot after every successful mutation.
// Listeners must not call mutating Store methods.
type Listener func(types.ResumeData)

type subscription struct {
	id int
	fn Listener
}

// Store is the single source of truth for one resume document.
// All writes go through its methods; reads return deep copies.
type Store struct {
	writeMu sync.Mutex // serializes mutation and notification
	mu      sync.RWMutex
	doc     types.ResumeData

	subMu  sync.Mutex
	subs   []subscription
	nextID int

	now      func() time.Time
	newID    func() string
	logger   *zap.Logger
	validate *validator.Validate
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the time source used for lastUpdated
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the entity id generator
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithLogger sets the logger used for rejected or ignored operations
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// New creates a store holding an empty document
func New(opts ...Option) *Store {
	s := &Store{
		now:      time.Now,
		newID:    uuid.NewString,
		logger:   zap.NewNop(),
		validate: newValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.doc = types.NewResumeData(s.now())
	return s
}

// Snapshot returns an immutable deep copy of the whole document
func (s *Store) Snapshot() types.ResumeData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// GetResumeData is the read accessor used by renderers and exporters
func (s *Store) GetResumeData() types.ResumeData {
	return s.Snapshot()
}

// Subscribe registers fn to be called after each mutation, in registration
// order. The returned function removes the subscription.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// mutate applies fn to a draft copy of the document. The draft replaces the
// document only when fn reports a change and no error, so a failed mutation
// never leaves partial state behind.
func (s *Store) mutate(fn func(doc *types.ResumeData) (bool, error)) error {
	return s.commit(fn, true)
}

func (s *Store) commit(fn func(doc *types.ResumeData) (bool, error), stamp bool) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	draft := s.doc.Clone()
	s.mu.RUnlock()

	changed, err := fn(&draft)
	if err != nil || !changed {
		return err
	}
	if stamp {
		draft.ResumeMetadata.LastUpdated = s.timestamp()
	}

	s.mu.Lock()
	s.doc = draft
	s.mu.Unlock()

	s.notify(draft)
	return nil
}

func (s *Store) notify(doc types.ResumeData) {
	s.subMu.Lock()
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()

	for _, sub := range subs {
		sub.fn(doc.Clone())
	}
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}

// Ptr returns a pointer to v, for building patches
func Ptr[T any](v T) *T {
	return &v
}
