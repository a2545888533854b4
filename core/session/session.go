package session

import (
	"sync"

	"github.com/pkg/errors"
)

// ErrEmptyToken is returned when an empty credential is set on the store.
var ErrEmptyToken = errors.New("session: empty token")

// Session represents the operator's authenticated state. A token is present
// if and only if the operator is considered authenticated; no validity or
// expiry check is performed locally.
type Session struct {
	Token string `json:"userToken"`
}

func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Repository persists the session across process restarts.
type Repository interface {
	Load() (Session, error)
	Save(Session) error
	Clear() error
}

// Store is the single source of truth for the session token. Mutations hit
// the repository before memory, so a restart right after SetToken always
// recovers the token. A failing repository degrades the store to
// memory-only for the rest of the process; it never fails the caller.
type Store struct {
	mu        sync.RWMutex
	repo      Repository
	sess      Session
	degraded  bool
	observers []func(Session)
}

// NewStore reads the persisted session back and returns a ready store.
func NewStore(repo Repository) *Store {
	s := &Store{repo: repo}
	sess, err := repo.Load()
	if err != nil {
		s.degraded = true
		return s
	}
	s.sess = sess
	return s
}

// Token returns the current token, or "" when unauthenticated.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess.Token
}

// Authenticated reports whether a token is currently held.
func (s *Store) Authenticated() bool {
	return s.Token() != ""
}

// SetToken stores a non-empty token durably, then in memory, and notifies
// observers.
func (s *Store) SetToken(token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	s.mu.Lock()
	sess := Session{Token: token}
	if err := s.repo.Save(sess); err != nil {
		s.degraded = true
	}
	s.sess = sess
	observers := s.observers
	s.mu.Unlock()

	for _, fn := range observers {
		fn(sess)
	}
	return nil
}

// ClearToken removes the token from durable storage and memory. Clearing an
// already-empty session is a no-op.
func (s *Store) ClearToken() {
	s.mu.Lock()
	if s.sess.Token == "" {
		s.mu.Unlock()
		return
	}
	if err := s.repo.Clear(); err != nil {
		s.degraded = true
	}
	s.sess = Session{}
	observers := s.observers
	s.mu.Unlock()

	for _, fn := range observers {
		fn(Session{})
	}
}

// Notify registers fn to be called after every session mutation.
func (s *Store) Notify(fn func(Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Degraded reports whether durable storage has failed at least once and the
// store is running memory-only.
func (s *Store) Degraded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.degraded
}
