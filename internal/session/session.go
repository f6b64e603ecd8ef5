// Package session owns the identity of the user bound to this client and
// keeps it in durable storage between runs.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/balkashynov/healthmate/internal/models"
)

// ErrNoSession is returned by operations that need a logged in user
var ErrNoSession = errors.New("not logged in")

var errCorruptRecord = errors.New("persisted session is corrupt")

// Session is the authenticated identity bound to the client
type Session struct {
	UserID         int64  `json:"id"`
	Name           string `json:"name"`
	Age            int    `json:"age"`
	CaregiverEmail string `json:"caregiver_email"`
}

// FromUser builds a session for a user record returned by the service
func FromUser(u models.User) Session {
	return Session{
		UserID:         u.ID,
		Name:           u.Name,
		Age:            u.Age,
		CaregiverEmail: u.CaregiverEmail,
	}
}

// Persister is durable key/value storage for the serialized session
type Persister interface {
	Load(ctx context.Context, key string) (string, bool, error)
	Save(ctx context.Context, key, payload string) error
	Delete(ctx context.Context, key string) error
}

// Listener is told about every identity change. It receives nil on logout.
type Listener func(*Session)

// Store holds the current session
type Store struct {
	persister Persister
	key       string
	logger    *slog.Logger

	mu        sync.RWMutex
	current   *Session
	restored  bool
	listeners []Listener
}

// NewStore builds a store that persists under key
func NewStore(persister Persister, key string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		persister: persister,
		key:       key,
		logger:    logger.With("component", "session"),
	}
}

// Subscribe registers fn for identity changes
func (s *Store) Subscribe(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Restore installs the persisted session, if one exists and is well-formed.
// Only the first call does anything. An unreadable or corrupt record leaves
// the store unauthenticated; only cancellation of ctx is returned.
func (s *Store) Restore(ctx context.Context) error {
	s.mu.Lock()
	if s.restored {
		s.mu.Unlock()
		return nil
	}
	s.restored = true
	s.mu.Unlock()

	payload, ok, err := s.persister.Load(ctx, s.key)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("load session: %w", ctxErr)
		}
		s.logger.Warn("session storage unreadable, continuing logged out", "error", err)
		s.set(nil)
		return nil
	}
	if !ok {
		s.logger.Debug("no persisted session")
		s.set(nil)
		return nil
	}

	restored, err := decode(payload)
	if err != nil {
		s.logger.Debug("ignoring persisted session", "error", err)
		s.set(nil)
		return nil
	}

	s.logger.Debug("session restored", "user_id", restored.UserID)
	s.set(&restored)
	return nil
}

// Login makes sess the current session and persists it, overwriting any
// earlier record. The current session is unchanged if persisting fails.
func (s *Store) Login(ctx context.Context, sess Session) error {
	if sess.UserID <= 0 {
		return fmt.Errorf("login: invalid user id %d", sess.UserID)
	}

	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.persister.Save(ctx, s.key, string(payload)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	s.mu.Lock()
	s.restored = true
	s.mu.Unlock()

	s.logger.Info("logged in", "user_id", sess.UserID)
	s.set(&sess)
	return nil
}

// Logout clears the current session and removes the persisted record
func (s *Store) Logout(ctx context.Context) error {
	s.set(nil)
	if err := s.persister.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.logger.Info("logged out")
	return nil
}

// Current returns a copy of the current session
func (s *Store) Current() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

// Require returns the current session or ErrNoSession
func (s *Store) Require() (Session, error) {
	sess, ok := s.Current()
	if !ok {
		return Session{}, ErrNoSession
	}
	return sess, nil
}

// set swaps the current session and notifies listeners outside the lock
func (s *Store) set(sess *Session) {
	s.mu.Lock()
	s.current = sess
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		if sess == nil {
			fn(nil)
			continue
		}
		snapshot := *sess
		fn(&snapshot)
	}
}

func decode(payload string) (Session, error) {
	var sess Session
	if err := json.Unmarshal([]byte(payload), &sess); err != nil {
		return Session{}, fmt.Errorf("%w: %v", errCorruptRecord, err)
	}
	if sess.UserID <= 0 {
		return Session{}, fmt.Errorf("%w: missing user id", errCorruptRecord)
	}
	return sess, nil
}
