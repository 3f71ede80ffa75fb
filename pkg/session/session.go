// Package session keeps flip engines alive between HTTP requests.
//
// A [Session] wraps one [flip.Engine] together with the mutex that
// serializes its flips and an expiry time that slides forward on every use.
// Sessions live in a [Store]; the only backend is [MemoryStore], since
// sessions do not outlive the process.
//
// # Usage
//
//	store := session.NewMemoryStore()
//	sess, err := session.New(dissection, session.DefaultTTL)
//	if err != nil {
//	    return err
//	}
//	store.Set(ctx, sess)
//
//	sess, err = store.Get(ctx, id)
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // unknown or expired
//	}
//	err = sess.Do(func(e *flip.Engine) error {
//	    _, err := e.Flip(idx)
//	    return err
//	})
package session

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/dissect/pkg/core/flip"
	"github.com/matzehuels/dissect/pkg/core/poly"
	"github.com/matzehuels/dissect/pkg/errors"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New(errors.ErrCodeNotFound, "session not found")

	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = errors.New(errors.ErrCodeNotFound, "session expired")
)

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 30 * time.Minute

// Session is one flip engine shared across requests.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	engine    *flip.Engine
	ttl       time.Duration
	expiresAt time.Time
	flips     int
}

// New validates d and returns a session around a fresh engine. The session
// ID is the engine ID. The engine has no sink: flips are reported through
// the HTTP response.
func New(d *poly.Dissection, ttl time.Duration) (*Session, error) {
	e, err := flip.New(d, nil)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &Session{
		ID:        e.ID(),
		CreatedAt: now,
		engine:    e,
		ttl:       ttl,
		expiresAt: now.Add(ttl),
	}, nil
}

// IsExpired returns true if the session has been idle longer than its TTL.
func (s *Session) IsExpired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Now().After(s.expiresAt)
}

// Do runs fn with exclusive access to the engine and extends the expiry.
func (s *Session) Do(fn func(e *flip.Engine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expiresAt = time.Now().Add(s.ttl)
	return fn(s.engine)
}

// Flip flips diagonal idx under the session lock and returns the replaced
// and the new diagonal. Out-of-range indices are rejected with an
// INVALID_INPUT error instead of reaching the engine.
func (s *Session) Flip(idx int) (old, next poly.Edge, err error) {
	err = s.Do(func(e *flip.Engine) error {
		if err := errors.ValidateFlipIndex(idx, e.Sides()); err != nil {
			return err
		}
		old = e.Edge(idx)
		next, err = e.Flip(idx)
		s.flips++
		return err
	})
	return old, next, err
}

// Flips returns the number of flips applied through the session.
func (s *Session) Flips() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flips
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns ErrNotFound if the session doesn't exist and ErrExpired if it
	// exists but has expired; an expired session is removed.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, sess *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions.
	Cleanup(ctx context.Context) error
}
