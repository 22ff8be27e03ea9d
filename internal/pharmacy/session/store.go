package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"eczane_backend/platform/logger"
)

const minSweepInterval = time.Second

// BuildFunc creates a fresh session.
type BuildFunc func(id uuid.UUID, clientIP string) *Session

// Store holds live sessions and evicts idle ones.
type Store struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session

	ttl   time.Duration
	build BuildFunc
	now   func() time.Time
	log   *logger.Logger
}

// NewStore creates an empty store whose sessions expire after ttl of
// inactivity.
func NewStore(ttl time.Duration, build BuildFunc, log *logger.Logger) *Store {
	return &Store{
		sessions: make(map[uuid.UUID]*Session),
		ttl:      ttl,
		build:    build,
		now:      time.Now,
		log:      log,
	}
}

// Get returns the live session id and marks it as seen.
func (s *Store) Get(id uuid.UUID) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if ok {
		sess.touch(s.now())
	}
	return sess, ok
}

// GetOrCreate returns the session id, creating it under a new id when it is
// unknown. created reports whether a new session was built.
func (s *Store) GetOrCreate(id uuid.UUID, clientIP string) (sess *Session, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if existing, ok := s.sessions[id]; ok && id != uuid.Nil {
		existing.touch(now)
		return existing, false
	}

	newID := uuid.New()
	sess = s.build(newID, clientIP)
	sess.touch(now)
	s.sessions[newID] = sess
	s.log.Debug("session created", "session_id", newID.String())
	return sess, true
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Hold keeps sess from expiring until release is called. Requests that can
// outlive the TTL, like event streams, hold their session. release marks the
// session as seen and may be called more than once.
func (s *Store) Hold(sess *Session) (release func()) {
	sess.held.Add(1)
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			sess.touch(s.now())
			s.mu.Unlock()
			sess.held.Add(-1)
		})
	}
}

// Sweep evicts sessions idle for longer than the TTL. A session whose search
// is still loading, or that is held, is kept. Returns the number evicted.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	evicted := 0
	for id, sess := range s.sessions {
		if sess.LastSeen().After(cutoff) || sess.Controller.Loading() || sess.held.Load() > 0 {
			continue
		}
		delete(s.sessions, id)
		evicted++
	}
	if evicted > 0 {
		s.log.Info("expired sessions evicted", "count", evicted, "remaining", len(s.sessions))
	}
	return evicted
}

// Run sweeps periodically until ctx is done.
func (s *Store) Run(ctx context.Context) error {
	interval := s.ttl / 2
	if interval < minSweepInterval {
		interval = minSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Drain waits for the in-flight searches of every live session.
func (s *Store) Drain() {
	s.mu.Lock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.Controller.Drain()
	}
}
