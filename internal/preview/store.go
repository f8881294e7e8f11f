package preview

import (
	"sync"
	"time"

	"agency-ledger/internal/csvimport"
	"agency-ledger/internal/models"

	"github.com/google/uuid"
)

// Store keeps open import sessions in memory, keyed by ID and scoped by tenant.
// Sessions left untouched for longer than the TTL are dropped lazily on access.
// Contents are lost on restart.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewStore creates a store; a ttl of zero keeps sessions until removed.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[uuid.UUID]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// OpenParams describes a freshly staged file.
type OpenParams struct {
	TenantID         uuid.UUID
	UserID           uuid.UUID
	FileName         string
	Result           *csvimport.Result
	RulesUnavailable bool
}

// Open registers a new session holding a copy of the staged rows.
func (s *Store) Open(p OpenParams) *Session {
	sess := &Session{
		id:               uuid.New(),
		tenantID:         p.TenantID,
		userID:           p.UserID,
		format:           p.Result.Format,
		fileName:         p.FileName,
		rows:             models.CloneStaged(p.Result.Rows),
		skipped:          append([]csvimport.SkippedRow(nil), p.Result.Skipped...),
		matched:          p.Result.Matched,
		rulesUnavailable: p.RulesUnavailable,
		createdAt:        s.now(),
		state:            StateOpen,
	}
	sess.touchedAt = sess.createdAt

	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()
	s.sessions[sess.id] = sess
	return sess
}

// Get returns the tenant's session and restarts its idle timer. Sessions of other
// tenants are reported as not found.
func (s *Store) Get(tenantID, id uuid.UUID) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()

	sess, ok := s.sessions[id]
	if !ok || sess.tenantID != tenantID {
		return nil, ErrSessionNotFound
	}
	sess.touchedAt = s.now()
	return sess, nil
}

// Touch restarts a session's idle timer, e.g. after a slow failed commit.
func (s *Store) Touch(tenantID, id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok && sess.tenantID == tenantID {
		sess.touchedAt = s.now()
	}
}

// Remove forgets a session.
func (s *Store) Remove(tenantID, id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok && sess.tenantID == tenantID {
		delete(s.sessions, id)
	}
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Store) purgeLocked() {
	if s.ttl <= 0 {
		return
	}
	cutoff := s.now().Add(-s.ttl)
	for id, sess := range s.sessions {
		if sess.touchedAt.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
