package intake

import (
	"errors"
	"sync"
	"time"
)

// ErrSessionNotFound is returned by Store.Get for unknown or expired
// session IDs, and for sessions owned by someone else.
var ErrSessionNotFound = errors.New("intake: session not found")

// DefaultSessionTTL caps how long an idle session is kept around.
const DefaultSessionTTL = 30 * time.Minute

// Store keeps active sessions in memory, keyed by session ID and
// tagged with an owner. Restarting the process drops them, which
// matches the session lifecycle: a session never outlives the screen
// that created it.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]storeEntry
	ttl      time.Duration
}

type storeEntry struct {
	session *Session
	owner   string
}

// NewStore creates a store; ttl <= 0 falls back to DefaultSessionTTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Store{
		sessions: make(map[string]storeEntry),
		ttl:      ttl,
	}
}

// Put registers a session under an owner and returns its ID.
func (st *Store) Put(s *Session, owner string) string {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sweepLocked()
	st.sessions[s.ID()] = storeEntry{session: s, owner: owner}
	return s.ID()
}

// Get returns the session for id. An owner mismatch is reported the
// same way as a missing session.
func (st *Store) Get(id, owner string) (*Session, error) {
	st.mu.RLock()
	e, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok || e.owner != owner {
		return nil, ErrSessionNotFound
	}
	if time.Since(e.session.idleSince()) > st.ttl {
		st.Delete(id)
		return nil, ErrSessionNotFound
	}
	return e.session, nil
}

// Delete cancels and removes the session. Removing an unknown ID is a
// no-op.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	e, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()
	if ok {
		e.session.Cancel()
	}
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

func (st *Store) sweepLocked() {
	for id, e := range st.sessions {
		if time.Since(e.session.idleSince()) > st.ttl {
			delete(st.sessions, id)
		}
	}
}
