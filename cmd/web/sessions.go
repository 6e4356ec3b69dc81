package main

import (
	"sync"
	"time"

	"github.com/myrjola/spbot/internal/encounter"
)

// sessionIdleTimeout drops encounters the trainee walked away from.
const sessionIdleTimeout = 12 * time.Hour

type sessionEntry struct {
	session  *encounter.Session
	lastUsed time.Time
}

// sessionStore keeps the live encounters of this process by conversation id. Encounters are not shared between
// processes, so every turn of a conversation must reach the process that started it.
type sessionStore struct {
	mu      sync.Mutex
	entries map[string]*sessionEntry
	now     func() time.Time
}

func newSessionStore() *sessionStore {
	return &sessionStore{
		mu:      sync.Mutex{},
		entries: make(map[string]*sessionEntry),
		now:     time.Now,
	}
}

// put replaces the encounter of the conversation and evicts idle ones.
func (s *sessionStore) put(sess *encounter.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, e := range s.entries {
		if now.Sub(e.lastUsed) > sessionIdleTimeout {
			delete(s.entries, id)
		}
	}
	s.entries[sess.ConversationID] = &sessionEntry{session: sess, lastUsed: now}
}

func (s *sessionStore) get(conversationID string) (*encounter.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[conversationID]
	if !ok {
		return nil, false
	}
	e.lastUsed = s.now()
	return e.session, true
}
