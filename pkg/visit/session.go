package visit

import (
	"sync"
)

// SessionStore keeps one workflow draft per user. Workflow state itself is
// only ever touched by the owning user's requests; the mutex guards the map.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Workflow
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Workflow),
	}
}

func (s *SessionStore) Get(userID string) (*Workflow, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wf, ok := s.sessions[userID]
	return wf, ok
}

func (s *SessionStore) GetOrCreate(userID string) *Workflow {
	s.mu.Lock()
	defer s.mu.Unlock()
	if wf, ok := s.sessions[userID]; ok {
		return wf
	}
	wf := NewWorkflow()
	s.sessions[userID] = wf
	return wf
}

func (s *SessionStore) Drop(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}
