package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is one browser session. It doubles as the engine's
// authentication oracle: a session without a token is a guest.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu    sync.RWMutex
	token string
	name  string
}

func (s *Session) IsAuthenticated() bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

func (s *Session) DisplayName() string {
	if s == nil {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

// Token returns the bearer token for outbound API calls; empty for guests.
func (s *Session) Token() string {
	if s == nil {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Attach binds an authenticated identity to the session.
func (s *Session) Attach(token, displayName string) {
	s.mu.Lock()
	s.token = token
	s.name = displayName
	s.mu.Unlock()
}

// Detach logs the session out.
func (s *Session) Detach() {
	s.mu.Lock()
	s.token = ""
	s.name = ""
	s.mu.Unlock()
}

// Store keeps sessions in memory, scoped to the process lifetime. There is
// deliberately no persistence: session state lives exactly as long as the
// page session it backs.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

func (st *Store) Create() *Session {
	s := &Session{ID: uuid.NewString(), CreatedAt: time.Now()}
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}
