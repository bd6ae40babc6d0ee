package client

import "sync"

// SessionState is the persisted form of a session.
type SessionState struct {
	UserID       string `yaml:"userId"`
	Role         string `yaml:"role"`
	AccessToken  string `yaml:"accessToken"`
	RefreshToken string `yaml:"refreshToken"`
}

// Session is the signed-in identity a Client sends with each request. It is
// safe for concurrent use.
type Session struct {
	mu sync.RWMutex
	st SessionState
}

func NewSession(st SessionState) *Session { return &Session{st: st} }

func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st
}

func (s *Session) set(st SessionState) {
	s.mu.Lock()
	s.st = st
	s.mu.Unlock()
}

func (s *Session) setTokens(access, refresh string) {
	s.mu.Lock()
	s.st.AccessToken, s.st.RefreshToken = access, refresh
	s.mu.Unlock()
}

// Clear forgets the identity and both tokens.
func (s *Session) Clear() { s.set(SessionState{}) }

func (s *Session) SignedIn() bool {
	st := s.State()
	return st.UserID != "" && st.AccessToken != ""
}

func (s *Session) IsAdmin() bool { return s.State().Role == "admin" }
