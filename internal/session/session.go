// Package session holds the authenticated identity for the running process.
// At most one identity is active at a time; any 401 observed by the API
// client tears it down.
package session

import (
	"context"
	"sync"

	"querypulse/internal/apiclient"
	"querypulse/internal/domain"
)

// API is the slice of the backend the session layer needs.
type API interface {
	Login(ctx context.Context, email, password string) (apiclient.LoginResult, error)
	Register(ctx context.Context, email, password, fullName string) (domain.User, error)
	Me(ctx context.Context) (domain.User, error)
	CompleteOnboarding(ctx context.Context) error
}

// Store is the session container. It implements apiclient.TokenSource so the
// HTTP client always sees the current token, and its Invalidate method is
// wired to the client's 401 hook.
type Store struct {
	mu     sync.Mutex
	api    API
	tokens TokenStore

	token string
	user  *domain.User
}

// NewStore creates an anonymous session. Call CheckAuth to resume a persisted
// one.
func NewStore(api API, tokens TokenStore) *Store {
	if tokens == nil {
		tokens = NewMemoryStore()
	}
	return &Store{api: api, tokens: tokens}
}

// SetAPI injects the backend client. Split from NewStore because the client
// itself needs the store as its token source.
func (s *Store) SetAPI(api API) {
	s.mu.Lock()
	s.api = api
	s.mu.Unlock()
}

// Token returns the current bearer token, or "" when anonymous.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// IsAuthenticated reports whether a user profile is loaded.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

// User returns the loaded profile.
func (s *Store) User() (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

// Login exchanges credentials for a token, persists it, and loads the
// profile. A failed profile fetch rolls the session back to anonymous.
func (s *Store) Login(ctx context.Context, email, password string) error {
	grant, err := s.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	s.setToken(grant.AccessToken)

	user, err := s.api.Me(ctx)
	if err != nil {
		s.Invalidate()
		return err
	}
	s.setUser(user)
	return nil
}

// Register creates the account and then logs in with the same credentials.
func (s *Store) Register(ctx context.Context, email, password, fullName string) error {
	if _, err := s.api.Register(ctx, email, password, fullName); err != nil {
		return err
	}
	return s.Login(ctx, email, password)
}

// Logout drops the identity and the persisted token.
func (s *Store) Logout() {
	s.Invalidate()
}

// CheckAuth resumes a persisted token into a live session. Failure degrades
// silently to anonymous; a broken token is not the caller's problem.
func (s *Store) CheckAuth(ctx context.Context) {
	token, err := s.tokens.Load()
	if err != nil || token == "" {
		return
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	user, err := s.api.Me(ctx)
	if err != nil {
		s.Invalidate()
		return
	}
	s.setUser(user)
}

// ResumeToken adopts an externally held token (the console's browser cookie)
// and resolves it like CheckAuth.
func (s *Store) ResumeToken(ctx context.Context, token string) {
	if token == "" {
		return
	}
	_ = s.tokens.Save(token)
	s.CheckAuth(ctx)
}

// CompleteOnboarding marks onboarding done and refreshes the profile.
func (s *Store) CompleteOnboarding(ctx context.Context) error {
	if err := s.api.CompleteOnboarding(ctx); err != nil {
		return err
	}
	user, err := s.api.Me(ctx)
	if err != nil {
		return err
	}
	s.setUser(user)
	return nil
}

// Invalidate clears the in-memory identity and the persisted token. Wired to
// the API client's 401 hook.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
	_ = s.tokens.Clear()
}

func (s *Store) setToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	_ = s.tokens.Save(token)
}

func (s *Store) setUser(u domain.User) {
	s.mu.Lock()
	s.user = &u
	s.mu.Unlock()
}
