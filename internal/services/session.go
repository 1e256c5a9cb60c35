// Package services contains the client-side controllers: session state,
// the upload job lifecycle, and the history list. Each controller owns its
// state exclusively; the presentation layer only reads it and dispatches
// intents. All network failures are converted into local state or returned
// errors, never panics.
package services

import (
	"context"
	"sync"

	"github.com/amelnik/enhancer/internal/api"
	"github.com/amelnik/enhancer/internal/logging"
)

// FallbackUsername is used when a successful login response carries no
// username.
const FallbackUsername = "User"

// SessionManager owns the authentication state of the client. The session
// itself is an opaque server cookie held by the API client; this controller
// only tracks whether the user is known to be authenticated and under which
// name. There is no transition back to anonymous: the server's cookie expiry
// plus a future probe is the only invalidation path.
type SessionManager struct {
	client api.Client
	log    logging.Logger

	mu           sync.Mutex
	probeBusy    bool
	loginBusy    bool
	registerBusy bool

	authenticated bool
	username      string
}

func NewSessionManager(client api.Client, log logging.Logger) *SessionManager {
	return &SessionManager{client: client, log: log}
}

// begin marks the given operation as in flight. A duplicate submit while the
// first is unresolved is rejected with ErrBusy. The guard is local; the
// server negotiates nothing.
func (s *SessionManager) begin(flag *bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if *flag {
		return ErrBusy
	}
	*flag = true
	return nil
}

func (s *SessionManager) end(flag *bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	*flag = false
}

// Probe checks the current authentication state once at startup. Probing is
// best-effort: any failure is logged and the session stays anonymous; nothing
// is surfaced to the user.
func (s *SessionManager) Probe(ctx context.Context) {
	if err := s.begin(&s.probeBusy); err != nil {
		return
	}
	defer s.end(&s.probeBusy)

	st, err := s.client.CheckAuth(ctx)
	if err != nil {
		s.log.Warn(ctx, "auth probe failed", "error", err)
		return
	}
	if !st.Authenticated {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = true
	s.username = st.Username
	if s.username == "" {
		s.username = FallbackUsername
	}
}

// Login submits credentials. On success the session becomes authenticated
// under the server-reported username (or FallbackUsername when absent).
// On rejection the returned error carries the server message
// (*api.ServerError); the session is left unchanged.
func (s *SessionManager) Login(ctx context.Context, email, password string) error {
	if err := s.begin(&s.loginBusy); err != nil {
		return err
	}
	defer s.end(&s.loginBusy)

	username, err := s.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if username == "" {
		username = FallbackUsername
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = true
	s.username = username
	return nil
}

// Register creates an account. A successful registration does not
// authenticate; the caller is expected to present the login step next.
// The server message is returned for display either way.
func (s *SessionManager) Register(ctx context.Context, email, username, password string) (string, error) {
	if err := s.begin(&s.registerBusy); err != nil {
		return "", err
	}
	defer s.end(&s.registerBusy)

	return s.client.Register(ctx, email, username, password)
}

func (s *SessionManager) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

func (s *SessionManager) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username
}
