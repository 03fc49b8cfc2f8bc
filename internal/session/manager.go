package session

import (
	"context"
	"errors"
	"sync"

	"github.com/go-logr/logr"
	"github.com/hashicorp/go-multierror"

	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/pkg/client"
	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/pkg/client/api"
)

// Messages shown when login fails.
const (
	MsgLoginFailed = "Login failed"
	MsgLoginError  = "An error occurred. Please try again."
)

// LoginError is returned by Login. Message is ready to show the user.
type LoginError struct {
	Message string
	Err     error
}

func (e *LoginError) Error() string { return e.Message }

func (e *LoginError) Unwrap() error { return e.Err }

// ErrNotLoggedIn is returned by operations that need a token when there is none.
var ErrNotLoggedIn = errors.New("not logged in")

// Manager owns the current Session and keeps it in sync with a Store.
type Manager struct {
	store Store
	auth  client.Auth
	user  client.User
	log   logr.Logger

	mu        sync.Mutex
	current   Session
	listeners []func(Session)
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the Manager's logger.
func WithLogger(l logr.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// NewManager returns a Manager with an empty session. Call Load to restore
// the persisted one.
func NewManager(store Store, auth client.Auth, user client.User, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		auth:  auth,
		user:  user,
		log:   logr.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// OnChange registers fn to run after every login and logout. fn runs on the
// caller's goroutine, outside the Manager's lock.
func (m *Manager) OnChange(fn func(Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Current returns the current session.
func (m *Manager) Current() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Load restores the persisted session. A session with a token but no
// username is kept; the header then shows an empty name, as before.
func (m *Manager) Load() (Session, error) {
	token, _, err := m.store.Get(TokenKey)
	if err != nil {
		return Session{}, err
	}
	username, _, err := m.store.Get(UsernameKey)
	if err != nil {
		return Session{}, err
	}
	s := Session{Token: token, Username: username}
	if !s.Authenticated() {
		s = Session{}
	}

	m.mu.Lock()
	m.current = s
	m.mu.Unlock()
	return s, nil
}

// Login exchanges credentials for a token and persists it. On failure the
// stored session is left untouched and the returned *LoginError carries the
// message to show.
func (m *Manager) Login(ctx context.Context, username, password string) (Session, error) {
	tok, err := m.auth.Login(ctx, username, password)
	if err != nil {
		if client.IsTransport(err) {
			m.log.Error(err, "login request failed")
			return m.Current(), &LoginError{Message: MsgLoginError, Err: err}
		}
		return m.Current(), &LoginError{Message: client.DetailOr(err, MsgLoginFailed), Err: err}
	}
	if tok.AccessToken == "" {
		return m.Current(), &LoginError{Message: MsgLoginFailed, Err: errors.New("token response without access_token")}
	}

	s := Session{Token: tok.AccessToken, Username: tok.Username}
	if err := m.persist(s); err != nil {
		m.log.Error(err, "failed to persist session")
		return m.Current(), &LoginError{Message: MsgLoginError, Err: err}
	}

	m.set(s)
	m.log.V(1).Info("logged in", "username", s.Username)
	return s, nil
}

// persist writes both keys. If the username cannot be written, the token
// that was stored before is put back.
func (m *Manager) persist(s Session) error {
	prevToken, hadToken, err := m.store.Get(TokenKey)
	if err != nil {
		return err
	}
	if err := m.store.Set(TokenKey, s.Token); err != nil {
		return err
	}
	if err := m.store.Set(UsernameKey, s.Username); err != nil {
		var result *multierror.Error
		result = multierror.Append(result, err)
		if rbErr := m.restore(TokenKey, prevToken, hadToken); rbErr != nil {
			result = multierror.Append(result, rbErr)
		}
		return result.ErrorOrNil()
	}
	return nil
}

func (m *Manager) restore(key, value string, existed bool) error {
	if existed {
		return m.store.Set(key, value)
	}
	return m.store.Delete(key)
}

// Logout clears the persisted session. It cannot fail from the caller's
// point of view; storage errors are logged.
func (m *Manager) Logout() Session {
	if err := m.store.Delete(TokenKey, UsernameKey); err != nil {
		m.log.Error(err, "failed to clear persisted session")
	}
	m.set(Session{})
	return Session{}
}

// Validate asks the backend whether the current token is still accepted.
// A rejection logs the user out without surfacing an error. A transport
// failure is logged and returned; the session is kept.
func (m *Manager) Validate(ctx context.Context) (Session, error) {
	s := m.Current()
	if !s.Authenticated() {
		return s, nil
	}
	_, err := m.user.Me(ctx, s.Token)
	if err == nil {
		return s, nil
	}
	if _, rejected := client.AsAPIError(err); rejected {
		m.log.V(1).Info("stored token rejected, logging out", "username", s.Username)
		return m.Logout(), nil
	}
	m.log.Error(err, "token validation failed")
	return s, err
}

// WhoAmI returns the profile of the current token.
func (m *Manager) WhoAmI(ctx context.Context) (*api.UserProfile, error) {
	s := m.Current()
	if !s.Authenticated() {
		return nil, ErrNotLoggedIn
	}
	return m.user.Me(ctx, s.Token)
}

func (m *Manager) set(s Session) {
	m.mu.Lock()
	m.current = s
	listeners := append([]func(Session){}, m.listeners...)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(s)
	}
}
