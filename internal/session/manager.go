package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/nkosarev/vidgen/internal/api"
	"github.com/nkosarev/vidgen/internal/logging"
	"github.com/nkosarev/vidgen/internal/models"
)

// AuthError is a credential exchange rejected by the backend during login
// or register. Session state is left untouched when it is returned.
type AuthError struct {
	msg string
}

func (e *AuthError) Error() string { return e.msg }

func authErr(err error, fallback string) *AuthError {
	return &AuthError{msg: api.Reason(err, fallback)}
}

// Manager performs login, register, logout and startup restore. It is the
// sole writer of session state; everything else only reads the Store.
type Manager struct {
	auth  api.AuthClient
	store Store
	log   logging.Logger
}

func NewManager(auth api.AuthClient, store Store, log logging.Logger) *Manager {
	if log == nil {
		log = logging.NewNop()
	}
	return &Manager{auth: auth, store: store, log: log.With("component", "session")}
}

// Login exchanges credentials for a token and resolves the user profile.
//
// The token is persisted immediately, paired with a minimal user record
// synthesized from the supplied username, so the follow-up profile fetch
// goes out authenticated. On profile success the pair is overwritten with
// the full user; on profile failure the minimal record simply stands, and
// the login still succeeds.
func (m *Manager) Login(ctx context.Context, username, password string) (*models.Session, error) {
	token, err := m.auth.Login(ctx, username, password)
	if err != nil {
		return nil, authErr(err, "Login failed. Please check your credentials.")
	}

	sess := &models.Session{
		Token: token,
		User:  models.User{Username: username},
	}
	if err := m.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("persisting session: %w", err)
	}

	user, err := m.auth.Profile(ctx)
	if err != nil {
		m.log.Warn(ctx, "profile fetch failed, keeping minimal user record", "err", err)
		return sess, nil
	}

	sess.User = *user
	if err := m.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("persisting session: %w", err)
	}
	return sess, nil
}

// Register creates an account and starts a session from the response,
// preferring backend-supplied user fields and falling back to the
// submitted values for anything missing.
func (m *Manager) Register(ctx context.Context, username, email, password string) (*models.Session, error) {
	res, err := m.auth.Register(ctx, username, email, password)
	if err != nil {
		return nil, authErr(err, "Registration failed. Please try again.")
	}

	user := models.User{Username: username, Email: email}
	if res.User != nil {
		if res.User.ID != "" {
			user.ID = res.User.ID
		}
		if res.User.Username != "" {
			user.Username = res.User.Username
		}
		if res.User.Email != "" {
			user.Email = res.User.Email
		}
	}

	sess := &models.Session{Token: res.Token, User: user}
	if err := m.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("persisting session: %w", err)
	}
	return sess, nil
}

// Logout clears persisted session state unconditionally. It is idempotent
// and never fails; a storage error is logged and swallowed.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		m.log.Error(ctx, "clearing session state", "err", err)
	}
}

// Restore reconstructs the session persisted by a previous run, without
// revalidating the token against the backend: a stale token surfaces on
// the first authenticated call, through the 401 path. Corrupt persisted
// state is cleared and the client starts unauthenticated.
func (m *Manager) Restore(ctx context.Context) (*models.Session, error) {
	sess, err := m.store.Load(ctx)
	if err == nil {
		return sess, nil
	}
	if errors.Is(err, ErrCorruptState) {
		m.log.Warn(ctx, "discarding unusable session state", "err", err)
		m.Logout(ctx)
		return nil, nil
	}
	return nil, err
}

// Current returns the active session, or nil when unauthenticated.
func (m *Manager) Current(ctx context.Context) (*models.Session, error) {
	return m.store.Load(ctx)
}
