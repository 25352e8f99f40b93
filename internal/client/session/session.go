// Package session holds the single source of truth for "who is logged
// in". The Store owns both the in-memory session and the persisted
// token; nothing else is allowed to write either.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/campuslink/campuslink/internal/client/api"
	"github.com/campuslink/campuslink/internal/client/repositories/tokens"
	"github.com/campuslink/campuslink/internal/logging"
)

// Snapshot is a point-in-time read of the session.
//
// Invariant: User is non-nil only when Token is non-empty. The reverse
// does not hold: a token may be present with User nil, either briefly
// (profile fetch in flight) or durably (profile fetch soft-failed).
type Snapshot struct {
	Token   string
	User    *api.UserProfile
	Loading bool
}

// Store is the session store.
//
// opMu serializes session-mutating operations, so two overlapping
// logins cannot race on which token wins. stateMu guards the fields and
// is never held across a network call, which lets the request
// pipeline's OnUnauthorized policy call Invalidate from inside an
// in-flight operation.
type Store struct {
	opMu    sync.Mutex
	stateMu sync.Mutex

	client   api.Client
	tokens   tokens.Repository
	notifier Notifier
	log      logging.Logger
	validate *validator.Validate

	token   string
	user    *api.UserProfile
	loading bool
}

// StoreOption configures a Store.
type StoreOption func(*Store)

func WithNotifier(n Notifier) StoreOption {
	return func(s *Store) { s.notifier = n }
}

func WithLogger(log logging.Logger) StoreOption {
	return func(s *Store) { s.log = log }
}

// NewStore builds a Store. Loading starts true and stays true until
// Initialize completes, so the UI can hold rendering until the boot
// restore has settled.
func NewStore(client api.Client, repo tokens.Repository, opts ...StoreOption) *Store {
	s := &Store{
		client:   client,
		tokens:   repo,
		notifier: nopNotifier{},
		log:      logging.NopLogger{},
		validate: validator.New(),
		loading:  true,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Current returns a snapshot of the session.
func (s *Store) Current() Snapshot {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return Snapshot{Token: s.token, User: s.user, Loading: s.loading}
}

// LoggedIn reports whether a token is held in memory.
func (s *Store) LoggedIn() bool {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.token != ""
}

// Invalidate drops the in-memory session. It is meant to be wired as
// the request pipeline's OnUnauthorized policy, which fires after the
// pipeline has already cleared the persisted token; a 403 on any
// endpoint then leaves no trace of the session anywhere.
func (s *Store) Invalidate() {
	s.setSession("", nil)
}

// Initialize restores a persisted session at boot. With no stored token
// it simply finishes loading. With one, it resolves the profile: an
// authorization failure tears the session down (the token is stale);
// any other failure keeps the token and leaves the profile unresolved,
// so a transient outage never logs the user out. Boot failures are
// silent — the user has not acted yet. The only returned error is a
// failure to read the local store itself.
func (s *Store) Initialize(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	defer s.setLoading(false)

	token, err := s.tokens.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to read persisted token: %w", err)
	}
	if token == "" {
		return nil
	}

	s.setSession(token, nil)

	user, err := s.client.Profile(ctx)
	if err != nil {
		if api.Classify(err) == api.KindAuthorization {
			s.teardown(ctx)
			return nil
		}
		s.log.Warn(ctx, "profile resolution failed, keeping session", "error", err)
		return nil
	}

	s.setSession(token, user)
	return nil
}

type credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

// Login authenticates and resolves the profile. A 2xx login response
// without a token is a hard failure (ErrMissingToken). An authorization
// failure while resolving the profile fails the whole login. Any login
// failure defensively clears the persisted token.
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.validate.Struct(credentials{Email: email, Password: password}); err != nil {
		s.notifier.Notify("Please enter a valid email and a password of at least 8 characters.")
		return fmt.Errorf("invalid credentials: %w", err)
	}

	token, err := s.client.Login(ctx, email, password)
	if err != nil {
		s.clearPersisted(ctx)
		s.notifier.Notify(api.UserMessage(err))
		return err
	}
	if token == "" {
		s.clearPersisted(ctx)
		s.notifier.Notify(api.UserMessage(api.ErrMissingToken))
		return api.ErrMissingToken
	}

	// Clear then write, so a half-finished login never leaves a stale
	// token behind.
	s.clearPersisted(ctx)
	if err := s.tokens.Set(ctx, token); err != nil {
		s.notifier.Notify(api.UserMessage(err))
		return fmt.Errorf("failed to persist token: %w", err)
	}
	s.setSession(token, nil)

	user, err := s.client.Profile(ctx)
	if err != nil {
		if api.Classify(err) == api.KindAuthorization {
			s.teardown(ctx)
			s.notifier.Notify(api.UserMessage(err))
			return err
		}
		// Soft-fail: logged in, profile unresolved.
		s.log.Warn(ctx, "profile resolution failed after login", "error", err)
		return nil
	}

	s.setSession(token, user)
	return nil
}

// SignUp registers a new account. The payload always carries an empty
// bio and a null organization; organization sign-up is wired through
// the same shape but unused by current flows. A returned token is
// persisted, but no profile is resolved — the caller navigates next.
func (s *Store) SignUp(ctx context.Context, email, password, fullName string, extra map[string]any) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.validate.Struct(credentials{Email: email, Password: password}); err != nil {
		s.notifier.Notify("Please enter a valid email and a password of at least 8 characters.")
		return fmt.Errorf("invalid credentials: %w", err)
	}
	if fullName == "" {
		s.notifier.Notify("Please enter your full name.")
		return fmt.Errorf("full name is required")
	}

	student := map[string]any{"name": fullName}
	for k, v := range extra {
		student[k] = v
	}

	token, err := s.client.Register(ctx, api.RegisterRequest{
		Email:    email,
		Password: password,
		Bio:      "",
		Student:  student,
	})
	if err != nil {
		s.notifier.Notify(api.UserMessage(err))
		return err
	}

	if token != "" {
		if err := s.tokens.Set(ctx, token); err != nil {
			s.log.Error(ctx, "failed to persist token after sign-up", "error", err)
		} else {
			s.setSession(token, nil)
		}
	}
	return nil
}

// Logout clears the persisted and in-memory session. Safe to call when
// already logged out; repeated calls are no-ops.
func (s *Store) Logout(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.teardown(ctx)
	return nil
}

// UpdateUser replaces the in-memory profile wholesale. No validation,
// no network call; used for optimistic local updates after side-channel
// mutations such as a picture upload.
func (s *Store) UpdateUser(u *api.UserProfile) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.user = u
}

func (s *Store) setSession(token string, user *api.UserProfile) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.token = token
	s.user = user
}

func (s *Store) setLoading(v bool) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.loading = v
}

// teardown clears everything, persisted and in-memory.
func (s *Store) teardown(ctx context.Context) {
	s.clearPersisted(ctx)
	s.setSession("", nil)
}

func (s *Store) clearPersisted(ctx context.Context) {
	if err := s.tokens.Clear(ctx); err != nil {
		s.log.Error(ctx, "failed to clear persisted token", "error", err)
	}
}
