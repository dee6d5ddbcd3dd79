// Package session owns the authenticated identity of the process: the
// persisted access token and the signed-in user.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ButyrinIA/socialclient/internal/api"
	"github.com/ButyrinIA/socialclient/internal/models"
	"github.com/ButyrinIA/socialclient/internal/storage"
	"go.uber.org/zap"
)

var ErrNotAuthenticated = errors.New("not authenticated")

// DefaultKey is the storage key of the access token.
const DefaultKey = "accessToken"

// API is the part of the REST API the session needs.
type API interface {
	Me(ctx context.Context) (*models.User, error)
	Login(ctx context.Context, creds models.Credentials) (*models.AuthResult, error)
	Register(ctx context.Context, reg models.Registration) (*models.AuthResult, error)
}

// State is a snapshot of the session.
type State struct {
	IsInitialized   bool         `json:"isInitialized"`
	IsAuthenticated bool         `json:"isAuthenticated"`
	User            *models.User `json:"user"`
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithClock replaces time.Now for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithKey changes the storage key of the token.
func WithKey(key string) Option {
	return func(s *Store) {
		s.key = key
	}
}

// Store is the single writer of session state.
type Store struct {
	api    API
	tokens storage.TokenStore
	key    string
	logger *zap.Logger
	now    func() time.Time

	initOnce sync.Once

	mu    sync.RWMutex
	state State
	token string
}

func New(client API, tokens storage.TokenStore, opts ...Option) *Store {
	s := &Store{
		api:    client,
		tokens: tokens,
		key:    DefaultKey,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize restores the session from the persisted token. It runs once;
// later calls return the current state. Every failure ends logged out.
func (s *Store) Initialize(ctx context.Context) State {
	s.initOnce.Do(func() {
		user, token := s.restore(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()
		s.state.IsInitialized = true
		if user != nil {
			s.state.IsAuthenticated = true
			s.state.User = user
			s.token = token
		}
	})
	return s.State()
}

func (s *Store) restore(ctx context.Context) (*models.User, string) {
	token, err := s.tokens.Load(ctx, s.key)
	switch {
	case errors.Is(err, storage.ErrTokenNotFound):
		return nil, ""
	case err != nil:
		s.logger.Warn("failed to read persisted token", zap.Error(err))
		s.clearPersisted(ctx)
		return nil, ""
	}

	if err := ValidateToken(token, s.now()); err != nil {
		s.logger.Info("discarding persisted token", zap.Error(err))
		s.clearPersisted(ctx)
		return nil, ""
	}

	user, err := s.api.Me(api.WithToken(ctx, token))
	if err != nil {
		s.logger.Warn("failed to fetch current user", zap.Error(err))
		s.clearPersisted(ctx)
		return nil, ""
	}
	return user, token
}

// Login authenticates with credentials. Errors are returned unchanged in
// meaning and leave the session as it was.
func (s *Store) Login(ctx context.Context, creds models.Credentials) (models.User, error) {
	res, err := s.api.Login(ctx, creds)
	if err != nil {
		s.Logout(ctx)
		return models.User{}, fmt.Errorf("login: %w", err)
	}
	s.authenticate(ctx, res)
	return res.User, nil
}

// Register creates an account and signs in with it.
func (s *Store) Register(ctx context.Context, reg models.Registration) (models.User, error) {
	res, err := s.api.Register(ctx, reg)
	if err != nil {
		s.Logout(ctx)
		return models.User{}, fmt.Errorf("register: %w", err)
	}
	s.authenticate(ctx, res)
	return res.User, nil
}

func (s *Store) authenticate(ctx context.Context, res *models.AuthResult) {
	if err := s.tokens.Save(ctx, s.key, res.AccessToken); err != nil {
		s.logger.Warn("failed to persist token", zap.Error(err))
	}

	user := res.User
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = res.AccessToken
	s.state.IsAuthenticated = true
	s.state.User = &user
}

// Logout drops the token locally. It never calls the API.
func (s *Store) Logout(ctx context.Context) {
	s.clearPersisted(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.state.IsAuthenticated = false
	s.state.User = nil
}

// ApplyProfileUpdate merges update into the signed-in user.
func (s *Store) ApplyProfileUpdate(update models.ProfileUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.IsAuthenticated || s.state.User == nil {
		return
	}
	merged := update.Apply(*s.state.User)
	s.state.User = &merged
}

func (s *Store) clearPersisted(ctx context.Context) {
	if err := s.tokens.Delete(ctx, s.key); err != nil {
		s.logger.Warn("failed to clear persisted token", zap.Error(err))
	}
}

// State returns a copy of the session state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := s.state
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}

// CurrentUser returns the signed-in user or ErrNotAuthenticated.
func (s *Store) CurrentUser() (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.state.IsAuthenticated || s.state.User == nil {
		return models.User{}, ErrNotAuthenticated
	}
	return *s.state.User, nil
}

// Context returns ctx carrying the current token, if any.
func (s *Store) Context(ctx context.Context) context.Context {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return api.WithToken(ctx, s.token)
}
