package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrijs2005/bladmin/internal/client/models"
	"github.com/dmitrijs2005/bladmin/internal/client/storage"
	"github.com/dmitrijs2005/bladmin/internal/client/transport"
	"github.com/dmitrijs2005/bladmin/internal/logging"
)

// maxProfileRetries bounds the refresh-then-refetch cycle in GetCurrentUser.
const maxProfileRetries = 1

var (
	ErrMalformedLogin  = errors.New("malformed login response")
	ErrEmptyProfile    = errors.New("empty profile response")
	ErrEmptyToken      = errors.New("empty access token in refresh response")
	ErrCorruptedRecord = errors.New("corrupted session record")
)

// AuthAPI is the set of auth endpoints the store talks to.
type AuthAPI interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*models.RefreshTokenResponse, error)
	Me(ctx context.Context) (*models.User, error)
	Logout(ctx context.Context) error
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
}

// Store is the credential store. It satisfies transport.Session.
type Store struct {
	api      AuthAPI
	repo     storage.Repository
	notifier transport.Notifier
	logger   logging.Logger

	refreshes singleflight.Group

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	user         *models.User
	busy         bool
}

type Option func(*Store)

func WithNotifier(n transport.Notifier) Option {
	return func(s *Store) {
		if n != nil {
			s.notifier = n
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewStore(api AuthAPI, repo storage.Repository, opts ...Option) *Store {
	s := &Store{
		api:      api,
		repo:     repo,
		notifier: nopNotifier{},
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login exchanges credentials for a session. Prior state is untouched unless
// the response carries both an access token and a user.
func (s *Store) Login(ctx context.Context, username, password string) bool {
	s.setBusy(true)
	defer s.setBusy(false)

	resp, err := s.api.Login(ctx, models.LoginRequest{Username: username, Password: password})
	if err != nil {
		s.logger.Warn(ctx, "login failed", "username", username, "error", err)
		// Other failures were already reported by the pipeline.
		if errors.Is(err, transport.ErrUnauthorized) {
			s.notifier.Error(ctx, "login failed: "+transport.MessageOf(err))
		}
		return false
	}
	if !resp.Valid() {
		s.logger.Warn(ctx, "login failed", "username", username, "error", ErrMalformedLogin)
		s.notifier.Error(ctx, "login failed: "+ErrMalformedLogin.Error())
		return false
	}

	if err := s.save(ctx, resp.AccessToken, resp.RefreshToken, resp.User); err != nil {
		s.logger.Error(ctx, "failed to persist session", "error", err)
		s.notifier.Error(ctx, "login failed: could not save session")
		return false
	}

	s.logger.Info(ctx, "logged in", "username", resp.User.Username, "role", resp.User.RoleName())
	s.notifier.Success(ctx, "login successful")
	return true
}

// Logout tells the backend best-effort, then clears local state
// unconditionally. The remote call is skipped when no access token is held.
func (s *Store) Logout(ctx context.Context) {
	s.mu.RLock()
	hadToken := s.accessToken != ""
	hadState := hadToken || s.refreshToken != "" || s.user != nil
	s.mu.RUnlock()

	if hadToken {
		if err := s.api.Logout(ctx); err != nil {
			s.logger.Warn(ctx, "remote logout failed", "error", err)
		}
	}

	if err := s.clear(ctx); err != nil {
		s.logger.Error(ctx, "failed to clear persisted session", "error", err)
	}
	if hadState {
		s.logger.Info(ctx, "logged out")
		s.notifier.Success(ctx, "logged out")
	}
}

// ClearAuth drops all credentials without contacting the backend.
func (s *Store) ClearAuth(ctx context.Context) error {
	return s.clear(ctx)
}

// RefreshAccessToken obtains a new access token. Concurrent callers holding
// the same refresh token share one backend call. Failure logs out.
func (s *Store) RefreshAccessToken(ctx context.Context) bool {
	s.mu.RLock()
	refreshToken := s.refreshToken
	s.mu.RUnlock()

	if refreshToken == "" {
		return false
	}

	v, _, _ := s.refreshes.Do(refreshToken, func() (any, error) {
		return s.refresh(ctx, refreshToken), nil
	})
	return v.(bool)
}

func (s *Store) refresh(ctx context.Context, refreshToken string) bool {
	resp, err := s.api.Refresh(ctx, refreshToken)
	if err == nil && (resp == nil || resp.AccessToken == "") {
		err = ErrEmptyToken
	}
	if err != nil {
		s.logger.Warn(ctx, "token refresh failed", "error", err)
		s.Logout(ctx)
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// A logout raced the refresh. A newer login is still usable.
	if s.refreshToken != refreshToken {
		return s.accessToken != ""
	}
	if err := s.repo.Set(ctx, storage.KeyAccessToken, resp.AccessToken); err != nil {
		s.logger.Error(ctx, "failed to persist refreshed token", "error", err)
	}
	s.accessToken = resp.AccessToken
	s.logger.Debug(ctx, "access token refreshed")
	return true
}

// GetCurrentUser fetches the profile. A failed fetch triggers one refresh
// and one refetch; a failed refresh logs out.
func (s *Store) GetCurrentUser(ctx context.Context) error {
	if s.AccessToken() == "" {
		return nil
	}

	var err error
	for attempt := 0; ; attempt++ {
		var u *models.User
		u, err = s.api.Me(ctx)
		if err == nil && u.IsZero() {
			err = ErrEmptyProfile
		}
		if err == nil {
			return s.setUser(ctx, u)
		}
		s.logger.Warn(ctx, "profile fetch failed", "attempt", attempt, "error", err)

		if attempt >= maxProfileRetries {
			break
		}
		if !s.RefreshAccessToken(ctx) {
			s.Logout(ctx)
			break
		}
	}
	return fmt.Errorf("get current user: %w", err)
}

// InitializeAuth restores a persisted session. A restored session is
// authenticated before the profile is revalidated; a failed revalidation
// is logged only.
func (s *Store) InitializeAuth(ctx context.Context) error {
	values, err := s.repo.List(ctx)
	if err != nil {
		_ = s.ClearAuth(ctx)
		return fmt.Errorf("restore session: %w", err)
	}

	token, rawUser := values[storage.KeyAccessToken], values[storage.KeyUser]
	if token == "" || rawUser == "" {
		s.mu.Lock()
		s.accessToken, s.refreshToken, s.user = "", "", nil
		s.mu.Unlock()
		return nil
	}

	var u models.User
	if err := json.Unmarshal([]byte(rawUser), &u); err != nil {
		_ = s.ClearAuth(ctx)
		return fmt.Errorf("restore session: %w: %w", ErrCorruptedRecord, err)
	}

	s.mu.Lock()
	s.accessToken = token
	s.refreshToken = values[storage.KeyRefreshToken]
	s.user = &u
	s.mu.Unlock()
	s.logger.Info(ctx, "session restored", "username", u.Username)

	if err := s.GetCurrentUser(ctx); err != nil {
		s.logger.Warn(ctx, "restored session could not be revalidated", "error", err)
	}
	return nil
}

// Register creates an account. It does not log the new user in.
func (s *Store) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	u, err := s.api.Register(ctx, req)
	if err != nil {
		s.logger.Warn(ctx, "registration failed", "username", req.Username, "error", err)
		return nil, fmt.Errorf("register: %w", err)
	}
	s.notifier.Success(ctx, "registration successful")
	return u, nil
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken != "" && s.user != nil
}

func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// User returns a copy of the cached profile, or nil.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Clone()
}

func (s *Store) RoleName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.RoleName()
}

func (s *Store) HasPermission(permission string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.HasPermission(permission)
}

func (s *Store) HasRole(role string) bool {
	name := s.RoleName()
	return name != "" && name == role
}

func (s *Store) HasAnyRole(roles ...string) bool {
	name := s.RoleName()
	return name != "" && slices.Contains(roles, name)
}

func (s *Store) Busy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.busy
}

func (s *Store) setBusy(v bool) {
	s.mu.Lock()
	s.busy = v
	s.mu.Unlock()
}

func (s *Store) save(ctx context.Context, accessToken, refreshToken string, u *models.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.repo.SetMany(ctx, map[string]string{
		storage.KeyAccessToken:  accessToken,
		storage.KeyRefreshToken: refreshToken,
		storage.KeyUser:         string(raw),
	})
	if err != nil {
		return err
	}
	s.accessToken, s.refreshToken, s.user = accessToken, refreshToken, u.Clone()
	return nil
}

func (s *Store) setUser(ctx context.Context, u *models.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Logged out while the fetch was in flight.
	if s.accessToken == "" {
		return nil
	}
	if err := s.repo.Set(ctx, storage.KeyUser, string(raw)); err != nil {
		s.logger.Error(ctx, "failed to persist profile", "error", err)
	}
	s.user = u.Clone()
	return nil
}

// clear always empties memory; the returned error is from storage.
func (s *Store) clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accessToken, s.refreshToken, s.user = "", "", nil
	return s.repo.Clear(ctx)
}

type nopNotifier struct{}

func (nopNotifier) Success(context.Context, string) {}
func (nopNotifier) Error(context.Context, string)   {}
