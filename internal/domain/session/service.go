package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/kbeauty-storefront/internal/pkg/auth"
	"github.com/your-org/kbeauty-storefront/internal/pkg/observer"
	"github.com/your-org/kbeauty-storefront/internal/pkg/storage"
)

var (
	// ErrNotAuthenticated is returned by operations that need a credential
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrIncompleteSession is returned when the backend answers without a token or a user
	ErrIncompleteSession = errors.New("backend returned an incomplete session")
)

// Store owns the visitor's identity and bearer credential. user and credential
// are always set and cleared together.
type Store struct {
	mu         sync.RWMutex
	user       *User
	credential string
	loading    bool

	identity Identity
	storage  storage.Storage
	logger   logrus.FieldLogger
	events   observer.Subject[Event]
	now      func() time.Time
}

// NewStore creates a store in the loading state
func NewStore(identity Identity, s storage.Storage, logger logrus.FieldLogger) *Store {
	return &Store{
		loading:  true,
		identity: identity,
		storage:  s,
		logger:   logger.WithField("store", "session"),
		now:      time.Now,
	}
}

// Rehydrate restores the persisted pair. A missing half, corrupt data or an
// expired credential leaves the visitor logged out. A failed read is returned
// and the store stays loading.
func (s *Store) Rehydrate(ctx context.Context) error {
	var saved persisted
	found, err := storage.LoadJSON(ctx, s.storage, StorageKey, &saved)
	if err != nil && !errors.Is(err, storage.ErrCorrupt) {
		return err
	}

	valid := found && err == nil && saved.AccessToken != "" && saved.User != nil
	if valid && auth.IsExpired(saved.AccessToken, s.now()) {
		s.logger.Info("Stored credential has expired")
		valid = false
	}
	if err != nil {
		s.logger.WithError(err).Warn("Discarding unreadable session")
	}
	if found && !valid {
		if rmErr := s.storage.Remove(ctx, StorageKey); rmErr != nil {
			s.logger.WithError(rmErr).Warn("Failed to remove stale session")
		}
	}

	s.mu.Lock()
	if valid {
		s.user, s.credential = saved.User, saved.AccessToken
	} else {
		s.user, s.credential = nil, ""
	}
	s.loading = false
	ev := s.eventLocked(EventRehydrated)
	s.mu.Unlock()

	s.events.Notify(ev)
	return nil
}

// Signup registers a new account and logs it in
func (s *Store) Signup(ctx context.Context, req SignupRequest) (*User, error) {
	resp, err := s.identity.Signup(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, resp)
}

// Login authenticates with email and password
func (s *Store) Login(ctx context.Context, email, password string) (*User, error) {
	resp, err := s.identity.Login(ctx, LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, resp)
}

// Logout clears the session locally; it never fails
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.user, s.credential = nil, ""
	if err := s.storage.Remove(ctx, StorageKey); err != nil {
		s.logger.WithError(err).Warn("Failed to remove persisted session")
	}
	ev := s.eventLocked(EventLogout)
	s.mu.Unlock()

	s.events.Notify(ev)
}

// UpdateProfile sends update to the backend and, on success, merges it into the
// local user record without re-fetching it
func (s *Store) UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error) {
	credential := s.Credential()
	if credential == "" {
		return nil, ErrNotAuthenticated
	}

	if err := s.identity.UpdateProfile(ctx, credential, update); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.user == nil || s.credential != credential {
		// Logged out or replaced while the request was in flight
		s.mu.Unlock()
		return nil, ErrNotAuthenticated
	}
	merged := *s.user
	update.applyTo(&merged)
	s.user = &merged
	s.persistLocked(ctx)
	ev := s.eventLocked(EventUpdated)
	s.mu.Unlock()

	s.events.Notify(ev)
	return &merged, nil
}

// User returns a copy of the current user, nil when logged out
func (s *Store) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Credential returns the bearer token, empty when logged out
func (s *Store) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential != ""
}

func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.Role == RoleAdmin
}

// Loading is true until Rehydrate has completed
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Store) Subscribe(fn func(Event)) func() {
	return s.events.Subscribe(fn)
}

func (s *Store) establish(ctx context.Context, resp *AuthResponse) (*User, error) {
	if resp == nil || resp.AccessToken == "" || resp.User == nil {
		return nil, ErrIncompleteSession
	}

	user := *resp.User
	s.mu.Lock()
	s.user, s.credential = &user, resp.AccessToken
	s.persistLocked(ctx)
	ev := s.eventLocked(EventLogin)
	s.mu.Unlock()

	s.logger.WithField("user_id", user.ID).Info("Session established")
	s.events.Notify(ev)

	out := user
	return &out, nil
}

func (s *Store) persistLocked(ctx context.Context) {
	err := storage.SaveJSON(ctx, s.storage, StorageKey, persisted{
		AccessToken: s.credential,
		User:        s.user,
	})
	if err != nil {
		s.logger.WithError(err).Warn("Failed to persist session")
	}
}

func (s *Store) eventLocked(kind string) Event {
	return Event{
		Kind:          kind,
		Authenticated: s.credential != "",
		IsAdmin:       s.user != nil && s.user.Role == RoleAdmin,
	}
}
