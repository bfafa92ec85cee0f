package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/pathuGIT/Health-Tracker/internal"
	"github.com/pathuGIT/Health-Tracker/internal/api"
	"github.com/pathuGIT/Health-Tracker/internal/service"
)

// Manager is the single source of truth for who is logged in, with what
// role, and whether that determination is still loading. It owns the
// credential store together with the api.Client: the client clears it on
// unrecoverable auth failures, the manager everywhere else.
type Manager struct {
	client *api.Client
	store  internal.CredentialStore
	logger internal.Logger

	mu      sync.RWMutex
	creds   internal.Credentials
	user    *internal.UserProfile
	loading bool
}

func NewManager(client *api.Client, store internal.CredentialStore, logger internal.Logger) *Manager {
	if logger == nil {
		logger = internal.NopLogger{}
	}
	m := &Manager{
		client: client,
		store:  store,
		logger: logger,
	}
	client.OnForcedLogout(m.reset)
	return m
}

// Initialize restores a persisted session on startup. A token without its
// paired userId/role is corrupted state and is torn down. Profile fetch
// failures that are not auth failures keep the session (transient), auth
// failures end it.
func (m *Manager) Initialize(ctx context.Context) error {
	creds, err := m.store.Load()
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if creds.Token == "" {
		m.reset()
		return nil
	}
	if creds.UserID == 0 || creds.UserRole == "" {
		m.logger.Warnf("stored session is missing userId/role, clearing it")
		m.Logout(ctx)
		return nil
	}

	m.mu.Lock()
	m.creds = creds
	m.loading = true
	m.mu.Unlock()

	return m.fetchProfile(ctx, false)
}

// Login authenticates and persists the session, then loads the profile. On
// login failure nothing is mutated. A profile fetch failure right after a
// valid login tears the session down again: no half-authenticated state may
// survive.
func (m *Manager) Login(ctx context.Context, login, password string) error {
	tokens, err := service.Login(ctx, m.client, login, password)
	if err != nil {
		return err
	}
	if tokens.AccessToken == "" || tokens.UserID == 0 {
		return errors.New("login response missing access token or user id")
	}
	role := tokens.Role
	if role == "" {
		role = internal.RoleUser
	}

	creds := internal.Credentials{
		Token:        tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		UserID:       tokens.UserID,
		UserRole:     role,
	}
	if err := m.store.Save(creds); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	m.mu.Lock()
	m.creds = creds
	m.user = nil
	m.loading = true
	m.mu.Unlock()

	return m.fetchProfile(ctx, true)
}

// fetchProfile completes the authenticated transition. With strict set (the
// post-login path) any failure forces a full logout.
func (m *Manager) fetchProfile(ctx context.Context, strict bool) error {
	m.mu.RLock()
	userID := m.creds.UserID
	m.mu.RUnlock()
	if userID == 0 {
		// Forced logout raced us; nothing left to fetch.
		return nil
	}

	profile, err := service.GetUserProfile(ctx, m.client, userID)
	if err != nil {
		if strict || internal.IsAuthError(err) {
			m.logger.Warnf("profile fetch for user %d failed, logging out: %v", userID, err)
			m.Logout(ctx)
		} else {
			m.logger.Errorf("profile fetch for user %d failed: %v", userID, err)
			m.mu.Lock()
			m.loading = false
			m.mu.Unlock()
		}
		return err
	}

	m.mu.Lock()
	m.user = profile
	m.loading = false
	m.mu.Unlock()
	return nil
}

// Logout tells the server to drop the refresh token (best effort, failures
// are logged and ignored) and unconditionally clears persisted and in-memory
// state.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.RLock()
	hadToken := m.creds.Token != ""
	m.mu.RUnlock()

	if hadToken {
		if err := service.Logout(ctx, m.client); err != nil {
			m.logger.Warnf("server logout failed (token likely invalid already): %v", err)
		}
	}
	if err := m.store.Clear(); err != nil {
		m.logger.Errorf("failed to clear credentials: %v", err)
	}
	m.reset()
}

// reset wipes in-memory session state. It is also the client's forced-logout
// hook, so interceptor teardown and manager teardown converge here.
func (m *Manager) reset() {
	m.mu.Lock()
	m.creds = internal.Credentials{}
	m.user = nil
	m.loading = false
	m.mu.Unlock()
}

// Viewer resolves the tagged role variant views branch on. Token presence
// gates authentication; role alone never does.
func (m *Manager) Viewer() Viewer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.creds.Token == "" {
		return Anonymous
	}
	if m.creds.UserRole == internal.RoleAdmin {
		return Admin
	}
	return StandardUser
}

func (m *Manager) IsAuthenticated() bool {
	return m.Viewer() != Anonymous
}

func (m *Manager) IsAdmin() bool {
	return m.Viewer() == Admin
}

func (m *Manager) IsLoading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

func (m *Manager) UserID() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.creds.UserID
}

// CurrentUser returns the fetched profile, or nil while anonymous or loading.
func (m *Manager) CurrentUser() *internal.UserProfile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user
}
