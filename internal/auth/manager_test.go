package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathuGIT/Health-Tracker/internal"
	"github.com/pathuGIT/Health-Tracker/internal/api"
	"github.com/pathuGIT/Health-Tracker/internal/auth"
	"github.com/pathuGIT/Health-Tracker/internal/service"
	"github.com/pathuGIT/Health-Tracker/internal/trackertest"
)

type fixture struct {
	backend *trackertest.Server
	ts      *httptest.Server
	store   *auth.MemStore
	client  *api.Client
	session *auth.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	backend := trackertest.New("test-secret")
	ts := httptest.NewServer(backend.Engine)
	t.Cleanup(ts.Close)

	store := auth.NewMemStore()
	client := api.NewClient(ts.URL+"/api", 5*time.Second, store, internal.NopLogger{})
	session := auth.NewManager(client, store, internal.NopLogger{})
	return &fixture{backend: backend, ts: ts, store: store, client: client, session: session}
}

func (f *fixture) registerUser(t *testing.T) *internal.User {
	t.Helper()
	user, err := service.Register(context.Background(), f.client, &internal.RegisterRequest{
		Name:     "Amal Perera",
		Email:    "amal@example.com",
		Contact:  "0771234567",
		Password: "secret123",
		Age:      30,
		Weight:   72.5,
		Height:   175,
	})
	require.NoError(t, err)
	return user
}

func TestLoginPersistsSessionAndFetchesProfile(t *testing.T) {
	f := newFixture(t)
	registered := f.registerUser(t)

	require.NoError(t, f.session.Login(context.Background(), "amal@example.com", "secret123"))

	creds, err := f.store.Load()
	require.NoError(t, err)
	assert.NotEmpty(t, creds.Token)
	assert.NotEmpty(t, creds.RefreshToken)
	assert.Equal(t, registered.ID, creds.UserID)
	assert.Equal(t, internal.RoleUser, creds.UserRole)

	assert.True(t, f.session.IsAuthenticated())
	assert.False(t, f.session.IsAdmin())
	assert.False(t, f.session.IsLoading())

	// Round trip: the fetched profile matches the registration payload.
	profile := f.session.CurrentUser()
	require.NotNil(t, profile)
	assert.Equal(t, registered.ID, profile.UserID)
	assert.Equal(t, "Amal Perera", profile.Name)
	assert.Equal(t, "amal@example.com", profile.Email)
	assert.Equal(t, 30, profile.Age)
	assert.InDelta(t, 72.5, profile.CurrentWeight, 0.01)
	assert.InDelta(t, 175.0, profile.Height, 0.01)
}

func TestLoginFailureLeavesStateUntouched(t *testing.T) {
	f := newFixture(t)
	f.registerUser(t)

	err := f.session.Login(context.Background(), "amal@example.com", "wrong-password")
	require.Error(t, err)

	creds, _ := f.store.Load()
	assert.True(t, creds.Empty())
	assert.Equal(t, auth.Anonymous, f.session.Viewer())
	assert.Nil(t, f.session.CurrentUser())
}

func TestInitializeRestoresPersistedSession(t *testing.T) {
	f := newFixture(t)
	f.registerUser(t)
	require.NoError(t, f.session.Login(context.Background(), "amal@example.com", "secret123"))

	// A fresh process sharing the same store picks the session back up.
	client := api.NewClient(f.ts.URL+"/api", 5*time.Second, f.store, internal.NopLogger{})
	restored := auth.NewManager(client, f.store, internal.NopLogger{})
	require.NoError(t, restored.Initialize(context.Background()))

	assert.True(t, restored.IsAuthenticated())
	require.NotNil(t, restored.CurrentUser())
	assert.Equal(t, "Amal Perera", restored.CurrentUser().Name)
}

func TestInitializeClearsCorruptedSession(t *testing.T) {
	f := newFixture(t)
	// Token without its paired userId/role is corrupted state.
	require.NoError(t, f.store.Save(internal.Credentials{Token: "orphan"}))

	require.NoError(t, f.session.Initialize(context.Background()))

	creds, _ := f.store.Load()
	assert.True(t, creds.Empty())
	assert.Equal(t, auth.Anonymous, f.session.Viewer())
}

func TestInitializeWithNoSessionStaysAnonymous(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.session.Initialize(context.Background()))
	assert.Equal(t, auth.Anonymous, f.session.Viewer())
	assert.False(t, f.session.IsLoading())
}

func TestInitializeLogsOutOnUnrecoverableAuthFailure(t *testing.T) {
	f := newFixture(t)
	f.registerUser(t)
	require.NoError(t, f.session.Login(context.Background(), "amal@example.com", "secret123"))

	// Every protected call now 403s and the refresh is rejected, so the
	// profile fetch cannot be recovered.
	f.backend.ForceForbidden(true)
	f.backend.RejectRefresh(true)

	client := api.NewClient(f.ts.URL+"/api", 5*time.Second, f.store, internal.NopLogger{})
	restored := auth.NewManager(client, f.store, internal.NopLogger{})
	err := restored.Initialize(context.Background())
	require.Error(t, err)

	creds, _ := f.store.Load()
	assert.True(t, creds.Empty(), "session fully torn down")
	assert.Equal(t, auth.Anonymous, restored.Viewer())
	assert.Nil(t, restored.CurrentUser())
}

func TestInitializeKeepsSessionOnTransientFailure(t *testing.T) {
	// Backend is up but erroring: every request answers 500, so the profile
	// fetch fails with a server error, not an auth error. The persisted
	// session must survive until the backend recovers.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"database unavailable"}`))
	}))
	defer ts.Close()

	store := auth.NewMemStore()
	saved := internal.Credentials{
		Token:        "access-token",
		RefreshToken: "refresh-token",
		UserID:       7,
		UserRole:     internal.RoleUser,
	}
	require.NoError(t, store.Save(saved))

	client := api.NewClient(ts.URL+"/api", 5*time.Second, store, internal.NopLogger{})
	session := auth.NewManager(client, store, internal.NopLogger{})

	err := session.Initialize(context.Background())
	require.Error(t, err)
	assert.True(t, internal.IsServerError(err))

	creds, loadErr := store.Load()
	require.NoError(t, loadErr)
	assert.Equal(t, saved, creds, "credentials survive a transient failure")
	assert.True(t, session.IsAuthenticated())
	assert.Equal(t, auth.StandardUser, session.Viewer())
	assert.False(t, session.IsLoading())
}

func TestExpiredAccessTokenTearsDownAfterSingleRetry(t *testing.T) {
	backend := trackertest.NewWithTTL("test-secret", -time.Minute, 24*time.Hour)
	ts := httptest.NewServer(backend.Engine)
	defer ts.Close()

	store := auth.NewMemStore()
	client := api.NewClient(ts.URL+"/api", 5*time.Second, store, internal.NopLogger{})
	session := auth.NewManager(client, store, internal.NopLogger{})

	_, err := service.Register(context.Background(), client, &internal.RegisterRequest{
		Name: "Amal Perera", Email: "amal@example.com", Contact: "0771234567",
		Password: "secret123", Age: 30, Weight: 72.5, Height: 175,
	})
	require.NoError(t, err)

	// Login hands out an already-expired access token, so the profile fetch
	// 403s and triggers a refresh. The refreshed token is expired too, so
	// after the single retry the session must end fully logged out, never
	// half-authenticated.
	err = session.Login(context.Background(), "amal@example.com", "secret123")
	require.Error(t, err)
	creds, _ := store.Load()
	assert.True(t, creds.Empty())
	assert.Equal(t, auth.Anonymous, session.Viewer())
	assert.GreaterOrEqual(t, backend.RefreshCalls(), int64(1))
}

func TestLogoutClearsSessionEvenWhenServerFails(t *testing.T) {
	f := newFixture(t)
	f.registerUser(t)
	require.NoError(t, f.session.Login(context.Background(), "amal@example.com", "secret123"))

	f.backend.FailLogout(true)
	f.session.Logout(context.Background())

	creds, _ := f.store.Load()
	assert.True(t, creds.Empty(), "all four keys removed despite server failure")
	assert.Equal(t, auth.Anonymous, f.session.Viewer())
	assert.Nil(t, f.session.CurrentUser())
}

func TestViewerRoleGating(t *testing.T) {
	f := newFixture(t)
	_, err := f.backend.SeedAdmin("Root", "root@example.com", "admin123")
	require.NoError(t, err)

	assert.Equal(t, auth.Anonymous, f.session.Viewer())

	require.NoError(t, f.session.Login(context.Background(), "root@example.com", "admin123"))
	assert.Equal(t, auth.Admin, f.session.Viewer())
	assert.True(t, f.session.IsAdmin())
	assert.True(t, f.session.IsAuthenticated())

	f.session.Logout(context.Background())
	assert.Equal(t, auth.Anonymous, f.session.Viewer())
	assert.False(t, f.session.IsAdmin())
}
