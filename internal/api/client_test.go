package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathuGIT/Health-Tracker/internal"
	"github.com/pathuGIT/Health-Tracker/internal/api"
	"github.com/pathuGIT/Health-Tracker/internal/auth"
)

func newClient(t *testing.T, url string, creds internal.Credentials) (*api.Client, *auth.MemStore) {
	t.Helper()
	store := auth.NewMemStore()
	require.NoError(t, store.Save(creds))
	return api.NewClient(url, 5*time.Second, store, internal.NopLogger{}), store
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth, gotRequestID string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		json.NewEncoder(w).Encode(map[string]string{"ok": "yes"})
	}))
	defer ts.Close()

	c, _ := newClient(t, ts.URL, internal.Credentials{Token: "abc", RefreshToken: "xyz", UserID: 1, UserRole: "USER"})
	var out map[string]string
	require.NoError(t, c.Get(context.Background(), "/exercises/user/1", &out))
	assert.Equal(t, "Bearer abc", gotAuth)
	assert.NotEmpty(t, gotRequestID)
	assert.Equal(t, "yes", out["ok"])
}

func TestForbiddenTriggersSingleRefreshAndRetry(t *testing.T) {
	var dataHits, refreshHits int32
	var refreshAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case api.RefreshPath:
			atomic.AddInt32(&refreshHits, 1)
			refreshAuth = r.Header.Get("Authorization")
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			assert.Equal(t, "xyz", body["refreshToken"])
			json.NewEncoder(w).Encode(map[string]string{"accessToken": "new"})
		case "/exercises/user/1":
			atomic.AddInt32(&dataHits, 1)
			if r.Header.Get("Authorization") != "Bearer new" {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			json.NewEncoder(w).Encode([]internal.Exercise{{ID: 7, UserID: 1, ExerciseName: "run"}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	c, store := newClient(t, ts.URL, internal.Credentials{Token: "stale", RefreshToken: "xyz", UserID: 1, UserRole: "USER"})
	var out []internal.Exercise
	require.NoError(t, c.Get(context.Background(), "/exercises/user/1", &out))

	// The caller sees the retried result transparently.
	require.Len(t, out, 1)
	assert.Equal(t, "run", out[0].ExerciseName)

	assert.EqualValues(t, 2, dataHits, "original request resubmitted exactly once")
	assert.EqualValues(t, 1, refreshHits)
	assert.Empty(t, refreshAuth, "refresh call must be unauthenticated")

	creds, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "new", creds.Token)
	assert.Equal(t, "xyz", creds.RefreshToken)
}

func TestRefreshFailureForcesLogout(t *testing.T) {
	var dataHits, refreshHits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == api.RefreshPath {
			atomic.AddInt32(&refreshHits, 1)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		atomic.AddInt32(&dataHits, 1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	c, store := newClient(t, ts.URL, internal.Credentials{Token: "stale", RefreshToken: "dead", UserID: 1, UserRole: "USER"})
	var loggedOut atomic.Bool
	c.OnForcedLogout(func() { loggedOut.Store(true) })

	err := c.Get(context.Background(), "/meals/user/1", nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, internal.StatusOf(err))

	assert.EqualValues(t, 1, dataHits, "no retry after failed refresh")
	assert.EqualValues(t, 1, refreshHits)
	assert.True(t, loggedOut.Load())

	creds, _ := store.Load()
	assert.True(t, creds.Empty(), "all session keys removed")
}

func TestForbiddenWithoutRefreshTokenLogsOutImmediately(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.NotEqual(t, api.RefreshPath, r.URL.Path, "no refresh call may be issued")
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	c, store := newClient(t, ts.URL, internal.Credentials{Token: "stale", UserID: 1, UserRole: "USER"})
	var loggedOut atomic.Bool
	c.OnForcedLogout(func() { loggedOut.Store(true) })

	err := c.Get(context.Background(), "/meals/user/1", nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, internal.StatusOf(err))
	assert.EqualValues(t, 1, hits, "zero additional network calls")
	assert.True(t, loggedOut.Load())

	creds, _ := store.Load()
	assert.True(t, creds.Empty())
}

func TestForbiddenAfterRetryForcesLogout(t *testing.T) {
	var dataHits, refreshHits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == api.RefreshPath {
			atomic.AddInt32(&refreshHits, 1)
			json.NewEncoder(w).Encode(map[string]string{"accessToken": "new"})
			return
		}
		atomic.AddInt32(&dataHits, 1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	c, store := newClient(t, ts.URL, internal.Credentials{Token: "stale", RefreshToken: "xyz", UserID: 1, UserRole: "USER"})

	err := c.Get(context.Background(), "/exercises/user/1", nil)
	require.Error(t, err)
	assert.EqualValues(t, 2, dataHits, "retried at most once")
	assert.EqualValues(t, 1, refreshHits, "one refresh, never a second")

	creds, _ := store.Load()
	assert.True(t, creds.Empty())
}

func TestConcurrentForbiddenShareOneRefresh(t *testing.T) {
	var refreshHits int32
	var stale sync.WaitGroup
	stale.Add(2)
	barrier := make(chan struct{})
	var once sync.Once

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == api.RefreshPath {
			atomic.AddInt32(&refreshHits, 1)
			json.NewEncoder(w).Encode(map[string]string{"accessToken": "new"})
			return
		}
		if r.Header.Get("Authorization") == "Bearer stale" {
			// Hold both stale requests until each has arrived, so both enter
			// the refresh path.
			stale.Done()
			once.Do(func() {
				go func() {
					stale.Wait()
					close(barrier)
				}()
			})
			<-barrier
			w.WriteHeader(http.StatusForbidden)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"ok": "yes"})
	}))
	defer ts.Close()

	c, _ := newClient(t, ts.URL, internal.Credentials{Token: "stale", RefreshToken: "xyz", UserID: 1, UserRole: "USER"})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = c.Get(context.Background(), "/meals/user/1", nil)
		}(i)
	}
	wg.Wait()

	assert.NoError(t, errs[0])
	assert.NoError(t, errs[1])
	assert.EqualValues(t, 1, refreshHits, "second 403 awaits the first refresh")
}

func TestErrorTaxonomy(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bad":
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"message": "This Email already exists."})
		case "/boom":
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"message": "boom"})
		}
	}))

	c, _ := newClient(t, ts.URL, internal.Credentials{Token: "abc", UserID: 1, UserRole: "USER"})

	err := c.Get(context.Background(), "/bad", nil)
	require.Error(t, err)
	assert.True(t, internal.IsValidationError(err))
	assert.Contains(t, err.Error(), "This Email already exists.")

	err = c.Get(context.Background(), "/boom", nil)
	require.Error(t, err)
	assert.True(t, internal.IsServerError(err))

	// Connectivity failures never reach the server and carry no status.
	ts.Close()
	err = c.Get(context.Background(), "/bad", nil)
	require.Error(t, err)
	assert.Equal(t, 0, internal.StatusOf(err))
	assert.Contains(t, err.Error(), "cannot connect")
}

func TestEnvelopeAndRawResponsesDecode(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/wrapped" {
			json.NewEncoder(w).Encode(map[string]interface{}{"data": internal.User{ID: 1, Name: "Amal"}})
			return
		}
		json.NewEncoder(w).Encode(internal.User{ID: 2, Name: "Nadia"})
	}))
	defer ts.Close()

	c, _ := newClient(t, ts.URL, internal.Credentials{Token: "abc", UserID: 1, UserRole: "USER"})

	var wrapped internal.User
	require.NoError(t, c.Get(context.Background(), "/wrapped", &wrapped))
	assert.Equal(t, "Amal", wrapped.Name)

	var raw internal.User
	require.NoError(t, c.Get(context.Background(), "/raw", &raw))
	assert.Equal(t, "Nadia", raw.Name)
}
