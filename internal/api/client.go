package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pathuGIT/Health-Tracker/internal"
)

// RefreshPath is the one endpoint the interceptor must leave alone: it is
// called unauthenticated and is never retried.
const RefreshPath = "/auth/refresh-token"

var errNoRefreshToken = errors.New("no refresh token stored")

// Client is the shared HTTP client. It attaches the stored bearer token to
// every request except the refresh call, and on a 403 it refreshes the access
// token once and resubmits the original request once. An unrecoverable auth
// failure clears the credential store and fires the forced-logout hook.
type Client struct {
	baseURL string
	http    *http.Client
	store   internal.CredentialStore
	logger  internal.Logger

	// refreshMu serializes token refreshes so concurrent 403s result in a
	// single refresh call.
	refreshMu sync.Mutex

	onForcedLogout func()
}

func NewClient(baseURL string, timeout time.Duration, store internal.CredentialStore, logger internal.Logger) *Client {
	if logger == nil {
		logger = internal.NopLogger{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		store:   store,
		logger:  logger,
	}
}

// OnForcedLogout registers a hook invoked after the client has cleared the
// credential store because the session could not be recovered.
func (c *Client) OnForcedLogout(fn func()) {
	c.onForcedLogout = fn
}

func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.roundTrip(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := marshalBody(body)
	if err != nil {
		return err
	}
	return c.roundTrip(ctx, http.MethodPost, path, payload, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	payload, err := marshalBody(body)
	if err != nil {
		return err
	}
	return c.roundTrip(ctx, http.MethodPut, path, payload, out)
}

func marshalBody(body interface{}) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return payload, nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, payload []byte, out interface{}) error {
	return c.do(ctx, method, path, payload, out, false)
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte, out interface{}, retried bool) error {
	creds, err := c.store.Load()
	if err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}
	attachedToken := creds.Token

	status, respBody, err := c.send(ctx, method, path, payload, attachedToken)
	if err != nil {
		return err
	}

	if status >= 200 && status < 300 {
		return decodeBody(respBody, out)
	}

	apiErr := errorFromResponse(status, respBody)

	// Interceptor: a 403 anywhere except the refresh endpoint triggers the
	// refresh-or-logout sequence; the original request is resubmitted at most
	// once.
	if status == http.StatusForbidden && path != RefreshPath {
		if retried {
			c.logger.Warnf("request %s %s got 403 after retry, forcing logout", method, path)
			c.forceLogout()
			return apiErr
		}
		if creds.RefreshToken == "" {
			c.logger.Warnf("request %s %s got 403 with no refresh token, forcing logout", method, path)
			c.forceLogout()
			return apiErr
		}
		if _, err := c.refreshAccessToken(ctx, attachedToken); err != nil {
			c.logger.Warnf("token refresh failed, forcing logout: %v", err)
			c.forceLogout()
			return apiErr
		}
		return c.do(ctx, method, path, payload, out, true)
	}

	return apiErr
}

// send performs one HTTP exchange. token is attached as a bearer header when
// non-empty; callers pass "" for the refresh endpoint.
func (c *Client) send(ctx context.Context, method, path string, payload []byte, token string) (int, []byte, error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token != "" && path != RefreshPath {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Errorf("request %s %s failed: %v", method, path, err)
		return 0, nil, fmt.Errorf("cannot connect to server: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, respBody, nil
}

// refreshAccessToken renews the access token with the stored refresh token
// and persists the result. The mutex makes concurrent 403s share one refresh:
// a caller that blocked here re-reads the store first and skips its own
// refresh when the token already changed under it.
func (c *Client) refreshAccessToken(ctx context.Context, staleToken string) (string, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	creds, err := c.store.Load()
	if err != nil {
		return "", err
	}
	if creds.Token != "" && creds.Token != staleToken {
		return creds.Token, nil
	}
	if creds.RefreshToken == "" {
		return "", errNoRefreshToken
	}

	payload, err := json.Marshal(map[string]string{"refreshToken": creds.RefreshToken})
	if err != nil {
		return "", err
	}
	status, respBody, err := c.send(ctx, http.MethodPost, RefreshPath, payload, "")
	if err != nil {
		return "", err
	}
	if status < 200 || status >= 300 {
		return "", errorFromResponse(status, respBody)
	}

	var tr struct {
		AccessToken string `json:"accessToken"`
		ActiveToken string `json:"activeToken"`
	}
	if err := decodeBody(respBody, &tr); err != nil {
		return "", fmt.Errorf("decode refresh response: %w", err)
	}
	newToken := tr.AccessToken
	if newToken == "" {
		newToken = tr.ActiveToken
	}
	if newToken == "" {
		return "", errors.New("refresh response missing access token")
	}

	creds.Token = newToken
	if err := c.store.Save(creds); err != nil {
		return "", fmt.Errorf("persist refreshed token: %w", err)
	}
	c.logger.Debugf("access token refreshed")
	return newToken, nil
}

func (c *Client) forceLogout() {
	if err := c.store.Clear(); err != nil {
		c.logger.Errorf("failed to clear credentials: %v", err)
	}
	if c.onForcedLogout != nil {
		c.onForcedLogout()
	}
}

// decodeBody unmarshals a response that may or may not be wrapped in a
// {"data": ...} envelope.
func decodeBody(data []byte, out interface{}) error {
	if out == nil || len(data) == 0 {
		return nil
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &env); err == nil && len(env.Data) > 0 && string(env.Data) != "null" {
		return json.Unmarshal(env.Data, out)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorFromResponse extracts the server's message from the known error body
// shapes and falls back to the raw body.
func errorFromResponse(status int, data []byte) *internal.AppError {
	var env struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if json.Unmarshal(data, &env) == nil {
		if env.Message != "" {
			return internal.NewAppError(status, env.Message)
		}
		if len(env.Error) > 0 {
			var ae internal.AppError
			if json.Unmarshal(env.Error, &ae) == nil && ae.Message != "" {
				return internal.NewAppError(status, ae.Message)
			}
			var msg string
			if json.Unmarshal(env.Error, &msg) == nil && msg != "" {
				return internal.NewAppError(status, msg)
			}
		}
	}
	return internal.NewAppError(status, strings.TrimSpace(string(data)))
}
