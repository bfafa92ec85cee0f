package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pathuGIT/Health-Tracker/internal"
	"github.com/pathuGIT/Health-Tracker/internal/api"
)

var validate = validator.New()

// Register creates a new account. The created profile is returned; the
// password is never echoed back.
func Register(ctx context.Context, c *api.Client, req *internal.RegisterRequest) (*internal.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	var user internal.User
	if err := c.Post(ctx, "/auth/register", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges credentials for a token pair. Persisting the session is the
// auth.Manager's job, not this wrapper's.
func Login(ctx context.Context, c *api.Client, login, password string) (*internal.TokenResponse, error) {
	req := &internal.LoginRequest{Login: login, Password: password}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	var tokens internal.TokenResponse
	if err := c.Post(ctx, "/auth/login", req, &tokens); err != nil {
		return nil, err
	}
	return &tokens, nil
}

// Logout invalidates the refresh token server-side.
func Logout(ctx context.Context, c *api.Client) error {
	return c.Put(ctx, "/auth/logout", nil, nil)
}
