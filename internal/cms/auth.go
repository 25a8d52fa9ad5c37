// ABOUTME: Authentication endpoints: login, registration, and current user
// ABOUTME: Login returns the raw bearer credential for the caller to store

package cms

import (
	"context"
	"errors"
	"fmt"

	"github.com/2389/confadmin/internal/content"
)

// ErrNoToken is returned when a successful login response carries no token.
var ErrNoToken = errors.New("login response did not include a token")

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the account registration request body.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	if err := c.post(ctx, "/auth/login", creds, &out); err != nil {
		return "", fmt.Errorf("logging in: %w", err)
	}
	if out.Token == "" {
		return "", ErrNoToken
	}
	return out.Token, nil
}

// Register creates an admin account. It does not log the account in.
func (c *Client) Register(ctx context.Context, reg Registration) error {
	if err := c.post(ctx, "/auth/register", reg, nil); err != nil {
		return fmt.Errorf("registering: %w", err)
	}
	return nil
}

// Me returns the user that owns the current credential.
func (c *Client) Me(ctx context.Context) (*content.User, error) {
	var u content.User
	if err := c.get(ctx, "/auth/me", &u); err != nil {
		return nil, fmt.Errorf("fetching current user: %w", err)
	}
	return &u, nil
}
