package navigator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var ErrAuthFailed = errors.New("authentication failed")

// User is the authenticated account.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Session is the result of a successful login or registration.
type Session struct {
	Token string
	User  User
}

type authResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	User    *User  `json:"user"`
	Token   string `json:"token"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	payload := map[string]string{"email": email, "password": password}
	return c.authenticate(ctx, "auth/login", payload)
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*Session, error) {
	payload := map[string]string{"name": name, "email": email, "password": password}
	return c.authenticate(ctx, "auth/register", payload)
}

func (c *Client) authenticate(ctx context.Context, path string, payload any) (*Session, error) {
	var resp authResponse
	if err := c.sendJSON(ctx, http.MethodPost, path, "", payload, &resp); err != nil {
		return nil, err
	}

	if !resp.Success || resp.Token == "" {
		msg := resp.Message
		if msg == "" {
			msg = "no token issued"
		}
		return nil, fmt.Errorf("%w: %s", ErrAuthFailed, msg)
	}

	s := &Session{Token: resp.Token}
	if resp.User != nil {
		s.User = *resp.User
	}
	return s, nil
}

// Logout invalidates token on the server.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.sendJSON(ctx, http.MethodPost, "auth/logout", token, nil, nil)
}

// Me returns the user owning token. Invalid tokens yield ErrUnauthorized.
func (c *Client) Me(ctx context.Context, token string) (*User, error) {
	var resp authResponse
	if err := c.getJSON(ctx, "auth/me", token, nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success || resp.User == nil {
		return nil, ErrUnauthorized
	}
	return resp.User, nil
}
