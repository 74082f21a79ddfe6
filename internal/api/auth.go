package api

import (
	"context"

	"bookbuster/internal/membership"
	"bookbuster/internal/session"
)

type authResponse struct {
	Message string       `json:"message"`
	User    session.User `json:"user"`
}

// Register submits a self-service account registration and returns the
// server's confirmation message.
func (c *Client) Register(ctx context.Context, nombre, email, password string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	err := c.post(ctx, "/auth/register", map[string]string{
		"nombre":   nombre,
		"email":    email,
		"password": password,
	}, &out)
	return out.Message, err
}

// Login authenticates and, on success, persists the session user and the
// server's session cookie so the caller never has to.
func (c *Client) Login(ctx context.Context, email, password string) (session.User, error) {
	var out authResponse
	err := c.post(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return session.User{}, err
	}

	if err := c.sessions.Set(session.Record{User: out.User, Cookies: c.currentCookies()}); err != nil {
		return session.User{}, transportError(err)
	}
	return out.User, nil
}

// Logout ends the server session and clears the persisted record.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.post(ctx, "/auth/logout", nil, nil); err != nil {
		return err
	}
	if err := c.sessions.Clear(); err != nil {
		return transportError(err)
	}
	return nil
}

// Profile fetches the authenticated account as the server sees it.
func (c *Client) Profile(ctx context.Context) (membership.User, error) {
	var out membership.User
	err := c.get(ctx, "/auth/profile", &out)
	return out, err
}
