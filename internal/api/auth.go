package api

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gastroflow/gastroflow-cli/internal/session"
)

// --- Auth Methods ---

// Login exchanges credentials for a bearer token (unauthenticated).
func (c *Client) Login(input LoginInput) (*LoginResponse, error) {
	input.Email = strings.TrimSpace(input.Email)
	if err := input.Validate(); err != nil {
		return nil, err
	}
	data, err := c.post(PathLogin, input)
	if err != nil {
		return nil, err
	}
	resp, err := decodeOne[LoginResponse](data)
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.Token == "" {
		return nil, errors.New("login response carried no token")
	}
	return resp, nil
}

// Register creates a user account (unauthenticated).
func (c *Client) Register(input RegisterInput) (*User, error) {
	input.Email = strings.TrimSpace(input.Email)
	input.Name = strings.TrimSpace(input.Name)
	if err := input.Validate(); err != nil {
		return nil, err
	}
	data, err := c.post(PathRegister, input)
	if err != nil {
		return nil, err
	}
	return decodeOne[User](data)
}

// CurrentUser fetches the profile of the signed-in user.
func (c *Client) CurrentUser() (*User, error) {
	data, err := c.get("/v1/api/users/me")
	if err != nil {
		return nil, err
	}
	user, err := decodeOne[User](data)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("empty user profile")
	}
	return user, nil
}

// SignIn logs in, stores the token in the session and loads the profile.
// A failed profile fetch keeps the login and falls back to the token claims.
func (c *Client) SignIn(input LoginInput) (*session.User, error) {
	resp, err := c.Login(input)
	if err != nil {
		return nil, err
	}
	if err := c.session.LoginFor(strings.TrimSpace(input.Email), resp.Token); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	profile, err := c.CurrentUser()
	if err != nil {
		c.session.Logger().Warn("fetch profile after login", "err", err)
		return c.session.User(), nil
	}
	c.session.SetUser(profile.SessionUser())
	return c.session.User(), nil
}

// SessionUser converts a backend profile to the in-memory session user.
func (u *User) SessionUser() *session.User {
	if u == nil {
		return nil
	}
	return &session.User{
		ID:    strconv.FormatInt(u.ID, 10),
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}
