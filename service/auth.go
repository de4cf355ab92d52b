package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"cineconnect-cli/model"
)

// Login exchanges credentials for a token and the user record.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (model.AuthResult, error) {
	if strings.TrimSpace(creds.Email) == "" || creds.Password == "" {
		return model.AuthResult{}, errors.New("email and password are required")
	}
	var result model.AuthResult
	if err := c.postJSON(ctx, "/auth/login", creds, &result); err != nil {
		return model.AuthResult{}, err
	}
	if result.Token == "" {
		return model.AuthResult{}, errors.New("login succeeded without a token")
	}
	return result, nil
}

// Register creates a customer account. Self-registration always gets the
// cliente role.
func (c *Client) Register(ctx context.Context, name string, creds model.Credentials) (model.AuthResult, error) {
	if strings.TrimSpace(name) == "" {
		return model.AuthResult{}, errors.New("name is required")
	}
	if strings.TrimSpace(creds.Email) == "" || creds.Password == "" {
		return model.AuthResult{}, errors.New("email and password are required")
	}
	payload := model.Registration{
		Name:     strings.TrimSpace(name),
		Email:    strings.TrimSpace(creds.Email),
		Password: creds.Password,
		Role:     model.RoleCliente,
	}
	var result model.AuthResult
	if err := c.postJSON(ctx, "/auth/register", payload, &result); err != nil {
		return model.AuthResult{}, err
	}
	return result, nil
}

// Profile validates token against the server and returns its user. The
// token is passed explicitly because it is checked before the session
// adopts it.
func (c *Client) Profile(ctx context.Context, token string) (model.User, error) {
	if token == "" {
		return model.User{}, ErrUnauthorized
	}
	var data struct {
		User model.User `json:"user"`
	}
	if err := c.withToken(token).getJSON(ctx, "/auth/profile", nil, &data); err != nil {
		return model.User{}, err
	}
	return data.User, nil
}

// Logout revokes token server-side.
func (c *Client) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return c.withToken(token).postJSON(ctx, "/auth/logout", nil, nil)
}

// Health pings the server root health endpoint, which is not enveloped.
func (c *Client) Health(ctx context.Context) error {
	res, err := c.send(ctx, http.MethodGet, c.ServerURL()+"/health", nil)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return &APIError{StatusCode: res.StatusCode, Status: res.Status, Endpoint: c.ServerURL() + "/health"}
	}
	return nil
}

type staticToken string

func (t staticToken) Token() string { return string(t) }

// withToken returns a shallow copy that authenticates with token and does
// not fire the unauthorized hook, so a stale token can be probed safely.
func (c *Client) withToken(token string) *Client {
	clone := *c
	clone.tokens = staticToken(token)
	clone.onUnauthorized = nil
	return &clone
}
