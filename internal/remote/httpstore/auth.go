package httpstore

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"glimpse/internal/observability"
	"glimpse/internal/remote"
)

type accountPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type sessionPayload struct {
	ID        string    `json:"id"`
	AccountID string    `json:"accountId"`
	Secret    string    `json:"secret"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// CreateAccount registers a new auth principal.
func (c *Client) CreateAccount(ctx context.Context, id, email, password, name string) (*remote.Account, error) {
	defer observability.TrackRemoteCall("auth", "createAccount")()

	var out accountPayload
	err := c.doJSON(ctx, http.MethodPost, "/v1/account", nil, map[string]string{
		"accountId": id,
		"email":     email,
		"password":  password,
		"name":      name,
	}, &out)
	if err != nil {
		observability.RemoteCallErrors.WithLabelValues("auth", "createAccount").Inc()
		c.authLog.LogError(ctx, "createAccount", err)
		return nil, err
	}
	return &remote.Account{ID: out.ID, Email: out.Email, Name: out.Name}, nil
}

// CreateSession signs in with email and password and installs the returned
// session on the client.
func (c *Client) CreateSession(ctx context.Context, email, password string) (*remote.Session, error) {
	defer observability.TrackRemoteCall("auth", "createSession")()

	var out sessionPayload
	err := c.doJSON(ctx, http.MethodPost, "/v1/account/sessions", nil, map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		observability.RemoteCallErrors.WithLabelValues("auth", "createSession").Inc()
		c.authLog.LogError(ctx, "createSession", err)
		return nil, err
	}

	c.setSession(out.ID, out.Secret)
	return &remote.Session{
		ID:        out.ID,
		AccountID: out.AccountID,
		Secret:    out.Secret,
		ExpiresAt: out.ExpiresAt,
	}, nil
}

// CurrentAccount resolves the active session's principal. Absence of a
// session resolves to (nil, nil), not an error.
func (c *Client) CurrentAccount(ctx context.Context) (*remote.Account, error) {
	if _, secret := c.session(); secret == "" && c.cfg.APIKey == "" {
		return nil, nil
	}

	defer observability.TrackRemoteCall("auth", "currentAccount")()

	var out accountPayload
	err := c.doJSON(ctx, http.MethodGet, "/v1/account", nil, nil, &out)
	if err != nil {
		if errors.Is(err, remote.ErrUnauthorized) {
			return nil, nil
		}
		observability.RemoteCallErrors.WithLabelValues("auth", "currentAccount").Inc()
		c.authLog.LogError(ctx, "currentAccount", err)
		return nil, err
	}
	return &remote.Account{ID: out.ID, Email: out.Email, Name: out.Name}, nil
}

// DeleteSession ends the given session. The ID "current" targets the
// session installed on the client.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	defer observability.TrackRemoteCall("auth", "deleteSession")()

	err := c.doJSON(ctx, http.MethodDelete, "/v1/account/sessions/"+url.PathEscape(sessionID), nil, nil, nil)
	if err != nil {
		observability.RemoteCallErrors.WithLabelValues("auth", "deleteSession").Inc()
		c.authLog.LogError(ctx, "deleteSession", err)
		return err
	}
	c.setSession("", "")
	return nil
}

// InitialsURL derives the placeholder avatar URL for a display name. The
// rendering itself happens service-side.
func (c *Client) InitialsURL(name string) string {
	q := url.Values{}
	q.Set("name", name)
	q.Set("project", c.cfg.ProjectID)
	return c.cfg.Endpoint + "/v1/avatars/initials?" + q.Encode()
}
