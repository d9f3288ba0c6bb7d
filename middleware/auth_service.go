package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrInvalidCredentials is returned when the collaborator rejects the login.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Authenticator verifies credentials. Verification is an external concern:
// this service never stores passwords or compares them locally.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) error
}

// RemoteAuthenticator delegates to an external verification endpoint: one
// POST with the credentials, 2xx means accepted.
type RemoteAuthenticator struct {
	URL    string
	Client *http.Client
}

func NewRemoteAuthenticator(url string) *RemoteAuthenticator {
	return &RemoteAuthenticator{
		URL:    url,
		Client: &http.Client{Timeout: 5 * time.Second},
	}
}

func (a *RemoteAuthenticator) Authenticate(ctx context.Context, username, password string) error {
	body, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.Client.Do(req)
	if err != nil {
		return fmt.Errorf("auth service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrInvalidCredentials
	}
	return fmt.Errorf("auth service returned status %d", resp.StatusCode)
}
