package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
)

// TokenSource supplies the bearer token attached to privileged calls. An empty
// token means the call goes out unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource for a token already in hand.
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}

// Credentials is the username/password pair exchanged for a token.
type Credentials struct {
	Username string
	Password string
}

// Login exchanges credentials for a bearer token. The backend's token endpoint
// takes the credentials as multipart form fields.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	if strings.TrimSpace(creds.Username) == "" || creds.Password == "" {
		return "", errors.New("transport: username and password are required")
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("username", creds.Username); err != nil {
		return "", fmt.Errorf("transport: encode credentials: %w", err)
	}
	if err := writer.WriteField("password", creds.Password); err != nil {
		return "", fmt.Errorf("transport: encode credentials: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("transport: encode credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/token", &buf)
	if err != nil {
		return "", fmt.Errorf("transport: build login request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	body, err := c.do(req, "login")
	if err != nil {
		return "", err
	}
	token, _ := body["access_token"].(string)
	if strings.TrimSpace(token) == "" {
		return "", errors.New("transport: login response missing access token")
	}
	return token, nil
}

// Register creates an account via the JSON register endpoint.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	payload, err := json.Marshal(map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return fmt.Errorf("transport: encode registration: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/register", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("transport: build register request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	_, err = c.do(req, "register")
	return err
}

// ValidateSession confirms a stored token is still honoured by the backend.
// Session validity is an explicit capability confirmed per privileged call
// chain, never assumed from the presence of a stored token.
func (c *Client) ValidateSession(ctx context.Context, token string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/me", nil)
	if err != nil {
		return false, fmt.Errorf("transport: build session request: %w", err)
	}
	if strings.TrimSpace(token) != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	_, err = c.do(req, "validate-session")
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && (statusErr.Status == http.StatusUnauthorized || statusErr.Status == http.StatusForbidden) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
