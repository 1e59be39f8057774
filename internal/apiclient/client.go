package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/hireloop-labs/hireloop-console/internal/model"
)

// ErrUnauthorized marks 401/403-class upstream failures: the bearer token is
// missing, expired or rejected. Callers treat it as fatal to the session.
var ErrUnauthorized = errors.New("upstream rejected credentials")

// Client is a thin wrapper over the recruiting platform HTTP API. It holds
// no token of its own; every authenticated call receives the bearer token
// explicitly.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// New creates an API client for the given base URL.
func New(rawURL string, timeout time.Duration) (*Client, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if parsed.Scheme == "" {
		return nil, fmt.Errorf("base url must include scheme")
	}
	parsed.Path = strings.TrimSuffix(parsed.Path, "/")
	return &Client{
		baseURL: parsed,
		http: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// LoginResponse is returned by the upstream login endpoint.
type LoginResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Token   string `json:"token"`
}

// Login exchanges credentials for an upstream bearer token. Failure is
// signalled by a non-2xx status or a response lacking a token.
func (c *Client) Login(ctx context.Context, handle, password string) (string, error) {
	body, err := json.Marshal(map[string]string{
		"handle":   handle,
		"password": password,
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolve("/login"), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("login http status %s", resp.Status)
	}
	var payload LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode login response: %w", err)
	}
	if payload.Token == "" {
		if payload.Message != "" {
			return "", fmt.Errorf("login failed: %s", payload.Message)
		}
		return "", fmt.Errorf("login response missing token")
	}
	return payload.Token, nil
}

// SearchActivityLogs posts a compiled filter payload to the activity-log
// search endpoint.
func (c *Client) SearchActivityLogs(ctx context.Context, token string, payload model.SearchPayload) (*model.SearchResult, error) {
	var result model.SearchResult
	if err := c.post(ctx, "/activity/logs", token, payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateEntry submits a new candidate/lead built from the add-entry form.
func (c *Client) CreateEntry(ctx context.Context, token string, entry model.EntryPayload) error {
	var ack model.BasicResponse
	if err := c.post(ctx, "/create/activity/external/user", token, entry, &ack); err != nil {
		return err
	}
	if ack.Error {
		return fmt.Errorf("create entry failed: %s", ack.Message)
	}
	return nil
}

// RemoveDevice deregisters a push subscription player id upstream.
func (c *Client) RemoveDevice(ctx context.Context, token, playerID string) error {
	var ack model.BasicResponse
	payload := map[string]string{"deviceId": playerID}
	if err := c.post(ctx, "/user/remove/device", token, payload, &ack); err != nil {
		return err
	}
	if ack.Error {
		return fmt.Errorf("remove device failed: %s", ack.Message)
	}
	return nil
}

func (c *Client) post(ctx context.Context, endpoint, token string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolve(endpoint), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.decorate(req, token)
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s http status %s", endpoint, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

func (c *Client) resolve(p string) string {
	u := *c.baseURL
	u.Path = path.Join(c.baseURL.Path, p)
	return u.String()
}

func (c *Client) decorate(req *http.Request, token string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// BaseURL returns the configured upstream URL without trailing slash.
func (c *Client) BaseURL() string {
	return strings.TrimRight(c.baseURL.String(), "/")
}
