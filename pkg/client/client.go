// Package client is a Go client for the portal API. A Client holds at most
// one Session, set by Login and cleared by Logout.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

var ErrNoSession = errors.New("client: not logged in")

// APIError is a non-2xx response decoded from the error envelope.
type APIError struct {
	StatusCode int
	Type       string `json:"type"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("portal api: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

type Config struct {
	BaseURL string
	Timeout time.Duration
	// HTTPClient overrides the default client; Timeout is then ignored.
	HTTPClient *http.Client
}

type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger

	mu      sync.RWMutex
	session *Session
}

func New(config Config, logger *slog.Logger) *Client {
	httpClient := config.HTTPClient
	if httpClient == nil {
		timeout := config.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		http:    httpClient,
		logger:  logger,
	}
}

// Session returns a copy of the current session, or nil when logged out.
func (c *Client) Session() *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return nil
	}
	cp := *c.session
	return &cp
}

// Resume installs a session obtained earlier, e.g. a token kept on disk.
func (c *Client) Resume(session Session) {
	c.mu.Lock()
	c.session = &session
	c.mu.Unlock()
}

func (c *Client) setSession(s *Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
}

func (c *Client) token() (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil || c.session.Token == "" {
		return "", ErrNoSession
	}
	return c.session.Token, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}

	session := &Session{Token: resp.Token, User: resp.User}
	c.setSession(session)
	c.logger.Debug("portal session started", "user_id", resp.User.ID)
	return c.Session(), nil
}

// Logout revokes the token server-side. The local session is cleared even
// when the server rejects the token, since it is unusable either way.
func (c *Client) Logout(ctx context.Context) error {
	token, err := c.token()
	if err != nil {
		return err
	}
	err = c.do(ctx, http.MethodPost, "/api/auth/logout", token, nil, nil)
	var apiErr *APIError
	if err == nil || (errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized) {
		c.setSession(nil)
	}
	return err
}

func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	var profile Profile
	if err := c.authed(ctx, http.MethodGet, "/api/auth/profile", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) MyProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := c.authed(ctx, http.MethodGet, "/api/projects/my-projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (c *Client) Project(ctx context.Context, id string) (*Project, error) {
	var project Project
	if err := c.authed(ctx, http.MethodGet, "/api/projects/"+url.PathEscape(id), nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := c.authed(ctx, http.MethodGet, "/api/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (c *Client) CreateProject(ctx context.Context, in ProjectInput) (*Project, error) {
	var project Project
	if err := c.authed(ctx, http.MethodPost, "/api/projects", in, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.authed(ctx, http.MethodDelete, "/api/projects/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListCompanies(ctx context.Context) ([]Company, error) {
	var companies []Company
	if err := c.authed(ctx, http.MethodGet, "/api/companies", nil, &companies); err != nil {
		return nil, err
	}
	return companies, nil
}

func (c *Client) CreateCompany(ctx context.Context, in CompanyInput) (*Company, error) {
	var company Company
	if err := c.authed(ctx, http.MethodPost, "/api/companies", in, &company); err != nil {
		return nil, err
	}
	return &company, nil
}

func (c *Client) DeleteCompany(ctx context.Context, id string) error {
	return c.authed(ctx, http.MethodDelete, "/api/companies/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListUsers(ctx context.Context) ([]Account, error) {
	var users []Account
	if err := c.authed(ctx, http.MethodGet, "/api/auth/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) CreateUser(ctx context.Context, in UserInput) (*SessionUser, error) {
	var resp struct {
		User SessionUser `json:"user"`
	}
	if err := c.authed(ctx, http.MethodPost, "/api/auth/users", in, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) UpdateAccess(ctx context.Context, userID string, grant Grant) (*Account, error) {
	var account Account
	if err := c.authed(ctx, http.MethodPut, "/api/auth/users/"+url.PathEscape(userID)+"/access", grant, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *Client) authed(ctx context.Context, method, path string, body, out interface{}) error {
	token, err := c.token()
	if err != nil {
		return err
	}
	return c.do(ctx, method, path, token, body, out)
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var envelope struct {
		Error   *APIError `json:"error"`
		Message string    `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&envelope); err == nil && envelope.Error != nil {
		apiErr.Type = envelope.Error.Type
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
