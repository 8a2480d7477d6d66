package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrUnauthorized is returned when the server rejects the stored session
var ErrUnauthorized = errors.New("session expired or invalid. Please run 'sitectl login' again")

// ErrNotFound is returned for an unknown section
var ErrNotFound = errors.New("section not found")

// Client represents an HTTP client for the content API
type Client struct {
	baseURL    string
	httpClient *http.Client
	cookie     *http.Cookie
}

// New creates a new API client for baseURL (e.g. http://localhost:5000)
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetHTTPClient sets a custom HTTP client
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// SetSession attaches a stored "name=value" session cookie to later requests
func (c *Client) SetSession(session string) error {
	name, value, ok := strings.Cut(session, "=")
	if !ok || name == "" || value == "" {
		return fmt.Errorf("malformed stored session")
	}
	c.cookie = &http.Cookie{Name: name, Value: value}
	return nil
}

// Session returns the current session cookie as "name=value", or "" when logged out
func (c *Client) Session() string {
	if c.cookie == nil {
		return ""
	}
	return c.cookie.Name + "=" + c.cookie.Value
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// MessageResponse is the {success, message, error} envelope of the admin endpoints
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Section is a stored section as returned by an update
type Section struct {
	ID        string          `json:"id"`
	Section   string          `json:"section"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Login authenticates and keeps the session cookie the server set
func (c *Client) Login(email, password string) error {
	resp, err := c.do(http.MethodPost, "/api/admin/login", LoginRequest{Email: email, Password: password})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError("login failed", resp)
	}

	for _, cookie := range resp.Cookies() {
		if cookie.Value != "" {
			c.cookie = &http.Cookie{Name: cookie.Name, Value: cookie.Value}
			return nil
		}
	}
	return fmt.Errorf("login succeeded but the server set no session cookie")
}

// Logout destroys the server-side session
func (c *Client) Logout() error {
	resp, err := c.do(http.MethodPost, "/api/admin/logout", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError("logout failed", resp)
	}
	c.cookie = nil
	return nil
}

// Status reports whether the current session is authenticated
func (c *Client) Status() (bool, error) {
	var status struct {
		IsAuthenticated bool `json:"isAuthenticated"`
	}
	if err := c.getJSON("/api/admin/status", &status); err != nil {
		return false, err
	}
	return status.IsAuthenticated, nil
}

// ListContent returns every section keyed by name
func (c *Client) ListContent() (map[string]json.RawMessage, error) {
	var sections map[string]json.RawMessage
	if err := c.getJSON("/api/content", &sections); err != nil {
		return nil, err
	}
	return sections, nil
}

// GetContent returns one section's data
func (c *Client) GetContent(section string) (json.RawMessage, error) {
	var data json.RawMessage
	if err := c.getJSON("/api/content/"+url.PathEscape(section), &data); err != nil {
		return nil, err
	}
	return data, nil
}

// UpdateContent replaces a section's data; requires a session
func (c *Client) UpdateContent(section string, data json.RawMessage) (*Section, error) {
	body := struct {
		Data json.RawMessage `json:"data"`
	}{Data: data}

	resp, err := c.do(http.MethodPut, "/api/admin/content/"+url.PathEscape(section), body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, ErrUnauthorized
	default:
		return nil, statusError("update failed", resp)
	}

	var updated struct {
		Success bool     `json:"success"`
		Content *Section `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return updated.Content, nil
}

func (c *Client) getJSON(path string, out interface{}) error {
	resp, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return statusError("request failed", resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) do(method, path string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

func statusError(prefix string, resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("%s (status %d): %s", prefix, resp.StatusCode, strings.TrimSpace(string(body)))
}
