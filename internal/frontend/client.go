// Package frontend drives the blog from the reader's side: an API client,
// a local session file and the UI state machine built on top of them.
package frontend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"personalblog/internal/models"
)

// APIError is a non-2xx answer from the blog API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// HasStatus reports whether err is an APIError carrying code.
func HasStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// AuthResponse is the payload of /auth/register and /auth/login.
type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// NewClient talks to the API rooted at baseURL. A nil httpClient gets a
// client with a 15 second timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// SetToken sets the bearer token sent with every following request.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) ListPosts(ctx context.Context, tag string) ([]models.Post, error) {
	path := "/posts"
	if tag != "" && tag != AllTags {
		path += "?tag=" + url.QueryEscape(tag)
	}

	var posts []models.Post
	if err := c.do(ctx, http.MethodGet, path, nil, &posts); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (c *Client) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, http.MethodGet, "/posts/"+url.PathEscape(postID), nil, &post); err != nil {
		return nil, fmt.Errorf("get post %s: %w", postID, err)
	}
	return &post, nil
}

func (c *Client) Register(ctx context.Context, username, password string) (*AuthResponse, error) {
	return c.credentials(ctx, "/auth/register", username, password)
}

func (c *Client) Login(ctx context.Context, username, password string) (*AuthResponse, error) {
	return c.credentials(ctx, "/auth/login", username, password)
}

func (c *Client) credentials(ctx context.Context, path, username, password string) (*AuthResponse, error) {
	body := map[string]string{"username": username, "password": password}

	var result AuthResponse
	if err := c.do(ctx, http.MethodPost, path, body, &result); err != nil {
		return nil, fmt.Errorf("%s: %w", strings.TrimPrefix(path, "/auth/"), err)
	}
	return &result, nil
}

// Me asks the server who the current token belongs to.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, fmt.Errorf("me: %w", err)
	}
	return &user, nil
}

func (c *Client) CreatePost(ctx context.Context, fields models.PostFields) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, http.MethodPost, "/posts", fields, &post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return &post, nil
}

func (c *Client) UpdatePost(ctx context.Context, postID string, fields models.PostFields) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, http.MethodPut, "/posts/"+url.PathEscape(postID), fields, &post); err != nil {
		return nil, fmt.Errorf("update post %s: %w", postID, err)
	}
	return &post, nil
}

func (c *Client) DeletePost(ctx context.Context, postID string) error {
	if err := c.do(ctx, http.MethodDelete, "/posts/"+url.PathEscape(postID), nil, nil); err != nil {
		return fmt.Errorf("delete post %s: %w", postID, err)
	}
	return nil
}

// do sends one request and decodes the envelope's data into out (when non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, 8<<20)).Decode(&env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("decoding response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest || !env.Success {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decoding data: %w", err)
	}
	return nil
}
