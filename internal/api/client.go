// Package api is the HTTP client for the remote todos resource.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Makepad-fr/tada/internal/model"
)

const maxErrorBody = 512

// Client talks to a REST API exposing /todos scoped by user id.
type Client struct {
	base    *url.URL
	http    *http.Client
	token   string
	logger  *log.Logger
	schemas *schemas
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithToken sends "Authorization: Bearer <token>" on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = strings.TrimSpace(token) }
}

// WithLogger sets the request logger. The default discards.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New returns a client rooted at baseURL (e.g. "http://localhost:8080").
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api url %q: scheme must be http or https", baseURL)
	}
	s, err := compileSchemas()
	if err != nil {
		return nil, err
	}
	c := &Client{
		base:    u,
		http:    http.DefaultClient,
		logger:  log.New(io.Discard),
		schemas: s,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// List fetches every todo owned by userID, in server order.
func (c *Client) List(ctx context.Context, userID int) ([]model.Todo, error) {
	q := url.Values{"userId": []string{strconv.Itoa(userID)}}
	var todos []model.Todo
	if err := c.do(ctx, "list todos", http.MethodGet, c.base.JoinPath("todos"), q, nil, c.schemas.todos, &todos); err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	return todos, nil
}

type createRequest struct {
	Title     string `json:"title"`
	UserID    int    `json:"userId"`
	Completed bool   `json:"completed"`
}

// Create asks the server to create an active todo and returns it with its id.
func (c *Client) Create(ctx context.Context, title string, userID int) (model.Todo, error) {
	body := createRequest{Title: title, UserID: userID}
	var todo model.Todo
	if err := c.do(ctx, "create todo", http.MethodPost, c.base.JoinPath("todos"), nil, body, c.schemas.todo, &todo); err != nil {
		return model.Todo{}, err
	}
	return todo, nil
}

// Delete removes the todo with the given id.
func (c *Client) Delete(ctx context.Context, id int) error {
	return c.do(ctx, "delete todo", http.MethodDelete, c.base.JoinPath("todos", strconv.Itoa(id)), nil, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, op, method string, u *url.URL, q url.Values, in any, schema *jsonschema.Schema, out any) error {
	if q != nil {
		u.RawQuery = q.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: marshal: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("%s: new request: %w", op, err)
	}
	rid := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", rid)
	if in != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug("request", "op", op, "method", method, "url", u.String(), "request_id", rid)
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed", "op", op, "request_id", rid, "err", err)
		return &NetworkError{Op: op, URL: u.String(), Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("response", "op", op, "status", resp.StatusCode, "request_id", rid)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &ServerError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	if out == nil {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: op, URL: u.String(), Err: fmt.Errorf("read body: %w", err)}
	}
	if schema != nil {
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return &ServerError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("json: %w", err)}
		}
		if err := schema.Validate(doc); err != nil {
			return &ServerError{Op: op, StatusCode: resp.StatusCode, Err: err}
		}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &ServerError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("json: %w", err)}
	}
	return nil
}
