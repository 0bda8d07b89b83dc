package todoable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ListOperations covers the /lists endpoints.
type ListOperations interface {
	Lists(ctx context.Context) ([]List, error)
	FindList(ctx context.Context, id string) (List, error)
	CreateList(ctx context.Context, name string) (List, error)
	RenameList(ctx context.Context, id, name string) (bool, error)
	DeleteList(ctx context.Context, id string) (bool, error)
}

// ItemOperations covers the /lists/{listId}/items endpoints.
type ItemOperations interface {
	CreateItem(ctx context.Context, listID, name string) (ListItem, error)
	FinishItem(ctx context.Context, listID, id string) (bool, error)
	DeleteItem(ctx context.Context, listID, id string) (bool, error)
}

// API is everything the client exposes against the remote service.
type API interface {
	ListOperations
	ItemOperations
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// Client talks to the Todoable HTTP API. It is safe for concurrent use.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	logger    *zap.Logger
	session   *Session
}

const (
	// DefaultBaseURL is the hosted Todoable API.
	DefaultBaseURL   = "https://todoable.teachable.tech/api"
	defaultUserAgent = "todoable-go/0.1"
	requestTimeout   = 10 * time.Second
	maxBodyBytes     = 4 << 20
)

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the transport. Timeouts are the transport's concern.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger used for request and session events.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock overrides time.Now for token expiry decisions.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.session.now = now
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient builds an unauthenticated Client for baseURL. An empty baseURL
// uses DefaultBaseURL.
func NewClient(baseURL string, creds Credentials, opts ...Option) (*Client, error) {
	if strings.TrimSpace(creds.Username) == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidArgument)
	}
	if creds.Password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrInvalidArgument)
	}
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		logger:    zap.NewNop(),
	}
	c.session = NewSession(creds, c.authenticate)
	for _, opt := range opts {
		opt(c)
	}
	c.session.logger = c.logger
	return c, nil
}

// Build creates a Client and authenticates it before returning.
func Build(ctx context.Context, baseURL string, creds Credentials, opts ...Option) (*Client, error) {
	c, err := NewClient(baseURL, creds, opts...)
	if err != nil {
		return nil, err
	}
	if err := c.Authenticate(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Authenticate exchanges the client's credentials for a token. It may be
// called repeatedly; each call replaces the token and its expiry.
func (c *Client) Authenticate(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	_, err := c.session.Authenticate(ctx)
	return err
}

// Token returns the current token, or "" when unauthenticated.
func (c *Client) Token() string {
	return c.session.Token()
}

// Session exposes the client's session state.
func (c *Client) Session() *Session {
	return c.session
}

// authenticate is the Session's AuthFunc: POST /authenticate with basic auth.
func (c *Client) authenticate(ctx context.Context, creds Credentials) (string, error) {
	req, err := c.newRequest(ctx, http.MethodPost, c.resolve("authenticate"), nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(creds.Username, creds.Password)

	resp, err := c.send(req)
	if err != nil {
		return "", err
	}
	if err := classify(resp.StatusCode, resp.Body); err != nil {
		return "", &AuthenticationError{StatusCode: resp.StatusCode, Err: err}
	}
	var payload authResponse
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return "", &AuthenticationError{StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	if strings.TrimSpace(payload.Token) == "" {
		return "", &AuthenticationError{StatusCode: resp.StatusCode, Err: fmt.Errorf("response carried no token")}
	}
	c.logger.Info("authenticated", zap.String("user", creds.Username))
	return payload.Token, nil
}

// response is a fully read HTTP response.
type response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// do runs one token-bearing call: ensure the session, send, classify.
func (c *Client) do(ctx context.Context, method string, target *url.URL, body any) (*response, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	token, err := c.session.EnsureValid(ctx)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch b := body.(type) {
	case nil:
	case []byte:
		payload = b
	default:
		payload, err = json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
	}

	req, err := c.newRequest(ctx, method, target, payload)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Token token="+token)

	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}
	if err := classify(resp.StatusCode, resp.Body); err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, target.Path, err)
	}
	return resp, nil
}

func (c *Client) newRequest(ctx context.Context, method string, target *url.URL, payload []byte) (*http.Request, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) send(req *http.Request) (*response, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	c.logger.Debug("todoable request",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))
	return &response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

// resolve joins path segments onto the base URL, escaping each one.
func (c *Client) resolve(segments ...string) *url.URL {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return c.baseURL.JoinPath(escaped...)
}

func decode(resp *response, dest any) error {
	if err := json.Unmarshal(resp.Body, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse base url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

// requireID rejects blank identifiers before any request is attempted.
func requireID(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidArgument, name)
	}
	if strings.Contains(value, "/") || value == "." || value == ".." {
		return fmt.Errorf("%w: %s %q is not a valid identifier", ErrInvalidArgument, name, value)
	}
	return nil
}
