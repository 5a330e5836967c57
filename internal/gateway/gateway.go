package gateway

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

	"github.com/google/uuid"

	"empathy-client/internal/domain/ports"
)

const maxResponseBody = 4 << 20

// Request is the descriptor for one logical call. It is reused across
// retries; RetryCount grows with each resend.
type Request struct {
	ID         string
	Method     string
	Path       string
	Query      url.Values
	Header     http.Header
	Body       []byte
	RetryCount int
	MaxRetries int
	StartedAt  time.Time
}

// Response is a fully read backend response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Latency    time.Duration
	RequestID  string
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return fmt.Errorf("decode response: empty body")
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Client sends requests to the backend on behalf of the domain adapters.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	tokens     ports.TokenStore
	logger     ports.Logger
	policy     Policy
	timeout    time.Duration
	debug      bool
}

// New creates a gateway for the API rooted at baseURL. tokens may be nil for
// anonymous clients.
func New(baseURL string, tokens ports.TokenStore, logger ports.Logger, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: only http and https schemes are supported", ErrInvalidBaseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: host is required", ErrInvalidBaseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{},
		tokens:     tokens,
		logger:     logger,
		policy:     DefaultPolicy(),
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Do sends method path with body encoded as JSON (nil for no body) and
// retries according to the client's policy. Every failure is returned to
// the caller; the last attempt's error stays reachable through errors.As.
func (c *Client) Do(ctx context.Context, method, path string, body any, opts ...RequestOption) (*Response, error) {
	req, err := c.newRequest(method, path, body, opts)
	if err != nil {
		return nil, err
	}

	for {
		resp, err := c.send(ctx, req)

		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		if status == http.StatusUnauthorized {
			c.clearToken(ctx)
		}

		decision := c.policy.Decide(req.RetryCount, status, err)
		switch decision.Action {
		case ActionSucceed:
			c.logSuccess(ctx, req, resp)
			return resp, nil

		case ActionFail:
			return nil, c.terminalError(req, status, err)

		case ActionRetry:
			c.logRetry(ctx, req, decision.Delay, err)
			select {
			case <-ctx.Done():
				return nil, errors.Join(ctx.Err(), err)
			case <-time.After(decision.Delay):
			}
			req.RetryCount++
		}
	}
}

// Get is shorthand for Do with GET and no body.
func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil, opts...)
}

// Post is shorthand for Do with POST.
func (c *Client) Post(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, body, opts...)
}

// Tokens exposes the session store the client reads credentials from.
func (c *Client) Tokens() ports.TokenStore {
	return c.tokens
}

func (c *Client) newRequest(method, path string, body any, opts []RequestOption) (*Request, error) {
	req := &Request{
		ID:         uuid.NewString(),
		Method:     strings.ToUpper(method),
		Path:       path,
		Query:      url.Values{},
		Header:     http.Header{},
		MaxRetries: c.policy.MaxRetries,
	}
	req.Header.Set("Accept", "application/json")

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		req.Body = data
		req.Header.Set("Content-Type", "application/json")
	}

	for _, opt := range opts {
		opt(req)
	}
	return req, nil
}

func (c *Client) send(ctx context.Context, req *Request) (*Response, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var bodyReader io.Reader = http.NoBody
	if req.Body != nil {
		bodyReader = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(attemptCtx, req.Method, c.resolve(req), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header = req.Header.Clone()
	httpReq.Header.Set("X-Request-ID", req.ID)
	if token := c.token(ctx); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	req.StartedAt = time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, classifyTransportError(ctx, attemptCtx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, classifyTransportError(ctx, attemptCtx, fmt.Errorf("read response body: %w", err))
	}

	out := &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
		Latency:    time.Since(req.StartedAt),
		RequestID:  req.ID,
	}
	if !out.OK() {
		return out, &StatusError{
			Method:     req.Method,
			Path:       req.Path,
			StatusCode: out.StatusCode,
			Message:    extractMessage(data),
			Body:       data,
		}
	}
	return out, nil
}

func (c *Client) resolve(req *Request) string {
	u := c.baseURL.JoinPath(req.Path)
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}
	return u.String()
}

func (c *Client) token(ctx context.Context) string {
	if c.tokens == nil {
		return ""
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn(ctx, "read session token failed", "error", err)
		}
		return ""
	}
	return token
}

func (c *Client) clearToken(ctx context.Context) {
	if c.tokens == nil {
		return
	}
	if err := c.tokens.ClearToken(ctx); err != nil && c.logger != nil {
		c.logger.Error(ctx, "clear session token failed", "error", err)
		return
	}
	if c.logger != nil {
		c.logger.Info(ctx, "session token cleared after 401")
	}
}

func (c *Client) terminalError(req *Request, status int, err error) error {
	switch {
	case IsClientCorrectable(status):
		return fmt.Errorf("%w: %w", ErrClientRejected, err)
	case isCallerAbort(err):
		return err
	default:
		return fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, req.RetryCount+1, err)
	}
}

func (c *Client) logSuccess(ctx context.Context, req *Request, resp *Response) {
	if !c.debug || c.logger == nil {
		return
	}
	c.logger.Debug(ctx, "api request",
		"method", req.Method,
		"path", req.Path,
		"status", resp.StatusCode,
		"latency", resp.Latency,
		"size", len(resp.Body),
		"retries", req.RetryCount,
		"request_id", req.ID)
}

func (c *Client) logRetry(ctx context.Context, req *Request, delay time.Duration, err error) {
	if c.logger == nil {
		return
	}
	c.logger.Warn(ctx, "api request failed, retrying",
		"method", req.Method,
		"path", req.Path,
		"attempt", req.RetryCount+1,
		"max_retries", req.MaxRetries,
		"delay", delay,
		"error", err)
}

func classifyTransportError(parent, attemptCtx context.Context, err error) error {
	if parent.Err() != nil {
		return errors.Join(parent.Err(), err)
	}
	if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrTransport, err)
}

// extractMessage pulls a human-readable reason out of an error envelope.
func extractMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return sanitizeBody(body)
}
