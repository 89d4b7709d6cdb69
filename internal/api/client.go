package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"
)

const maxBodySize = 10 << 20

// Authenticator supplies the bearer token for outgoing requests and is told
// when the backend rejects it.
type Authenticator interface {
	// Token returns the current bearer token, or "" when logged out.
	Token() string
	// Expire is called synchronously on every 401 response, before the
	// error is returned to the caller.
	Expire(ctx context.Context)
}

// Request describes a single call against the storefront backend.
type Request struct {
	Method string
	Path   string
	Body   any // JSON encoded unless it is a *Multipart
	Query  url.Values
}

// Client issues requests against a base URL, attaching the session's bearer
// token and routing 401 responses to the Authenticator.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	tracer     trace.Tracer

	mu   sync.RWMutex
	auth Authenticator
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithAuthenticator binds the session that supplies tokens.
func WithAuthenticator(a Authenticator) Option {
	return func(c *Client) {
		c.auth = a
	}
}

// NewClient creates a client bound to baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host are required", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: http.DefaultClient,
		tracer:     otel.Tracer("github.com/syahrullah26/dewaunitedstore/internal/api"),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// SetAuthenticator binds the session after construction. The session needs
// the client to exist before it can be created, so wiring happens in two steps.
func (c *Client) SetAuthenticator(a Authenticator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.auth = a
}

func (c *Client) authenticator() Authenticator {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.auth
}

// Do sends req and decodes a 2xx JSON response into out (which may be nil).
// Non-2xx responses are returned as *Error. Nothing is retried.
func (c *Client) Do(ctx context.Context, req Request, out any) (err error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	ctx, span := c.tracer.Start(ctx, "api "+method+" "+req.Path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", req.Path),
		))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	httpReq, err := c.newRequest(ctx, method, req)
	if err != nil {
		return err
	}

	auth := c.authenticator()
	if auth != nil {
		if token := auth.Token(); token != "" {
			(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(httpReq)
		}
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, req.Path, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("failed to read %s %s response: %w", method, req.Path, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		log.Debug().Str("path", req.Path).Msg("backend rejected session, expiring")
		if auth != nil {
			auth.Expire(ctx)
		}
		return newError(resp.StatusCode, body)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newError(resp.StatusCode, body)
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, req.Path, err)
	}

	return nil
}

func (c *Client) newRequest(ctx context.Context, method string, req Request) (*http.Request, error) {
	u := c.baseURL.JoinPath(req.Path)
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch b := req.Body.(type) {
	case nil:
	case *Multipart:
		buf, ct, err := b.encode()
		if err != nil {
			return nil, err
		}
		body, contentType = buf, ct
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body, contentType = bytes.NewReader(data), "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-Id", uuid.NewString())
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	return httpReq, nil
}
