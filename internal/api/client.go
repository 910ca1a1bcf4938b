// Package api talks to the inventory backend over JSON/HTTP.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	custom_error "github.com/opalaxis/beamsolopex-companion/pkg/errors"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-ID"

// TokenSource hands out the bearer token for the next request. An empty
// token sends the request unauthenticated.
type TokenSource interface {
	Token() string
}

type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         TokenSource
	onUnauthorized func()
	logger         *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithUnauthorizedHandler registers fn to run whenever the backend answers 401.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	// anonymous requests neither send the token nor trigger the 401 handler
	anonymous bool
}

// Do sends a JSON request and decodes the response into out, unwrapping a
// {"data": ...} envelope when there is one. Non-2xx answers come back as
// *custom_error.APIError.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	return c.do(ctx, request{method: method, path: path, query: query, body: body}, out)
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	endpoint := c.baseURL + r.path
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	var payload io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, payload)
	if err != nil {
		return err
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if !r.anonymous && c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("Backend request",
		zap.String("method", r.method),
		zap.String("path", r.path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusUnauthorized && !r.anonymous && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return custom_error.WrapHTTPError(resp.StatusCode, errorMessage(raw))
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	return decode(raw, out)
}

// decode accepts both {"data": payload} and a bare payload.
func decode(raw []byte, out any) error {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		raw = envelope.Data
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func errorMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}
