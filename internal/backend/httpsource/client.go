// Package httpsource implements service.Source against a JSON endpoint that
// answers GET with an array of items.
package httpsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"grocery/internal/config"
	"grocery/internal/service"
)

const (
	// DefaultTimeout is used when the settings carry no timeout.
	DefaultTimeout = 5 * time.Second

	// maxBodySize caps how much of a response body is decoded.
	maxBodySize = 4 << 20
)

// Client implements service.Source over HTTP.
type Client struct {
	endpoint   string
	httpClient *http.Client
	timeout    time.Duration
	logger     *zap.Logger
}

// New creates a client for the endpoint in cfg. When a token is configured
// requests carry it as a bearer token.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	s := cfg.Settings
	if s.Endpoint == "" {
		return nil, errors.New("endpoint required")
	}

	httpClient := http.DefaultClient
	if s.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: s.Token, TokenType: "Bearer"})
		httpClient = oauth2.NewClient(ctx, ts)
	}

	c := NewWithHTTPClient(s.Endpoint, httpClient)
	if s.Timeout > 0 {
		c.timeout = s.Timeout
	}
	c.logger = cfg.Logger()
	return c, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(endpoint string, httpClient *http.Client) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: httpClient,
		timeout:    DefaultTimeout,
		logger:     zap.NewNop(),
	}
}

// FetchItems implements service.Source.
func (c *Client) FetchItems(ctx context.Context) ([]service.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("fetching items", zap.String("endpoint", c.endpoint))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, wrapError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("unexpected response", zap.Int("status", resp.StatusCode))
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, service.ErrUnexpectedResponse
	}

	items, err := service.DecodeItems(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, err
	}
	return items, nil
}

// wrapError normalises transport errors.
func wrapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.New("request timed out")
	}
	return err
}
