// Package googletasks implements service.Source by importing a Google Tasks
// list as the initial grocery list.
package googletasks

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"grocery/internal/config"
	"grocery/internal/service"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	// PageSize is the number of tasks requested per page.
	PageSize = 100

	// APITimeout is the timeout for a full import.
	APITimeout = 10 * time.Second

	statusCompleted = "completed"
)

// Client implements service.Source using the Google Tasks API.
type Client struct {
	svc      *tasks.Service
	listName string
	logger   *zap.Logger
}

// New creates a new Google Tasks client.
// Requires oauth_client.json and token.json to exist in the config dir.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	oauthConfig, err := LoadOAuthConfig(cfg)
	if err != nil {
		return nil, err
	}

	token, err := LoadToken(cfg)
	if err != nil {
		return nil, err
	}

	// Token source refreshes expired access tokens.
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, token))

	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}

	return &Client{
		svc:      svc,
		listName: cfg.Settings.GoogleList,
		logger:   cfg.Logger(),
	}, nil
}

// NewWithHTTPClient creates a client against endpoint with a custom HTTP
// client (for testing). listName selects the list; empty means default.
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, endpoint, listName string) (*Client, error) {
	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{svc: svc, listName: listName, logger: zap.NewNop()}, nil
}

// FetchItems implements service.Source.
// Tasks become items in API order with ids 1..n; completed tasks are checked.
func (c *Client) FetchItems(ctx context.Context) ([]service.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	listID := DefaultListID
	if strings.TrimSpace(c.listName) != "" {
		list, err := c.resolveList(ctx, c.listName)
		if err != nil {
			return nil, err
		}
		listID = list.Id
	}

	c.logger.Debug("importing google tasks list", zap.String("list", listID))

	items := []service.Item{}
	err := c.svc.Tasks.List(listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, task := range resp.Items {
				items = append(items, service.Item{
					ID:      len(items) + 1,
					Label:   task.Title,
					Checked: task.Status == statusCompleted,
				})
			}
			return nil
		})
	if err != nil {
		return nil, wrapError(err)
	}
	return items, nil
}

// resolveList finds a list by name (case-insensitive, trimmed).
func (c *Client) resolveList(ctx context.Context, name string) (*tasks.TaskList, error) {
	name = strings.TrimSpace(name)
	nameLower := strings.ToLower(name)

	var matches []*tasks.TaskList
	err := c.svc.Tasklists.List().MaxResults(100).Pages(ctx, func(resp *tasks.TaskLists) error {
		for _, list := range resp.Items {
			if strings.ToLower(strings.TrimSpace(list.Title)) == nameLower {
				matches = append(matches, list)
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrapError(err)
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("list not found: %s", name)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("ambiguous list name: %s", name)
	}
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()

	if strings.Contains(errStr, "context deadline exceeded") {
		return fmt.Errorf("request timed out")
	}

	if strings.Contains(errStr, "401") || strings.Contains(errStr, "403") {
		return fmt.Errorf("token expired or revoked (run: grocery login)")
	}

	// The import asked for a list that does not exist.
	if strings.Contains(errStr, "404") {
		return service.ErrUnexpectedResponse
	}

	return err
}
