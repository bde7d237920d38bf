// Package mockapi serves a static item list over HTTP, standing in for the
// local JSON endpoint the initial load reads from.
package mockapi

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"grocery/internal/service"
)

// SampleItems is served when no data file is given.
var SampleItems = []service.Item{
	{ID: 1, Checked: true, Label: "Almonds"},
	{ID: 2, Checked: false, Label: "Pizza"},
	{ID: 3, Checked: false, Label: "Bread"},
}

// Options configures the mock server.
type Options struct {
	// Path is the route answering with the list.
	Path string

	// Fail makes the route answer 500, to exercise failed loads.
	Fail bool

	Logger *zap.Logger
}

// LoadFile reads an item list from a JSON file.
func LoadFile(path string) ([]service.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer f.Close()

	items, err := service.DecodeItems(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}

// NewRouter returns a gin engine answering GET opts.Path with items.
func NewRouter(items []service.Item, opts Options) *gin.Engine {
	path := opts.Path
	if path == "" {
		path = "/items"
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	payload := service.CloneItems(items)

	router := gin.New()
	router.Use(gin.Recovery())
	router.GET(path, func(c *gin.Context) {
		logger.Debug("serving items", zap.Int("count", len(payload)), zap.Bool("fail", opts.Fail))
		if opts.Fail {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "simulated failure"})
			return
		}
		c.JSON(http.StatusOK, payload)
	})
	return router
}
