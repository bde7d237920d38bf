// Package backend selects the retrieval source named in the settings.
package backend

import (
	"context"
	"fmt"

	"grocery/internal/backend/googletasks"
	"grocery/internal/backend/httpsource"
	"grocery/internal/config"
	"grocery/internal/service"
)

// NewSource creates the service.Source configured in cfg.Settings.Source.
func NewSource(ctx context.Context, cfg *config.Config) (service.Source, error) {
	switch cfg.Settings.Source {
	case config.SourceHTTP, "":
		return httpsource.New(ctx, cfg)
	case config.SourceGoogleTasks:
		return googletasks.New(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown source: %s", cfg.Settings.Source)
	}
}
