package service

import (
	"github.com/okian/worthboard/internal/adapters/cache"
	"github.com/okian/worthboard/internal/adapters/circle"
	"github.com/okian/worthboard/internal/config"
	"github.com/okian/worthboard/pkg/logger"
)

// FromConfig builds the platform client, the pull cache and the service
// from cfg.
func FromConfig(cfg *config.Config, l logger.Logger) *Service {
	client := circle.New(
		circle.WithBaseURL(cfg.APIBaseURL),
		circle.WithTimeout(cfg.RequestTimeout()),
		circle.WithPerPage(cfg.PerPage),
		circle.WithPageDelay(cfg.PageDelay()),
		circle.WithLogger(l.Named("circle")),
	)
	c := cache.New(
		cache.WithTTL(cfg.CacheTTL()),
		cache.WithMaxEntries(cfg.CacheMaxEntries),
	)
	return New(client,
		WithLogger(l.Named("service")),
		WithCache(c),
		WithDefaultWeights(cfg.DefaultPostWeights, cfg.DefaultEventWeights),
		WithExcludedSpace(cfg.ExcludedSpaceMarker),
	)
}
