package service

import (
	"time"

	"github.com/okian/worthboard/internal/adapters/cache"
	"github.com/okian/worthboard/internal/domain/scoring"
	"github.com/okian/worthboard/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCache replaces the pull cache.
func WithCache(c *cache.TTLCache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithClock sets the reference clock used for month windows.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithDefaultWeights sets the weights used when a query carries none and
// by the quick leaderboards.
func WithDefaultWeights(post scoring.PostWeights, event scoring.EventWeights) Option {
	return func(s *Service) {
		s.postWeights = post
		s.eventWeights = event
	}
}

// WithExcludedSpace sets the marker that drops events by space name.
func WithExcludedSpace(marker string) Option {
	return func(s *Service) {
		s.excludedSpace = marker
	}
}
