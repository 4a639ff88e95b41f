package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/avatarctic/cached-catalog/go/internal/core/ports"
)

const (
	defaultRequestsPerMinute = 120
	defaultBurstMultiplier   = 2.0
	defaultRateLimitPrefix   = "ratelimit:client"
)

// RateLimiterConfig groups configuration parameters for the rate limiter.
type RateLimiterConfig struct {
	DefaultRequestsPerMinute int
	BurstMultiplier          float64
	Window                   time.Duration
	KeyPrefix                string
}

// RateLimiterService applies one fixed-window budget to every client. The
// enforced budget is the nominal per-minute rate times the burst multiplier,
// and that budget is what decisions report as Limit.
type RateLimiterService struct {
	repo   ports.RateLimitRepository
	limit  int
	burst  int
	window time.Duration
	prefix string
	logger *logrus.Logger
}

var _ ports.RateLimiterService = (*RateLimiterService)(nil)

func NewRateLimiterService(repo ports.RateLimitRepository, cfg *RateLimiterConfig, logger *logrus.Logger) *RateLimiterService {
	c := RateLimiterConfig{
		DefaultRequestsPerMinute: defaultRequestsPerMinute,
		BurstMultiplier:          defaultBurstMultiplier,
		Window:                   time.Minute,
		KeyPrefix:                defaultRateLimitPrefix,
	}
	if cfg != nil {
		if cfg.DefaultRequestsPerMinute > 0 {
			c.DefaultRequestsPerMinute = cfg.DefaultRequestsPerMinute
		}
		if cfg.BurstMultiplier > 0 {
			c.BurstMultiplier = cfg.BurstMultiplier
		}
		if cfg.Window > 0 {
			c.Window = cfg.Window
		}
		if cfg.KeyPrefix != "" {
			c.KeyPrefix = cfg.KeyPrefix
		}
	}
	return &RateLimiterService{
		repo:   repo,
		limit:  c.DefaultRequestsPerMinute,
		burst:  int(float64(c.DefaultRequestsPerMinute) * c.BurstMultiplier),
		window: c.Window,
		prefix: c.KeyPrefix,
		logger: logger,
	}
}

func (s *RateLimiterService) Allow(ctx context.Context, clientKey string) (ports.RateLimitDecision, error) {
	// Counters outlive their window by one more so late increments still land.
	count, windowStart, err := s.repo.IncrementWindow(ctx, clientKey, s.window, s.prefix, 2*s.window)
	decision := ports.RateLimitDecision{
		Allowed:   true,
		Limit:     s.burst,
		Remaining: s.burst,
		Reset:     windowStart.Add(s.window),
	}
	if err != nil {
		if s.logger != nil {
			s.logger.WithField("client", clientKey).WithError(err).Error("rate limiter: failed to increment window")
		}
		return decision, err
	}

	if count > s.burst {
		decision.Allowed = false
		decision.Remaining = 0
	} else {
		decision.Remaining = s.burst - count
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"client":  clientKey,
			"count":   count,
			"rate":    s.limit,
			"burst":   s.burst,
			"allowed": decision.Allowed,
		}).Debug("rate limiter window state")
	}
	return decision, nil
}
