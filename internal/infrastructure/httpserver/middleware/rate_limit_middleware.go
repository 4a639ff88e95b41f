package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/cached-catalog/go/internal/core/ports"
)

// exemptPrefixes are operational endpoints that probes and scrapers hit on a
// schedule; they never count against a client's catalog budget.
var exemptPrefixes = []string{"/health", "/metrics"}

type RateLimitMiddleware struct {
	rateLimiter ports.RateLimiterService
	logger      *logrus.Logger
	now         func() time.Time
}

func NewRateLimitMiddleware(rateLimiter ports.RateLimiterService, logger *logrus.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{rateLimiter: rateLimiter, logger: logger, now: time.Now}
}

// Handler limits catalog requests per client IP. Limiter errors fail open.
func (r *RateLimitMiddleware) Handler() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			clientKey := c.RealIP()
			if clientKey == "" || exempt(c.Request().URL.Path) {
				return next(c)
			}

			decision, err := r.rateLimiter.Allow(c.Request().Context(), clientKey)
			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(decision.Reset.Unix(), 10))

			if err != nil {
				if r.logger != nil {
					r.logger.WithError(err).WithField("client", clientKey).Warn("rate limiter error; allowing request (fail-open)")
				}
				return next(c)
			}
			if !decision.Allowed {
				h.Set("Retry-After", strconv.Itoa(decision.RetryAfter(r.now())))
				if r.logger != nil {
					r.logger.WithFields(logrus.Fields{"client": clientKey, "path": c.Request().URL.Path}).Info("rate limit exceeded")
				}
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}

func exempt(path string) bool {
	for _, p := range exemptPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
