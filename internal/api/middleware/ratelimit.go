package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"lexdesk/internal/utils"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

type RateLimit struct {
	Window      time.Duration
	MaxRequests int
}

// TenantRateLimiter throttles API traffic per firm with a Redis sliding
// window, so one tenant's burst cannot starve the others.
type TenantRateLimiter struct {
	redis *redis.Client
	limit RateLimit
}

func NewTenantRateLimiter(rdb *redis.Client, limit RateLimit) *TenantRateLimiter {
	return &TenantRateLimiter{redis: rdb, limit: limit}
}

func (l *TenantRateLimiter) Allow(c echo.Context, identifier string) (bool, error) {
	ctx := c.Request().Context()
	key := fmt.Sprintf("api_rate_limit:%s", identifier)

	pipe := l.redis.Pipeline()
	now := time.Now().Unix()
	windowStart := now - int64(l.limit.Window.Seconds())

	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))
	pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: fmt.Sprintf("%d:%s", now, c.Response().Header().Get(echo.HeaderXRequestID))})
	pipe.Expire(ctx, key, l.limit.Window*2)

	results, err := pipe.Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("redis pipeline error: %w", err)
	}

	count := results[1].(*redis.IntCmd).Val()
	return count < int64(l.limit.MaxRequests), nil
}

// Middleware keys the window by tenant when authenticated, by client IP
// otherwise. Redis failures let traffic through rather than blocking it.
func (l *TenantRateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identifier := GetTenantID(c)
			if identifier == "" {
				identifier = utils.GetIPAddress(c.Request())
			}

			allowed, err := l.Allow(c, identifier)
			if err != nil {
				log.Warn("rate limiter unavailable: %v", err)
				return next(c)
			}
			if !allowed {
				return echo.NewHTTPError(http.StatusTooManyRequests, "Rate limit exceeded")
			}
			return next(c)
		}
	}
}
