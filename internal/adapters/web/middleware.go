package web

import (
	"strconv"
	"time"

	"tweetfeed/internal/domain"
	"tweetfeed/pkg/log"
	"tweetfeed/templates/components"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimiter limits feed renders per client IP.
type RateLimiter struct {
	limiter *limiter.Limiter
}

// NewRateLimiter creates a limiter allowing limit requests per window.
// A non-positive limit disables limiting.
func NewRateLimiter(limit int64, window time.Duration) *RateLimiter {
	if limit <= 0 {
		return &RateLimiter{}
	}
	rate := limiter.Rate{Period: window, Limit: limit}
	return &RateLimiter{limiter: limiter.New(memory.NewStore(), rate)}
}

// Middleware returns a Fiber middleware that rejects requests over the
// limit with 429 and reports the quota in X-RateLimit-* headers.
func (rl *RateLimiter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if rl.limiter == nil {
			return c.Next()
		}

		ctx := c.UserContext()
		lctx, err := rl.limiter.Get(ctx, c.IP())
		if err != nil {
			// A broken limiter store must not take the feed down.
			log.GlobalWarnCtx(ctx, "rate limiter failed", "error", err)
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))

		if lctx.Reached {
			log.GlobalWarnCtx(ctx, "rate limit reached", "ip", c.IP())
			return renderComponent(c, fiber.StatusTooManyRequests, components.ErrorMessage(friendlyError(domain.ErrRateLimited)))
		}
		return c.Next()
	}
}

// RequestIDConfig configures Fiber's requestid middleware to honour an
// incoming X-Request-ID and generate one otherwise.
func RequestIDConfig() requestid.Config {
	return requestid.Config{
		Header:     fiber.HeaderXRequestID,
		ContextKey: requestIDLocal,
	}
}

const requestIDLocal = "requestid"

// RequestContextMiddleware copies the request ID and the requested feed
// into the user context so every log line of the request carries them.
// Must run after requestid.New().
func RequestContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		if id, ok := c.Locals(requestIDLocal).(string); ok && id != "" {
			ctx = log.WithRequestID(ctx, id)
		}
		if ft := c.Query(domain.OptFeedType); ft != "" {
			ctx = log.WithFields(ctx, "feed_type", ft)
		}
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// RequestLoggerMiddleware logs one structured line per request, at a level
// chosen by status. Must run after RequestContextMiddleware.
func RequestLoggerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		ctx := c.UserContext()
		fields := []any{
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"ip", c.IP(),
		}
		if hit := c.GetRespHeader("X-Cache"); hit != "" {
			fields = append(fields, "cache", hit)
		}
		if err != nil {
			fields = append(fields, "error", err)
		}

		switch {
		case status >= 500:
			log.GlobalErrorCtx(ctx, "request completed", fields...)
		case status >= 400:
			log.GlobalWarnCtx(ctx, "request completed", fields...)
		default:
			log.GlobalInfoCtx(ctx, "request completed", fields...)
		}
		return err
	}
}
