package middleware

import (
	"math"
	"strconv"

	"movieflix-backend/internal/apperror"
	"movieflix-backend/internal/ratelimit"
	"movieflix-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const (
	msgSlowDown      = "Too many requests. Please slow down."
	msgLoginThrottle = "Too many login attempts. Please try again later."
)

type AdminLimitCounter interface {
	RecordAdminRateLimited()
}

type LoginThrottleCounter interface {
	RecordLoginThrottled()
}

// AdminRateLimit caps requests per identity with the sliding window. It must
// run after Protect; requests without a user fall back to the client IP.
func AdminRateLimit(limiter *ratelimit.SlidingWindow, counter AdminLimitCounter, logger *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.IP()
		if user := CurrentUser(c); user != nil {
			key = user.ID
		}

		allowed, retryAfter := limiter.Allow(key)
		c.Set("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(limiter.Remaining(key)))

		if !allowed {
			seconds := int(math.Ceil(retryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(seconds))
			if counter != nil {
				counter.RecordAdminRateLimited()
			}
			logger.WithFields(logrus.Fields{
				"key":        key,
				"path":       c.Path(),
				"retryAfter": seconds,
			}).Warn("Admin rate limit exceeded")
			return utils.HandleError(c, apperror.RateLimited(msgSlowDown), msgSlowDown)
		}
		return c.Next()
	}
}

// LoginThrottle slows down credential guessing per client IP.
func LoginThrottle(throttle *ratelimit.LoginThrottle, counter LoginThrottleCounter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !throttle.Allow(c.IP()) {
			if counter != nil {
				counter.RecordLoginThrottled()
			}
			return utils.HandleError(c, apperror.RateLimited(msgLoginThrottle), msgLoginThrottle)
		}
		return c.Next()
	}
}
