package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func tooMany(msg string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"message":    msg,
			"statusCode": fiber.StatusTooManyRequests,
		})
	}
}

// Global limiter: untuk semua endpoint biasa
func GlobalRateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:          100,
		Expiration:   1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string { return c.IP() },
		LimitReached: tooMany("Too many requests, please try again later"),
	})
}

// PaymentRateLimiter guards payment posting and gateway callbacks.
func PaymentRateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:          20,
		Expiration:   1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string { return c.IP() },
		LimitReached: tooMany("Too many payment attempts, please slow down"),
	})
}
