package middlewares

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/utils"
)

const RequestIDKey = "request_id"

// RequestID: pakai X-Request-ID dari client kalau ada, lalu pasang context dengan timeout
// supaya query GORM (db.WithContext(c.UserContext())) ikut dibatalkan.
func RequestID(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(fiber.HeaderXRequestID)
		if rid == "" || len(rid) > 64 {
			rid = utils.UUID()
		}
		c.Locals(RequestIDKey, rid)
		c.Set(fiber.HeaderXRequestID, rid)

		if timeout > 0 {
			ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
			defer cancel()
			c.SetUserContext(ctx)
		}
		return c.Next()
	}
}
