package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"processapi/internal/logging"
)

const (
	// RequestIDHeader is the standard header name used to propagate request IDs.
	RequestIDHeader = "X-Request-ID"
	// RequestIDLocalKey is the key used to store the request ID in Fiber's context locals.
	RequestIDLocalKey = "request_id"
)

// RequestID ensures every request has an ID: it reuses X-Request-ID when sent,
// otherwise generates a UUID. The ID is echoed in the response header, stored in
// locals under RequestIDLocalKey and attached to the user context for code that
// only sees a context.Context.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals(RequestIDLocalKey, id)
		c.SetUserContext(logging.WithRequestID(c.UserContext(), id))
		c.Set(RequestIDHeader, id)

		return c.Next()
	}
}
