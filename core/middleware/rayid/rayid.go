// Package rayid tags every request with an id used to correlate its logs.
package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
)

const (
	// Header carries the ray id on requests and responses.
	Header = "X-Ray-ID"
	// LocalKey is the fiber Locals key holding the id.
	LocalKey = "ray_id"
)

// New returns the middleware. An incoming X-Ray-ID is reused so callers can
// correlate across services; otherwise a random UUID is generated.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Header values point into a reused buffer; keep a copy.
		id := utils.CopyString(c.Get(Header))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Locals(LocalKey, id)
		c.Set(Header, id)
		return c.Next()
	}
}
