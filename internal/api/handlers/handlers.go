package handlers

import (
	"foodgram-backend/domain"

	"github.com/gofiber/fiber/v2"
)

// errStatus picks the response status for a service error: missing entities
// map to 404, everything else the handlers treat as a bad request.
func errStatus(err error) int {
	if domain.IsNotFound(err) {
		return fiber.StatusNotFound
	}
	return fiber.StatusBadRequest
}

// viewerID returns the authenticated user id, or "" for anonymous requests
// that came through the optional auth middleware.
func viewerID(c *fiber.Ctx) string {
	if id, ok := c.Locals("user_id").(string); ok {
		return id
	}
	return ""
}
