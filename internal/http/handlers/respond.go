package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "lapmart/internal/log"
	"lapmart/internal/domain"
)

// fail maps the engine's error taxonomy onto HTTP statuses. Nothing is
// collapsed into a bare 500 without its taxonomy tag.
func fail(c *fiber.Ctx, action string, err error) error {
	if ve, ok := domain.AsValidation(err); ok {
		applog.Security(c, action+".invalid", map[string]any{"field": ve.Field})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "validation", "field": ve.Field, "message": ve.Msg,
		})
	}
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found"})
	}
	if domain.IsStoreError(err) {
		applog.Error(c, action+".store", err, nil)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "store_unavailable", "retryable": true,
		})
	}
	applog.Error(c, action+".error", err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal"})
}

// queryValues collects the raw query parameters, keeping repeated keys.
func queryValues(c *fiber.Ctx) map[string][]string {
	out := map[string][]string{}
	c.Context().QueryArgs().VisitAll(func(k, v []byte) {
		out[string(k)] = append(out[string(k)], string(v))
	})
	return out
}
