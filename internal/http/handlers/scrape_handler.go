package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "lapmart/internal/log"
	"lapmart/internal/services"
)

type ScrapeHandler struct {
	Scrape *services.ScrapeService
}

// Prices returns best-effort competitor prices. Shops that could not be
// read come back with price 0 rather than failing the request.
func (h *ScrapeHandler) Prices(c *fiber.Ctx) error {
	prices := h.Scrape.CompetitorPrices(c.Context())
	applog.Info(c, "scrape.prices", map[string]any{"shops": len(prices)})
	return c.JSON(fiber.Map{"data": prices})
}
