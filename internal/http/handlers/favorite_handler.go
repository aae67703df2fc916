package handlers

import (
	"github.com/gofiber/fiber/v2"

	"lapmart/internal/domain"
	applog "lapmart/internal/log"
	"lapmart/internal/services"
	"lapmart/internal/validate"
)

type FavoriteHandler struct {
	Favs *services.FavoriteService
}

func (h *FavoriteHandler) Save(c *fiber.Ctx) error {
	u := currentUser(c)
	var body struct {
		ListingID string `json:"listingId"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, "favorite.save", domain.Invalid("body", "malformed json"))
	}
	id, ok := validate.ID(body.ListingID)
	if !ok {
		return fail(c, "favorite.save", domain.Invalid("listingId", "malformed"))
	}
	if err := h.Favs.Save(c.Context(), u.ID, id); err != nil {
		return fail(c, "favorite.save", err)
	}
	applog.Audit(c, "favorite.save", map[string]any{"listing": id})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true})
}

func (h *FavoriteHandler) Unsave(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, "favorite.unsave", domain.Invalid("id", "malformed"))
	}
	if err := h.Favs.Unsave(u.ID, id); err != nil {
		return fail(c, "favorite.unsave", err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (h *FavoriteHandler) List(c *fiber.Ctx) error {
	u := currentUser(c)
	listings, err := h.Favs.ListForUser(u.ID)
	if err != nil {
		return fail(c, "favorite.list", err)
	}
	if listings == nil {
		listings = []domain.Listing{}
	}
	return c.JSON(fiber.Map{"data": listings})
}

// Count is public: how many users favorited a listing.
func (h *FavoriteHandler) Count(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, "favorite.count", domain.Invalid("id", "malformed"))
	}
	n, err := h.Favs.Count(id)
	if err != nil {
		return fail(c, "favorite.count", err)
	}
	return c.JSON(fiber.Map{"count": n})
}
