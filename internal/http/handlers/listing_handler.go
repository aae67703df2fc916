package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"lapmart/internal/domain"
	applog "lapmart/internal/log"
	"lapmart/internal/services"
	"lapmart/internal/validate"
)

type ListingHandler struct {
	Listings *services.ListingService
}

// listingResponse decorates the entity with its decoded JSON collections.
type listingResponse struct {
	domain.Listing
	Tags        []string          `json:"tag"`
	Description map[string]string `json:"description"`
	Images      []string          `json:"images"`
}

func toResponse(l domain.Listing) listingResponse {
	out := listingResponse{Listing: l, Tags: []string{}, Description: map[string]string{}, Images: []string{}}
	_ = json.Unmarshal([]byte(l.TagsJSON), &out.Tags)
	_ = json.Unmarshal([]byte(l.DescriptionJSON), &out.Description)
	_ = json.Unmarshal([]byte(l.ImagesJSON), &out.Images)
	return out
}

func (h *ListingHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, "listing.get", domain.Invalid("id", "malformed"))
	}
	l, err := h.Listings.Get(c.Context(), id)
	if err != nil {
		return fail(c, "listing.get", err)
	}
	return c.JSON(toResponse(l))
}

func (h *ListingHandler) Create(c *fiber.Ctx) error {
	u := currentUser(c)
	var in services.ListingInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, "listing.create", domain.Invalid("body", "malformed json"))
	}
	l, err := h.Listings.Create(u.ID, in)
	if err != nil {
		return fail(c, "listing.create", err)
	}
	applog.Audit(c, "listing.create", map[string]any{"listing": l.ID})
	return c.Status(fiber.StatusCreated).JSON(toResponse(l))
}

func (h *ListingHandler) Update(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, "listing.update", domain.Invalid("id", "malformed"))
	}
	var in services.ListingInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, "listing.update", domain.Invalid("body", "malformed json"))
	}
	l, err := h.Listings.Update(c.Context(), id, u.ID, in)
	if err != nil {
		return fail(c, "listing.update", err)
	}
	applog.Audit(c, "listing.update", map[string]any{"listing": l.ID})
	return c.JSON(toResponse(l))
}

// SetStatus moves a listing through the approval lifecycle (admin).
func (h *ListingHandler) SetStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, "listing.status", domain.Invalid("id", "malformed"))
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, "listing.status", domain.Invalid("body", "malformed json"))
	}
	if err := h.Listings.SetStatus(id, body.Status); err != nil {
		return fail(c, "listing.status", err)
	}
	applog.Audit(c, "listing.status", map[string]any{"listing": id, "status": body.Status})
	return c.JSON(fiber.Map{"ok": true})
}

func (h *ListingHandler) Delete(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, "listing.delete", domain.Invalid("id", "malformed"))
	}
	if err := h.Listings.Delete(c.Context(), id, u.ID, u.Role == "ADMIN"); err != nil {
		return fail(c, "listing.delete", err)
	}
	applog.Audit(c, "listing.delete", map[string]any{"listing": id})
	return c.JSON(fiber.Map{"ok": true})
}
