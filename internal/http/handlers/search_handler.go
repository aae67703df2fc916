package handlers

import (
	"github.com/gofiber/fiber/v2"

	"lapmart/internal/catalog"
	"lapmart/internal/filter"
	applog "lapmart/internal/log"
	"lapmart/internal/services"
)

type SearchHandler struct {
	Search *services.SearchService
}

// List serves the public filtered, paginated listing search. Unless the
// caller constrained approval status explicitly, only approved listings
// are visible. withFilters=1 also runs the facet calculator and returns
// the combined shape.
func (h *SearchHandler) List(c *fiber.Ctx) error {
	sel, err := filter.ParseSelection(queryValues(c))
	if err != nil {
		return fail(c, "search", err)
	}
	if len(sel.Values(catalog.KeyStatus)) == 0 {
		sel.Select(catalog.KeyStatus, "approved")
	}
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", services.DefaultPageSize)

	if c.QueryBool("withFilters") {
		res, err := h.Search.Browse(c.Context(), sel, page, limit)
		if err != nil {
			return fail(c, "search", err)
		}
		return c.JSON(res)
	}

	res, err := h.Search.Search(c.Context(), sel, page, limit)
	if err != nil {
		return fail(c, "search", err)
	}
	applog.Info(c, "search.ok", map[string]any{"total": res.Total, "page": res.Page})
	return c.JSON(res)
}

// FilterOptions serves the facet result set for the current selection:
// per facet-value reachability plus the effective price range. The value
// universe spans the whole catalog; probes decide reachability.
func (h *SearchHandler) FilterOptions(c *fiber.Ctx) error {
	sel, err := filter.ParseSelection(queryValues(c))
	if err != nil {
		return fail(c, "filters", err)
	}
	opts, err := h.Search.FilterOptions(c.Context(), sel)
	if err != nil {
		return fail(c, "filters", err)
	}
	return c.JSON(opts)
}

// Mine is the owner-scoped search variant: the session user's listings in
// every lifecycle status, same filter semantics otherwise.
func (h *SearchHandler) Mine(c *fiber.Ctx) error {
	u := currentUser(c)
	sel, err := filter.ParseSelection(queryValues(c))
	if err != nil {
		return fail(c, "search.mine", err)
	}
	sel.UserID = u.ID
	res, err := h.Search.Search(c.Context(), sel, c.QueryInt("page", 1), c.QueryInt("limit", services.DefaultPageSize))
	if err != nil {
		return fail(c, "search.mine", err)
	}
	return c.JSON(res)
}
