package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/classification"
)

// SearchActive handles GET /api/v1/lifelists/:id/search?q=&limit= against the lifelist's
// active classification.
func (c *Controller) SearchActive(ctx echo.Context) error {
	l, ok, err := c.requireLifelist(ctx)
	if !ok {
		return err
	}
	limit, ok := parseLimit(ctx.QueryParam("limit"))
	if !ok {
		return c.HandleError(ctx, nil, "Invalid limit", http.StatusBadRequest)
	}

	results, err := c.svc.Classifications.SearchActive(ctx.Request().Context(), l.ID, ctx.QueryParam("q"), limit)
	if err != nil {
		return c.handleServiceError(ctx, err, "Search failed")
	}
	return ctx.JSON(http.StatusOK, nonNil(results))
}

// SearchClassification handles GET /api/v1/classifications/:id/search?q=&limit=.
func (c *Controller) SearchClassification(ctx echo.Context) error {
	id, ok := c.parseID(ctx, "id")
	if !ok {
		return c.HandleError(ctx, nil, "Invalid classification id", http.StatusBadRequest)
	}
	limit, ok := parseLimit(ctx.QueryParam("limit"))
	if !ok {
		return c.HandleError(ctx, nil, "Invalid limit", http.StatusBadRequest)
	}

	reqCtx := ctx.Request().Context()
	if _, err := c.svc.Classifications.Get(reqCtx, id); err != nil {
		return c.handleServiceError(ctx, err, "Classification not available")
	}
	results, err := c.svc.Classifications.Search(reqCtx, id, ctx.QueryParam("q"), limit)
	if err != nil {
		return c.handleServiceError(ctx, err, "Search failed")
	}
	return ctx.JSON(http.StatusOK, nonNil(results))
}

func nonNil(results []classification.SearchResult) []classification.SearchResult {
	if results == nil {
		return []classification.SearchResult{}
	}
	return results
}
