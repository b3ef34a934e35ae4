package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// TagResponse describes a tag.
type TagResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

// ListTags handles GET /api/v1/tags.
func (c *Controller) ListTags(ctx echo.Context) error {
	tags, err := c.svc.Observations.AllTags(ctx.Request().Context())
	if err != nil {
		return c.handleServiceError(ctx, err, "Failed to list tags")
	}
	out := make([]TagResponse, len(tags))
	for i, t := range tags {
		out[i] = TagResponse{ID: t.ID, Name: t.Name, Category: t.Category}
	}
	return ctx.JSON(http.StatusOK, out)
}
