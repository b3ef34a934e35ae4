package v1

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/lifelist"
)

// LifelistResponse describes a lifelist.
type LifelistResponse struct {
	ID             uint           `json:"id"`
	Name           string         `json:"name"`
	Type           string         `json:"type,omitempty"`
	Terms          lifelist.Terms `json:"terms"`
	Classification string         `json:"classification,omitempty"`
	Observations   int64          `json:"observations"`
	CreatedAt      time.Time      `json:"created_at"`
}

// TierResponse is one tier of a lifelist in precedence order.
type TierResponse struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// ListLifelists handles GET /api/v1/lifelists.
func (c *Controller) ListLifelists(ctx echo.Context) error {
	lists, err := c.svc.Lifelists.List(ctx.Request().Context())
	if err != nil {
		return c.handleServiceError(ctx, err, "Failed to list lifelists")
	}

	out := make([]LifelistResponse, 0, len(lists))
	for _, l := range lists {
		resp, err := c.lifelistResponse(ctx, l)
		if err != nil {
			return c.handleServiceError(ctx, err, "Failed to describe lifelist")
		}
		out = append(out, resp)
	}
	return ctx.JSON(http.StatusOK, out)
}

// GetLifelist handles GET /api/v1/lifelists/:id.
func (c *Controller) GetLifelist(ctx echo.Context) error {
	l, ok, err := c.requireLifelist(ctx)
	if !ok {
		return err
	}
	resp, err := c.lifelistResponse(ctx, l)
	if err != nil {
		return c.handleServiceError(ctx, err, "Failed to describe lifelist")
	}
	return ctx.JSON(http.StatusOK, resp)
}

// GetTiers handles GET /api/v1/lifelists/:id/tiers. Tiers are returned in precedence order
// with their observation counts.
func (c *Controller) GetTiers(ctx echo.Context) error {
	l, ok, err := c.requireLifelist(ctx)
	if !ok {
		return err
	}

	reqCtx := ctx.Request().Context()
	order, err := c.svc.Tiers.GetTiers(reqCtx, l.ID)
	if err != nil {
		return c.handleServiceError(ctx, err, "Failed to load tiers")
	}
	counts, err := c.svc.Tiers.TierCounts(reqCtx, l.ID)
	if err != nil {
		return c.handleServiceError(ctx, err, "Failed to count tiers")
	}

	byTier := make(map[string]int64, len(counts))
	for _, tc := range counts {
		byTier[tc.Tier] = tc.Count
	}
	out := make([]TierResponse, len(order))
	for i, name := range order {
		out[i] = TierResponse{Name: name, Count: byTier[name]}
	}
	return ctx.JSON(http.StatusOK, out)
}

// requireLifelist loads the lifelist named by the :id parameter. When ok is false the error
// response has already been written and err is the handler's return value.
func (c *Controller) requireLifelist(ctx echo.Context) (l *entities.Lifelist, ok bool, err error) {
	id, valid := c.parseID(ctx, "id")
	if !valid {
		return nil, false, c.HandleError(ctx, nil, "Invalid lifelist id", http.StatusBadRequest)
	}
	l, err = c.svc.Lifelists.Get(ctx.Request().Context(), id)
	if err != nil {
		return nil, false, c.handleServiceError(ctx, err, "Lifelist not available")
	}
	return l, true, nil
}

func (c *Controller) lifelistResponse(ctx echo.Context, l *entities.Lifelist) (LifelistResponse, error) {
	reqCtx := ctx.Request().Context()
	typeName, err := c.svc.Lifelists.TypeName(reqCtx, l)
	if err != nil {
		return LifelistResponse{}, err
	}
	terms, err := c.svc.Lifelists.Terms(reqCtx, l)
	if err != nil {
		return LifelistResponse{}, err
	}
	count, err := c.svc.Observations.Count(reqCtx, l.ID)
	if err != nil {
		return LifelistResponse{}, err
	}
	return LifelistResponse{
		ID:             l.ID,
		Name:           l.Name,
		Type:           typeName,
		Terms:          terms,
		Classification: l.Classification,
		Observations:   count,
		CreatedAt:      l.CreatedAt,
	}, nil
}
