package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/observation"
)

// ObservationResponse describes one observation.
type ObservationResponse struct {
	ID        uint       `json:"id"`
	EntryName string     `json:"entry_name"`
	Date      *time.Time `json:"date,omitempty"`
	Location  string     `json:"location,omitempty"`
	Latitude  *float64   `json:"latitude,omitempty"`
	Longitude *float64   `json:"longitude,omitempty"`
	Tier      string     `json:"tier"`
	Notes     string     `json:"notes,omitempty"`
}

// ListObservations handles GET /api/v1/lifelists/:id/observations.
//
// Query parameters: tier (exact), tag (repeatable tag id; all must match) and q (substring of
// entry name, notes or location).
func (c *Controller) ListObservations(ctx echo.Context) error {
	l, ok, err := c.requireLifelist(ctx)
	if !ok {
		return err
	}
	filter, ok := c.parseFilter(ctx)
	if !ok {
		return c.HandleError(ctx, nil, "Invalid tag id", http.StatusBadRequest)
	}

	list, err := c.svc.Observations.GetFiltered(ctx.Request().Context(), l.ID, filter)
	if err != nil {
		return c.handleServiceError(ctx, err, "Failed to list observations")
	}

	out := make([]ObservationResponse, len(list))
	for i, o := range list {
		out[i] = ObservationResponse{
			ID:        o.ID,
			EntryName: o.EntryName,
			Date:      o.ObservationDate,
			Location:  o.Location,
			Latitude:  o.Latitude,
			Longitude: o.Longitude,
			Tier:      o.Tier,
			Notes:     o.Notes,
		}
	}
	return ctx.JSON(http.StatusOK, out)
}

// ListEntries handles GET /api/v1/lifelists/:id/entries and returns one summary per entry,
// accepting the same filters as ListObservations.
func (c *Controller) ListEntries(ctx echo.Context) error {
	l, ok, err := c.requireLifelist(ctx)
	if !ok {
		return err
	}
	filter, ok := c.parseFilter(ctx)
	if !ok {
		return c.HandleError(ctx, nil, "Invalid tag id", http.StatusBadRequest)
	}

	summary, err := c.svc.Observations.Summary(ctx.Request().Context(), l.ID, filter)
	if err != nil {
		return c.handleServiceError(ctx, err, "Failed to summarize entries")
	}
	if summary == nil {
		summary = []observation.EntrySummary{}
	}
	return ctx.JSON(http.StatusOK, summary)
}

func (c *Controller) parseFilter(ctx echo.Context) (observation.Filter, bool) {
	params := ctx.QueryParams()
	f := observation.Filter{
		Tier:       params.Get("tier"),
		SearchTerm: params.Get("q"),
	}
	for _, raw := range params["tag"] {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return observation.Filter{}, false
		}
		f.TagIDs = append(f.TagIDs, uint(id))
	}
	return f, true
}
