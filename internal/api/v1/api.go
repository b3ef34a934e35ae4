// Package v1 serves the read-only JSON API over lifelists, observations, classifications and
// tags.
package v1

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/classification"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/errors"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/lifelist"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/logger"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/observation"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/tiers"
)

// Services are the domain services the controller reads from.
type Services struct {
	Lifelists       *lifelist.Service
	Tiers           *tiers.Service
	Observations    *observation.Service
	Classifications *classification.Service
}

// Controller handles the /api/v1 routes.
type Controller struct {
	Group *echo.Group
	svc   Services
	log   logger.Logger
}

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	Code          int    `json:"code"`
	CorrelationID string `json:"correlation_id"`
}

// New creates the controller and registers its routes on e.
func New(e *echo.Echo, svc Services, log logger.Logger) *Controller {
	c := &Controller{
		Group: e.Group("/api/v1"),
		svc:   svc,
		log:   logger.OrDiscard(log).Module("api"),
	}
	c.initRoutes()
	return c
}

func (c *Controller) initRoutes() {
	c.Group.GET("/lifelists", c.ListLifelists)
	c.Group.GET("/lifelists/:id", c.GetLifelist)
	c.Group.GET("/lifelists/:id/tiers", c.GetTiers)
	c.Group.GET("/lifelists/:id/observations", c.ListObservations)
	c.Group.GET("/lifelists/:id/entries", c.ListEntries)
	c.Group.GET("/lifelists/:id/search", c.SearchActive)

	c.Group.GET("/classifications/:id/search", c.SearchClassification)

	c.Group.GET("/tags", c.ListTags)
}

// HandleError writes an error response and logs server-side failures with a correlation id.
func (c *Controller) HandleError(ctx echo.Context, err error, message string, code int) error {
	resp := ErrorResponse{
		Message:       message,
		Code:          code,
		CorrelationID: generateCorrelationID(),
	}
	if err != nil {
		resp.Error = err.Error()
	}

	if code >= http.StatusInternalServerError {
		reqCtx := logger.WithTraceID(ctx.Request().Context(), resp.CorrelationID)
		c.log.WithContext(reqCtx).Error(message,
			logger.String("path", ctx.Path()),
			logger.Error(err))
	}
	return ctx.JSON(code, resp)
}

// handleServiceError maps the error category to a status code.
func (c *Controller) handleServiceError(ctx echo.Context, err error, message string) error {
	return c.HandleError(ctx, err, message, statusFor(err))
}

func statusFor(err error) int {
	switch errors.CategoryOf(err) {
	case errors.CategoryNotFound:
		return http.StatusNotFound
	case errors.CategoryValidation:
		return http.StatusBadRequest
	case errors.CategoryConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// parseID reads a positive integer path parameter.
func (c *Controller) parseID(ctx echo.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// parseLimit reads an optional positive limit. Zero lets the search service apply its
// default; values above the service maximum are clamped there.
func parseLimit(raw string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func generateCorrelationID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "00000000"
	}
	return hex.EncodeToString(b)
}
