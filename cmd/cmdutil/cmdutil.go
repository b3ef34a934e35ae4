// Package cmdutil holds helpers shared by the command packages.
package cmdutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/catalog"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/console"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/errors"
)

// Command annotations read by the root command.
const (
	// SkipCatalog marks commands that run without opening the catalog.
	SkipCatalog = "skip_catalog"
	// WithMetrics marks commands that instrument the catalog.
	WithMetrics = "with_metrics"
)

// DateLayout is the accepted observation date format.
const DateLayout = "2006-01-02"

// Printer returns a console printer for the app output.
func Printer(app *catalog.App) *console.Printer {
	return console.New(app.Out)
}

// ParseID parses a positive integer id argument.
func ParseID(arg, what string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(arg), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, arg)
	}
	return uint(id), nil
}

// Lifelist resolves a lifelist by numeric id or by name.
func Lifelist(cmd *cobra.Command, app *catalog.App, arg string) (*entities.Lifelist, error) {
	ctx := cmd.Context()
	if id, err := ParseID(arg, "lifelist"); err == nil {
		l, err := app.Catalog.Lifelists.Get(ctx, id)
		if err == nil || !errors.IsNotFound(err) {
			return l, err
		}
	}
	return app.Catalog.Lifelists.GetByName(ctx, arg)
}

// ParseDate parses an optional YYYY-MM-DD date. Empty input yields nil.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return &t, nil
}

// FormatDate formats an optional date, or "-" when unset.
func FormatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(DateLayout)
}

// FormatCoord formats an optional coordinate.
func FormatCoord(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 5, 64)
}

// Itoa formats an unsigned id.
func Itoa[T ~uint | ~int | ~int64](v T) string {
	return strconv.FormatInt(int64(v), 10)
}

// OptionalFloat returns a pointer to v when the flag was set.
func OptionalFloat(cmd *cobra.Command, name string, v float64) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}
