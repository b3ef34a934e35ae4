// Package version provides the version command.
package version

import (
	"github.com/spf13/cobra"

	"github.com/rcrdcsnv/LifelistTracker-sub001/cmd/cmdutil"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/catalog"
)

// Command creates the version command.
func Command(app *catalog.App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Annotations: map[string]string{
			cmdutil.SkipCatalog: "true",
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmdutil.Printer(app).Line("%s", app.Build.String())
		},
	}
}
