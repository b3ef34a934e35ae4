// Package setup provides the init command.
package setup

import (
	"github.com/spf13/cobra"

	"github.com/rcrdcsnv/LifelistTracker-sub001/cmd/cmdutil"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/catalog"
)

// Command creates the init command. Opening the catalog creates the config file, the
// registry file and the database schema, so the command only reports where they are.
func Command(app *catalog.App) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configuration, registry and database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := app.Catalog
			types, err := c.Lifelists.Types(cmd.Context())
			if err != nil {
				return err
			}

			p := cmdutil.Printer(app)
			p.Success("lifelist tracker initialized")
			p.Fields(
				[2]string{"config", app.Settings.ConfigFile()},
				[2]string{"registry", c.Registry.Path()},
				[2]string{"database", c.Manager.Path()},
				[2]string{"types", cmdutil.Itoa(len(types))},
			)
			return nil
		},
	}
}
