// Package cmd assembles the lifelist command line.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rcrdcsnv/LifelistTracker-sub001/cmd/classification"
	"github.com/rcrdcsnv/LifelistTracker-sub001/cmd/cmdutil"
	"github.com/rcrdcsnv/LifelistTracker-sub001/cmd/field"
	"github.com/rcrdcsnv/LifelistTracker-sub001/cmd/interchange"
	"github.com/rcrdcsnv/LifelistTracker-sub001/cmd/lifelist"
	"github.com/rcrdcsnv/LifelistTracker-sub001/cmd/observation"
	"github.com/rcrdcsnv/LifelistTracker-sub001/cmd/photo"
	"github.com/rcrdcsnv/LifelistTracker-sub001/cmd/serve"
	"github.com/rcrdcsnv/LifelistTracker-sub001/cmd/setup"
	"github.com/rcrdcsnv/LifelistTracker-sub001/cmd/tag"
	"github.com/rcrdcsnv/LifelistTracker-sub001/cmd/tiers"
	"github.com/rcrdcsnv/LifelistTracker-sub001/cmd/version"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/catalog"
)

// RootCommand creates and returns the root command. The caller closes app after Execute.
func RootCommand(app *catalog.App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "lifelist",
		Short:         "Track lifelists of observed things",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	setupFlags(rootCmd, app)

	rootCmd.AddCommand(setup.Command(app))
	rootCmd.AddCommand(lifelist.Commands(app)...)
	rootCmd.AddCommand(
		tiers.Command(app),
		field.Command(app),
		classification.Command(app),
		observation.Command(app),
		tag.Command(app),
		photo.Command(app),
	)
	rootCmd.AddCommand(interchange.Commands(app)...)
	rootCmd.AddCommand(serve.Command(app), version.Command(app))

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if !needsCatalog(cmd) {
			return nil
		}
		return app.Open(cmd.Context(), catalog.OpenOptions{
			Metrics: cmd.Annotations[cmdutil.WithMetrics] != "",
		})
	}

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface.
func setupFlags(rootCmd *cobra.Command, app *catalog.App) {
	rootCmd.PersistentFlags().StringVar(&app.ConfigFile, "config", "", "Config file (default: search the standard config paths)")
	rootCmd.PersistentFlags().BoolVar(&app.Debug, "debug", false, "Enable debug output")
}

// needsCatalog reports whether cmd works on the catalog. Help, completion and annotated
// commands run without opening it.
func needsCatalog(cmd *cobra.Command) bool {
	if cmd.Annotations[cmdutil.SkipCatalog] != "" {
		return false
	}
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion":
			return false
		}
	}
	return true
}
