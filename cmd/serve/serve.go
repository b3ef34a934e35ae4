// Package serve provides the serve command that runs the read-only HTTP API.
package serve

import (
	"github.com/spf13/cobra"

	"github.com/rcrdcsnv/LifelistTracker-sub001/cmd/cmdutil"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/api"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/catalog"
)

// Command creates the serve command. It runs until the command context is canceled.
func Command(app *catalog.App) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only JSON API, /health and /metrics",
		Args:  cobra.NoArgs,
		Annotations: map[string]string{
			cmdutil.WithMetrics: "true",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := api.ConfigFromSettings(app.Settings)
			if listen != "" {
				cfg.Listen = listen
			}

			srv, err := api.New(app.Catalog,
				api.WithConfig(cfg),
				api.WithLogger(app.Logger("http")),
				api.WithBuildInfo(app.Build))
			if err != nil {
				return err
			}
			cmdutil.Printer(app).Success("serving on http://%s", cfg.Listen)
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (defaults to api.listen)")
	return cmd
}
