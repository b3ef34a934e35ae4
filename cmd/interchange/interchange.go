// Package interchange provides the export and import commands for lifelist documents.
package interchange

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcrdcsnv/LifelistTracker-sub001/cmd/cmdutil"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/catalog"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/interchange"
)

// Commands returns the export and import commands.
func Commands(app *catalog.App) []*cobra.Command {
	return []*cobra.Command{exportCommand(app), importCommand(app)}
}

func exportCommand(app *catalog.App) *cobra.Command {
	var (
		dir      string
		noPhotos bool
	)

	cmd := &cobra.Command{
		Use:   "export LIFELIST",
		Short: "Export a lifelist as a JSON document with its photos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := cmdutil.Lifelist(cmd, app, args[0])
			if err != nil {
				return err
			}
			export := app.Settings.Export
			if dir == "" {
				dir = export.Dir
			}
			includePhotos := export.IncludePhotos && !noPhotos

			res := app.Catalog.Interchange.ExportLifelist(cmd.Context(), l.ID, dir, includePhotos)
			return report(app, res)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "o", "", "Output directory (defaults to export.dir)")
	cmd.Flags().BoolVar(&noPhotos, "no-photos", false, "Do not copy photo files")
	return cmd
}

func importCommand(app *catalog.App) *cobra.Command {
	var opts interchange.ImportOptions

	cmd := &cobra.Command{
		Use:   "import FILE.json",
		Short: "Import a lifelist document",
		Long: "Import a lifelist document. The import is refused when a lifelist with the same\n" +
			"name exists; use --rename to import under another name.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return report(app, app.Catalog.Interchange.ImportLifelist(cmd.Context(), args[0], opts))
		},
	}

	cmd.Flags().StringVar(&opts.RenameTo, "rename", "", "Import under this name")
	cmd.Flags().StringVar(&opts.PhotosDir, "photos", "", "Photo directory (defaults to photos/ next to the document)")
	return cmd
}

func report(app *catalog.App, res interchange.Result) error {
	if !res.Success {
		return fmt.Errorf("%s", res.Message)
	}
	p := cmdutil.Printer(app)
	p.Success("%s", res.Message)
	if res.Path != "" {
		p.Muted("%s", res.Path)
	}
	return nil
}
