// Package photo provides the photo command group.
package photo

import (
	"github.com/spf13/cobra"

	"github.com/rcrdcsnv/LifelistTracker-sub001/cmd/cmdutil"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/catalog"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/observation"
)

// Command creates the photo command.
func Command(app *catalog.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "photo",
		Short: "Attach photos to observations",
	}
	cmd.AddCommand(addCommand(app), primaryCommand(app), listCommand(app), deleteCommand(app))
	return cmd
}

func addCommand(app *catalog.App) *cobra.Command {
	var (
		primary  bool
		lat, lon float64
		taken    string
	)

	cmd := &cobra.Command{
		Use:   "add OBSERVATION_ID FILE",
		Short: "Attach a photo; missing location and date are read from EXIF",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cmdutil.ParseID(args[0], "observation")
			if err != nil {
				return err
			}
			date, err := cmdutil.ParseDate(taken)
			if err != nil {
				return err
			}

			photoID, err := app.Catalog.Observations.AddPhoto(cmd.Context(), observation.PhotoInput{
				ObservationID: id,
				FilePath:      args[1],
				IsPrimary:     primary,
				Latitude:      cmdutil.OptionalFloat(cmd, "lat", lat),
				Longitude:     cmdutil.OptionalFloat(cmd, "lon", lon),
				TakenDate:     date,
			})
			if err != nil {
				return err
			}
			cmdutil.Printer(app).Success("attached photo %d to observation %d", photoID, id)
			return nil
		},
	}

	cmd.Flags().BoolVar(&primary, "primary", false, "Make it the primary photo of the entry")
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Longitude")
	cmd.Flags().StringVar(&taken, "taken", "", "Date taken, YYYY-MM-DD")
	return cmd
}

func primaryCommand(app *catalog.App) *cobra.Command {
	return &cobra.Command{
		Use:   "primary OBSERVATION_ID PHOTO_ID",
		Short: "Make a photo the primary photo of the observation's entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			obsID, err := cmdutil.ParseID(args[0], "observation")
			if err != nil {
				return err
			}
			photoID, err := cmdutil.ParseID(args[1], "photo")
			if err != nil {
				return err
			}
			if err := app.Catalog.Observations.SetPrimaryPhoto(cmd.Context(), photoID, obsID); err != nil {
				return err
			}
			cmdutil.Printer(app).Success("photo %d is now primary", photoID)
			return nil
		},
	}
}

func listCommand(app *catalog.App) *cobra.Command {
	return &cobra.Command{
		Use:   "list LIFELIST ENTRY",
		Short: "List the photos of every observation of an entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := cmdutil.Lifelist(cmd, app, args[0])
			if err != nil {
				return err
			}
			photos, err := app.Catalog.Observations.EntryPhotos(cmd.Context(), l.ID, args[1])
			if err != nil {
				return err
			}
			rows := make([][]string, len(photos))
			for i, ph := range photos {
				primary := ""
				if ph.IsPrimary {
					primary = "*"
				}
				rows[i] = []string{
					cmdutil.Itoa(ph.ID), primary, cmdutil.Itoa(ph.ObservationID), ph.FilePath,
					cmdutil.FormatDate(ph.TakenDate), cmdutil.FormatCoord(ph.Latitude), cmdutil.FormatCoord(ph.Longitude),
				}
			}
			cmdutil.Printer(app).Table([]string{"ID", "Primary", "Observation", "File", "Taken", "Lat", "Lon"}, rows, "no photos")
			return nil
		},
	}
}

func deleteCommand(app *catalog.App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete PHOTO_ID",
		Short: "Remove a photo record; the file is left in place",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cmdutil.ParseID(args[0], "photo")
			if err != nil {
				return err
			}
			path, err := app.Catalog.Observations.DeletePhoto(cmd.Context(), id)
			if err != nil {
				return err
			}
			cmdutil.Printer(app).Success("removed photo %d (%s)", id, path)
			return nil
		},
	}
}
