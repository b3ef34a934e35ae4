// Package observation provides the observation command group.
package observation

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcrdcsnv/LifelistTracker-sub001/cmd/cmdutil"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/catalog"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/fields"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/observation"
)

// Command creates the observation command.
func Command(app *catalog.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "observation",
		Aliases: []string{"obs"},
		Short:   "Record and browse observations",
	}
	cmd.AddCommand(
		addCommand(app),
		showCommand(app),
		listCommand(app),
		entriesCommand(app),
		deleteCommand(app),
		tagCommand(app),
	)
	return cmd
}

type inputFlags struct {
	date, location, tier, notes string
	lat, lon                    float64
	values                      []string
	tags                        []string
	photos                      []string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.date, "date", "d", "", "Observation date, YYYY-MM-DD")
	cmd.Flags().StringVarP(&f.location, "location", "l", "", "Location description")
	cmd.Flags().Float64Var(&f.lat, "lat", 0, "Latitude")
	cmd.Flags().Float64Var(&f.lon, "lon", 0, "Longitude")
	cmd.Flags().StringVar(&f.tier, "tier", "", "Tier (defaults to the lifelist's first tier)")
	cmd.Flags().StringVar(&f.notes, "notes", "", "Notes")
	cmd.Flags().StringArrayVar(&f.values, "field", nil, "Custom field value as name=value")
	cmd.Flags().StringArrayVar(&f.tags, "tag", nil, "Tag as name or name:category")
	cmd.Flags().StringArrayVar(&f.photos, "photo", nil, "Photo file; the first one becomes primary")
}

func addCommand(app *catalog.App) *cobra.Command {
	var f inputFlags

	cmd := &cobra.Command{
		Use:   "add LIFELIST ENTRY",
		Short: "Record an observation",
		Long: "Record an observation with its custom field values, tags and photos in one step.\n" +
			"Required custom fields must be given with --field.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c := app.Catalog
			l, err := cmdutil.Lifelist(cmd, app, args[0])
			if err != nil {
				return err
			}
			date, err := cmdutil.ParseDate(f.date)
			if err != nil {
				return err
			}

			descriptors, err := c.Fields.ListFields(ctx, l.ID)
			if err != nil {
				return err
			}
			byName := make(map[string]string, len(f.values))
			for _, v := range f.values {
				name, value, ok := strings.Cut(v, "=")
				if !ok {
					return fmt.Errorf("invalid --field %q, expected name=value", v)
				}
				byName[name] = value
			}
			values, unknown := fields.ResolveNames(descriptors, byName)
			if len(unknown) > 0 {
				return fmt.Errorf("unknown fields: %s", strings.Join(unknown, ", "))
			}
			if missing := fields.MissingRequired(descriptors, values); len(missing) > 0 {
				return fmt.Errorf("required fields missing: %s", strings.Join(missing, ", "))
			}

			in := observation.SaveInput{
				Input: observation.Input{
					LifelistID: l.ID,
					EntryName:  args[1],
					Date:       date,
					Location:   f.location,
					Latitude:   cmdutil.OptionalFloat(cmd, "lat", f.lat),
					Longitude:  cmdutil.OptionalFloat(cmd, "lon", f.lon),
					Tier:       f.tier,
					Notes:      f.notes,
				},
				Values: values,
				Tags:   parseTags(f.tags),
			}
			for i, path := range f.photos {
				in.Photos = append(in.Photos, observation.PhotoInput{FilePath: path, IsPrimary: i == 0})
			}

			id, err := c.Observations.Save(ctx, in)
			if err != nil {
				return err
			}
			cmdutil.Printer(app).Success("recorded %q in %q (observation %d)", args[1], l.Name, id)
			return nil
		},
	}

	f.register(cmd)
	return cmd
}

func showCommand(app *catalog.App) *cobra.Command {
	return &cobra.Command{
		Use:   "show OBSERVATION_ID",
		Short: "Show an observation with its field values, tags and photos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c := app.Catalog
			id, err := cmdutil.ParseID(args[0], "observation")
			if err != nil {
				return err
			}
			o, err := c.Observations.Get(ctx, id)
			if err != nil {
				return err
			}
			values, err := c.Fields.TypedValues(ctx, o.LifelistID, o.ID)
			if err != nil {
				return err
			}
			tags, err := c.Observations.ObservationTags(ctx, o.ID)
			if err != nil {
				return err
			}
			photos, err := c.Observations.Photos(ctx, o.ID)
			if err != nil {
				return err
			}

			pairs := [][2]string{
				{"id", cmdutil.Itoa(o.ID)},
				{"entry", o.EntryName},
				{"date", cmdutil.FormatDate(o.ObservationDate)},
				{"tier", o.Tier},
				{"location", o.Location},
				{"coordinates", cmdutil.FormatCoord(o.Latitude) + ", " + cmdutil.FormatCoord(o.Longitude)},
				{"notes", o.Notes},
			}
			names := make([]string, 0, len(values))
			for name := range values {
				names = append(names, name)
			}
			slices.Sort(names)
			for _, name := range names {
				pairs = append(pairs, [2]string{name, values[name].Text()})
			}
			tagNames := make([]string, len(tags))
			for i, t := range tags {
				tagNames[i] = t.Name
			}
			pairs = append(pairs, [2]string{"tags", strings.Join(tagNames, ", ")})
			for _, ph := range photos {
				label := ph.FilePath
				if ph.IsPrimary {
					label += " (primary)"
				}
				pairs = append(pairs, [2]string{"photo " + cmdutil.Itoa(ph.ID), label})
			}
			cmdutil.Printer(app).Fields(pairs...)
			return nil
		},
	}
}

type filterFlags struct {
	tier, search string
	tags         []string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.tier, "tier", "", "Only this tier")
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "Substring of entry name, notes or location")
	cmd.Flags().StringArrayVar(&f.tags, "tag", nil, "Only observations carrying every given tag")
}

func (f *filterFlags) build(cmd *cobra.Command, app *catalog.App) (observation.Filter, error) {
	filter := observation.Filter{Tier: f.tier, SearchTerm: f.search}
	if len(f.tags) == 0 {
		return filter, nil
	}
	all, err := app.Catalog.Observations.AllTags(cmd.Context())
	if err != nil {
		return filter, err
	}
	for _, name := range f.tags {
		i := slices.IndexFunc(all, func(t *entities.Tag) bool { return strings.EqualFold(t.Name, name) })
		if i < 0 {
			return filter, fmt.Errorf("unknown tag %q", name)
		}
		filter.TagIDs = append(filter.TagIDs, all[i].ID)
	}
	return filter, nil
}

func listCommand(app *catalog.App) *cobra.Command {
	var f filterFlags

	cmd := &cobra.Command{
		Use:   "list LIFELIST",
		Short: "List observations, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := cmdutil.Lifelist(cmd, app, args[0])
			if err != nil {
				return err
			}
			filter, err := f.build(cmd, app)
			if err != nil {
				return err
			}
			list, err := app.Catalog.Observations.GetFiltered(cmd.Context(), l.ID, filter)
			if err != nil {
				return err
			}
			rows := make([][]string, len(list))
			for i, o := range list {
				rows[i] = []string{cmdutil.Itoa(o.ID), cmdutil.FormatDate(o.ObservationDate), o.EntryName, o.Tier, o.Location}
			}
			cmdutil.Printer(app).Table([]string{"ID", "Date", "Entry", "Tier", "Location"}, rows, "no observations")
			return nil
		},
	}

	f.register(cmd)
	return cmd
}

func entriesCommand(app *catalog.App) *cobra.Command {
	var f filterFlags

	cmd := &cobra.Command{
		Use:   "entries LIFELIST",
		Short: "List entries with observation counts and their best tier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := cmdutil.Lifelist(cmd, app, args[0])
			if err != nil {
				return err
			}
			filter, err := f.build(cmd, app)
			if err != nil {
				return err
			}
			summary, err := app.Catalog.Observations.Summary(cmd.Context(), l.ID, filter)
			if err != nil {
				return err
			}
			rows := make([][]string, len(summary))
			for i, s := range summary {
				rows[i] = []string{s.EntryName, cmdutil.Itoa(s.Count), s.Tier, cmdutil.FormatDate(s.Date), s.Location}
			}
			p := cmdutil.Printer(app)
			p.Table([]string{"Entry", "Count", "Tier", "Latest", "Location"}, rows, "no entries")
			if len(summary) > 0 {
				p.Muted("%d entries", len(summary))
			}
			return nil
		},
	}

	f.register(cmd)
	return cmd
}

func deleteCommand(app *catalog.App) *cobra.Command {
	var purge bool

	cmd := &cobra.Command{
		Use:   "delete OBSERVATION_ID",
		Short: "Delete an observation with its values, tags and photo records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cmdutil.ParseID(args[0], "observation")
			if err != nil {
				return err
			}
			paths, err := app.Catalog.Observations.Delete(cmd.Context(), id)
			if err != nil {
				return err
			}

			p := cmdutil.Printer(app)
			p.Success("deleted observation %d", id)
			for _, path := range paths {
				if !purge {
					p.Muted("photo left in place: %s", path)
					continue
				}
				if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
					p.Warn("could not remove %s: %v", path, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&purge, "purge-photos", false, "Also remove the photo files")
	return cmd
}

func tagCommand(app *catalog.App) *cobra.Command {
	var remove bool

	cmd := &cobra.Command{
		Use:   "tag OBSERVATION_ID TAG[:CATEGORY]...",
		Short: "Tag an observation, creating tags as needed",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			obs := app.Catalog.Observations
			id, err := cmdutil.ParseID(args[0], "observation")
			if err != nil {
				return err
			}
			if _, err := obs.Get(ctx, id); err != nil {
				return err
			}

			p := cmdutil.Printer(app)
			for _, t := range parseTags(args[1:]) {
				tag, err := obs.AddTag(ctx, t.Name, t.Category)
				if err != nil {
					return err
				}
				if remove {
					if _, err := obs.RemoveTagFromObservation(ctx, id, tag.ID); err != nil {
						return err
					}
					p.Success("removed tag %q", tag.Name)
					continue
				}
				added, err := obs.AddTagToObservation(ctx, id, tag.ID)
				if err != nil {
					return err
				}
				if added {
					p.Success("tagged %q", tag.Name)
				} else {
					p.Muted("already tagged %q", tag.Name)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&remove, "remove", false, "Remove the tags instead")
	return cmd
}

func parseTags(raw []string) []observation.TagInput {
	out := make([]observation.TagInput, 0, len(raw))
	for _, r := range raw {
		name, category, _ := strings.Cut(r, ":")
		out = append(out, observation.TagInput{Name: strings.TrimSpace(name), Category: strings.TrimSpace(category)})
	}
	return out
}
