// Package lifelist provides the commands that create, list and remove lifelists.
package lifelist

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcrdcsnv/LifelistTracker-sub001/cmd/cmdutil"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/catalog"
)

// Commands returns the types, create, list, rename and delete commands.
func Commands(app *catalog.App) []*cobra.Command {
	return []*cobra.Command{
		typesCommand(app),
		createCommand(app),
		listCommand(app),
		renameCommand(app),
		deleteCommand(app),
	}
}

func typesCommand(app *catalog.App) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List lifelist types with their default tiers and fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			types, err := app.Catalog.Lifelists.Types(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, len(types))
			for i, t := range types {
				rows[i] = []string{
					t.Type.Name,
					t.Terms.Entry,
					t.Terms.Observation,
					strings.Join(t.Tiers, ", "),
					strings.Join(t.Fields, ", "),
				}
			}
			cmdutil.Printer(app).Table([]string{"Type", "Entry", "Observation", "Tiers", "Fields"}, rows, "no lifelist types")
			return nil
		},
	}
}

func createCommand(app *catalog.App) *cobra.Command {
	var typeName, classification string

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a lifelist",
		Long:  "Create a lifelist. With --type the type's default tiers and fields are copied.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := app.Catalog.Lifelists.Create(cmd.Context(), args[0], typeName, classification)
			if err != nil {
				return err
			}
			cmdutil.Printer(app).Success("created lifelist %q (id %d)", l.Name, l.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", "", "Lifelist type, see the types command")
	cmd.Flags().StringVar(&classification, "classification", "", "Free-form classification label")
	return cmd
}

func listCommand(app *catalog.App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List lifelists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c := app.Catalog

			lists, err := c.Lifelists.List(ctx)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(lists))
			for _, l := range lists {
				typeName, err := c.Lifelists.TypeName(ctx, l)
				if err != nil {
					return err
				}
				count, err := c.Observations.Count(ctx, l.ID)
				if err != nil {
					return err
				}
				rows = append(rows, []string{cmdutil.Itoa(l.ID), l.Name, typeName, cmdutil.Itoa(count)})
			}
			cmdutil.Printer(app).Table([]string{"ID", "Name", "Type", "Observations"}, rows, "no lifelists")
			return nil
		},
	}
}

func renameCommand(app *catalog.App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename LIFELIST NEW_NAME",
		Short: "Rename a lifelist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := cmdutil.Lifelist(cmd, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Catalog.Lifelists.Rename(cmd.Context(), l.ID, args[1]); err != nil {
				return err
			}
			cmdutil.Printer(app).Success("renamed %q to %q", l.Name, args[1])
			return nil
		},
	}
}

func deleteCommand(app *catalog.App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete LIFELIST",
		Short: "Delete a lifelist with all its observations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := cmdutil.Lifelist(cmd, app, args[0])
			if err != nil {
				return err
			}
			p := cmdutil.Printer(app)
			if !force {
				p.Warn("refusing to delete %q without --force", l.Name)
				return nil
			}
			if err := app.Catalog.Lifelists.Delete(cmd.Context(), l.ID); err != nil {
				return err
			}
			p.Success("deleted lifelist %q", l.Name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Delete without confirmation")
	return cmd
}
