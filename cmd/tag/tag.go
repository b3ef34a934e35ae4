// Package tag provides the tag command group.
package tag

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcrdcsnv/LifelistTracker-sub001/cmd/cmdutil"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/catalog"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
)

// Command creates the tag command.
func Command(app *catalog.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage tags and the tag hierarchy",
	}
	cmd.AddCommand(addCommand(app), listCommand(app), parentCommand(app), showCommand(app), deleteCommand(app))
	return cmd
}

func addCommand(app *catalog.App) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a tag; an existing tag is returned unchanged",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := app.Catalog.Observations.AddTag(cmd.Context(), args[0], category)
			if err != nil {
				return err
			}
			cmdutil.Printer(app).Success("tag %q (id %d)", t.Name, t.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Tag category")
	return cmd
}

func listCommand(app *catalog.App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tags by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := app.Catalog.Observations.AllTags(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, len(tags))
			for i, t := range tags {
				rows[i] = []string{cmdutil.Itoa(t.ID), t.Name, t.Category}
			}
			cmdutil.Printer(app).Table([]string{"ID", "Name", "Category"}, rows, "no tags")
			return nil
		},
	}
}

func parentCommand(app *catalog.App) *cobra.Command {
	return &cobra.Command{
		Use:   "parent TAG PARENT_TAG",
		Short: "Record PARENT_TAG as a parent of TAG",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			child, err := resolve(cmd, app, args[0])
			if err != nil {
				return err
			}
			parent, err := resolve(cmd, app, args[1])
			if err != nil {
				return err
			}
			added, err := app.Catalog.Observations.AddTagParent(ctx, child.ID, parent.ID)
			if err != nil {
				return err
			}
			p := cmdutil.Printer(app)
			if added {
				p.Success("%q is now a child of %q", child.Name, parent.Name)
			} else {
				p.Muted("%q is already a child of %q", child.Name, parent.Name)
			}
			return nil
		},
	}
}

func showCommand(app *catalog.App) *cobra.Command {
	return &cobra.Command{
		Use:   "show TAG",
		Short: "Show the parents and children of a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := resolve(cmd, app, args[0])
			if err != nil {
				return err
			}
			parents, children, err := app.Catalog.Observations.TagHierarchy(cmd.Context(), t.ID)
			if err != nil {
				return err
			}
			cmdutil.Printer(app).Fields(
				[2]string{"tag", t.Name},
				[2]string{"category", t.Category},
				[2]string{"parents", names(parents)},
				[2]string{"children", names(children)},
			)
			return nil
		},
	}
}

func deleteCommand(app *catalog.App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete TAG",
		Short: "Delete a tag from every observation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := resolve(cmd, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Catalog.Observations.DeleteTag(cmd.Context(), t.ID); err != nil {
				return err
			}
			cmdutil.Printer(app).Success("deleted tag %q", t.Name)
			return nil
		},
	}
}

// resolve finds a tag by id or by name, ignoring case.
func resolve(cmd *cobra.Command, app *catalog.App, arg string) (*entities.Tag, error) {
	tags, err := app.Catalog.Observations.AllTags(cmd.Context())
	if err != nil {
		return nil, err
	}
	id, idErr := cmdutil.ParseID(arg, "tag")
	for _, t := range tags {
		if (idErr == nil && t.ID == id) || strings.EqualFold(t.Name, arg) {
			return t, nil
		}
	}
	return nil, fmt.Errorf("unknown tag %q", arg)
}

func names(tags []*entities.Tag) string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = t.Name
	}
	return strings.Join(out, ", ")
}
