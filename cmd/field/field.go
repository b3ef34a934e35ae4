// Package field provides the field command group for custom fields.
package field

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcrdcsnv/LifelistTracker-sub001/cmd/cmdutil"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/catalog"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/fields"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/fieldvalue"
)

// Command creates the field command with add, list, delete and dep subcommands.
func Command(app *catalog.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "field",
		Short: "Manage the custom fields of a lifelist",
	}
	cmd.AddCommand(addCommand(app), listCommand(app), deleteCommand(app), depCommand(app))
	return cmd
}

func addCommand(app *catalog.App) *cobra.Command {
	var (
		typeName  string
		choices   []string
		colors    []string
		ratingMax int
		required  bool
		order     int
	)

	cmd := &cobra.Command{
		Use:   "add LIFELIST NAME",
		Short: "Add a custom field",
		Long: "Add a custom field. Types: " + joinTypes() + ".\n" +
			"Choice fields take --option value[=label] once per option.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := cmdutil.Lifelist(cmd, app, args[0])
			if err != nil {
				return err
			}
			t, err := fieldvalue.ParseType(typeName)
			if err != nil {
				return err
			}

			spec := fields.FieldSpec{Name: args[1], Type: t, Required: required, Order: order}
			opts := &fieldvalue.Options{Max: ratingMax, Colors: colors}
			for _, c := range choices {
				value, label, _ := strings.Cut(c, "=")
				opts.Choices = append(opts.Choices, fieldvalue.Choice{Value: value, Label: label})
			}
			if !opts.IsZero() {
				spec.Options = opts
			}

			id, err := app.Catalog.Fields.AddField(cmd.Context(), l.ID, spec)
			if err != nil {
				return err
			}
			cmdutil.Printer(app).Success("added %s field %q to %q (id %d)", t, spec.Name, l.Name, id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", string(fieldvalue.TypeText), "Field type")
	cmd.Flags().StringArrayVar(&choices, "option", nil, "Choice option as value or value=label")
	cmd.Flags().StringSliceVar(&colors, "color", nil, "Allowed colors for color fields")
	cmd.Flags().IntVar(&ratingMax, "max", 0, "Maximum for rating fields")
	cmd.Flags().BoolVar(&required, "required", false, "Mark the field as required")
	cmd.Flags().IntVar(&order, "order", 0, "Display order")
	return cmd
}

func listCommand(app *catalog.App) *cobra.Command {
	return &cobra.Command{
		Use:   "list LIFELIST",
		Short: "List the custom fields of a lifelist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := cmdutil.Lifelist(cmd, app, args[0])
			if err != nil {
				return err
			}
			descriptors, err := app.Catalog.Fields.ListFields(cmd.Context(), l.ID)
			if err != nil {
				return err
			}

			rows := make([][]string, len(descriptors))
			for i, d := range descriptors {
				req := ""
				if d.Required {
					req = "yes"
				}
				rows[i] = []string{cmdutil.Itoa(d.ID), d.Name, string(d.Type), req, strings.Join(d.TypedOptions().ChoiceValues(), ", ")}
			}
			cmdutil.Printer(app).Table([]string{"ID", "Name", "Type", "Required", "Options"}, rows, "no custom fields")
			return nil
		},
	}
}

func deleteCommand(app *catalog.App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete FIELD_ID",
		Short: "Delete a custom field and its stored values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cmdutil.ParseID(args[0], "field")
			if err != nil {
				return err
			}
			if err := app.Catalog.Fields.DeleteField(cmd.Context(), id); err != nil {
				return err
			}
			cmdutil.Printer(app).Success("deleted field %d", id)
			return nil
		},
	}
}

func depCommand(app *catalog.App) *cobra.Command {
	var condition, value string

	cmd := &cobra.Command{
		Use:   "dep FIELD_ID PARENT_FIELD_ID",
		Short: "Record that a field depends on another field's value",
		Long:  "Record a dependency. Without a parent id the field's dependencies are listed.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			fieldID, err := cmdutil.ParseID(args[0], "field")
			if err != nil {
				return err
			}
			p := cmdutil.Printer(app)

			if len(args) == 1 {
				deps, err := app.Catalog.Fields.Dependencies(ctx, fieldID)
				if err != nil {
					return err
				}
				rows := make([][]string, len(deps))
				for i, d := range deps {
					rows[i] = []string{cmdutil.Itoa(d.ID), cmdutil.Itoa(d.ParentFieldID), d.ConditionType, d.ConditionValue}
				}
				p.Table([]string{"ID", "Parent", "Condition", "Value"}, rows, "no dependencies")
				return nil
			}

			parentID, err := cmdutil.ParseID(args[1], "parent field")
			if err != nil {
				return err
			}
			id, err := app.Catalog.Fields.AddDependency(ctx, fieldID, parentID, condition, value)
			if err != nil {
				return err
			}
			p.Success("field %d now depends on field %d (id %d)", fieldID, parentID, id)
			return nil
		},
	}

	cmd.Flags().StringVar(&condition, "condition", fields.ConditionEquals, "Condition type: equals, not_equals, not_empty")
	cmd.Flags().StringVar(&value, "value", "", "Condition value")
	return cmd
}

func joinTypes() string {
	names := make([]string, len(fieldvalue.Types))
	for i, t := range fieldvalue.Types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
