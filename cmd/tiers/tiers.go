// Package tiers provides the tiers command group.
package tiers

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcrdcsnv/LifelistTracker-sub001/cmd/cmdutil"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/catalog"
)

// Command creates the tiers command with get, set and all subcommands.
func Command(app *catalog.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tiers",
		Short: "Show or configure the tiers of a lifelist",
	}
	cmd.AddCommand(getCommand(app), setCommand(app), allCommand(app))
	return cmd
}

func getCommand(app *catalog.App) *cobra.Command {
	return &cobra.Command{
		Use:   "get LIFELIST",
		Short: "Show the tiers in precedence order with observation counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l, err := cmdutil.Lifelist(cmd, app, args[0])
			if err != nil {
				return err
			}
			order, err := app.Catalog.Tiers.GetTiers(ctx, l.ID)
			if err != nil {
				return err
			}
			counts, err := app.Catalog.Tiers.TierCounts(ctx, l.ID)
			if err != nil {
				return err
			}
			byTier := make(map[string]int64, len(counts))
			for _, tc := range counts {
				byTier[tc.Tier] = tc.Count
			}

			rows := make([][]string, len(order))
			for i, name := range order {
				rows[i] = []string{cmdutil.Itoa(i + 1), name, cmdutil.Itoa(byTier[name])}
			}
			cmdutil.Printer(app).Table([]string{"#", "Tier", "Observations"}, rows, "no tiers")
			return nil
		},
	}
}

func setCommand(app *catalog.App) *cobra.Command {
	return &cobra.Command{
		Use:   "set LIFELIST TIER...",
		Short: "Replace the tiers of a lifelist; the first tier has the highest precedence",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := cmdutil.Lifelist(cmd, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Catalog.Tiers.SetTiers(cmd.Context(), l.ID, args[1:]); err != nil {
				return err
			}
			cmdutil.Printer(app).Success("tiers of %q set to %s", l.Name, strings.Join(args[1:], ", "))
			return nil
		},
	}
}

func allCommand(app *catalog.App) *cobra.Command {
	return &cobra.Command{
		Use:   "all LIFELIST",
		Short: "List every tier in use, configured or not",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := cmdutil.Lifelist(cmd, app, args[0])
			if err != nil {
				return err
			}
			all, err := app.Catalog.Tiers.GetAllTiers(cmd.Context(), l.ID)
			if err != nil {
				return err
			}
			p := cmdutil.Printer(app)
			for _, name := range all {
				p.Line("%s", name)
			}
			return nil
		},
	}
}
