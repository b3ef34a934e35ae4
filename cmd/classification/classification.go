// Package classification provides the classification command group: creating, importing,
// downloading, searching and exchanging taxonomies.
package classification

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcrdcsnv/LifelistTracker-sub001/cmd/cmdutil"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/catalog"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/classification"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/console"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/interchange"
)

// Command creates the classification command.
func Command(app *catalog.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "classification",
		Aliases: []string{"class"},
		Short:   "Manage the classifications (taxonomies) of a lifelist",
	}
	cmd.AddCommand(
		addCommand(app),
		listCommand(app),
		activateCommand(app),
		deleteCommand(app),
		importCommand(app),
		sourcesCommand(app),
		downloadCommand(app),
		searchCommand(app),
		exportCommand(app),
		importJSONCommand(app),
	)
	return cmd
}

func addCommand(app *catalog.App) *cobra.Command {
	var meta classification.Meta
	var activate bool

	cmd := &cobra.Command{
		Use:   "add LIFELIST NAME",
		Short: "Create an empty classification",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l, err := cmdutil.Lifelist(cmd, app, args[0])
			if err != nil {
				return err
			}
			meta.Name = args[1]
			id, err := app.Catalog.Classifications.AddClassification(ctx, l.ID, meta)
			if err != nil {
				return err
			}
			if activate {
				if err := app.Catalog.Classifications.SetActive(ctx, id, l.ID); err != nil {
					return err
				}
			}
			cmdutil.Printer(app).Success("added classification %q to %q (id %d)", meta.Name, l.Name, id)
			return nil
		},
	}

	cmd.Flags().StringVar(&meta.Version, "version", "", "Classification version")
	cmd.Flags().StringVar(&meta.Source, "source", "", "Where the classification comes from")
	cmd.Flags().StringVar(&meta.Description, "description", "", "Description")
	cmd.Flags().BoolVar(&activate, "activate", false, "Make it the active classification")
	return cmd
}

func listCommand(app *catalog.App) *cobra.Command {
	return &cobra.Command{
		Use:   "list LIFELIST",
		Short: "List the classifications of a lifelist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := cmdutil.Lifelist(cmd, app, args[0])
			if err != nil {
				return err
			}
			list, err := app.Catalog.Classifications.List(cmd.Context(), l.ID)
			if err != nil {
				return err
			}
			rows := make([][]string, len(list))
			for i, c := range list {
				active := ""
				if c.IsActive {
					active = "*"
				}
				rows[i] = []string{cmdutil.Itoa(c.ID), active, c.Name, c.Version, c.Source}
			}
			cmdutil.Printer(app).Table([]string{"ID", "Active", "Name", "Version", "Source"}, rows, "no classifications")
			return nil
		},
	}
}

func activateCommand(app *catalog.App) *cobra.Command {
	return &cobra.Command{
		Use:   "activate LIFELIST CLASSIFICATION_ID",
		Short: "Make a classification the active one for entry search",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := cmdutil.Lifelist(cmd, app, args[0])
			if err != nil {
				return err
			}
			id, err := cmdutil.ParseID(args[1], "classification")
			if err != nil {
				return err
			}
			if err := app.Catalog.Classifications.SetActive(cmd.Context(), id, l.ID); err != nil {
				return err
			}
			cmdutil.Printer(app).Success("classification %d is now active for %q", id, l.Name)
			return nil
		},
	}
}

func deleteCommand(app *catalog.App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete CLASSIFICATION_ID",
		Short: "Delete a classification with its entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cmdutil.ParseID(args[0], "classification")
			if err != nil {
				return err
			}
			if err := app.Catalog.Classifications.Delete(cmd.Context(), id); err != nil {
				return err
			}
			cmdutil.Printer(app).Success("deleted classification %d", id)
			return nil
		},
	}
}

func importCommand(app *catalog.App) *cobra.Command {
	var (
		meta     classification.Meta
		mapFlags []string
		activate bool
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "import LIFELIST FILE.csv",
		Short: "Import a CSV file as a new classification",
		Long: "Import a CSV file. Columns are mapped to entry fields by guessing from the headers;\n" +
			"override with --map field=Header. Fields: " + strings.Join(classification.LogicalFields, ", ") + ".",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l, err := cmdutil.Lifelist(cmd, app, args[0])
			if err != nil {
				return err
			}
			headers, rows, err := classification.ReadCSVFile(args[1])
			if err != nil {
				return err
			}
			mapping, err := buildMapping(headers, mapFlags)
			if err != nil {
				return err
			}

			p := cmdutil.Printer(app)
			if dryRun {
				printMapping(p, mapping, len(rows))
				return nil
			}

			if meta.Name == "" {
				base := filepath.Base(args[1])
				meta.Name = strings.TrimSuffix(base, filepath.Ext(base))
			}
			if meta.Source == "" {
				meta.Source = args[1]
			}
			res, err := app.Catalog.Classifications.ImportTable(ctx, l.ID, meta, headers, rows, mapping)
			if err != nil {
				return err
			}
			if activate {
				if err := app.Catalog.Classifications.SetActive(ctx, res.ClassificationID, l.ID); err != nil {
					return err
				}
			}
			reportImport(p, meta.Name, res)
			return nil
		},
	}

	cmd.Flags().StringVar(&meta.Name, "name", "", "Classification name (defaults to the file name)")
	cmd.Flags().StringVar(&meta.Version, "version", "", "Classification version")
	cmd.Flags().StringArrayVar(&mapFlags, "map", nil, "Column mapping as field=Header")
	cmd.Flags().BoolVar(&activate, "activate", false, "Make the imported classification active")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the column mapping without importing")
	return cmd
}

func sourcesCommand(app *catalog.App) *cobra.Command {
	var typeName string

	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List the well-known downloadable taxonomies",
		Args:  cobra.NoArgs,
		Annotations: map[string]string{
			cmdutil.SkipCatalog: "true",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			sources := classification.WellKnownSources()
			if typeName != "" {
				sources = classification.SourcesForType(typeName)
			}
			rows := make([][]string, len(sources))
			for i, s := range sources {
				rows[i] = []string{s.Key, s.Name, s.Version, s.LifelistType, s.Homepage}
			}
			cmdutil.Printer(app).Table([]string{"Key", "Name", "Version", "Type", "Homepage"}, rows, "no sources")
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", "", "Only sources meant for this lifelist type")
	return cmd
}

func downloadCommand(app *catalog.App) *cobra.Command {
	var (
		useAPI   bool
		locale   string
		activate bool
	)

	cmd := &cobra.Command{
		Use:   "download LIFELIST SOURCE",
		Short: "Download a well-known taxonomy and import it",
		Long: "Download a well-known taxonomy (see the sources command) and import it as a new\n" +
			"classification. With --api the eBird taxonomy is fetched through the eBird API,\n" +
			"which requires ebird.api_key in the configuration.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l, err := cmdutil.Lifelist(cmd, app, args[0])
			if err != nil {
				return err
			}

			var (
				res  *classification.ImportResult
				name string
			)
			if useAPI {
				if !strings.EqualFold(args[1], "ebird") {
					return fmt.Errorf("--api is only available for the ebird source")
				}
				name = "eBird Taxonomy"
				res, err = app.Catalog.Importer.ImportEBird(ctx, l.ID, locale)
			} else {
				src, ok := classification.LookupSource(args[1])
				if !ok {
					return fmt.Errorf("unknown source %q, see the sources command", args[1])
				}
				name = src.Name
				cmdutil.Printer(app).Muted("downloading %s", src.URL)
				res, err = app.Catalog.Importer.ImportSource(ctx, l.ID, src)
			}
			if err != nil {
				return err
			}

			if activate {
				if err := app.Catalog.Classifications.SetActive(ctx, res.ClassificationID, l.ID); err != nil {
					return err
				}
			}
			reportImport(cmdutil.Printer(app), name, res)
			return nil
		},
	}

	cmd.Flags().BoolVar(&useAPI, "api", false, "Fetch through the eBird API instead of the CSV download")
	cmd.Flags().StringVar(&locale, "locale", "", "Common name locale for the eBird API, e.g. fi")
	cmd.Flags().BoolVar(&activate, "activate", true, "Make the imported classification active")
	return cmd
}

func searchCommand(app *catalog.App) *cobra.Command {
	var (
		classID uint
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "search LIFELIST TERM",
		Short: "Search entries of the active classification",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l, err := cmdutil.Lifelist(cmd, app, args[0])
			if err != nil {
				return err
			}

			var results []classification.SearchResult
			if classID != 0 {
				results, err = app.Catalog.Classifications.Search(ctx, classID, args[1], limit)
			} else {
				results, err = app.Catalog.Classifications.SearchActive(ctx, l.ID, args[1], limit)
			}
			if err != nil {
				return err
			}

			rows := make([][]string, len(results))
			for i, r := range results {
				rows[i] = []string{cmdutil.Itoa(r.ID), r.Name, r.AlternateName, r.Category}
			}
			cmdutil.Printer(app).Table([]string{"ID", "Name", "Alternate name", "Category"}, rows, "no matches")
			return nil
		},
	}

	cmd.Flags().UintVar(&classID, "classification", 0, "Search this classification instead of the active one")
	cmd.Flags().IntVarP(&limit, "limit", "n", classification.DefaultSearchLimit, "Maximum number of results")
	return cmd
}

func exportCommand(app *catalog.App) *cobra.Command {
	return &cobra.Command{
		Use:   "export CLASSIFICATION_ID FILE.json",
		Short: "Export a classification with its entries as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cmdutil.ParseID(args[0], "classification")
			if err != nil {
				return err
			}
			return reportResult(cmdutil.Printer(app), app.Catalog.Interchange.ExportClassification(cmd.Context(), id, args[1]))
		},
	}
}

func importJSONCommand(app *catalog.App) *cobra.Command {
	return &cobra.Command{
		Use:   "import-json LIFELIST FILE.json",
		Short: "Import a classification exported with the export command",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := cmdutil.Lifelist(cmd, app, args[0])
			if err != nil {
				return err
			}
			return reportResult(cmdutil.Printer(app), app.Catalog.Interchange.ImportClassification(cmd.Context(), l.ID, args[1]))
		},
	}
}

// buildMapping guesses a mapping from headers and applies field=Header overrides.
func buildMapping(headers, overrides []string) (classification.FieldMapping, error) {
	mapping := classification.GuessMapping(headers)
	for _, o := range overrides {
		field, header, ok := strings.Cut(o, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --map %q, expected field=Header", o)
		}
		field = strings.TrimSpace(field)
		if !slices.Contains(classification.LogicalFields, field) {
			return nil, fmt.Errorf("unknown field %q in --map, expected one of %s", field, strings.Join(classification.LogicalFields, ", "))
		}
		if header != "" && !slices.Contains(headers, header) {
			return nil, fmt.Errorf("column %q not found in the file", header)
		}
		mapping[field] = header
	}
	return mapping.Clone(), nil
}

func printMapping(p *console.Printer, mapping classification.FieldMapping, rows int) {
	fields := slices.Sorted(maps.Keys(mapping))
	table := make([][]string, len(fields))
	for i, f := range fields {
		table[i] = []string{f, mapping[f]}
	}
	p.Table([]string{"Field", "Column"}, table, "no columns mapped")
	p.Muted("%d data rows", rows)
}

func reportImport(p *console.Printer, name string, res *classification.ImportResult) {
	p.Success("imported %q as classification %d", name, res.ClassificationID)
	p.Fields(
		[2]string{"entries", cmdutil.Itoa(res.Imported)},
		[2]string{"skipped", cmdutil.Itoa(res.Skipped)},
		[2]string{"elapsed", res.Duration.Round(time.Millisecond).String()},
	)
}

// reportResult prints an interchange result and turns a failure into an error.
func reportResult(p *console.Printer, res interchange.Result) error {
	if !res.Success {
		return fmt.Errorf("%s", res.Message)
	}
	p.Success("%s", res.Message)
	return nil
}
