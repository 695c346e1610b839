package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/floorplan/pkg/batch"
	"github.com/matzehuels/floorplan/pkg/collision"
	"github.com/matzehuels/floorplan/pkg/crop"
	"github.com/matzehuels/floorplan/pkg/errors"
	fpio "github.com/matzehuels/floorplan/pkg/io"
	"github.com/matzehuels/floorplan/pkg/layout"
)

// =============================================================================
// crop
// =============================================================================

func (c *CLI) cropCommand() *cobra.Command {
	var (
		output  string
		padding int
		tight   bool
	)

	cmd := &cobra.Command{
		Use:   "crop <layout.json>",
		Short: "Translate a layout so its content starts at the padding",
		Long: `Crop computes the bounding box of every item and shifts the layout so the
box starts at (padding, padding). The canvas size is the box plus padding on
each side. --tight crops with zero padding.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: layoutFileCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := fpio.ImportJSON(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("padding") {
				padding = c.Config.Export.Padding
			}
			if padding < 0 {
				return errors.New(errors.ErrCodeInvalidInput, "padding must be non-negative")
			}

			var res crop.Result
			if tight {
				res = crop.UltraTight(doc.Items)
			} else {
				res = crop.Crop(doc.Items, padding)
			}
			out := fpio.NewDocument(doc.Name, res, fpio.Options{
				OrgUnit: doc.Metadata.OrgUnit,
				OrgMap:  doc.Metadata.OrgMap,
			})
			out.Metadata.Extra = doc.Metadata.Extra

			path := outputPath(args[0], output)
			if err := fpio.ExportJSON(out, path); err != nil {
				return err
			}
			printSuccess("Cropped to %d×%d", res.CanvasWidth, res.CanvasHeight)
			printDetail("offset %d,%d", res.Offset.X, res.Offset.Y)
			printFile(path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: overwrite input)")
	cmd.Flags().IntVar(&padding, "padding", 20, "margin around the content")
	cmd.Flags().BoolVar(&tight, "tight", false, "crop with zero padding")
	return cmd
}

// =============================================================================
// fill / autofill
// =============================================================================

type fillFlags struct {
	output  string
	rows    int
	columns int
	spacing int
}

func (f *fillFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default: overwrite input)")
	cmd.Flags().IntVar(&f.rows, "rows", 0, "limit the number of grid rows")
	cmd.Flags().IntVar(&f.columns, "cols", 0, "limit the number of grid columns")
	cmd.Flags().IntVar(&f.spacing, "spacing", -1, "gap between units (default: template spacing)")
}

func (f *fillFlags) options() []batch.Option {
	var opts []batch.Option
	if f.rows > 0 {
		opts = append(opts, batch.WithRows(f.rows))
	}
	if f.columns > 0 {
		opts = append(opts, batch.WithColumns(f.columns))
	}
	if f.spacing >= 0 {
		opts = append(opts, batch.WithSpacing(f.spacing))
	}
	return opts
}

func (c *CLI) fillCommand() *cobra.Command {
	var (
		flags    fillFlags
		zoneID   string
		typeName string
		tmpl     layout.Template
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "fill <layout.json>",
		Short: "Fill one zone with a grid of units",
		Long: `Fill stamps copies of a unit template into a zone, row by row, as many as fit
inside the zone's padding. Units that would overlap existing items are
rejected and nothing is changed.`,
		Example: `  floorplan fill site.json --zone z1 --type storage_unit --width 60 --height 60 --rows 2
  floorplan fill site.json --zone z1 --type vertical_rack --width 40 --height 40 --dry-run`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: layoutFileCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, ok := layout.ParseType(typeName)
			if !ok {
				return errors.New(errors.ErrCodeInvalidInput, "unknown item type %q", typeName)
			}
			tmpl.Type = t

			sess, doc, err := c.openSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer sess.Close()

			if dryRun {
				n, err := sess.Capacity(zoneID, tmpl, flags.options()...)
				if err != nil {
					return err
				}
				printInfo("Zone %s fits %d × %s", zoneID, n, t)
				return nil
			}

			prog := newProgress(c.Logger)
			added, err := sess.Generate(cmd.Context(), zoneID, tmpl, flags.options()...)
			if err != nil {
				return err
			}
			path := outputPath(args[0], flags.output)
			if _, err := c.saveSession(sess, doc, path); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Placed %d units in %s", len(added), zoneID))
			printFile(path)
			if len(added) > 0 && t.Compartmentalized() {
				printNextStep("Bind locations", "floorplan assign "+path+" --item "+added[0].ID+" --row 0 --col 0 --location <id>")
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&zoneID, "zone", "", "zone to fill (required)")
	cmd.Flags().StringVar(&typeName, "type", string(layout.TypeStorageUnit), "unit type")
	cmd.Flags().IntVar(&tmpl.Width, "width", 60, "unit width")
	cmd.Flags().IntVar(&tmpl.Height, "height", 60, "unit height")
	cmd.Flags().IntVar(&tmpl.Rows, "compartment-rows", 0, "compartment rows per unit (default 1 for compartmentalized types)")
	cmd.Flags().IntVar(&tmpl.Columns, "compartment-cols", 0, "compartment columns per unit (default 1 for compartmentalized types)")
	cmd.Flags().StringVar(&tmpl.Category, "category", "", "category stamped on every unit")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "only report how many units fit")
	_ = cmd.MarkFlagRequired("zone")
	return cmd
}

func (c *CLI) autofillCommand() *cobra.Command {
	var flags fillFlags

	cmd := &cobra.Command{
		Use:   "autofill <layout.json>",
		Short: "Fill every zone with its archetype's template",
		Long: `Autofill fills each storage, receiving, dispatch and transit zone with the
template configured for its archetype. Templates come from the built-in
catalog, overridden by the [templates] section of the config file.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: layoutFileCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, doc, err := c.openSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer sess.Close()

			prog := newProgress(c.Logger)
			added, err := sess.AutoFill(cmd.Context(), flags.options()...)
			if err != nil {
				return err
			}
			if len(added) == 0 {
				printWarning("No zone had room for new units")
				return nil
			}
			path := outputPath(args[0], flags.output)
			if _, err := c.saveSession(sess, doc, path); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Placed %d units", len(added)))
			printFile(path)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// =============================================================================
// assign
// =============================================================================

func (c *CLI) assignCommand() *cobra.Command {
	var (
		output   string
		itemID   string
		location string
		category string
		row, col int
		key      string
		levels   []string
		count    int
		remove   bool
	)

	cmd := &cobra.Command{
		Use:   "assign <layout.json>",
		Short: "Bind location identifiers to an item",
		Long: `Assign binds a location identifier to a single-slot item, or to one
compartment with --row and --col. Vertical racks take one location per level:
pass --level L1=LOC repeatedly, or --levels N to generate N fresh identifiers.
Identifiers must be unique across the whole layout.`,
		Example: `  floorplan assign site.json --item s1 --location LOC-0001
  floorplan assign site.json --item u1 --row 0 --col 1 --location LOC-0002
  floorplan assign site.json --item r1 --level L1=LOC-0100 --level L2=LOC-0101
  floorplan assign site.json --item r1 --levels 4
  floorplan assign site.json --item u1 --key 0-1 --remove`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: layoutFileCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			rowSet, colSet := cmd.Flags().Changed("row"), cmd.Flags().Changed("col")
			if rowSet != colSet {
				return errors.New(errors.ErrCodeInvalidInput, "--row and --col must be given together")
			}

			sess, doc, err := c.openSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer sess.Close()
			ctx := cmd.Context()

			var item *layout.Item
			switch {
			case remove:
				item, err = sess.RemoveAssignment(ctx, itemID, key)
			case len(levels) > 0 || count > 0:
				mappings, perr := parseLevels(levels)
				if perr != nil {
					return perr
				}
				if len(mappings) == 0 {
					if mappings, err = sess.SuggestLevels(count); err != nil {
						return err
					}
				}
				item, err = sess.AssignMultiLevel(ctx, itemID, key, mappings)
			case rowSet:
				item, err = sess.AssignCompartment(ctx, itemID, row, col, location)
			default:
				item, err = sess.AssignSingle(ctx, itemID, location, category)
			}
			if err != nil {
				return err
			}

			path := outputPath(args[0], output)
			if _, err := c.saveSession(sess, doc, path); err != nil {
				return err
			}
			ids := item.Identifiers()
			printSuccess("%s now holds %d locations", item.ID, len(ids))
			if len(ids) > 0 {
				printDetail("%s", strings.Join(ids, ", "))
			}
			printFile(path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: overwrite input)")
	cmd.Flags().StringVar(&itemID, "item", "", "item to assign (required)")
	cmd.Flags().StringVar(&location, "location", "", "location identifier (empty clears)")
	cmd.Flags().StringVar(&category, "category", "", "category for single-slot items")
	cmd.Flags().IntVar(&row, "row", 0, "compartment row")
	cmd.Flags().IntVar(&col, "col", 0, "compartment column")
	cmd.Flags().StringVar(&key, "key", "", "compartment key for vertical racks and --remove (e.g. 0-0)")
	cmd.Flags().StringArrayVar(&levels, "level", nil, "level mapping LEVEL=LOCATION (repeatable)")
	cmd.Flags().IntVar(&count, "levels", 0, "generate this many level mappings")
	cmd.Flags().BoolVar(&remove, "remove", false, "remove the assignment at --key")
	_ = cmd.MarkFlagRequired("item")
	return cmd
}

// parseLevels parses LEVEL=LOCATION pairs. A bare location is numbered by
// its position (L1, L2, ...).
func parseLevels(specs []string) ([]layout.LevelLocation, error) {
	out := make([]layout.LevelLocation, 0, len(specs))
	for i, s := range specs {
		level, loc, ok := strings.Cut(s, "=")
		if !ok {
			level, loc = "L"+strconv.Itoa(i+1), s
		}
		level, loc = strings.TrimSpace(level), strings.TrimSpace(loc)
		if level == "" || loc == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid level mapping %q", s)
		}
		out = append(out, layout.LevelLocation{LevelID: level, LocationID: loc})
	}
	return out, nil
}

// =============================================================================
// validate
// =============================================================================

func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <layout.json>",
		Short: "Check a layout for rule violations",
		Long: `Validate loads a layout and checks containment, location identifier
uniqueness, location code grammar and rack level mappings. Overlapping
siblings are reported as warnings.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: layoutFileCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := c.openSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := sess.Validate(); err != nil {
				printError("%s", errors.UserMessage(err))
				return err
			}

			items := sess.Items()
			overlaps := collision.Siblings(items)
			for _, p := range overlaps {
				printWarning("%s overlaps %s", p.A.ID, p.B.ID)
			}

			printSuccess("Layout is valid")
			printStats(len(items), sess.Identifiers().Len(), false)
			return nil
		},
	}
}
