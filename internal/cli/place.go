package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/floorplan/pkg/codegen"
	"github.com/matzehuels/floorplan/pkg/designer"
	"github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/layout"
)

// =============================================================================
// place
// =============================================================================

func (c *CLI) placeCommand() *cobra.Command {
	var (
		output   string
		typeName string
		tmpl     layout.Template
		at       layout.Point
		zone     string
		name     string
	)

	cmd := &cobra.Command{
		Use:   "place <layout.json>",
		Short: "Drop a new item onto the layout",
		Long: `Place drops one item at a point. The point is snapped to the item's grid and
the item joins the most specific container under it. Zones get the next
zone label and every non-structural item a location code.

With --facility-zone the code is minted from the facility hierarchy of that
zone (e.g. WH-01-Z02-U003); otherwise a legacy code such as A3 is used.`,
		Example: `  floorplan place site.json --type storage_unit --x 120 --y 120
  floorplan place site.json --type vertical_rack --x 400 --y 80 --facility-zone z2
  floorplan place site.json --type storage_zone --x 60 --y 60 --width 240 --height 240`,
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

			it, err := sess.Drop(cmd.Context(), tmpl, at, facilityContext(zone, name, tmpl))
			if err != nil {
				return err
			}
			path := outputPath(args[0], output)
			if _, err := c.saveSession(sess, doc, path); err != nil {
				return err
			}
			printSuccess("Placed %s %s", it.Type, it.ID)
			printKeyValue("Position", fmt.Sprintf("%d,%d", it.X, it.Y))
			if it.ContainerID != "" {
				printKeyValue("Container", it.ContainerID)
			}
			if it.Code != "" {
				printKeyValue("Code", it.Code)
			}
			if it.Label != "" {
				printKeyValue("Label", it.Label)
			}
			printFile(path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: overwrite input)")
	cmd.Flags().StringVar(&typeName, "type", string(layout.TypeStorageUnit), "item type")
	cmd.Flags().IntVar(&at.X, "x", 0, "drop point x")
	cmd.Flags().IntVar(&at.Y, "y", 0, "drop point y")
	cmd.Flags().IntVar(&tmpl.Width, "width", 60, "item width")
	cmd.Flags().IntVar(&tmpl.Height, "height", 60, "item height")
	cmd.Flags().IntVar(&tmpl.Rows, "compartment-rows", 0, "compartment rows (default 1 for compartmentalized types)")
	cmd.Flags().IntVar(&tmpl.Columns, "compartment-cols", 0, "compartment columns (default 1 for compartmentalized types)")
	cmd.Flags().IntVar(&tmpl.ContainerPadding, "container-padding", 0, "inner padding of a container item")
	cmd.Flags().StringVar(&tmpl.Category, "category", "", "item category")
	cmd.Flags().StringVar(&zone, "facility-zone", "", "zone whose facility hierarchy mints the location code")
	cmd.Flags().StringVar(&name, "name", "", "facility node name for hierarchical codes")
	return cmd
}

func facilityContext(zone, name string, tmpl layout.Template) *codegen.FacilityContext {
	if zone == "" {
		return nil
	}
	return &codegen.FacilityContext{
		ZoneID:     zone,
		Name:       name,
		Dimensions: layout.Size{Width: tmpl.Width, Height: tmpl.Height},
	}
}

// =============================================================================
// move / resize / delete
// =============================================================================

func (c *CLI) moveCommand() *cobra.Command {
	var (
		output string
		itemID string
		to     layout.Point
	)

	cmd := &cobra.Command{
		Use:   "move <layout.json>",
		Short: "Move an item and everything it contains",
		Long: `Move snaps the target point to the item's grid, re-binds the item to the
container under its new centre and shifts its contents with it. Moving a
position-locked item changes nothing.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: layoutFileCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.editItem(cmd, args[0], output, itemID, func(ctx context.Context, sess *designer.Session) (*layout.Item, error) {
				return sess.Move(ctx, itemID, to)
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: overwrite input)")
	cmd.Flags().StringVar(&itemID, "item", "", "item to move (required)")
	cmd.Flags().IntVar(&to.X, "x", 0, "target x")
	cmd.Flags().IntVar(&to.Y, "y", 0, "target y")
	_ = cmd.MarkFlagRequired("item")
	return cmd
}

func (c *CLI) resizeCommand() *cobra.Command {
	var (
		output        string
		itemID        string
		width, height int
	)

	cmd := &cobra.Command{
		Use:   "resize <layout.json>",
		Short: "Change the size of an item",
		Long: `Resize snaps the new size to the item's grid, clamps it to the item's
minimum and maximum and rejects sizes that leave the floor plan. Resizing a
size-locked item changes nothing.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: layoutFileCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.editItem(cmd, args[0], output, itemID, func(ctx context.Context, sess *designer.Session) (*layout.Item, error) {
				return sess.Resize(ctx, itemID, width, height)
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: overwrite input)")
	cmd.Flags().StringVar(&itemID, "item", "", "item to resize (required)")
	cmd.Flags().IntVar(&width, "width", 0, "new width")
	cmd.Flags().IntVar(&height, "height", 0, "new height")
	_ = cmd.MarkFlagRequired("item")
	return cmd
}

// editItem applies one move or resize and saves the layout unless the
// operation left the item untouched.
func (c *CLI) editItem(cmd *cobra.Command, in, output, itemID string, fn func(context.Context, *designer.Session) (*layout.Item, error)) error {
	sess, doc, err := c.openSession(cmd.Context(), in)
	if err != nil {
		return err
	}
	defer sess.Close()

	before, err := sess.Get(itemID)
	if err != nil {
		return err
	}
	it, err := fn(cmd.Context(), sess)
	if err != nil {
		return err
	}
	if it.Rect() == before.Rect() && it.ContainerID == before.ContainerID {
		printWarning("%s unchanged", it.ID)
		if it.IsPositionLocked || it.IsSizeLocked {
			printDetail("the item is locked")
		}
		return nil
	}

	path := outputPath(in, output)
	if _, err := c.saveSession(sess, doc, path); err != nil {
		return err
	}
	printSuccess("Updated %s", it.ID)
	printKeyValue("Position", fmt.Sprintf("%d,%d", it.X, it.Y))
	printKeyValue("Size", fmt.Sprintf("%d×%d", it.Width, it.Height))
	if it.ContainerID != before.ContainerID {
		printKeyValue("Container", it.ContainerID)
	}
	printFile(path)
	return nil
}

func (c *CLI) deleteCommand() *cobra.Command {
	var (
		output string
		itemID string
	)

	cmd := &cobra.Command{
		Use:               "delete <layout.json>",
		Short:             "Remove an item and everything it contains",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: layoutFileCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, doc, err := c.openSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer sess.Close()

			removed, err := sess.Delete(cmd.Context(), itemID)
			if err != nil {
				return err
			}
			path := outputPath(args[0], output)
			if _, err := c.saveSession(sess, doc, path); err != nil {
				return err
			}
			printSuccess("Removed %d items", len(removed))
			for _, it := range removed {
				printDetail("%s %s", it.Type, it.ID)
			}
			printFile(path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: overwrite input)")
	cmd.Flags().StringVar(&itemID, "item", "", "item to remove (required)")
	_ = cmd.MarkFlagRequired("item")
	return cmd
}

// =============================================================================
// apply
// =============================================================================

// editScript is a sequence of edits read from TOML:
//
//	[[step]]
//	op = "place"
//	type = "storage_unit"
//	x = 120
//	y = 120
//
//	[[step]]
//	op = "undo"
type editScript struct {
	Steps []editStep `toml:"step"`
}

type editStep struct {
	Op       string `toml:"op"`
	Item     string `toml:"item"`
	Type     string `toml:"type"`
	X        int    `toml:"x"`
	Y        int    `toml:"y"`
	Width    int    `toml:"width"`
	Height   int    `toml:"height"`
	Rows     int    `toml:"rows"`
	Columns  int    `toml:"columns"`
	Zone     string `toml:"facility_zone"`
	Name     string `toml:"name"`
	Location string `toml:"location"`
	Category string `toml:"category"`
}

func (c *CLI) applyCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "apply <layout.json> <script.toml>",
		Short: "Run a script of edits against a layout",
		Long: `Apply runs the [[step]] entries of a TOML script in order. Supported ops are
place, move, resize, delete, assign and undo; undo reverts the previous
successful step, up to the configured undo depth. The layout is saved only
when every step succeeds.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var script editScript
			if _, err := toml.DecodeFile(args[1], &script); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidFormat, err, "read script %s", args[1])
			}

			sess, doc, err := c.openSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer sess.Close()

			prog := newProgress(c.Logger)
			for i, step := range script.Steps {
				if err := runStep(cmd.Context(), sess, step); err != nil {
					return fmt.Errorf("step %d (%s): %w", i+1, step.Op, err)
				}
				c.Logger.Debug("applied step", "n", i+1, "op", step.Op)
			}
			path := outputPath(args[0], output)
			if _, err := c.saveSession(sess, doc, path); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Applied %d steps", len(script.Steps)))
			printFile(path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: overwrite input)")
	return cmd
}

func runStep(ctx context.Context, sess *designer.Session, step editStep) error {
	var err error
	switch strings.ToLower(step.Op) {
	case "place":
		t, ok := layout.ParseType(step.Type)
		if !ok {
			return errors.New(errors.ErrCodeInvalidInput, "unknown item type %q", step.Type)
		}
		tmpl := layout.Template{Type: t, Width: step.Width, Height: step.Height,
			Rows: step.Rows, Columns: step.Columns, Category: step.Category}
		_, err = sess.Drop(ctx, tmpl, layout.Point{X: step.X, Y: step.Y}, facilityContext(step.Zone, step.Name, tmpl))
	case "move":
		_, err = sess.Move(ctx, step.Item, layout.Point{X: step.X, Y: step.Y})
	case "resize":
		_, err = sess.Resize(ctx, step.Item, step.Width, step.Height)
	case "delete":
		_, err = sess.Delete(ctx, step.Item)
	case "assign":
		_, err = sess.AssignSingle(ctx, step.Item, step.Location, step.Category)
	case "undo":
		var ok bool
		if ok, err = sess.Undo(ctx); err == nil && !ok {
			err = errors.New(errors.ErrCodeInvalidInput, "nothing to undo")
		}
	default:
		err = errors.New(errors.ErrCodeInvalidInput, "unknown op %q", step.Op)
	}
	return err
}
