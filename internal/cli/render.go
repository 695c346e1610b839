package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/floorplan/pkg/errors"
	fpio "github.com/matzehuels/floorplan/pkg/io"
	"github.com/matzehuels/floorplan/pkg/pipeline"
	"github.com/matzehuels/floorplan/pkg/render"
	"github.com/matzehuels/floorplan/pkg/render/hierarchy"
	"github.com/matzehuels/floorplan/pkg/render/sink"
)

// renderOpts holds options for the render command.
type renderOpts struct {
	formats  string
	output   string
	padding  int
	noLabels bool
	codes    bool
	scale    float64
	refresh  bool
	noStore  bool
}

// renderCommand creates the render command for exporting floor plans.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{formats: sink.FormatSVG}

	cmd := &cobra.Command{
		Use:   "render <layout.json>",
		Short: "Export a layout as SVG, PNG, PDF, JSON or CSV",
		Long: `Render crops a layout and writes it in one or more formats.

CSV lists one row per bound location identifier. PNG and PDF need
rsvg-convert on the PATH. Results are cached by layout content and options;
--refresh bypasses the cache.`,
		Example: `  floorplan render site.json
  floorplan render site.json -f svg,csv -o out/site
  floorplan render site.json -f png --scale 3 --codes`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: layoutFileCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("padding") {
				opts.padding = c.Config.Export.Padding
			}
			if !cmd.Flags().Changed("scale") {
				opts.scale = c.Config.Export.Scale
			}
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.formats, "format", "f", opts.formats, "comma-separated formats: "+strings.Join(sink.Formats, ","))
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output path without extension (default: input name)")
	cmd.Flags().IntVar(&opts.padding, "padding", pipeline.DefaultPadding, "margin around the content")
	cmd.Flags().BoolVar(&opts.noLabels, "no-labels", false, "omit item labels")
	cmd.Flags().BoolVar(&opts.codes, "codes", false, "print location codes under labels")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the export cache")
	cmd.Flags().BoolVar(&opts.noStore, "no-cache", false, "do not read or write the export cache")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, path string, opts renderOpts) error {
	ctx := cmd.Context()

	formats := splitFormats(opts.formats)
	if len(formats) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no output format given")
	}
	for _, f := range formats {
		if err := pipeline.ValidateFormat(f); err != nil {
			return err
		}
		if (f == sink.FormatPNG || f == sink.FormatPDF) && !render.Available() {
			return errors.New(errors.ErrCodeUnsupported, "%s export needs rsvg-convert on the PATH", f)
		}
	}

	doc, err := fpio.ImportJSON(path)
	if err != nil {
		return err
	}
	loggerFromContext(ctx).Debug("loaded layout", "path", path, "items", len(doc.Items), "formats", formats)

	runner, err := c.newRunner(ctx, opts.noStore)
	if err != nil {
		return err
	}
	defer runner.Close()

	base := opts.output
	if base == "" {
		base = strings.TrimSuffix(path, filepath.Ext(path))
	}

	assigned := 0
	for _, it := range doc.Items {
		assigned += len(it.Identifiers())
	}

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()
	var written []string
	cachedAll := true
	for _, format := range formats {
		data, hit, err := runner.ExportWithCacheInfo(ctx, doc, pipeline.ExportOptions{
			Format:  format,
			Padding: opts.padding,
			Labels:  !opts.noLabels,
			Codes:   opts.codes,
			Scale:   opts.scale,
			Refresh: opts.refresh,
		})
		if err != nil {
			spinner.StopWithError("Render failed")
			return err
		}
		cachedAll = cachedAll && hit
		out := outputFile(base, format, path)
		if err := os.WriteFile(out, data, 0o644); err != nil {
			spinner.StopWithError("Render failed")
			return fmt.Errorf("write %s: %w", out, err)
		}
		written = append(written, out)
	}
	spinner.StopWithSuccess(fmt.Sprintf("Rendered %s", doc.Name))

	printStats(len(doc.Items), assigned, cachedAll)
	for _, f := range written {
		printFile(f)
	}
	return nil
}

// outputFile returns base with the extension for format. A JSON export
// that would overwrite the input gets a ".cropped" suffix.
func outputFile(base, format, input string) string {
	out := base + "." + format
	if filepath.Clean(out) == filepath.Clean(input) {
		out = base + ".cropped." + format
	}
	return out
}

func splitFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// hierarchyCommand creates the hierarchy command for containment diagrams.
func (c *CLI) hierarchyCommand() *cobra.Command {
	var (
		output     string
		format     string
		detailed   bool
		structural bool
		scale      float64
	)

	cmd := &cobra.Command{
		Use:   "hierarchy <layout.json>",
		Short: "Draw the containment tree of a layout",
		Long: `Hierarchy draws boundaries, zones and units as a tree using Graphviz.
Format dot writes the raw graph description.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: layoutFileCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := fpio.ImportJSON(args[0])
			if err != nil {
				return err
			}
			dot := hierarchy.ToDOT(doc.Items, hierarchy.Options{Detailed: detailed, Structural: structural})

			var data []byte
			switch format {
			case "dot":
				data = []byte(dot)
			case sink.FormatSVG:
				data, err = hierarchy.RenderSVG(cmd.Context(), dot)
			case sink.FormatPDF:
				data, err = hierarchy.RenderPDF(cmd.Context(), dot)
			case sink.FormatPNG:
				data, err = hierarchy.RenderPNG(cmd.Context(), dot, scale)
			default:
				return errors.New(errors.ErrCodeUnsupported, "unsupported hierarchy format %q (want dot, svg, pdf or png)", format)
			}
			if err != nil {
				return err
			}

			if output == "" {
				output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".hierarchy." + format
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess("Hierarchy of %d items", len(doc.Items))
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	cmd.Flags().StringVarP(&format, "format", "f", sink.FormatSVG, "dot, svg, pdf or png")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show codes and location counts")
	cmd.Flags().BoolVar(&structural, "structural", false, "include walls and doors")
	cmd.Flags().Float64Var(&scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	return cmd
}
