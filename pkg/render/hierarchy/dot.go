package hierarchy

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/floorplan/pkg/layout"
	"github.com/matzehuels/floorplan/pkg/render"
)

// RootID is the synthetic node that parents uncontained items.
const RootID = "facility"

// Options configures hierarchy rendering.
type Options struct {
	// Detailed adds type, code and location counts to node labels.
	// When false, only the label (or ID) is shown.
	Detailed bool

	// Structural includes walls, lines and labels.
	Structural bool
}

// ToDOT converts the containment tree of items to Graphviz DOT format.
// Edges pointing at a container that is not in items attach to the root.
func ToDOT(items []*layout.Item, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=20, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "  %q [label=%q, shape=doubleoctagon, fillcolor=\"#edf2f7\"];\n", RootID, "Facility")

	known := make(map[string]bool, len(items))
	var shown []*layout.Item
	for _, it := range items {
		if it.Type.Structural() && !opts.Structural {
			continue
		}
		known[it.ID] = true
		shown = append(shown, it)
	}

	for _, it := range shown {
		attrs := fmtAttrs(it, fmtLabel(it, opts.Detailed))
		fmt.Fprintf(&buf, "  %q [%s];\n", it.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, it := range shown {
		parent := it.ContainerID
		if parent == "" || !known[parent] {
			parent = RootID
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", parent, it.ID)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(it *layout.Item, detailed bool) string {
	name := it.Label
	if name == "" {
		name = it.ID
	}
	if !detailed {
		return name
	}

	parts := []string{"type: " + string(it.Type)}
	if it.Code != "" {
		parts = append(parts, "code: "+it.Code)
	}
	if n := len(it.Identifiers()); n > 0 {
		parts = append(parts, fmt.Sprintf("locations: %d", n))
	}
	if it.Type.Compartmentalized() {
		parts = append(parts, fmt.Sprintf("grid: %dx%d", it.Rows(), it.Columns()))
	}
	return name + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(it *layout.Item, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case it.Type == layout.TypeBoundary:
		attrs = append(attrs, "penwidth=2")
	case it.ContainerLevel == layout.LevelZone:
		attrs = append(attrs, "fillcolor=\"#ebf8ff\"")
	case it.Type.Structural():
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	if it.IsPositionLocked || it.IsSizeLocked {
		attrs = append(attrs, "peripheries=2")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz svg header (pt units, translated
// origin) with a plain viewBox so the diagram scales like the floor plan.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(header))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
