package sink

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"slices"

	"github.com/matzehuels/floorplan/pkg/crop"
	"github.com/matzehuels/floorplan/pkg/layout"
)

// SVGOption configures floor plan rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	labels       bool
	codes        bool
	compartments bool
	background   string
}

// WithoutLabels hides item labels.
func WithoutLabels() SVGOption { return func(r *svgRenderer) { r.labels = false } }

// WithCodes prints location codes under labels.
func WithCodes() SVGOption { return func(r *svgRenderer) { r.codes = true } }

// WithoutCompartments hides the compartment grid of storage units and racks.
func WithoutCompartments() SVGOption { return func(r *svgRenderer) { r.compartments = false } }

// WithBackground fills the canvas with a colour.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{labels: true, compartments: true}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG draws the cropped layout. Items are painted lowest level first
// so boundaries sit under zones and zones under units; structural items are
// drawn last.
func RenderSVG(res crop.Result, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	w, h := max(res.CanvasWidth, 1), max(res.CanvasHeight, 1)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n", w, h, w, h)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="%d" height="%d" fill="%s"/>`+"\n", w, h, escapeXML(r.background))
	}

	for _, it := range paintOrder(res.Items) {
		renderItem(&buf, r, it)
	}
	if r.labels {
		for _, it := range res.Items {
			renderLabel(&buf, r, it)
		}
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// paintOrder sorts by level with structural items on top, keeping store
// order within a level.
func paintOrder(items []*layout.Item) []*layout.Item {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b *layout.Item) int {
		return cmp.Compare(paintRank(a), paintRank(b))
	})
	return out
}

func paintRank(it *layout.Item) int {
	if it.Type.Structural() {
		return layout.LevelUnit + 1
	}
	return it.ContainerLevel
}

func renderItem(buf *bytes.Buffer, r svgRenderer, it *layout.Item) {
	s := styleFor(it)
	fill := s.fill
	if it.Color != "" {
		fill = it.Color
	}
	fmt.Fprintf(buf, `  <rect id="item-%s" class="item %s" x="%d" y="%d" width="%d" height="%d" fill="%s" stroke="%s" stroke-width="%.1f"`,
		escapeXML(it.ID), it.Type, it.X, it.Y, it.Width, it.Height, escapeXML(fill), s.stroke, s.strokeWidth)
	if s.dash != "" {
		fmt.Fprintf(buf, ` stroke-dasharray="%s"`, s.dash)
	}
	buf.WriteString("/>\n")

	if r.compartments && it.Type.Compartmentalized() {
		renderCompartments(buf, it)
	}
}

// renderCompartments draws the cell grid and shades bound cells.
func renderCompartments(buf *bytes.Buffer, it *layout.Item) {
	rows, cols := it.Rows(), it.Columns()
	cw, ch := float64(it.Width)/float64(cols), float64(it.Height)/float64(rows)
	for row := range rows {
		for col := range cols {
			if _, ok := it.CompartmentContents[layout.Key(row, col)]; !ok {
				continue
			}
			fmt.Fprintf(buf, `    <rect class="compartment assigned" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#2f855a" fill-opacity="0.35"/>`+"\n",
				float64(it.X)+float64(col)*cw, float64(it.Y)+float64(row)*ch, cw, ch)
		}
	}
	for col := 1; col < cols; col++ {
		x := float64(it.X) + float64(col)*cw
		fmt.Fprintf(buf, `    <line x1="%.1f" y1="%d" x2="%.1f" y2="%d" stroke="#4a5568" stroke-width="0.5"/>`+"\n",
			x, it.Y, x, it.Y+it.Height)
	}
	for row := 1; row < rows; row++ {
		y := float64(it.Y) + float64(row)*ch
		fmt.Fprintf(buf, `    <line x1="%d" y1="%.1f" x2="%d" y2="%.1f" stroke="#4a5568" stroke-width="0.5"/>`+"\n",
			it.X, y, it.X+it.Width, y)
	}
}

func renderLabel(buf *bytes.Buffer, r svgRenderer, it *layout.Item) {
	text := it.Label
	if text == "" && it.Type == layout.TypeLabel {
		text = it.Code
	}
	lines := []string{}
	if text != "" {
		lines = append(lines, text)
	}
	if r.codes && it.Code != "" && it.Code != text {
		lines = append(lines, it.Code)
	}
	if len(lines) == 0 {
		return
	}
	size := fontSize(it, lines)
	cx := float64(it.X) + float64(it.Width)/2
	y := float64(it.Y) + size + 2
	if it.ContainerLevel == layout.LevelUnit || it.Type.Structural() {
		y = float64(it.Y) + float64(it.Height)/2 - size*float64(len(lines)-1)/2 + size/3
	}
	for i, line := range lines {
		fmt.Fprintf(buf, `  <text class="item-label" data-item="%s" x="%.1f" y="%.1f" font-size="%.1f" text-anchor="middle" font-family="sans-serif" fill="#1a202c">%s</text>`+"\n",
			escapeXML(it.ID), cx, y+float64(i)*size, size, escapeXML(line))
	}
}

const (
	fontSizeMin   = 6.0
	fontSizeMax   = 18.0
	fontCharWidth = 0.6
)

func fontSize(it *layout.Item, lines []string) float64 {
	longest := 1
	for _, l := range lines {
		longest = max(longest, len(l))
	}
	byWidth := float64(it.Width) * 0.9 / (float64(longest) * fontCharWidth)
	byHeight := float64(it.Height) * 0.8 / float64(len(lines))
	return max(fontSizeMin, min(fontSizeMax, byWidth, byHeight))
}

type itemStyle struct {
	fill        string
	stroke      string
	strokeWidth float64
	dash        string
}

func styleFor(it *layout.Item) itemStyle {
	switch {
	case it.Type == layout.TypeBoundary:
		return itemStyle{fill: "#f7fafc", stroke: "#1a202c", strokeWidth: 3}
	case it.Type == layout.TypeWall:
		return itemStyle{fill: "#4a5568", stroke: "#2d3748", strokeWidth: 1}
	case it.Type == layout.TypeLine:
		return itemStyle{fill: "none", stroke: "#718096", strokeWidth: 1, dash: "6 4"}
	case it.Type == layout.TypeLabel:
		return itemStyle{fill: "none", stroke: "none", strokeWidth: 0}
	case it.ContainerLevel == layout.LevelZone:
		return itemStyle{fill: zoneFill(it.Type), stroke: "#4a5568", strokeWidth: 1.5, dash: "8 4"}
	default:
		return itemStyle{fill: "#ffffff", stroke: "#2d3748", strokeWidth: 1}
	}
}

func zoneFill(t layout.ItemType) string {
	switch t {
	case layout.TypeStorageZone:
		return "#ebf8ff"
	case layout.TypeReceivingZone:
		return "#f0fff4"
	case layout.TypeDispatchZone:
		return "#fffaf0"
	case layout.TypeTransitZone:
		return "#faf5ff"
	case layout.TypeOfficeZone:
		return "#fff5f7"
	default:
		return "#edf2f7"
	}
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
