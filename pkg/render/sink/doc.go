// Package sink provides output format renderers for cropped layouts.
//
// # Overview
//
// A "sink" transforms a [crop.Result] into a final output format:
//
//   - SVG: the floor plan, items drawn by level with labels and compartments
//   - JSON: items, bounds and canvas size for external tools
//   - CSV: one row per bound location identifier
//   - PDF: Print-ready output (requires rsvg-convert)
//   - PNG: Raster image output (requires rsvg-convert)
//
// Sinks never change the items they are given; crop first so coordinates
// start at the padding.
//
//	res := crop.Crop(items, 20)
//	svg := sink.RenderSVG(res, sink.WithCodes())
//	csv, err := sink.RenderCSV(res.Items)
//
// [crop.Result]: github.com/matzehuels/floorplan/pkg/crop.Result
package sink

// Format names accepted by Render.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// Formats lists every supported output format.
var Formats = []string{FormatSVG, FormatJSON, FormatCSV, FormatPNG, FormatPDF}
