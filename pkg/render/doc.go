// Package render provides output rendering for warehouse layouts.
//
// # Overview
//
// This package contains the rendering that turns a cropped layout into
// files for people and tools outside the designer:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Floor plan, JSON and CSV sinks (in [sink] subpackage)
//   - Containment hierarchy diagrams (in [hierarchy] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). Both the floor plan and the
// hierarchy diagram use them.
//
//	svg := sink.RenderSVG(res)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [sink]: github.com/matzehuels/floorplan/pkg/render/sink
// [hierarchy]: github.com/matzehuels/floorplan/pkg/render/hierarchy
package render
