package sink

import (
	"github.com/matzehuels/floorplan/pkg/crop"
	"github.com/matzehuels/floorplan/pkg/errors"
)

// Options select what Render draws.
type Options struct {
	Name   string
	Labels bool
	Codes  bool
	Scale  float64
}

// Render produces the cropped layout in format.
func Render(res crop.Result, format string, opts Options) ([]byte, error) {
	var svgOpts []SVGOption
	if !opts.Labels {
		svgOpts = append(svgOpts, WithoutLabels())
	}
	if opts.Codes {
		svgOpts = append(svgOpts, WithCodes())
	}
	switch format {
	case FormatSVG:
		return RenderSVG(res, svgOpts...), nil
	case FormatJSON:
		return RenderJSON(res, WithJSONName(opts.Name), WithJSONIndent())
	case FormatCSV:
		return RenderCSV(res.Items)
	case FormatPNG:
		pngOpts := []PNGOption{WithPNGSVGOptions(svgOpts...)}
		if opts.Scale > 0 {
			pngOpts = append(pngOpts, WithScale(opts.Scale))
		}
		return RenderPNG(res, pngOpts...)
	case FormatPDF:
		return RenderPDF(res, WithPDFSVGOptions(svgOpts...))
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported export format %q", format)
	}
}

// ContentType returns the MIME type of format.
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
