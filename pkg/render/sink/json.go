package sink

import (
	"encoding/json"

	"github.com/matzehuels/floorplan/pkg/crop"
	"github.com/matzehuels/floorplan/pkg/layout"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	name   string
	indent bool
}

// WithJSONName records the layout name in the output.
func WithJSONName(name string) JSONOption { return func(r *jsonRenderer) { r.name = name } }

// WithJSONIndent pretty-prints the output.
func WithJSONIndent() JSONOption { return func(r *jsonRenderer) { r.indent = true } }

type jsonOutput struct {
	Name         string         `json:"name,omitempty"`
	CanvasWidth  int            `json:"canvasWidth"`
	CanvasHeight int            `json:"canvasHeight"`
	Offset       layout.Point   `json:"offset"`
	Bounds       crop.Bounds    `json:"bounds"`
	Items        []*layout.Item `json:"items"`
}

// RenderJSON exports the cropped items with their bounds and canvas size.
func RenderJSON(res crop.Result, opts ...JSONOption) ([]byte, error) {
	var r jsonRenderer
	for _, opt := range opts {
		opt(&r)
	}
	out := jsonOutput{
		Name:         r.name,
		CanvasWidth:  res.CanvasWidth,
		CanvasHeight: res.CanvasHeight,
		Offset:       res.Offset,
		Bounds:       res.Bounds,
		Items:        res.Items,
	}
	if out.Items == nil {
		out.Items = []*layout.Item{}
	}
	if r.indent {
		return json.MarshalIndent(out, "", "  ")
	}
	return json.Marshal(out)
}
