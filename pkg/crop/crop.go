// Package crop translates a layout so that its tight bounding box starts at
// the origin, ready for compact persistence and export.
package crop

import "github.com/matzehuels/floorplan/pkg/layout"

// Bounds is the bounding box of a set of items. MaxX and MaxY are the
// exclusive right and bottom edges.
type Bounds struct {
	MinX   int `json:"minX"`
	MinY   int `json:"minY"`
	MaxX   int `json:"maxX"`
	MaxY   int `json:"maxY"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect returns the bounds as a rectangle.
func (b Bounds) Rect() layout.Rect {
	return layout.Rect{X: b.MinX, Y: b.MinY, Width: b.Width, Height: b.Height}
}

// ComputeBounds returns the bounding box of all items. An empty input yields
// zero bounds.
func ComputeBounds(items []*layout.Item) Bounds {
	if len(items) == 0 {
		return Bounds{}
	}
	first := items[0]
	b := Bounds{MinX: first.X, MinY: first.Y, MaxX: first.X + first.Width, MaxY: first.Y + first.Height}
	for _, it := range items[1:] {
		b.MinX = min(b.MinX, it.X)
		b.MinY = min(b.MinY, it.Y)
		b.MaxX = max(b.MaxX, it.X+it.Width)
		b.MaxY = max(b.MaxY, it.Y+it.Height)
	}
	b.Width = b.MaxX - b.MinX
	b.Height = b.MaxY - b.MinY
	return b
}

// Result is the outcome of a crop.
type Result struct {
	// Items are translated copies of the input, in input order.
	Items []*layout.Item `json:"items"`

	// Bounds is the bounding box of Items in output coordinates. It starts
	// at (padding, padding), so only an unpadded crop puts it at the origin.
	// Canvas gives the padded box at the origin.
	Bounds Bounds `json:"bounds"`

	// Offset was subtracted from every position.
	Offset layout.Point `json:"offset"`

	// CanvasWidth and CanvasHeight include the padding on both sides.
	CanvasWidth  int `json:"canvasWidth"`
	CanvasHeight int `json:"canvasHeight"`
}

// Canvas returns the output area: the bounding box grown by the padding on
// every side, with its origin at (0,0).
func (r Result) Canvas() layout.Rect {
	return layout.Rect{Width: r.CanvasWidth, Height: r.CanvasHeight}
}

// Crop moves items so the bounding box begins at (padding, padding). Only
// x and y change; the input items are not modified. Cropping a cropped
// result with the same padding yields a zero offset.
func Crop(items []*layout.Item, padding int) Result {
	padding = max(padding, 0)
	b := ComputeBounds(items)
	res := Result{Items: make([]*layout.Item, len(items))}
	if len(items) > 0 {
		res.Offset = layout.Point{X: b.MinX - padding, Y: b.MinY - padding}
	}
	for i, it := range items {
		c := it.Clone()
		c.X -= res.Offset.X
		c.Y -= res.Offset.Y
		res.Items[i] = c
	}
	res.Bounds = Bounds{
		MinX:   b.MinX - res.Offset.X,
		MinY:   b.MinY - res.Offset.Y,
		MaxX:   b.MaxX - res.Offset.X,
		MaxY:   b.MaxY - res.Offset.Y,
		Width:  b.Width,
		Height: b.Height,
	}
	if len(items) > 0 {
		res.CanvasWidth = b.Width + 2*padding
		res.CanvasHeight = b.Height + 2*padding
	}
	return res
}

// UltraTight crops with no padding.
func UltraTight(items []*layout.Item) Result { return Crop(items, 0) }
