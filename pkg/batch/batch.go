// Package batch arranges units inside zones.
//
// [FillGrid] stamps a unit template across a zone's inner bounds in
// row-major order, skipping any cell that would overflow; [Capacity] answers
// how many cells the grid has without creating items. [AutoFillFacility]
// fills every zone of a facility with the template its archetype maps to in
// a [Catalog].
package batch

import (
	"github.com/matzehuels/floorplan/pkg/containment"
	"github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/layout"
)

// DefaultSpacing is the gap between generated units.
const DefaultSpacing = 2

// Option configures a fill.
type Option func(*options)

type options struct {
	rows, columns int
	spacing       int
	newID         func() string
}

// WithRows fixes the number of rows; zero derives it from the zone height.
func WithRows(n int) Option {
	return func(o *options) { o.rows = n }
}

// WithColumns fixes the number of columns; zero derives it from the zone width.
func WithColumns(n int) Option {
	return func(o *options) { o.columns = n }
}

// WithSpacing sets the gap between units.
func WithSpacing(n int) Option {
	return func(o *options) { o.spacing = n }
}

// WithIDFunc sets the id generator for new items.
func WithIDFunc(f func() string) Option {
	return func(o *options) { o.newID = f }
}

func buildOptions(opts []Option) options {
	o := options{spacing: DefaultSpacing, newID: layout.NewID}
	for _, opt := range opts {
		opt(&o)
	}
	if o.spacing < 0 {
		o.spacing = 0
	}
	return o
}

// Grid is the resolved fill geometry for one zone.
type Grid struct {
	Inner   layout.Rect
	Rows    int
	Columns int
	Spacing int
}

// Plan resolves the grid for filling zone with tmpl.
func Plan(zone *layout.Item, tmpl layout.Template, opts ...Option) (Grid, error) {
	return plan(zone, tmpl, buildOptions(opts))
}

func plan(zone *layout.Item, tmpl layout.Template, o options) (Grid, error) {
	if !zone.IsContainer || !containment.CanContain(tmpl.Type.Level(), zone.ContainerLevel) {
		return Grid{}, errors.New(errors.ErrCodeInvalidContainer,
			"%s cannot be placed in %s %s", tmpl.Type, zone.Type, zone.ID)
	}
	if tmpl.Width <= 0 || tmpl.Height <= 0 {
		return Grid{}, errors.New(errors.ErrCodeInvalidInput,
			"template %s has no size", tmpl.Type)
	}
	inner, ok := containment.InnerBounds(zone)
	if !ok {
		return Grid{}, errors.New(errors.ErrCodeBoundsOverflow,
			"zone %s has no usable area inside its padding", zone.ID)
	}
	g := Grid{Inner: inner, Rows: o.rows, Columns: o.columns, Spacing: o.spacing}
	if g.Columns <= 0 {
		g.Columns = inner.Width / (tmpl.Width + o.spacing)
	}
	if g.Rows <= 0 {
		g.Rows = inner.Height / (tmpl.Height + o.spacing)
	}
	return g, nil
}

// Capacity returns columns × rows for filling zone with tmpl, or zero if
// the zone cannot hold the template.
func Capacity(zone *layout.Item, tmpl layout.Template, opts ...Option) int {
	g, err := Plan(zone, tmpl, opts...)
	if err != nil {
		return 0
	}
	return g.Rows * g.Columns
}

// FillGrid creates one unit per grid cell that fits inside the zone's inner
// bounds, in row-major order. Cells that would overflow are skipped. New
// items belong to zone.
func FillGrid(zone *layout.Item, tmpl layout.Template, opts ...Option) ([]*layout.Item, error) {
	o := buildOptions(opts)
	g, err := plan(zone, tmpl, o)
	if err != nil {
		return nil, err
	}

	var out []*layout.Item
	for r := range g.Rows {
		for c := range g.Columns {
			cell := layout.Rect{
				X:      g.Inner.X + c*(tmpl.Width+g.Spacing),
				Y:      g.Inner.Y + r*(tmpl.Height+g.Spacing),
				Width:  tmpl.Width,
				Height: tmpl.Height,
			}
			if !g.Inner.ContainsRect(cell) {
				continue
			}
			it := tmpl.NewItem(o.newID(), cell.X, cell.Y)
			it.ContainerID = zone.ID
			it.ContainerLevel = layout.LevelUnit
			out = append(out, it)
		}
	}
	return out, nil
}
