package layout

// Template describes a component that can be dropped onto a layout or
// stamped out by the batch generator.
type Template struct {
	Type             ItemType `json:"type" toml:"type"`
	Width            int      `json:"width" toml:"width"`
	Height           int      `json:"height" toml:"height"`
	GridStep         int      `json:"gridStep,omitempty" toml:"grid_step"`
	GridAligned      bool     `json:"gridAligned,omitempty" toml:"grid_aligned"`
	MinSize          *Size    `json:"minSize,omitempty" toml:"min_size"`
	MaxSize          *Size    `json:"maxSize,omitempty" toml:"max_size"`
	ContainerPadding int      `json:"containerPadding,omitempty" toml:"container_padding"`
	Rows             int      `json:"compartmentRows,omitempty" toml:"rows"`
	Columns          int      `json:"compartmentColumns,omitempty" toml:"columns"`
	Color            string   `json:"color,omitempty" toml:"color"`
	Category         string   `json:"category,omitempty" toml:"category"`
}

// NewItem creates an item from the template at (x, y) with the given id.
// Hierarchy fields are derived from the template type; ContainerID is left
// empty for the caller to bind.
func (t Template) NewItem(id string, x, y int) *Item {
	it := &Item{
		ID:                 id,
		Type:               t.Type,
		X:                  x,
		Y:                  y,
		Width:              t.Width,
		Height:             t.Height,
		GridStep:           t.GridStep,
		GridAligned:        t.GridAligned,
		ContainerLevel:     t.Type.Level(),
		IsContainer:        t.Type.IsContainerType(),
		ContainerPadding:   t.ContainerPadding,
		CompartmentRows:    t.Rows,
		CompartmentColumns: t.Columns,
		Color:              t.Color,
		Category:           t.Category,
	}
	if t.MinSize != nil {
		s := *t.MinSize
		it.MinSize = &s
	}
	if t.MaxSize != nil {
		s := *t.MaxSize
		it.MaxSize = &s
	}
	if t.Type.Compartmentalized() {
		it.CompartmentRows = max(t.Rows, 1)
		it.CompartmentColumns = max(t.Columns, 1)
	}
	return it
}
