package layout

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/google/uuid"
)

// Item is a component placed in a layout. Containment is expressed by
// reference through ContainerID; items are never nested.
type Item struct {
	ID   string   `json:"id"`
	Type ItemType `json:"type"`

	X           int   `json:"x"`
	Y           int   `json:"y"`
	Width       int   `json:"width"`
	Height      int   `json:"height"`
	GridStep    int   `json:"gridStep,omitempty"`
	GridAligned bool  `json:"gridAligned,omitempty"`
	MinSize     *Size `json:"minSize,omitempty"`
	MaxSize     *Size `json:"maxSize,omitempty"`

	ContainerLevel   int    `json:"containerLevel"`
	IsContainer      bool   `json:"isContainer"`
	ContainerID      string `json:"containerId,omitempty"`
	ContainerPadding int    `json:"containerPadding,omitempty"`

	CompartmentRows     int          `json:"compartmentRows,omitempty"`
	CompartmentColumns  int          `json:"compartmentColumns,omitempty"`
	CompartmentContents Compartments `json:"compartmentContents,omitempty"`

	LocationID string `json:"locationId,omitempty"`

	// Legacy vertical-rack encodings, kept for level inference.
	LevelLocationMappings []LevelLocation `json:"levelLocationMappings,omitempty"`
	LevelIDs              []string        `json:"levelIds,omitempty"`
	LocationIDs           []string        `json:"locationIds,omitempty"`

	Code     string `json:"code,omitempty"`
	Label    string `json:"label,omitempty"`
	Color    string `json:"color,omitempty"`
	Category string `json:"category,omitempty"`

	IsPositionLocked bool `json:"isPositionLocked,omitempty"`
	IsSizeLocked     bool `json:"isSizeLocked,omitempty"`

	// Extra holds JSON fields this package does not know about. They are
	// written back unchanged.
	Extra map[string]json.RawMessage `json:"-"`
}

// NewID returns a fresh opaque item identifier.
func NewID() string { return uuid.NewString() }

// Rect returns the item's bounding rectangle.
func (it *Item) Rect() Rect {
	return Rect{X: it.X, Y: it.Y, Width: it.Width, Height: it.Height}
}

// Position returns the item's top-left corner.
func (it *Item) Position() Point { return Point{X: it.X, Y: it.Y} }

// InnerBounds returns the item's rectangle shrunk by its container padding.
// It returns false when the padding leaves no usable area.
func (it *Item) InnerBounds() (Rect, bool) {
	return it.Rect().Inset(it.ContainerPadding)
}

// Rows returns the number of compartment rows (at least 1).
func (it *Item) Rows() int { return max(it.CompartmentRows, 1) }

// Columns returns the number of compartment columns (at least 1).
func (it *Item) Columns() int { return max(it.CompartmentColumns, 1) }

// Identifiers returns every location identifier bound to the item, in a
// deterministic order: the single slot first, then compartments by key.
func (it *Item) Identifiers() []string {
	var ids []string
	if it.LocationID != "" {
		ids = append(ids, it.LocationID)
	}
	for _, key := range it.CompartmentContents.Keys() {
		ids = append(ids, it.CompartmentContents[key].Locations()...)
	}
	return ids
}

// Clone returns a deep copy of the item.
func (it *Item) Clone() *Item {
	if it == nil {
		return nil
	}
	c := *it
	if it.MinSize != nil {
		s := *it.MinSize
		c.MinSize = &s
	}
	if it.MaxSize != nil {
		s := *it.MaxSize
		c.MaxSize = &s
	}
	c.CompartmentContents = it.CompartmentContents.Clone()
	c.LevelLocationMappings = slices.Clone(it.LevelLocationMappings)
	c.LevelIDs = slices.Clone(it.LevelIDs)
	c.LocationIDs = slices.Clone(it.LocationIDs)
	if it.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(it.Extra))
		for k, v := range it.Extra {
			c.Extra[k] = slices.Clone(v)
		}
	}
	return &c
}

// itemFields lists the JSON names of every declared Item field.
var itemFields = map[string]bool{
	"id": true, "type": true,
	"x": true, "y": true, "width": true, "height": true,
	"gridStep": true, "gridAligned": true, "minSize": true, "maxSize": true,
	"containerLevel": true, "isContainer": true, "containerId": true, "containerPadding": true,
	"compartmentRows": true, "compartmentColumns": true, "compartmentContents": true,
	"locationId": true, "levelLocationMappings": true, "levelIds": true, "locationIds": true,
	"code": true, "label": true, "color": true, "category": true,
	"isPositionLocked": true, "isSizeLocked": true,
}

// MarshalJSON encodes the item together with any preserved unknown fields.
func (it Item) MarshalJSON() ([]byte, error) {
	type plain Item
	data, err := json.Marshal(plain(it))
	if err != nil || len(it.Extra) == 0 {
		return data, err
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	for k, v := range it.Extra {
		if _, known := fields[k]; !known && !itemFields[k] {
			fields[k] = v
		}
	}
	return json.Marshal(fields)
}

// UnmarshalJSON decodes an item and keeps unknown fields in Extra.
func (it *Item) UnmarshalJSON(data []byte) error {
	type plain Item
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	maps.DeleteFunc(fields, func(k string, _ json.RawMessage) bool { return itemFields[k] })
	*it = Item(p)
	it.Extra = nil
	if len(fields) > 0 {
		it.Extra = fields
	}
	return nil
}
