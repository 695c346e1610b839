package layout

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Compartment statuses.
const (
	StatusOccupied = "occupied"
	StatusReserved = "reserved"
)

// Assignment is the value bound to one compartment. It is either a
// *SingleLocation or, for vertical racks, a *MultiLocation.
type Assignment interface {
	// Locations returns every location identifier held by the assignment.
	Locations() []string

	cloneAssignment() Assignment
}

// CompartmentPosition is the grid cell of a compartment.
type CompartmentPosition struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// SingleLocation binds one location identifier to a compartment.
type SingleLocation struct {
	LocationID   string              `json:"locationId"`
	SKU          string              `json:"sku,omitempty"`
	Status       string              `json:"status"`
	Category     string              `json:"category,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
	LastModified time.Time           `json:"lastModified"`
	Position     CompartmentPosition `json:"position"`
}

// Locations implements Assignment.
func (s *SingleLocation) Locations() []string {
	if s.LocationID == "" {
		return nil
	}
	return []string{s.LocationID}
}

func (s *SingleLocation) cloneAssignment() Assignment {
	c := *s
	return &c
}

// LevelLocation binds a vertical rack level (L1..L999) to a location.
type LevelLocation struct {
	LevelID    string `json:"levelId"`
	LocationID string `json:"locationId"`
}

// MultiLocation binds one location per level of a vertical rack compartment.
// LevelIDs and LocationIDs mirror LevelLocationMappings.
type MultiLocation struct {
	LevelLocationMappings []LevelLocation `json:"levelLocationMappings"`
	LevelIDs              []string        `json:"levelIds"`
	LocationIDs           []string        `json:"locationIds"`
	PrimaryLocationID     string          `json:"primaryLocationId"`
	Tags                  []string        `json:"tags,omitempty"`
}

// NewMultiLocation builds a multi-location assignment from mappings, filling
// the parallel arrays and the primary location.
func NewMultiLocation(mappings []LevelLocation, tags []string) *MultiLocation {
	m := &MultiLocation{
		LevelLocationMappings: slices.Clone(mappings),
		LevelIDs:              make([]string, len(mappings)),
		LocationIDs:           make([]string, len(mappings)),
		Tags:                  slices.Clone(tags),
	}
	for i, mp := range mappings {
		m.LevelIDs[i] = mp.LevelID
		m.LocationIDs[i] = mp.LocationID
	}
	if len(mappings) > 0 {
		m.PrimaryLocationID = mappings[0].LocationID
	}
	return m
}

// Locations implements Assignment. Mappings take precedence over the
// parallel array.
func (m *MultiLocation) Locations() []string {
	var out []string
	if len(m.LevelLocationMappings) > 0 {
		for _, mp := range m.LevelLocationMappings {
			if mp.LocationID != "" {
				out = append(out, mp.LocationID)
			}
		}
		return out
	}
	for _, id := range m.LocationIDs {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}

func (m *MultiLocation) cloneAssignment() Assignment {
	return &MultiLocation{
		LevelLocationMappings: slices.Clone(m.LevelLocationMappings),
		LevelIDs:              slices.Clone(m.LevelIDs),
		LocationIDs:           slices.Clone(m.LocationIDs),
		PrimaryLocationID:     m.PrimaryLocationID,
		Tags:                  slices.Clone(m.Tags),
	}
}

// MarshalJSON writes the isMultiLocation discriminator alongside the fields.
func (m MultiLocation) MarshalJSON() ([]byte, error) {
	type plain MultiLocation
	return json.Marshal(struct {
		IsMultiLocation bool `json:"isMultiLocation"`
		plain
	}{true, plain(m)})
}

// Compartments maps compartment keys ("<row>-<col>") to assignments.
type Compartments map[string]Assignment

// Key formats the compartment key for row and col.
func Key(row, col int) string { return fmt.Sprintf("%d-%d", row, col) }

// ParseKey splits a compartment key into row and column.
func ParseKey(key string) (row, col int, ok bool) {
	r, c, found := strings.Cut(key, "-")
	if !found {
		return 0, 0, false
	}
	row, err1 := strconv.Atoi(r)
	col, err2 := strconv.Atoi(c)
	if err1 != nil || err2 != nil || row < 0 || col < 0 {
		return 0, 0, false
	}
	return row, col, true
}

// Keys returns the compartment keys in row-major order.
func (c Compartments) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeys)
	return keys
}

func compareKeys(a, b string) int {
	ar, ac, aok := ParseKey(a)
	br, bc, bok := ParseKey(b)
	switch {
	case aok && bok && ar != br:
		return ar - br
	case aok && bok && ac != bc:
		return ac - bc
	case aok != bok:
		if aok {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

// Clone returns a deep copy of the compartments.
func (c Compartments) Clone() Compartments {
	if c == nil {
		return nil
	}
	out := make(Compartments, len(c))
	for k, v := range c {
		if v != nil {
			out[k] = v.cloneAssignment()
		}
	}
	return out
}

// UnmarshalJSON decodes each compartment into the case selected by its
// isMultiLocation flag.
func (c *Compartments) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*c = nil
		return nil
	}
	out := make(Compartments, len(raw))
	for key, msg := range raw {
		if string(msg) == "null" {
			continue
		}
		var head struct {
			IsMultiLocation bool `json:"isMultiLocation"`
		}
		if err := json.Unmarshal(msg, &head); err != nil {
			return fmt.Errorf("compartment %s: %w", key, err)
		}
		if head.IsMultiLocation {
			var m MultiLocation
			if err := json.Unmarshal(msg, &m); err != nil {
				return fmt.Errorf("compartment %s: %w", key, err)
			}
			out[key] = &m
			continue
		}
		var s SingleLocation
		if err := json.Unmarshal(msg, &s); err != nil {
			return fmt.Errorf("compartment %s: %w", key, err)
		}
		out[key] = &s
	}
	*c = out
	return nil
}
