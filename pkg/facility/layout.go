package facility

import (
	"context"
	"strconv"
	"strings"

	"github.com/matzehuels/floorplan/pkg/layout"
)

// FromLayout builds the hierarchy of a single layout: one warehouse named
// name and one zone node per zone item, in item order. Each zone item id is
// bound to its node, so it can be passed as a facility zone id when
// dropping units. Unit codes already present under a zone are counted and
// new codes continue after the highest one.
func FromLayout(ctx context.Context, name string, items []*layout.Item) (*Memory, error) {
	m := NewMemory()
	wh, err := m.CreateFacility(ctx, CreateRequest{Name: name, Type: "warehouse", Level: LevelWarehouse})
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if it.Type.Level() != layout.LevelZone {
			continue
		}
		zone, err := m.CreateFacility(ctx, CreateRequest{
			Name:        it.Label,
			Type:        string(it.Type),
			Level:       LevelZone,
			ParentID:    wh.ID,
			Coordinates: it.Position(),
			Dimensions:  layout.Size{Width: it.Width, Height: it.Height},
		})
		if err != nil {
			return nil, err
		}
		if err := m.Bind(it.ID, zone.ID); err != nil {
			return nil, err
		}
		m.advance(zone.ID, highestUnit(zone.LocationCode, items))
	}
	return m, nil
}

// advance raises the child counter of parentID to at least n.
func (m *Memory) advance(parentID string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.children[parentID] = max(m.children[parentID], n)
}

func highestUnit(zoneCode string, items []*layout.Item) int {
	prefix := zoneCode + "-U"
	best := 0
	for _, it := range items {
		rest, ok := strings.CutPrefix(it.Code, prefix)
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(rest); err == nil {
			best = max(best, n)
		}
	}
	return best
}
