package layout

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/matzehuels/floorplan/pkg/errors"
)

// IdentifierIndex tracks the location identifiers bound anywhere in the open
// layout. The Store keeps it in step with the items it owns.
type IdentifierIndex interface {
	// Rebuild replaces the index with the identifiers of items. It fails,
	// leaving the index unchanged, if two slots share an identifier.
	Rebuild(items []*Item) error

	// Register adds the identifiers of a newly added item. It fails, leaving
	// the index unchanged, if any of them is already bound.
	Register(item *Item) error

	// Release removes every identifier owned by the item with the given id.
	Release(itemID string)

	// Clear empties the index.
	Clear()
}

// Store is the ordered arena of items for one open layout. Items are
// addressed by id; parent/child relations are derived from ContainerID on
// demand.
//
// A Store is not safe for concurrent use. The layout engine runs one
// mutation at a time.
type Store struct {
	items []*Item
	index map[string]int
	ids   IdentifierIndex
	zones ZoneCounters
}

// NewStore creates an empty store that keeps ids in sync with its items.
// A nil ids disables identifier tracking.
func NewStore(ids IdentifierIndex) *Store {
	if ids == nil {
		ids = nopIndex{}
	}
	return &Store{index: make(map[string]int), ids: ids}
}

// Identifiers returns the identifier index owned by the store.
func (s *Store) Identifiers() IdentifierIndex { return s.ids }

// Load replaces the store's contents with deep copies of items and rebuilds
// the identifier index. On error the store is left unchanged.
func (s *Store) Load(items []*Item) error {
	next := make([]*Item, 0, len(items))
	index := make(map[string]int, len(items))
	for i, it := range items {
		if it == nil {
			return errors.New(errors.ErrCodeInvalidLayout, "item %d is null", i)
		}
		if it.ID == "" {
			return errors.New(errors.ErrCodeInvalidLayout, "item %d has no id", i)
		}
		if _, dup := index[it.ID]; dup {
			return errors.New(errors.ErrCodeInvalidLayout, "duplicate item id %s", it.ID)
		}
		index[it.ID] = len(next)
		next = append(next, it.Clone())
	}
	if err := s.ids.Rebuild(next); err != nil {
		return err
	}
	s.items = next
	s.index = index
	s.zones.Reset()
	s.zones.Seed(next)
	return nil
}

// Clear removes every item, empties the identifier index and resets the
// zone label counters.
func (s *Store) Clear() {
	s.items = nil
	s.index = make(map[string]int)
	s.ids.Clear()
	s.zones.Reset()
}

// Len returns the number of items.
func (s *Store) Len() int { return len(s.items) }

// Get returns the item with the given id. The returned item is owned by the
// store and must not be modified; use Replace to commit changes.
func (s *Store) Get(id string) (*Item, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.items[i], true
}

// MustGet is like Get but returns an ITEM_NOT_FOUND error.
func (s *Store) MustGet(id string) (*Item, error) {
	it, ok := s.Get(id)
	if !ok {
		return nil, errors.New(errors.ErrCodeItemNotFound, "item %s not found", id)
	}
	return it, nil
}

// Items returns the items in store order. The slice is a copy; the items
// are not and must be treated as read-only.
func (s *Store) Items() []*Item {
	out := make([]*Item, len(s.items))
	copy(out, s.items)
	return out
}

// Snapshot returns deep copies of all items in store order.
func (s *Store) Snapshot() []*Item {
	out := make([]*Item, len(s.items))
	for i, it := range s.items {
		out[i] = it.Clone()
	}
	return out
}

// Add appends a copy of item and registers its identifiers.
func (s *Store) Add(item *Item) error {
	if item == nil || item.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "item must have an id")
	}
	if _, dup := s.index[item.ID]; dup {
		return errors.New(errors.ErrCodeInvalidInput, "item %s already exists", item.ID)
	}
	c := item.Clone()
	if err := s.ids.Register(c); err != nil {
		return err
	}
	s.index[c.ID] = len(s.items)
	s.items = append(s.items, c)
	return nil
}

// Replace swaps the stored item with a copy of item, keeping its position in
// store order. Identifier bookkeeping for the change is the caller's
// responsibility (see package locations).
func (s *Store) Replace(item *Item) error {
	i, ok := s.index[item.ID]
	if !ok {
		return errors.New(errors.ErrCodeItemNotFound, "item %s not found", item.ID)
	}
	s.items[i] = item.Clone()
	return nil
}

// Remove deletes the item with the given id and releases its identifiers.
// Children are not removed.
func (s *Store) Remove(id string) (*Item, error) {
	i, ok := s.index[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeItemNotFound, "item %s not found", id)
	}
	removed := s.items[i]
	s.ids.Release(id)
	s.items = append(s.items[:i], s.items[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.items); j++ {
		s.index[s.items[j].ID] = j
	}
	return removed, nil
}

// Children returns the items whose ContainerID is containerID, in store order.
func (s *Store) Children(containerID string) []*Item {
	var out []*Item
	for _, it := range s.items {
		if it.ContainerID == containerID {
			out = append(out, it)
		}
	}
	return out
}

// Descendants returns every item transitively contained by containerID.
func (s *Store) Descendants(containerID string) []*Item {
	var out []*Item
	queue := []string{containerID}
	seen := map[string]bool{containerID: true}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, child := range s.Children(id) {
			if seen[child.ID] {
				continue
			}
			seen[child.ID] = true
			out = append(out, child)
			queue = append(queue, child.ID)
		}
	}
	return out
}

// ByLevel returns the items at the given container level, in store order.
func (s *Store) ByLevel(level int) []*Item {
	var out []*Item
	for _, it := range s.items {
		if it.ContainerLevel == level {
			out = append(out, it)
		}
	}
	return out
}

// Containers returns the items that can hold other items.
func (s *Store) Containers() []*Item {
	var out []*Item
	for _, it := range s.items {
		if it.IsContainer {
			out = append(out, it)
		}
	}
	return out
}

// NextZoneLabel returns the next auto-generated label for a zone type, or
// an empty string for types without an archetype.
func (s *Store) NextZoneLabel(t ItemType) string {
	return s.zones.Next(t.ZoneArchetype())
}

// ZoneCounters hold one monotonically increasing counter per zone archetype.
type ZoneCounters [archetypeCount]int

// Next increments and formats the counter for a, e.g. "Storage Zone 3".
func (z *ZoneCounters) Next(a Archetype) string {
	if a < 0 || a >= archetypeCount {
		return ""
	}
	z[a]++
	return fmt.Sprintf("%s Zone %d", a, z[a])
}

// Reset zeroes every counter.
func (z *ZoneCounters) Reset() { *z = ZoneCounters{} }

var zoneLabelRe = regexp.MustCompile(`^(Storage|Receiving|Dispatch|Transit|Office) Zone (\d+)$`)

// Seed raises the counters past any auto-generated labels already present in
// items so reopened layouts keep numbering where they left off.
func (z *ZoneCounters) Seed(items []*Item) {
	for _, it := range items {
		a := it.Type.ZoneArchetype()
		if a == ArchetypeNone {
			continue
		}
		m := zoneLabelRe.FindStringSubmatch(it.Label)
		if m == nil || m[1] != a.String() {
			continue
		}
		if n, err := strconv.Atoi(m[2]); err == nil && n > z[a] {
			z[a] = n
		}
	}
}

type nopIndex struct{}

func (nopIndex) Rebuild([]*Item) error { return nil }
func (nopIndex) Register(*Item) error  { return nil }
func (nopIndex) Release(string)        {}
func (nopIndex) Clear()                {}
