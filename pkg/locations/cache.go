package locations

import (
	"slices"
	"strings"

	"github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/layout"
)

// Normalize returns the canonical form of a location identifier used for
// uniqueness checks: trimmed and upper-cased.
func Normalize(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// Owner names the slot holding an identifier. Slot is the compartment key,
// or empty for an item's single location slot.
type Owner struct {
	ItemID string `json:"itemId"`
	Slot   string `json:"slot,omitempty"`
}

// Cache is the set of location identifiers in use across one open layout,
// keyed by normalized identifier. It also remembers identifiers reserved
// outside the layout, which the Generator never hands out.
//
// Cache implements layout.IdentifierIndex and is normally owned by a
// layout.Store. It is not safe for concurrent use.
type Cache struct {
	owners   map[string]Owner
	reserved map[string]bool
}

var _ layout.IdentifierIndex = (*Cache)(nil)

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{
		owners:   make(map[string]Owner),
		reserved: make(map[string]bool),
	}
}

// Has reports whether id is bound anywhere in the layout.
func (c *Cache) Has(id string) bool {
	_, ok := c.owners[Normalize(id)]
	return ok
}

// Owner returns the slot holding id.
func (c *Cache) Owner(id string) (Owner, bool) {
	o, ok := c.owners[Normalize(id)]
	return o, ok
}

// Len returns the number of bound identifiers.
func (c *Cache) Len() int { return len(c.owners) }

// IDs returns the bound identifiers in sorted order.
func (c *Cache) IDs() []string {
	ids := make([]string, 0, len(c.owners))
	for id := range c.owners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Reserve marks ids as taken outside the layout.
func (c *Cache) Reserve(ids ...string) {
	for _, id := range ids {
		if n := Normalize(id); n != "" {
			c.reserved[n] = true
		}
	}
}

// Reserved reports whether id was reserved with Reserve.
func (c *Cache) Reserved(id string) bool { return c.reserved[Normalize(id)] }

// Rebuild replaces the cache contents with the identifiers bound by items.
// A layout that binds one identifier twice is rejected with
// DUPLICATE_IDENTIFIER and the cache is left unchanged. Reservations are
// kept.
func (c *Cache) Rebuild(items []*layout.Item) error {
	next := make(map[string]Owner)
	for _, it := range items {
		for _, b := range bindings(it) {
			if prev, dup := next[b.id]; dup {
				return duplicateError(b.id, prev)
			}
			next[b.id] = b.owner
		}
	}
	c.owners = next
	return nil
}

// Register adds the identifiers bound by item. Nothing is added if any of
// them is already bound.
func (c *Cache) Register(item *layout.Item) error {
	bs := bindings(item)
	seen := make(map[string]Owner, len(bs))
	for _, b := range bs {
		if prev, dup := seen[b.id]; dup {
			return duplicateError(b.id, prev)
		}
		if prev, dup := c.owners[b.id]; dup {
			return duplicateError(b.id, prev)
		}
		seen[b.id] = b.owner
	}
	for id, o := range seen {
		c.owners[id] = o
	}
	return nil
}

// Release removes every identifier owned by itemID.
func (c *Cache) Release(itemID string) {
	for id, o := range c.owners {
		if o.ItemID == itemID {
			delete(c.owners, id)
		}
	}
}

// Clear forgets every bound identifier. Reservations are kept.
func (c *Cache) Clear() {
	c.owners = make(map[string]Owner)
}

// binding is one normalized identifier and the slot holding it.
type binding struct {
	id    string
	owner Owner
}

// bindings lists the identifiers held by it, normalized: the single slot,
// then the compartments in key order, then any rack-level legacy encoding.
func bindings(it *layout.Item) []binding {
	var out []binding
	own := make(map[string]bool)
	if !it.Type.MultiLevel() {
		if n := Normalize(it.LocationID); n != "" {
			out = append(out, binding{id: n, owner: Owner{ItemID: it.ID}})
		}
	}
	for _, key := range it.CompartmentContents.Keys() {
		for _, id := range it.CompartmentContents[key].Locations() {
			if n := Normalize(id); n != "" {
				out = append(out, binding{id: n, owner: Owner{ItemID: it.ID, Slot: key}})
				own[n] = true
			}
		}
	}
	// A rack migrated to compartments may still carry its old encoding with
	// the same identifiers.
	for _, n := range legacyIDs(it) {
		if !own[n] {
			out = append(out, binding{id: n, owner: Owner{ItemID: it.ID}})
			own[n] = true
		}
	}
	return out
}

// legacyIDs returns the normalized identifiers a vertical rack holds
// outside its compartments: item-level mappings, the parallel locationIds
// array and a plain or compact locationId. Every encoding present counts,
// regardless of which one InferLevelCount would pick.
func legacyIDs(it *layout.Item) []string {
	if !it.Type.MultiLevel() {
		return nil
	}
	var raw []string
	for _, m := range it.LevelLocationMappings {
		raw = append(raw, m.LocationID)
	}
	raw = append(raw, it.LocationIDs...)
	if ids, ok := ExpandCompact(it.LocationID); ok {
		raw = append(raw, ids...)
	} else {
		raw = append(raw, it.LocationID)
	}
	return distinct(normalizedAll(raw...))
}

// heldIDs returns every normalized identifier it holds.
func heldIDs(it *layout.Item) []string {
	bs := bindings(it)
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = b.id
	}
	return out
}

// swap releases the identifiers in drop and binds those in add as one step.
// The caller has already validated add against the cache.
func (c *Cache) swap(drop []string, add []binding) {
	for _, id := range drop {
		delete(c.owners, id)
	}
	for _, b := range add {
		c.owners[b.id] = b.owner
	}
}

func duplicateError(id string, prev Owner) error {
	if prev.Slot == "" {
		return errors.New(errors.ErrCodeDuplicateIdentifier,
			"location %s is already assigned to item %s", id, prev.ItemID)
	}
	return errors.New(errors.ErrCodeDuplicateIdentifier,
		"location %s is already assigned to item %s compartment %s", id, prev.ItemID, prev.Slot)
}
