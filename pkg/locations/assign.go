package locations

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/layout"
)

// MaxLevels is the highest vertical rack level (L999).
const MaxLevels = 999

var levelIDRe = regexp.MustCompile(`^L[1-9]\d{0,2}$`)

// ValidLevelID reports whether id names a rack level in L1..L999.
func ValidLevelID(id string) bool { return levelIDRe.MatchString(id) }

// LevelID formats the id of level n (1-based).
func LevelID(n int) string { return "L" + strconv.Itoa(n) }

// Assigner binds location identifiers to item slots while keeping the cache
// consistent. Every method validates fully before touching anything: on
// error neither the item nor the cache has changed. On success the cache is
// updated and the modified copy of the item is returned for the caller to
// commit to its store.
type Assigner struct {
	cache *Cache
	now   func() time.Time
}

// AssignerOption configures an Assigner.
type AssignerOption func(*Assigner)

// WithClock sets the time source used for createdAt/lastModified stamps.
func WithClock(now func() time.Time) AssignerOption {
	return func(a *Assigner) { a.now = now }
}

// NewAssigner creates an assigner over cache.
func NewAssigner(cache *Cache, opts ...AssignerOption) *Assigner {
	a := &Assigner{cache: cache, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Cache returns the identifier cache the assigner maintains.
func (a *Assigner) Cache() *Cache { return a.cache }

// check fails if id is bound to anything other than one of the slots in own.
func (a *Assigner) check(id string, own ...Owner) error {
	prev, ok := a.cache.owners[id]
	if !ok {
		return nil
	}
	for _, o := range own {
		if prev == o {
			return nil
		}
	}
	return duplicateError(id, prev)
}

// AssignSingle binds locationID to the single slot of a spare unit,
// warehouse block or container, replacing any previous binding.
func (a *Assigner) AssignSingle(it *layout.Item, locationID, category string) (*layout.Item, error) {
	if !it.Type.SingleSlot() {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"%s %s has no single location slot", it.Type, it.ID)
	}
	id := strings.TrimSpace(locationID)
	n := Normalize(id)
	if n == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "location id cannot be empty")
	}
	slot := Owner{ItemID: it.ID}
	if err := a.check(n, slot); err != nil {
		return nil, err
	}

	next := it.Clone()
	next.LocationID = id
	if category != "" {
		next.Category = category
	}
	a.cache.swap(normalizedAll(it.LocationID), []binding{{id: n, owner: slot}})
	return next, nil
}

// AssignCompartment binds locationID to compartment key of a storage unit or
// horizontal rack. An empty key is derived from row and col.
func (a *Assigner) AssignCompartment(it *layout.Item, key, locationID string, row, col int) (*layout.Item, error) {
	if !it.Type.Compartmentalized() || it.Type.MultiLevel() {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"%s %s does not take single compartment assignments", it.Type, it.ID)
	}
	key, err := compartmentKey(it, key, row, col)
	if err != nil {
		return nil, err
	}
	id := strings.TrimSpace(locationID)
	n := Normalize(id)
	if n == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "location id cannot be empty")
	}
	slot := Owner{ItemID: it.ID, Slot: key}
	if err := a.check(n, slot); err != nil {
		return nil, err
	}

	now := a.now().UTC()
	assignment := &layout.SingleLocation{
		LocationID:   id,
		Status:       layout.StatusOccupied,
		CreatedAt:    now,
		LastModified: now,
		Position:     layout.CompartmentPosition{Row: row, Col: col},
	}
	var drop []string
	if prev, ok := it.CompartmentContents[key]; ok {
		drop = normalizedAll(prev.Locations()...)
		if s, ok := prev.(*layout.SingleLocation); ok {
			assignment.SKU = s.SKU
			assignment.Category = s.Category
			if s.Status != "" {
				assignment.Status = s.Status
			}
			if !s.CreatedAt.IsZero() {
				assignment.CreatedAt = s.CreatedAt
			}
		}
	}

	next := it.Clone()
	if next.CompartmentContents == nil {
		next.CompartmentContents = make(layout.Compartments)
	}
	next.CompartmentContents[key] = assignment
	a.cache.swap(drop, []binding{{id: n, owner: slot}})
	return next, nil
}

// AssignMultiLevel replaces the level mappings of a vertical rack's first
// compartment ("0-0").
func (a *Assigner) AssignMultiLevel(it *layout.Item, mappings []layout.LevelLocation) (*layout.Item, error) {
	return a.AssignMultiLevelAt(it, layout.Key(0, 0), mappings)
}

// AssignMultiLevelAt replaces the level mappings of compartment key of a
// vertical rack. The batch is validated as a whole:
//
//   - every location id is non-empty (INCOMPLETE_MAPPING);
//   - level ids are well formed and not repeated (INVALID_INPUT);
//   - no two mappings share a location id, and none is bound elsewhere in
//     the layout (DUPLICATE_IDENTIFIER).
//
// Identifiers previously held by the compartment, and any legacy rack-level
// encoding on the item itself, are released in the same step.
func (a *Assigner) AssignMultiLevelAt(it *layout.Item, key string, mappings []layout.LevelLocation) (*layout.Item, error) {
	if !it.Type.MultiLevel() {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"%s %s has no vertical levels", it.Type, it.ID)
	}
	row, col, ok := layout.ParseKey(key)
	if !ok || row >= it.Rows() || col >= it.Columns() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid compartment %q for %s", key, it.ID)
	}
	if len(mappings) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no levels given for %s", it.ID)
	}
	if len(mappings) > MaxLevels {
		return nil, errors.New(errors.ErrCodeInvalidInput, "too many levels (max %d)", MaxLevels)
	}

	clean := make([]layout.LevelLocation, len(mappings))
	for i, m := range mappings {
		clean[i] = layout.LevelLocation{
			LevelID:    strings.TrimSpace(m.LevelID),
			LocationID: strings.TrimSpace(m.LocationID),
		}
		if clean[i].LocationID == "" {
			return nil, errors.New(errors.ErrCodeIncompleteMapping,
				"level %s of %s has no location id", clean[i].LevelID, it.ID)
		}
	}

	levels := make(map[string]bool, len(clean))
	batch := make(map[string]string, len(clean))
	for _, m := range clean {
		if !ValidLevelID(m.LevelID) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid level id %q", m.LevelID)
		}
		if levels[m.LevelID] {
			return nil, errors.New(errors.ErrCodeInvalidInput, "level %s appears twice", m.LevelID)
		}
		levels[m.LevelID] = true

		n := Normalize(m.LocationID)
		if other, dup := batch[n]; dup {
			return nil, errors.New(errors.ErrCodeDuplicateIdentifier,
				"location %s is given for both %s and %s", n, other, m.LevelID)
		}
		batch[n] = m.LevelID
	}

	slot := Owner{ItemID: it.ID, Slot: key}
	legacy := Owner{ItemID: it.ID}
	add := make([]binding, 0, len(clean))
	for _, m := range clean {
		n := Normalize(m.LocationID)
		if err := a.check(n, slot, legacy); err != nil {
			return nil, err
		}
		add = append(add, binding{id: n, owner: slot})
	}

	var tags []string
	var drop []string
	if prev, ok := it.CompartmentContents[key]; ok {
		drop = normalizedAll(prev.Locations()...)
		if m, ok := prev.(*layout.MultiLocation); ok {
			tags = m.Tags
		}
	}
	drop = append(drop, legacyIDs(it)...)

	next := it.Clone()
	if next.CompartmentContents == nil {
		next.CompartmentContents = make(layout.Compartments)
	}
	next.CompartmentContents[key] = layout.NewMultiLocation(clean, tags)
	next.LocationID = ""
	next.LevelLocationMappings = nil
	next.LevelIDs = nil
	next.LocationIDs = nil
	a.cache.swap(drop, add)
	return next, nil
}

// Remove releases and deletes the binding of compartment key, or, for an
// empty key, every binding the item holds. Removing an empty slot is a
// no-op.
func (a *Assigner) Remove(it *layout.Item, key string) (*layout.Item, error) {
	next := it.Clone()
	var drop []string
	if key == "" {
		drop = heldIDs(it)
		next.LocationID = ""
		next.CompartmentContents = nil
		next.LevelLocationMappings = nil
		next.LevelIDs = nil
		next.LocationIDs = nil
	} else {
		prev, ok := it.CompartmentContents[key]
		if !ok {
			return next, nil
		}
		drop = normalizedAll(prev.Locations()...)
		delete(next.CompartmentContents, key)
		if len(next.CompartmentContents) == 0 {
			next.CompartmentContents = nil
		}
	}
	// Identifiers the rack still lists in its old encoding stay bound to
	// the item itself.
	kept := make(map[string]bool)
	for _, id := range legacyIDs(next) {
		kept[id] = true
	}
	var owned []string
	var rebind []binding
	for _, id := range drop {
		o, ok := a.cache.owners[id]
		if !ok || o.ItemID != it.ID {
			continue
		}
		owned = append(owned, id)
		if kept[id] {
			rebind = append(rebind, binding{id: id, owner: Owner{ItemID: it.ID}})
		}
	}
	a.cache.swap(owned, rebind)
	return next, nil
}

func compartmentKey(it *layout.Item, key string, row, col int) (string, error) {
	if key == "" {
		key = layout.Key(row, col)
	}
	r, c, ok := layout.ParseKey(key)
	if !ok || r != row || c != col {
		return "", errors.New(errors.ErrCodeInvalidInput,
			"compartment key %q does not match position %d-%d", key, row, col)
	}
	if row >= it.Rows() || col >= it.Columns() {
		return "", errors.New(errors.ErrCodeInvalidInput,
			"compartment %s is outside the %dx%d grid of %s", key, it.Rows(), it.Columns(), it.ID)
	}
	return key, nil
}

func normalizedAll(ids ...string) []string {
	var out []string
	for _, id := range ids {
		if n := Normalize(id); n != "" {
			out = append(out, n)
		}
	}
	return out
}
