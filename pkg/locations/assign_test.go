package locations

import (
	"fmt"
	"maps"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/layout"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestAssigner() *Assigner {
	return NewAssigner(NewCache(), WithClock(func() time.Time { return fixedNow }))
}

func unit(id string, rows, cols int) *layout.Item {
	return &layout.Item{ID: id, Type: layout.TypeStorageUnit, Width: 60, Height: 60,
		ContainerLevel: 3, CompartmentRows: rows, CompartmentColumns: cols}
}

func rack(id string) *layout.Item {
	return &layout.Item{ID: id, Type: layout.TypeVerticalRack, Width: 60, Height: 60,
		ContainerLevel: 3, CompartmentRows: 1, CompartmentColumns: 1}
}

// Assigning an identifier held by another item's compartment fails and
// leaves the holder in place.
func TestAssignCompartmentDuplicate(t *testing.T) {
	a := newTestAssigner()
	x, y := unit("X", 1, 1), unit("Y", 2, 3)

	x2, err := a.AssignCompartment(x, "0-0", "LOC-003", 0, 0)
	if err != nil {
		t.Fatalf("assign X: %v", err)
	}
	got := x2.CompartmentContents["0-0"].(*layout.SingleLocation)
	if got.LocationID != "LOC-003" || got.Status != layout.StatusOccupied || !got.CreatedAt.Equal(fixedNow) {
		t.Errorf("assignment = %+v", got)
	}

	_, err = a.AssignCompartment(y, "1-2", "LOC-003", 1, 2)
	if !errors.Is(err, errors.ErrCodeDuplicateIdentifier) {
		t.Fatalf("assign Y = %v, want DUPLICATE_IDENTIFIER", err)
	}
	if o, _ := a.Cache().Owner("LOC-003"); o != (Owner{ItemID: "X", Slot: "0-0"}) {
		t.Errorf("LOC-003 owner = %+v, want X/0-0", o)
	}
	if y.CompartmentContents != nil {
		t.Error("rejected assign modified Y")
	}

	// Case and whitespace do not make a new identifier.
	if _, err := a.AssignCompartment(y, "", " loc-003", 0, 0); !errors.Is(err, errors.ErrCodeDuplicateIdentifier) {
		t.Errorf("normalized duplicate = %v", err)
	}
}

func TestAssignCompartmentEdit(t *testing.T) {
	a := newTestAssigner()
	u := unit("U", 1, 2)

	u, err := a.AssignCompartment(u, "0-0", "LOC-001", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	u.CompartmentContents["0-0"].(*layout.SingleLocation).SKU = "SKU-9"

	// Re-assigning the same id to the same slot is allowed.
	if _, err := a.AssignCompartment(u, "0-0", "LOC-001", 0, 0); err != nil {
		t.Errorf("same id same slot: %v", err)
	}
	// The same id in a different compartment of the same item is not.
	if _, err := a.AssignCompartment(u, "0-1", "LOC-001", 0, 1); !errors.Is(err, errors.ErrCodeDuplicateIdentifier) {
		t.Errorf("same id other slot = %v", err)
	}

	later := fixedNow.Add(time.Hour)
	a.now = func() time.Time { return later }
	u2, err := a.AssignCompartment(u, "0-0", "LOC-002", 0, 0)
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	s := u2.CompartmentContents["0-0"].(*layout.SingleLocation)
	if s.SKU != "SKU-9" || !s.CreatedAt.Equal(fixedNow) || !s.LastModified.Equal(later) {
		t.Errorf("edit lost metadata: %+v", s)
	}
	if a.Cache().Has("LOC-001") || !a.Cache().Has("LOC-002") {
		t.Errorf("cache after edit = %v", a.Cache().IDs())
	}
}

func TestAssignCompartmentValidation(t *testing.T) {
	a := newTestAssigner()
	tests := []struct {
		name string
		item *layout.Item
		key  string
		id   string
		row  int
		col  int
	}{
		{"empty id", unit("U", 1, 1), "0-0", "  ", 0, 0},
		{"key mismatch", unit("U", 2, 2), "1-0", "LOC-1", 0, 1},
		{"outside grid", unit("U", 1, 1), "", "LOC-1", 1, 0},
		{"vertical rack", rack("V"), "0-0", "LOC-1", 0, 0},
		{"spare unit", &layout.Item{ID: "S", Type: layout.TypeSpareUnit}, "0-0", "LOC-1", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := a.AssignCompartment(tt.item, tt.key, tt.id, tt.row, tt.col); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("err = %v, want INVALID_INPUT", err)
			}
			if a.Cache().Len() != 0 {
				t.Errorf("cache changed: %v", a.Cache().IDs())
			}
		})
	}
}

func TestAssignSingle(t *testing.T) {
	a := newTestAssigner()
	s := &layout.Item{ID: "S", Type: layout.TypeSpareUnit}

	s1, err := a.AssignSingle(s, "LOC-100", "cold")
	if err != nil {
		t.Fatalf("AssignSingle: %v", err)
	}
	if s1.LocationID != "LOC-100" || s1.Category != "cold" {
		t.Errorf("item = %+v", s1)
	}
	s2, err := a.AssignSingle(s1, "LOC-101", "")
	if err != nil {
		t.Fatalf("reassign: %v", err)
	}
	if s2.Category != "cold" {
		t.Error("empty category cleared the previous one")
	}
	if a.Cache().Has("LOC-100") {
		t.Error("previous id not released")
	}

	other := &layout.Item{ID: "C", Type: layout.TypeContainer}
	if _, err := a.AssignSingle(other, "loc-101", ""); !errors.Is(err, errors.ErrCodeDuplicateIdentifier) {
		t.Errorf("duplicate = %v", err)
	}
	if _, err := a.AssignSingle(unit("U", 1, 1), "LOC-200", ""); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("storage unit single slot = %v", err)
	}
}

func TestAssignMultiLevel(t *testing.T) {
	a := newTestAssigner()
	v := rack("V")

	v1, err := a.AssignMultiLevel(v, []layout.LevelLocation{
		{LevelID: "L1", LocationID: "LOC-010"},
		{LevelID: "L2", LocationID: "LOC-011"},
	})
	if err != nil {
		t.Fatalf("AssignMultiLevel: %v", err)
	}
	m := v1.CompartmentContents["0-0"].(*layout.MultiLocation)
	if len(m.LocationIDs) != len(m.LevelLocationMappings) || m.PrimaryLocationID != "LOC-010" {
		t.Errorf("multi location = %+v", m)
	}
	if got := InferLevelCount(v1); got != 2 {
		t.Errorf("InferLevelCount = %d, want 2", got)
	}

	// Replacing the set may reuse the rack's own identifiers.
	v2, err := a.AssignMultiLevel(v1, []layout.LevelLocation{
		{LevelID: "L1", LocationID: "LOC-011"},
		{LevelID: "L2", LocationID: "LOC-012"},
		{LevelID: "L3", LocationID: "LOC-013"},
	})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if diff := cmp.Diff([]string{"LOC-011", "LOC-012", "LOC-013"}, a.Cache().IDs()); diff != "" {
		t.Errorf("cache mismatch (-want +got):\n%s", diff)
	}
	if got := InferLevelCount(v2); got != 3 {
		t.Errorf("InferLevelCount = %d, want 3", got)
	}
}

// A rejected batch leaves item and cache exactly as before.
func TestAssignMultiLevelRejected(t *testing.T) {
	a := newTestAssigner()
	if _, err := a.AssignCompartment(unit("U", 1, 1), "0-0", "LOC-050", 0, 0); err != nil {
		t.Fatal(err)
	}
	v, err := a.AssignMultiLevel(rack("V"), []layout.LevelLocation{{LevelID: "L1", LocationID: "LOC-010"}})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		mappings []layout.LevelLocation
		code     errors.Code
	}{
		{"empty location", []layout.LevelLocation{{LevelID: "L1", LocationID: "LOC-020"}, {LevelID: "L2", LocationID: " "}}, errors.ErrCodeIncompleteMapping},
		{"batch duplicate", []layout.LevelLocation{{LevelID: "L1", LocationID: "LOC-020"}, {LevelID: "L2", LocationID: "loc-020"}}, errors.ErrCodeDuplicateIdentifier},
		{"cache collision", []layout.LevelLocation{{LevelID: "L1", LocationID: "LOC-020"}, {LevelID: "L2", LocationID: "LOC-050"}}, errors.ErrCodeDuplicateIdentifier},
		{"repeated level", []layout.LevelLocation{{LevelID: "L1", LocationID: "LOC-020"}, {LevelID: "L1", LocationID: "LOC-021"}}, errors.ErrCodeInvalidInput},
		{"bad level", []layout.LevelLocation{{LevelID: "L0", LocationID: "LOC-020"}}, errors.ErrCodeInvalidInput},
		{"level out of range", []layout.LevelLocation{{LevelID: "L1000", LocationID: "LOC-020"}}, errors.ErrCodeInvalidInput},
		{"no levels", nil, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := maps.Clone(a.cache.owners)
			snapshot := v.Clone()

			_, err := a.AssignMultiLevel(v, tt.mappings)
			if !errors.Is(err, tt.code) {
				t.Fatalf("err = %v, want %s", err, tt.code)
			}
			if diff := cmp.Diff(before, a.cache.owners); diff != "" {
				t.Errorf("cache changed (-before +after):\n%s", diff)
			}
			if diff := cmp.Diff(snapshot, v); diff != "" {
				t.Errorf("item changed (-before +after):\n%s", diff)
			}
		})
	}
}

// Assigning levels migrates a legacy compact rack to the compartment form
// and releases the compact identifier.
func TestAssignMultiLevelMigratesLegacy(t *testing.T) {
	a := newTestAssigner()
	v := rack("V")
	v.LocationID = "LOC-010+1"
	v.LevelLocationMappings = []layout.LevelLocation{
		{LevelID: "L1", LocationID: "LOC-010"},
		{LevelID: "L2", LocationID: "LOC-011"},
	}
	if err := a.Cache().Register(v); err != nil {
		t.Fatal(err)
	}

	v2, err := a.AssignMultiLevel(v, LevelMappings(v))
	if err != nil {
		t.Fatalf("AssignMultiLevel: %v", err)
	}
	if v2.LocationID != "" || v2.LevelLocationMappings != nil {
		t.Errorf("legacy fields kept: %+v", v2)
	}
	if a.Cache().Has("LOC-010+1") {
		t.Error("compact identifier not released")
	}
	if got := InferLevelCount(v2); got != 2 {
		t.Errorf("InferLevelCount after migration = %d, want 2", got)
	}
}

func TestRemove(t *testing.T) {
	a := newTestAssigner()
	u := unit("U", 1, 2)
	u, _ = a.AssignCompartment(u, "", "LOC-001", 0, 0)
	u, _ = a.AssignCompartment(u, "", "LOC-002", 0, 1)

	u1, err := a.Remove(u, "0-0")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := u1.CompartmentContents["0-0"]; ok || a.Cache().Has("LOC-001") {
		t.Error("Remove(0-0) left the binding")
	}
	if _, err := a.Remove(u1, "0-0"); err != nil {
		t.Errorf("removing an empty slot: %v", err)
	}

	u2, _ := a.Remove(u1, "")
	if u2.CompartmentContents != nil || a.Cache().Len() != 0 {
		t.Errorf("Remove all left %v", a.Cache().IDs())
	}

	// The freed identifier can be bound again.
	if _, err := a.AssignCompartment(u2, "", "LOC-001", 0, 1); err != nil {
		t.Errorf("reassign after remove: %v", err)
	}
}

// No sequence of assigns and removes lets two slots hold one identifier,
// and the cache always equals the identifiers held by the items.
func TestUniquenessProperty(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	a := newTestAssigner()

	items := map[string]*layout.Item{}
	var order []string
	for i := range 4 {
		u := unit(fmt.Sprintf("U%d", i), 2, 2)
		items[u.ID] = u
		order = append(order, u.ID)
	}
	for i := range 2 {
		v := rack(fmt.Sprintf("V%d", i))
		v.CompartmentColumns = 2
		items[v.ID] = v
		order = append(order, v.ID)
	}
	s := &layout.Item{ID: "S", Type: layout.TypeSpareUnit}
	items[s.ID] = s
	order = append(order, s.ID)

	randID := func() string { return Format(rng.IntN(12) + 1) }

	for step := range 2000 {
		id := order[rng.IntN(len(order))]
		it := items[id]
		row, col := rng.IntN(2), rng.IntN(2)

		var next *layout.Item
		var err error
		switch op := rng.IntN(4); {
		case op == 0:
			next, err = a.Remove(it, layout.Key(row, col))
		case it.Type == layout.TypeSpareUnit:
			next, err = a.AssignSingle(it, randID(), "")
		case it.Type.MultiLevel():
			n := rng.IntN(3) + 1
			ms := make([]layout.LevelLocation, n)
			for j := range ms {
				ms[j] = layout.LevelLocation{LevelID: LevelID(j + 1), LocationID: randID()}
			}
			next, err = a.AssignMultiLevelAt(it, layout.Key(0, col), ms)
		default:
			next, err = a.AssignCompartment(it, "", randID(), row, col)
		}
		if err == nil {
			items[id] = next
		} else if !errors.IsRejection(err) {
			t.Fatalf("step %d: unexpected error %v", step, err)
		}

		held := map[string]Owner{}
		for _, oid := range order {
			for _, b := range bindings(items[oid]) {
				if prev, dup := held[b.id]; dup {
					t.Fatalf("step %d: %s held by %+v and %+v", step, b.id, prev, b.owner)
				}
				held[b.id] = b.owner
			}
		}
		if diff := cmp.Diff(held, a.cache.owners); diff != "" {
			t.Fatalf("step %d: cache out of sync (-items +cache):\n%s", step, diff)
		}
	}
}

// Identifiers held through a rack's legacy encoding block other slots, and
// removing the rack's assignments clears the encoding and frees them.
func TestLegacyRackIdentifiersAreBound(t *testing.T) {
	a := newTestAssigner()
	v := rack("V")
	v.LevelLocationMappings = []layout.LevelLocation{
		{LevelID: "L1", LocationID: "LOC-001"},
		{LevelID: "L2", LocationID: "LOC-002"},
	}
	w := rack("W")
	w.LocationID = "LOC-010+1"
	s := &layout.Item{ID: "S", Type: layout.TypeSpareUnit}
	u := unit("U", 1, 1)
	if err := a.Cache().Rebuild([]*layout.Item{v, w, s, u}); err != nil {
		t.Fatal(err)
	}

	if _, err := a.AssignSingle(s, "LOC-001", ""); !errors.Is(err, errors.ErrCodeDuplicateIdentifier) {
		t.Errorf("AssignSingle(LOC-001) = %v, want DUPLICATE_IDENTIFIER", err)
	}
	if _, err := a.AssignCompartment(u, "", "LOC-010", 0, 0); !errors.Is(err, errors.ErrCodeDuplicateIdentifier) {
		t.Errorf("AssignCompartment(LOC-010) = %v, want DUPLICATE_IDENTIFIER", err)
	}
	if _, err := a.AssignCompartment(u, "", "loc-010-2", 0, 0); !errors.Is(err, errors.ErrCodeDuplicateIdentifier) {
		t.Errorf("AssignCompartment(LOC-010-2) = %v, want DUPLICATE_IDENTIFIER", err)
	}

	v2, err := a.Remove(v, "")
	if err != nil {
		t.Fatal(err)
	}
	if v2.LevelLocationMappings != nil || v2.LevelIDs != nil || v2.LocationIDs != nil || v2.LocationID != "" {
		t.Errorf("Remove kept legacy fields: %+v", v2)
	}
	if a.Cache().Has("LOC-001") || a.Cache().Has("LOC-002") {
		t.Errorf("Remove left %v", a.Cache().IDs())
	}
	if _, err := a.AssignSingle(s, "LOC-001", ""); err != nil {
		t.Errorf("AssignSingle after Remove: %v", err)
	}

	// Levels may reuse the rack's own legacy identifiers.
	if _, err := a.AssignMultiLevel(w, LevelMappings(w)); err != nil {
		t.Errorf("AssignMultiLevel over own compact ids: %v", err)
	}
	if a.Cache().Has("LOC-010+1") {
		t.Error("raw compact string bound")
	}
}
