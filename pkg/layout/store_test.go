package layout

import (
	"testing"

	"github.com/matzehuels/floorplan/pkg/errors"
)

// recordingIndex is a minimal IdentifierIndex that tracks which items were
// registered and can be told to reject the next call.
type recordingIndex struct {
	items  map[string]bool
	reject bool
}

func newRecordingIndex() *recordingIndex {
	return &recordingIndex{items: make(map[string]bool)}
}

func (r *recordingIndex) Rebuild(items []*Item) error {
	if r.reject {
		return errors.New(errors.ErrCodeDuplicateIdentifier, "rejected")
	}
	r.items = make(map[string]bool)
	for _, it := range items {
		r.items[it.ID] = true
	}
	return nil
}

func (r *recordingIndex) Register(item *Item) error {
	if r.reject {
		return errors.New(errors.ErrCodeDuplicateIdentifier, "rejected")
	}
	r.items[item.ID] = true
	return nil
}

func (r *recordingIndex) Release(id string) { delete(r.items, id) }
func (r *recordingIndex) Clear()            { r.items = make(map[string]bool) }

func sampleItems() []*Item {
	return []*Item{
		{ID: "b", Type: TypeBoundary, Width: 600, Height: 600, ContainerLevel: 1, IsContainer: true},
		{ID: "z", Type: TypeStorageZone, X: 30, Y: 30, Width: 300, Height: 300, ContainerLevel: 2, IsContainer: true, ContainerID: "b", Label: "Storage Zone 4"},
		{ID: "u1", Type: TypeStorageUnit, X: 60, Y: 60, Width: 60, Height: 60, ContainerLevel: 3, ContainerID: "z"},
		{ID: "u2", Type: TypeStorageUnit, X: 150, Y: 60, Width: 60, Height: 60, ContainerLevel: 3, ContainerID: "z"},
	}
}

func TestStoreLoad(t *testing.T) {
	idx := newRecordingIndex()
	s := NewStore(idx)
	items := sampleItems()
	if err := s.Load(items); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Len() != 4 {
		t.Fatalf("Len = %d, want 4", s.Len())
	}
	if len(idx.items) != 4 {
		t.Errorf("index saw %d items, want 4", len(idx.items))
	}

	// Load copies its input.
	items[2].X = 999
	if it, _ := s.Get("u1"); it.X != 60 {
		t.Errorf("store shares items with caller")
	}
}

func TestStoreLoadRejectsDuplicates(t *testing.T) {
	s := NewStore(nil)
	if err := s.Load(sampleItems()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	dup := append(sampleItems(), &Item{ID: "u1"})
	err := s.Load(dup)
	if !errors.Is(err, errors.ErrCodeInvalidLayout) {
		t.Fatalf("Load duplicate ids = %v, want INVALID_LAYOUT", err)
	}
	if s.Len() != 4 {
		t.Errorf("failed Load changed the store: Len = %d", s.Len())
	}
}

func TestStoreLoadIndexFailure(t *testing.T) {
	idx := newRecordingIndex()
	s := NewStore(idx)
	if err := s.Load(sampleItems()[:2]); err != nil {
		t.Fatalf("Load: %v", err)
	}
	idx.reject = true
	if err := s.Load(sampleItems()); !errors.Is(err, errors.ErrCodeDuplicateIdentifier) {
		t.Fatalf("Load = %v, want DUPLICATE_IDENTIFIER", err)
	}
	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2 after rejected Load", s.Len())
	}
}

func TestStoreAddRemove(t *testing.T) {
	idx := newRecordingIndex()
	s := NewStore(idx)
	if err := s.Load(sampleItems()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := s.Add(&Item{ID: "u3", ContainerID: "z", ContainerLevel: 3}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Add(&Item{ID: "u3"}); err == nil {
		t.Error("Add should reject an existing id")
	}
	if !idx.items["u3"] {
		t.Error("Add did not register identifiers")
	}

	if _, err := s.Remove("u1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if idx.items["u1"] {
		t.Error("Remove did not release identifiers")
	}
	if _, ok := s.Get("u1"); ok {
		t.Error("removed item still present")
	}

	// Indices after the removed item must still resolve.
	for _, id := range []string{"b", "z", "u2", "u3"} {
		it, ok := s.Get(id)
		if !ok || it.ID != id {
			t.Errorf("Get(%s) after Remove = %v, %v", id, it, ok)
		}
	}
	if _, err := s.Remove("nope"); !errors.Is(err, errors.ErrCodeItemNotFound) {
		t.Errorf("Remove(nope) = %v, want ITEM_NOT_FOUND", err)
	}
}

func TestStoreQueries(t *testing.T) {
	s := NewStore(nil)
	if err := s.Load(sampleItems()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	children := s.Children("z")
	if len(children) != 2 || children[0].ID != "u1" || children[1].ID != "u2" {
		t.Errorf("Children(z) = %v", children)
	}
	if got := len(s.Descendants("b")); got != 3 {
		t.Errorf("Descendants(b) = %d items, want 3", got)
	}
	if got := len(s.ByLevel(LevelUnit)); got != 2 {
		t.Errorf("ByLevel(3) = %d items, want 2", got)
	}
	if got := len(s.Containers()); got != 2 {
		t.Errorf("Containers = %d items, want 2", got)
	}
}

func TestStoreReplace(t *testing.T) {
	s := NewStore(nil)
	if err := s.Load(sampleItems()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	it, _ := s.Get("u2")
	next := it.Clone()
	next.X = 210
	if err := s.Replace(next); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	items := s.Items()
	if items[3].ID != "u2" || items[3].X != 210 {
		t.Errorf("Replace did not keep order or value: %+v", items[3])
	}
	if err := s.Replace(&Item{ID: "ghost"}); !errors.Is(err, errors.ErrCodeItemNotFound) {
		t.Errorf("Replace(ghost) = %v", err)
	}
}

func TestZoneLabels(t *testing.T) {
	s := NewStore(nil)
	if err := s.Load(sampleItems()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Seeded from "Storage Zone 4".
	if got := s.NextZoneLabel(TypeStorageZone); got != "Storage Zone 5" {
		t.Errorf("NextZoneLabel(storage) = %q, want Storage Zone 5", got)
	}
	if got := s.NextZoneLabel(TypeReceivingZone); got != "Receiving Zone 1" {
		t.Errorf("NextZoneLabel(receiving) = %q", got)
	}
	if got := s.NextZoneLabel(TypeStorageUnit); got != "" {
		t.Errorf("NextZoneLabel(unit) = %q, want empty", got)
	}

	s.Clear()
	if got := s.NextZoneLabel(TypeStorageZone); got != "Storage Zone 1" {
		t.Errorf("after Clear NextZoneLabel = %q, want Storage Zone 1", got)
	}
}
