package designer

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/floorplan/pkg/batch"
	"github.com/matzehuels/floorplan/pkg/codegen"
	"github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/facility"
	fpio "github.com/matzehuels/floorplan/pkg/io"
	"github.com/matzehuels/floorplan/pkg/layout"
	"github.com/matzehuels/floorplan/pkg/observability"
)

var (
	unitTmpl = layout.Template{Type: layout.TypeStorageUnit, Width: 60, Height: 60, Rows: 2, Columns: 2}
	zoneTmpl = layout.Template{Type: layout.TypeStorageZone, Width: 120, Height: 120, ContainerPadding: 20}
	fixed    = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
)

// facilityItems returns a 600x600 floor plan holding two storage zones and
// two units in the first zone.
func facilityItems() []*layout.Item {
	return []*layout.Item{
		{ID: "b1", Type: layout.TypeBoundary, Width: 600, Height: 600,
			ContainerLevel: 1, IsContainer: true, ContainerPadding: 20},
		{ID: "z1", Type: layout.TypeStorageZone, X: 60, Y: 60, Width: 240, Height: 240,
			ContainerLevel: 2, IsContainer: true, ContainerID: "b1", ContainerPadding: 20, Label: "Storage Zone 1"},
		{ID: "z2", Type: layout.TypeStorageZone, X: 360, Y: 60, Width: 180, Height: 180,
			ContainerLevel: 2, IsContainer: true, ContainerID: "b1", ContainerPadding: 20},
		{ID: "u1", Type: layout.TypeStorageUnit, X: 100, Y: 100, Width: 60, Height: 60,
			ContainerLevel: 3, ContainerID: "z1", CompartmentRows: 2, CompartmentColumns: 2},
		{ID: "u2", Type: layout.TypeStorageUnit, X: 180, Y: 180, Width: 60, Height: 60,
			ContainerLevel: 3, ContainerID: "z1", CompartmentRows: 2, CompartmentColumns: 2},
	}
}

func newSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	s := New(append([]Option{WithClock(func() time.Time { return fixed })}, opts...)...)
	if err := s.Open(facilityItems()); err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func mustGet(t *testing.T, s *Session, id string) *layout.Item {
	t.Helper()
	it, err := s.Get(id)
	if err != nil {
		t.Fatalf("Get(%s): %v", id, err)
	}
	return it
}

func TestDropBindsContainer(t *testing.T) {
	s := newSession(t)

	it, err := s.Drop(context.Background(), unitTmpl, layout.Point{X: 122, Y: 118}, nil)
	if err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if it.ContainerID != "z1" || it.ContainerLevel != layout.LevelUnit {
		t.Errorf("container = %q level %d, want z1 level 3", it.ContainerID, it.ContainerLevel)
	}
	if it.X != 120 || it.Y != 120 {
		t.Errorf("position = (%d,%d), want snapped (120,120)", it.X, it.Y)
	}
	if it.Code != "A1" {
		t.Errorf("Code = %q, want A1", it.Code)
	}
	if s.Len() != 6 || s.UndoDepth() != 1 {
		t.Errorf("Len = %d, UndoDepth = %d", s.Len(), s.UndoDepth())
	}
}

func TestDropZoneLabel(t *testing.T) {
	s := newSession(t)

	z, err := s.Drop(context.Background(), zoneTmpl, layout.Point{X: 330, Y: 330}, nil)
	if err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if z.ContainerID != "b1" {
		t.Errorf("ContainerID = %q, want b1", z.ContainerID)
	}
	if z.Label != "Storage Zone 2" {
		t.Errorf("Label = %q, want numbering to continue after the loaded zone", z.Label)
	}
	if z.Code != "B1" {
		t.Errorf("Code = %q, want B1", z.Code)
	}
}

func TestDropRejections(t *testing.T) {
	tests := []struct {
		name string
		tmpl layout.Template
		at   layout.Point
		code errors.Code
	}{
		{"unit outside any zone", unitTmpl, layout.Point{X: 30, Y: 400}, errors.ErrCodeInvalidContainer},
		{"zone outside the floor plan", zoneTmpl, layout.Point{X: 700, Y: 700}, errors.ErrCodeInvalidContainer},
		{"zone overhanging the floor plan", zoneTmpl, layout.Point{X: 540, Y: 60}, errors.ErrCodeBoundsOverflow},
		{"unknown type", layout.Template{Type: "crane", Width: 10, Height: 10}, layout.Point{}, errors.ErrCodeInvalidInput},
		{"no size", layout.Template{Type: layout.TypeWall}, layout.Point{}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(t)
			before := s.Items()
			_, err := s.Drop(context.Background(), tt.tmpl, tt.at, nil)
			if !errors.Is(err, tt.code) {
				t.Fatalf("error = %v, want %s", err, tt.code)
			}
			if diff := cmp.Diff(before, s.Items()); diff != "" {
				t.Errorf("rejected drop changed the layout (-want +got):\n%s", diff)
			}
			if s.UndoDepth() != 0 {
				t.Errorf("rejected drop left a snapshot")
			}
		})
	}
}

func TestDropHierarchicalCode(t *testing.T) {
	ctx := context.Background()
	h := facility.NewMemory()
	wh, _ := h.CreateFacility(ctx, facility.CreateRequest{Name: "North", Level: facility.LevelWarehouse})
	zone, _ := h.CreateFacility(ctx, facility.CreateRequest{Name: "Bulk", Level: facility.LevelZone, ParentID: wh.ID})

	s := newSession(t, WithHierarchy(h))
	it, err := s.Drop(ctx, unitTmpl, layout.Point{X: 120, Y: 120}, &codegen.FacilityContext{ZoneID: zone.ID, Name: "Rack 1"})
	if err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if it.Code != "WH-01-Z01-U001" {
		t.Errorf("Code = %q, want WH-01-Z01-U001", it.Code)
	}

	// Unknown zones fall back to legacy codes.
	it, err = s.Drop(ctx, unitTmpl, layout.Point{X: 120, Y: 240}, &codegen.FacilityContext{ZoneID: "missing"})
	if err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if it.Code != "E1" {
		t.Errorf("Code = %q, want legacy E1", it.Code)
	}
}

func TestMoveReparentsAndSnaps(t *testing.T) {
	s := newSession(t)

	it, err := s.Move(context.Background(), "u1", layout.Point{X: 403, Y: 98})
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if it.X != 405 || it.Y != 105 {
		t.Errorf("position = (%d,%d), want (405,105)", it.X, it.Y)
	}
	if it.ContainerID != "z2" {
		t.Errorf("ContainerID = %q, want z2", it.ContainerID)
	}
}

func TestMoveCarriesDescendants(t *testing.T) {
	s := newSession(t)

	if _, err := s.Move(context.Background(), "z1", layout.Point{X: 60, Y: 300}); err != nil {
		t.Fatalf("Move: %v", err)
	}
	u1, u2 := mustGet(t, s, "u1"), mustGet(t, s, "u2")
	if u1.Y != 340 || u2.Y != 420 || u1.X != 100 || u2.X != 180 {
		t.Errorf("children not carried: u1 (%d,%d), u2 (%d,%d)", u1.X, u1.Y, u2.X, u2.Y)
	}
	if u1.ContainerID != "z1" {
		t.Errorf("child re-parented: %q", u1.ContainerID)
	}
}

func TestMoveRejections(t *testing.T) {
	tests := []struct {
		name string
		id   string
		to   layout.Point
		code errors.Code
	}{
		{"unit into empty space", "u1", layout.Point{X: 30, Y: 450}, errors.ErrCodeInvalidContainer},
		{"zone past the floor plan edge", "z1", layout.Point{X: 420, Y: 60}, errors.ErrCodeBoundsOverflow},
		{"unknown item", "nope", layout.Point{}, errors.ErrCodeItemNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(t)
			before := s.Items()
			if _, err := s.Move(context.Background(), tt.id, tt.to); !errors.Is(err, tt.code) {
				t.Fatalf("error = %v, want %s", err, tt.code)
			}
			if diff := cmp.Diff(before, s.Items()); diff != "" {
				t.Errorf("rejected move changed the layout (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLockedAttributesAreNoOps(t *testing.T) {
	items := facilityItems()
	items[3].IsPositionLocked = true
	items[3].IsSizeLocked = true
	s := New()
	if err := s.Open(items); err != nil {
		t.Fatal(err)
	}

	it, err := s.Move(context.Background(), "u1", layout.Point{X: 200, Y: 200})
	if err != nil {
		t.Fatalf("Move of locked item should not fail: %v", err)
	}
	if it.X != 100 || it.Y != 100 {
		t.Errorf("locked item moved to (%d,%d)", it.X, it.Y)
	}
	it, err = s.Resize(context.Background(), "u1", 90, 90)
	if err != nil {
		t.Fatalf("Resize of locked item should not fail: %v", err)
	}
	if it.Width != 60 || it.Height != 60 {
		t.Errorf("locked item resized to %dx%d", it.Width, it.Height)
	}
	if s.UndoDepth() != 0 {
		t.Errorf("no-op left %d snapshots", s.UndoDepth())
	}
}

func TestResize(t *testing.T) {
	s := newSession(t)

	it, err := s.Resize(context.Background(), "u1", 91, 75)
	if err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if it.Width != 91 || it.Height != 75 {
		t.Errorf("size = %dx%d", it.Width, it.Height)
	}
	if _, err := s.Resize(context.Background(), "u1", 600, 60); !errors.Is(err, errors.ErrCodeBoundsOverflow) {
		t.Errorf("oversized resize error = %v", err)
	}
}

func TestDragOnlyCommitMutates(t *testing.T) {
	s := newSession(t)
	before := s.Items()

	d, err := s.BeginDrag("u1")
	if err != nil {
		t.Fatalf("BeginDrag: %v", err)
	}
	p, err := d.Update(layout.Point{X: 400, Y: 100})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if p.ContainerID != "z2" {
		t.Errorf("preview container = %q, want z2", p.ContainerID)
	}
	if _, err := d.Update(layout.Point{X: 30, Y: 450}); !errors.Is(err, errors.ErrCodeInvalidContainer) {
		t.Errorf("invalid update error = %v", err)
	}
	if d.Preview().ContainerID != "z2" {
		t.Error("rejected update replaced the preview")
	}
	d.Cancel()
	if diff := cmp.Diff(before, s.Items()); diff != "" {
		t.Errorf("cancelled drag changed the layout (-want +got):\n%s", diff)
	}
	if _, err := d.Commit(context.Background()); err == nil {
		t.Error("commit after cancel should fail")
	}

	d, _ = s.BeginDrag("u1")
	_, _ = d.Update(layout.Point{X: 400, Y: 100})
	it, err := d.Commit(context.Background())
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if it.ContainerID != "z2" || mustGet(t, s, "u1").ContainerID != "z2" {
		t.Errorf("commit did not apply")
	}
}

func TestAssignUniquenessAndUndo(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)

	if _, err := s.AssignCompartment(ctx, "u1", 0, 0, "LOC-003"); err != nil {
		t.Fatalf("AssignCompartment: %v", err)
	}
	before := s.Items()
	_, err := s.AssignCompartment(ctx, "u2", 1, 1, "loc-003")
	if !errors.Is(err, errors.ErrCodeDuplicateIdentifier) {
		t.Fatalf("error = %v, want DUPLICATE_IDENTIFIER", err)
	}
	if o, _ := s.Identifiers().Owner("LOC-003"); o.ItemID != "u1" {
		t.Errorf("owner = %+v, want u1", o)
	}
	if diff := cmp.Diff(before, s.Items()); diff != "" {
		t.Errorf("rejected assignment changed the layout (-want +got):\n%s", diff)
	}

	ok, err := s.Undo(ctx)
	if err != nil || !ok {
		t.Fatalf("Undo = %v, %v", ok, err)
	}
	if s.Identifiers().Has("LOC-003") {
		t.Error("undo should release the identifier")
	}
	if len(mustGet(t, s, "u1").CompartmentContents) != 0 {
		t.Error("undo should clear the compartment")
	}
	if ok, _ := s.Undo(ctx); ok {
		t.Error("nothing left to undo")
	}
}

func TestSingleSlotAndRemove(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)
	spare, err := s.Drop(ctx, layout.Template{Type: layout.TypeSpareUnit, Width: 60, Height: 60}, layout.Point{X: 400, Y: 100}, nil)
	if err != nil {
		t.Fatalf("Drop: %v", err)
	}

	if _, err := s.AssignSingle(ctx, spare.ID, "SP-1", "spares"); err != nil {
		t.Fatalf("AssignSingle: %v", err)
	}
	if _, err := s.AssignSingle(ctx, "u1", "SP-2", ""); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("single slot on storage unit error = %v", err)
	}
	it, err := s.RemoveAssignment(ctx, spare.ID, "")
	if err != nil {
		t.Fatalf("RemoveAssignment: %v", err)
	}
	if it.LocationID != "" || s.Identifiers().Has("SP-1") {
		t.Errorf("remove did not release SP-1")
	}
}

func TestMultiLevel(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)
	rack, err := s.Drop(ctx, layout.Template{Type: layout.TypeVerticalRack, Width: 60, Height: 30}, layout.Point{X: 400, Y: 160}, nil)
	if err != nil {
		t.Fatalf("Drop: %v", err)
	}

	mappings := []layout.LevelLocation{{LevelID: "L1", LocationID: "LOC-010"}, {LevelID: "L2", LocationID: "LOC-011"}}
	if _, err := s.AssignMultiLevel(ctx, rack.ID, "", mappings); err != nil {
		t.Fatalf("AssignMultiLevel: %v", err)
	}
	if n, _ := s.LevelCount(rack.ID); n != 2 {
		t.Errorf("LevelCount = %d, want 2", n)
	}
	got, _ := s.LevelMappings(rack.ID)
	if diff := cmp.Diff(mappings, got); diff != "" {
		t.Errorf("LevelMappings mismatch (-want +got):\n%s", diff)
	}

	incomplete := []layout.LevelLocation{{LevelID: "L1", LocationID: "LOC-020"}, {LevelID: "L2"}}
	if _, err := s.AssignMultiLevel(ctx, rack.ID, "", incomplete); !errors.Is(err, errors.ErrCodeIncompleteMapping) {
		t.Errorf("incomplete mapping error = %v", err)
	}
	if s.Identifiers().Has("LOC-020") {
		t.Error("rejected batch leaked an identifier")
	}

	ids, err := s.SuggestLocationIDs(3)
	if err != nil {
		t.Fatalf("SuggestLocationIDs: %v", err)
	}
	if diff := cmp.Diff([]string{"LOC-001", "LOC-002", "LOC-003"}, ids); diff != "" {
		t.Errorf("suggestions mismatch (-want +got):\n%s", diff)
	}
	levels, _ := s.SuggestLevels(2)
	if len(levels) != 2 || levels[1].LevelID != "L2" {
		t.Errorf("SuggestLevels = %v", levels)
	}
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)

	tmpl := layout.Template{Type: layout.TypeStorageUnit, Width: 60, Height: 60}
	if n, _ := s.Capacity("z2", tmpl); n != 4 {
		t.Errorf("Capacity = %d, want 4", n)
	}
	units, err := s.Generate(ctx, "z2", tmpl, batch.WithSpacing(2))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(units) != 4 {
		t.Fatalf("generated %d units, want 4", len(units))
	}
	codes := map[string]bool{}
	for _, u := range units {
		if u.ContainerID != "z2" {
			t.Errorf("unit %s container = %q", u.ID, u.ContainerID)
		}
		if codes[u.Code] {
			t.Errorf("code %s generated twice", u.Code)
		}
		codes[u.Code] = true
	}

	if ok, _ := s.Undo(ctx); !ok || s.Len() != 5 {
		t.Errorf("undo should remove the whole batch, Len = %d", s.Len())
	}
	if _, err := s.Generate(ctx, "u1", tmpl); !errors.Is(err, errors.ErrCodeInvalidContainer) {
		t.Errorf("generate into a unit error = %v", err)
	}
}

func TestAutoFill(t *testing.T) {
	items := facilityItems()[:2]
	items = append(items, &layout.Item{ID: "o1", Type: layout.TypeOfficeZone, X: 360, Y: 300, Width: 180, Height: 180,
		ContainerLevel: 2, IsContainer: true, ContainerID: "b1", ContainerPadding: 20})
	s := New()
	if err := s.Open(items); err != nil {
		t.Fatal(err)
	}

	units, err := s.AutoFill(context.Background())
	if err != nil {
		t.Fatalf("AutoFill: %v", err)
	}
	if len(units) != 9 {
		t.Errorf("AutoFill produced %d units, want 9", len(units))
	}
	for _, u := range units {
		if u.ContainerID != "z1" || u.Type != layout.TypeStorageUnit {
			t.Errorf("unexpected unit %s (%s in %s)", u.ID, u.Type, u.ContainerID)
		}
	}
}

func TestDeleteCascades(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)
	if _, err := s.AssignCompartment(ctx, "u2", 0, 1, "LOC-100"); err != nil {
		t.Fatal(err)
	}

	removed, err := s.Delete(ctx, "z1")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	var ids []string
	for _, it := range removed {
		ids = append(ids, it.ID)
	}
	if diff := cmp.Diff([]string{"z1", "u1", "u2"}, ids); diff != "" {
		t.Errorf("removed mismatch (-want +got):\n%s", diff)
	}
	if s.Identifiers().Has("LOC-100") {
		t.Error("delete should release identifiers")
	}
	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}
	if err := s.Validate(); err != nil {
		t.Errorf("layout invalid after cascade: %v", err)
	}
}

func TestUndoDepth(t *testing.T) {
	s := newSession(t, WithUndoDepth(2))
	for i := range 3 {
		if _, err := s.Resize(context.Background(), "u1", 60+i+1, 60); err != nil {
			t.Fatal(err)
		}
	}
	if s.UndoDepth() != 2 {
		t.Errorf("UndoDepth = %d, want 2", s.UndoDepth())
	}
}

func TestOpenRejectsDuplicateIdentifiers(t *testing.T) {
	s := newSession(t)
	items := facilityItems()
	items[3].CompartmentContents = layout.Compartments{"0-0": &layout.SingleLocation{LocationID: "LOC-1"}}
	items[4].CompartmentContents = layout.Compartments{"0-0": &layout.SingleLocation{LocationID: "loc-1"}}

	if err := s.Open(items); !errors.Is(err, errors.ErrCodeDuplicateIdentifier) {
		t.Fatalf("error = %v, want DUPLICATE_IDENTIFIER", err)
	}
	if s.Len() != 5 || s.Identifiers().Len() != 0 {
		t.Errorf("failed open should keep the previous layout")
	}

	s.Close()
	if s.Len() != 0 {
		t.Errorf("Close left %d items", s.Len())
	}
}

func TestSave(t *testing.T) {
	s := newSession(t)
	doc := s.Save("north", 10, fpio.Options{OrgUnit: "acme"})

	if doc.Name != "north" || doc.Metadata.TotalItems != 5 || doc.Metadata.OrgUnit != "acme" {
		t.Errorf("unexpected document: %+v", doc.Metadata)
	}
	if !doc.Metadata.Timestamp.Equal(fixed) {
		t.Errorf("Timestamp = %v", doc.Metadata.Timestamp)
	}
	if doc.Items[0].X != 10 || doc.Items[0].Y != 10 {
		t.Errorf("boundary at (%d,%d), want (10,10)", doc.Items[0].X, doc.Items[0].Y)
	}
	if mustGet(t, s, "b1").X != 0 {
		t.Error("Save must not move the open layout")
	}
}

type recordingHooks struct {
	observability.NoopDesignerHooks
	ops []string
}

func (r *recordingHooks) OnOperation(_ context.Context, op string, _ time.Duration, err error) {
	if err != nil {
		op += ":" + string(errors.GetCode(err))
	}
	r.ops = append(r.ops, op)
}

func TestHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetDesignerHooks(h)
	t.Cleanup(observability.Reset)

	s := newSession(t)
	_, _ = s.Resize(context.Background(), "u1", 90, 90)
	_, _ = s.Move(context.Background(), "u1", layout.Point{X: 30, Y: 450})

	want := []string{"resize", "move:INVALID_CONTAINER"}
	if diff := cmp.Diff(want, h.ops); diff != "" {
		t.Errorf("hook events mismatch (-want +got):\n%s", diff)
	}
}

func TestLegacyRackIdentifiersStayUnique(t *testing.T) {
	ctx := context.Background()
	items := append(facilityItems(),
		&layout.Item{ID: "vr", Type: layout.TypeVerticalRack, X: 380, Y: 80, Width: 60, Height: 60,
			ContainerLevel: 3, ContainerID: "z2", LevelLocationMappings: []layout.LevelLocation{
				{LevelID: "L1", LocationID: "LOC-001"},
				{LevelID: "L2", LocationID: "LOC-002"},
			}},
		&layout.Item{ID: "vc", Type: layout.TypeVerticalRack, X: 460, Y: 80, Width: 60, Height: 60,
			ContainerLevel: 3, ContainerID: "z2", LocationID: "LOC-010+1"},
	)
	s := New(WithClock(func() time.Time { return fixed }))
	if err := s.Open(items); err != nil {
		t.Fatalf("Open: %v", err)
	}

	want := []string{"LOC-001", "LOC-002", "LOC-010", "LOC-010-2"}
	if diff := cmp.Diff(want, s.Identifiers().IDs()); diff != "" {
		t.Errorf("bound ids (-want +got):\n%s", diff)
	}
	got, err := s.SuggestLocationIDs(2)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"LOC-003", "LOC-004"}, got); diff != "" {
		t.Errorf("suggestions (-want +got):\n%s", diff)
	}
	for _, id := range []string{"LOC-001", "LOC-010"} {
		if _, err := s.AssignCompartment(ctx, "u1", 0, 0, id); !errors.Is(err, errors.ErrCodeDuplicateIdentifier) {
			t.Errorf("AssignCompartment(%s) = %v, want DUPLICATE_IDENTIFIER", id, err)
		}
	}
}
