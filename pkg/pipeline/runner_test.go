package pipeline

import (
	"context"
	stderrors "errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/floorplan/pkg/cache"
	"github.com/matzehuels/floorplan/pkg/crop"
	"github.com/matzehuels/floorplan/pkg/errors"
	fpio "github.com/matzehuels/floorplan/pkg/io"
	"github.com/matzehuels/floorplan/pkg/layout"
	"github.com/matzehuels/floorplan/pkg/observability"
)

func testDoc() *fpio.Document {
	items := []*layout.Item{
		{ID: "b1", Type: layout.TypeBoundary, X: 0, Y: 0, Width: 400, Height: 300, ContainerLevel: 1, IsContainer: true},
		{ID: "u1", Type: layout.TypeSpareUnit, X: 40, Y: 40, Width: 40, Height: 40, ContainerLevel: 3, ContainerID: "b1", LocationID: "LOC-1", Code: "A1"},
	}
	now := func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return fpio.NewDocument("", crop.Crop(items, 20), fpio.Options{Now: now})
}

func newRunner() *Runner {
	return NewRunner(cache.NewMemoryCache(), nil, log.New(io.Discard))
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	r := newRunner()

	if err := r.Save(ctx, "acme", "north", testDoc()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := r.Load(ctx, "acme", "north")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Name != "north" || got.Metadata.OrgUnit != "acme" || got.Metadata.TotalItems != 2 {
		t.Errorf("loaded doc = %+v", got)
	}
	if diff := cmp.Diff([]string{"b1", "u1"}, []string{got.Items[0].ID, got.Items[1].ID}); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := newRunner().Load(context.Background(), "acme", "nope")
	if !errors.Is(err, errors.ErrCodeLayoutNotFound) {
		t.Errorf("err = %v, want LAYOUT_NOT_FOUND", err)
	}
}

func TestRefValidation(t *testing.T) {
	ctx := context.Background()
	r := newRunner()
	tests := []struct {
		org, name string
		code      errors.Code
	}{
		{"", "north", errors.ErrCodeInvalidInput},
		{"ac me", "north", errors.ErrCodeInvalidInput},
		{"acme", "", errors.ErrCodeInvalidLayout},
		{"acme", "../etc", errors.ErrCodeInvalidLayout},
		{"acme", "a:b", errors.ErrCodeInvalidLayout},
	}
	for _, tt := range tests {
		if err := r.Save(ctx, tt.org, tt.name, testDoc()); !errors.Is(err, tt.code) {
			t.Errorf("Save(%q, %q) = %v, want %s", tt.org, tt.name, err, tt.code)
		}
		if _, err := r.Load(ctx, tt.org, tt.name); !errors.Is(err, tt.code) {
			t.Errorf("Load(%q, %q) = %v, want %s", tt.org, tt.name, err, tt.code)
		}
	}
}

func TestDeleteAndList(t *testing.T) {
	ctx := context.Background()
	r := newRunner()
	for _, name := range []string{"south", "north", "east"} {
		if err := r.Save(ctx, "acme", name, testDoc()); err != nil {
			t.Fatal(err)
		}
	}
	if err := r.Save(ctx, "other", "west", testDoc()); err != nil {
		t.Fatal(err)
	}

	if err := r.Delete(ctx, "acme", "south"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := r.Delete(ctx, "acme", "south"); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}

	names, err := r.List(ctx, "acme")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if diff := cmp.Diff([]string{"east", "north"}, names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestListUnsupported(t *testing.T) {
	r := NewRunner(nonListing{cache.NewMemoryCache()}, nil, log.New(io.Discard))
	if _, err := r.List(context.Background(), "acme"); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("err = %v, want UNSUPPORTED", err)
	}
}

func TestExportCaching(t *testing.T) {
	ctx := context.Background()
	r := newRunner()
	doc := testDoc()
	opts := DefaultExportOptions()

	first, hit, err := r.ExportWithCacheInfo(ctx, doc, opts)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if hit {
		t.Error("first export was a cache hit")
	}
	if !strings.HasPrefix(string(first), "<svg") {
		t.Errorf("export is not svg: %.40s", first)
	}

	second, hit, err := r.ExportWithCacheInfo(ctx, doc, opts)
	if err != nil || !hit || string(second) != string(first) {
		t.Errorf("second export hit=%v err=%v", hit, err)
	}

	opts.Format = "csv"
	if _, hit, _ := r.ExportWithCacheInfo(ctx, doc, opts); hit {
		t.Error("different format served from cache")
	}

	doc.Items[1].LocationID = "LOC-2"
	data, hit, err := r.ExportWithCacheInfo(ctx, doc, opts)
	if err != nil || hit {
		t.Fatalf("changed doc hit=%v err=%v", hit, err)
	}
	if !strings.Contains(string(data), "LOC-2") {
		t.Errorf("csv missing new location:\n%s", data)
	}

	opts.Refresh = true
	if _, hit, _ := r.ExportWithCacheInfo(ctx, doc, opts); hit {
		t.Error("refresh served from cache")
	}
}

func TestExportRejectsFormat(t *testing.T) {
	_, err := newRunner().Export(context.Background(), testDoc(), ExportOptions{Format: "bmp"})
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("err = %v, want UNSUPPORTED", err)
	}
	_, err = newRunner().Export(context.Background(), testDoc(), ExportOptions{Padding: -1})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestStoreFailure(t *testing.T) {
	r := NewRunner(failing{}, nil, log.New(io.Discard))
	err := r.Save(context.Background(), "acme", "north", testDoc())
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Errorf("err = %v, want NETWORK_ERROR", err)
	}
}

type pipelineEvents struct {
	observability.NoopPipelineHooks
	events []string
}

func (p *pipelineEvents) OnSaveComplete(_ context.Context, key string, _ time.Duration, err error) {
	p.events = append(p.events, "save "+key)
}

func (p *pipelineEvents) OnLoadComplete(_ context.Context, key string, items int, _ time.Duration, err error) {
	if err != nil {
		key += " " + string(errors.GetCode(err))
	}
	p.events = append(p.events, "load "+key)
}

func TestPipelineHooks(t *testing.T) {
	h := &pipelineEvents{}
	observability.SetPipelineHooks(h)
	t.Cleanup(observability.Reset)

	ctx := context.Background()
	r := newRunner()
	_ = r.Save(ctx, "acme", "north", testDoc())
	_, _ = r.Load(ctx, "acme", "north")
	_, _ = r.Load(ctx, "acme", "south")

	want := []string{"save layout:acme:north", "load layout:acme:north", "load layout:acme:south LAYOUT_NOT_FOUND"}
	if diff := cmp.Diff(want, h.events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

type nonListing struct{ cache.Cache }

type failing struct{}

func (failing) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, stderrors.New("boom")
}
func (failing) Set(context.Context, string, []byte, time.Duration) error { return stderrors.New("boom") }
func (failing) Delete(context.Context, string) error                     { return stderrors.New("boom") }
func (failing) Close() error                                             { return nil }
