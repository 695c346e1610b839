package batch

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/layout"
)

// Entry is the fill template for one zone archetype.
type Entry struct {
	layout.Template
	Spacing int  `json:"spacing,omitempty" toml:"spacing"`
	Skip    bool `json:"skip,omitempty" toml:"skip"`
}

// Catalog maps zone archetypes to fill templates.
type Catalog map[layout.Archetype]Entry

// DefaultCatalog returns the built-in templates. Office zones are left empty.
func DefaultCatalog() Catalog {
	return Catalog{
		layout.ArchetypeStorage: {Template: layout.Template{
			Type: layout.TypeStorageUnit, Width: 60, Height: 60, Rows: 2, Columns: 2,
		}, Spacing: DefaultSpacing},
		layout.ArchetypeReceiving: {Template: layout.Template{
			Type: layout.TypeSpareUnit, Width: 60, Height: 60,
		}, Spacing: DefaultSpacing},
		layout.ArchetypeDispatch: {Template: layout.Template{
			Type: layout.TypeContainer, Width: 60, Height: 60,
		}, Spacing: DefaultSpacing},
		layout.ArchetypeTransit: {Template: layout.Template{
			Type: layout.TypeWarehouseBlock, Width: 90, Height: 90,
		}, Spacing: DefaultSpacing},
		layout.ArchetypeOffice: {Skip: true},
	}
}

// catalogFile is the TOML layout of a catalog override:
//
//	[templates.storage]
//	type = "horizontal_rack"
//	width = 120
//	height = 45
//	columns = 4
type catalogFile struct {
	Templates map[string]Entry `toml:"templates"`
}

// DecodeCatalog parses TOML template overrides and applies them on top of
// the default catalog.
func DecodeCatalog(data []byte) (Catalog, error) {
	var f catalogFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse template catalog")
	}
	return DefaultCatalog().Merge(f.Templates)
}

// LoadCatalog reads overrides from a TOML file. A missing file yields the
// default catalog.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultCatalog(), nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read template catalog")
	}
	return DecodeCatalog(data)
}

// Merge returns a copy of c with entries replaced by overrides, keyed by
// lower-case archetype name.
func (c Catalog) Merge(overrides map[string]Entry) (Catalog, error) {
	out := make(Catalog, len(c))
	for k, v := range c {
		out[k] = v
	}
	for name, e := range overrides {
		a, ok := archetypeByName(name)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "unknown zone archetype %q", name)
		}
		if !e.Skip {
			if e.Type.Level() != layout.LevelUnit {
				return nil, errors.New(errors.ErrCodeInvalidInput,
					"template for %s must be a unit type, got %q", name, e.Type)
			}
			if e.Width <= 0 || e.Height <= 0 {
				return nil, errors.New(errors.ErrCodeInvalidInput, "template for %s has no size", name)
			}
		}
		out[a] = e
	}
	return out, nil
}

func archetypeByName(name string) (layout.Archetype, bool) {
	for a := layout.ArchetypeStorage; a <= layout.ArchetypeOffice; a++ {
		if strings.EqualFold(a.String(), strings.TrimSpace(name)) {
			return a, true
		}
	}
	return layout.ArchetypeNone, false
}

// AutoFillFacility fills every archetype zone in zones with its catalog
// template and returns the new units in zone order. Zones without an entry,
// skipped archetypes and zones too small to fill contribute nothing.
func AutoFillFacility(zones []*layout.Item, catalog Catalog, opts ...Option) []*layout.Item {
	var out []*layout.Item
	for _, z := range zones {
		e, ok := catalog[z.Type.ZoneArchetype()]
		if !ok || e.Skip {
			continue
		}
		fill := append([]Option{WithSpacing(e.Spacing)}, opts...)
		items, err := FillGrid(z, e.Template, fill...)
		if err != nil {
			continue
		}
		out = append(out, items...)
	}
	return out
}
