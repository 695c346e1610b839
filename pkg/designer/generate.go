package designer

import (
	"context"

	"github.com/matzehuels/floorplan/pkg/batch"
	"github.com/matzehuels/floorplan/pkg/crop"
	fpio "github.com/matzehuels/floorplan/pkg/io"
	"github.com/matzehuels/floorplan/pkg/layout"
)

// Generate fills the zone with the given id with a grid of units built from
// tmpl and returns the new units.
func (s *Session) Generate(ctx context.Context, zoneID string, tmpl layout.Template, opts ...batch.Option) ([]*layout.Item, error) {
	var added []*layout.Item
	err := s.mutate(ctx, "generate", func() error {
		zone, err := s.store.MustGet(zoneID)
		if err != nil {
			return err
		}
		units, err := batch.FillGrid(zone, tmpl, opts...)
		if err != nil {
			return err
		}
		added, err = s.addAll(ctx, units)
		return err
	})
	return added, err
}

// Capacity reports how many units of tmpl fit in the zone with the given id.
func (s *Session) Capacity(zoneID string, tmpl layout.Template, opts ...batch.Option) (int, error) {
	zone, err := s.store.MustGet(zoneID)
	if err != nil {
		return 0, err
	}
	return batch.Capacity(zone, tmpl, opts...), nil
}

// AutoFill fills every zone of the layout with the catalog template of its
// archetype.
func (s *Session) AutoFill(ctx context.Context, opts ...batch.Option) ([]*layout.Item, error) {
	var added []*layout.Item
	err := s.mutate(ctx, "autofill", func() error {
		units := batch.AutoFillFacility(s.store.ByLevel(layout.LevelZone), s.catalog, opts...)
		var err error
		added, err = s.addAll(ctx, units)
		return err
	})
	return added, err
}

// addAll codes and adds units. On failure every unit added so far is
// removed again.
func (s *Session) addAll(ctx context.Context, units []*layout.Item) ([]*layout.Item, error) {
	added := make([]*layout.Item, 0, len(units))
	rollback := func() {
		for _, it := range added {
			_, _ = s.store.Remove(it.ID)
		}
	}
	for _, u := range units {
		code, err := s.codes.Generate(ctx, u.Type, s.store.Items(), u.X, u.Y, nil)
		if err != nil {
			rollback()
			return nil, err
		}
		u.Code = code
		if err := s.store.Add(u); err != nil {
			rollback()
			return nil, err
		}
		added = append(added, u.Clone())
	}
	return added, nil
}

// Delete removes the item with the given id together with everything it
// contains, releasing their location identifiers. The removed items are
// returned, container first.
func (s *Session) Delete(ctx context.Context, id string) ([]*layout.Item, error) {
	var removed []*layout.Item
	err := s.mutate(ctx, "delete", func() error {
		if _, err := s.store.MustGet(id); err != nil {
			return err
		}
		ids := []string{id}
		for _, d := range s.store.Descendants(id) {
			ids = append(ids, d.ID)
		}
		for _, rid := range ids {
			it, err := s.store.Remove(rid)
			if err != nil {
				return err
			}
			removed = append(removed, it)
		}
		return nil
	})
	return removed, err
}

// Save crops the layout with padding and wraps it in a persistable
// document. The session itself is not modified.
func (s *Session) Save(name string, padding int, opts fpio.Options) *fpio.Document {
	if opts.Now == nil {
		opts.Now = s.now
	}
	return fpio.NewDocument(name, crop.Crop(s.store.Items(), padding), opts)
}
