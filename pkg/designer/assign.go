package designer

import (
	"context"

	"github.com/matzehuels/floorplan/pkg/layout"
	"github.com/matzehuels/floorplan/pkg/locations"
)

// AssignSingle binds locationID to the single slot of a spare unit,
// warehouse block or container.
func (s *Session) AssignSingle(ctx context.Context, id, locationID, category string) (*layout.Item, error) {
	return s.assign(ctx, "assign_single", id, func(it *layout.Item) (*layout.Item, error) {
		return s.assigner.AssignSingle(it, locationID, category)
	})
}

// AssignCompartment binds locationID to compartment (row, col).
func (s *Session) AssignCompartment(ctx context.Context, id string, row, col int, locationID string) (*layout.Item, error) {
	return s.assign(ctx, "assign_compartment", id, func(it *layout.Item) (*layout.Item, error) {
		return s.assigner.AssignCompartment(it, "", locationID, row, col)
	})
}

// AssignMultiLevel replaces the level mappings of compartment key of a
// vertical rack. An empty key selects compartment "0-0".
func (s *Session) AssignMultiLevel(ctx context.Context, id, key string, mappings []layout.LevelLocation) (*layout.Item, error) {
	if key == "" {
		key = layout.Key(0, 0)
	}
	return s.assign(ctx, "assign_levels", id, func(it *layout.Item) (*layout.Item, error) {
		return s.assigner.AssignMultiLevelAt(it, key, mappings)
	})
}

// RemoveAssignment releases compartment key, or every binding of the item
// when key is empty.
func (s *Session) RemoveAssignment(ctx context.Context, id, key string) (*layout.Item, error) {
	return s.assign(ctx, "remove_assignment", id, func(it *layout.Item) (*layout.Item, error) {
		return s.assigner.Remove(it, key)
	})
}

func (s *Session) assign(ctx context.Context, op, id string, fn func(*layout.Item) (*layout.Item, error)) (*layout.Item, error) {
	var out *layout.Item
	err := s.mutate(ctx, op, func() error {
		it, err := s.store.MustGet(id)
		if err != nil {
			return err
		}
		next, err := fn(it)
		if err != nil {
			return err
		}
		if err := s.store.Replace(next); err != nil {
			return err
		}
		out = next.Clone()
		return nil
	})
	return out, err
}

// SuggestLocationIDs returns n free generated location identifiers.
func (s *Session) SuggestLocationIDs(n int) ([]string, error) {
	return s.suggest.Next(n)
}

// SuggestLevels returns n level mappings L1..Ln with free generated
// location identifiers.
func (s *Session) SuggestLevels(n int) ([]layout.LevelLocation, error) {
	return s.suggest.Levels(n)
}

// LevelCount returns the number of vertical levels the item currently has.
func (s *Session) LevelCount(id string) (int, error) {
	it, err := s.store.MustGet(id)
	if err != nil {
		return 0, err
	}
	return locations.InferLevelCount(it), nil
}

// LevelMappings returns the item's current level/location pairs, decoding
// legacy encodings.
func (s *Session) LevelMappings(id string) ([]layout.LevelLocation, error) {
	it, err := s.store.MustGet(id)
	if err != nil {
		return nil, err
	}
	return locations.LevelMappings(it), nil
}
