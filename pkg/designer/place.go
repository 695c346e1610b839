package designer

import (
	"context"

	"github.com/matzehuels/floorplan/pkg/codegen"
	"github.com/matzehuels/floorplan/pkg/collision"
	"github.com/matzehuels/floorplan/pkg/containment"
	"github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/grid"
	"github.com/matzehuels/floorplan/pkg/layout"
)

// Drop places a new item built from tmpl at p. The position is snapped to
// the template's grid and the item is bound to the most specific container
// under p. Zones receive an automatic label and every non-structural item a
// location code; fc selects hierarchical codes.
//
// Drop fails with INVALID_CONTAINER when the type needs a container and
// none lies under p, and with BOUNDS_OVERFLOW when the item would stick out
// of its floor plan.
func (s *Session) Drop(ctx context.Context, tmpl layout.Template, p layout.Point, fc *codegen.FacilityContext) (*layout.Item, error) {
	var placed *layout.Item
	err := s.mutate(ctx, "drop", func() error {
		if !tmpl.Type.Valid() {
			return errors.New(errors.ErrCodeInvalidInput, "unknown item type %q", tmpl.Type)
		}
		if tmpl.Width <= 0 || tmpl.Height <= 0 {
			return errors.New(errors.ErrCodeInvalidInput, "template %s has no size", tmpl.Type)
		}

		items := s.store.Items()
		parent, err := containment.Resolve(tmpl.Type, p, items)
		if err != nil {
			return err
		}

		size := grid.Resolve(grid.Hints{
			Structural: tmpl.Type.SnapsFine(),
			Step:       tmpl.GridStep,
			Aligned:    tmpl.GridAligned,
		})
		it := tmpl.NewItem(layout.NewID(), grid.Snap(p.X, size), grid.Snap(p.Y, size))
		if parent != nil {
			it.ContainerID = parent.ID
		}
		if b := containment.GoverningBounds(it, s.store.Get); b != nil && !b.ContainsRect(it.Rect()) {
			return errors.New(errors.ErrCodeBoundsOverflow,
				"%s at (%d,%d) does not fit its floor plan", it.Type, it.X, it.Y)
		}

		code, err := s.codes.Generate(ctx, it.Type, items, it.X, it.Y, fc)
		if err != nil {
			return err
		}
		it.Code = code
		it.Label = s.store.NextZoneLabel(it.Type)
		if err := s.store.Add(it); err != nil {
			return err
		}
		placed = it.Clone()
		return nil
	})
	return placed, err
}

// Move moves the item to the snapped form of to, re-binding it to the
// container under its new centre and carrying its descendants along.
// Moving a position-locked item is a no-op that returns the item unchanged.
func (s *Session) Move(ctx context.Context, id string, to layout.Point) (*layout.Item, error) {
	var moved *layout.Item
	err := s.mutate(ctx, "move", func() error {
		plan, err := s.planMove(id, to)
		if err != nil {
			return err
		}
		for _, it := range plan {
			if err := s.store.Replace(it); err != nil {
				return err
			}
		}
		moved = plan[0].Clone()
		return nil
	})
	if moved == nil && err == nil {
		return s.Get(id)
	}
	return moved, err
}

// planMove computes the committed form of a move without touching the
// store. The first element is the moved item, followed by its translated
// descendants.
func (s *Session) planMove(id string, to layout.Point) ([]*layout.Item, error) {
	it, err := s.store.MustGet(id)
	if err != nil {
		return nil, err
	}
	next, err := layout.Move(it, to, nil)
	if err != nil {
		return nil, err
	}
	if next.Type.RequiresContainer() {
		center := layout.Point{X: next.X + next.Width/2, Y: next.Y + next.Height/2}
		parent := containment.FindContainer(center, next.ContainerLevel, s.store.Items())
		if parent == nil {
			return nil, errors.New(errors.ErrCodeInvalidContainer,
				"no container for %s at (%d,%d)", next.Type, next.X, next.Y)
		}
		next.ContainerID = parent.ID
	}
	if b := containment.GoverningBounds(next, s.store.Get); b != nil && !b.ContainsRect(next.Rect()) {
		return nil, errors.New(errors.ErrCodeBoundsOverflow,
			"item %s at (%d,%d) leaves the floor plan", next.ID, next.X, next.Y)
	}

	plan := []*layout.Item{next}
	dx, dy := next.X-it.X, next.Y-it.Y
	if dx == 0 && dy == 0 {
		return plan, nil
	}
	for _, d := range s.store.Descendants(id) {
		c := d.Clone()
		c.X += dx
		c.Y += dy
		plan = append(plan, c)
	}
	return plan, nil
}

// Resize changes the item's size, snapped to its grid step, clamped to its
// limits and kept inside its floor plan. Resizing a size-locked item is a
// no-op that returns the item unchanged.
func (s *Session) Resize(ctx context.Context, id string, width, height int) (*layout.Item, error) {
	var resized *layout.Item
	err := s.mutate(ctx, "resize", func() error {
		it, err := s.store.MustGet(id)
		if err != nil {
			return err
		}
		next, err := layout.Resize(it, width, height, containment.GoverningBounds(it, s.store.Get))
		if err != nil {
			return err
		}
		if err := s.store.Replace(next); err != nil {
			return err
		}
		resized = next.Clone()
		return nil
	})
	if resized == nil && err == nil {
		return s.Get(id)
	}
	return resized, err
}

// Collisions returns the items overlapping the item with the given id.
func (s *Session) Collisions(id string) ([]*layout.Item, error) {
	it, err := s.store.MustGet(id)
	if err != nil {
		return nil, err
	}
	return cloneAll(collision.FindCollisions(it, s.store.Items())), nil
}

// StackTargets returns the units the item with the given id may be stacked on.
func (s *Session) StackTargets(id string) ([]*layout.Item, error) {
	it, err := s.store.MustGet(id)
	if err != nil {
		return nil, err
	}
	return cloneAll(collision.StackTargets(it, s.store.Items())), nil
}

func cloneAll(items []*layout.Item) []*layout.Item {
	out := make([]*layout.Item, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}
