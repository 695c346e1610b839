// Package containment enforces the Boundary ⊇ Zone ⊇ Unit hierarchy.
//
// A child may only sit inside a container exactly one level above it, and
// only inside that container's inner bounds (its rectangle shrunk by its
// padding). [FindContainer] picks the most specific legal parent for a drop
// point; [Resolve] turns a missing parent into an INVALID_CONTAINER error
// for types that require one.
package containment

import (
	"github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/layout"
)

// CanContain reports whether an item at childLevel may be placed directly
// inside a container at parentLevel.
func CanContain(childLevel, parentLevel int) bool {
	return childLevel == parentLevel+1
}

// InnerBounds returns the usable area of container. It returns false when
// the padding leaves no positive area.
func InnerBounds(container *layout.Item) (layout.Rect, bool) {
	return container.InnerBounds()
}

// FindContainer returns the container that would hold an item of
// draggedLevel dropped at p, or nil. Among matches the highest level wins;
// equal levels resolve to the item latest in store order.
func FindContainer(p layout.Point, draggedLevel int, items []*layout.Item) *layout.Item {
	var best *layout.Item
	for _, it := range items {
		if !it.IsContainer || !CanContain(draggedLevel, it.ContainerLevel) {
			continue
		}
		inner, ok := InnerBounds(it)
		if !ok || !inner.Contains(p) {
			continue
		}
		if best == nil || it.ContainerLevel >= best.ContainerLevel {
			best = it
		}
	}
	return best
}

// Resolve finds the parent for an item of type t dropped at p. Types that
// require a container fail with INVALID_CONTAINER when none is found;
// other types resolve to nil.
func Resolve(t layout.ItemType, p layout.Point, items []*layout.Item) (*layout.Item, error) {
	if !t.RequiresContainer() {
		return nil, nil
	}
	parent := FindContainer(p, t.Level(), items)
	if parent == nil {
		return nil, errors.New(errors.ErrCodeInvalidContainer,
			"no valid container for %s at (%d,%d)", t, p.X, p.Y)
	}
	return parent, nil
}

// Lookup resolves an item by id.
type Lookup func(id string) (*layout.Item, bool)

// FloorPlan walks the ContainerID chain of it up to its level-1 ancestor.
// A boundary is its own floor plan. It returns nil when the chain is broken
// or cyclic.
func FloorPlan(it *layout.Item, lookup Lookup) *layout.Item {
	seen := make(map[string]bool)
	for cur := it; cur != nil; {
		if cur.ContainerLevel == layout.LevelBoundary && cur.IsContainer {
			return cur
		}
		if cur.ContainerID == "" || seen[cur.ID] {
			return nil
		}
		seen[cur.ID] = true
		next, ok := lookup(cur.ContainerID)
		if !ok {
			return nil
		}
		cur = next
	}
	return nil
}

// GoverningBounds returns the box that constrains moves and resizes of it:
// the inner bounds of its floor plan. Items outside any floor plan and
// floor plans themselves are unconstrained (nil).
func GoverningBounds(it *layout.Item, lookup Lookup) *layout.Rect {
	if it.ContainerID == "" {
		return nil
	}
	fp := FloorPlan(it, lookup)
	if fp == nil || fp.ID == it.ID {
		return nil
	}
	inner, ok := InnerBounds(fp)
	if !ok {
		return nil
	}
	return &inner
}

// Validate checks that every contained item references an existing
// container one level up. It returns the first violation found.
func Validate(items []*layout.Item) error {
	byID := make(map[string]*layout.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	for _, it := range items {
		if it.ContainerID == "" {
			if it.Type.RequiresContainer() {
				return errors.New(errors.ErrCodeInvalidContainer, "%s %s has no container", it.Type, it.ID)
			}
			continue
		}
		parent, ok := byID[it.ContainerID]
		if !ok {
			return errors.New(errors.ErrCodeInvalidContainer,
				"%s references missing container %s", it.ID, it.ContainerID)
		}
		if !parent.IsContainer || !CanContain(it.ContainerLevel, parent.ContainerLevel) {
			return errors.New(errors.ErrCodeInvalidContainer,
				"%s (level %d) cannot sit in %s (level %d)", it.ID, it.ContainerLevel, parent.ID, parent.ContainerLevel)
		}
	}
	return nil
}
