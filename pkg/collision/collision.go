// Package collision provides exact axis-aligned overlap queries over layout
// items.
//
// Collisions are advisory: moves and resizes are governed by the floor-plan
// bounds (see package containment), while pairwise overlap drives stacking
// eligibility and validation reports.
package collision

import "github.com/matzehuels/floorplan/pkg/layout"

// Overlaps reports whether a and b share interior area. Rectangles that only
// touch along an edge do not overlap.
func Overlaps(a, b layout.Rect) bool {
	if a.Empty() || b.Empty() {
		return false
	}
	return !(a.Right() <= b.X || b.Right() <= a.X || a.Bottom() <= b.Y || b.Bottom() <= a.Y)
}

// FindCollisions returns the items overlapping candidate, excluding
// candidate itself by id, in input order.
func FindCollisions(candidate *layout.Item, items []*layout.Item) []*layout.Item {
	r := candidate.Rect()
	var out []*layout.Item
	for _, it := range items {
		if it.ID == candidate.ID {
			continue
		}
		if Overlaps(r, it.Rect()) {
			out = append(out, it)
		}
	}
	return out
}

// StackTargets returns the units candidate may be stacked onto: colliding
// level-3 units in the same container.
func StackTargets(candidate *layout.Item, items []*layout.Item) []*layout.Item {
	if candidate.ContainerLevel != layout.LevelUnit {
		return nil
	}
	var out []*layout.Item
	for _, it := range FindCollisions(candidate, items) {
		if it.ContainerLevel == layout.LevelUnit && it.ContainerID == candidate.ContainerID {
			out = append(out, it)
		}
	}
	return out
}

// Pair is two colliding items; A precedes B in store order.
type Pair struct {
	A, B *layout.Item
}

// Siblings reports every pair of overlapping items that share a container
// and level. Structural items are ignored.
func Siblings(items []*layout.Item) []Pair {
	var out []Pair
	for i, a := range items {
		if a.Type.Structural() {
			continue
		}
		for _, b := range items[i+1:] {
			if b.Type.Structural() || a.ContainerID != b.ContainerID || a.ContainerLevel != b.ContainerLevel {
				continue
			}
			if Overlaps(a.Rect(), b.Rect()) {
				out = append(out, Pair{A: a, B: b})
			}
		}
	}
	return out
}
