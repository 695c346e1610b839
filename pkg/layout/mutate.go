package layout

import (
	"github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/grid"
)

// ResolveGridSize returns the grid resolution that positions of it snap to.
// templateAligned is set when the dragged template declares grid alignment.
func ResolveGridSize(it *Item, templateAligned bool) int {
	return grid.Resolve(grid.Hints{
		Structural: it.Type.SnapsFine(),
		Step:       it.GridStep,
		Aligned:    it.GridAligned || templateAligned,
	})
}

// Move returns a copy of it positioned at the snapped form of to. When bounds
// is non-nil the moved rectangle must lie inside it.
//
// A position-locked item yields LOCKED_ATTRIBUTE; callers treat that as a
// no-op. The input item is never modified.
func Move(it *Item, to Point, bounds *Rect) (*Item, error) {
	if it.IsPositionLocked {
		return nil, errors.New(errors.ErrCodeLockedAttribute, "item %s position is locked", it.ID)
	}
	size := ResolveGridSize(it, false)
	next := it.Clone()
	next.X = grid.Snap(to.X, size)
	next.Y = grid.Snap(to.Y, size)
	if bounds != nil && !bounds.ContainsRect(next.Rect()) {
		return nil, errors.New(errors.ErrCodeBoundsOverflow,
			"item %s at (%d,%d) leaves the floor plan", it.ID, next.X, next.Y)
	}
	return next, nil
}

// Translate is like Move but takes a delta from the current position.
func Translate(it *Item, dx, dy int, bounds *Rect) (*Item, error) {
	return Move(it, Point{X: it.X + dx, Y: it.Y + dy}, bounds)
}

// Resize returns a copy of it with width and height snapped to its grid
// step and clamped to its size limits. When bounds is non-nil the resized
// rectangle must lie inside it.
//
// A size-locked item yields LOCKED_ATTRIBUTE.
func Resize(it *Item, width, height int, bounds *Rect) (*Item, error) {
	if it.IsSizeLocked {
		return nil, errors.New(errors.ErrCodeLockedAttribute, "item %s size is locked", it.ID)
	}
	var minW, minH, maxW, maxH int
	if it.MinSize != nil {
		minW, minH = it.MinSize.Width, it.MinSize.Height
	}
	if it.MaxSize != nil {
		maxW, maxH = it.MaxSize.Width, it.MaxSize.Height
	}
	next := it.Clone()
	next.Width = grid.SnapSize(width, it.GridStep, minW, maxW)
	next.Height = grid.SnapSize(height, it.GridStep, minH, maxH)
	if bounds != nil && !bounds.ContainsRect(next.Rect()) {
		return nil, errors.New(errors.ErrCodeBoundsOverflow,
			"item %s resized to %dx%d leaves the floor plan", it.ID, next.Width, next.Height)
	}
	return next, nil
}
