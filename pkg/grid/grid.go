// Package grid quantizes layout coordinates to the designer's grid resolutions.
//
// Every position change in a layout passes through [Resolve] (to pick the grid
// resolution for the moved item) and [Snap] before it is committed. Size
// changes use [SnapSize], which also clamps to the item's size limits.
//
// All functions are pure and safe for concurrent use.
package grid

// Grid resolutions used by the designer.
const (
	// Fine is the default resolution and the fixed resolution for floor-plan
	// boundaries and structural lines.
	Fine = 15

	// Coarse is used for grid-aligned items such as top-level boundaries and
	// templates that declare alignment.
	Coarse = 60
)

// Hints describe the grid-relevant traits of an item or template.
type Hints struct {
	// Structural is set for boundaries and structural line types, which always
	// snap to the fine grid.
	Structural bool

	// Step is the item's own resize/move quantum; zero when unset.
	Step int

	// Aligned is set when the item or the dragged template is grid-aligned.
	Aligned bool
}

// Resolve selects the grid size for h, in priority order: the fixed fine grid
// for structural types, the item's own step, the coarse grid for aligned
// items, and finally the fine grid.
func Resolve(h Hints) int {
	switch {
	case h.Structural:
		return Fine
	case h.Step > 0:
		return h.Step
	case h.Aligned:
		return Coarse
	default:
		return Fine
	}
}

// Snap rounds value to the nearest multiple of size. Halves round up and the
// result is never negative. A non-positive size is treated as 1.
func Snap(value, size int) int {
	if size <= 0 {
		size = 1
	}
	if value <= 0 {
		return 0
	}
	q, r := value/size, value%size
	if 2*r >= size {
		q++
	}
	return q * size
}

// SnapSize snaps value to step (default 1) and clamps the result to
// [lo, hi]. A zero hi means unbounded; the result is always at least 1.
func SnapSize(value, step, lo, hi int) int {
	if step <= 0 {
		step = 1
	}
	v := Snap(value, step)
	if lo < 1 {
		lo = 1
	}
	if v < lo {
		v = lo
	}
	if hi > 0 && v > hi {
		v = hi
	}
	return v
}
