package layout

// Point is a position in layout units.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size is a width/height pair used for size limits.
type Size struct {
	Width  int `json:"width" toml:"width"`
	Height int `json:"height" toml:"height"`
}

// Rect is an axis-aligned rectangle with its top-left corner at (X, Y).
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether p lies inside r. The left and top edges are
// inclusive, the right and bottom edges exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// ContainsRect reports whether o lies entirely within r.
func (r Rect) ContainsRect(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Inset shrinks r by pad on every side. It returns false when the result
// would have a non-positive width or height.
func (r Rect) Inset(pad int) (Rect, bool) {
	in := Rect{X: r.X + pad, Y: r.Y + pad, Width: r.Width - 2*pad, Height: r.Height - 2*pad}
	if in.Empty() {
		return Rect{}, false
	}
	return in, true
}
