package designer

import (
	"context"

	"github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/layout"
)

// Drag is an in-progress move. Updates compute previews without touching
// the layout; only Commit changes it.
type Drag struct {
	s       *Session
	id      string
	target  layout.Point
	preview *layout.Item
	done    bool
}

// BeginDrag starts dragging the item with the given id.
func (s *Session) BeginDrag(id string) (*Drag, error) {
	it, err := s.store.MustGet(id)
	if err != nil {
		return nil, err
	}
	return &Drag{s: s, id: id, target: it.Position(), preview: it.Clone()}, nil
}

// Update moves the drag to p and returns where the item would land. A
// rejected position is returned as an error and leaves the previous preview
// in place; locked items preview at their current position.
func (d *Drag) Update(p layout.Point) (*layout.Item, error) {
	if d.done {
		return nil, errors.New(errors.ErrCodeInvalidInput, "drag already finished")
	}
	d.target = p
	plan, err := d.s.planMove(d.id, p)
	if errors.Is(err, errors.ErrCodeLockedAttribute) {
		return d.preview.Clone(), nil
	}
	if err != nil {
		return nil, err
	}
	d.preview = plan[0]
	return d.preview.Clone(), nil
}

// Preview returns the last accepted landing position.
func (d *Drag) Preview() *layout.Item { return d.preview.Clone() }

// Cancel abandons the drag.
func (d *Drag) Cancel() { d.done = true }

// Commit applies the move to the last position passed to Update.
func (d *Drag) Commit(ctx context.Context) (*layout.Item, error) {
	if d.done {
		return nil, errors.New(errors.ErrCodeInvalidInput, "drag already finished")
	}
	d.done = true
	return d.s.Move(ctx, d.id, d.target)
}
