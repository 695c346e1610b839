// Package designer applies layout engine operations to one open layout.
//
// A [Session] is the interaction adapter between a user interface (the CLI,
// the HTTP API or an editor front end) and the pure engine packages. Each
// method validates with grid, containment, collision and locations, then
// commits the result to the session's store. Rejected operations leave the
// layout and its identifier cache unchanged and return a structured error
// from [errors]; changes to locked attributes are silently ignored.
//
// Every committed operation pushes a snapshot so [Session.Undo] can restore
// the previous state.
//
// A Session is not safe for concurrent use.
//
// [errors]: github.com/matzehuels/floorplan/pkg/errors
package designer

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/floorplan/pkg/batch"
	"github.com/matzehuels/floorplan/pkg/codegen"
	"github.com/matzehuels/floorplan/pkg/containment"
	"github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/facility"
	"github.com/matzehuels/floorplan/pkg/layout"
	"github.com/matzehuels/floorplan/pkg/locations"
	"github.com/matzehuels/floorplan/pkg/observability"
)

// DefaultUndoDepth is the number of snapshots kept for Undo.
const DefaultUndoDepth = 50

// Session owns one open layout.
type Session struct {
	store    *layout.Store
	ids      *locations.Cache
	assigner *locations.Assigner
	suggest  *locations.Generator
	codes    *codegen.Generator
	catalog  batch.Catalog

	history   [][]*layout.Item
	undoDepth int

	logger *log.Logger
	now    func() time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithHierarchy enables hierarchical location codes for drops that carry a
// facility context.
func WithHierarchy(h facility.Hierarchy) Option {
	return func(s *Session) { s.codes = codegen.New(h) }
}

// WithCatalog sets the templates used by AutoFill.
func WithCatalog(c batch.Catalog) Option {
	return func(s *Session) { s.catalog = c }
}

// WithClock sets the time source for assignment timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithLogger sets the logger for committed operations.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithUndoDepth bounds the snapshot stack. Zero disables undo.
func WithUndoDepth(n int) Option {
	return func(s *Session) { s.undoDepth = max(n, 0) }
}

// New creates a session with an empty layout.
func New(opts ...Option) *Session {
	s := &Session{
		codes:     codegen.New(nil),
		catalog:   batch.DefaultCatalog(),
		undoDepth: DefaultUndoDepth,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	s.ids = locations.NewCache()
	s.store = layout.NewStore(s.ids)
	s.assigner = locations.NewAssigner(s.ids, locations.WithClock(s.now))
	s.suggest = locations.NewGenerator(s.ids)
	return s
}

// Open replaces the session's layout with items. It fails with
// INVALID_LAYOUT or DUPLICATE_IDENTIFIER if items are inconsistent, leaving
// the previous layout open.
func (s *Session) Open(items []*layout.Item) error {
	if err := s.store.Load(items); err != nil {
		return err
	}
	s.history = nil
	s.logger.Debug("opened layout", "items", s.store.Len(), "locations", s.ids.Len())
	return nil
}

// Close discards the open layout, its identifier cache and undo history.
func (s *Session) Close() {
	s.store.Clear()
	s.history = nil
}

// Items returns a deep copy of the layout in store order.
func (s *Session) Items() []*layout.Item { return s.store.Snapshot() }

// Len returns the number of items.
func (s *Session) Len() int { return s.store.Len() }

// Get returns a copy of the item with the given id.
func (s *Session) Get(id string) (*layout.Item, error) {
	it, err := s.store.MustGet(id)
	if err != nil {
		return nil, err
	}
	return it.Clone(), nil
}

// Identifiers returns the identifier cache of the open layout. Callers may
// reserve identifiers on it; all other changes go through the session.
func (s *Session) Identifiers() *locations.Cache { return s.ids }

// Validate checks the containment references of the whole layout.
func (s *Session) Validate() error {
	return containment.Validate(s.store.Items())
}

// Undo restores the layout before the last committed operation. It reports
// false when there is nothing to undo.
func (s *Session) Undo(ctx context.Context) (bool, error) {
	if len(s.history) == 0 {
		return false, nil
	}
	last := s.history[len(s.history)-1]
	if err := s.store.Load(last); err != nil {
		return false, errors.Wrap(errors.ErrCodeInternal, err, "restore snapshot")
	}
	s.history = s.history[:len(s.history)-1]
	observability.Designer().OnUndo(ctx, len(s.history))
	return true, nil
}

// UndoDepth returns the number of snapshots available to Undo.
func (s *Session) UndoDepth() int { return len(s.history) }

// mutate runs fn against the store as one undoable operation. A snapshot is
// pushed before fn and dropped again if fn fails. Locked-attribute errors
// are reported as success with nothing committed.
func (s *Session) mutate(ctx context.Context, op string, fn func() error) error {
	start := time.Now()
	pushed := s.checkpoint()
	err := fn()
	if errors.Is(err, errors.ErrCodeLockedAttribute) {
		s.logger.Debug("ignored change to locked item", "op", op, "reason", errors.UserMessage(err))
		err = nil
		s.drop(pushed)
	} else if err != nil {
		s.drop(pushed)
	}
	observability.Designer().OnOperation(ctx, op, time.Since(start), err)
	if err != nil {
		s.logger.Debug("rejected", "op", op, "error", err)
		return err
	}
	if over := len(s.history) - s.undoDepth; over > 0 {
		s.history = s.history[over:]
	}
	s.logger.Debug("committed", "op", op, "items", s.store.Len())
	return nil
}

func (s *Session) checkpoint() bool {
	if s.undoDepth == 0 {
		return false
	}
	s.history = append(s.history, s.store.Snapshot())
	return true
}

// drop discards the snapshot pushed for an operation that changed nothing.
func (s *Session) drop(pushed bool) {
	if pushed && len(s.history) > 0 {
		s.history = s.history[:len(s.history)-1]
	}
}
