// Package facility provides the facility hierarchy that hierarchical
// location codes are minted from.
//
// Nodes form a tree (warehouse → zone → unit) and each node carries a code
// derived from its parent's, e.g. WH-01, WH-01-Z02, WH-01-Z02-U007.
// [Memory] is an in-process implementation suitable for the CLI, the API
// server and tests.
package facility

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/layout"
)

// Node levels.
const (
	LevelWarehouse = 1
	LevelZone      = 2
	LevelUnit      = 3
)

// Node is one facility in the hierarchy.
type Node struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Type         string       `json:"type"`
	Level        int          `json:"level"`
	ParentID     string       `json:"parentId,omitempty"`
	Coordinates  layout.Point `json:"coordinates"`
	Dimensions   layout.Size  `json:"dimensions"`
	LocationCode string       `json:"locationCode"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// CreateRequest describes a facility to create.
type CreateRequest struct {
	Name        string       `json:"name"`
	Type        string       `json:"type"`
	Level       int          `json:"level"`
	ParentID    string       `json:"parentId,omitempty"`
	Coordinates layout.Point `json:"coordinates"`
	Dimensions  layout.Size  `json:"dimensions"`
}

// Hierarchy creates and looks up facility nodes.
type Hierarchy interface {
	// CreateFacility creates a node and mints its location code.
	CreateFacility(ctx context.Context, req CreateRequest) (*Node, error)

	// GetFacility returns the node with the given id, or a NOT_FOUND error.
	GetFacility(ctx context.Context, id string) (*Node, error)
}

// Memory is an in-memory Hierarchy. It is safe for concurrent use.
type Memory struct {
	mu       sync.Mutex
	nodes    map[string]*Node
	aliases  map[string]string
	children map[string]int
	newID    func() string
	now      func() time.Time
}

var _ Hierarchy = (*Memory)(nil)

// NewMemory returns an empty hierarchy.
func NewMemory() *Memory {
	return &Memory{
		nodes:    make(map[string]*Node),
		aliases:  make(map[string]string),
		children: make(map[string]int),
		newID:    layout.NewID,
		now:      time.Now,
	}
}

// CreateFacility implements Hierarchy. A warehouse has no parent; every
// other level needs a parent exactly one level up.
func (m *Memory) CreateFacility(ctx context.Context, req CreateRequest) (*Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Level < LevelWarehouse || req.Level > LevelUnit {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid facility level %d", req.Level)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var code string
	if req.Level == LevelWarehouse {
		if req.ParentID != "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "a warehouse has no parent")
		}
		m.children[""]++
		code = fmt.Sprintf("WH-%02d", m.children[""])
	} else {
		parent, ok := m.nodes[req.ParentID]
		if !ok {
			return nil, errors.New(errors.ErrCodeNotFound, "parent facility %s not found", req.ParentID)
		}
		if parent.Level != req.Level-1 {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"level %d facility cannot sit under level %d", req.Level, parent.Level)
		}
		m.children[parent.ID]++
		code = childCode(parent.LocationCode, req.Level, m.children[parent.ID])
	}

	n := &Node{
		ID:           m.newID(),
		Name:         req.Name,
		Type:         req.Type,
		Level:        req.Level,
		ParentID:     req.ParentID,
		Coordinates:  req.Coordinates,
		Dimensions:   req.Dimensions,
		LocationCode: code,
		CreatedAt:    m.now().UTC(),
	}
	m.nodes[n.ID] = n
	c := *n
	return &c, nil
}

// GetFacility implements Hierarchy. id may also be an alias set with Bind.
func (m *Memory) GetFacility(ctx context.Context, id string) (*Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if target, ok := m.aliases[id]; ok {
		id = target
	}
	n, ok := m.nodes[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "facility %s not found", id)
	}
	c := *n
	return &c, nil
}

// Bind makes alias resolve to the node nodeID in GetFacility.
func (m *Memory) Bind(alias, nodeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.nodes[nodeID]; !ok {
		return errors.New(errors.ErrCodeNotFound, "facility %s not found", nodeID)
	}
	m.aliases[alias] = nodeID
	return nil
}

// Children returns the direct children of id.
func (m *Memory) Children(id string) []*Node {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Node
	for _, n := range m.nodes {
		if n.ParentID == id {
			c := *n
			out = append(out, &c)
		}
	}
	return out
}

func childCode(parent string, level, n int) string {
	if level == LevelZone {
		return fmt.Sprintf("%s-Z%02d", parent, n)
	}
	return fmt.Sprintf("%s-U%03d", parent, n)
}
