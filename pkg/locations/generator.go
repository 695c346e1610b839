package locations

import (
	"fmt"

	"github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/layout"
)

// Bounds of the generated identifier sequence LOC-001..LOC-9999.
const (
	GeneratedPrefix = "LOC-"
	GeneratedMax    = 9999
)

// Generator suggests unused location identifiers.
type Generator struct {
	cache *Cache
}

// NewGenerator returns a generator that skips identifiers bound or reserved
// in cache.
func NewGenerator(cache *Cache) *Generator {
	return &Generator{cache: cache}
}

// Format returns the generated identifier for sequence number n.
func Format(n int) string { return fmt.Sprintf("%s%03d", GeneratedPrefix, n) }

// Next returns the n lowest free identifiers in sequence order. It fails if
// fewer than n remain. Next does not bind anything.
func (g *Generator) Next(n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	out := make([]string, 0, n)
	for i := 1; i <= GeneratedMax && len(out) < n; i++ {
		id := Format(i)
		if g.cache.Has(id) || g.cache.Reserved(id) {
			continue
		}
		out = append(out, id)
	}
	if len(out) < n {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"only %d of %d location ids are free", len(out), n)
	}
	return out, nil
}

// Levels returns n mappings L1..Ln bound to fresh identifiers, ready for
// Assigner.AssignMultiLevel.
func (g *Generator) Levels(n int) ([]layout.LevelLocation, error) {
	ids, err := g.Next(n)
	if err != nil {
		return nil, err
	}
	out := make([]layout.LevelLocation, len(ids))
	for i, id := range ids {
		out[i] = layout.LevelLocation{LevelID: LevelID(i + 1), LocationID: id}
	}
	return out, nil
}
