// Package codegen derives human-readable location codes for newly placed
// items.
//
// Two forms exist. Hierarchical codes (WH-01-Z02-U007) are minted by the
// facility hierarchy when the drop names a facility zone. Legacy codes are a
// one-letter zone prefix plus the lowest free number (A1, R3, C12). The
// letter comes from the item type; storage items are bucketed by position
// into one of eight letters A-H.
package codegen

import (
	"context"
	"regexp"
	"strconv"

	"github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/facility"
	"github.com/matzehuels/floorplan/pkg/layout"
)

var (
	legacyRe       = regexp.MustCompile(`^[A-Z]\d+$`)
	hierarchicalRe = regexp.MustCompile(`^[A-Z]{2,3}-\d{2}(-[A-Z0-9]+)*$`)
)

// Bucket dimensions of the storage letter grid.
const (
	BucketWidth  = 200
	BucketHeight = 150
)

const storageLetters = "ABCDEFGH"

// Validate reports whether code is a well-formed legacy or hierarchical
// location code, returning MALFORMED_CODE otherwise.
func Validate(code string) error {
	if legacyRe.MatchString(code) || hierarchicalRe.MatchString(code) {
		return nil
	}
	return errors.New(errors.ErrCodeMalformedCode, "malformed location code %q", code)
}

// IsHierarchical reports whether code is in the facility-path form.
func IsHierarchical(code string) bool { return hierarchicalRe.MatchString(code) }

// FacilityContext ties a drop to the facility hierarchy.
type FacilityContext struct {
	// ZoneID is the facility node id of the zone the item is dropped into.
	ZoneID string

	// Name and Dimensions are passed through to the new facility node.
	Name       string
	Dimensions layout.Size
}

// Generator mints location codes.
type Generator struct {
	facilities facility.Hierarchy
}

// New returns a generator. A nil hierarchy restricts it to legacy codes.
func New(h facility.Hierarchy) *Generator {
	return &Generator{facilities: h}
}

// Generate returns the code for an item of type t dropped at (x, y), or an
// empty string for structural types. With a facility context the code is
// minted by the hierarchy under the context's zone; if that zone does not
// exist the legacy form is used instead.
func (g *Generator) Generate(ctx context.Context, t layout.ItemType, existing []*layout.Item, x, y int, fc *FacilityContext) (string, error) {
	if t.Structural() {
		return "", nil
	}
	if fc != nil && fc.ZoneID != "" && g.facilities != nil {
		code, err := g.hierarchical(ctx, t, x, y, fc)
		switch {
		case err == nil:
			return code, nil
		case !errors.Is(err, errors.ErrCodeNotFound):
			return "", err
		}
	}
	code := Legacy(t, existing, x, y)
	if err := Validate(code); err != nil {
		return "", err
	}
	return code, nil
}

func (g *Generator) hierarchical(ctx context.Context, t layout.ItemType, x, y int, fc *FacilityContext) (string, error) {
	zone, err := g.facilities.GetFacility(ctx, fc.ZoneID)
	if err != nil {
		return "", err
	}
	node, err := g.facilities.CreateFacility(ctx, facility.CreateRequest{
		Name:        fc.Name,
		Type:        string(t),
		Level:       zone.Level + 1,
		ParentID:    zone.ID,
		Coordinates: layout.Point{X: x, Y: y},
		Dimensions:  fc.Dimensions,
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "create facility under %s", zone.LocationCode)
	}
	if err := Validate(node.LocationCode); err != nil {
		return "", err
	}
	return node.LocationCode, nil
}

// Prefix returns the legacy zone letter for an item of type t at (x, y).
func Prefix(t layout.ItemType, x, y int) byte {
	switch t {
	case layout.TypeProductionArea, layout.TypeProcessingArea:
		return 'P'
	case layout.TypeReceivingZone:
		return 'R'
	case layout.TypeDispatchZone:
		return 'D'
	case layout.TypeOfficeZone:
		return 'O'
	case layout.TypeWarehouseBlock:
		return 'W'
	case layout.TypeContainer:
		return 'C'
	case layout.TypeStorageZone, layout.TypeStorageUnit, layout.TypeHorizontalRack, layout.TypeVerticalRack:
		return StorageLetter(x, y)
	default:
		return 'S'
	}
}

// StorageLetter buckets a position into one of the letters A-H on a grid of
// BucketWidth x BucketHeight cells, four columns per row.
func StorageLetter(x, y int) byte {
	col, row := max(x, 0)/BucketWidth, max(y, 0)/BucketHeight
	return storageLetters[(row*4+col)%len(storageLetters)]
}

// Legacy returns the lowest unused "<prefix><n>" code among existing.
func Legacy(t layout.ItemType, existing []*layout.Item, x, y int) string {
	p := Prefix(t, x, y)
	used := make(map[int]bool)
	for _, it := range existing {
		c := it.Code
		if len(c) < 2 || c[0] != p {
			continue
		}
		if n, err := strconv.Atoi(c[1:]); err == nil && legacyRe.MatchString(c) {
			used[n] = true
		}
	}
	n := 1
	for used[n] {
		n++
	}
	return string(p) + strconv.Itoa(n)
}
