package locations

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/floorplan/pkg/layout"
)

var compactRe = regexp.MustCompile(`^(.+)\+(\d+)$`)

// ParseCompact splits the legacy compact rack encoding "<base>+<N>", which
// stands for the base level plus N derived levels. ok is false when s is
// not in compact form.
func ParseCompact(s string) (base string, extra int, ok bool) {
	m := compactRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", 0, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil || n > MaxLevels-1 {
		return "", 0, false
	}
	return m[1], n, true
}

// ExpandCompact lists the identifiers a compact encoding stands for:
// "LOC-010+2" expands to LOC-010, LOC-010-2, LOC-010-3.
func ExpandCompact(s string) ([]string, bool) {
	base, extra, ok := ParseCompact(s)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, extra+1)
	out = append(out, base)
	for i := 2; i <= extra+1; i++ {
		out = append(out, base+"-"+strconv.Itoa(i))
	}
	return out, true
}

// InferLevelCount reports how many level/location pairs a vertical rack
// currently carries. Encodings are consulted in a fixed order and the first
// one present decides:
//
//  1. item-level levelLocationMappings;
//  2. item-level parallel levelIds/locationIds arrays;
//  3. multi-location compartments (the largest one);
//  4. a compact "<base>+<N>" locationId (1+N);
//  5. a plain locationId (1).
//
// Conflicting encodings are not reconciled. The result depends only on the
// item's contents.
func InferLevelCount(it *layout.Item) int {
	if len(it.LevelLocationMappings) > 0 {
		return countMappings(it.LevelLocationMappings)
	}
	if len(it.LevelIDs) > 0 || len(it.LocationIDs) > 0 {
		return countParallel(it.LevelIDs, it.LocationIDs)
	}
	best := 0
	for _, key := range it.CompartmentContents.Keys() {
		m, ok := it.CompartmentContents[key].(*layout.MultiLocation)
		if !ok {
			continue
		}
		n := countMappings(m.LevelLocationMappings)
		if n == 0 {
			n = countParallel(m.LevelIDs, m.LocationIDs)
		}
		best = max(best, n)
	}
	if best > 0 {
		return best
	}
	if _, extra, ok := ParseCompact(it.LocationID); ok {
		return 1 + extra
	}
	if strings.TrimSpace(it.LocationID) != "" {
		return 1
	}
	return 0
}

// LevelMappings reconstructs the level/location pairs of a rack from the
// same encodings InferLevelCount reads, in the same order. Compact
// encodings are expanded; levels are numbered L1.. where the source has no
// level ids.
func LevelMappings(it *layout.Item) []layout.LevelLocation {
	if len(it.LevelLocationMappings) > 0 {
		return dedupe(it.LevelLocationMappings)
	}
	if len(it.LevelIDs) > 0 || len(it.LocationIDs) > 0 {
		return dedupe(zip(it.LevelIDs, it.LocationIDs))
	}
	var best []layout.LevelLocation
	for _, key := range it.CompartmentContents.Keys() {
		m, ok := it.CompartmentContents[key].(*layout.MultiLocation)
		if !ok {
			continue
		}
		pairs := dedupe(m.LevelLocationMappings)
		if len(pairs) == 0 {
			pairs = dedupe(zip(m.LevelIDs, m.LocationIDs))
		}
		if len(pairs) > len(best) {
			best = pairs
		}
	}
	if len(best) > 0 {
		return best
	}
	ids, ok := ExpandCompact(it.LocationID)
	if !ok {
		if id := strings.TrimSpace(it.LocationID); id != "" {
			ids = []string{id}
		}
	}
	out := make([]layout.LevelLocation, len(ids))
	for i, id := range ids {
		out[i] = layout.LevelLocation{LevelID: LevelID(i + 1), LocationID: id}
	}
	return out
}

func countMappings(ms []layout.LevelLocation) int { return len(dedupe(ms)) }

// countParallel counts distinct zipped pairs. When one array is empty the
// distinct entries of the other are counted.
func countParallel(levels, locs []string) int {
	switch {
	case len(levels) == 0:
		return len(distinct(locs))
	case len(locs) == 0:
		return len(distinct(levels))
	}
	return len(dedupe(zip(levels, locs)))
}

func zip(levels, locs []string) []layout.LevelLocation {
	n := max(len(levels), len(locs))
	out := make([]layout.LevelLocation, n)
	for i := range n {
		if i < len(levels) {
			out[i].LevelID = levels[i]
		} else {
			out[i].LevelID = LevelID(i + 1)
		}
		if i < len(locs) {
			out[i].LocationID = locs[i]
		}
	}
	return out
}

func dedupe(ms []layout.LevelLocation) []layout.LevelLocation {
	seen := make(map[layout.LevelLocation]bool, len(ms))
	var out []layout.LevelLocation
	for _, m := range ms {
		if m.LevelID == "" && m.LocationID == "" {
			continue
		}
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

func distinct(ss []string) []string {
	seen := make(map[string]bool, len(ss))
	var out []string
	for _, s := range ss {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
