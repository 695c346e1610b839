package sink

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/matzehuels/floorplan/pkg/layout"
	"github.com/matzehuels/floorplan/pkg/locations"
)

// CSVHeader is the first row written by RenderCSV.
var CSVHeader = []string{"location_id", "item_id", "item_type", "item_code", "compartment", "level", "x", "y"}

// RenderCSV lists every bound location identifier, one row each, in store
// order. Single slots have an empty compartment; rack levels name their
// level id. Legacy rack encodings on the item are expanded.
func RenderCSV(items []*layout.Item) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(CSVHeader); err != nil {
		return nil, err
	}
	for _, it := range items {
		for _, row := range locationRows(it) {
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func locationRows(it *layout.Item) [][]string {
	row := func(loc, key, level string) []string {
		return []string{loc, it.ID, string(it.Type), it.Code, key, level, strconv.Itoa(it.X), strconv.Itoa(it.Y)}
	}
	var rows [][]string
	if it.Type.MultiLevel() && len(it.CompartmentContents) == 0 {
		for _, m := range locations.LevelMappings(it) {
			rows = append(rows, row(m.LocationID, "", m.LevelID))
		}
		return rows
	}
	if it.LocationID != "" {
		rows = append(rows, row(it.LocationID, "", ""))
	}
	for _, key := range it.CompartmentContents.Keys() {
		switch a := it.CompartmentContents[key].(type) {
		case *layout.SingleLocation:
			rows = append(rows, row(a.LocationID, key, ""))
		case *layout.MultiLocation:
			if len(a.LevelLocationMappings) == 0 {
				for i, loc := range a.LocationIDs {
					level := ""
					if i < len(a.LevelIDs) {
						level = a.LevelIDs[i]
					}
					rows = append(rows, row(loc, key, level))
				}
				continue
			}
			for _, m := range a.LevelLocationMappings {
				rows = append(rows, row(m.LocationID, key, m.LevelID))
			}
		}
	}
	return rows
}
