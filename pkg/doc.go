// Package pkg provides the core libraries for Floorplan warehouse layouts.
//
// # Overview
//
// Floorplan models a warehouse as nested rectangles: a facility boundary
// holds zones, zones hold storage units, racks and spare slots. Units are
// bound to location identifiers that must be unique across the facility.
// The pkg directory is organized into four main areas:
//
//  1. Geometry - [grid], [layout], [containment], [collision]
//  2. Locations - [locations], [codegen], [facility]
//  3. Editing - [batch], [designer], [crop]
//  4. Output and storage - [io], [render], [cache], [pipeline]
//
// # Architecture
//
// The typical data flow through Floorplan:
//
//	layout file / API request
//	         ↓
//	    [designer] session (place, fill, assign, undo)
//	         ↓
//	    [crop] (shift content to the padding)
//	         ↓
//	    [pipeline] (store, export cache)
//	         ↓
//	    SVG/PNG/PDF/JSON/CSV output
//
// # Quick Start
//
// Open a layout, fill a zone and export it:
//
//	import (
//	    "github.com/matzehuels/floorplan/pkg/crop"
//	    "github.com/matzehuels/floorplan/pkg/designer"
//	    "github.com/matzehuels/floorplan/pkg/layout"
//	    "github.com/matzehuels/floorplan/pkg/render/sink"
//	)
//
//	sess := designer.New()
//	if err := sess.Open(items); err != nil {
//	    return err
//	}
//	tmpl := layout.Template{Type: layout.TypeStorageUnit, Width: 60, Height: 60, Rows: 2, Columns: 2}
//	if _, err := sess.Generate(ctx, "z1", tmpl); err != nil {
//	    return err
//	}
//	svg := sink.RenderSVG(crop.Crop(sess.Items(), 20))
//
// # Main Packages
//
// [grid] - Snapping positions and sizes to the placement grid. Structural
// items snap on a fine grid, everything else on the coarse one.
//
// [layout] - Item, template and assignment types plus the spatial item
// store with its per-archetype zone counters.
//
// [containment] - Which container level may hold which item, and the
// container lookup for a drop point.
//
// [collision] - Overlap detection between siblings and the stacking targets
// of a dragged item.
//
// [locations] - The facility-wide identifier cache and the assignment
// operations that keep it consistent.
//
// [codegen] - Location code grammar and generation, hierarchical when a
// [facility] hierarchy is available.
//
// [batch] - Grid fills of zones and the per-archetype template catalog.
//
// [designer] - Editing sessions with bounded undo.
//
// [crop] - Bounding box and translation of a layout.
//
// [io] - The layout document format.
//
// [render] - Floor plan sinks and containment diagrams.
//
// [cache] - Layout and export stores (file, memory, Redis, MongoDB).
//
// [pipeline] - Save, load and export used by both CLI and API.
//
// [grid]: https://pkg.go.dev/github.com/matzehuels/floorplan/pkg/grid
// [layout]: https://pkg.go.dev/github.com/matzehuels/floorplan/pkg/layout
// [containment]: https://pkg.go.dev/github.com/matzehuels/floorplan/pkg/containment
// [collision]: https://pkg.go.dev/github.com/matzehuels/floorplan/pkg/collision
// [locations]: https://pkg.go.dev/github.com/matzehuels/floorplan/pkg/locations
// [codegen]: https://pkg.go.dev/github.com/matzehuels/floorplan/pkg/codegen
// [facility]: https://pkg.go.dev/github.com/matzehuels/floorplan/pkg/facility
// [batch]: https://pkg.go.dev/github.com/matzehuels/floorplan/pkg/batch
// [designer]: https://pkg.go.dev/github.com/matzehuels/floorplan/pkg/designer
// [crop]: https://pkg.go.dev/github.com/matzehuels/floorplan/pkg/crop
// [io]: https://pkg.go.dev/github.com/matzehuels/floorplan/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/floorplan/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/floorplan/pkg/cache
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/floorplan/pkg/pipeline
package pkg
