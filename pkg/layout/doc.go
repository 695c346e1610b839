// Package layout defines the data model of a warehouse floor plan and the
// store that owns the placed items of one open layout.
//
// # Data Model
//
// An [Item] is a placed component: a floor-plan boundary (level 1), a zone
// (level 2), a unit such as a rack or storage unit (level 3), or a structural
// element without a level. Containment is expressed by reference: an item's
// ContainerID names the item one level above it. There is no nested tree.
//
// Compartmentalized units carry a [Compartments] map from "<row>-<col>" keys
// to an [Assignment], which is either a [*SingleLocation] or, for vertical
// racks, a [*MultiLocation] binding one location per level.
//
// # Store
//
// [Store] is a flat arena keyed by item id. It keeps an [IdentifierIndex] in
// step with its items so that location identifiers stay unique across the
// whole layout:
//
//	store := layout.NewStore(locations.NewCache())
//	if err := store.Load(doc.Items); err != nil {
//	    return err // DUPLICATE_IDENTIFIER for an inconsistent layout
//	}
//	for _, unit := range store.Children(zone.ID) {
//	    fmt.Println(unit.ID, unit.Code)
//	}
//
// # Mutations
//
// [Move] and [Resize] are pure: they return an updated copy of the item or a
// structured error, and the caller commits the copy with [Store.Replace].
// Positions are snapped with [ResolveGridSize]; sizes are snapped to the
// item's grid step and clamped to its size limits.
package layout
