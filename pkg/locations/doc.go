// Package locations binds location identifiers to item slots and keeps them
// unique across a layout.
//
// A slot is either the single location of a spare unit, warehouse block or
// container, or one compartment ("<row>-<col>") of a compartmentalized unit.
// Vertical rack compartments bind one identifier per level (L1..L999).
//
// [Cache] records which slot holds each normalized identifier. It is owned by
// the layout.Store of the open layout and rebuilt whenever a layout loads.
// [Assigner] performs the slot transitions (Empty → Assigned → Empty, with
// edits treated as remove-then-assign) and validates each request fully
// before it mutates the item or the cache, so a rejected request changes
// nothing:
//
//	cache := locations.NewCache()
//	store := layout.NewStore(cache)
//	_ = store.Load(items)
//
//	a := locations.NewAssigner(cache)
//	updated, err := a.AssignCompartment(unit, "0-0", "LOC-003", 0, 0)
//	if errors.Is(err, errors.ErrCodeDuplicateIdentifier) {
//	    // LOC-003 is held by another slot; unit and cache are untouched.
//	}
//	_ = store.Replace(updated)
//
// [Generator] suggests free identifiers from LOC-001..LOC-9999, and
// [InferLevelCount] reconstructs the level count of racks saved with older
// encodings.
package locations
