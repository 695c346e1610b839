package layout

import "strings"

// ItemType identifies the kind of component placed in a layout.
type ItemType string

// Floor-plan boundary (level 1).
const (
	TypeBoundary ItemType = "boundary"
)

// Zone archetypes and zone-level areas (level 2).
const (
	TypeStorageZone    ItemType = "storage_zone"
	TypeReceivingZone  ItemType = "receiving_zone"
	TypeDispatchZone   ItemType = "dispatch_zone"
	TypeTransitZone    ItemType = "transit_zone"
	TypeOfficeZone     ItemType = "office_zone"
	TypeProductionArea ItemType = "production_area"
	TypeProcessingArea ItemType = "processing_area"
)

// Units (level 3).
const (
	TypeStorageUnit    ItemType = "storage_unit"
	TypeHorizontalRack ItemType = "horizontal_rack"
	TypeVerticalRack   ItemType = "vertical_rack"
	TypeSpareUnit      ItemType = "spare_unit"
	TypeWarehouseBlock ItemType = "warehouse_block"
	TypeContainer      ItemType = "container"
)

// Structural and decorative elements (no level).
const (
	TypeWall  ItemType = "wall"
	TypeLine  ItemType = "line"
	TypeLabel ItemType = "label"
)

// Container levels.
const (
	LevelNone     = 0
	LevelBoundary = 1
	LevelZone     = 2
	LevelUnit     = 3
)

// AllTypes lists every known item type in a stable order.
var AllTypes = []ItemType{
	TypeBoundary,
	TypeStorageZone, TypeReceivingZone, TypeDispatchZone, TypeTransitZone, TypeOfficeZone,
	TypeProductionArea, TypeProcessingArea,
	TypeStorageUnit, TypeHorizontalRack, TypeVerticalRack, TypeSpareUnit, TypeWarehouseBlock, TypeContainer,
	TypeWall, TypeLine, TypeLabel,
}

// ParseType converts s to an ItemType, accepting dashes and any case.
func ParseType(s string) (ItemType, bool) {
	t := ItemType(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	return t, t.Valid()
}

// Valid reports whether t is a known item type.
func (t ItemType) Valid() bool {
	for _, k := range AllTypes {
		if k == t {
			return true
		}
	}
	return false
}

// Level returns the container level the type occupies in the hierarchy.
func (t ItemType) Level() int {
	switch t {
	case TypeBoundary:
		return LevelBoundary
	case TypeStorageZone, TypeReceivingZone, TypeDispatchZone, TypeTransitZone, TypeOfficeZone,
		TypeProductionArea, TypeProcessingArea:
		return LevelZone
	case TypeStorageUnit, TypeHorizontalRack, TypeVerticalRack, TypeSpareUnit, TypeWarehouseBlock, TypeContainer:
		return LevelUnit
	default:
		return LevelNone
	}
}

// IsContainerType reports whether items of this type hold other items.
func (t ItemType) IsContainerType() bool {
	l := t.Level()
	return l == LevelBoundary || l == LevelZone
}

// RequiresContainer reports whether the type may only be placed inside a
// container one level above it.
func (t ItemType) RequiresContainer() bool {
	l := t.Level()
	return l == LevelZone || l == LevelUnit
}

// Structural reports whether the type is a structural or decorative element
// without inventory meaning.
func (t ItemType) Structural() bool {
	return t == TypeWall || t == TypeLine || t == TypeLabel
}

// SnapsFine reports whether the type is always positioned on the fine grid.
func (t ItemType) SnapsFine() bool {
	return t == TypeBoundary || t == TypeWall || t == TypeLine
}

// Compartmentalized reports whether the type is subdivided into addressable
// compartments.
func (t ItemType) Compartmentalized() bool {
	return t == TypeStorageUnit || t == TypeHorizontalRack || t == TypeVerticalRack
}

// MultiLevel reports whether compartments of this type bind one location per
// vertical level.
func (t ItemType) MultiLevel() bool { return t == TypeVerticalRack }

// SingleSlot reports whether the type carries exactly one location identifier.
func (t ItemType) SingleSlot() bool {
	return t == TypeSpareUnit || t == TypeWarehouseBlock || t == TypeContainer
}

// Archetype is one of the five zone kinds that receive auto-generated labels.
type Archetype int

// Zone archetypes.
const (
	ArchetypeNone Archetype = iota - 1
	ArchetypeStorage
	ArchetypeReceiving
	ArchetypeDispatch
	ArchetypeTransit
	ArchetypeOffice
	archetypeCount
)

var archetypeNames = [archetypeCount]string{"Storage", "Receiving", "Dispatch", "Transit", "Office"}

// String returns the display name of the archetype.
func (a Archetype) String() string {
	if a < 0 || a >= archetypeCount {
		return ""
	}
	return archetypeNames[a]
}

// ZoneArchetype returns the archetype of a zone type, or ArchetypeNone.
func (t ItemType) ZoneArchetype() Archetype {
	switch t {
	case TypeStorageZone:
		return ArchetypeStorage
	case TypeReceivingZone:
		return ArchetypeReceiving
	case TypeDispatchZone:
		return ArchetypeDispatch
	case TypeTransitZone:
		return ArchetypeTransit
	case TypeOfficeZone:
		return ArchetypeOffice
	default:
		return ArchetypeNone
	}
}
