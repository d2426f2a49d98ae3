package services

import "strings"

// nonPhysicalTypes are spatial, relational and definition entities that
// never carry takeoff quantities. Matching is by substring, so
// IfcBuildingStorey is caught by IfcBuilding as well.
var nonPhysicalTypes = []string{
	"IfcProject",
	"IfcSite",
	"IfcBuilding",
	"IfcBuildingStorey",
	"IfcSpace",
	"IfcOpeningElement",
	"IfcPropertySet",
	"IfcElementQuantity",
	"IfcRelationship",
	"IfcOwnerHistory",
	"IfcRepresentation",
	"IfcMaterial",
	"IfcPresentationStyle",
}

// IsPhysical is the generic path's opt-out filter.
func IsPhysical(typeName string) bool {
	for _, t := range nonPhysicalTypes {
		if strings.Contains(typeName, t) {
			return false
		}
	}
	return true
}

// IsWall is the wall path's opt-in match.
func IsWall(typeName string) bool {
	return typeName == "IfcWall" ||
		typeName == "IfcWallStandardCase" ||
		strings.Contains(typeName, "Wall")
}

// ElementKind selects which quantity convention applies to a type.
type ElementKind int

const (
	KindOther ElementKind = iota
	KindWall
	KindSlab
	KindColumn
	KindBeam
)

func (k ElementKind) String() string {
	switch k {
	case KindWall:
		return "wall"
	case KindSlab:
		return "slab"
	case KindColumn:
		return "column"
	case KindBeam:
		return "beam"
	default:
		return "other"
	}
}

// KindOf maps a resolved type name to its quantity convention.
func KindOf(typeName string) ElementKind {
	switch {
	case IsWall(typeName):
		return KindWall
	case strings.HasPrefix(typeName, "IfcSlab"):
		return KindSlab
	case strings.HasPrefix(typeName, "IfcColumn"):
		return KindColumn
	case strings.HasPrefix(typeName, "IfcBeam"):
		return KindBeam
	default:
		return KindOther
	}
}
