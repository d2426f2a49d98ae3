package services

// Path identifies which extraction policy is asking.
type Path int

const (
	GenericPath Path = iota
	WallPath
)

// Fallback names when a record has no usable name field.
const (
	UnnamedElement = "Sin nombre"
	UnnamedWall    = "Muro sin nombre"
)

// firstText returns the first non-blank text among the named record fields.
func firstText(record RawElementRecord, fields ...string) (string, bool) {
	for _, f := range fields {
		if s, ok := record.Get(f).String(); ok {
			return s, true
		}
	}
	return "", false
}

// ResolveName picks a display name for the element.
func ResolveName(record RawElementRecord, path Path) string {
	if path == WallPath {
		if s, ok := firstText(record, "Name", "LongName", "Tag"); ok {
			return s
		}
		return UnnamedWall
	}
	if s, ok := firstText(record, "Name", "LongName", "Tag", "ObjectType"); ok {
		return s
	}
	return UnnamedElement
}

// ResolveGlobalID returns the stable cross-session identifier, if any.
func ResolveGlobalID(record RawElementRecord) *string {
	s, ok := record.Get("GlobalId").String()
	if !ok {
		return nil
	}
	return &s
}

// ResolveMaterial walks the material chain: Pset_MaterialCommon.Material,
// then ObjectType, then PredefinedType (generic) or Tag (wall).
func ResolveMaterial(record RawElementRecord, path Path) *string {
	if pset := findPropertySet(record, PsetMaterialCommon); pset != nil {
		if s, ok := pset.value("Material").String(); ok {
			return &s
		}
	}
	last := "PredefinedType"
	if path == WallPath {
		last = "Tag"
	}
	if s, ok := firstText(record, "ObjectType", last); ok {
		return &s
	}
	return nil
}
