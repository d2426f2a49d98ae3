package services

import (
	"math"
	"sort"
)

// Conventional property set names.
const (
	QtoWallBaseQuantities   = "Qto_WallBaseQuantities"
	QtoSlabBaseQuantities   = "Qto_SlabBaseQuantities"
	QtoColumnBaseQuantities = "Qto_ColumnBaseQuantities"
	QtoBeamBaseQuantities   = "Qto_BeamBaseQuantities"
	PsetMaterialCommon      = "Pset_MaterialCommon"
)

// QuantitySet holds the measurements of one element. A nil field is an
// unknown value, never zero.
type QuantitySet struct {
	Area      *float64 `json:"area"`
	Volume    *float64 `json:"volume"`
	Length    *float64 `json:"length"`
	Height    *float64 `json:"height"`
	Width     *float64 `json:"width"`
	Thickness *float64 `json:"thickness"`
}

// IsEmpty reports whether no quantity was found.
func (q QuantitySet) IsEmpty() bool {
	return q.Area == nil && q.Volume == nil && q.Length == nil &&
		q.Height == nil && q.Width == nil && q.Thickness == nil
}

// propertySet is a decoded view over one named set on a record.
type propertySet map[string]any

func (p propertySet) value(field string) PropertyValue {
	if p == nil {
		return Unknown
	}
	return DecodeValue(p[field])
}

func (p propertySet) number(field string) *float64 {
	return p.value(field).FloatPtr()
}

// firstNumber returns the first present field. Presence decides, so a
// present 0 wins over a later fallback.
func (p propertySet) firstNumber(fields ...string) *float64 {
	for _, f := range fields {
		if v := p.number(f); v != nil {
			return v
		}
	}
	return nil
}

// findPropertySet looks the set up as a direct key first, then among
// nested objects whose Name decodes to the set name. Nested candidates are
// scanned in key order so the result is deterministic.
func findPropertySet(record RawElementRecord, name string) propertySet {
	if obj, ok := record[name].(map[string]any); ok {
		return propertySet(obj)
	}
	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		obj, ok := record[k].(map[string]any)
		if !ok {
			continue
		}
		if n, ok := DecodeValue(obj["Name"]).String(); ok && n == name {
			return propertySet(obj)
		}
	}
	return nil
}

// ExtractQuantities reads the type-conventional quantity set of a record
// for the generic path. Types without a convention yield an empty set.
func ExtractQuantities(record RawElementRecord, typeName string) QuantitySet {
	var q QuantitySet
	switch KindOf(typeName) {
	case KindWall:
		qto := findPropertySet(record, QtoWallBaseQuantities)
		q.Area = qto.firstNumber("NetSideArea", "GrossSideArea")
		q.Volume = qto.firstNumber("NetVolume", "GrossVolume")
		q.Length = qto.number("Length")
		q.Height = qto.number("Height")
		q.Width = qto.number("Width")
	case KindSlab:
		qto := findPropertySet(record, QtoSlabBaseQuantities)
		q.Area = qto.firstNumber("NetArea", "GrossArea")
		q.Volume = qto.firstNumber("NetVolume", "GrossVolume")
		q.Thickness = qto.firstNumber("Thickness", "Width")
	case KindColumn:
		qto := findPropertySet(record, QtoColumnBaseQuantities)
		q.Volume = qto.firstNumber("NetVolume", "GrossVolume")
		q.Length = qto.number("Length")
		q.Height = qto.number("Height")
	case KindBeam:
		qto := findPropertySet(record, QtoBeamBaseQuantities)
		q.Volume = qto.firstNumber("NetVolume", "GrossVolume")
		q.Length = qto.number("Length")
	}
	return q
}

// WallOptions configures the wall path.
type WallOptions struct {
	// UseNetArea picks NetSideArea; otherwise GrossSideArea. There is no
	// fallback between the two on this path.
	UseNetArea bool
	// DeriveMissingArea fills an absent area with length × height.
	DeriveMissingArea bool
}

// DefaultWallOptions matches the behaviour users of the wall report expect.
func DefaultWallOptions() WallOptions {
	return WallOptions{UseNetArea: true, DeriveMissingArea: true}
}

// WallQuantities are the raw wall measurements before derivation.
type WallQuantities struct {
	GrossVolume *float64
	NetVolume   *float64
	Area        *float64
	Length      *float64
	Height      *float64
	Width       *float64
	Found       bool
}

// ExtractWallQuantities reads Qto_WallBaseQuantities for the wall path.
func ExtractWallQuantities(record RawElementRecord, opts WallOptions) WallQuantities {
	qto := findPropertySet(record, QtoWallBaseQuantities)
	if qto == nil {
		return WallQuantities{}
	}
	areaField := "GrossSideArea"
	if opts.UseNetArea {
		areaField = "NetSideArea"
	}
	return WallQuantities{
		GrossVolume: qto.number("GrossVolume"),
		NetVolume:   qto.number("NetVolume"),
		Area:        qto.number(areaField),
		Length:      qto.number("Length"),
		Height:      qto.number("Height"),
		Width:       qto.number("Width"),
		Found:       true,
	}
}

// DeriveSurfaceArea returns length × height when both are known and the
// product is finite.
func DeriveSurfaceArea(length, height *float64) *float64 {
	if length == nil || height == nil {
		return nil
	}
	area := *length * *height
	if math.IsInf(area, 0) || math.IsNaN(area) {
		return nil
	}
	return &area
}
