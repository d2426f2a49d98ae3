package services

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Well-known IFC entity type codes.
const (
	TypeCodeWall             int64 = 103090709
	TypeCodeWallStandardCase int64 = 3856911033
	TypeCodeMember           int64 = 1073191201
	TypeCodeColumn           int64 = 3495092785
	TypeCodeBeam             int64 = 1335981549
	TypeCodeSlab             int64 = 1484403080
	TypeCodeSlabStandardCase int64 = 3127900445
	TypeCodeFooting          int64 = 900683007
	TypeCodeRoof             int64 = 2016517767
	TypeCodeStair            int64 = 331165859
	TypeCodeDoor             int64 = 395920057
	TypeCodeWindow           int64 = 3304561284
	TypeCodeCovering         int64 = 2391406946
	TypeCodePlate            int64 = 1260505505
	TypeCodePipeSegment      int64 = 3612865200
	TypeCodeDuctSegment      int64 = 3518393246
)

// DefaultTypeNames returns a fresh copy of the built-in code table.
func DefaultTypeNames() map[int64]string {
	return map[int64]string{
		TypeCodeWall:             "IfcWall",
		TypeCodeWallStandardCase: "IfcWallStandardCase",
		TypeCodeMember:           "IfcMember",
		TypeCodeColumn:           "IfcColumn",
		TypeCodeBeam:             "IfcBeam",
		TypeCodeSlab:             "IfcSlab",
		TypeCodeSlabStandardCase: "IfcSlabStandardCase",
		TypeCodeFooting:          "IfcFooting",
		TypeCodeRoof:             "IfcRoof",
		TypeCodeStair:            "IfcStair",
		TypeCodeDoor:             "IfcDoor",
		TypeCodeWindow:           "IfcWindow",
		TypeCodeCovering:         "IfcCovering",
		TypeCodePlate:            "IfcPlate",
		TypeCodePipeSegment:      "IfcPipeSegment",
		TypeCodeDuctSegment:      "IfcDuctSegment",
	}
}

// TypeResolver maps numeric type codes to names. It is immutable once
// built, so one resolver can be shared between requests.
type TypeResolver struct {
	names map[int64]string
}

// NewTypeResolver builds a resolver from the default table plus the given
// overrides. Blank override names are ignored.
func NewTypeResolver(overrides map[int64]string) *TypeResolver {
	names := DefaultTypeNames()
	for code, name := range overrides {
		if name == "" {
			continue
		}
		names[code] = name
	}
	return &TypeResolver{names: names}
}

// With returns a new resolver with extra overrides applied on top.
func (r *TypeResolver) With(overrides map[int64]string) *TypeResolver {
	names := make(map[int64]string, len(r.names)+len(overrides))
	for code, name := range r.names {
		names[code] = name
	}
	for code, name := range overrides {
		if name != "" {
			names[code] = name
		}
	}
	return &TypeResolver{names: names}
}

// Resolve is total: unknown codes format as "Type-<code>".
func (r *TypeResolver) Resolve(code int64) string {
	if name, ok := r.names[code]; ok {
		return name
	}
	return fmt.Sprintf("Type-%d", code)
}

type typeCodesFile struct {
	Types map[int64]string `yaml:"types"`
}

// ParseTypeCodes reads a YAML document of the form
//
//	types:
//	  103090709: IfcWall
func ParseTypeCodes(r io.Reader) (map[int64]string, error) {
	var doc typeCodesFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return map[int64]string{}, nil
		}
		return nil, fmt.Errorf("parse type codes: %w", err)
	}
	if doc.Types == nil {
		doc.Types = map[int64]string{}
	}
	return doc.Types, nil
}

// LoadTypeCodesFile reads type-code overrides from a YAML file.
func LoadTypeCodesFile(path string) (map[int64]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open type codes file: %w", err)
	}
	defer f.Close()
	return ParseTypeCodes(f)
}
