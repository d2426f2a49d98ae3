package services

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ValueKind tags the shape a decoded property value ended up in.
type ValueKind int

const (
	ValueUnknown ValueKind = iota
	ValueScalar
	ValueText
)

// PropertyValue is the single decoded form of a model property. Sources
// expose the same property either wrapped ({"value": 12.5}) or bare (12.5);
// both decode to the same PropertyValue, and anything else is Unknown.
type PropertyValue struct {
	Kind   ValueKind
	Number float64
	Str    string
}

// Unknown is the only legal representation of a missing value.
var Unknown = PropertyValue{Kind: ValueUnknown}

// Scalar wraps a number.
func Scalar(v float64) PropertyValue {
	return PropertyValue{Kind: ValueScalar, Number: v}
}

// Text wraps a string.
func Text(s string) PropertyValue {
	return PropertyValue{Kind: ValueText, Str: s}
}

// DecodeValue turns a raw property (as produced by encoding/json) into a
// PropertyValue. A wrapped value is unwrapped exactly once.
func DecodeValue(raw any) PropertyValue {
	if obj, ok := raw.(map[string]any); ok {
		inner, present := obj["value"]
		if !present {
			return Unknown
		}
		return decodeBare(inner)
	}
	return decodeBare(raw)
}

func decodeBare(raw any) PropertyValue {
	switch v := raw.(type) {
	case float64:
		return Scalar(v)
	case float32:
		return Scalar(float64(v))
	case int:
		return Scalar(float64(v))
	case int64:
		return Scalar(float64(v))
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return Unknown
		}
		return Scalar(f)
	case string:
		return Text(v)
	case bool:
		return Text(strconv.FormatBool(v))
	default:
		return Unknown
	}
}

// Float returns the numeric value. Text is never coerced.
func (v PropertyValue) Float() (float64, bool) {
	if v.Kind != ValueScalar {
		return 0, false
	}
	return v.Number, true
}

// FloatPtr is Float shaped for optional quantity fields.
func (v PropertyValue) FloatPtr() *float64 {
	f, ok := v.Float()
	if !ok {
		return nil
	}
	return &f
}

// String renders text values as-is and scalars in their shortest form.
// Blank text is reported as absent.
func (v PropertyValue) String() (string, bool) {
	switch v.Kind {
	case ValueText:
		if strings.TrimSpace(v.Str) == "" {
			return "", false
		}
		return v.Str, true
	case ValueScalar:
		return strconv.FormatFloat(v.Number, 'f', -1, 64), true
	default:
		return "", false
	}
}
