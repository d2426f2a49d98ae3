package services

import (
	"encoding/json"
	"testing"
)

func TestDecodeValue(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want PropertyValue
	}{
		{"bare number", 12.5, Scalar(12.5)},
		{"wrapped number", map[string]any{"value": 12.5}, Scalar(12.5)},
		{"wrapped zero", map[string]any{"value": 0.0}, Scalar(0)},
		{"json number", json.Number("3.25"), Scalar(3.25)},
		{"int", 7, Scalar(7)},
		{"bare string", "Muro", Text("Muro")},
		{"wrapped string", map[string]any{"value": "Muro"}, Text("Muro")},
		{"bool", true, Text("true")},
		{"nil", nil, Unknown},
		{"object without value", map[string]any{"type": 1}, Unknown},
		{"wrapped null", map[string]any{"value": nil}, Unknown},
		{"array", []any{1.0}, Unknown},
		{"bad json number", json.Number("x"), Unknown},
		{"double wrapped", map[string]any{"value": map[string]any{"value": 1.0}}, Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeValue(tt.raw); got != tt.want {
				t.Errorf("DecodeValue(%v) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestPropertyValue_Float(t *testing.T) {
	if f, ok := Scalar(0).Float(); !ok || f != 0 {
		t.Errorf("zero must be a known number, got %v %v", f, ok)
	}
	if _, ok := Text("12").Float(); ok {
		t.Error("text must not be coerced to a number")
	}
	if Unknown.FloatPtr() != nil {
		t.Error("unknown must have a nil pointer")
	}
	if p := Scalar(2.5).FloatPtr(); p == nil || *p != 2.5 {
		t.Errorf("unexpected pointer %v", p)
	}
}

func TestPropertyValue_String(t *testing.T) {
	tests := []struct {
		name   string
		value  PropertyValue
		want   string
		wantOK bool
	}{
		{"text", Text("Ladrillo"), "Ladrillo", true},
		{"blank text", Text("   "), "", false},
		{"scalar", Scalar(3), "3", true},
		{"fraction", Scalar(0.25), "0.25", true},
		{"unknown", Unknown, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.value.String()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("String() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
