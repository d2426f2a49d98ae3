package services

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestParseModel(t *testing.T) {
	doc := `{
  "uuid": "abc-123",
  "name": "Planta baja",
  "data": {"properties": {
    "1": {"type": 103090709, "Qto_WallBaseQuantities": {"NetVolume": {"value": 1.5}}},
    "2": {"type": 1484403080}
  }}
}`
	got, err := ParseModel(strings.NewReader(doc), "planta.JSON")
	if err != nil {
		t.Fatalf("ParseModel() error = %v", err)
	}
	if got.Model.ID != "abc-123" || got.Model.Name != "Planta baja" {
		t.Errorf("unexpected identity %+v", got.Model)
	}
	if !got.HasPropertyStore() || got.Location != "data.properties" || got.Records != 2 {
		t.Errorf("unexpected store info %+v", got)
	}

	// Numbers survive decoding as numbers.
	walls, _, err := NewWallTakeoff(nil, DefaultWallOptions(), nil).ExtractWalls(context.Background(), StaticSource{got.Model})
	if err != nil {
		t.Fatalf("ExtractWalls() error = %v", err)
	}
	if len(walls) != 1 || walls[0].NetVolume == nil || *walls[0].NetVolume != 1.5 {
		t.Errorf("unexpected walls %+v", walls)
	}
}

func TestParseModel_Fallbacks(t *testing.T) {
	got, err := ParseModel(strings.NewReader(`{"properties": {}}`), "uploads/edificio-b.json")
	if err != nil {
		t.Fatalf("ParseModel() error = %v", err)
	}
	if got.Model.Name != "edificio-b" {
		t.Errorf("expected file name fallback, got %q", got.Model.Name)
	}
	if got.Model.ID == "" {
		t.Error("expected a generated uuid")
	}
	if got.HasPropertyStore() {
		t.Error("an empty store is no store")
	}
}

func TestParseModel_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		content  string
	}{
		{"extension", "model.ifc", `{}`},
		{"invalid json", "model.json", `{"uuid":`},
		{"array", "model.json", `[]`},
		{"string", "model.json", `"model"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseModel(strings.NewReader(tt.content), tt.fileName); err == nil {
				t.Error("expected an error")
			}
		})
	}

	_, err := ParseModel(strings.NewReader(`{}`), "model.ifc")
	if !errors.Is(err, ErrUnsupportedModelFile) {
		t.Errorf("expected ErrUnsupportedModelFile, got %v", err)
	}
}
