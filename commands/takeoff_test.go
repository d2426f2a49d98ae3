package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"takeoff/config"
)

const wallModel = `{
  "uuid": "cli-model",
  "data": {"properties": {
    "1": {"type": 103090709, "Name": {"value": "Muro 1"},
          "Qto_WallBaseQuantities": {"NetVolume": {"value": 1.5}, "NetSideArea": {"value": 12}}},
    "2": {"type": 3856911033, "Name": {"value": "Muro 2"},
          "Qto_WallBaseQuantities": {"GrossVolume": {"value": 2}, "Length": {"value": 4}, "Height": {"value": 2.5}}},
    "3": {"type": 1484403080, "Qto_SlabBaseQuantities": {"NetArea": {"value": 40}}},
    "4": {"type": 395920057}
  }}
}`

func writeModel(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunTakeoff_TypeSummaryCSV(t *testing.T) {
	var out bytes.Buffer
	err := RunTakeoff(t.Context(), nil, zap.NewNop(), []string{writeModel(t, wallModel)}, &TakeoffOptions{Format: "csv"}, &out)
	if err != nil {
		t.Fatalf("RunTakeoff() error = %v", err)
	}

	// The CLI reports every physical type, doors included.
	want := "Tipo,Unidades,Area (m2),Volumen (m3)\n" +
		"IfcWall,1,12.00,1.50\n" +
		"IfcWallStandardCase,1,0.00,2.00\n" +
		"IfcSlab,1,40.00,0.00\n" +
		"IfcDoor,1,0.00,0.00\n"
	if out.String() != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", out.String(), want)
	}
}

func TestRunTakeoff_WallsJSON(t *testing.T) {
	var out bytes.Buffer
	err := RunTakeoff(t.Context(), config.FromMap(nil), nil, []string{writeModel(t, wallModel)}, &TakeoffOptions{Walls: true, Format: "json"}, &out)
	if err != nil {
		t.Fatalf("RunTakeoff() error = %v", err)
	}

	var doc struct {
		Count     int     `json:"count"`
		TotalArea float64 `json:"totalArea"`
	}
	if err := json.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc.Count != 2 || doc.TotalArea != 22 {
		t.Errorf("unexpected summary %+v", doc)
	}
}

func TestRunTakeoff_WallsCSVWithoutDerivation(t *testing.T) {
	cfg := config.FromMap(map[string]string{config.EnvWallDeriveArea: "false"})
	var out bytes.Buffer
	err := RunTakeoff(t.Context(), cfg, nil, []string{writeModel(t, wallModel)}, &TakeoffOptions{Walls: true, Format: "csv"}, &out)
	if err != nil {
		t.Fatalf("RunTakeoff() error = %v", err)
	}
	if !strings.Contains(out.String(), "Muro 2,2.00,-,4.00,2.50,-,-\n") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestRunTakeoff_ElementDetailCSV(t *testing.T) {
	var out bytes.Buffer
	err := RunTakeoff(t.Context(), nil, nil, []string{writeModel(t, wallModel)}, &TakeoffOptions{Elements: true, Format: "csv"}, &out)
	if err != nil {
		t.Fatalf("RunTakeoff() error = %v", err)
	}

	want := "Modelo,Id,Tipo,Nombre,Area (m2),Volumen (m3),Longitud (m)\n" +
		"cli-model,1,IfcWall,Muro 1,12.00,1.50,-\n" +
		"cli-model,2,IfcWallStandardCase,Muro 2,-,2.00,4.00\n" +
		"cli-model,3,IfcSlab,Sin nombre,40.00,-,-\n" +
		"cli-model,4,IfcDoor,Sin nombre,-,-,-\n"
	if out.String() != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", out.String(), want)
	}
}

func TestRunTakeoff_TypeFilter(t *testing.T) {
	tests := []struct {
		name string
		opts TakeoffOptions
		want string
	}{
		{
			name: "summary",
			opts: TakeoffOptions{Type: "wall", Format: "csv"},
			want: "Tipo,Unidades,Area (m2),Volumen (m3)\n" +
				"IfcWall,1,12.00,1.50\n" +
				"IfcWallStandardCase,1,0.00,2.00\n",
		},
		{
			name: "elements",
			opts: TakeoffOptions{Type: "SLAB", Elements: true, Format: "csv"},
			want: "Modelo,Id,Tipo,Nombre,Area (m2),Volumen (m3),Longitud (m)\n" +
				"cli-model,3,IfcSlab,Sin nombre,40.00,-,-\n",
		},
		{
			name: "no match as JSON",
			opts: TakeoffOptions{Type: "roof", Elements: true, Format: "json"},
			want: "[]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			opts := tt.opts
			if err := RunTakeoff(t.Context(), nil, nil, []string{writeModel(t, wallModel)}, &opts, &out); err != nil {
				t.Fatalf("RunTakeoff() error = %v", err)
			}
			if strings.TrimSpace(out.String()) != strings.TrimSpace(tt.want) {
				t.Errorf("unexpected output:\n%s\nwant:\n%s", out.String(), tt.want)
			}
		})
	}
}

func TestRunTakeoff_Errors(t *testing.T) {
	if err := RunTakeoff(t.Context(), nil, nil, []string{"x.json"}, &TakeoffOptions{Format: "xml"}, &bytes.Buffer{}); err == nil {
		t.Error("expected an error for an unsupported format")
	}
	if err := RunTakeoff(t.Context(), nil, nil, []string{filepath.Join(t.TempDir(), "missing.json")}, &TakeoffOptions{Format: "csv"}, &bytes.Buffer{}); err == nil {
		t.Error("expected an error for a missing file")
	}
	if err := RunTakeoff(t.Context(), nil, nil, []string{writeModel(t, "[]")}, &TakeoffOptions{Format: "csv"}, &bytes.Buffer{}); err == nil {
		t.Error("expected an error for a non-object document")
	}
	if err := RunTakeoff(t.Context(), nil, nil, []string{writeModel(t, wallModel)}, &TakeoffOptions{Walls: true, Elements: true, Format: "csv"}, &bytes.Buffer{}); err == nil {
		t.Error("expected an error when both --walls and --elements are set")
	}
}

func TestNewTakeoffCommand(t *testing.T) {
	cmd := NewTakeoffCommand(config.FromMap(nil), zap.NewNop())
	outPath := filepath.Join(t.TempDir(), "walls.csv")
	cmd.SetArgs([]string{"--walls", "-o", outPath, writeModel(t, wallModel)})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "Nombre,Volumen (m3)") {
		t.Errorf("unexpected file content %q", string(data))
	}
}

func TestNewTakeoffCommand_ElementFlags(t *testing.T) {
	cmd := NewTakeoffCommand(nil, nil)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--elements", "--type", "slab", writeModel(t, wallModel)})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[1], "cli-model,3,IfcSlab,") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestNewTakeoffCommand_RequiresFiles(t *testing.T) {
	cmd := NewTakeoffCommand(nil, nil)
	cmd.SetArgs([]string{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.Execute(); err == nil {
		t.Error("expected an error without model files")
	}
}
