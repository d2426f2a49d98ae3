// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"takeoff/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	if err := collections.Setup(app, nil); err != nil {
		t.Fatalf("failed to set up collections: %v", err)
	}

	return app
}

// CreateTestProject creates a project record with the given name and returns it.
func CreateTestProject(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId(collections.Projects)
	if err != nil {
		t.Fatalf("failed to find projects collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test project: %v", err)
	}

	return record
}

// CreateTestModel stores a model document under a project and returns it.
// The model uuid is taken from the payload, or derived from the name.
func CreateTestModel(t *testing.T, app *pocketbase.PocketBase, projectID, name string, payload map[string]any) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId(collections.IfcModels)
	if err != nil {
		t.Fatalf("failed to find ifc_models collection: %v", err)
	}

	modelUUID, _ := payload["uuid"].(string)
	if modelUUID == "" {
		modelUUID = "test-" + strings.ToLower(strings.ReplaceAll(name, " ", "-"))
	}

	record := core.NewRecord(col)
	record.Set("project", projectID)
	record.Set("name", name)
	record.Set("model_uuid", modelUUID)
	record.Set("file_name", name+".json")
	record.Set("payload", payload)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test model: %v", err)
	}

	return record
}

// WallModelPayload returns a small model document with two walls, a slab
// and an untyped record, stored under data.properties.
func WallModelPayload() map[string]any {
	return map[string]any{
		"uuid": "model-walls",
		"name": "Muros planta baja",
		"data": map[string]any{
			"properties": map[string]any{
				"1": map[string]any{
					"type":     103090709,
					"Name":     map[string]any{"value": "Muro 1"},
					"GlobalId": map[string]any{"value": "2O2Fr$t4X7Zf8NOew3FLOH"},
					"Qto_WallBaseQuantities": map[string]any{
						"NetVolume":   map[string]any{"value": 1.5},
						"GrossVolume": map[string]any{"value": 1.8},
						"NetSideArea": map[string]any{"value": 12.0},
						"Length":      map[string]any{"value": 5.0},
						"Height":      map[string]any{"value": 2.5},
						"Width":       map[string]any{"value": 0.2},
					},
					"Pset_MaterialCommon": map[string]any{
						"Material": map[string]any{"value": "Ladrillo"},
					},
				},
				"2": map[string]any{
					"type": 3856911033,
					"Name": map[string]any{"value": "Muro 2"},
					"Qto_WallBaseQuantities": map[string]any{
						"GrossVolume": map[string]any{"value": 2.0},
						"Length":      map[string]any{"value": 4.0},
						"Height":      map[string]any{"value": 2.5},
					},
				},
				"3": map[string]any{
					"type": 1484403080,
					"Name": map[string]any{"value": "Losa"},
					"Qto_SlabBaseQuantities": map[string]any{
						"NetArea":   map[string]any{"value": 40.0},
						"NetVolume": map[string]any{"value": 8.0},
					},
				},
				"4": map[string]any{
					"Name": map[string]any{"value": "Relación sin tipo"},
				},
			},
		},
	}
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
