package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/pocketbase/pocketbase/core"

	"takeoff/services"
	"takeoff/testhelpers"
)

func TestProjectModelSource_Models(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Edificio A")
	other := testhelpers.CreateTestProject(t, app, "Edificio B")
	testhelpers.CreateTestModel(t, app, project.Id, "Muros", testhelpers.WallModelPayload())
	testhelpers.CreateTestModel(t, app, other.Id, "Otro", map[string]any{"uuid": "other"})

	src, err := services.NewProjectModelSource(app, project.Id)
	if err != nil {
		t.Fatalf("NewProjectModelSource() error = %v", err)
	}
	models, err := src.Models(context.Background())
	if err != nil {
		t.Fatalf("Models() error = %v", err)
	}
	if len(models) != 1 {
		t.Fatalf("expected 1 model, got %d", len(models))
	}
	if models[0].ID != "model-walls" || models[0].Name != "Muros" {
		t.Errorf("unexpected model %+v", models[0])
	}
}

func TestProjectModelSource_Takeoff(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Edificio A")
	testhelpers.CreateTestModel(t, app, project.Id, "Muros", testhelpers.WallModelPayload())

	src := &services.ProjectModelSource{App: app, ProjectID: project.Id}
	engine := services.NewEngine(nil, services.DefaultWallOptions(), nil)
	snap, err := engine.Snapshot(context.Background(), src)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	if snap.Walls.Count != 2 || snap.Walls.TotalVolume != 3.5 || snap.Walls.TotalArea != 22 {
		t.Errorf("unexpected wall summary %+v", snap.Walls)
	}
	if len(snap.Summaries) != 3 {
		t.Fatalf("expected 3 summaries, got %+v", snap.Summaries)
	}
	want := []string{"IfcWall", "IfcWallStandardCase", "IfcSlab"}
	for i, w := range want {
		if snap.Summaries[i].Type != w {
			t.Errorf("summary %d = %q, want %q", i, snap.Summaries[i].Type, w)
		}
	}
}

func TestNewProjectModelSource_UnknownProject(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	_, err := services.NewProjectModelSource(app, "missing")
	if !errors.Is(err, services.ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestLoadTypeCodeOverrides(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	empty, err := services.LoadTypeCodeOverrides(app)
	if err != nil {
		t.Fatalf("LoadTypeCodeOverrides() error = %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected no overrides, got %v", empty)
	}

	col, err := app.FindCollectionByNameOrId("type_codes")
	if err != nil {
		t.Fatal(err)
	}
	rec := core.NewRecord(col)
	rec.Set("code", 42)
	rec.Set("name", "IfcCustom")
	if err := app.Save(rec); err != nil {
		t.Fatalf("save type code: %v", err)
	}

	got, err := services.LoadTypeCodeOverrides(app)
	if err != nil {
		t.Fatalf("LoadTypeCodeOverrides() error = %v", err)
	}
	if got[42] != "IfcCustom" {
		t.Errorf("unexpected overrides %v", got)
	}
	if services.NewTypeResolver(got).Resolve(42) != "IfcCustom" {
		t.Error("resolver ignored the stored name")
	}
}
