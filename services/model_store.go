package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/pocketbase/pocketbase/core"
)

// ErrProjectNotFound is returned when a project id does not exist.
var ErrProjectNotFound = errors.New("project not found")

// ProjectModelSource serves the models stored under one project. Models
// are read fresh on every call.
type ProjectModelSource struct {
	App       core.App
	ProjectID string
}

// NewProjectModelSource checks the project exists and returns its source.
func NewProjectModelSource(app core.App, projectID string) (*ProjectModelSource, error) {
	if _, err := app.FindRecordById("projects", projectID); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
	}
	return &ProjectModelSource{App: app, ProjectID: projectID}, nil
}

// Models loads every stored model of the project, oldest first.
func (s *ProjectModelSource) Models(ctx context.Context) ([]*Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records, err := s.App.FindRecordsByFilter(
		"ifc_models",
		"project = {:project}",
		"created,id",
		0, 0,
		map[string]any{"project": s.ProjectID},
	)
	if err != nil {
		return nil, fmt.Errorf("list models for project %s: %w", s.ProjectID, err)
	}

	models := make([]*Model, 0, len(records))
	for _, r := range records {
		var raw map[string]any
		if err := r.UnmarshalJSONField("payload", &raw); err != nil {
			return nil, fmt.Errorf("decode model %s: %w", r.Id, err)
		}
		id := r.GetString("model_uuid")
		if id == "" {
			id = r.Id
		}
		models = append(models, &Model{ID: id, Name: r.GetString("name"), Raw: raw})
	}
	return models, nil
}

// LoadTypeCodeOverrides reads the type_codes collection as resolver
// overrides.
func LoadTypeCodeOverrides(app core.App) (map[int64]string, error) {
	records, err := app.FindAllRecords("type_codes")
	if err != nil {
		return nil, fmt.Errorf("list type codes: %w", err)
	}
	overrides := make(map[int64]string, len(records))
	for _, r := range records {
		overrides[int64(r.GetFloat("code"))] = r.GetString("name")
	}
	return overrides, nil
}
