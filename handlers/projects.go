package handlers

import (
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"
)

type projectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type projectResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Created     string `json:"created"`
}

func toProjectResponse(rec *core.Record) projectResponse {
	return projectResponse{
		ID:          rec.Id,
		Name:        rec.GetString("name"),
		Description: rec.GetString("description"),
		Created:     rec.GetDateTime("created").String(),
	}
}

// HandleProjectCreate creates a project from a JSON body.
// Route: POST /projects
func HandleProjectCreate(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var body projectRequest
		if err := e.BindBody(&body); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}
		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return e.String(http.StatusBadRequest, "Project name is required")
		}

		col, err := d.App.FindCollectionByNameOrId("projects")
		if err != nil {
			d.Logger.Error("Could not find projects collection", zap.Error(err))
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		rec := core.NewRecord(col)
		rec.Set("name", body.Name)
		rec.Set("description", strings.TrimSpace(body.Description))
		if err := d.App.Save(rec); err != nil {
			d.Logger.Error("Failed to save project", zap.Error(err))
			return e.String(http.StatusInternalServerError, "Failed to save project")
		}

		d.Logger.Info("Project created", zap.String("project", rec.Id), zap.String("name", body.Name))
		return e.JSON(http.StatusCreated, toProjectResponse(rec))
	}
}

// HandleProjectList lists all projects, newest first.
// Route: GET /projects
func HandleProjectList(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := d.App.FindRecordsByFilter("projects", "id != ''", "-created,id", 0, 0)
		if err != nil {
			d.Logger.Error("Could not query projects", zap.Error(err))
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		out := make([]projectResponse, 0, len(records))
		for _, rec := range records {
			out = append(out, toProjectResponse(rec))
		}
		return e.JSON(http.StatusOK, out)
	}
}
