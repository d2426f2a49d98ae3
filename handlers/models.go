package handlers

import (
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"takeoff/services"
)

type modelResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	ModelUUID        string `json:"modelUuid"`
	FileName         string `json:"fileName"`
	Created          string `json:"created"`
	HasPropertyStore *bool  `json:"hasPropertyStore,omitempty"`
	Location         string `json:"location,omitempty"`
	Records          int    `json:"records,omitempty"`
}

func toModelResponse(rec *core.Record) modelResponse {
	return modelResponse{
		ID:        rec.Id,
		Name:      rec.GetString("name"),
		ModelUUID: rec.GetString("model_uuid"),
		FileName:  rec.GetString("file_name"),
		Created:   rec.GetDateTime("created").String(),
	}
}

// loadProject returns the project stored by ProjectMiddleware, or looks it
// up when the handler runs without it.
func loadProject(d *Deps, e *core.RequestEvent) (*ProjectInfo, bool) {
	if p := GetProject(e.Request); p != nil {
		return p, true
	}
	rec, err := d.App.FindRecordById("projects", e.Request.PathValue("projectId"))
	if err != nil {
		return nil, false
	}
	return &ProjectInfo{ID: rec.Id, Name: rec.GetString("name")}, true
}

// HandleModelUpload stores an uploaded property document under a project.
// Route: POST /projects/{projectId}/models
func HandleModelUpload(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		project, ok := loadProject(d, e)
		if !ok {
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}

		maxBytes := d.Config.MaxUploadBytes()
		e.Request.Body = http.MaxBytesReader(e.Response, e.Request.Body, maxBytes)
		if err := e.Request.ParseMultipartForm(32 << 20); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return ErrorToast(e, http.StatusRequestEntityTooLarge, "Model file is too large")
			}
			return ErrorToast(e, http.StatusBadRequest, "File too large or invalid form data")
		}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Please select a file to upload")
		}
		defer file.Close()

		imported, err := services.ParseModel(file, header.Filename)
		if err != nil {
			d.Logger.Info("Rejected model upload", zap.String("file", header.Filename), zap.Error(err))
			return ErrorToast(e, http.StatusBadRequest, err.Error())
		}

		existing, _ := d.App.FindFirstRecordByFilter("ifc_models",
			"project = {:project} && model_uuid = {:uuid}",
			map[string]any{"project": project.ID, "uuid": imported.Model.ID})
		if existing != nil {
			return ErrorToast(e, http.StatusConflict, "A model with this uuid is already loaded")
		}

		col, err := d.App.FindCollectionByNameOrId("ifc_models")
		if err != nil {
			d.Logger.Error("Could not find ifc_models collection", zap.Error(err))
			return ErrorToast(e, http.StatusInternalServerError, "Internal error")
		}

		rec := core.NewRecord(col)
		rec.Set("project", project.ID)
		rec.Set("name", imported.Model.Name)
		rec.Set("model_uuid", imported.Model.ID)
		rec.Set("file_name", imported.FileName)
		rec.Set("payload", imported.Model.Raw)
		if err := d.App.Save(rec); err != nil {
			d.Logger.Error("Failed to save model", zap.String("project", project.ID), zap.Error(err))
			return ErrorToast(e, http.StatusInternalServerError, "Failed to save model")
		}

		hasStore := imported.HasPropertyStore()
		resp := toModelResponse(rec)
		resp.HasPropertyStore = &hasStore
		resp.Location = imported.Location
		resp.Records = imported.Records

		if hasStore {
			SetToast(e, "success", "Model loaded")
		} else {
			SetToast(e, "warning", "Model loaded, but it has no property data")
		}
		d.Logger.Info("Model stored",
			zap.String("project", project.ID),
			zap.String("model", imported.Model.ID),
			zap.String("location", imported.Location),
			zap.Int("records", imported.Records))
		return e.JSON(http.StatusCreated, resp)
	}
}

// HandleModelList lists the models of a project, oldest first.
// Route: GET /projects/{projectId}/models
func HandleModelList(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		project, ok := loadProject(d, e)
		if !ok {
			return e.String(http.StatusNotFound, "Project not found")
		}

		records, err := d.App.FindRecordsByFilter("ifc_models", "project = {:project}", "created,id", 0, 0,
			map[string]any{"project": project.ID})
		if err != nil {
			d.Logger.Error("Could not query models", zap.String("project", project.ID), zap.Error(err))
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		out := make([]modelResponse, 0, len(records))
		for _, rec := range records {
			out = append(out, toModelResponse(rec))
		}
		return e.JSON(http.StatusOK, out)
	}
}

// HandleModelDelete removes one model from a project.
// Route: DELETE /projects/{projectId}/models/{id}
func HandleModelDelete(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		project, ok := loadProject(d, e)
		if !ok {
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}

		rec, err := d.App.FindRecordById("ifc_models", e.Request.PathValue("id"))
		if err != nil || rec.GetString("project") != project.ID {
			return ErrorToast(e, http.StatusNotFound, "Model not found")
		}

		if err := d.App.Delete(rec); err != nil {
			d.Logger.Error("Failed to delete model", zap.String("model", rec.Id), zap.Error(err))
			return ErrorToast(e, http.StatusInternalServerError, "Failed to delete model")
		}

		SetToast(e, "success", "Model removed")
		return e.NoContent(http.StatusNoContent)
	}
}
