package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"
)

type contextKey string

const ProjectKey contextKey = "project"

// ProjectInfo is the project a scoped route works on.
type ProjectInfo struct {
	ID   string
	Name string
}

// GetProject extracts the project loaded by ProjectMiddleware.
func GetProject(r *http.Request) *ProjectInfo {
	if val, ok := r.Context().Value(ProjectKey).(*ProjectInfo); ok {
		return val
	}
	return nil
}

// ProjectMiddleware loads the {projectId} path parameter and stores the
// project in the request context. Unknown projects answer 404.
func ProjectMiddleware(d *Deps) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")
		if projectID == "" {
			return e.String(http.StatusBadRequest, "Missing project ID")
		}

		rec, err := d.App.FindRecordById("projects", projectID)
		if err != nil {
			d.Logger.Debug("Project not found", zap.String("project", projectID))
			return e.String(http.StatusNotFound, "Project not found")
		}

		ctx := context.WithValue(e.Request.Context(), ProjectKey, &ProjectInfo{
			ID:   rec.Id,
			Name: rec.GetString("name"),
		})
		e.Request = e.Request.WithContext(ctx)
		return e.Next()
	}
}

// RequestLogger logs one line per request.
func RequestLogger(logger *zap.Logger) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		start := time.Now()
		err := e.Next()
		logger.Info("Request",
			zap.String("method", e.Request.Method),
			zap.String("path", e.Request.URL.Path),
			zap.Int("status", e.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return err
	}
}
