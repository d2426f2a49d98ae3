package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"takeoff/services"
	"takeoff/views"
)

// takeSnapshot runs both extraction paths over the project's stored models.
func takeSnapshot(d *Deps, e *core.RequestEvent, project *ProjectInfo) (*services.Snapshot, error) {
	src, err := services.NewProjectModelSource(d.App, project.ID)
	if err != nil {
		return nil, err
	}
	return d.Engine().Snapshot(e.Request.Context(), src)
}

// buildQuantityPageData formats a snapshot for the quantity page.
func buildQuantityPageData(project *ProjectInfo, snap *services.Snapshot) views.QuantityPageData {
	var rows []views.QuantityRow
	for _, s := range services.ReportableSummaries(snap.Summaries) {
		rows = append(rows, views.QuantityRow{
			Type:   s.Type,
			Count:  s.Count,
			Area:   services.FormatGrouped(s.TotalArea),
			Volume: services.FormatGrouped(s.TotalVolume),
			Length: services.FormatGrouped(s.TotalLength),
		})
	}

	w := snap.Walls
	return views.QuantityPageData{
		ProjectID:   project.ID,
		ProjectName: project.Name,
		ModelCount:  snap.ElementsInfo.ModelsScanned,
		Skipped:     snap.ElementsInfo.SkippedModels,
		Failures:    snap.ElementsInfo.FailureCount(),
		Rows:        rows,
		Walls: views.WallTotals{
			Count:         w.Count,
			TotalVolume:   services.FormatGrouped(w.TotalVolume),
			TotalArea:     services.FormatGrouped(w.TotalArea),
			AverageVolume: services.FormatGrouped(w.AverageVolume),
			AverageArea:   services.FormatGrouped(w.AverageArea),
		},
		GeneratedAt: snap.TakenAt.Format(time.DateTime),
	}
}

// HandleQuantityPage renders the quantity summary of a project.
// Route: GET /projects/{projectId}/quantities
func HandleQuantityPage(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		project, ok := loadProject(d, e)
		if !ok {
			return e.String(http.StatusNotFound, "Project not found")
		}

		snap, err := takeSnapshot(d, e, project)
		if errors.Is(err, services.ErrProjectNotFound) {
			return e.String(http.StatusNotFound, "Project not found")
		}
		if err != nil {
			d.Logger.Error("Quantity extraction failed", zap.String("project", project.ID), zap.Error(err))
			return e.String(http.StatusInternalServerError, "Failed to compute quantities")
		}

		data := buildQuantityPageData(project, snap)

		var component templ.Component
		if e.Request.Header.Get("HX-Request") == "true" {
			component = views.QuantityContent(data)
		} else {
			component = views.QuantityPage(data)
		}
		e.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
		return component.Render(e.Request.Context(), e.Response)
	}
}
