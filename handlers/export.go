package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"takeoff/metrics"
	"takeoff/services"
)

// Report names, used in file names and metrics.
const (
	reportQuantities = "cantidades"
	reportElements   = "elementos"
	reportWalls      = "muros"
)

var contentTypes = map[string]string{
	"csv":  "text/csv; charset=utf-8",
	"json": "application/json; charset=utf-8",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"pdf":  "application/pdf",
}

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	s = strings.ReplaceAll(s, "\"", "")
	return s
}

// buildQuantityReport turns a snapshot into the workbook/PDF input.
func buildQuantityReport(project *ProjectInfo, snap *services.Snapshot) services.QuantityReport {
	return services.QuantityReport{
		Title:       project.Name,
		CreatedDate: snap.TakenAt.Format("02 Jan 2006"),
		Summaries:   services.ReportableSummaries(snap.Summaries),
		Walls:       snap.Walls,
	}
}

// renderQuantityExport produces the per-type export.
func renderQuantityExport(format string, _ url.Values, project *ProjectInfo, snap *services.Snapshot) ([]byte, error) {
	summaries := services.ReportableSummaries(snap.Summaries)
	switch format {
	case "csv":
		out, err := services.ToDelimitedText(summaries, services.TypeSummaryColumns())
		return []byte(out), err
	case "json":
		out, err := services.ToStructuredText(summaries)
		return []byte(out), err
	case "xlsx":
		return services.GenerateQuantityWorkbook(buildQuantityReport(project, snap))
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

// renderElementExport produces the per-element detail, optionally narrowed
// by the "type" query parameter.
func renderElementExport(format string, query url.Values, _ *ProjectInfo, snap *services.Snapshot) ([]byte, error) {
	elements := snap.Elements
	if t := strings.TrimSpace(query.Get("type")); t != "" {
		elements = services.FilterByType(elements, t)
	}
	switch format {
	case "csv":
		out, err := services.ToDelimitedText(elements, services.ElementDetailColumns())
		return []byte(out), err
	case "json":
		out, err := services.ToStructuredText(elements)
		return []byte(out), err
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

// renderWallExport produces the wall export.
func renderWallExport(format string, _ url.Values, project *ProjectInfo, snap *services.Snapshot) ([]byte, error) {
	switch format {
	case "csv":
		out, err := services.ToDelimitedText(snap.Walls.Walls, services.WallDetailColumns())
		return []byte(out), err
	case "json":
		out, err := services.ToStructuredText(snap.Walls)
		return []byte(out), err
	case "xlsx":
		return services.GenerateQuantityWorkbook(buildQuantityReport(project, snap))
	case "pdf":
		return services.GenerateWallReportPDF(buildQuantityReport(project, snap))
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

type exportRenderer func(format string, query url.Values, project *ProjectInfo, snap *services.Snapshot) ([]byte, error)

func handleExport(d *Deps, report string, formats []string, render exportRenderer) func(*core.RequestEvent) error {
	allowed := make(map[string]bool, len(formats))
	for _, f := range formats {
		allowed[f] = true
	}

	return func(e *core.RequestEvent) error {
		format := strings.ToLower(e.Request.PathValue("format"))
		if !allowed[format] {
			return e.String(http.StatusBadRequest, fmt.Sprintf("Unsupported format, use one of: %s", strings.Join(formats, ", ")))
		}

		project, ok := loadProject(d, e)
		if !ok {
			return e.String(http.StatusNotFound, "Project not found")
		}

		snap, err := takeSnapshot(d, e, project)
		if err != nil {
			metrics.RecordExport(report, format, err)
			if errors.Is(err, services.ErrProjectNotFound) {
				return e.String(http.StatusNotFound, "Project not found")
			}
			d.Logger.Error("Quantity extraction failed", zap.String("project", project.ID), zap.Error(err))
			return e.String(http.StatusInternalServerError, "Failed to compute quantities")
		}

		body, err := render(format, e.Request.URL.Query(), project, snap)
		metrics.RecordExport(report, format, err)
		if err != nil {
			d.Logger.Error("Export failed",
				zap.String("report", report), zap.String("format", format), zap.Error(err))
			return e.String(http.StatusInternalServerError, "Failed to generate export")
		}

		filename := fmt.Sprintf("%s_%s_%s.%s", report, sanitizeFilename(project.Name), time.Now().Format("2006-01-02"), format)

		e.Response.Header().Set("Content-Type", contentTypes[format])
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.WriteHeader(http.StatusOK)
		_, err = e.Response.Write(body)
		return err
	}
}

// HandleQuantityExport downloads the per-type summary, or the per-element
// detail with ?detail=elements (csv and json only, optional &type=).
// Route: GET /projects/{projectId}/quantities/export/{format}
func HandleQuantityExport(d *Deps) func(*core.RequestEvent) error {
	summary := handleExport(d, reportQuantities, []string{"csv", "json", "xlsx"}, renderQuantityExport)
	detail := handleExport(d, reportElements, []string{"csv", "json"}, renderElementExport)
	return func(e *core.RequestEvent) error {
		if e.Request.URL.Query().Get("detail") == "elements" {
			return detail(e)
		}
		return summary(e)
	}
}

// HandleWallExport downloads the wall takeoff.
// Route: GET /projects/{projectId}/walls/export/{format}
func HandleWallExport(d *Deps) func(*core.RequestEvent) error {
	return handleExport(d, reportWalls, []string{"csv", "json", "xlsx", "pdf"}, renderWallExport)
}
