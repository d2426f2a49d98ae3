package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"takeoff/services"
	"takeoff/testhelpers"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Torre Norte", "Torre-Norte"},
		{"a/b\\c:d", "a-b-c-d"},
		{`say "hi"`, "say-hi"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.input); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

// runExport stores the wall model under a new project and runs one export.
func runExport(t *testing.T, wall bool, format string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	return runExportURL(t, wall, format, "/")
}

func runExportURL(t *testing.T, wall bool, format, target string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	d := newTestDeps(t)
	project := testhelpers.CreateTestProject(t, d.App, "Torre Norte")
	testhelpers.CreateTestModel(t, d.App, project.Id, "Muros", testhelpers.WallModelPayload())

	h := HandleQuantityExport(d)
	if wall {
		h = HandleWallExport(d)
	}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := serve(t, d, h, req, map[string]string{"projectId": project.Id, "format": format})
	return rec, project.Id
}

func TestHandleQuantityExport_CSV(t *testing.T) {
	rec, _ := runExport(t, false, "csv")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("unexpected content type %q", ct)
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.Contains(cd, `filename="cantidades_Torre-Norte_`) || !strings.HasSuffix(cd, `.csv"`) {
		t.Errorf("unexpected content disposition %q", cd)
	}

	want := "Tipo,Unidades,Area (m2),Volumen (m3)\n" +
		"IfcWall,1,12.00,1.50\n" +
		"IfcWallStandardCase,1,0.00,2.00\n" +
		"IfcSlab,1,40.00,8.00\n"
	if got := rec.Body.String(); got != want {
		t.Errorf("unexpected CSV:\n%s\nwant:\n%s", got, want)
	}
}

func TestHandleQuantityExport_JSON(t *testing.T) {
	rec, _ := runExport(t, false, "json")

	var rows []struct {
		Type        string  `json:"type"`
		Count       int     `json:"count"`
		TotalVolume float64 `json:"totalVolume"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[2].Type != "IfcSlab" || rows[2].TotalVolume != 8 {
		t.Errorf("unexpected slab row %+v", rows[2])
	}
}

func TestHandleQuantityExport_XLSX(t *testing.T) {
	rec, _ := runExport(t, false, "xlsx")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("invalid workbook: %v", err)
	}
	defer f.Close()

	title, _ := f.GetCellValue(services.SummarySheet, "A1")
	if title != "Torre Norte" {
		t.Errorf("expected title Torre Norte, got %q", title)
	}
	first, _ := f.GetCellValue(services.SummarySheet, "A5")
	if first != "IfcWall" {
		t.Errorf("expected first row IfcWall, got %q", first)
	}
}

func TestHandleQuantityExport_PDFNotOffered(t *testing.T) {
	rec, _ := runExport(t, false, "pdf")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleWallExport_CSV(t *testing.T) {
	rec, _ := runExport(t, true, "csv")

	want := "Nombre,Volumen (m3),Area (m2),Longitud (m),Alto (m),Ancho (m),Material\n" +
		"Muro 1,1.50,12.00,5.00,2.50,0.20,Ladrillo\n" +
		"Muro 2,2.00,10.00,4.00,2.50,-,-\n"
	if got := rec.Body.String(); got != want {
		t.Errorf("unexpected CSV:\n%s\nwant:\n%s", got, want)
	}
}

func TestHandleWallExport_JSON(t *testing.T) {
	rec, _ := runExport(t, true, "json")

	var doc struct {
		Count       int     `json:"count"`
		TotalVolume float64 `json:"totalVolume"`
		TotalArea   float64 `json:"totalArea"`
		Walls       []struct {
			Name  string   `json:"name"`
			Width *float64 `json:"width"`
		} `json:"walls"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc.Count != 2 || doc.TotalVolume != 3.5 || doc.TotalArea != 22 {
		t.Errorf("unexpected totals %+v", doc)
	}
	if len(doc.Walls) != 2 || doc.Walls[1].Width != nil {
		t.Errorf("expected unknown width to stay null, got %+v", doc.Walls)
	}
}

func TestHandleWallExport_PDF(t *testing.T) {
	rec, _ := runExport(t, true, "pdf")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "application/pdf" {
		t.Errorf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Error("expected a PDF document")
	}
}

func TestHandleWallExport_UnsupportedFormat(t *testing.T) {
	rec, _ := runExport(t, true, "docx")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleWallExport_UnknownProject(t *testing.T) {
	d := newTestDeps(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := serve(t, d, HandleWallExport(d), req, map[string]string{"projectId": "missing", "format": "csv"})

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleQuantityExport_ElementDetailCSV(t *testing.T) {
	rec, _ := runExportURL(t, false, "csv", "/?detail=elements")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.Contains(cd, `filename="elementos_Torre-Norte_`) {
		t.Errorf("unexpected content disposition %q", cd)
	}

	want := "Modelo,Id,Tipo,Nombre,Area (m2),Volumen (m3),Longitud (m)\n" +
		"model-walls,1,IfcWall,Muro 1,12.00,1.50,5.00\n" +
		"model-walls,2,IfcWallStandardCase,Muro 2,-,2.00,4.00\n" +
		"model-walls,3,IfcSlab,Losa,40.00,8.00,-\n"
	if got := rec.Body.String(); got != want {
		t.Errorf("unexpected CSV:\n%s\nwant:\n%s", got, want)
	}
}

func TestHandleQuantityExport_ElementDetailFiltered(t *testing.T) {
	rec, _ := runExportURL(t, false, "json", "/?detail=elements&type=slab")

	var rows []struct {
		Type string `json:"type"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(rows) != 1 || rows[0].Type != "IfcSlab" || rows[0].Name != "Losa" {
		t.Errorf("unexpected rows %+v", rows)
	}

	empty, _ := runExportURL(t, false, "json", "/?detail=elements&type=roof")
	if strings.TrimSpace(empty.Body.String()) != "[]" {
		t.Errorf("expected an empty array, got %q", empty.Body.String())
	}
}

func TestHandleQuantityExport_ElementDetailNoWorkbook(t *testing.T) {
	rec, _ := runExportURL(t, false, "xlsx", "/?detail=elements")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleWallExport_ProjectDeletedAfterLookup(t *testing.T) {
	d := newTestDeps(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), ProjectKey, &ProjectInfo{ID: "gone", Name: "Gone"}))
	rec := serve(t, d, HandleWallExport(d), req, map[string]string{"format": "csv"})

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
