package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the quantity workbook.
const (
	SummarySheet = "Resumen"
	WallSheet    = "Muros"
)

// QuantityReport holds everything the workbook and PDF report render.
type QuantityReport struct {
	Title       string
	CreatedDate string
	Summaries   []TypeSummary
	Walls       WallSummary
}

// workbookStyles are the cell styles shared by both sheets.
type workbookStyles struct {
	title, subtitle, header, cell, number, totalLabel, totalValue int
}

func newWorkbookStyles(f *excelize.File) (workbookStyles, error) {
	var s workbookStyles
	var err error

	// Title style: bold, 16pt.
	if s.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	}); err != nil {
		return s, fmt.Errorf("create title style: %w", err)
	}

	if s.subtitle, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 11},
	}); err != nil {
		return s, fmt.Errorf("create subtitle style: %w", err)
	}

	// Column header style: bold, white text, charcoal background, centered.
	if s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	}); err != nil {
		return s, fmt.Errorf("create header style: %w", err)
	}

	if s.cell, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	}); err != nil {
		return s, fmt.Errorf("create cell style: %w", err)
	}

	// Numbers keep 2 decimals: built-in format 2 is "0.00".
	if s.number, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
		NumFmt: 2,
	}); err != nil {
		return s, fmt.Errorf("create number style: %w", err)
	}

	if s.totalLabel, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    thinBorders(),
	}); err != nil {
		return s, fmt.Errorf("create total label style: %w", err)
	}

	if s.totalValue, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		Border: thinBorders(),
		NumFmt: 2,
	}); err != nil {
		return s, fmt.Errorf("create total value style: %w", err)
	}
	return s, nil
}

// GenerateQuantityWorkbook builds the two-sheet quantity workbook and
// returns the file contents.
func GenerateQuantityWorkbook(report QuantityReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}
	if _, err := f.NewSheet(WallSheet); err != nil {
		return nil, fmt.Errorf("create wall sheet: %w", err)
	}

	styles, err := newWorkbookStyles(f)
	if err != nil {
		return nil, err
	}

	if err := writeSummarySheet(f, styles, report); err != nil {
		return nil, err
	}
	if err := writeWallSheet(f, styles, report); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// writeSheetHeader writes the title and date rows and the column headers
// on row 4. It returns the first data row.
func writeSheetHeader(f *excelize.File, sheet string, styles workbookStyles, title, date string, headers []string, widths []float64) (int, error) {
	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return 0, fmt.Errorf("column name: %w", err)
	}

	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return 0, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	if err := f.MergeCell(sheet, "A1", lastCol+"1"); err != nil {
		return 0, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheet, "A1", sanitizeExcelCell(title))
	f.SetCellStyle(sheet, "A1", lastCol+"1", styles.title)

	if err := f.MergeCell(sheet, "A2", lastCol+"2"); err != nil {
		return 0, fmt.Errorf("merge date: %w", err)
	}
	f.SetCellValue(sheet, "A2", "Fecha: "+date)
	f.SetCellStyle(sheet, "A2", lastCol+"2", styles.subtitle)

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 4)
		f.SetCellValue(sheet, cell, h)
	}
	f.SetCellStyle(sheet, "A4", lastCol+"4", styles.header)
	return 5, nil
}

func writeSummarySheet(f *excelize.File, styles workbookStyles, report QuantityReport) error {
	headers := []string{"Tipo", "Unidades", "Area (m2)", "Volumen (m3)", "Longitud (m)"}
	row, err := writeSheetHeader(f, SummarySheet, styles, report.Title, report.CreatedDate,
		headers, []float64{32, 12, 16, 16, 16})
	if err != nil {
		return err
	}

	var count int
	var area, volume, length float64
	for _, s := range report.Summaries {
		r := fmt.Sprintf("%d", row)
		f.SetCellValue(SummarySheet, "A"+r, sanitizeExcelCell(s.Type))
		f.SetCellValue(SummarySheet, "B"+r, s.Count)
		setNumber(f, SummarySheet, "C"+r, s.TotalArea)
		setNumber(f, SummarySheet, "D"+r, s.TotalVolume)
		setNumber(f, SummarySheet, "E"+r, s.TotalLength)
		f.SetCellStyle(SummarySheet, "A"+r, "B"+r, styles.cell)
		f.SetCellStyle(SummarySheet, "C"+r, "E"+r, styles.number)

		count += s.Count
		area += s.TotalArea
		volume += s.TotalVolume
		length += s.TotalLength
		row++
	}

	r := fmt.Sprintf("%d", row)
	f.SetCellValue(SummarySheet, "A"+r, "Total")
	f.SetCellStyle(SummarySheet, "A"+r, "A"+r, styles.totalLabel)
	f.SetCellValue(SummarySheet, "B"+r, count)
	setNumber(f, SummarySheet, "C"+r, area)
	setNumber(f, SummarySheet, "D"+r, volume)
	setNumber(f, SummarySheet, "E"+r, length)
	f.SetCellStyle(SummarySheet, "B"+r, "E"+r, styles.totalValue)
	return nil
}

func writeWallSheet(f *excelize.File, styles workbookStyles, report QuantityReport) error {
	headers := []string{"Nombre", "Volumen (m3)", "Area (m2)", "Longitud (m)", "Alto (m)", "Ancho (m)", "Material"}
	row, err := writeSheetHeader(f, WallSheet, styles, report.Title, report.CreatedDate,
		headers, []float64{32, 14, 14, 14, 12, 12, 28})
	if err != nil {
		return err
	}

	for _, w := range report.Walls.Walls {
		r := fmt.Sprintf("%d", row)
		f.SetCellValue(WallSheet, "A"+r, sanitizeExcelCell(w.Name))
		setOptionalNumber(f, WallSheet, "B"+r, w.Volume())
		setOptionalNumber(f, WallSheet, "C"+r, w.SurfaceArea)
		setOptionalNumber(f, WallSheet, "D"+r, w.Length)
		setOptionalNumber(f, WallSheet, "E"+r, w.Height)
		setOptionalNumber(f, WallSheet, "F"+r, w.Width)
		material := MissingPlaceholder
		if w.Material != nil {
			material = sanitizeExcelCell(*w.Material)
		}
		f.SetCellValue(WallSheet, "G"+r, material)
		f.SetCellStyle(WallSheet, "A"+r, "A"+r, styles.cell)
		f.SetCellStyle(WallSheet, "B"+r, "F"+r, styles.number)
		f.SetCellStyle(WallSheet, "G"+r, "G"+r, styles.cell)
		row++
	}

	r := fmt.Sprintf("%d", row)
	f.SetCellValue(WallSheet, "A"+r, fmt.Sprintf("Total (%d muros)", report.Walls.Count))
	f.SetCellStyle(WallSheet, "A"+r, "A"+r, styles.totalLabel)
	setNumber(f, WallSheet, "B"+r, report.Walls.TotalVolume)
	setNumber(f, WallSheet, "C"+r, report.Walls.TotalArea)
	f.SetCellStyle(WallSheet, "B"+r, "C"+r, styles.totalValue)
	return nil
}

// setOptionalNumber writes the value, or the placeholder when unknown.
func setOptionalNumber(f *excelize.File, sheet, cell string, v *float64) {
	if v == nil {
		f.SetCellValue(sheet, cell, MissingPlaceholder)
		return
	}
	setNumber(f, sheet, cell, *v)
}

// setNumber writes a finite value; overflowed totals get the placeholder.
func setNumber(f *excelize.File, sheet, cell string, v float64) {
	if !isFinite(v) {
		f.SetCellValue(sheet, cell, MissingPlaceholder)
		return
	}
	f.SetCellValue(sheet, cell, v)
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
