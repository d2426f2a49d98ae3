package services

import (
	"fmt"
	"math"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GenerateWallReportPDF renders the wall takeoff as a PDF using maroto/v2.
// It returns the raw PDF bytes or an error.
func GenerateWallReportPDF(report QuantityReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Horizontal).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Página {current} de {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addHeader(m, report)
	addSummaryCards(m, report.Walls)
	addTableHeader(m)
	if len(report.Walls.Walls) == 0 {
		addEmptyRow(m)
	}
	for i, w := range report.Walls.Walls {
		addTableRow(m, i+1, w)
	}
	addTotals(m, report.Walls)
	addFooter(m, report)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// addHeader adds the title and date to the PDF.
func addHeader(m core.Maroto, report QuantityReport) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(report.Title, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	m.AddRows(
		row.New(8).Add(
			col.New(6).Add(
				text.New("Cómputo de muros", props.Text{
					Size:  9,
					Align: align.Left,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("Fecha: %s", report.CreatedDate), props.Text{
					Size:  9,
					Align: align.Right,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
		),
	)

	m.AddRows(row.New(4))
}

// addSummaryCards adds the count, total volume and total area cards.
func addSummaryCards(m core.Maroto, s WallSummary) {
	cardCell := &props.Cell{BackgroundColor: &props.Color{Red: 240, Green: 240, Blue: 240}}
	label := props.Text{Size: 8, Align: align.Center, Color: &props.Color{Red: 80, Green: 80, Blue: 80}}
	value := props.Text{Size: 12, Style: fontstyle.Bold, Align: align.Center, Top: 1}

	m.AddRows(
		row.New(6).Add(
			col.New(4).Add(text.New("Muros", label)).WithStyle(cardCell),
			col.New(4).Add(text.New("Volumen total", label)).WithStyle(cardCell),
			col.New(4).Add(text.New("Área total", label)).WithStyle(cardCell),
		),
		row.New(10).Add(
			col.New(4).Add(text.New(fmt.Sprintf("%d", s.Count), value)).WithStyle(cardCell),
			col.New(4).Add(text.New(FormatGrouped(s.TotalVolume)+" m³", value)).WithStyle(cardCell),
			col.New(4).Add(text.New(FormatGrouped(s.TotalArea)+" m²", value)).WithStyle(cardCell),
		),
	)
	m.AddRows(row.New(6))
}

// addTableHeader adds the column header row for the wall table.
func addTableHeader(m core.Maroto) {
	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left

	headerCell := props.Cell{BackgroundColor: headerBg}

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(text.New("#", headerText)).WithStyle(&headerCell),
			col.New(3).Add(text.New("Nombre", headerTextLeft)).WithStyle(&headerCell),
			col.New(1).Add(text.New("Volumen (m³)", headerText)).WithStyle(&headerCell),
			col.New(1).Add(text.New("Área (m²)", headerText)).WithStyle(&headerCell),
			col.New(1).Add(text.New("Longitud (m)", headerText)).WithStyle(&headerCell),
			col.New(1).Add(text.New("Alto (m)", headerText)).WithStyle(&headerCell),
			col.New(1).Add(text.New("Ancho (m)", headerText)).WithStyle(&headerCell),
			col.New(3).Add(text.New("Material", headerTextLeft)).WithStyle(&headerCell),
		),
	)
}

// addTableRow adds one wall; even rows get a light gray background.
func addTableRow(m core.Maroto, index int, w WallElement) {
	var cellStyle *props.Cell
	if index%2 == 0 {
		cellStyle = &props.Cell{BackgroundColor: &props.Color{Red: 245, Green: 245, Blue: 245}}
	}

	baseText := props.Text{Size: 7, Align: align.Center}
	leftText := baseText
	leftText.Align = align.Left
	rightText := baseText
	rightText.Align = align.Right

	material := MissingPlaceholder
	if w.Material != nil {
		material = *w.Material
	}

	cols := []core.Col{
		col.New(1).Add(text.New(fmt.Sprintf("%d", index), baseText)),
		col.New(3).Add(text.New(w.Name, leftText)),
		col.New(1).Add(text.New(formatQty(w.Volume()), rightText)),
		col.New(1).Add(text.New(formatQty(w.SurfaceArea), rightText)),
		col.New(1).Add(text.New(formatQty(w.Length), rightText)),
		col.New(1).Add(text.New(formatQty(w.Height), rightText)),
		col.New(1).Add(text.New(formatQty(w.Width), rightText)),
		col.New(3).Add(text.New(material, leftText)),
	}
	if cellStyle != nil {
		for i := range cols {
			cols[i] = cols[i].WithStyle(cellStyle)
		}
	}

	m.AddRows(row.New(7).Add(cols...))
}

func addEmptyRow(m core.Maroto) {
	m.AddRows(
		row.New(10).Add(
			col.New(12).Add(
				text.New("No se encontraron muros en los modelos cargados.", props.Text{
					Size:  8,
					Style: fontstyle.Italic,
					Align: align.Center,
					Top:   2,
				}),
			),
		),
	)
}

// addTotals adds the totals and averages at the bottom of the table.
func addTotals(m core.Maroto, s WallSummary) {
	m.AddRows(row.New(6))

	summaryCell := &props.Cell{BackgroundColor: &props.Color{Red: 240, Green: 240, Blue: 240}}
	labelStyle := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
	valueStyle := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}

	lines := []struct{ label, value string }{
		{"Volumen total", FormatGrouped(s.TotalVolume) + " m³"},
		{"Área total", FormatGrouped(s.TotalArea) + " m²"},
		{"Volumen promedio", FormatGrouped(s.AverageVolume) + " m³"},
		{"Área promedio", FormatGrouped(s.AverageArea) + " m²"},
	}
	for _, l := range lines {
		m.AddRows(
			row.New(8).Add(
				col.New(8).Add(text.New(l.label, labelStyle)).WithStyle(summaryCell),
				col.New(4).Add(text.New(l.value, valueStyle)).WithStyle(summaryCell),
			),
		)
	}
}

// addFooter adds the generated-date line at the bottom.
func addFooter(m core.Maroto, report QuantityReport) {
	m.AddRows(row.New(6))
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(
				text.New(
					fmt.Sprintf("Generado el %s", report.CreatedDate),
					props.Text{
						Size:  7,
						Align: align.Left,
						Color: &props.Color{Red: 140, Green: 140, Blue: 140},
					},
				),
			),
		),
	)
}

// formatQty renders an optional quantity. Whole numbers are formatted
// without decimals; fractional values get 2 decimal places.
func formatQty(v *float64) string {
	if v == nil || !isFinite(*v) {
		return MissingPlaceholder
	}
	if *v == math.Trunc(*v) {
		return fmt.Sprintf("%.0f", *v)
	}
	return fmt.Sprintf("%.2f", *v)
}
