package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Column is one column of a delimited export.
type Column[T any] struct {
	Header string
	Value  func(row T) string
}

// ToDelimitedText renders rows as CSV with a header line. An empty row set
// yields only the header.
func ToDelimitedText[T any](rows []T, columns []Column[T]) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = c.Header
	}
	if err := w.Write(headers); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}

	record := make([]string, len(columns))
	for _, r := range rows {
		for i, c := range columns {
			record[i] = c.Value(r)
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return buf.String(), nil
}

// TypeSummaryColumns is the per-type quantity schema.
func TypeSummaryColumns() []Column[TypeSummary] {
	return []Column[TypeSummary]{
		{Header: "Tipo", Value: func(s TypeSummary) string { return s.Type }},
		{Header: "Unidades", Value: func(s TypeSummary) string { return fmt.Sprintf("%d", s.Count) }},
		{Header: "Area (m2)", Value: func(s TypeSummary) string { return FormatFixed(s.TotalArea) }},
		{Header: "Volumen (m3)", Value: func(s TypeSummary) string { return FormatFixed(s.TotalVolume) }},
	}
}

// WallDetailColumns is the wall detail schema. The volume column is net,
// else gross.
func WallDetailColumns() []Column[WallElement] {
	return []Column[WallElement]{
		{Header: "Nombre", Value: func(w WallElement) string { return w.Name }},
		{Header: "Volumen (m3)", Value: func(w WallElement) string { return FormatQuantity(w.Volume()) }},
		{Header: "Area (m2)", Value: func(w WallElement) string { return FormatQuantity(w.SurfaceArea) }},
		{Header: "Longitud (m)", Value: func(w WallElement) string { return FormatQuantity(w.Length) }},
		{Header: "Alto (m)", Value: func(w WallElement) string { return FormatQuantity(w.Height) }},
		{Header: "Ancho (m)", Value: func(w WallElement) string { return FormatQuantity(w.Width) }},
		{Header: "Material", Value: func(w WallElement) string {
			if w.Material == nil {
				return MissingPlaceholder
			}
			return *w.Material
		}},
	}
}

// ElementDetailColumns is the per-element schema of the generic path.
func ElementDetailColumns() []Column[NormalizedElement] {
	return []Column[NormalizedElement]{
		{Header: "Modelo", Value: func(e NormalizedElement) string { return e.ModelID }},
		{Header: "Id", Value: func(e NormalizedElement) string { return fmt.Sprintf("%d", e.ID) }},
		{Header: "Tipo", Value: func(e NormalizedElement) string { return e.Type }},
		{Header: "Nombre", Value: func(e NormalizedElement) string { return e.Name }},
		{Header: "Area (m2)", Value: func(e NormalizedElement) string { return FormatQuantity(e.Quantities.Area) }},
		{Header: "Volumen (m3)", Value: func(e NormalizedElement) string { return FormatQuantity(e.Quantities.Volume) }},
		{Header: "Longitud (m)", Value: func(e NormalizedElement) string { return FormatQuantity(e.Quantities.Length) }},
	}
}
