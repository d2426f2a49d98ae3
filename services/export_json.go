package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Decimal2 is a measurement that marshals with exactly two decimals.
// Non-finite values marshal as null.
type Decimal2 float64

func (d Decimal2) MarshalJSON() ([]byte, error) {
	if !isFinite(float64(d)) {
		return []byte("null"), nil
	}
	return []byte(FormatFixed(float64(d))), nil
}

func (d *Decimal2) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("decimal: %w", err)
	}
	*d = Decimal2(f)
	return nil
}

func decimalPtr(v *float64) *Decimal2 {
	if v == nil {
		return nil
	}
	d := Decimal2(*v)
	return &d
}

type wallDocument struct {
	ModelID     string    `json:"modelId"`
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	GlobalID    *string   `json:"globalId"`
	GrossVolume *Decimal2 `json:"grossVolume"`
	NetVolume   *Decimal2 `json:"netVolume"`
	SurfaceArea *Decimal2 `json:"surfaceArea"`
	Length      *Decimal2 `json:"length"`
	Height      *Decimal2 `json:"height"`
	Width       *Decimal2 `json:"width"`
	Material    *string   `json:"material"`
	WallSubtype string    `json:"wallSubtype"`
}

type wallSummaryDocument struct {
	Count         int            `json:"count"`
	TotalVolume   Decimal2       `json:"totalVolume"`
	TotalArea     Decimal2       `json:"totalArea"`
	AverageVolume Decimal2       `json:"averageVolume"`
	AverageArea   Decimal2       `json:"averageArea"`
	Walls         []wallDocument `json:"walls"`
}

type typeSummaryDocument struct {
	Type        string   `json:"type"`
	Count       int      `json:"count"`
	TotalArea   Decimal2 `json:"totalArea"`
	TotalVolume Decimal2 `json:"totalVolume"`
	TotalLength Decimal2 `json:"totalLength"`
}

type quantityDocument struct {
	Area      *Decimal2 `json:"area"`
	Volume    *Decimal2 `json:"volume"`
	Length    *Decimal2 `json:"length"`
	Height    *Decimal2 `json:"height"`
	Width     *Decimal2 `json:"width"`
	Thickness *Decimal2 `json:"thickness"`
}

type elementDocument struct {
	ModelID    string           `json:"modelId"`
	ID         int64            `json:"id"`
	Type       string           `json:"type"`
	Name       string           `json:"name"`
	GlobalID   *string          `json:"globalId"`
	Material   *string          `json:"material"`
	Quantities quantityDocument `json:"quantities"`
}

func newWallSummaryDocument(s WallSummary) wallSummaryDocument {
	doc := wallSummaryDocument{
		Count:         s.Count,
		TotalVolume:   Decimal2(s.TotalVolume),
		TotalArea:     Decimal2(s.TotalArea),
		AverageVolume: Decimal2(s.AverageVolume),
		AverageArea:   Decimal2(s.AverageArea),
		Walls:         make([]wallDocument, 0, len(s.Walls)),
	}
	for _, w := range s.Walls {
		doc.Walls = append(doc.Walls, wallDocument{
			ModelID:     w.ModelID,
			ID:          w.ID,
			Name:        w.Name,
			GlobalID:    w.GlobalID,
			GrossVolume: decimalPtr(w.GrossVolume),
			NetVolume:   decimalPtr(w.NetVolume),
			SurfaceArea: decimalPtr(w.SurfaceArea),
			Length:      decimalPtr(w.Length),
			Height:      decimalPtr(w.Height),
			Width:       decimalPtr(w.Width),
			Material:    w.Material,
			WallSubtype: w.WallSubtype,
		})
	}
	return doc
}

func newTypeSummaryDocuments(summaries []TypeSummary) []typeSummaryDocument {
	docs := make([]typeSummaryDocument, 0, len(summaries))
	for _, s := range summaries {
		docs = append(docs, typeSummaryDocument{
			Type:        s.Type,
			Count:       s.Count,
			TotalArea:   Decimal2(s.TotalArea),
			TotalVolume: Decimal2(s.TotalVolume),
			TotalLength: Decimal2(s.TotalLength),
		})
	}
	return docs
}

func newElementDocuments(elements []NormalizedElement) []elementDocument {
	docs := make([]elementDocument, 0, len(elements))
	for _, e := range elements {
		q := e.Quantities
		docs = append(docs, elementDocument{
			ModelID:  e.ModelID,
			ID:       e.ID,
			Type:     e.Type,
			Name:     e.Name,
			GlobalID: e.GlobalID,
			Material: e.Material,
			Quantities: quantityDocument{
				Area:      decimalPtr(q.Area),
				Volume:    decimalPtr(q.Volume),
				Length:    decimalPtr(q.Length),
				Height:    decimalPtr(q.Height),
				Width:     decimalPtr(q.Width),
				Thickness: decimalPtr(q.Thickness),
			},
		})
	}
	return docs
}

// ToStructuredText renders a result as 2-space indented JSON. Engine
// result types are emitted with two-decimal numbers and explicit nulls for
// unknown values; anything else is marshalled as is.
func ToStructuredText(v any) (string, error) {
	var doc any
	switch t := v.(type) {
	case WallSummary:
		doc = newWallSummaryDocument(t)
	case *WallSummary:
		doc = newWallSummaryDocument(*t)
	case []TypeSummary:
		doc = newTypeSummaryDocuments(t)
	case []NormalizedElement:
		doc = newElementDocuments(t)
	case *Snapshot:
		doc = struct {
			ID        string                `json:"id"`
			TakenAt   string                `json:"takenAt"`
			Summaries []typeSummaryDocument `json:"summaries"`
			Walls     wallSummaryDocument   `json:"walls"`
		}{
			ID:        t.ID,
			TakenAt:   t.TakenAt.Format(time.RFC3339),
			Summaries: newTypeSummaryDocuments(t.Summaries),
			Walls:     newWallSummaryDocument(t.Walls),
		}
	default:
		doc = v
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal json: %w", err)
	}
	return string(out), nil
}
