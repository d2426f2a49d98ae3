package services

// NormalizedElement is one physical element produced by the generic path.
type NormalizedElement struct {
	ModelID    string      `json:"modelId"`
	ID         int64       `json:"id"`
	Type       string      `json:"type"`
	Name       string      `json:"name"`
	GlobalID   *string     `json:"globalId"`
	Material   *string     `json:"material"`
	Quantities QuantitySet `json:"quantities"`
}

// WallElement is one wall produced by the wall path.
type WallElement struct {
	ModelID     string   `json:"modelId"`
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	GlobalID    *string  `json:"globalId"`
	GrossVolume *float64 `json:"grossVolume"`
	NetVolume   *float64 `json:"netVolume"`
	SurfaceArea *float64 `json:"surfaceArea"`
	Length      *float64 `json:"length"`
	Height      *float64 `json:"height"`
	Width       *float64 `json:"width"`
	Material    *string  `json:"material"`
	WallSubtype string   `json:"wallSubtype"`
}

// Volume is the reported volume: net, else gross, else unknown.
func (w WallElement) Volume() *float64 {
	if w.NetVolume != nil {
		return w.NetVolume
	}
	return w.GrossVolume
}

// TypeSummary aggregates all elements of one type.
type TypeSummary struct {
	Type        string  `json:"type"`
	Count       int     `json:"count"`
	TotalArea   float64 `json:"totalArea"`
	TotalVolume float64 `json:"totalVolume"`
	TotalLength float64 `json:"totalLength"`
}

// WallSummary aggregates the wall path.
type WallSummary struct {
	Count         int           `json:"count"`
	TotalVolume   float64       `json:"totalVolume"`
	TotalArea     float64       `json:"totalArea"`
	Walls         []WallElement `json:"walls"`
	AverageVolume float64       `json:"averageVolume"`
	AverageArea   float64       `json:"averageArea"`
}
