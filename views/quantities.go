// Package views renders the server-side HTML pages. The components live in
// the .templ files; run `templ generate` after editing them.
package views

import "net/url"

// QuantityRow is one line of the per-type table.
type QuantityRow struct {
	Type   string
	Count  int
	Area   string
	Volume string
	Length string
}

// WallTotals is the wall card block.
type WallTotals struct {
	Count         int
	TotalVolume   string
	TotalArea     string
	AverageVolume string
	AverageArea   string
}

// QuantityPageData holds the formatted values of the quantity page.
type QuantityPageData struct {
	ProjectID   string
	ProjectName string
	ModelCount  int
	Skipped     []string
	Failures    int
	Rows        []QuantityRow
	Walls       WallTotals
	GeneratedAt string
}

// IsEmpty reports whether there is nothing to show.
func (d QuantityPageData) IsEmpty() bool {
	return len(d.Rows) == 0 && d.Walls.Count == 0
}

// ExportLink is one download link of the page.
type ExportLink struct {
	Label string
	URL   string
}

// ExportLinks lists the downloads offered for a project.
func ExportLinks(projectID string) []ExportLink {
	base := "/projects/" + url.PathEscape(projectID)
	var links []ExportLink
	for _, f := range []string{"csv", "json", "xlsx"} {
		links = append(links, ExportLink{Label: f, URL: base + "/quantities/export/" + f})
	}
	links = append(links, ExportLink{Label: "elementos csv", URL: base + "/quantities/export/csv?detail=elements"})
	for _, f := range []string{"csv", "json", "xlsx", "pdf"} {
		links = append(links, ExportLink{Label: "muros " + f, URL: base + "/walls/export/" + f})
	}
	return links
}
