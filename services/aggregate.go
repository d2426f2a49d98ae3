package services

import (
	"sort"
	"strings"
)

// TypeGroup is the elements of one type, in encounter order.
type TypeGroup struct {
	Type     string
	Elements []NormalizedElement
}

// GroupByType groups elements by type. Groups appear in the order their
// type was first encountered.
func GroupByType(elements []NormalizedElement) []TypeGroup {
	index := make(map[string]int)
	var groups []TypeGroup
	for _, el := range elements {
		i, ok := index[el.Type]
		if !ok {
			i = len(groups)
			index[el.Type] = i
			groups = append(groups, TypeGroup{Type: el.Type})
		}
		groups[i].Elements = append(groups[i].Elements, el)
	}
	return groups
}

// CalcTotals reduces one group. Unknown quantities add nothing to the sums
// but the element is still counted.
func CalcTotals(typeName string, elements []NormalizedElement) TypeSummary {
	s := TypeSummary{Type: typeName, Count: len(elements)}
	for _, el := range elements {
		s.TotalArea += valueOrZero(el.Quantities.Area)
		s.TotalVolume += valueOrZero(el.Quantities.Volume)
		s.TotalLength += valueOrZero(el.Quantities.Length)
	}
	return s
}

// GroupAndSummarize returns one summary per type, most numerous first.
// Equal counts keep first-encountered order.
func GroupAndSummarize(elements []NormalizedElement) []TypeSummary {
	groups := GroupByType(elements)
	summaries := make([]TypeSummary, 0, len(groups))
	for _, g := range groups {
		summaries = append(summaries, CalcTotals(g.Type, g.Elements))
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Count > summaries[j].Count
	})
	return summaries
}

// SummarizeWalls totals the wall path. Per wall, volume is net else gross
// and area is the surface area; unknowns add 0.
func SummarizeWalls(walls []WallElement) WallSummary {
	s := WallSummary{
		Count: len(walls),
		Walls: make([]WallElement, len(walls)),
	}
	copy(s.Walls, walls)
	for _, w := range walls {
		s.TotalVolume += valueOrZero(w.Volume())
		s.TotalArea += valueOrZero(w.SurfaceArea)
	}
	s.AverageVolume = average(s.TotalVolume, s.Count)
	s.AverageArea = average(s.TotalArea, s.Count)
	return s
}

// FilterByType keeps elements whose type contains fragment, ignoring case.
func FilterByType(elements []NormalizedElement, fragment string) []NormalizedElement {
	needle := strings.ToLower(fragment)
	var out []NormalizedElement
	for _, el := range elements {
		if strings.Contains(strings.ToLower(el.Type), needle) {
			out = append(out, el)
		}
	}
	return out
}

// reportableFragments are the type families shown on the quantity report.
var reportableFragments = []string{"wall", "slab", "floor"}

// ReportableSummaries keeps the wall, slab and floor summaries, preserving
// order.
func ReportableSummaries(summaries []TypeSummary) []TypeSummary {
	var out []TypeSummary
	for _, s := range summaries {
		t := strings.ToLower(s.Type)
		for _, f := range reportableFragments {
			if strings.Contains(t, f) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func average(total float64, count int) float64 {
	if count <= 0 {
		return 0
	}
	return total / float64(count)
}
