// Chart data preparation, separated from eCharts rendering so the
// transformations stay unit-testable without rendering HTML.

package api

import (
	"fmt"
	"sort"

	"github.com/navadeep914/olampic-dataset/internal/medals"
)

// BarChartData holds prepared labels and values for a single-series bar
// chart. NumRows is the full row count before the limit was applied.
type BarChartData struct {
	Labels  []string `json:"labels"`
	Values  []int    `json:"values"`
	NumRows int      `json:"num_rows"`
}

// BreakdownChartData holds aligned per-medal series for stacked or grouped
// bar charts.
type BreakdownChartData struct {
	Labels  []string `json:"labels"`
	Gold    []int    `json:"gold"`
	Silver  []int    `json:"silver"`
	Bronze  []int    `json:"bronze"`
	NumRows int      `json:"num_rows"`
}

// ProportionChartData holds gold-share values per group.
type ProportionChartData struct {
	Labels      []string  `json:"labels"`
	Proportions []float64 `json:"proportions"`
	NumRows     int       `json:"num_rows"`
}

// PieSlice is one named wedge of a pie chart.
type PieSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// PieChartData holds prepared pie wedges.
type PieChartData struct {
	Slices  []PieSlice `json:"slices"`
	NumRows int        `json:"num_rows"`
}

// TrendChartSeries is one country's totals aligned to the year axis of a
// TrendChartData. Values holds nil where the country won nothing that year.
type TrendChartSeries struct {
	Country string  `json:"country"`
	Values  []*int  `json:"values"`
	Slope   float64 `json:"slope"`
}

// TrendChartData aligns every series to the union of observed years.
type TrendChartData struct {
	Years  []int              `json:"years"`
	Series []TrendChartSeries `json:"series"`
}

// PrepareBarChartData projects the first n aggregate rows onto bar labels
// and total-medal values. n <= 0 keeps every row.
func PrepareBarChartData(result medals.AggregateResult, n int) *BarChartData {
	top := result.Top(n)
	data := &BarChartData{
		Labels:  make([]string, 0, len(top.Rows)),
		Values:  make([]int, 0, len(top.Rows)),
		NumRows: len(result.Rows),
	}
	for _, row := range top.Rows {
		data.Labels = append(data.Labels, row.Key)
		data.Values = append(data.Values, row.Total)
	}
	return data
}

// PrepareBreakdownChartData projects the first n aggregate rows onto
// per-medal series sharing one label axis.
func PrepareBreakdownChartData(result medals.AggregateResult, n int) *BreakdownChartData {
	top := result.Top(n)
	data := &BreakdownChartData{
		Labels:  make([]string, 0, len(top.Rows)),
		Gold:    make([]int, 0, len(top.Rows)),
		Silver:  make([]int, 0, len(top.Rows)),
		Bronze:  make([]int, 0, len(top.Rows)),
		NumRows: len(result.Rows),
	}
	for _, row := range top.Rows {
		data.Labels = append(data.Labels, row.Key)
		data.Gold = append(data.Gold, row.Gold)
		data.Silver = append(data.Silver, row.Silver)
		data.Bronze = append(data.Bronze, row.Bronze)
	}
	return data
}

// PrepareProportionChartData projects gold-proportion rows onto a label and
// value axis. The caller limits the rows before deriving proportions so the
// chart and the JSON endpoint agree.
func PrepareProportionChartData(rows []medals.ProportionRow) *ProportionChartData {
	data := &ProportionChartData{
		Labels:      make([]string, 0, len(rows)),
		Proportions: make([]float64, 0, len(rows)),
		NumRows:     len(rows),
	}
	for _, row := range rows {
		data.Labels = append(data.Labels, row.Key)
		data.Proportions = append(data.Proportions, row.Proportion)
	}
	return data
}

// PrepareAthleteChartData labels each athlete with their country so equal
// names from different teams stay distinguishable on the axis.
func PrepareAthleteChartData(rows []medals.AthleteRow) *BarChartData {
	data := &BarChartData{
		Labels:  make([]string, 0, len(rows)),
		Values:  make([]int, 0, len(rows)),
		NumRows: len(rows),
	}
	for _, row := range rows {
		data.Labels = append(data.Labels, fmt.Sprintf("%s (%s)", row.Athlete, row.Country))
		data.Values = append(data.Values, row.Total)
	}
	return data
}

// PreparePieChartData projects the first n aggregate rows onto pie wedges.
func PreparePieChartData(result medals.AggregateResult, n int) *PieChartData {
	top := result.Top(n)
	data := &PieChartData{
		Slices:  make([]PieSlice, 0, len(top.Rows)),
		NumRows: len(result.Rows),
	}
	for _, row := range top.Rows {
		data.Slices = append(data.Slices, PieSlice{Name: row.Key, Value: row.Total})
	}
	return data
}

// PrepareTrendChartData aligns trend series onto the union of their years,
// ascending. A country's missing years carry nil so line charts show gaps
// instead of zero dips.
func PrepareTrendChartData(series []medals.TrendSeries) *TrendChartData {
	yearSet := make(map[int]struct{})
	for _, s := range series {
		for _, p := range s.Points {
			yearSet[p.Year] = struct{}{}
		}
	}
	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)

	data := &TrendChartData{
		Years:  years,
		Series: make([]TrendChartSeries, 0, len(series)),
	}
	for _, s := range series {
		byYear := make(map[int]int, len(s.Points))
		for _, p := range s.Points {
			byYear[p.Year] = p.Total
		}
		values := make([]*int, len(years))
		for i, y := range years {
			if total, ok := byYear[y]; ok {
				t := total
				values[i] = &t
			}
		}
		data.Series = append(data.Series, TrendChartSeries{
			Country: s.Country,
			Values:  values,
			Slope:   s.Slope,
		})
	}
	return data
}
