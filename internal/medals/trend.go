package medals

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// DefaultTrendCountries is how many top countries a trend view plots when no
// explicit country selection is supplied.
const DefaultTrendCountries = 5

// YearOverYearRow compares one country's standing between two years. Rank
// deltas are positive when the country climbed (from-year rank minus to-year
// rank); total deltas are positive when the country won more medals in the
// to-year.
type YearOverYearRow struct {
	Country    string `json:"country"`
	RankFrom   int    `json:"rank_from"`
	RankTo     int    `json:"rank_to"`
	RankDelta  int    `json:"rank_delta"`
	TotalFrom  int    `json:"total_from"`
	TotalTo    int    `json:"total_to"`
	TotalDelta int    `json:"total_delta"`
}

// YearOverYear aggregates by country independently for the two years and
// reports deltas for every country present in either. A country absent from
// one year is never excluded: it takes substitute rank K+1 (K = number of
// ranked countries in that year) and total 0 there. Rows are ordered by
// to-year rank ascending, then country ascending.
func YearOverYear(table []MedalRecord, from, to int) ([]YearOverYearRow, error) {
	if from >= to {
		return nil, fmt.Errorf("year range %d..%d: from must precede to", from, to)
	}

	fromAgg := Aggregate(Filter(table, FilterSpec{Years: []int{from}}), GroupCountry)
	toAgg := Aggregate(Filter(table, FilterSpec{Years: []int{to}}), GroupCountry)
	absentFrom := len(fromAgg.Rows) + 1
	absentTo := len(toAgg.Rows) + 1

	countries := make(map[string]struct{}, len(fromAgg.Rows)+len(toAgg.Rows))
	for _, row := range fromAgg.Rows {
		countries[row.Key] = struct{}{}
	}
	for _, row := range toAgg.Rows {
		countries[row.Key] = struct{}{}
	}

	rows := make([]YearOverYearRow, 0, len(countries))
	for country := range countries {
		row := YearOverYearRow{Country: country, RankFrom: absentFrom, RankTo: absentTo}
		if f, ok := fromAgg.Row(country); ok {
			row.RankFrom = f.Rank
			row.TotalFrom = f.Total
		}
		if t, ok := toAgg.Row(country); ok {
			row.RankTo = t.Rank
			row.TotalTo = t.Total
		}
		row.RankDelta = row.RankFrom - row.RankTo
		row.TotalDelta = row.TotalTo - row.TotalFrom
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].RankTo != rows[j].RankTo {
			return rows[i].RankTo < rows[j].RankTo
		}
		return rows[i].Country < rows[j].Country
	})
	return rows, nil
}

// TrendPoint is one year's medal total for a country.
type TrendPoint struct {
	Year  int `json:"year"`
	Total int `json:"total"`
}

// TrendSeries is a country's medal totals over the years it appears in,
// with a least-squares slope over those points (medals per year). Series
// with fewer than two points report slope 0.
type TrendSeries struct {
	Country string       `json:"country"`
	Points  []TrendPoint `json:"points"`
	Slope   float64      `json:"slope"`
}

// CountryTrend builds per-year total series for the requested countries.
// When countries is empty the top topN countries of the overall aggregate
// are used (topN <= 0 means DefaultTrendCountries). Requested countries with
// no rows in the table are skipped; otherwise series keep the request order.
func CountryTrend(table []MedalRecord, countries []string, topN int) []TrendSeries {
	if len(countries) == 0 {
		if topN <= 0 {
			topN = DefaultTrendCountries
		}
		top := Aggregate(table, GroupCountry).Top(topN)
		countries = make([]string, 0, len(top.Rows))
		for _, row := range top.Rows {
			countries = append(countries, row.Key)
		}
	}

	totals := make(map[string]map[int]int, len(countries))
	for _, r := range table {
		byYear, ok := totals[r.Country]
		if !ok {
			byYear = make(map[int]int)
			totals[r.Country] = byYear
		}
		byYear[r.Year] += r.Total
	}

	series := make([]TrendSeries, 0, len(countries))
	for _, country := range countries {
		byYear, ok := totals[country]
		if !ok {
			continue
		}
		years := make([]int, 0, len(byYear))
		for y := range byYear {
			years = append(years, y)
		}
		sort.Ints(years)

		points := make([]TrendPoint, 0, len(years))
		xs := make([]float64, 0, len(years))
		ys := make([]float64, 0, len(years))
		for _, y := range years {
			points = append(points, TrendPoint{Year: y, Total: byYear[y]})
			xs = append(xs, float64(y))
			ys = append(ys, float64(byYear[y]))
		}

		slope := 0.0
		if len(points) >= 2 {
			_, slope = stat.LinearRegression(xs, ys, nil, false)
		}
		series = append(series, TrendSeries{Country: country, Points: points, Slope: slope})
	}
	return series
}
