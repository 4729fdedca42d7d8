package medals

import "sort"

// ImprovementRow reports a country's largest gain in total medals between
// two consecutive games it took part in, and the year the gain landed on.
// The value can be negative for countries that only ever declined.
type ImprovementRow struct {
	Country     string `json:"country"`
	Year        int    `json:"year"`
	Improvement int    `json:"improvement"`
}

// Improvement finds, per country, the largest total-medal delta between
// consecutive years the country appears in. Gaps in participation are fine:
// deltas are taken between present years, not calendar-adjacent ones.
// Countries appearing in fewer than two years are skipped. Ties inside one
// country resolve to the earliest year. Rows are ordered improvement
// descending, then country ascending; n <= 0 returns all rows.
func Improvement(table []MedalRecord, n int) []ImprovementRow {
	totals := make(map[string]map[int]int, 64)
	for _, r := range table {
		byYear, ok := totals[r.Country]
		if !ok {
			byYear = make(map[int]int)
			totals[r.Country] = byYear
		}
		byYear[r.Year] += r.Total
	}

	rows := make([]ImprovementRow, 0, len(totals))
	for country, byYear := range totals {
		if len(byYear) < 2 {
			continue
		}
		years := make([]int, 0, len(byYear))
		for y := range byYear {
			years = append(years, y)
		}
		sort.Ints(years)

		best := ImprovementRow{Country: country}
		for i := 1; i < len(years); i++ {
			delta := byYear[years[i]] - byYear[years[i-1]]
			if i == 1 || delta > best.Improvement {
				best.Year = years[i]
				best.Improvement = delta
			}
		}
		rows = append(rows, best)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Improvement != rows[j].Improvement {
			return rows[i].Improvement > rows[j].Improvement
		}
		return rows[i].Country < rows[j].Country
	})
	if n > 0 && n < len(rows) {
		rows = rows[:n]
	}
	return rows
}
