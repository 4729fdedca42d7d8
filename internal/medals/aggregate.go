package medals

import (
	"sort"
	"strconv"
)

// AggregateRow is one group's summed medal counts within an AggregateResult.
type AggregateRow struct {
	Key    string `json:"key"`
	Gold   int    `json:"gold"`
	Silver int    `json:"silver"`
	Bronze int    `json:"bronze"`
	Total  int    `json:"total"`
	Rank   int    `json:"rank"`
}

// AggregateResult is the ordered output of Aggregate. Rows are sorted by
// total descending, then gold descending, then group key ascending, and
// carry contiguous 1-based ranks in that order.
type AggregateResult struct {
	Group GroupKey       `json:"group"`
	Rows  []AggregateRow `json:"rows"`
}

// Aggregate sums gold/silver/bronze/total per distinct value of group and
// ranks the groups. The ordering is deterministic so Top-N views are
// reproducible across runs. An empty table yields an empty result, not an
// error.
func Aggregate(table []MedalRecord, group GroupKey) AggregateResult {
	byKey := make(map[string]*AggregateRow, 64)
	for _, r := range table {
		key := group.valueOf(r)
		row, ok := byKey[key]
		if !ok {
			row = &AggregateRow{Key: key}
			byKey[key] = row
		}
		row.Gold += r.Gold
		row.Silver += r.Silver
		row.Bronze += r.Bronze
		row.Total += r.Total
	}

	rows := make([]AggregateRow, 0, len(byKey))
	for _, row := range byKey {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		if rows[i].Gold != rows[j].Gold {
			return rows[i].Gold > rows[j].Gold
		}
		return keyLess(group, rows[i].Key, rows[j].Key)
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return AggregateResult{Group: group, Rows: rows}
}

// keyLess orders group keys ascending. Year keys compare numerically; for
// the four-digit years in Olympic data this matches lexical order, but the
// numeric compare keeps the contract honest for any year value.
func keyLess(group GroupKey, a, b string) bool {
	if group == GroupYear {
		ai, aerr := strconv.Atoi(a)
		bi, berr := strconv.Atoi(b)
		if aerr == nil && berr == nil {
			return ai < bi
		}
	}
	return a < b
}

// Top returns a result containing only the first n rows. n <= 0 means all
// rows. Ranks are preserved from the full ordering.
func (r AggregateResult) Top(n int) AggregateResult {
	if n <= 0 || n >= len(r.Rows) {
		return r
	}
	return AggregateResult{Group: r.Group, Rows: r.Rows[:n]}
}

// TotalMedals returns the sum of row totals. Aggregation conserves the
// table-wide medal count, so this equals the sum of the input totals.
func (r AggregateResult) TotalMedals() int {
	sum := 0
	for _, row := range r.Rows {
		sum += row.Total
	}
	return sum
}

// Row returns the row for key and whether it exists.
func (r AggregateResult) Row(key string) (AggregateRow, bool) {
	for _, row := range r.Rows {
		if row.Key == key {
			return row, true
		}
	}
	return AggregateRow{}, false
}

// ProportionRow is one group's gold share of its total medals.
type ProportionRow struct {
	Key        string  `json:"key"`
	Gold       int     `json:"gold"`
	Total      int     `json:"total"`
	Proportion float64 `json:"proportion"`
	Rank       int     `json:"rank"`
}

// GoldProportion derives gold/total per row of a base aggregate, keeping the
// base ordering and ranks. Groups with zero total report proportion 0 rather
// than dividing by zero.
func GoldProportion(result AggregateResult) []ProportionRow {
	rows := make([]ProportionRow, 0, len(result.Rows))
	for _, row := range result.Rows {
		p := 0.0
		if row.Total > 0 {
			p = float64(row.Gold) / float64(row.Total)
		}
		rows = append(rows, ProportionRow{
			Key:        row.Key,
			Gold:       row.Gold,
			Total:      row.Total,
			Proportion: p,
			Rank:       row.Rank,
		})
	}
	return rows
}
