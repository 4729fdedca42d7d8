package medals

import "sort"

// DefaultTopAthletes is the athlete leaderboard size when the caller does
// not override it.
const DefaultTopAthletes = 20

// AthleteRow is one athlete's medal aggregate annotated with the country and
// sport of their first appearance in table order.
type AthleteRow struct {
	Athlete string `json:"athlete"`
	Country string `json:"country"`
	Sport   string `json:"sport"`
	Gold    int    `json:"gold"`
	Silver  int    `json:"silver"`
	Bronze  int    `json:"bronze"`
	Total   int    `json:"total"`
	Rank    int    `json:"rank"`
}

// TopAthletes returns the first n athletes of the athlete aggregate with
// their per-medal-type breakdown. The country and sport columns come from
// the athlete's first record in the table, so no extra aggregation pass is
// needed. n <= 0 falls back to DefaultTopAthletes.
func TopAthletes(table []MedalRecord, n int) []AthleteRow {
	if n <= 0 {
		n = DefaultTopAthletes
	}

	firstCountry := make(map[string]string, 64)
	firstSport := make(map[string]string, 64)
	for _, r := range table {
		if _, ok := firstCountry[r.Athlete]; !ok {
			firstCountry[r.Athlete] = r.Country
			firstSport[r.Athlete] = r.Sport
		}
	}

	base := Aggregate(table, GroupAthlete).Top(n)
	rows := make([]AthleteRow, 0, len(base.Rows))
	for _, row := range base.Rows {
		rows = append(rows, AthleteRow{
			Athlete: row.Key,
			Country: firstCountry[row.Key],
			Sport:   firstSport[row.Key],
			Gold:    row.Gold,
			Silver:  row.Silver,
			Bronze:  row.Bronze,
			Total:   row.Total,
			Rank:    row.Rank,
		})
	}
	return rows
}

// CountryAthletes counts the distinct athletes appearing for one country.
type CountryAthletes struct {
	Country  string `json:"country"`
	Athletes int    `json:"athletes"`
}

// AthletesPerCountry counts distinct athletes per country, ordered by count
// descending then country ascending. n <= 0 returns all countries.
func AthletesPerCountry(table []MedalRecord, n int) []CountryAthletes {
	seen := make(map[string]map[string]struct{}, 64)
	for _, r := range table {
		set, ok := seen[r.Country]
		if !ok {
			set = make(map[string]struct{})
			seen[r.Country] = set
		}
		set[r.Athlete] = struct{}{}
	}

	rows := make([]CountryAthletes, 0, len(seen))
	for country, set := range seen {
		rows = append(rows, CountryAthletes{Country: country, Athletes: len(set)})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Athletes != rows[j].Athletes {
			return rows[i].Athletes > rows[j].Athletes
		}
		return rows[i].Country < rows[j].Country
	})
	if n > 0 && n < len(rows) {
		rows = rows[:n]
	}
	return rows
}
