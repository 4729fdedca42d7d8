package medals

// Summary holds the headline numbers for a (possibly filtered) table.
type Summary struct {
	Records   int `json:"records"`
	Total     int `json:"total"`
	Gold      int `json:"gold"`
	Silver    int `json:"silver"`
	Bronze    int `json:"bronze"`
	Athletes  int `json:"athletes"`
	Countries int `json:"countries"`
	Sports    int `json:"sports"`
	Years     int `json:"years"`
}

// Summarize computes medal sums and distinct-entity counts in one pass.
func Summarize(table []MedalRecord) Summary {
	athletes := make(map[string]struct{})
	countries := make(map[string]struct{})
	sports := make(map[string]struct{})
	years := make(map[int]struct{})

	s := Summary{Records: len(table)}
	for _, r := range table {
		s.Total += r.Total
		s.Gold += r.Gold
		s.Silver += r.Silver
		s.Bronze += r.Bronze
		athletes[r.Athlete] = struct{}{}
		countries[r.Country] = struct{}{}
		sports[r.Sport] = struct{}{}
		years[r.Year] = struct{}{}
	}
	s.Athletes = len(athletes)
	s.Countries = len(countries)
	s.Sports = len(sports)
	s.Years = len(years)
	return s
}
