package medals

import (
	"sort"
	"strconv"
	"strings"
)

// FilterSpec holds the active year/country/sport selections. An empty slice
// on any dimension selects everything on that dimension, so the zero value
// matches every record.
type FilterSpec struct {
	Years     []int    `json:"years,omitempty"`
	Countries []string `json:"countries,omitempty"`
	Sports    []string `json:"sports,omitempty"`
}

// IsZero reports whether the spec has no active selections.
func (s FilterSpec) IsZero() bool {
	return len(s.Years) == 0 && len(s.Countries) == 0 && len(s.Sports) == 0
}

// CacheKey returns a canonical string form of the spec. Two specs selecting
// the same rows in a different literal order produce the same key, so it is
// safe to memoize aggregate results under it.
func (s FilterSpec) CacheKey() string {
	years := make([]string, len(s.Years))
	for i, y := range s.Years {
		years[i] = strconv.Itoa(y)
	}
	sort.Strings(years)

	countries := append([]string(nil), s.Countries...)
	sort.Strings(countries)

	sports := append([]string(nil), s.Sports...)
	sort.Strings(sports)

	var b strings.Builder
	b.WriteString("y=")
	b.WriteString(strings.Join(years, ","))
	b.WriteString("|c=")
	b.WriteString(strings.Join(countries, ","))
	b.WriteString("|s=")
	b.WriteString(strings.Join(sports, ","))
	return b.String()
}

// Filter returns the subsequence of table matching spec, preserving input
// order. The result is always a fresh slice; an empty result is valid and
// flows downstream as-is.
func Filter(table []MedalRecord, spec FilterSpec) []MedalRecord {
	years := make(map[int]struct{}, len(spec.Years))
	for _, y := range spec.Years {
		years[y] = struct{}{}
	}
	countries := make(map[string]struct{}, len(spec.Countries))
	for _, c := range spec.Countries {
		countries[c] = struct{}{}
	}
	sports := make(map[string]struct{}, len(spec.Sports))
	for _, sp := range spec.Sports {
		sports[sp] = struct{}{}
	}

	out := make([]MedalRecord, 0, len(table))
	for _, r := range table {
		if len(years) > 0 {
			if _, ok := years[r.Year]; !ok {
				continue
			}
		}
		if len(countries) > 0 {
			if _, ok := countries[r.Country]; !ok {
				continue
			}
		}
		if len(sports) > 0 {
			if _, ok := sports[r.Sport]; !ok {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}
