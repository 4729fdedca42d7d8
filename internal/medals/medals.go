// Package medals implements the aggregation core of the medal dashboard:
// typed medal records, year/country/sport filtering, grouped medal sums with
// deterministic ranking, and the derived views the dashboard renders. All
// functions are pure over their inputs; tables are never mutated in place.
package medals

import (
	"fmt"
	"strconv"
)

// MedalRecord is one row of the input table: one athlete's medal tally for a
// single games/country/sport combination. Age is optional and nil when the
// source cell is blank. Total is carried from the input by convention
// (gold+silver+bronze) but not recomputed.
type MedalRecord struct {
	Athlete string   `json:"athlete" validate:"required"`
	Age     *float64 `json:"age,omitempty" validate:"omitempty,gte=0"`
	Country string   `json:"country" validate:"required"`
	Year    int      `json:"year" validate:"gt=0"`
	Date    string   `json:"date"`
	Sport   string   `json:"sport" validate:"required"`
	Gold    int      `json:"gold" validate:"gte=0"`
	Silver  int      `json:"silver" validate:"gte=0"`
	Bronze  int      `json:"bronze" validate:"gte=0"`
	Total   int      `json:"total" validate:"gte=0"`
}

// GroupKey selects the dimension an aggregation groups by.
type GroupKey string

const (
	GroupCountry GroupKey = "country"
	GroupAthlete GroupKey = "athlete"
	GroupSport   GroupKey = "sport"
	GroupYear    GroupKey = "year"
)

// ParseGroupKey maps a request parameter to a GroupKey.
func ParseGroupKey(s string) (GroupKey, error) {
	switch GroupKey(s) {
	case GroupCountry, GroupAthlete, GroupSport, GroupYear:
		return GroupKey(s), nil
	}
	return "", fmt.Errorf("unknown group key %q (expected country, athlete, sport or year)", s)
}

// valueOf extracts the record's value on this dimension as the group key
// string. Years render as base-10 so the key survives JSON round trips.
func (k GroupKey) valueOf(r MedalRecord) string {
	switch k {
	case GroupCountry:
		return r.Country
	case GroupAthlete:
		return r.Athlete
	case GroupSport:
		return r.Sport
	case GroupYear:
		return strconv.Itoa(r.Year)
	}
	return ""
}
