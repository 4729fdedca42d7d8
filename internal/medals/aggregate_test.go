package medals

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAggregateByCountry(t *testing.T) {
	table := []MedalRecord{
		rec("A", "USA", 2008, "Swimming", 8, 0, 0),
		rec("B", "USA", 2008, "Athletics", 0, 2, 0),
		rec("C", "CHN", 2008, "Diving", 1, 1, 1),
	}

	got := Aggregate(table, GroupCountry)
	want := AggregateResult{
		Group: GroupCountry,
		Rows: []AggregateRow{
			{Key: "USA", Gold: 8, Silver: 2, Bronze: 0, Total: 10, Rank: 1},
			{Key: "CHN", Gold: 1, Silver: 1, Bronze: 1, Total: 3, Rank: 2},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("aggregate mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregateConservesTotal(t *testing.T) {
	table := []MedalRecord{
		rec("A", "USA", 2000, "Swimming", 3, 1, 0),
		rec("B", "CHN", 2004, "Diving", 2, 2, 2),
		rec("C", "GBR", 2008, "Cycling", 0, 0, 5),
		rec("A", "USA", 2004, "Swimming", 4, 0, 1),
	}
	tableTotal := 0
	for _, r := range table {
		tableTotal += r.Total
	}

	for _, group := range []GroupKey{GroupCountry, GroupAthlete, GroupSport, GroupYear} {
		result := Aggregate(table, group)
		if got := result.TotalMedals(); got != tableTotal {
			t.Errorf("group %s: aggregate total = %d, table total = %d", group, got, tableTotal)
		}
	}
}

func TestAggregateRanksContiguous(t *testing.T) {
	table := []MedalRecord{
		rec("A", "USA", 2000, "Swimming", 5, 0, 0),
		rec("B", "CHN", 2000, "Diving", 3, 0, 0),
		rec("C", "GBR", 2000, "Cycling", 3, 0, 0),
		rec("D", "FRA", 2000, "Fencing", 1, 0, 0),
		rec("E", "GER", 2000, "Rowing", 1, 0, 0),
	}

	result := Aggregate(table, GroupCountry)
	if len(result.Rows) != 5 {
		t.Fatalf("expected 5 groups, got %d", len(result.Rows))
	}
	for i, row := range result.Rows {
		if row.Rank != i+1 {
			t.Errorf("row %d (%s): rank = %d, want %d", i, row.Key, row.Rank, i+1)
		}
	}
}

func TestAggregateTieBreaks(t *testing.T) {
	// Equal totals: more gold ranks first. Equal totals and gold: key ascending.
	table := []MedalRecord{
		rec("a", "AUS", 2000, "Swimming", 5, 5, 0), // total 10, gold 5
		rec("b", "BRA", 2000, "Football", 7, 3, 0), // total 10, gold 7
		rec("c", "ARG", 2000, "Hockey", 7, 3, 0),   // total 10, gold 7
	}

	result := Aggregate(table, GroupCountry)
	order := []string{"ARG", "BRA", "AUS"}
	for i, want := range order {
		if result.Rows[i].Key != want {
			t.Fatalf("position %d: got %s, want %s (rows: %+v)", i, result.Rows[i].Key, want, result.Rows)
		}
	}
}

func TestAggregateEmptyTable(t *testing.T) {
	result := Aggregate(nil, GroupCountry)
	if len(result.Rows) != 0 {
		t.Errorf("empty table should aggregate to zero rows, got %d", len(result.Rows))
	}
	if result.TotalMedals() != 0 {
		t.Errorf("empty aggregate total = %d, want 0", result.TotalMedals())
	}
}

func TestAggregateYearOrdering(t *testing.T) {
	// Identical totals across years: ascending year breaks the tie.
	table := []MedalRecord{
		rec("A", "USA", 2008, "Swimming", 2, 0, 0),
		rec("B", "USA", 1996, "Swimming", 2, 0, 0),
		rec("C", "USA", 2004, "Swimming", 2, 0, 0),
	}

	result := Aggregate(table, GroupYear)
	order := []string{"1996", "2004", "2008"}
	for i, want := range order {
		if result.Rows[i].Key != want {
			t.Errorf("position %d: got %s, want %s", i, result.Rows[i].Key, want)
		}
	}
}

func TestAggregateTop(t *testing.T) {
	table := []MedalRecord{
		rec("A", "USA", 2000, "Swimming", 5, 0, 0),
		rec("B", "CHN", 2000, "Diving", 3, 0, 0),
		rec("C", "GBR", 2000, "Cycling", 1, 0, 0),
	}
	result := Aggregate(table, GroupCountry)

	top := result.Top(2)
	if len(top.Rows) != 2 {
		t.Fatalf("Top(2) returned %d rows", len(top.Rows))
	}
	if top.Rows[0].Key != "USA" || top.Rows[1].Key != "CHN" {
		t.Errorf("Top(2) order wrong: %+v", top.Rows)
	}
	if top.Rows[1].Rank != 2 {
		t.Errorf("Top must preserve ranks, got %d", top.Rows[1].Rank)
	}

	if got := result.Top(0); len(got.Rows) != 3 {
		t.Errorf("Top(0) should return all rows, got %d", len(got.Rows))
	}
	if got := result.Top(10); len(got.Rows) != 3 {
		t.Errorf("Top(10) on 3 rows should return 3, got %d", len(got.Rows))
	}
}

func TestGoldProportion(t *testing.T) {
	table := []MedalRecord{
		rec("A", "USA", 2000, "Swimming", 3, 1, 0), // 3/4
		rec("B", "CHN", 2000, "Diving", 0, 2, 2),   // 0/4
	}
	zeroTotal := MedalRecord{Athlete: "C", Country: "GBR", Year: 2000, Sport: "Cycling"}
	table = append(table, zeroTotal)

	rows := GoldProportion(Aggregate(table, GroupCountry))
	byKey := make(map[string]ProportionRow)
	for _, row := range rows {
		byKey[row.Key] = row
	}

	if got := byKey["USA"].Proportion; got != 0.75 {
		t.Errorf("USA proportion = %v, want 0.75", got)
	}
	if got := byKey["CHN"].Proportion; got != 0 {
		t.Errorf("CHN proportion = %v, want 0", got)
	}
	// Zero total must report zero, not NaN.
	if got := byKey["GBR"].Proportion; got != 0 {
		t.Errorf("GBR (zero total) proportion = %v, want 0", got)
	}

	// Base ordering and ranks carry over.
	if rows[0].Rank != 1 {
		t.Errorf("first proportion row rank = %d, want 1", rows[0].Rank)
	}
}

func TestAggregateResultRow(t *testing.T) {
	result := Aggregate([]MedalRecord{rec("A", "USA", 2000, "Swimming", 1, 0, 0)}, GroupCountry)

	row, ok := result.Row("USA")
	if !ok || row.Total != 1 {
		t.Errorf("Row(USA) = %+v, %v", row, ok)
	}
	if _, ok := result.Row("CHN"); ok {
		t.Error("Row(CHN) should not exist")
	}
}
