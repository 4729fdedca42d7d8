package api

import (
	"testing"

	"github.com/navadeep914/olampic-dataset/internal/medals"
)

func TestPrepareBarChartData_Empty(t *testing.T) {
	result := PrepareBarChartData(medals.AggregateResult{Group: medals.GroupCountry}, 10)

	if result == nil {
		t.Fatal("expected non-nil result")
	}
	if len(result.Labels) != 0 {
		t.Errorf("expected empty labels, got %d", len(result.Labels))
	}
	if result.NumRows != 0 {
		t.Errorf("expected NumRows=0, got %d", result.NumRows)
	}
}

func TestPrepareBarChartData_Limit(t *testing.T) {
	agg := medals.AggregateResult{
		Group: medals.GroupCountry,
		Rows: []medals.AggregateRow{
			{Key: "United States", Gold: 13, Total: 20, Rank: 1},
			{Key: "Jamaica", Gold: 6, Total: 6, Rank: 2},
			{Key: "China", Gold: 4, Total: 6, Rank: 3},
		},
	}

	result := PrepareBarChartData(agg, 2)

	if len(result.Labels) != 2 {
		t.Fatalf("expected 2 labels, got %d", len(result.Labels))
	}
	if result.Labels[0] != "United States" || result.Labels[1] != "Jamaica" {
		t.Errorf("unexpected labels: %v", result.Labels)
	}
	if result.Values[0] != 20 || result.Values[1] != 6 {
		t.Errorf("unexpected values: %v", result.Values)
	}
	// NumRows reports the pre-limit count so titles can say "top 2 of 3".
	if result.NumRows != 3 {
		t.Errorf("expected NumRows=3, got %d", result.NumRows)
	}
}

func TestPrepareBreakdownChartData_AlignedSeries(t *testing.T) {
	agg := medals.AggregateResult{
		Group: medals.GroupCountry,
		Rows: []medals.AggregateRow{
			{Key: "United States", Gold: 13, Silver: 4, Bronze: 3, Total: 20, Rank: 1},
			{Key: "China", Gold: 4, Silver: 1, Bronze: 1, Total: 6, Rank: 2},
		},
	}

	result := PrepareBreakdownChartData(agg, 0)

	if len(result.Labels) != 2 {
		t.Fatalf("expected 2 labels, got %d", len(result.Labels))
	}
	if result.Gold[0] != 13 || result.Silver[0] != 4 || result.Bronze[0] != 3 {
		t.Errorf("unexpected first row series: gold=%d silver=%d bronze=%d",
			result.Gold[0], result.Silver[0], result.Bronze[0])
	}
	if result.Gold[1] != 4 || result.Silver[1] != 1 || result.Bronze[1] != 1 {
		t.Errorf("unexpected second row series: gold=%d silver=%d bronze=%d",
			result.Gold[1], result.Silver[1], result.Bronze[1])
	}
}

func TestPrepareProportionChartData(t *testing.T) {
	rows := []medals.ProportionRow{
		{Key: "Jamaica", Gold: 6, Total: 6, Proportion: 1.0, Rank: 1},
		{Key: "United States", Gold: 13, Total: 20, Proportion: 0.65, Rank: 2},
	}

	result := PrepareProportionChartData(rows)

	if result == nil {
		t.Fatal("expected non-nil result")
	}
	if len(result.Labels) != 2 {
		t.Fatalf("expected 2 labels, got %d", len(result.Labels))
	}
	if result.Proportions[0] != 1.0 || result.Proportions[1] != 0.65 {
		t.Errorf("unexpected proportions: %v", result.Proportions)
	}
	if result.NumRows != 2 {
		t.Errorf("expected NumRows=2, got %d", result.NumRows)
	}
}

func TestPrepareAthleteChartData_CountryInLabel(t *testing.T) {
	rows := []medals.AthleteRow{
		{Athlete: "Michael Phelps", Country: "United States", Sport: "Swimming", Gold: 12, Total: 14, Rank: 1},
		{Athlete: "Usain Bolt", Country: "Jamaica", Sport: "Athletics", Gold: 6, Total: 6, Rank: 2},
	}

	result := PrepareAthleteChartData(rows)

	if len(result.Labels) != 2 {
		t.Fatalf("expected 2 labels, got %d", len(result.Labels))
	}
	if result.Labels[0] != "Michael Phelps (United States)" {
		t.Errorf("expected country in label, got %q", result.Labels[0])
	}
	if result.Values[0] != 14 {
		t.Errorf("expected Values[0]=14, got %d", result.Values[0])
	}
}

func TestPreparePieChartData(t *testing.T) {
	agg := medals.AggregateResult{
		Group: medals.GroupSport,
		Rows: []medals.AggregateRow{
			{Key: "Swimming", Total: 24, Rank: 1},
			{Key: "Athletics", Total: 6, Rank: 2},
			{Key: "Diving", Total: 2, Rank: 3},
		},
	}

	result := PreparePieChartData(agg, 2)

	if len(result.Slices) != 2 {
		t.Fatalf("expected 2 slices, got %d", len(result.Slices))
	}
	if result.Slices[0].Name != "Swimming" || result.Slices[0].Value != 24 {
		t.Errorf("unexpected first slice: %+v", result.Slices[0])
	}
	if result.NumRows != 3 {
		t.Errorf("expected NumRows=3, got %d", result.NumRows)
	}
}

func TestPrepareTrendChartData_Empty(t *testing.T) {
	result := PrepareTrendChartData(nil)

	if result == nil {
		t.Fatal("expected non-nil result")
	}
	if len(result.Years) != 0 {
		t.Errorf("expected no years, got %v", result.Years)
	}
	if len(result.Series) != 0 {
		t.Errorf("expected no series, got %d", len(result.Series))
	}
}

func TestPrepareTrendChartData_YearUnionAndGaps(t *testing.T) {
	series := []medals.TrendSeries{
		{
			Country: "United States",
			Points: []medals.TrendPoint{
				{Year: 2000, Total: 10},
				{Year: 2004, Total: 12},
				{Year: 2008, Total: 14},
			},
			Slope: 0.5,
		},
		{
			Country: "China",
			Points: []medals.TrendPoint{
				{Year: 2004, Total: 8},
				{Year: 2008, Total: 11},
			},
			Slope: 0.75,
		},
	}

	result := PrepareTrendChartData(series)

	wantYears := []int{2000, 2004, 2008}
	if len(result.Years) != len(wantYears) {
		t.Fatalf("expected %d years, got %v", len(wantYears), result.Years)
	}
	for i, y := range wantYears {
		if result.Years[i] != y {
			t.Errorf("year %d: expected %d, got %d", i, y, result.Years[i])
		}
	}

	if len(result.Series) != 2 {
		t.Fatalf("expected 2 series, got %d", len(result.Series))
	}

	us := result.Series[0]
	if us.Country != "United States" || us.Slope != 0.5 {
		t.Errorf("unexpected first series: country=%q slope=%f", us.Country, us.Slope)
	}
	for i, want := range []int{10, 12, 14} {
		if us.Values[i] == nil || *us.Values[i] != want {
			t.Errorf("US values[%d]: expected %d, got %v", i, want, us.Values[i])
		}
	}

	// China has no entry for 2000, so the first value is a gap.
	cn := result.Series[1]
	if cn.Values[0] != nil {
		t.Errorf("expected nil gap for China in 2000, got %d", *cn.Values[0])
	}
	if cn.Values[1] == nil || *cn.Values[1] != 8 {
		t.Errorf("expected China 2004 value 8, got %v", cn.Values[1])
	}
	if cn.Values[2] == nil || *cn.Values[2] != 11 {
		t.Errorf("expected China 2008 value 11, got %v", cn.Values[2])
	}
}
