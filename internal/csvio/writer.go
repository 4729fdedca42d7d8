package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/navadeep914/olampic-dataset/internal/medals"
)

// Write emits table in the canonical input schema, so a filtered export can
// be re-uploaded unchanged. A nil Age renders as a blank cell.
func Write(w io.Writer, table []medals.MedalRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range table {
		age := ""
		if r.Age != nil {
			age = strconv.FormatFloat(*r.Age, 'f', -1, 64)
		}
		row := []string{
			r.Athlete,
			age,
			r.Country,
			strconv.Itoa(r.Year),
			r.Date,
			r.Sport,
			strconv.Itoa(r.Gold),
			strconv.Itoa(r.Silver),
			strconv.Itoa(r.Bronze),
			strconv.Itoa(r.Total),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// headerName capitalizes a group key for use as a CSV column header.
func headerName(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// WriteAggregate emits an aggregate result as a summary CSV with the group
// dimension as the first column.
func WriteAggregate(w io.Writer, result medals.AggregateResult) error {
	group := headerName(string(result.Group))
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{group, "Gold", "Silver", "Bronze", "Total", "Rank"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range result.Rows {
		record := []string{
			row.Key,
			strconv.Itoa(row.Gold),
			strconv.Itoa(row.Silver),
			strconv.Itoa(row.Bronze),
			strconv.Itoa(row.Total),
			strconv.Itoa(row.Rank),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %s: %w", row.Key, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
