// Package csvio reads and writes the dashboard's CSV schema: the Olympic
// medal export with columns Athlete, Age, Country, Year, Date, Sport, Gold,
// Silver, Bronze, Total. Loading validates the header and every cell once,
// so downstream aggregation can treat tables as already well-formed.
package csvio

import (
	"encoding/csv"
	"errors"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/navadeep914/olampic-dataset/internal/medals"
)

// Columns lists the required header columns in canonical export order.
// Extra columns in an upload are ignored; header names match exactly.
var Columns = []string{
	"Athlete", "Age", "Country", "Year", "Date", "Sport",
	"Gold", "Silver", "Bronze", "Total",
}

// columnForField maps the record's json field names (what validator/v10
// reports) back to CSV column names for error messages.
var columnForField = map[string]string{
	"athlete": "Athlete",
	"age":     "Age",
	"country": "Country",
	"year":    "Year",
	"date":    "Date",
	"sport":   "Sport",
	"gold":    "Gold",
	"silver":  "Silver",
	"bronze":  "Bronze",
	"total":   "Total",
}

var validate = newValidator()

// newValidator configures validator/v10 to report json tag names so struct
// violations map cleanly onto CSV columns.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Load parses a medal CSV into a table. It returns a *ValidationError for
// malformed input: a header missing a required column, a row that does not
// parse, or a cell that violates the record constraints. A valid header with
// zero data rows loads as an empty table.
func Load(r io.Reader) ([]medals.MedalRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &ValidationError{Kind: MissingColumn, Column: Columns[0], Detail: "empty file (no header row)"}
	}
	if err != nil {
		return nil, &ValidationError{Kind: UnparsableValue, Detail: "malformed header row: " + err.Error()}
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}
	for _, name := range Columns {
		if _, ok := index[name]; !ok {
			return nil, &ValidationError{Kind: MissingColumn, Column: name}
		}
	}

	var table []medals.MedalRecord
	row := 0
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			return nil, &ValidationError{Kind: UnparsableValue, Row: row, Detail: "malformed row: " + err.Error()}
		}

		record, verr := parseRecord(fields, index, row)
		if verr != nil {
			return nil, verr
		}
		table = append(table, record)
	}

	if table == nil {
		table = []medals.MedalRecord{}
	}
	return table, nil
}

func parseRecord(fields []string, index map[string]int, row int) (medals.MedalRecord, *ValidationError) {
	cell := func(column string) string {
		i := index[column]
		if i >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[i])
	}

	parseCount := func(column string) (int, *ValidationError) {
		raw := cell(column)
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, &ValidationError{Kind: UnparsableValue, Row: row, Column: column, Value: raw, Detail: "is not an integer"}
		}
		return n, nil
	}

	record := medals.MedalRecord{
		Athlete: cell("Athlete"),
		Country: cell("Country"),
		Date:    cell("Date"),
		Sport:   cell("Sport"),
	}

	var verr *ValidationError
	if record.Year, verr = parseCount("Year"); verr != nil {
		return medals.MedalRecord{}, verr
	}
	if record.Gold, verr = parseCount("Gold"); verr != nil {
		return medals.MedalRecord{}, verr
	}
	if record.Silver, verr = parseCount("Silver"); verr != nil {
		return medals.MedalRecord{}, verr
	}
	if record.Bronze, verr = parseCount("Bronze"); verr != nil {
		return medals.MedalRecord{}, verr
	}
	if record.Total, verr = parseCount("Total"); verr != nil {
		return medals.MedalRecord{}, verr
	}

	// Age is the one optional column: blank means unknown.
	if raw := cell("Age"); raw != "" {
		age, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return medals.MedalRecord{}, &ValidationError{Kind: UnparsableValue, Row: row, Column: "Age", Value: raw, Detail: "is not a number"}
		}
		record.Age = &age
	}

	if err := validate.Struct(record); err != nil {
		return medals.MedalRecord{}, structError(err, record, row)
	}
	return record, nil
}

// structError converts the first validator/v10 field error into a
// ValidationError pointing at the offending CSV cell.
func structError(err error, record medals.MedalRecord, row int) *ValidationError {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Kind: UnparsableValue, Row: row, Detail: err.Error()}
	}

	fe := fieldErrs[0]
	column := columnForField[fe.Field()]
	value := ""
	if v := fe.Value(); v != nil {
		switch x := v.(type) {
		case string:
			value = x
		case int:
			value = strconv.Itoa(x)
		case float64:
			value = strconv.FormatFloat(x, 'f', -1, 64)
		}
	}
	return &ValidationError{
		Kind:   UnparsableValue,
		Row:    row,
		Column: column,
		Value:  value,
		Detail: friendlyMessage(fe),
	}
}

func friendlyMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be blank"
	case "gte":
		return "must be at least " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	}
	return "fails constraint " + fe.Tag()
}
