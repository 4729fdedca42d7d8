package csvio

import "fmt"

// ValidationKind classifies why an uploaded CSV was rejected.
type ValidationKind string

const (
	// MissingColumn means the header row lacks a required column.
	MissingColumn ValidationKind = "missing_column"
	// UnparsableValue means a data cell (or row) could not be read as the
	// column's type.
	UnparsableValue ValidationKind = "unparsable_value"
)

// ValidationError reports the first problem found in an uploaded CSV. Row is
// the 1-based data row (the header is row 0 and never counted); it is zero
// for header-level problems. Processing halts at the first error, so a
// rejected upload never partially replaces the current dataset.
type ValidationError struct {
	Kind   ValidationKind `json:"kind"`
	Column string         `json:"column,omitempty"`
	Row    int            `json:"row,omitempty"`
	Value  string         `json:"value,omitempty"`
	Detail string         `json:"detail,omitempty"`
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case MissingColumn:
		if e.Detail != "" {
			return fmt.Sprintf("missing required column %s: %s", e.Column, e.Detail)
		}
		return fmt.Sprintf("missing required column %s", e.Column)
	case UnparsableValue:
		if e.Column == "" {
			return fmt.Sprintf("row %d: %s", e.Row, e.Detail)
		}
		if e.Detail != "" {
			return fmt.Sprintf("row %d, column %s: value %q %s", e.Row, e.Column, e.Value, e.Detail)
		}
		return fmt.Sprintf("row %d, column %s: cannot parse %q", e.Row, e.Column, e.Value)
	}
	return fmt.Sprintf("invalid CSV (%s)", e.Kind)
}
