package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels for errors.Is matching across the pipeline.
var (
	ErrDataSource       = errors.New("data source error")
	ErrParse            = errors.New("parse error")
	ErrInsufficientData = errors.New("insufficient data")
)

// DataSourceError indicates the input file is missing, unreadable, or does not
// match the expected schema.
type DataSourceError struct {
	Path    string
	Missing []string // required columns absent from the header
	Err     error
}

func (e *DataSourceError) Error() string {
	if e == nil {
		return "data source error"
	}
	if len(e.Missing) > 0 {
		return fmt.Sprintf("data source %s: missing columns: %s", e.Path, strings.Join(e.Missing, ", "))
	}
	if e.Err != nil {
		return fmt.Sprintf("data source %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("data source %s: invalid", e.Path)
}

func (e *DataSourceError) Unwrap() error        { return e.Err }
func (e *DataSourceError) Is(target error) bool { return target == ErrDataSource }

// ParseError identifies a malformed field. Row is the 1-based data row number
// in the source file (header excluded).
type ParseError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("row %d: column %s: cannot parse %q: %v", e.Row, e.Column, e.Value, e.Err)
	}
	return fmt.Sprintf("row %d: column %s: cannot parse %q", e.Row, e.Column, e.Value)
}

func (e *ParseError) Unwrap() error        { return e.Err }
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// InsufficientDataError reports that a statistic is not computable for the
// given view. It is an expected outcome, not a failure of the pipeline.
type InsufficientDataError struct {
	Statistic string
	Need      int
	Got       int
	Reason    string
}

func (e *InsufficientDataError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s not computable: %s", e.Statistic, e.Reason)
	}
	return fmt.Sprintf("%s not computable: need at least %d valid values, got %d", e.Statistic, e.Need, e.Got)
}

func (e *InsufficientDataError) Is(target error) bool { return target == ErrInsufficientData }
