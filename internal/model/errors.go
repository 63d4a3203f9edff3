package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoMatchingData is returned when curve days and price days never intersect.
	// It almost always means the selected year does not match the files.
	ErrNoMatchingData = errors.New("no matching data: no curve hour has a price")
	// ErrUnknownZone is returned when the requested market zone is not a price column.
	ErrUnknownZone = errors.New("unknown market zone")
	// ErrNoPriceFile is returned when no hourly price source exists for the year.
	ErrNoPriceFile = errors.New("no price file for year")
)

// SchemaError reports a required column that could not be located.
// It aborts the run.
type SchemaError struct {
	Source  string
	Role    string
	Headers []string
}

func (e *SchemaError) Error() string {
	src := e.Source
	if src == "" {
		src = "table"
	}
	return fmt.Sprintf("schema: %s: no %s column among [%s]", src, e.Role, strings.Join(e.Headers, ", "))
}

// CurveFormatError reports a load curve that does not have the fixed daily shape.
type CurveFormatError struct {
	Row    int
	Reason string
}

func (e *CurveFormatError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("curve format: row %d: %s", e.Row, e.Reason)
	}
	return "curve format: " + e.Reason
}
