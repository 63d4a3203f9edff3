package model

// Table is a raw tabular source after reading: one header row and string cells.
// Readers pad short rows so every row has len(Headers) cells.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// Cell returns row[idx], or "" when the row is too short.
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
