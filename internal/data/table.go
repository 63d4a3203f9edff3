package data

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"energy-multiplier/internal/logger"
	"energy-multiplier/internal/model"
	"energy-multiplier/internal/schema"

	"github.com/xuri/excelize/v2"
)

const sniffBytes = 4096

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV reads a delimited table. The delimiter is ';' when the header line
// has more semicolons than commas, else ','. A UTF-8 BOM is stripped and the
// headers are normalized. Short rows are padded to the header width.
func ReadCSV(name string, r io.Reader) (model.Table, error) {
	br := bufio.NewReaderSize(r, sniffBytes)
	if b, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(b, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	head, err := br.Peek(sniffBytes)
	if err != nil && err != io.EOF {
		return model.Table{}, fmt.Errorf("read %s: %w", name, err)
	}

	cr := csv.NewReader(br)
	cr.Comma = sniffDelimiter(head)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return model.Table{}, fmt.Errorf("parse %s: %w", name, err)
	}
	return newTable(name, records), nil
}

func sniffDelimiter(head []byte) rune {
	line := head
	if i := bytes.IndexByte(head, '\n'); i >= 0 {
		line = head[:i]
	}
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}

// ReadWorkbook reads the price sheet of a spreadsheet: the first sheet whose
// name mentions prices, else the first sheet.
func ReadWorkbook(name string, r io.Reader) (model.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return model.Table{}, fmt.Errorf("open workbook %s: %w", name, err)
	}
	defer f.Close()

	sheet := schema.PickSheet(f.GetSheetList())
	if sheet == "" {
		return model.Table{}, fmt.Errorf("workbook %s has no sheets", name)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return model.Table{}, fmt.Errorf("read sheet %q of %s: %w", sheet, name, err)
	}
	logger.Debug("read workbook", "file", name, "sheet", sheet, "rows", len(rows))
	return newTable(name, rows), nil
}

// ReadTable dispatches on the file extension of name.
func ReadTable(name string, r io.Reader) (model.Table, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return ReadWorkbook(name, r)
	case ".csv", ".txt", "":
		return ReadCSV(name, r)
	default:
		return model.Table{}, fmt.Errorf("unsupported table format %q", filepath.Ext(name))
	}
}

// ReadTableFile opens path and reads it with ReadTable.
func ReadTableFile(path string) (model.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Table{}, fmt.Errorf("failed to open table: %w", err)
	}
	defer f.Close()
	return ReadTable(filepath.Base(path), f)
}

func newTable(name string, records [][]string) model.Table {
	t := model.Table{Name: name}
	for len(records) > 0 && blank(records[0]) {
		records = records[1:]
	}
	if len(records) == 0 {
		return t
	}
	t.Headers = schema.NormalizeHeaders(records[0])
	for _, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		if len(rec) < len(t.Headers) {
			padded := make([]string, len(t.Headers))
			copy(padded, rec)
			rec = padded
		}
		t.Rows = append(t.Rows, rec)
	}
	return t
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
