package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/govalues/decimal"
)

// DateLayout is the wire format for date columns.
const DateLayout = "2006-01-02"

// Table is an ordered, schema-bound set of rows. Each cell holds one of
// string, int64, decimal.Decimal or time.Time, matching its column type.
type Table struct {
	Schema Schema
	Rows   [][]any
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// ParseError reports a cell that failed its declared type coercion.
type ParseError struct {
	File   string
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: column %q: invalid value %q: %v", e.File, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Render converts every cell to its textual form, in schema order, without
// the header row. Decimal cells are rendered with the column's exact scale.
func Render(t *Table) ([][]string, error) {
	records := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		if len(row) != len(t.Schema.Columns) {
			return nil, fmt.Errorf("row has %d cells, schema has %d columns", len(row), len(t.Schema.Columns))
		}
		record := make([]string, len(row))
		for i, cell := range row {
			text, err := formatCell(cell, t.Schema.Columns[i])
			if err != nil {
				return nil, err
			}
			record[i] = text
		}
		records = append(records, record)
	}
	return records, nil
}

func formatCell(cell any, col Column) (string, error) {
	switch col.Type {
	case String:
		v, ok := cell.(string)
		if !ok {
			return "", fmt.Errorf("column %q: expected string, got %T", col.Name, cell)
		}
		return v, nil
	case Integer:
		v, ok := cell.(int64)
		if !ok {
			return "", fmt.Errorf("column %q: expected int64, got %T", col.Name, cell)
		}
		return strconv.FormatInt(v, 10), nil
	case Decimal:
		v, ok := cell.(decimal.Decimal)
		if !ok {
			return "", fmt.Errorf("column %q: expected decimal, got %T", col.Name, cell)
		}
		scale := col.Scale
		if scale == 0 {
			scale = 2
		}
		return v.Round(scale).Pad(scale).String(), nil
	case Date:
		v, ok := cell.(time.Time)
		if !ok {
			return "", fmt.Errorf("column %q: expected time, got %T", col.Name, cell)
		}
		return v.Format(DateLayout), nil
	}
	return "", fmt.Errorf("column %q: unknown type %d", col.Name, col.Type)
}

// Encode renders the table as UTF-8 CSV with a header row.
func Encode(t *Table) ([]byte, error) {
	records, err := Render(t)
	if err != nil {
		return nil, err
	}
	return WriteRecords(t.Schema, records)
}

// WriteRecords writes pre-rendered records under the schema's header row.
// The split from Encode exists so cell encryption can run between the two.
func WriteRecords(s Schema, records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(s.Names()); err != nil {
		return nil, err
	}
	if err := w.WriteAll(records); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadRecords parses raw CSV member data into a header row and data records.
func ReadRecords(name string, data []byte) ([]string, [][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", name, err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("read %s: missing header row", name)
	}
	return all[0], all[1:], nil
}

// Decode parses CSV member data into a typed table, applying the schema's
// per-column coercion. Empty string cells decode as empty strings, not nulls.
func Decode(name string, data []byte, s Schema) (*Table, error) {
	header, records, err := ReadRecords(name, data)
	if err != nil {
		return nil, err
	}
	return DecodeRecords(name, header, records, s)
}

// DecodeRecords coerces pre-split records against the schema. The header must
// carry the schema's exact column names in order.
func DecodeRecords(name string, header []string, records [][]string, s Schema) (*Table, error) {
	if err := checkHeader(name, header, s); err != nil {
		return nil, err
	}

	tbl := &Table{Schema: s, Rows: make([][]any, 0, len(records))}
	for _, record := range records {
		if len(record) != len(s.Columns) {
			return nil, &ParseError{
				File:   name,
				Column: "",
				Value:  fmt.Sprintf("%d cells", len(record)),
				Err:    fmt.Errorf("expected %d columns", len(s.Columns)),
			}
		}
		row := make([]any, len(record))
		for i, raw := range record {
			cell, err := coerceCell(raw, s.Columns[i])
			if err != nil {
				return nil, &ParseError{File: name, Column: s.Columns[i].Name, Value: raw, Err: err}
			}
			row[i] = cell
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	return tbl, nil
}

func checkHeader(name string, header []string, s Schema) error {
	if len(header) != len(s.Columns) {
		return &ParseError{
			File:   name,
			Column: "",
			Value:  fmt.Sprintf("%d header fields", len(header)),
			Err:    fmt.Errorf("expected %d columns", len(s.Columns)),
		}
	}
	for i, got := range header {
		if got != s.Columns[i].Name {
			return &ParseError{
				File:   name,
				Column: s.Columns[i].Name,
				Value:  got,
				Err:    fmt.Errorf("unexpected header field"),
			}
		}
	}
	return nil
}

func coerceCell(raw string, col Column) (any, error) {
	switch col.Type {
	case String:
		// Empty is a legal value for string columns, required or not.
		return raw, nil
	case Integer:
		if raw == "" {
			return nil, fmt.Errorf("empty value for required integer column")
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("not an integer")
		}
		return v, nil
	case Decimal:
		if raw == "" {
			return nil, fmt.Errorf("empty value for required decimal column")
		}
		v, err := decimal.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("not a decimal")
		}
		return v, nil
	case Date:
		if raw == "" {
			return nil, fmt.Errorf("empty value for required date column")
		}
		v, err := time.Parse(DateLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("not a date (want %s)", DateLayout)
		}
		return v, nil
	}
	return nil, fmt.Errorf("unknown column type %d", col.Type)
}
