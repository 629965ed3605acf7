package storage

import (
	"math"
	"strconv"
	"strings"
)

// Kind is the storage type of a column. It only decides the default value
// filled in when a column is missing from a loaded table.
type Kind int

const (
	KindText Kind = iota
	KindInt
)

// Column is one declared field of a table.
type Column struct {
	Name string
	Kind Kind
}

// Default returns the value backfilled for the column when it is absent:
// "0" for numeric and flag columns, "" for text.
func (c Column) Default() string {
	if c.Kind == KindInt {
		return "0"
	}
	return ""
}

// Schema names a table and declares its columns in storage order.
type Schema struct {
	Name    string
	Columns []Column
}

// Header returns the column names in declared order.
func (s Schema) Header() []string {
	h := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		h[i] = c.Name
	}
	return h
}

// Index returns the position of the named column, or -1.
func (s Schema) Index(name string) int {
	for i, c := range s.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Conform maps a raw table onto the schema. Every declared column is present
// in the result, in declared order; absent columns and short rows get the
// column default. Columns the schema does not declare are ignored.
func (s Schema) Conform(t Table) []Record {
	pos := make(map[string]int, len(t.Header))
	for i, name := range t.Header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := pos[name]; !dup {
			pos[name] = i
		}
	}

	records := make([]Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		if isBlank(row) {
			continue
		}
		rec := make(Record, len(s.Columns))
		for _, c := range s.Columns {
			v := c.Default()
			if i, ok := pos[c.Name]; ok && i < len(row) {
				v = row[i]
				if v == "" && c.Kind == KindInt {
					v = "0"
				}
			}
			rec[c.Name] = v
		}
		records = append(records, rec)
	}
	return records
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Table is the raw content of a named table: a header row of field names and
// one row of plain-text values per record, in stored order.
type Table struct {
	Header []string
	Rows   [][]string
}

// Len reports the number of data rows.
func (t Table) Len() int { return len(t.Rows) }

// Record is one row keyed by column name.
type Record map[string]string

// Text returns the raw value of a column.
func (r Record) Text(name string) string { return r[name] }

// Int parses a column as a non-negative integer. Spreadsheet exports may
// carry values like "30.0"; those are truncated. Negative, non-finite,
// out-of-range and unparseable values read as 0.
func (r Record) Int(name string) int {
	v := strings.TrimSpace(r[name])
	if v == "" {
		return 0
	}
	if n, err := strconv.Atoi(v); err == nil {
		return max(n, 0)
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		if math.IsNaN(f) || f < 0 || f >= math.MaxInt32 {
			return 0
		}
		return int(f)
	}
	switch strings.ToLower(v) {
	case "true", "yes":
		return 1
	}
	return 0
}

// Bool reads a boolean-as-integer flag column.
func (r Record) Bool(name string) bool { return r.Int(name) != 0 }

// FormatBool renders a flag the way it is stored.
func FormatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
