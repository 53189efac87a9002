package engine

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ValueKind discriminates the semantic type of a dataset cell.
type ValueKind int

const (
	KindMissing ValueKind = iota
	KindInt
	KindFloat
	KindText
)

// Value is a single immutable dataset cell: an integer (stock codes), a
// floating point metric, free text, or missing.
type Value struct {
	kind ValueKind
	i    int64
	f    float64
	s    string
}

// IntValue returns an integer cell.
func IntValue(v int64) Value { return Value{kind: KindInt, i: v} }

// FloatValue returns a floating point cell.
func FloatValue(v float64) Value { return Value{kind: KindFloat, f: v} }

// TextValue returns a text cell.
func TextValue(s string) Value { return Value{kind: KindText, s: s} }

// MissingValue returns the missing cell.
func MissingValue() Value { return Value{kind: KindMissing} }

// Kind returns the cell's kind.
func (v Value) Kind() ValueKind { return v.kind }

// IsMissing reports whether the cell holds no value.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Float returns the numeric content of the cell. Integer cells are
// promoted; ok is false for text and missing cells.
func (v Value) Float() (f float64, ok bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	}
	return 0, false
}

// Int returns the integer content of the cell; ok is false for every other
// kind, including floats.
func (v Value) Int() (i int64, ok bool) {
	if v.kind == KindInt {
		return v.i, true
	}
	return 0, false
}

// Text returns the text content of the cell; ok is false for every other
// kind.
func (v Value) Text() (s string, ok bool) {
	if v.kind == KindText {
		return v.s, true
	}
	return "", false
}

// Display returns the canonical string form of the cell: base-10 for
// integers with no leading zeros or separators, shortest round-trip form
// for floats, the text itself, and "" for missing cells. Identifier fuzzy
// matching and CSV export both rely on this form.
func (v Value) Display() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindText:
		return v.s
	}
	return ""
}

// MarshalJSON encodes integers and floats as JSON numbers, text as a JSON
// string and missing cells as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindInt:
		return json.Marshal(v.i)
	case KindFloat:
		return json.Marshal(v.f)
	case KindText:
		return json.Marshal(v.s)
	}
	return []byte("null"), nil
}

// header is the column layout shared by a dataset and all of its records.
type header struct {
	names []string
	index map[string]int
}

func newHeader(columns []string) (*header, error) {
	h := &header{
		names: append([]string(nil), columns...),
		index: make(map[string]int, len(columns)),
	}
	for i, name := range columns {
		if name == "" {
			return nil, fmt.Errorf("column %d has an empty name", i)
		}
		if _, dup := h.index[name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", name)
		}
		h.index[name] = i
	}
	return h, nil
}

// Record is a single dataset row. Cells are addressed by column name; a
// column that does not exist yields a missing value.
type Record struct {
	hdr   *header
	cells []Value
}

// Value returns the cell under the named column.
func (r Record) Value(column string) Value {
	i, ok := r.hdr.index[column]
	if !ok {
		return MissingValue()
	}
	return r.cells[i]
}

// Columns returns the record's column names in dataset order.
func (r Record) Columns() []string {
	return append([]string(nil), r.hdr.names...)
}

// MarshalJSON encodes the record as a column-name-to-cell object.
func (r Record) MarshalJSON() ([]byte, error) {
	m := make(map[string]Value, len(r.cells))
	for i, name := range r.hdr.names {
		m[name] = r.cells[i]
	}
	return json.Marshal(m)
}

// Dataset is an ordered, immutable collection of records sharing one column
// layout. It is built once at load time; a changed source file yields a
// wholly new Dataset, never an in-place mutation.
type Dataset struct {
	hdr     *header
	records []Record
}

// NewDataset builds a dataset from a column list and rows of cells. Every
// row must have exactly one cell per column.
func NewDataset(columns []string, rows [][]Value) (*Dataset, error) {
	hdr, err := newHeader(columns)
	if err != nil {
		return nil, err
	}
	ds := &Dataset{hdr: hdr, records: make([]Record, 0, len(rows))}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(columns))
		}
		ds.records = append(ds.records, Record{hdr: hdr, cells: append([]Value(nil), row...)})
	}
	return ds, nil
}

// Columns returns the column names in their original left-to-right order.
func (d *Dataset) Columns() []string {
	return append([]string(nil), d.hdr.names...)
}

// HasColumn reports whether the named column exists.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.hdr.index[name]
	return ok
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// Record returns the i-th record in dataset order.
func (d *Dataset) Record(i int) Record { return d.records[i] }

// Records returns all records in dataset order. The returned slice is a
// copy; the records themselves are shared and immutable.
func (d *Dataset) Records() []Record {
	return append([]Record(nil), d.records...)
}
