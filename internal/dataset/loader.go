// Package dataset loads company workbooks into the engine's immutable
// dataset form. It owns the spreadsheet mechanics the engine must never see:
// sheet discovery, the anonymous-index rename pandas-style exports need, and
// cell type inference. Every load returns a brand-new dataset and
// classification pair, so readers of a previous snapshot are unaffected by a
// reload.
package dataset

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"dtlens/internal/engine"
)

// ErrIdentifierMissing is the user-facing load failure for workbooks without
// a stock code column. It is a loader error, not an engine SchemaError: the
// file is unusable and the upload should be rejected outright.
var ErrIdentifierMissing = errors.New("workbook has no stock code column")

// Load opens the workbook at path and builds a dataset from its first
// populated sheet.
func Load(path string) (*engine.Dataset, engine.Classification, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, engine.Classification{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return fromWorkbook(f)
}

// LoadReader builds a dataset from workbook bytes, for the upload path.
func LoadReader(r io.Reader) (*engine.Dataset, engine.Classification, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, engine.Classification{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return fromWorkbook(f)
}

func fromWorkbook(f *excelize.File) (*engine.Dataset, engine.Classification, error) {
	var rows [][]string
	for _, name := range f.GetSheetList() {
		sheetRows, err := f.GetRows(name)
		if err != nil {
			continue
		}
		// header plus at least one data row
		if len(sheetRows) >= 2 {
			rows = sheetRows
			break
		}
	}
	if rows == nil {
		return nil, engine.Classification{}, fmt.Errorf("workbook has no sheet with data rows")
	}

	columns := normalizeHeader(rows[0])
	records := make([][]engine.Value, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		cells := make([]engine.Value, len(columns))
		for i := range columns {
			if i < len(row) {
				cells[i] = parseCell(row[i])
			} else {
				cells[i] = engine.MissingValue()
			}
		}
		records = append(records, cells)
	}

	ds, err := engine.NewDataset(columns, records)
	if err != nil {
		return nil, engine.Classification{}, fmt.Errorf("build dataset: %w", err)
	}

	cls, err := engine.Classify(ds)
	if err != nil {
		var schemaErr *engine.SchemaError
		if errors.As(err, &schemaErr) {
			return nil, engine.Classification{}, ErrIdentifierMissing
		}
		return nil, engine.Classification{}, err
	}

	if err := validateIdentifiers(ds, cls); err != nil {
		return nil, engine.Classification{}, err
	}

	return ds, cls, nil
}

// normalizeHeader trims header cells and renames anonymous columns the way
// pandas labels them on export. An anonymous or "Unnamed: 0" first column is
// the default-index artifact and becomes the stock code column.
func normalizeHeader(header []string) []string {
	columns := make([]string, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		columns[i] = name
	}
	if len(columns) > 0 && columns[0] == engine.UnnamedIndexColumn {
		columns[0] = engine.IdentifierColumn
	}
	return columns
}

// validateIdentifiers enforces the dataset invariant that every record
// carries an integer identifier.
func validateIdentifiers(ds *engine.Dataset, cls engine.Classification) error {
	for i := 0; i < ds.Len(); i++ {
		v := ds.Record(i).Value(cls.IdentifierColumn)
		if _, ok := v.Int(); !ok {
			return fmt.Errorf("row %d: stock code %q is not an integer", i+1, v.Display())
		}
	}
	return nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// parseCell infers the cell kind from its rendered form: integer, float,
// text, or missing for an empty cell. Thousands separators are stripped
// before numeric parsing.
func parseCell(raw string) engine.Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return engine.MissingValue()
	}
	numeric := strings.ReplaceAll(s, ",", "")
	if i, err := strconv.ParseInt(numeric, 10, 64); err == nil {
		return engine.IntValue(i)
	}
	if f, err := strconv.ParseFloat(numeric, 64); err == nil {
		return engine.FloatValue(f)
	}
	return engine.TextValue(s)
}
