package exporter

import (
	"strconv"

	"dtlens/internal/engine"
)

// ExportIndustryAverages writes the per-group metric means as a wide table:
// one row per group, one column per metric. Groups with no value for a
// metric get an empty cell.
func (w *CSVWriter) ExportIndustryAverages(filePath string, view engine.AggregatedView) error {
	headers := append([]string{view.GroupColumn}, view.Metrics...)

	records := make([][]string, 0, len(view.Groups))
	for _, g := range view.Groups {
		row := make([]string, 0, len(headers))
		row = append(row, g.Group)
		for _, metric := range view.Metrics {
			if mean, ok := g.Means[metric]; ok {
				row = append(row, strconv.FormatFloat(mean, 'f', -1, 64))
			} else {
				row = append(row, "")
			}
		}
		records = append(records, row)
	}

	return w.WriteSimpleCSV(filePath, headers, records)
}

// ExportRanking writes ranked records with a leading rank column. Columns
// follow the dataset order; missing cells stay empty.
func (w *CSVWriter) ExportRanking(filePath string, columns []string, ranked []engine.Record) error {
	headers := append([]string{"rank"}, columns...)

	records := make([][]string, 0, len(ranked))
	for i, rec := range ranked {
		row := make([]string, 0, len(headers))
		row = append(row, strconv.Itoa(i+1))
		for _, col := range columns {
			row = append(row, rec.Value(col).Display())
		}
		records = append(records, row)
	}

	return w.WriteSimpleCSV(filePath, headers, records)
}

// ExportLongForm writes a long-form comparison table with key, metric and
// value columns.
func (w *CSVWriter) ExportLongForm(filePath string, long []engine.LongRecord) error {
	headers := []string{"key", "metric", "value"}

	records := make([][]string, 0, len(long))
	for _, lr := range long {
		records = append(records, []string{lr.Key, lr.Metric, lr.Value.Display()})
	}

	return w.WriteSimpleCSV(filePath, headers, records)
}
