package engine

// RadarEntityLimit is the recommended ceiling on entities in one radar
// comparison. Past roughly this many traces the chart stops being readable.
// It is a rendering hint for callers; the engine never enforces it.
const RadarEntityLimit = 10

// BuildEntityComparison reshapes matched records into the long form used by
// per-entity radar and bar comparison. Rows are keyed by company name when
// the dataset has one (falling back to the identifier for a record whose
// name cell is missing), otherwise by the identifier's decimal string.
// An empty match yields an empty slice, not an error. The metric list must
// be non-empty and a subset of the classified metric columns.
func BuildEntityComparison(match MatchResult, cls Classification, metrics []string) ([]LongRecord, error) {
	if err := validateMetrics(cls, metrics); err != nil {
		return nil, err
	}
	if len(match) == 0 {
		return []LongRecord{}, nil
	}

	rows := make([]WideRow, 0, len(match))
	for _, rec := range match {
		key := rec.Value(cls.IdentifierColumn).Display()
		if cls.HasName() {
			if name, ok := rec.Value(cls.NameColumn).Text(); ok && name != "" {
				key = name
			}
		}
		values := make(map[string]Value, len(metrics))
		for _, m := range metrics {
			values[m] = rec.Value(m)
		}
		rows = append(rows, WideRow{Key: key, Values: values})
	}
	return ToLongForm(rows, metrics), nil
}

// BuildIndustryComparison composes AggregateByGroup and ToLongForm into the
// long-form industry means table for the group comparison view.
func BuildIndustryComparison(ds *Dataset, cls Classification, metrics []string) ([]LongRecord, error) {
	view, err := AggregateByGroup(ds, cls, metrics)
	if err != nil {
		return nil, err
	}
	return ToLongForm(view.WideRows(), view.Metrics), nil
}
