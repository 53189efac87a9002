package engine

import "fmt"

// AggregatedView maps each grouping value to the mean of the selected
// metrics across all records sharing that value. Groups keep the order of
// their first appearance in the source dataset; consumers may re-sort for
// display.
type AggregatedView struct {
	GroupColumn string       `json:"group_column"`
	Metrics     []string     `json:"metrics"`
	Groups      []GroupMeans `json:"groups"`
}

// GroupMeans is one aggregated row: a grouping value and the mean of each
// selected metric over the group's records with non-missing values. A
// metric with no non-missing values in the group has no entry at all,
// never a zero.
type GroupMeans struct {
	Group string             `json:"group"`
	Means map[string]float64 `json:"means"`
}

// WideRow is one wide-form input row for ToLongForm: a key plus one cell
// per value column.
type WideRow struct {
	Key    string
	Values map[string]Value
}

// LongRecord is one (key, metric, value) triple of the long form shared by
// the industry comparison and entity comparison paths.
type LongRecord struct {
	Key    string `json:"key"`
	Metric string `json:"metric"`
	Value  Value  `json:"value"`
}

// AggregateByGroup computes per-group arithmetic means of the selected
// metrics. Missing metric cells are excluded from the mean, not treated as
// zero, and records with a missing grouping value are excluded entirely.
// It returns a *ConfigurationError when the classification has no grouping
// column, when metrics is empty, or when a metric is not a classified
// metric column.
func AggregateByGroup(ds *Dataset, cls Classification, metrics []string) (AggregatedView, error) {
	if !cls.HasGrouping() {
		return AggregatedView{}, &ConfigurationError{
			Param:  "grouping",
			Reason: "dataset has no grouping column",
		}
	}
	if err := validateMetrics(cls, metrics); err != nil {
		return AggregatedView{}, err
	}

	view := AggregatedView{
		GroupColumn: cls.GroupingColumn,
		Metrics:     append([]string(nil), metrics...),
	}
	index := make(map[string]int)
	sums := make(map[string]map[string]float64)
	counts := make(map[string]map[string]int)

	for _, rec := range ds.records {
		gv := rec.Value(cls.GroupingColumn)
		if gv.IsMissing() {
			continue
		}
		group := gv.Display()
		if _, ok := index[group]; !ok {
			index[group] = len(view.Groups)
			view.Groups = append(view.Groups, GroupMeans{Group: group})
			sums[group] = make(map[string]float64, len(metrics))
			counts[group] = make(map[string]int, len(metrics))
		}
		for _, m := range metrics {
			if f, ok := rec.Value(m).Float(); ok {
				sums[group][m] += f
				counts[group][m]++
			}
		}
	}

	for i := range view.Groups {
		group := view.Groups[i].Group
		means := make(map[string]float64, len(metrics))
		for _, m := range metrics {
			if n := counts[group][m]; n > 0 {
				means[m] = sums[group][m] / float64(n)
			}
		}
		view.Groups[i].Means = means
	}

	return view, nil
}

// WideRows converts the view into wide-form rows keyed by group, ready for
// ToLongForm. Undefined cells stay missing.
func (v AggregatedView) WideRows() []WideRow {
	rows := make([]WideRow, 0, len(v.Groups))
	for _, g := range v.Groups {
		values := make(map[string]Value, len(v.Metrics))
		for _, m := range v.Metrics {
			if mean, ok := g.Means[m]; ok {
				values[m] = FloatValue(mean)
			} else {
				values[m] = MissingValue()
			}
		}
		rows = append(rows, WideRow{Key: g.Group, Values: values})
	}
	return rows
}

// ToLongForm is the pure wide-to-long reshape shared by the industry and
// entity comparison paths. For each row it emits one LongRecord per value
// column, preserving row order and then value-column order. There is no
// filtering and no aggregation: missing cells come through as missing
// values, so pivoting the long form back to wide reproduces the input
// exactly.
func ToLongForm(rows []WideRow, valueColumns []string) []LongRecord {
	long := make([]LongRecord, 0, len(rows)*len(valueColumns))
	for _, row := range rows {
		for _, col := range valueColumns {
			v, ok := row.Values[col]
			if !ok {
				v = MissingValue()
			}
			long = append(long, LongRecord{Key: row.Key, Metric: col, Value: v})
		}
	}
	return long
}

// SuggestRange returns the padded [low, high] axis range for radar-style
// comparisons: ten percent headroom on both ends when the bound is
// positive. A non-positive minimum is returned unpadded so the padding
// never flips its sign, and a non-positive maximum likewise. Empty input
// yields (0, 0).
func SuggestRange(values []float64) (low, high float64) {
	if len(values) == 0 {
		return 0, 0
	}
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	low = min
	if min > 0 {
		low = min * 0.9
	}
	high = max
	if max > 0 {
		high = max * 1.1
	}
	return low, high
}

// validateMetrics checks the shared metric-list precondition: non-empty and
// a subset of the classified metric columns.
func validateMetrics(cls Classification, metrics []string) error {
	if len(metrics) == 0 {
		return &ConfigurationError{Param: "metrics", Reason: "at least one metric is required"}
	}
	for _, m := range metrics {
		if !cls.HasMetric(m) {
			return &ConfigurationError{
				Param:  "metrics",
				Reason: fmt.Sprintf("%q is not a metric column", m),
			}
		}
	}
	return nil
}
