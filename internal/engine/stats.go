package engine

import (
	"fmt"
	"sort"
)

// MetricStats summarises one metric for the overview dashboard. Mean and
// Median cover the non-missing values only; with Count zero both are zero
// and carry no meaning.
type MetricStats struct {
	Metric string  `json:"metric"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

// ComputeMetricStats computes count, mean and median of a metric across the
// dataset. It returns a *ConfigurationError when the metric is not a
// classified metric column.
func ComputeMetricStats(ds *Dataset, cls Classification, metric string) (MetricStats, error) {
	if !cls.HasMetric(metric) {
		return MetricStats{}, &ConfigurationError{
			Param:  "metric",
			Reason: fmt.Sprintf("%q is not a metric column", metric),
		}
	}

	values := make([]float64, 0, ds.Len())
	sum := 0.0
	for _, rec := range ds.records {
		if f, ok := rec.Value(metric).Float(); ok {
			values = append(values, f)
			sum += f
		}
	}

	stats := MetricStats{Metric: metric, Count: len(values)}
	if len(values) == 0 {
		return stats, nil
	}
	stats.Mean = sum / float64(len(values))

	sort.Float64s(values)
	mid := len(values) / 2
	if len(values)%2 == 0 {
		stats.Median = (values[mid-1] + values[mid]) / 2
	} else {
		stats.Median = values[mid]
	}
	return stats, nil
}

// GroupCount pairs a grouping value with its record count, in
// first-appearance order. It backs the industry distribution view.
type GroupCount struct {
	Group string `json:"group"`
	Count int    `json:"count"`
}

// CountByGroup counts records per grouping value. Records with a missing
// grouping value are excluded. It returns a *ConfigurationError when the
// classification has no grouping column.
func CountByGroup(ds *Dataset, cls Classification) ([]GroupCount, error) {
	if !cls.HasGrouping() {
		return nil, &ConfigurationError{
			Param:  "grouping",
			Reason: "dataset has no grouping column",
		}
	}

	counts := []GroupCount{}
	index := make(map[string]int)
	for _, rec := range ds.records {
		gv := rec.Value(cls.GroupingColumn)
		if gv.IsMissing() {
			continue
		}
		group := gv.Display()
		i, ok := index[group]
		if !ok {
			i = len(counts)
			index[group] = i
			counts = append(counts, GroupCount{Group: group})
		}
		counts[i].Count++
	}
	return counts, nil
}

// MetricPair is one (x, y) observation for scatter-style metric correlation
// views.
type MetricPair struct {
	Identifier int64   `json:"identifier"`
	Name       string  `json:"name,omitempty"`
	Group      string  `json:"group,omitempty"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
}

// PairMetrics extracts the (x, y) observations of two metrics in dataset
// order. Records missing either metric are dropped pairwise. Both metrics
// must be classified metric columns.
func PairMetrics(ds *Dataset, cls Classification, x, y string) ([]MetricPair, error) {
	if err := validateMetrics(cls, []string{x, y}); err != nil {
		return nil, err
	}

	pairs := []MetricPair{}
	for _, rec := range ds.records {
		xv, okx := rec.Value(x).Float()
		yv, oky := rec.Value(y).Float()
		if !okx || !oky {
			continue
		}
		pair := MetricPair{X: xv, Y: yv}
		if id, ok := rec.Value(cls.IdentifierColumn).Int(); ok {
			pair.Identifier = id
		}
		if cls.HasName() {
			pair.Name, _ = rec.Value(cls.NameColumn).Text()
		}
		if cls.HasGrouping() {
			if gv := rec.Value(cls.GroupingColumn); !gv.IsMissing() {
				pair.Group = gv.Display()
			}
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}
