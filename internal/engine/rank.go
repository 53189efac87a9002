package engine

import (
	"fmt"
	"sort"
)

// Direction orders a ranking.
type Direction int

const (
	Descending Direction = iota
	Ascending
)

// ParseDirection maps the transport-level direction strings onto a
// Direction. An empty string defaults to descending, matching the source
// ranking board.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "", "desc", "descending":
		return Descending, nil
	case "asc", "ascending":
		return Ascending, nil
	}
	return Descending, &ConfigurationError{
		Param:  "direction",
		Reason: fmt.Sprintf("unknown direction %q, want ascending or descending", s),
	}
}

// Rank returns up to limit records ordered by the metric. It returns a
// *ConfigurationError when the metric is not a classified metric column or
// when limit is not positive; a limit beyond the dataset size returns all
// records.
func Rank(ds *Dataset, cls Classification, metric string, dir Direction, limit int) ([]Record, error) {
	return RankRecords(ds.Records(), cls, metric, dir, limit)
}

// RankRecords ranks an arbitrary record sequence under the same contract as
// Rank. The sort is stable, so ties keep their input order and re-ranking
// an already ranked sequence reproduces it exactly. Records with a missing
// metric value sort last regardless of direction.
func RankRecords(records []Record, cls Classification, metric string, dir Direction, limit int) ([]Record, error) {
	if !cls.HasMetric(metric) {
		return nil, &ConfigurationError{
			Param:  "metric",
			Reason: fmt.Sprintf("%q is not a metric column", metric),
		}
	}
	if limit <= 0 {
		return nil, &ConfigurationError{Param: "limit", Reason: "must be a positive integer"}
	}

	ranked := append([]Record(nil), records...)
	sort.SliceStable(ranked, func(i, j int) bool {
		vi, oki := ranked[i].Value(metric).Float()
		vj, okj := ranked[j].Value(metric).Float()
		switch {
		case !oki:
			return false
		case !okj:
			return true
		}
		if dir == Ascending {
			return vi < vj
		}
		return vi > vj
	})

	if limit > len(ranked) {
		limit = len(ranked)
	}
	return ranked[:limit], nil
}
