// Package services wires the pure engine to the application: it owns the
// current dataset snapshot, applies the presentation-boundary defaults the
// engine deliberately refuses to apply, and logs every operation.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"dtlens/internal/dataset"
	"dtlens/internal/engine"
	"dtlens/internal/infrastructure"
)

// ErrNoDataset is returned while no snapshot has been loaded yet.
var ErrNoDataset = errors.New("no dataset snapshot loaded")

// preferredMetrics is the presentation-boundary default ordering for
// comparison views: the composite transformation index first, then its five
// sub-indices. The engine never applies these; callers that pass no metrics
// get this documented default from the service instead.
var preferredMetrics = []string{"数字化转型总指数", "战略转型", "技术应用", "组织变革", "数据价值", "流程优化"}

// Snapshot is one immutable dataset plus its classification. A reload
// builds a wholly new snapshot and swaps the pointer; readers holding the
// old one are unaffected.
type Snapshot struct {
	ID             uuid.UUID             `json:"id"`
	Source         string                `json:"source"`
	LoadedAt       time.Time             `json:"loaded_at"`
	Dataset        *engine.Dataset       `json:"-"`
	Classification engine.Classification `json:"classification"`
}

// AnalyticsService exposes the engine operations over the current snapshot.
type AnalyticsService struct {
	logger  *slog.Logger
	metrics *infrastructure.Metrics
	current atomic.Pointer[Snapshot]
}

// NewAnalyticsService creates the service with no snapshot loaded.
func NewAnalyticsService(logger *slog.Logger, metrics *infrastructure.Metrics) *AnalyticsService {
	return &AnalyticsService{
		logger:  logger.With(slog.String("component", "analytics_service")),
		metrics: metrics,
	}
}

// Snapshot returns the active snapshot, or ErrNoDataset before the first
// successful load.
func (s *AnalyticsService) Snapshot() (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNoDataset
	}
	return snap, nil
}

// LoadFromFile loads the workbook at path and installs it as the active
// snapshot.
func (s *AnalyticsService) LoadFromFile(ctx context.Context, path string) (*Snapshot, error) {
	ds, cls, err := dataset.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", path, err)
	}
	return s.install(ctx, path, ds, cls), nil
}

// LoadFromReader loads workbook bytes (the upload path) and installs the
// result as the active snapshot.
func (s *AnalyticsService) LoadFromReader(ctx context.Context, source string, r io.Reader) (*Snapshot, error) {
	ds, cls, err := dataset.LoadReader(r)
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", source, err)
	}
	return s.install(ctx, source, ds, cls), nil
}

func (s *AnalyticsService) install(ctx context.Context, source string, ds *engine.Dataset, cls engine.Classification) *Snapshot {
	snap := &Snapshot{
		ID:             uuid.New(),
		Source:         source,
		LoadedAt:       time.Now().UTC(),
		Dataset:        ds,
		Classification: cls,
	}
	s.current.Store(snap)

	if s.metrics != nil {
		s.metrics.DatasetRecords.Set(float64(ds.Len()))
		s.metrics.DatasetReloads.Inc()
	}
	s.logger.InfoContext(ctx, "dataset snapshot installed",
		slog.String("snapshot_id", snap.ID.String()),
		slog.String("source", source),
		slog.Int("records", ds.Len()),
		slog.Int("metric_columns", len(cls.MetricColumns)),
		slog.Bool("has_grouping", cls.HasGrouping()),
		slog.Bool("has_name", cls.HasName()),
	)
	return snap
}

// DefaultMetric is the documented default-selection policy for views that
// need exactly one metric: the preferred composite index when classified,
// otherwise the first metric column. Empty when the dataset has no metric
// columns at all.
func DefaultMetric(cls engine.Classification) string {
	for _, m := range preferredMetrics {
		if cls.HasMetric(m) {
			return m
		}
	}
	if len(cls.MetricColumns) > 0 {
		return cls.MetricColumns[0]
	}
	return ""
}

// DefaultMetrics is the default metric list for comparison views: every
// preferred metric the dataset has, otherwise the first three metric
// columns.
func DefaultMetrics(cls engine.Classification) []string {
	var metrics []string
	for _, m := range preferredMetrics {
		if cls.HasMetric(m) {
			metrics = append(metrics, m)
		}
	}
	if len(metrics) > 0 {
		return metrics
	}
	if len(cls.MetricColumns) > 3 {
		return append([]string(nil), cls.MetricColumns[:3]...)
	}
	return append([]string(nil), cls.MetricColumns...)
}

// SummaryReport is the overview dashboard payload.
type SummaryReport struct {
	SnapshotID     string                `json:"snapshot_id"`
	Source         string                `json:"source"`
	LoadedAt       time.Time             `json:"loaded_at"`
	Records        int                   `json:"records"`
	Classification engine.Classification `json:"classification"`
	GroupCounts    []engine.GroupCount   `json:"group_counts,omitempty"`
	MetricStats    *engine.MetricStats   `json:"metric_stats,omitempty"`
	Pairs          []engine.MetricPair   `json:"pairs,omitempty"`
}

// Summary builds the overview payload. metric selects the distribution
// column and defaults per DefaultMetric; x and y, when both set, add the
// scatter pairs.
func (s *AnalyticsService) Summary(ctx context.Context, metric, x, y string) (*SummaryReport, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}

	report := &SummaryReport{
		SnapshotID:     snap.ID.String(),
		Source:         snap.Source,
		LoadedAt:       snap.LoadedAt,
		Records:        snap.Dataset.Len(),
		Classification: snap.Classification,
	}

	if snap.Classification.HasGrouping() {
		counts, err := engine.CountByGroup(snap.Dataset, snap.Classification)
		if err != nil {
			return nil, err
		}
		report.GroupCounts = counts
	}

	if metric == "" {
		metric = DefaultMetric(snap.Classification)
	}
	if metric != "" {
		stats, err := engine.ComputeMetricStats(snap.Dataset, snap.Classification, metric)
		s.observe("metric_stats", err)
		if err != nil {
			return nil, err
		}
		report.MetricStats = &stats
	}

	if x != "" && y != "" {
		pairs, err := engine.PairMetrics(snap.Dataset, snap.Classification, x, y)
		s.observe("pair_metrics", err)
		if err != nil {
			return nil, err
		}
		report.Pairs = pairs
	}

	return report, nil
}

// ComparisonReport is a long-form comparison table plus the suggested axis
// range for radar-style rendering.
type ComparisonReport struct {
	Metrics   []string            `json:"metrics"`
	Records   []engine.LongRecord `json:"records"`
	RangeLow  float64             `json:"range_low"`
	RangeHigh float64             `json:"range_high"`
}

// IndustryComparison builds the per-industry mean comparison. An empty
// metric list gets the service default.
func (s *AnalyticsService) IndustryComparison(ctx context.Context, metrics []string) (*ComparisonReport, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	if len(metrics) == 0 {
		metrics = DefaultMetrics(snap.Classification)
	}

	long, err := engine.BuildIndustryComparison(snap.Dataset, snap.Classification, metrics)
	s.observe("industry_comparison", err)
	if err != nil {
		return nil, err
	}

	low, high := engine.SuggestRange(longValues(long))
	return &ComparisonReport{Metrics: metrics, Records: long, RangeLow: low, RangeHigh: high}, nil
}

// RankingReport is the ordered ranking board payload.
type RankingReport struct {
	Metric    string          `json:"metric"`
	Direction string          `json:"direction"`
	Limit     int             `json:"limit"`
	Records   []engine.Record `json:"records"`
}

// Rankings orders companies by a metric. An empty metric gets the service
// default; an empty direction means descending; a zero limit means ten.
func (s *AnalyticsService) Rankings(ctx context.Context, metric, direction string, limit int) (*RankingReport, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	if metric == "" {
		metric = DefaultMetric(snap.Classification)
	}
	if limit == 0 {
		limit = 10
	}
	dir, err := engine.ParseDirection(direction)
	if err != nil {
		return nil, err
	}

	ranked, err := engine.Rank(snap.Dataset, snap.Classification, metric, dir, limit)
	s.observe("rank", err)
	if err != nil {
		return nil, err
	}

	dirName := "descending"
	if dir == engine.Ascending {
		dirName = "ascending"
	}
	return &RankingReport{Metric: metric, Direction: dirName, Limit: limit, Records: ranked}, nil
}

// Search resolves a free-text query against the identifier or name column.
func (s *AnalyticsService) Search(ctx context.Context, query, field, mode string) (engine.MatchResult, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	f, err := engine.ParseField(field)
	if err != nil {
		return nil, err
	}
	m, err := engine.ParseMode(mode)
	if err != nil {
		return nil, err
	}

	match, err := engine.Resolve(snap.Dataset, snap.Classification, query, f, m)
	s.observe("resolve", err)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "lookup resolved",
		slog.String("field", field),
		slog.String("mode", mode),
		slog.Int("matches", len(match)),
	)
	return match, nil
}

// EntityComparisonReport is the per-entity comparison payload. The radar
// flag is a rendering recommendation only: comparisons stay meaningful as
// tables or bars at any size.
type EntityComparisonReport struct {
	Metrics          []string            `json:"metrics"`
	Matches          int                 `json:"matches"`
	Records          []engine.LongRecord `json:"records"`
	RangeLow         float64             `json:"range_low"`
	RangeHigh        float64             `json:"range_high"`
	RadarRecommended bool                `json:"radar_recommended"`
}

// EntityComparison resolves a query and reshapes the matches into the
// long-form comparison table. An empty metric list gets the service
// default.
func (s *AnalyticsService) EntityComparison(ctx context.Context, query, field, mode string, metrics []string) (*EntityComparisonReport, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	if len(metrics) == 0 {
		metrics = DefaultMetrics(snap.Classification)
	}

	match, err := s.Search(ctx, query, field, mode)
	if err != nil {
		return nil, err
	}

	long, err := engine.BuildEntityComparison(match, snap.Classification, metrics)
	s.observe("entity_comparison", err)
	if err != nil {
		return nil, err
	}

	low, high := engine.SuggestRange(longValues(long))
	return &EntityComparisonReport{
		Metrics:          metrics,
		Matches:          len(match),
		Records:          long,
		RangeLow:         low,
		RangeHigh:        high,
		RadarRecommended: len(match) > 0 && len(match) <= engine.RadarEntityLimit,
	}, nil
}

func (s *AnalyticsService) observe(operation string, err error) {
	if s.metrics != nil {
		s.metrics.ObserveEngineOp(operation, err)
	}
}

func longValues(long []engine.LongRecord) []float64 {
	values := make([]float64, 0, len(long))
	for _, lr := range long {
		if f, ok := lr.Value.Float(); ok {
			values = append(values, f)
		}
	}
	return values
}
