package http

import (
	"context"
	"io"

	"dtlens/internal/engine"
	"dtlens/internal/services"
)

// AnalyticsServiceInterface is the service surface the handlers consume.
type AnalyticsServiceInterface interface {
	Snapshot() (*services.Snapshot, error)
	Summary(ctx context.Context, metric, x, y string) (*services.SummaryReport, error)
	IndustryComparison(ctx context.Context, metrics []string) (*services.ComparisonReport, error)
	Rankings(ctx context.Context, metric, direction string, limit int) (*services.RankingReport, error)
	Search(ctx context.Context, query, field, mode string) (engine.MatchResult, error)
	EntityComparison(ctx context.Context, query, field, mode string, metrics []string) (*services.EntityComparisonReport, error)
	LoadFromFile(ctx context.Context, path string) (*services.Snapshot, error)
	LoadFromReader(ctx context.Context, source string, r io.Reader) (*services.Snapshot, error)
}
