// Command report loads a workbook and writes the industry-average and
// ranking tables as CSV files, for offline use of the same engine the
// server exposes.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"dtlens/internal/config"
	"dtlens/internal/dataset"
	"dtlens/internal/engine"
	"dtlens/internal/exporter"
	"dtlens/internal/infrastructure"
	"dtlens/internal/services"
)

func main() {
	input := flag.String("input", "", "source workbook path (defaults to the configured dataset path)")
	metrics := flag.String("metrics", "", "comma separated metric columns for the industry table (defaults to the preferred metrics)")
	metric := flag.String("metric", "", "ranking metric (defaults to the composite index)")
	direction := flag.String("direction", "desc", "ranking direction: asc | desc")
	limit := flag.Int("limit", 10, "ranking size")
	out := flag.String("out", "reports", "output directory for the CSV files")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if *input == "" {
		*input = cfg.Dataset.Path
	}

	if err := run(logger, *input, *metrics, *metric, *direction, *limit, *out); err != nil {
		logger.Error("report generation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger, input, metricsFlag, metricFlag, directionFlag string, limit int, out string) error {
	ds, cls, err := dataset.Load(input)
	if err != nil {
		return fmt.Errorf("load workbook %s: %w", input, err)
	}
	logger.Info("workbook loaded",
		slog.String("path", input),
		slog.Int("records", ds.Len()),
		slog.Int("metric_columns", len(cls.MetricColumns)))

	writer := exporter.NewCSVWriter(out, logger)

	if cls.HasGrouping() {
		metrics := splitMetrics(metricsFlag)
		if len(metrics) == 0 {
			metrics = services.DefaultMetrics(cls)
		}
		view, err := engine.AggregateByGroup(ds, cls, metrics)
		if err != nil {
			return fmt.Errorf("industry aggregation: %w", err)
		}
		if err := writer.ExportIndustryAverages("industry_averages.csv", view); err != nil {
			return err
		}
	} else {
		logger.Warn("no grouping column classified, skipping the industry table")
	}

	rankMetric := metricFlag
	if rankMetric == "" {
		rankMetric = services.DefaultMetric(cls)
	}
	dir, err := engine.ParseDirection(directionFlag)
	if err != nil {
		return err
	}
	ranked, err := engine.Rank(ds, cls, rankMetric, dir, limit)
	if err != nil {
		return fmt.Errorf("ranking: %w", err)
	}
	if err := writer.ExportRanking("ranking.csv", ds.Columns(), ranked); err != nil {
		return err
	}

	logger.Info("reports written", slog.String("dir", out))
	return nil
}

func splitMetrics(raw string) []string {
	if raw == "" {
		return nil
	}
	var metrics []string
	for _, m := range strings.Split(raw, ",") {
		if m = strings.TrimSpace(m); m != "" {
			metrics = append(metrics, m)
		}
	}
	return metrics
}
