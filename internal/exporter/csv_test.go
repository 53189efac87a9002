package exporter

import (
	"bytes"
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dtlens/internal/engine"
)

func newTestWriter(t *testing.T) (*CSVWriter, string) {
	t.Helper()
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewCSVWriter(dir, logger), dir
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// UTF-8 BOM must be present for Excel, stripped before parsing.
	require.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))
	rows, err := csv.NewReader(bytes.NewReader(data[3:])).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVWriter_WriteSimpleCSV(t *testing.T) {
	writer, dir := newTestWriter(t)

	err := writer.WriteSimpleCSV("out/table.csv",
		[]string{"行业", "数字化转型总指数"},
		[][]string{{"软件服务", "70.55"}, {"计算机设备", "55.4"}},
	)
	require.NoError(t, err)

	rows := readCSV(t, filepath.Join(dir, "out", "table.csv"))
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"行业", "数字化转型总指数"}, rows[0])
	assert.Equal(t, []string{"软件服务", "70.55"}, rows[1])
}

func TestCSVWriter_WriteCSV_Append(t *testing.T) {
	writer, dir := newTestWriter(t)

	require.NoError(t, writer.WriteSimpleCSV("table.csv",
		[]string{"a", "b"}, [][]string{{"1", "2"}}))
	require.NoError(t, writer.WriteCSV("table.csv", WriteOptions{
		Records: [][]string{{"3", "4"}},
		Append:  true,
	}))

	rows := readCSV(t, filepath.Join(dir, "table.csv"))
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"3", "4"}, rows[2])
}

func TestExportIndustryAverages(t *testing.T) {
	writer, dir := newTestWriter(t)

	view := engine.AggregatedView{
		GroupColumn: "行业",
		Metrics:     []string{"数字化转型总指数", "战略转型"},
		Groups: []engine.GroupMeans{
			{Group: "软件服务", Means: map[string]float64{"数字化转型总指数": 70.55, "战略转型": 41}},
			{Group: "通信服务", Means: map[string]float64{"数字化转型总指数": 61}},
		},
	}
	require.NoError(t, writer.ExportIndustryAverages("industry.csv", view))

	rows := readCSV(t, filepath.Join(dir, "industry.csv"))
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"行业", "数字化转型总指数", "战略转型"}, rows[0])
	assert.Equal(t, []string{"软件服务", "70.55", "41"}, rows[1])
	assert.Equal(t, []string{"通信服务", "61", ""}, rows[2])
}

func TestExportRanking(t *testing.T) {
	writer, dir := newTestWriter(t)

	ds, err := engine.NewDataset(
		[]string{"股票代码", "企业名称", "数字化转型总指数"},
		[][]engine.Value{
			{engine.IntValue(600519), engine.TextValue("云帆数据"), engine.FloatValue(72.9)},
			{engine.IntValue(300884), engine.TextValue("智云科技"), engine.FloatValue(68.2)},
			{engine.IntValue(2415), engine.TextValue("启明视讯"), engine.MissingValue()},
		},
	)
	require.NoError(t, err)

	require.NoError(t, writer.ExportRanking("ranking.csv", ds.Columns(), ds.Records()))

	rows := readCSV(t, filepath.Join(dir, "ranking.csv"))
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"rank", "股票代码", "企业名称", "数字化转型总指数"}, rows[0])
	assert.Equal(t, []string{"1", "600519", "云帆数据", "72.9"}, rows[1])
	assert.Equal(t, []string{"3", "2415", "启明视讯", ""}, rows[3])
}

func TestExportLongForm(t *testing.T) {
	writer, dir := newTestWriter(t)

	long := []engine.LongRecord{
		{Key: "智云科技", Metric: "战略转型", Value: engine.FloatValue(41)},
		{Key: "智云科技", Metric: "技术应用", Value: engine.MissingValue()},
	}
	require.NoError(t, writer.ExportLongForm("compare.csv", long))

	rows := readCSV(t, filepath.Join(dir, "compare.csv"))
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"key", "metric", "value"}, rows[0])
	assert.Equal(t, []string{"智云科技", "战略转型", "41"}, rows[1])
	assert.Equal(t, []string{"智云科技", "技术应用", ""}, rows[2])
}
