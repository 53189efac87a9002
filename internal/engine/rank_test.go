package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rankedCodes(t *testing.T, records []Record, cls Classification) []int64 {
	t.Helper()
	codes := make([]int64, 0, len(records))
	for _, rec := range records {
		id, ok := rec.Value(cls.IdentifierColumn).Int()
		require.True(t, ok)
		codes = append(codes, id)
	}
	return codes
}

func TestRank(t *testing.T) {
	ds := companiesDataset(t)
	cls := mustClassify(t, ds)

	tests := []struct {
		name      string
		metric    string
		dir       Direction
		limit     int
		wantCodes []int64
	}{
		{
			// 2415 has a missing 总指数 and must sort last even descending.
			name:      "descending with missing last",
			metric:    "数字化转型总指数",
			dir:       Descending,
			limit:     10,
			wantCodes: []int64{600519, 300884, 688111, 30884, 2415},
		},
		{
			name:      "ascending with missing still last",
			metric:    "数字化转型总指数",
			dir:       Ascending,
			limit:     10,
			wantCodes: []int64{30884, 688111, 300884, 600519, 2415},
		},
		{
			name:      "limit truncates",
			metric:    "数字化转型总指数",
			dir:       Descending,
			limit:     2,
			wantCodes: []int64{600519, 300884},
		},
		{
			name:      "limit beyond size returns all",
			metric:    "技术应用",
			dir:       Descending,
			limit:     100,
			wantCodes: []int64{688111, 300884, 30884, 2415, 600519},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranked, err := Rank(ds, cls, tt.metric, tt.dir, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCodes, rankedCodes(t, ranked, cls))
		})
	}
}

func TestRank_StableTies(t *testing.T) {
	ds := mustDataset(t, []string{"股票代码", "指数"}, [][]Value{
		{IntValue(1), FloatValue(5)},
		{IntValue(2), FloatValue(5)},
		{IntValue(3), FloatValue(5)},
	})
	cls := mustClassify(t, ds)

	ranked, err := Rank(ds, cls, "指数", Descending, 3)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, rankedCodes(t, ranked, cls))
}

// TestRank_Idempotent re-ranks an already ranked sequence by the same
// metric and direction and expects the identical sequence back.
func TestRank_Idempotent(t *testing.T) {
	ds := companiesDataset(t)
	cls := mustClassify(t, ds)

	once, err := Rank(ds, cls, "数字化转型总指数", Descending, ds.Len())
	require.NoError(t, err)

	twice, err := RankRecords(once, cls, "数字化转型总指数", Descending, len(once))
	require.NoError(t, err)

	assert.Equal(t, rankedCodes(t, once, cls), rankedCodes(t, twice, cls))
}

func TestRank_ConfigurationErrors(t *testing.T) {
	ds := companiesDataset(t)
	cls := mustClassify(t, ds)

	tests := []struct {
		name   string
		metric string
		limit  int
	}{
		{"metric not classified", "不存在", 10},
		{"identifier is not a metric", "股票代码", 10},
		{"zero limit", "技术应用", 0},
		{"negative limit", "技术应用", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Rank(ds, cls, tt.metric, Descending, tt.limit)
			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{"", Descending, false},
		{"desc", Descending, false},
		{"descending", Descending, false},
		{"asc", Ascending, false},
		{"ascending", Ascending, false},
		{"sideways", Descending, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			dir, err := ParseDirection(tt.in)
			if tt.wantErr {
				var cfgErr *ConfigurationError
				require.ErrorAs(t, err, &cfgErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, dir)
		})
	}
}
