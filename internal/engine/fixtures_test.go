package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// testColumns is the column layout shared by most fixtures: identifier,
// name, industry and two metric columns.
var testColumns = []string{"股票代码", "企业名称", "行业", "数字化转型总指数", "技术应用"}

func mustDataset(t *testing.T, columns []string, rows [][]Value) *Dataset {
	t.Helper()
	ds, err := NewDataset(columns, rows)
	require.NoError(t, err)
	return ds
}

func mustClassify(t *testing.T, ds *Dataset) Classification {
	t.Helper()
	cls, err := Classify(ds)
	require.NoError(t, err)
	return cls
}

// companiesDataset builds the standard lookup fixture. Codes and industries
// are chosen so that groups first appear in a non-alphabetical order and
// the fuzzy-match cases from the lookup contract are covered.
func companiesDataset(t *testing.T) *Dataset {
	t.Helper()
	return mustDataset(t, testColumns, [][]Value{
		{IntValue(300884), TextValue("智云科技"), TextValue("软件服务"), FloatValue(68.2), FloatValue(41.0)},
		{IntValue(30884), TextValue("华迅智能"), TextValue("计算机设备"), FloatValue(55.4), FloatValue(38.5)},
		{IntValue(600519), TextValue("云帆数据"), TextValue("软件服务"), FloatValue(72.9), MissingValue()},
		{IntValue(2415), TextValue("启明视讯"), TextValue("计算机设备"), MissingValue(), FloatValue(29.3)},
		{IntValue(688111), TextValue("智云网络"), TextValue("通信服务"), FloatValue(61.0), FloatValue(47.8)},
	})
}
