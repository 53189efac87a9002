package app

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "companies.xlsx")

	f := excelize.NewFile()
	defer f.Close()
	rows := [][]interface{}{
		{"股票代码", "企业名称", "行业", "数字化转型总指数"},
		{300884, "智云科技", "软件服务", 68.2},
		{600519, "云帆数据", "软件服务", 72.9},
	}
	for i, row := range rows {
		for j, cell := range row {
			ref, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", ref, cell))
		}
	}
	require.NoError(t, f.SaveAs(path))
	return path
}

func newTestApplication(t *testing.T, datasetPath string) *Application {
	t.Helper()
	t.Setenv("DTLENS_SERVER_PORT", "8099")
	t.Setenv("DTLENS_DATASET_PATH", datasetPath)
	t.Setenv("DTLENS_LOGGING_OUTPUT", "console")
	t.Setenv("DTLENS_LOGGING_LEVEL", "error")
	t.Setenv("DTLENS_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

	app, err := NewApplication()
	require.NoError(t, err)
	return app
}

func TestNewApplication_WiresRoutes(t *testing.T) {
	app := newTestApplication(t, writeWorkbook(t))

	require.NotNil(t, app.Router)
	assert.Equal(t, ":8099", app.Server.Addr)

	tests := []struct {
		name           string
		method, target string
		expectedStatus int
	}{
		{"health", "GET", "/api/health", http.StatusOK},
		{"summary", "GET", "/api/analytics/summary", http.StatusOK},
		{"rankings", "GET", "/api/analytics/rankings", http.StatusOK},
		{"search", "GET", "/api/companies/search?q=300884", http.StatusOK},
		{"snapshot", "GET", "/api/dataset", http.StatusOK},
		{"metrics", "GET", "/metrics", http.StatusOK},
		{"unknown route", "GET", "/api/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			rec := httptest.NewRecorder()
			app.Router.ServeHTTP(rec, req)
			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestNewApplication_StartsWithoutDataset(t *testing.T) {
	app := newTestApplication(t, filepath.Join(t.TempDir(), "missing.xlsx"))

	req := httptest.NewRequest("GET", "/api/analytics/summary", nil)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	req = httptest.NewRequest("GET", "/api/health", nil)
	rec = httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"dataset_loaded":false`)
}
