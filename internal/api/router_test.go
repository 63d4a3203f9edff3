package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"energy-multiplier/internal/api/models"
	"energy-multiplier/internal/data"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func init() { gin.SetMode(gin.TestMode) }

func curveCSV(days ...string) string {
	var b strings.Builder
	b.WriteString("Giorno")
	for k := 1; k <= 96; k++ {
		fmt.Fprintf(&b, ";%d", k)
	}
	b.WriteString("\n")
	for _, d := range days {
		b.WriteString(d)
		for k := 0; k < 96; k++ {
			b.WriteString(";10")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func hourlyCSV(day string) string {
	var b strings.Builder
	b.WriteString("Data,Ora,PUN,NORD\n")
	for h := 1; h <= 24; h++ {
		fmt.Fprintf(&b, "%s,%d,100,120\n", day, h)
	}
	return b.String()
}

type part struct{ field, name, body string }

func multipartRequest(t *testing.T, path string, fields map[string]string, files ...part) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		fw, err := w.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(f.body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorDetail {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func TestHealthAndMetrics(t *testing.T) {
	r := NewRouter(Deps{})
	w := serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok"`)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCost_JSON(t *testing.T) {
	r := NewRouter(Deps{})
	req := multipartRequest(t, "/api/v1/cost",
		map[string]string{"year": "2024", "zone": "NORD", "scale_kwh": "true", "include_detail": "true"},
		part{"curve", "curva.csv", curveCSV("15/03/2024", "16/03/2024")},
		part{"prices", "Anno 2024.csv", hourlyCSV("20240315")},
	)
	w := serve(r, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.CostResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "NORD", resp.Summary.Zone)
	assert.False(t, resp.Summary.QuarterHour)
	assert.InDelta(t, 960.0, resp.Summary.Total.Energy, 1e-9)
	assert.InDelta(t, 115.2, resp.Summary.Total.CostHourly, 1e-9)
	assert.Equal(t, 24, resp.Summary.Coverage.GapHours)
	assert.Equal(t, "24 of 48 hours had no price match (1 days without prices)", resp.Summary.Coverage.Message)
	require.Len(t, resp.Detail, 24)
	assert.Equal(t, "2024-03-15", resp.Detail[0].Date)
}

func TestCost_XLSXAndCSV(t *testing.T) {
	r := NewRouter(Deps{})
	fields := map[string]string{"year": "2024", "format": "xlsx"}
	files := []part{
		{"curve", "curva.csv", curveCSV("15/03/2024")},
		{"prices[]", "Anno 2024.csv", hourlyCSV("20240315")},
	}
	w := serve(r, multipartRequest(t, "/api/v1/cost", fields, files...))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Report_Energia_2024.xlsx")

	wb, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer wb.Close()
	rows, err := wb.GetRows("Dettaglio")
	require.NoError(t, err)
	assert.Len(t, rows, 25)

	fields["format"] = "csv"
	w = serve(r, multipartRequest(t, "/api/v1/cost", fields, files...))
	require.Equal(t, http.StatusOK, w.Code)
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	assert.Equal(t, "date,hour,energy,cost_hourly", lines[0])
	assert.Len(t, lines, 25)

	fields["format"] = "pdf"
	w = serve(r, multipartRequest(t, "/api/v1/cost", fields, files...))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	fields["format"] = "docx"
	w = serve(r, multipartRequest(t, "/api/v1/cost", fields, files...))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCost_Errors(t *testing.T) {
	r := NewRouter(Deps{})
	curve := part{"curve", "curva.csv", curveCSV("15/03/2024")}
	prices := part{"prices", "Anno 2024.csv", hourlyCSV("20240315")}

	tests := []struct {
		name   string
		fields map[string]string
		files  []part
		status int
		code   string
	}{
		{"missing year", map[string]string{}, []part{curve, prices}, http.StatusBadRequest, "INVALID_REQUEST"},
		{"missing curve", map[string]string{"year": "2024"}, []part{prices}, http.StatusBadRequest, "INVALID_REQUEST"},
		{"no prices", map[string]string{"year": "2024"}, []part{curve}, http.StatusNotFound, "NO_PRICE_FILE"},
		{"unknown zone", map[string]string{"year": "2024", "zone": "XYZ"}, []part{curve, prices}, http.StatusBadRequest, "UNKNOWN_ZONE"},
		{"schema error", map[string]string{"year": "2024"}, []part{curve, {"prices", "p_60.csv", "Giorno,Ora,PUN\n1,1,1\n"}}, http.StatusUnprocessableEntity, "SCHEMA_ERROR"},
		{"curve format", map[string]string{"year": "2024"}, []part{{"curve", "c.csv", "Giorno;1;2\n01/01/2024;1;2\n"}, prices}, http.StatusUnprocessableEntity, "CURVE_FORMAT_ERROR"},
		{"no matching data", map[string]string{"year": "2024"}, []part{{"curve", "c.csv", curveCSV("01/01/2024")}, prices}, http.StatusUnprocessableEntity, "NO_MATCHING_DATA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, multipartRequest(t, "/api/v1/cost", tt.fields, tt.files...))
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.code, decodeError(t, w).Code)
		})
	}
}

func TestCost_NoMatchingDataReportsCoverage(t *testing.T) {
	r := NewRouter(Deps{})
	w := serve(r, multipartRequest(t, "/api/v1/cost", map[string]string{"year": "2024"},
		part{"curve", "c.csv", curveCSV("01/01/2024")},
		part{"prices", "Anno 2024.csv", hourlyCSV("20240315")},
	))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "24 of 24 hours had no price match (1 days without prices)", decodeError(t, w).Details["coverage"])
}

func priceDir(t *testing.T) *data.PriceLoader {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prezzi_2024.csv"), []byte(hourlyCSV("20240315")), 0644))
	return data.NewPriceLoader(dir, 2025, data.NewPriceCache())
}

func TestCost_UsesPriceDirectory(t *testing.T) {
	r := NewRouter(Deps{Loader: priceDir(t)})
	w := serve(r, multipartRequest(t, "/api/v1/cost", map[string]string{"year": "2024"},
		part{"curve", "c.csv", curveCSV("15/03/2024")},
	))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = serve(r, multipartRequest(t, "/api/v1/cost", map[string]string{"year": "2023"},
		part{"curve", "c.csv", curveCSV("15/03/2023")},
	))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRank(t *testing.T) {
	r := NewRouter(Deps{})
	w := serve(r, multipartRequest(t, "/api/v1/rank", map[string]string{"year": "2024", "limit": "1"},
		part{"curve", "c.csv", curveCSV("15/03/2024")},
		part{"prices", "Anno 2024.csv", hourlyCSV("20240315")},
	))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.RankResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Rankings, 1)
	assert.Equal(t, 1, resp.Rankings[0].Rank)
	assert.Equal(t, "PUN", resp.Rankings[0].Zone)
	assert.Equal(t, "Prezzo Unico Nazionale", resp.Rankings[0].Name)
	assert.Equal(t, 96000.0, resp.Rankings[0].CostHourly)
	assert.Equal(t, 24, resp.Rankings[0].PriceCount)
}

func TestZones(t *testing.T) {
	r := NewRouter(Deps{Loader: priceDir(t)})
	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/zones", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ZonesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 8, resp.Count)
	assert.Empty(t, resp.Available)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/zones?year=2024", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"PUN", "NORD"}, resp.Available)

	w = serve(NewRouter(Deps{}), httptest.NewRequest(http.MethodGet, "/api/v1/zones?year=2024", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStaticFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0644))
	r := NewRouter(Deps{StaticDir: dir})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/some/page", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "app")

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
