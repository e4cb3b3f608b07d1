package dashboard

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/KaramelBytes/antioquia-dashboard/internal/loader"
	"github.com/KaramelBytes/antioquia-dashboard/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = "../../testdata/suicidios_antioquia_sample.csv"

func newTestServer(t *testing.T, path string) (*Server, *observability.Metrics) {
	t.Helper()
	m, reg := observability.NewMetricsForTesting()
	opts := DefaultOptions()
	opts.Name = "sample"
	opts.Gatherer = reg
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(":0", loader.New(path), opts, logger, m), m
}

func get(t *testing.T, s *Server, path string, q url.Values) *httptest.ResponseRecorder {
	t.Helper()
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestHealthAndReadiness(t *testing.T) {
	s, _ := newTestServer(t, fixture)
	rec := get(t, s, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(t, s, "/readyz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(24), decode(t, rec)["records"])

	missing, _ := newTestServer(t, "testdata/does-not-exist.csv")
	rec = get(t, missing, "/readyz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSummaryWholeAndFiltered(t *testing.T) {
	s, _ := newTestServer(t, fixture)

	rec := get(t, s, "/api/v1/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	body := decode(t, rec)
	assert.Equal(t, "all", body["filter"])
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(24), data["records"])
	assert.Equal(t, float64(620), data["total_cases"])

	rec = get(t, s, "/api/v1/summary", url.Values{"from": {"2023"}, "to": {"2023"}})
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, "years=2023..2023", body["filter"])
	assert.Equal(t, float64(298), body["data"].(map[string]any)["total_cases"])
}

func TestRegionsFilteredByRegion(t *testing.T) {
	s, _ := newTestServer(t, fixture)
	rec := get(t, s, "/api/v1/regions", url.Values{"region": {"valle de aburra"}})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []struct {
			Region string `json:"region"`
			Cases  int64  `json:"cases"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "Valle de Aburrá", body.Data[0].Region)
	assert.Equal(t, int64(517), body.Data[0].Cases)
}

func TestRankingTopN(t *testing.T) {
	s, _ := newTestServer(t, fixture)
	rec := get(t, s, "/api/v1/ranking", url.Values{"by": {"cases"}, "top": {"3"}})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []struct {
			Position int    `json:"position"`
			Name     string `json:"name"`
			Cases    int64  `json:"cases"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 3)
	assert.Equal(t, 1, body.Data[0].Position)
	assert.Equal(t, "Medellín", body.Data[0].Name)
	assert.Equal(t, int64(395), body.Data[0].Cases)
}

func TestRiskReturnsWindow(t *testing.T) {
	s, _ := newTestServer(t, fixture)
	rec := get(t, s, "/api/v1/risk", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec)["data"].(map[string]any)
	assert.NotNil(t, data["window"])
	assert.Len(t, data["scores"], 12)

	rec = get(t, s, "/api/v1/risk", url.Values{"rate_weight": {"0.9"}, "growth_weight": {"0.4"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIntegerParamsAreDecimal(t *testing.T) {
	s, _ := newTestServer(t, fixture)

	rec := get(t, s, "/api/v1/summary", url.Values{"from": {"02024"}, "to": {"2024"}})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "years=2024..2024", body["filter"])
	assert.Equal(t, float64(322), body["data"].(map[string]any)["total_cases"])

	for top, want := range map[string]int{"010": 10, "08": 8, "0": 12} {
		rec = get(t, s, "/api/v1/ranking", url.Values{"top": {top}})
		require.Equal(t, http.StatusOK, rec.Code, top)
		assert.Len(t, decode(t, rec)["data"], want, top)
	}

	for _, bad := range []string{"0x10", "0o7", "1e3", "10.0", "-"} {
		rec = get(t, s, "/api/v1/ranking", url.Values{"top": {bad}})
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
	}
}

func TestNotComputableIs422(t *testing.T) {
	s, m := newTestServer(t, fixture)
	q := url.Values{"municipality": {"Caracolí"}, "from": {"2024"}}
	rec := get(t, s, "/api/v1/correlation", q)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["computable"])
	assert.Equal(t, "correlation", body["statistic"])
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotComputable.WithLabelValues("correlation")))
}

func TestBadParametersAre400(t *testing.T) {
	s, _ := newTestServer(t, fixture)
	cases := []struct {
		path string
		q    url.Values
	}{
		{"/api/v1/summary", url.Values{"from": {"abc"}}},
		{"/api/v1/summary", url.Values{"from": {"2024"}, "to": {"2023"}}},
		{"/api/v1/summary", url.Values{"municipality": {"Bogotá"}}},
		{"/api/v1/regions", url.Values{"region": {"Amazonas"}}},
		{"/api/v1/ranking", url.Values{"by": {"bogus"}}},
		{"/api/v1/growth", url.Values{"group": {"country"}}},
		{"/api/v1/correlation", url.Values{"method": {"kendall"}}},
		{"/api/v1/describe", url.Values{"column": {"name"}}},
		{"/api/v1/duplicates", url.Values{"key": {"row"}}},
	}
	for _, tc := range cases {
		rec := get(t, s, tc.path, tc.q)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "%s?%s", tc.path, tc.q.Encode())
	}
}

func TestMissingDatasetIs503(t *testing.T) {
	s, _ := newTestServer(t, "testdata/does-not-exist.csv")
	rec := get(t, s, "/api/v1/summary", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "does-not-exist.csv")
}

func TestDuplicatesAndQuality(t *testing.T) {
	s, _ := newTestServer(t, fixture)
	rec := get(t, s, "/api/v1/duplicates", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode(t, rec)["data"])

	rec = get(t, s, "/api/v1/quality", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, float64(24), data["records"])
}

func TestReportIsMarkdown(t *testing.T) {
	s, _ := newTestServer(t, fixture)
	rec := get(t, s, "/api/v1/report", url.Values{"region": {"Urabá"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/markdown"))
	body := rec.Body.String()
	assert.Contains(t, body, "[DATASET SUMMARY]")
	assert.Contains(t, body, "Apartadó")
}

func TestMetricsEndpointAndRequestCounter(t *testing.T) {
	s, m := newTestServer(t, fixture)
	get(t, s, "/api/v1/years", nil)
	get(t, s, "/api/v1/years", nil)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/api/v1/years", "200")))

	rec := get(t, s, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "antioquia_http_requests_total")
}

func TestCORSPreflight(t *testing.T) {
	s, _ := newTestServer(t, fixture)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/summary", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
