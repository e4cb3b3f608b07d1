package observability

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerTo(&buf, "warn", "json")
	log.Info("hidden")
	log.Warn("dataset loaded", "rows", 24)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "dataset loaded", entry["msg"])
	assert.Equal(t, float64(24), entry["rows"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestMetricsForTestingAreIsolated(t *testing.T) {
	a, _ := NewMetricsForTesting()
	b, reg := NewMetricsForTesting()
	a.DatasetRows.Set(24)
	b.HTTPRequests.WithLabelValues("/api/v1/summary", "200").Inc()

	assert.Equal(t, 24.0, testutil.ToFloat64(a.DatasetRows))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.DatasetRows))
	n, err := testutil.GatherAndCount(reg, "antioquia_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestObserveLoad(t *testing.T) {
	m, _ := NewMetricsForTesting()
	m.ObserveLoad(5*time.Millisecond, 24, nil)
	m.ObserveLoad(time.Millisecond, 0, errors.New("missing file"))

	assert.Equal(t, 24.0, testutil.ToFloat64(m.DatasetRows))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DatasetLoadErrors))
}
