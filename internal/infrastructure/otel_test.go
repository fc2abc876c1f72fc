package infrastructure

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techkpi/internal/config"
	"techkpi/internal/shared/testutil"
)

func TestInitializeOTel_MetricsExposedOnPrometheusHandler(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	cfg := config.Default().Telemetry

	providers, err := InitializeOTel(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = providers.Shutdown(context.Background()) })

	require.NotNil(t, providers.PrometheusHTTP)
	assert.Nil(t, providers.TracerProvider)

	metrics, err := NewKPIMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordProcessing(ctx, "demo", "success", 120*time.Millisecond)
	metrics.RecordRows(ctx, "opportunities", 100, 2)
	metrics.RecordTechnicians(ctx, 4)

	w := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(w.Body)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(body), "kpi_processing_total")
	assert.Contains(t, string(body), "kpi_rows_flagged_total")
	assert.Contains(t, string(body), "go_goroutines")
}

func TestInitializeOTel_Disabled(t *testing.T) {
	cfg := config.Default().Telemetry
	cfg.EnableMetrics = false

	providers, err := InitializeOTel(cfg, nil)
	require.NoError(t, err)

	assert.Nil(t, providers.PrometheusHTTP)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.Tracer)

	metrics, err := NewKPIMetrics(providers.Meter)
	require.NoError(t, err)
	metrics.RecordTechnicians(context.Background(), 1)
}

func TestKPIMetrics_NilSafe(t *testing.T) {
	var m *KPIMetrics
	m.RecordProcessing(context.Background(), "upload", "success", time.Second)
	m.RecordRows(context.Background(), "job_times", 1, 1)
	m.RecordTechnicians(context.Background(), 3)
}
