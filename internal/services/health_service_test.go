package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"techkpi/internal/config"
)

type stubHolder bool

func (s stubHolder) HasResult() bool { return bool(s) }

func TestHealthService_ReadinessCheck(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	assert.NoError(t, os.WriteFile(file, nil, 0o644))

	tests := []struct {
		name    string
		paths   *config.Paths
		results ResultHolder
		want    string
		kpiMsg  string
	}{
		{name: "ready without result", paths: &config.Paths{ExportDir: dir}, results: stubHolder(false), want: "ready", kpiMsg: "no result yet"},
		{name: "ready with result", paths: &config.Paths{ExportDir: dir}, results: stubHolder(true), want: "ready", kpiMsg: "result available"},
		{name: "no paths", results: stubHolder(false), want: "ready", kpiMsg: "no result yet"},
		{name: "missing export dir", paths: &config.Paths{ExportDir: filepath.Join(dir, "nope")}, results: stubHolder(false), want: "not_ready", kpiMsg: "no result yet"},
		{name: "export path is a file", paths: &config.Paths{ExportDir: file}, results: stubHolder(false), want: "not_ready", kpiMsg: "no result yet"},
		{name: "no kpi service", paths: &config.Paths{ExportDir: dir}, want: "not_ready", kpiMsg: "KPI service not initialized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hs := NewHealthService("1.0.0", "", "", tt.paths, tt.results, nil)
			status := hs.ReadinessCheck(context.Background())

			assert.Equal(t, tt.want, status.Status)
			assert.Equal(t, "1.0.0", status.Version)
			kpiHealth := status.Services["kpi"].(ServiceHealth)
			assert.Equal(t, tt.kpiMsg, kpiHealth.Message)
		})
	}
}

func TestHealthService_HealthAndLiveness(t *testing.T) {
	hs := NewHealthService("1.0.0", "2024-01-01", "abc123", nil, stubHolder(true), nil)

	assert.Equal(t, "ok", hs.HealthCheck(context.Background()).Status)

	live := hs.LivenessCheck(context.Background())
	assert.Equal(t, "alive", live.Status)
	assert.Contains(t, live.Runtime, "goroutines")

	v := hs.Version()
	assert.Equal(t, "1.0.0", v["version"])
	assert.Equal(t, "2024-01-01", v["build_time"])
	assert.Equal(t, "abc123", v["build_id"])

	bare := NewHealthService("1.0.0", "", "", nil, nil, nil).Version()
	assert.NotContains(t, bare, "build_time")
}
