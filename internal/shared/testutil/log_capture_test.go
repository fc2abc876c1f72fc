package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBufferedSlogHandler(t *testing.T) {
	logger, logs := NewTestLogger(t)

	scoped := logger.With(slog.String("component", "aggregator"))
	scoped.Info("aggregated", slog.Int("technicians", 4))
	logger.Debug("loaded")
	logger.Error("failed", slog.Int("code", 500))

	records := logs.Records()
	require.Len(t, records, 3)
	assert.Equal(t, "aggregator", records[0].Attrs["component"])
	assert.NotContains(t, records[2].Attrs, "component")

	AssertLogContains(t, logs, slog.LevelInfo, "aggregat")
	AssertLogContains(t, logs, slog.LevelDebug, "loaded")
	AssertLogAttr(t, logs, "technicians", int64(4))
	AssertLogAttr(t, logs, "code", int64(500))
}

func TestWriteWorkbook(t *testing.T) {
	path := WriteWorkbook(t, t.TempDir(), "opps.xlsx", "Opportunities",
		[]string{"Date", "Opportunity Owner"},
		[][]interface{}{{"2024-01-01", "John Smith"}, {nil, "Sarah Johnson"}},
	)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Opportunities")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Date", "Opportunity Owner"}, rows[0])
	assert.Equal(t, "Sarah Johnson", rows[2][1])
}
