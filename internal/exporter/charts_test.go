package exporter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestChartRenderer_Render(t *testing.T) {
	renderer := NewChartRenderer()
	result := testResult(t)

	for _, c := range Charts() {
		t.Run(string(c), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, renderer.Render(&buf, result, c))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
		})
	}
}

func TestChartRenderer_Errors(t *testing.T) {
	renderer := NewChartRenderer()

	var buf bytes.Buffer
	assert.ErrorIs(t, renderer.Render(&buf, emptyResult(), ChartRevenue), ErrNothingToPlot)
	assert.ErrorIs(t, renderer.Render(&buf, nil, ChartRevenue), ErrNothingToPlot)

	err := renderer.Render(&buf, testResult(t), Chart("pie"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown chart")
}

func TestParseChart(t *testing.T) {
	c, ok := ParseChart("services")
	assert.True(t, ok)
	assert.Equal(t, ChartServices, c)

	_, ok = ParseChart("Revenue")
	assert.False(t, ok)
}
