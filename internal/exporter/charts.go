package exporter

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	apierrors "techkpi/internal/errors"
	"techkpi/internal/kpi"
)

// Chart names one of the dashboard charts
type Chart string

const (
	ChartRevenue    Chart = "revenue"
	ChartEfficiency Chart = "efficiency"
	ChartServices   Chart = "services"
)

// Charts returns every chart name
func Charts() []Chart {
	return []Chart{ChartRevenue, ChartEfficiency, ChartServices}
}

// ParseChart validates a chart name
func ParseChart(s string) (Chart, bool) {
	for _, c := range Charts() {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// ErrNothingToPlot is returned for a result without technicians
var ErrNothingToPlot = errors.New("no technicians to plot")

var serviceColors = map[kpi.Service]drawing.Color{
	kpi.ServiceHydroJetting: drawing.ColorFromHex("1f77b4"),
	kpi.ServiceDescaling:    drawing.ColorFromHex("ff7f0e"),
	kpi.ServiceWaterHeater:  drawing.ColorFromHex("2ca02c"),
}

var serviceAbbrev = map[kpi.Service]string{
	kpi.ServiceHydroJetting: "HJ",
	kpi.ServiceDescaling:    "DS",
	kpi.ServiceWaterHeater:  "WH",
}

// ChartRenderer draws the dashboard charts as PNG bar charts
type ChartRenderer struct {
	Width  int
	Height int
}

// NewChartRenderer creates a renderer with the default canvas size
func NewChartRenderer() *ChartRenderer {
	return &ChartRenderer{Width: 1024, Height: 512}
}

// Render writes chart c for result to w as PNG
func (r *ChartRenderer) Render(w io.Writer, result *kpi.Result, c Chart) error {
	if result == nil || result.Empty() {
		return ErrNothingToPlot
	}

	views := result.Views()
	var bc chart.BarChart
	switch c {
	case ChartRevenue:
		bc = r.valueChart("Weekly Revenue by Technician", views.Revenue, drawing.ColorFromHex("440154"))
	case ChartEfficiency:
		bc = r.valueChart("Job Efficiency by Technician", views.Efficiency, drawing.ColorFromHex("0d0887"))
	case ChartServices:
		bc = r.servicesChart(views.Services)
	default:
		return fmt.Errorf("unknown chart %q", c)
	}

	if err := bc.Render(chart.PNG, w); err != nil {
		return apierrors.NewRenderError(fmt.Sprintf("render %s chart", c), err)
	}
	return nil
}

func (r *ChartRenderer) base(title string, bars []chart.Value) chart.BarChart {
	top := 1.0
	for _, b := range bars {
		top = math.Max(top, b.Value)
	}

	width := r.Width
	if need := 80 * (len(bars) + 1); need > width {
		width = need
	}

	return chart.BarChart{
		Title:      title,
		Width:      width,
		Height:     r.Height,
		BarWidth:   40,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}},
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1}},
		Bars:       bars,
	}
}

func (r *ChartRenderer) valueChart(title string, values []kpi.TechnicianValue, color drawing.Color) chart.BarChart {
	bars := make([]chart.Value, len(values))
	for i, v := range values {
		bars[i] = chart.Value{
			Label: v.Technician,
			Value: v.Value,
			Style: chart.Style{FillColor: color, StrokeColor: color},
		}
	}
	return r.base(title, bars)
}

// servicesChart groups the three service bars of each technician side by side
func (r *ChartRenderer) servicesChart(rows []kpi.ServiceCount) chart.BarChart {
	bars := make([]chart.Value, len(rows))
	for i, sc := range rows {
		color := serviceColors[sc.Service]
		bars[i] = chart.Value{
			Label: sc.Technician + " " + serviceAbbrev[sc.Service],
			Value: float64(sc.Count),
			Style: chart.Style{FillColor: color, StrokeColor: color},
		}
	}
	return r.base("Service Breakdown by Technician (HJ Hydro Jetting, DS Descaling, WH Water Heater)", bars)
}
