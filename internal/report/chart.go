package report

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"resmon/internal/metrics"
)

const (
	panelWidth  = 560
	panelHeight = 260
	chartCols   = 2
)

var (
	colorCPU     = drawing.Color{R: 214, G: 69, B: 65, A: 255}
	colorMemory  = drawing.Color{R: 52, G: 152, B: 219, A: 255}
	colorPrimary = drawing.Color{R: 46, G: 134, B: 87, A: 255}
	colorAlt     = drawing.Color{R: 230, G: 126, B: 34, A: 255}
	colorTemp    = drawing.Color{R: 155, G: 89, B: 182, A: 255}
	colorGPU     = drawing.Color{R: 22, G: 160, B: 133, A: 255}
)

// renderChart renders the multi-panel metrics chart into a uniquely
// named temporary PNG file and returns its path. The caller removes
// the file once it has been embedded.
func renderChart(series *metrics.Series) (string, error) {
	img, err := renderChartImage(series)
	if err != nil {
		return "", err
	}

	f, err := os.CreateTemp("", "resmon-chart-*.png")
	if err != nil {
		return "", fmt.Errorf("create chart file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("encode chart: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close chart file: %w", err)
	}

	return f.Name(), nil
}

// renderChartImage composites the six metric panels into a single
// image laid out on a two-column grid.
func renderChartImage(series *metrics.Series) (image.Image, error) {
	samples := series.Samples()
	if len(samples) < 2 {
		return nil, fmt.Errorf("chart needs at least 2 samples, have %d", len(samples))
	}

	xs := make([]float64, len(samples))
	for i, s := range samples {
		xs[i] = s.Elapsed
	}

	panels := []panelSpec{
		cpuPanel(xs, samples),
		memoryPanel(xs, samples),
		diskPanel(xs, samples),
		networkPanel(xs, samples),
		tempPanel(xs, samples),
		gpuPanel(xs, samples),
	}

	rows := (len(panels) + chartCols - 1) / chartCols
	canvas := image.NewRGBA(image.Rect(0, 0, chartCols*panelWidth, rows*panelHeight))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	for i, panel := range panels {
		img, err := renderPanel(panel)
		if err != nil {
			return nil, fmt.Errorf("render panel %q: %w", panel.title, err)
		}
		x := (i % chartCols) * panelWidth
		y := (i / chartCols) * panelHeight
		draw.Draw(canvas, image.Rect(x, y, x+panelWidth, y+panelHeight), img, image.Point{}, draw.Over)
	}

	return canvas, nil
}

type panelSpec struct {
	title  string
	yLabel string
	yRange *chart.ContinuousRange
	series []chart.Series
}

func line(name string, xs, ys []float64, c drawing.Color) chart.Series {
	return chart.ContinuousSeries{
		Name:    name,
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeColor: c,
			StrokeWidth: 1.5,
		},
	}
}

func cpuPanel(xs []float64, samples []metrics.MetricSample) panelSpec {
	ys := make([]float64, len(samples))
	for i, s := range samples {
		ys[i] = s.CPUPercent
	}
	return panelSpec{
		title:  "CPU Usage",
		yLabel: "Percent",
		yRange: &chart.ContinuousRange{Min: 0, Max: 105},
		series: []chart.Series{line("CPU %", xs, ys, colorCPU)},
	}
}

func memoryPanel(xs []float64, samples []metrics.MetricSample) panelSpec {
	ys := make([]float64, len(samples))
	for i, s := range samples {
		ys[i] = s.MemoryPercent
	}
	return panelSpec{
		title:  "Memory Usage",
		yLabel: "Percent",
		yRange: &chart.ContinuousRange{Min: 0, Max: 105},
		series: []chart.Series{line("Memory %", xs, ys, colorMemory)},
	}
}

func diskPanel(xs []float64, samples []metrics.MetricSample) panelSpec {
	reads := make([]float64, len(samples))
	writes := make([]float64, len(samples))
	for i, s := range samples {
		reads[i] = s.DiskReadMBs
		writes[i] = s.DiskWriteMBs
	}
	return panelSpec{
		title:  "Disk I/O",
		yLabel: "MB/s",
		series: []chart.Series{
			line("Read", xs, reads, colorPrimary),
			line("Write", xs, writes, colorAlt),
		},
	}
}

func networkPanel(xs []float64, samples []metrics.MetricSample) panelSpec {
	sent := make([]float64, len(samples))
	recv := make([]float64, len(samples))
	for i, s := range samples {
		sent[i] = s.NetSentMBs
		recv[i] = s.NetRecvMBs
	}
	return panelSpec{
		title:  "Network I/O",
		yLabel: "MB/s",
		series: []chart.Series{
			line("Sent", xs, sent, colorPrimary),
			line("Received", xs, recv, colorAlt),
		},
	}
}

// tempPanel plots CPU temperature over the samples where it was
// present. When the sensor produced no readings the panel renders as
// a flat zero line labelled "not available".
func tempPanel(xs []float64, samples []metrics.MetricSample) panelSpec {
	var px, py []float64
	for i, s := range samples {
		if s.CPUTempC != nil {
			px = append(px, xs[i])
			py = append(py, *s.CPUTempC)
		}
	}
	if len(px) < 2 {
		return placeholderPanel("CPU Temperature (not available)", xs)
	}
	return panelSpec{
		title:  "CPU Temperature",
		yLabel: "°C",
		series: []chart.Series{line("CPU Temp", px, py, colorTemp)},
	}
}

func gpuPanel(xs []float64, samples []metrics.MetricSample) panelSpec {
	var px, py []float64
	for i, s := range samples {
		if s.GPUUtilPct != nil {
			px = append(px, xs[i])
			py = append(py, *s.GPUUtilPct)
		}
	}
	if len(px) < 2 {
		return placeholderPanel("GPU Utilization (not available)", xs)
	}
	return panelSpec{
		title:  "GPU Utilization",
		yLabel: "Percent",
		yRange: &chart.ContinuousRange{Min: 0, Max: 105},
		series: []chart.Series{line("GPU %", px, py, colorGPU)},
	}
}

func placeholderPanel(title string, xs []float64) panelSpec {
	ys := make([]float64, len(xs))
	return panelSpec{
		title:  title,
		yRange: &chart.ContinuousRange{Min: 0, Max: 1},
		series: []chart.Series{line("", xs, ys, drawing.Color{R: 189, G: 195, B: 199, A: 255})},
	}
}

func renderPanel(spec panelSpec) (image.Image, error) {
	graph := chart.Chart{
		Title:  spec.title,
		Width:  panelWidth,
		Height: panelHeight,
		XAxis: chart.XAxis{
			Name: "Time (s)",
		},
		YAxis: chart.YAxis{
			Name: spec.yLabel,
		},
		Series: spec.series,
	}
	if spec.yRange != nil {
		graph.YAxis.Range = spec.yRange
	}
	if len(spec.series) > 1 {
		graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return png.Decode(&buf)
}
