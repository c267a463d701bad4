package report

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-pdf/fpdf"

	"resmon/internal/fsutil"
	"resmon/internal/logging"
	"resmon/internal/metrics"
)

// ErrNoData is returned when a report is requested for a series that
// collected no samples.
var ErrNoData = errors.New("no samples collected")

// Metadata describes the run the report covers.
type Metadata struct {
	Duration    time.Duration
	Interval    time.Duration
	GeneratedAt time.Time
	Interrupted bool
}

// Builder assembles the final report document and writes it under the
// configured output directory.
type Builder struct {
	logger     *logging.Logger
	outputDir  string
	maxRawRows int
}

func NewBuilder(logger *logging.Logger, outputDir string, maxRawRows int) *Builder {
	return &Builder{
		logger:     logger,
		outputDir:  outputDir,
		maxRawRows: maxRawRows,
	}
}

// Build renders the report for the given series and writes it
// atomically to the resolved destination, returning the final path.
// The destination is validated before any rendering happens.
func (b *Builder) Build(series *metrics.Series, meta Metadata, name string) (string, error) {
	dest, err := ResolveDestination(b.outputDir, name)
	if err != nil {
		return "", err
	}

	if series.Len() == 0 {
		return "", ErrNoData
	}

	summary := Summarize(series)

	chartPath := ""
	if series.Len() >= 2 {
		chartPath, err = renderChart(series)
		if err != nil {
			return "", fmt.Errorf("render chart: %w", err)
		}
		defer func() {
			if rmErr := os.Remove(chartPath); rmErr != nil {
				b.logger.Warn("report.chart_cleanup_failed", "Failed to remove chart temp file", map[string]interface{}{
					"path":  chartPath,
					"error": rmErr.Error(),
				})
			}
		}()
	} else {
		b.logger.Warn("report.chart_skipped", "Too few samples to chart", map[string]interface{}{
			"samples": series.Len(),
		})
	}

	doc, err := b.renderDocument(series, summary, meta, chartPath)
	if err != nil {
		return "", fmt.Errorf("render document: %w", err)
	}

	if err := fsutil.EnsureDirectory(b.outputDir); err != nil {
		return "", err
	}
	if err := fsutil.AtomicWriteFile(dest, doc, 0o600, b.logger); err != nil {
		return "", err
	}

	b.logger.Info("report.written", "Report written", map[string]interface{}{
		"path":    dest,
		"samples": series.Len(),
		"bytes":   len(doc),
	})

	return dest, nil
}

func (b *Builder) renderDocument(series *metrics.Series, summary Summary, meta Metadata, chartPath string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("System Resource Report", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "System Resource Report", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	writeMetadata(pdf, meta, summary.SampleCount)
	writeStatsTable(pdf, tr, summary)

	if chartPath != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(0, 8, "Resource Usage Over Time", "", 1, "L", false, 0, "")
		pdf.ImageOptions(chartPath, 10, 0, 190, 0, true, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}

	writeRawTable(pdf, series, b.maxRawRows)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeMetadata(pdf *fpdf.Fpdf, meta Metadata, sampleCount int) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(90, 90, 90)

	rows := [][2]string{
		{"Generated", meta.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Duration", fmt.Sprintf("%.0f seconds (%.1f minutes)", meta.Duration.Seconds(), meta.Duration.Minutes())},
		{"Sampling interval", fmt.Sprintf("%.0f seconds", meta.Interval.Seconds())},
		{"Data points", fmt.Sprintf("%d", sampleCount)},
	}
	if meta.Interrupted {
		rows = append(rows, [2]string{"Note", "run was interrupted before the full duration elapsed"})
	}

	for _, row := range rows {
		pdf.CellFormat(40, 6, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, row[1], "", 1, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)
}

func writeStatsTable(pdf *fpdf.Fpdf, tr func(string) string, summary Summary) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Summary Statistics", "", 1, "L", false, 0, "")
	pdf.Ln(1)

	widths := []float64{62, 32, 32, 32, 32}
	headers := []string{"Resource", "Average", "Minimum", "Maximum", "Std Dev"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(52, 73, 94)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	fill := false
	pdf.SetFillColor(236, 240, 241)
	for _, field := range summary.Fields {
		if field.Optional && !field.HasData() {
			continue
		}
		pdf.CellFormat(widths[0], 6, tr(field.Label), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(widths[1], 6, fmt.Sprintf("%.2f", field.Mean), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(widths[2], 6, fmt.Sprintf("%.2f", field.Min), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(widths[3], 6, fmt.Sprintf("%.2f", field.Max), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(widths[4], 6, fmt.Sprintf("%.2f", field.StdDev), "1", 1, "R", fill, 0, "")
		fill = !fill
	}
}

// writeRawTable lists the first and last maxRows samples, separated by
// an ellipsis row when samples were elided.
func writeRawTable(pdf *fpdf.Fpdf, series *metrics.Series, maxRows int) {
	samples := series.Samples()
	if maxRows <= 0 {
		return
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Raw Samples", "", 1, "L", false, 0, "")
	pdf.Ln(1)

	widths := []float64{28, 27, 27, 27, 27, 27, 27}
	headers := []string{"Time (s)", "CPU %", "Mem %", "Disk R", "Disk W", "Net S", "Net R"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(52, 73, 94)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(0, 0, 0)

	writeRow := func(s metrics.MetricSample) {
		cells := []string{
			fmt.Sprintf("%.1f", s.Elapsed),
			fmt.Sprintf("%.1f", s.CPUPercent),
			fmt.Sprintf("%.1f", s.MemoryPercent),
			fmt.Sprintf("%.2f", s.DiskReadMBs),
			fmt.Sprintf("%.2f", s.DiskWriteMBs),
			fmt.Sprintf("%.2f", s.NetSentMBs),
			fmt.Sprintf("%.2f", s.NetRecvMBs),
		}
		for i, c := range cells {
			align := "R"
			ln := 0
			if i == len(cells)-1 {
				ln = 1
			}
			pdf.CellFormat(widths[i], 5.5, c, "1", ln, align, false, 0, "")
		}
	}

	if len(samples) <= 2*maxRows {
		for _, s := range samples {
			writeRow(s)
		}
		return
	}

	for _, s := range samples[:maxRows] {
		writeRow(s)
	}
	for i, w := range widths {
		ln := 0
		if i == len(widths)-1 {
			ln = 1
		}
		pdf.CellFormat(w, 5.5, "...", "1", ln, "C", false, 0, "")
	}
	for _, s := range samples[len(samples)-maxRows:] {
		writeRow(s)
	}
}
