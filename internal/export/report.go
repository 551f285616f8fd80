// Package export renders run summaries as XLSX workbooks.
package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/doc2json/internal/pipeline"
)

const (
	filesSheet   = "Files"
	summarySheet = "Summary"
)

var fileHeaders = []string{
	"Source Path",
	"Kind",
	"Status",
	"Stage",
	"Error",
	"JSON Path",
	"Raw Fallback",
	"Schema Error",
	"Elapsed (ms)",
}

// Reporter writes one workbook per run.
type Reporter struct {
	logger *slog.Logger
}

func NewReporter(logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{logger: logger}
}

// SummaryXLSX returns the run summary as XLSX bytes: a Files sheet with one row
// per processed file and a Summary sheet with the counters.
func (r *Reporter) SummaryXLSX(sum pipeline.Summary, generatedAt time.Time) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			r.logger.Warn("export.xlsx.close_error", "error", err)
		}
	}()

	// the default sheet becomes Files
	if err := f.SetSheetName("Sheet1", filesSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("new sheet: %w", err)
	}
	activeIndex, _ := f.GetSheetIndex(filesSheet)
	f.SetActiveSheet(activeIndex)

	for i, h := range fileHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(filesSheet, cell, h)
	}

	row := 2
	for _, res := range sum.Results {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(filesSheet, cell, v)
		}
		write(1, res.Path)
		write(2, string(res.Kind))
		write(3, string(res.Status))
		write(4, string(res.Stage))
		write(5, truncate(res.ErrText(), 500))
		write(6, res.JSONPath)
		write(7, res.RawFallback)
		write(8, truncate(res.SchemaErr, 500))
		write(9, res.Elapsed.Milliseconds())
		row++
	}

	_ = f.SetColWidth(filesSheet, "A", "A", 48) // path
	_ = f.SetColWidth(filesSheet, "B", "D", 12)
	_ = f.SetColWidth(filesSheet, "E", "E", 60) // error
	_ = f.SetColWidth(filesSheet, "F", "F", 48)
	_ = f.SetColWidth(filesSheet, "G", "G", 14)
	_ = f.SetColWidth(filesSheet, "H", "H", 40)
	_ = f.SetColWidth(filesSheet, "I", "I", 14)

	counters := [][2]any{
		{"Generated At", generatedAt.UTC().Format(time.RFC3339)},
		{"Scanned", sum.Scanned},
		{"Matched", sum.Matched},
		{"Succeeded", sum.Succeeded},
		{"Failed", sum.Failed},
		{"Raw Fallback", sum.RawFallbacks},
		{"Schema Mismatch", sum.SchemaMismatches},
		{"Elapsed (ms)", sum.Elapsed.Milliseconds()},
	}
	for i, kv := range counters {
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", i+1), kv[0])
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", i+1), kv[1])
	}
	_ = f.SetColWidth(summarySheet, "A", "A", 18)
	_ = f.SetColWidth(summarySheet, "B", "B", 26)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	r.logger.Info("export.xlsx.ok",
		"rows", len(sum.Results),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// WriteSummary renders the summary and writes it to path, creating parent directories.
func (r *Reporter) WriteSummary(path string, sum pipeline.Summary, generatedAt time.Time) error {
	data, err := r.SummaryXLSX(sum, generatedAt)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
