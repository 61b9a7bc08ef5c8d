package journal

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportXLSX returns an XLSX workbook (as bytes) listing every submission
// journaled so far, in submission order.
func (j *Journal) ExportXLSX(logger *slog.Logger) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()
	entries := j.Entries()

	f := excelize.NewFile()
	const sheet = "Submissions"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if defIdx, _ := f.GetSheetIndex("Sheet1"); defIdx != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{
		"Submitted At",
		"Sender",
		"Supplier",
		"Tax ID",
		"Amount",
		"Document Date",
		"Description",
		"Source File URL",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, e := range entries {
		values := []any{
			e.SubmittedAt.UTC().Format(time.RFC3339),
			e.SenderID,
			e.Record.Supplier,
			e.Record.TaxID,
			e.Record.Amount,
			e.Record.DocumentDate,
			e.Record.Description,
			e.Record.SourceFileURL,
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	logger.Info("journal.export.ok",
		"rows", len(entries),
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
