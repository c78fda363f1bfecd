// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package workbook

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/bcb-report/internal/fsutil"
	"github.com/pdiddy/bcb-report/pkg/types"
)

// Ext is the extension of generated reports.
const Ext = ".xlsx"

// OutputPath returns outputDir/<report_type>.xlsx.
func OutputPath(reportType types.ReportType, outputDir string) string {
	return filepath.Join(outputDir, reportType.String()+Ext)
}

// Write creates a single-sheet workbook with the report header in row 0
// and one report row per line after it, then saves it to
// outputDir/<report_type>.xlsx, replacing any existing file.
func Write(reportType types.ReportType, rows []types.ReportRow, outputDir string) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := reportType.SheetName()
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return "", fmt.Errorf("naming sheet: %w", err)
	}

	headers := reportType.Headers()
	for col, label := range headers {
		if err := setCell(f, sheet, col, 0, label); err != nil {
			return "", err
		}
	}
	if len(headers) > 0 {
		bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return "", fmt.Errorf("creating header style: %w", err)
		}
		first, _ := excelize.CoordinatesToCellName(1, 1)
		last, _ := excelize.CoordinatesToCellName(len(headers), 1)
		if err := f.SetCellStyle(sheet, first, last, bold); err != nil {
			return "", fmt.Errorf("styling header: %w", err)
		}
	}

	for i, r := range rows {
		for col, v := range r.Fields() {
			if v == nil {
				continue
			}
			if err := setCell(f, sheet, col, i+1, v); err != nil {
				return "", err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return "", fmt.Errorf("encoding workbook: %w", err)
	}

	path := OutputPath(reportType, outputDir)
	if err := fsutil.WriteFileAtomic(path, buf.Bytes()); err != nil {
		return "", err
	}
	return path, nil
}

// setCell writes v at the zero-based (col, row) position.
func setCell(f *excelize.File, sheet string, col, row int, v any) error {
	name, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, name, v); err != nil {
		return fmt.Errorf("writing cell %s: %w", name, err)
	}
	return nil
}
