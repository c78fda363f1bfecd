// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package workbook reads source spreadsheets into a grid of cells and
// writes generated reports.
package workbook

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/bcb-report/pkg/types"
)

// Read loads every row of the first sheet of the workbook at path,
// including leading header and blank rows.
func Read(path string) ([][]types.Cell, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", path, err)
	}
	defer f.Close()

	return readFirstSheet(f)
}

func readFirstSheet(f *excelize.File) ([][]types.Cell, error) {
	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading rows of sheet %q: %w", sheet, err)
	}

	grid := make([][]types.Cell, len(raw))
	for r, values := range raw {
		cells := make([]types.Cell, len(values))
		for c, v := range values {
			if v == "" {
				continue
			}
			name, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			kind, err := f.GetCellType(sheet, name)
			if err != nil {
				return nil, fmt.Errorf("reading type of cell %s: %w", name, err)
			}
			cells[c] = classify(kind, v)
		}
		grid[r] = cells
	}
	return grid, nil
}

// classify turns a raw cell value into a Cell. String cells stay text even
// when they look numeric; everything else is a number if it parses as one.
func classify(kind excelize.CellType, v string) types.Cell {
	switch kind {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeError:
		return types.TextCell(v)
	}
	if n, err := strconv.ParseFloat(v, 64); err == nil {
		return types.NumberCell(n)
	}
	return types.TextCell(v)
}
