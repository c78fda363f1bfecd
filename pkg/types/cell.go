// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strconv"

// CellKind identifies what a source cell holds.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellNumber
	CellText
)

// String returns a short name for the kind.
func (k CellKind) String() string {
	switch k {
	case CellNumber:
		return "number"
	case CellText:
		return "text"
	default:
		return "empty"
	}
}

// Cell is a single heterogeneous grid value as read from a spreadsheet.
type Cell struct {
	Kind   CellKind
	Number float64
	Text   string
}

// NumberCell returns a numeric cell.
func NumberCell(v float64) Cell {
	return Cell{Kind: CellNumber, Number: v}
}

// TextCell returns a text cell. An empty string yields an empty cell.
func TextCell(s string) Cell {
	if s == "" {
		return Cell{}
	}
	return Cell{Kind: CellText, Text: s}
}

// IsEmpty reports whether the cell holds no value.
func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty
}

// IsNumber reports whether the cell holds a number.
func (c Cell) IsNumber() bool {
	return c.Kind == CellNumber
}

// IsText reports whether the cell holds text.
func (c Cell) IsText() bool {
	return c.Kind == CellText
}

// Int truncates the numeric value toward zero.
func (c Cell) Int() int {
	return int(c.Number)
}

// Value returns the cell as nil, float64 or string.
func (c Cell) Value() any {
	switch c.Kind {
	case CellNumber:
		return c.Number
	case CellText:
		return c.Text
	default:
		return nil
	}
}

// String renders the cell for log output.
func (c Cell) String() string {
	switch c.Kind {
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellText:
		return strconv.Quote(c.Text)
	default:
		return "<empty>"
	}
}
