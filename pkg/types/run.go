// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RowStats counts how rows fared during normalization.
type RowStats struct {
	// Scanned is every row read from the sheet.
	Scanned int `json:"scanned" yaml:"scanned"`

	// Emitted rows passed the cutoff and were written.
	Emitted int `json:"emitted" yaml:"emitted"`

	// Untouched rows carried no year, month or day (headers, blanks, notes).
	Untouched int `json:"untouched" yaml:"untouched"`

	// Incomplete rows lacked a required date component.
	Incomplete int `json:"incomplete" yaml:"incomplete"`

	// InvalidDate rows had every component but no calendar date (e.g. Feb 31).
	InvalidDate int `json:"invalid_date" yaml:"invalid_date"`

	// NotAfterCutoff rows were on or before the cutoff.
	NotAfterCutoff int `json:"not_after_cutoff" yaml:"not_after_cutoff"`
}

// Skipped returns the number of rows not emitted.
func (s RowStats) Skipped() int {
	return s.Untouched + s.Incomplete + s.InvalidDate + s.NotAfterCutoff
}

// Malformed returns rows that looked like data but had no usable date.
func (s RowStats) Malformed() int {
	return s.Incomplete + s.InvalidDate
}

// RunRecord describes one completed report run. It is stored in the run
// history and written as the YAML manifest next to the report.
type RunRecord struct {
	// ID is the history row id; zero when history is disabled.
	ID int64 `json:"id,omitempty" yaml:"id,omitempty"`

	// ReportType is the report tag.
	ReportType ReportType `json:"report_type" yaml:"report_type"`

	// SourceURL is where the input workbook came from; empty for local input.
	SourceURL string `json:"source_url,omitempty" yaml:"source_url,omitempty"`

	// InputPath is the local source workbook.
	InputPath string `json:"input_path" yaml:"input_path"`

	// OutputPath is the generated report workbook.
	OutputPath string `json:"output_path" yaml:"output_path"`

	// Cutoff is the exclusive lower bound used for this run.
	Cutoff time.Time `json:"cutoff" yaml:"cutoff"`

	// LastRowDate is the latest emitted date; zero when nothing was emitted.
	LastRowDate time.Time `json:"last_row_date,omitempty" yaml:"last_row_date,omitempty"`

	Stats RowStats `json:"stats" yaml:"stats"`

	// RanAt is when the report was written.
	RanAt time.Time `json:"ran_at" yaml:"ran_at"`
}
