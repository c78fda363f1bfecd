// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the data structures shared by the report stages:
// report types, cells, report rows, configuration and run records.
package types

import (
	"errors"
	"fmt"
	"time"
)

// ReportType selects the output schema and the date-assembly rule.
type ReportType string

const (
	// TransactionReport rows carry year, month and day.
	TransactionReport ReportType = "foreign_exchange_transaction_report"
	// PositionReport rows carry year and month; the day is always the 1st.
	PositionReport ReportType = "foreign_exchange_position_report"
)

// MaxSheetNameLength is the workbook sheet title limit.
const MaxSheetNameLength = 31

// ErrUnknownReportType is returned for tags outside the known report types.
var ErrUnknownReportType = errors.New("unknown report type")

// ReportTypes lists every supported report type in run order.
var ReportTypes = []ReportType{TransactionReport, PositionReport}

var (
	transactionHeaders = []string{
		"Date",
		"BCB_Commercial_Exports_Total",
		"BCB_Commercial_Exports_Advances_on_Contracts",
		"BCB_Commercial_Exports_Payment_Advance",
		"BCB_Commercial_Exports_Others",
		"BCB_Commercial_Imports",
		"BCB_Commercial_Balance",
		"BCB_Financial_Purchases",
		"BCB_Financial_Sales",
		"BCB_Financial_Balance",
		"BCB_Balance",
	}
	positionHeaders = []string{
		"Date",
		"BCB_FX_Position",
	}
)

// ParseReportType validates s against the known report types.
func ParseReportType(s string) (ReportType, error) {
	for _, t := range ReportTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q (report has to be one of %s, %s)",
		ErrUnknownReportType, s, TransactionReport, PositionReport)
}

// String returns the report tag.
func (t ReportType) String() string {
	return string(t)
}

// RequiresDay reports whether rows of this type need a day component.
func (t ReportType) RequiresDay() bool {
	return t == TransactionReport
}

// Headers returns the output header labels. The slice is a copy.
func (t ReportType) Headers() []string {
	var h []string
	switch t {
	case TransactionReport:
		h = transactionHeaders
	case PositionReport:
		h = positionHeaders
	}
	return append([]string(nil), h...)
}

// SheetName returns the tag truncated to the sheet title limit.
func (t ReportType) SheetName() string {
	name := string(t)
	if len(name) > MaxSheetNameLength {
		name = name[:MaxSheetNameLength]
	}
	return name
}

// ReportDateLayout is the MM/DD/YYYY layout used for emitted dates.
const ReportDateLayout = "01/02/2006"

// ReportRow is one normalized output record: the reconstructed date followed
// by the metric cells copied from column 2 onward of the source row.
type ReportRow struct {
	Date   time.Time
	Values []Cell
}

// FormatDate returns the row date as MM/DD/YYYY.
func (r ReportRow) FormatDate() string {
	return r.Date.Format(ReportDateLayout)
}

// Fields returns the row as written to the output sheet: the formatted date
// first, then each metric value.
func (r ReportRow) Fields() []any {
	fields := make([]any, 0, len(r.Values)+1)
	fields = append(fields, r.FormatDate())
	for _, c := range r.Values {
		fields = append(fields, c.Value())
	}
	return fields
}
