// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize rebuilds per-row dates from run-length-encoded
// year/month columns and keeps the rows newer than a cutoff.
//
// Source sheets list the year once and the month once, followed by rows
// that only carry a day (transaction report) or only metrics. Year and
// month therefore carry forward from row to row; the day never does.
package normalize

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/pdiddy/bcb-report/pkg/types"
)

// CutoffLayout accepts MM/DD/YYYY with one- or two-digit month and day.
const CutoffLayout = "1/2/2006"

// ErrInvalidCutoff is returned when the cutoff date cannot be parsed.
var ErrInvalidCutoff = errors.New("invalid cutoff date")

var monthAbbrevs = map[string]bool{
	"Jan": true, "Feb": true, "Mar": true, "Apr": true,
	"May": true, "Jun": true, "Jul": true, "Aug": true,
	"Sep": true, "Oct": true, "Nov": true, "Dec": true,
}

// Result holds the emitted rows and how every scanned row was handled.
type Result struct {
	Rows  []types.ReportRow
	Stats types.RowStats

	// LastDate is the latest emitted date; zero when nothing was emitted.
	LastDate time.Time
}

// ParseCutoff parses an MM/DD/YYYY cutoff date.
func ParseCutoff(s string) (time.Time, error) {
	t, err := time.Parse(CutoffLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: want MM/DD/YYYY", ErrInvalidCutoff, s)
	}
	return t, nil
}

// state is the carried year/month; zero values mean unset.
type state struct {
	year  int
	month string
}

// Normalize scans rows in order and returns the rows whose reconstructed
// date is strictly after cutoff. Each emitted row is the date followed by
// the source cells from column 2 onward, unchanged. Rows that carry no
// date component, lack a required component or do not form a calendar date
// are skipped and counted. A nil logger discards per-row diagnostics.
func Normalize(rows [][]types.Cell, reportType types.ReportType, cutoff time.Time, logger *slog.Logger) Result {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var (
		st  state
		res Result
	)
	for i, row := range rows {
		res.Stats.Scanned++

		day, touched := st.apply(row, reportType)
		if !touched {
			res.Stats.Untouched++
			continue
		}

		date, ok, err := st.date(reportType, day)
		if !ok {
			res.Stats.Incomplete++
			logger.Debug("skipping row with missing date component",
				slog.Int("row", i), slog.Int("year", st.year),
				slog.String("month", st.month), slog.Int("day", day))
			continue
		}
		if err != nil {
			res.Stats.InvalidDate++
			logger.Debug("skipping row with invalid date",
				slog.Int("row", i), slog.String("error", err.Error()))
			continue
		}

		if !date.After(cutoff) {
			res.Stats.NotAfterCutoff++
			continue
		}

		res.Rows = append(res.Rows, types.ReportRow{
			Date:   date,
			Values: metrics(row),
		})
		res.Stats.Emitted++
		if date.After(res.LastDate) {
			res.LastDate = date
		}
	}
	return res
}

// apply updates the carried state from columns 0 and 1 and returns the
// row's day (zero if none) and whether any component was taken from it.
func (st *state) apply(row []types.Cell, reportType types.ReportType) (day int, touched bool) {
	if c := cellAt(row, 0); c.IsNumber() && c.Number != 0 {
		st.year = c.Int()
		touched = true
	}

	switch c := cellAt(row, 1); {
	case c.IsText():
		if monthAbbrevs[c.Text] {
			st.month = c.Text
			touched = true
		}
	case c.IsNumber() && c.Number != 0:
		if d := c.Int(); reportType.RequiresDay() && d >= 1 && d <= 31 {
			day = d
			touched = true
		}
	}
	return day, touched
}

// date assembles the candidate date. ok is false when a required component
// is unset; err is set when the components do not form a calendar date.
func (st *state) date(reportType types.ReportType, day int) (t time.Time, ok bool, err error) {
	if st.year == 0 || st.month == "" {
		return time.Time{}, false, nil
	}
	if reportType.RequiresDay() {
		if day == 0 {
			return time.Time{}, false, nil
		}
		t, err = time.Parse("Jan/2/2006", fmt.Sprintf("%s/%d/%d", st.month, day, st.year))
		return t, true, err
	}
	t, err = time.Parse("Jan/2006", fmt.Sprintf("%s/%d", st.month, st.year))
	return t, true, err
}

func cellAt(row []types.Cell, i int) types.Cell {
	if i < len(row) {
		return row[i]
	}
	return types.Cell{}
}

func metrics(row []types.Cell) []types.Cell {
	if len(row) <= 2 {
		return nil
	}
	return append([]types.Cell(nil), row[2:]...)
}
