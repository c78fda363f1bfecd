// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report turns a downloaded source workbook into a filtered,
// reformatted report and runs configured report jobs end to end.
package report

import (
	"fmt"
	"log/slog"

	"github.com/pdiddy/bcb-report/internal/normalize"
	"github.com/pdiddy/bcb-report/internal/workbook"
	"github.com/pdiddy/bcb-report/pkg/types"
)

// Generator produces one report from one local source workbook.
type Generator struct {
	filePath   string
	reportType types.ReportType
	logger     *slog.Logger
}

// Summary describes a generated report.
type Summary struct {
	OutputPath string
	Result     normalize.Result
}

// NewGenerator validates reportType and returns a Generator for filePath.
func NewGenerator(filePath, reportType string, logger *slog.Logger) (*Generator, error) {
	rt, err := types.ParseReportType(reportType)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		filePath:   filePath,
		reportType: rt,
		logger:     logger.With(slog.String("component", "report"), slog.String("report_type", rt.String())),
	}, nil
}

// ReportType returns the validated report type.
func (g *Generator) ReportType() types.ReportType {
	return g.reportType
}

// Analyse parses cutoff, reads the source workbook and returns the rows
// strictly after cutoff. A malformed cutoff fails before the file is read.
func (g *Generator) Analyse(cutoff string) (normalize.Result, error) {
	c, err := normalize.ParseCutoff(cutoff)
	if err != nil {
		return normalize.Result{}, err
	}

	rows, err := workbook.Read(g.filePath)
	if err != nil {
		return normalize.Result{}, err
	}

	res := normalize.Normalize(rows, g.reportType, c, g.logger)
	g.logger.Info("rows normalized",
		slog.String("cutoff", c.Format(types.ReportDateLayout)),
		slog.Int("scanned", res.Stats.Scanned),
		slog.Int("emitted", res.Stats.Emitted),
		slog.Int("untouched", res.Stats.Untouched),
		slog.Int("malformed", res.Stats.Malformed()),
		slog.Int("not_after_cutoff", res.Stats.NotAfterCutoff))
	return res, nil
}

// Generate runs Analyse and writes outputDir/<report_type>.xlsx.
func (g *Generator) Generate(outputDir, cutoff string) (Summary, error) {
	res, err := g.Analyse(cutoff)
	if err != nil {
		return Summary{}, err
	}

	path, err := workbook.Write(g.reportType, res.Rows, outputDir)
	if err != nil {
		return Summary{}, fmt.Errorf("writing %s: %w", g.reportType, err)
	}
	g.logger.Info("report written", slog.String("path", path), slog.Int("rows", len(res.Rows)))
	return Summary{OutputPath: path, Result: res}, nil
}
