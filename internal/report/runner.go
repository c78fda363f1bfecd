// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/bcb-report/internal/fsutil"
	"github.com/pdiddy/bcb-report/internal/normalize"
	"github.com/pdiddy/bcb-report/pkg/types"
)

// ErrNoCutoff is returned when a job has neither a cutoff nor a history
// entry to resume from.
var ErrNoCutoff = errors.New("no cutoff date")

// Downloader fetches a source workbook to targetDir/fileName.
type Downloader interface {
	Download(ctx context.Context, url, targetDir, fileName string) (string, error)
}

// RunStore persists completed runs.
type RunStore interface {
	Record(ctx context.Context, rec types.RunRecord) (types.RunRecord, error)
	LastRowDate(ctx context.Context, reportType types.ReportType) (time.Time, bool, error)
}

// Runner executes report jobs: fetch, normalize, write, record.
type Runner struct {
	downloader  Downloader
	store       RunStore
	downloadDir string
	outputDir   string
	logger      *slog.Logger
	out         io.Writer
	now         func() time.Time
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithStore records runs in s and enables since_last cutoffs.
func WithStore(s RunStore) RunnerOption {
	return func(r *Runner) { r.store = s }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) { r.logger = l }
}

// WithOutput sets where user-facing progress lines are printed.
func WithOutput(w io.Writer) RunnerOption {
	return func(r *Runner) { r.out = w }
}

// WithClock overrides the time source for run records.
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) { r.now = now }
}

// NewRunner returns a Runner that downloads into downloadDir and writes
// reports into outputDir.
func NewRunner(d Downloader, downloadDir, outputDir string, opts ...RunnerOption) *Runner {
	r := &Runner{
		downloader:  d,
		downloadDir: downloadDir,
		outputDir:   outputDir,
		logger:      slog.Default(),
		out:         io.Discard,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunAll runs jobs one after another and stops at the first failure.
func (r *Runner) RunAll(ctx context.Context, jobs []types.ReportJob) ([]types.RunRecord, error) {
	records := make([]types.RunRecord, 0, len(jobs))
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return records, err
		}
		rec, err := r.Run(ctx, job)
		if err != nil {
			return records, fmt.Errorf("job %s: %w", job.Label(), err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Run executes one job. The report type, job fields and cutoff are checked
// before anything is downloaded.
func (r *Runner) Run(ctx context.Context, job types.ReportJob) (types.RunRecord, error) {
	rt, err := types.ParseReportType(job.ReportType)
	if err != nil {
		return types.RunRecord{}, err
	}
	if err := ValidateJob(job); err != nil {
		return types.RunRecord{}, err
	}
	cutoff, err := r.resolveCutoff(ctx, rt, job)
	if err != nil {
		return types.RunRecord{}, err
	}

	fmt.Fprintf(r.out, "Running %s\n", job.Label())
	path, err := r.downloader.Download(ctx, job.URL, r.downloadDir, job.FileName)
	if err != nil {
		return types.RunRecord{}, err
	}
	return r.generate(ctx, rt, path, job.URL, cutoff)
}

// RunLocal generates a report from an already-downloaded workbook. With
// sinceLast the latest recorded row date replaces cutoff when one exists.
func (r *Runner) RunLocal(ctx context.Context, reportType, inputPath, cutoff string, sinceLast bool) (types.RunRecord, error) {
	rt, err := types.ParseReportType(reportType)
	if err != nil {
		return types.RunRecord{}, err
	}
	job := types.ReportJob{ReportType: reportType, Cutoff: cutoff, SinceLast: sinceLast}
	resolved, err := r.resolveCutoff(ctx, rt, job)
	if err != nil {
		return types.RunRecord{}, err
	}
	fmt.Fprintf(r.out, "Running %s\n", rt)
	return r.generate(ctx, rt, inputPath, "", resolved)
}

// resolveCutoff returns the job cutoff, or the latest recorded row date
// when since_last is set and history has one.
func (r *Runner) resolveCutoff(ctx context.Context, rt types.ReportType, job types.ReportJob) (string, error) {
	cutoff := job.Cutoff
	if job.SinceLast && r.store != nil {
		last, ok, err := r.store.LastRowDate(ctx, rt)
		if err != nil {
			return "", err
		}
		if ok {
			cutoff = last.Format(types.ReportDateLayout)
			r.logger.Info("resuming from history",
				slog.String("report_type", rt.String()),
				slog.String("cutoff", cutoff))
		}
	}
	if cutoff == "" {
		return "", fmt.Errorf("%w for %s: set cutoff or record a run first", ErrNoCutoff, rt)
	}
	if _, err := normalize.ParseCutoff(cutoff); err != nil {
		return "", err
	}
	return cutoff, nil
}

func (r *Runner) generate(ctx context.Context, rt types.ReportType, inputPath, sourceURL, cutoff string) (types.RunRecord, error) {
	gen, err := NewGenerator(inputPath, rt.String(), r.logger)
	if err != nil {
		return types.RunRecord{}, err
	}
	sum, err := gen.Generate(r.outputDir, cutoff)
	if err != nil {
		return types.RunRecord{}, err
	}

	c, _ := normalize.ParseCutoff(cutoff)
	rec := types.RunRecord{
		ReportType:  rt,
		SourceURL:   sourceURL,
		InputPath:   inputPath,
		OutputPath:  sum.OutputPath,
		Cutoff:      c,
		LastRowDate: sum.Result.LastDate,
		Stats:       sum.Result.Stats,
		RanAt:       r.now().UTC(),
	}

	if r.store != nil {
		if rec, err = r.store.Record(ctx, rec); err != nil {
			return rec, fmt.Errorf("recording run: %w", err)
		}
	}
	if err := writeManifest(rec, ManifestPath(rt, r.outputDir)); err != nil {
		return rec, fmt.Errorf("writing manifest for %s: %w", rt, err)
	}

	fmt.Fprintf(r.out, "Output file has been generated at: %s (%d rows, %d skipped)\n",
		sum.OutputPath, rec.Stats.Emitted, rec.Stats.Skipped())
	return rec, nil
}

// ManifestPath returns outputDir/<report_type>.yaml.
func ManifestPath(rt types.ReportType, outputDir string) string {
	return filepath.Join(outputDir, rt.String()+".yaml")
}

func writeManifest(rec types.RunRecord, path string) error {
	data, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	return fsutil.WriteFileAtomic(path, data)
}

// ReadManifest loads a manifest written by a previous run.
func ReadManifest(path string) (types.RunRecord, error) {
	var rec types.RunRecord
	data, err := os.ReadFile(path)
	if err != nil {
		return rec, err
	}
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return rec, nil
}
