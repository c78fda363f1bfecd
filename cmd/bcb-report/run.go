// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bcb-report/internal/fetch"
	"github.com/pdiddy/bcb-report/internal/history"
	"github.com/pdiddy/bcb-report/internal/report"
	"github.com/pdiddy/bcb-report/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run [job names...]",
	Short: "Run every configured report job",
	Long: `Run executes the configured jobs one after another: download the source
workbook, keep the rows after the job cutoff and write the report. The
first failing job stops the run. Name jobs to run only those.`,
	RunE: runJobs,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runJobs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	jobs, err := selectJobs(cfg.Jobs, args)
	if err != nil {
		return err
	}

	runner, closeRunner, err := newRunner(cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer closeRunner()

	_, err = runner.RunAll(cmd.Context(), jobs)
	return err
}

// selectJobs returns the jobs whose label is in names, or all jobs.
func selectJobs(jobs []types.ReportJob, names []string) ([]types.ReportJob, error) {
	if len(names) == 0 {
		return jobs, nil
	}
	byLabel := make(map[string]types.ReportJob, len(jobs))
	for _, j := range jobs {
		byLabel[j.Label()] = j
	}
	selected := make([]types.ReportJob, 0, len(names))
	for _, n := range names {
		j, ok := byLabel[n]
		if !ok {
			return nil, fmt.Errorf("no job named %q", n)
		}
		selected = append(selected, j)
	}
	return selected, nil
}

// newRunner wires the fetcher and, when enabled, the history store. The
// returned func closes the store.
func newRunner(cfg types.Config, out io.Writer) (*report.Runner, func(), error) {
	client := &http.Client{Timeout: cfg.HTTP.Timeout}
	f := fetch.New(client, cfg.HTTP, logger)

	opts := []report.RunnerOption{
		report.WithLogger(logger),
		report.WithOutput(out),
	}
	closeFn := func() {}
	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, report.WithStore(store))
		closeFn = func() { store.Close() }
	}
	return report.NewRunner(f, cfg.DownloadDir, cfg.OutputDir, opts...), closeFn, nil
}
