// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/url"
	"path"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bcb-report/pkg/types"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a single report from a URL or a local workbook",
	Long: `Report runs one job described by flags. With --url the workbook is
downloaded first; with --input an already-downloaded workbook is used.
--since-last resumes from the latest row date recorded in history.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().String("type", "", "report type: foreign_exchange_transaction_report or foreign_exchange_position_report")
	reportCmd.Flags().String("url", "", "source workbook URL")
	reportCmd.Flags().String("input", "", "local source workbook (skips download)")
	reportCmd.Flags().String("file-name", "", "local name for the downloaded workbook (default: last URL path segment)")
	reportCmd.Flags().String("cutoff", "", "exclusive lower bound date, MM/DD/YYYY")
	reportCmd.Flags().Bool("since-last", false, "use the latest recorded row date as the cutoff")
	reportCmd.MarkFlagRequired("type")
	reportCmd.MarkFlagsMutuallyExclusive("url", "input")
	reportCmd.MarkFlagsOneRequired("url", "input")

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reportType, _ := cmd.Flags().GetString("type")
	sourceURL, _ := cmd.Flags().GetString("url")
	input, _ := cmd.Flags().GetString("input")
	fileName, _ := cmd.Flags().GetString("file-name")
	cutoff, _ := cmd.Flags().GetString("cutoff")
	sinceLast, _ := cmd.Flags().GetBool("since-last")

	// Reject the type before touching the network or the history database.
	if _, err := types.ParseReportType(reportType); err != nil {
		return err
	}

	runner, closeRunner, err := newRunner(cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer closeRunner()

	if input != "" {
		_, err = runner.RunLocal(cmd.Context(), reportType, input, cutoff, sinceLast)
		return err
	}

	if fileName == "" {
		fileName, err = fileNameFromURL(sourceURL)
		if err != nil {
			return err
		}
	}
	job := types.ReportJob{
		URL:        sourceURL,
		FileName:   fileName,
		ReportType: reportType,
		Cutoff:     cutoff,
		SinceLast:  sinceLast,
	}
	_, err = runner.Run(cmd.Context(), job)
	return err
}

// fileNameFromURL returns the last path segment of rawURL.
func fileNameFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing url: %w", err)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return "", fmt.Errorf("cannot derive a file name from %q: use --file-name", rawURL)
	}
	return name, nil
}
