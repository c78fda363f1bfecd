// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/bcb-report/internal/history"
	"github.com/pdiddy/bcb-report/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded report runs",
	Long: `History lists the runs recorded in the SQLite history database, newest
first. Filter by --type; print YAML or JSON with --format.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().String("type", "", "only list runs of this report type")
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list (0 for all)")
	historyCmd.Flags().String("format", "table", "output format: table, yaml or json")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return fmt.Errorf("history is disabled: set history.enabled in the config")
	}

	var rt types.ReportType
	if s, _ := cmd.Flags().GetString("type"); s != "" {
		if rt, err = types.ParseReportType(s); err != nil {
			return err
		}
	}
	limit, _ := cmd.Flags().GetInt("limit")
	format, _ := cmd.Flags().GetString("format")

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(cmd.Context(), rt, limit)
	if err != nil {
		return err
	}
	return formatHistory(cmd.OutOrStdout(), runs, format)
}

func formatHistory(w io.Writer, runs []types.RunRecord, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(runs)
	case "table", "":
	default:
		return fmt.Errorf("unsupported format %q: use table, yaml or json", format)
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-4s  %-20s  %-22s  %-10s  %-10s  %7s  %7s\n",
		"ID", "Ran at", "Report", "Cutoff", "Last row", "Rows", "Skipped")
	fmt.Fprintln(w, strings.Repeat("-", 92))

	for _, r := range runs {
		rt := r.ReportType.String()
		if len(rt) > 22 {
			rt = rt[:19] + "..."
		}
		last := "-"
		if !r.LastRowDate.IsZero() {
			last = r.LastRowDate.Format(types.ReportDateLayout)
		}
		fmt.Fprintf(w, "%-4d  %-20s  %-22s  %-10s  %-10s  %7d  %7d\n",
			r.ID, r.RanAt.Format("2006-01-02 15:04:05"), rt,
			r.Cutoff.Format(types.ReportDateLayout), last,
			r.Stats.Emitted, r.Stats.Skipped())
	}

	fmt.Fprintf(w, "\n%d runs\n", len(runs))
	return nil
}
