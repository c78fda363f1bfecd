// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the bcb-report CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/bcb-report/internal/logging"
	"github.com/pdiddy/bcb-report/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is configured from the loaded config before any subcommand runs.
var logger = slog.Default()

// rootCmd is the base command for the bcb-report CLI.
var rootCmd = &cobra.Command{
	Use:   "bcb-report",
	Short: "Generate foreign exchange reports from Banco Central do Brasil tables",
	Long: `bcb-report downloads the BCB foreign exchange spreadsheets, rebuilds a
date for every row from the run-length-encoded year and month columns,
keeps the rows newer than a cutoff date and writes a reformatted workbook
with renamed columns.

Jobs are read from bcb-report.yaml; without a config file the two standard
reports (foreign exchange transactions and foreign exchange position) run.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		l, err := logging.New(cfg.Logging, os.Stderr)
		if err != nil {
			return err
		}
		logger = l
		slog.SetDefault(l)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./bcb-report.yaml or ~/.config/bcb-report/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("download-dir", "", "directory for downloaded source workbooks")
	rootCmd.PersistentFlags().String("output-dir", "", "directory for generated reports")

	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("download_dir", rootCmd.PersistentFlags().Lookup("download-dir"))
	viper.BindPFlag("output_dir", rootCmd.PersistentFlags().Lookup("output-dir"))

	setDefaults(viper.GetViper(), types.DefaultConfig())
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("bcb-report")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "bcb-report"))
		}
	}

	viper.SetEnvPrefix("BCB_REPORT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every scalar setting so env overrides apply to
// keys absent from the config file. Jobs default in loadConfig.
func setDefaults(v *viper.Viper, cfg types.Config) {
	v.SetDefault("http.timeout", cfg.HTTP.Timeout)
	v.SetDefault("http.user_agent", cfg.HTTP.UserAgent)
	v.SetDefault("http.max_retries", cfg.HTTP.MaxRetries)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("history.enabled", cfg.History.Enabled)
	v.SetDefault("history.path", cfg.History.Path)
	v.SetDefault("download_dir", cfg.DownloadDir)
	v.SetDefault("output_dir", cfg.OutputDir)
}

// loadConfig decodes the merged global viper settings into a Config.
func loadConfig() (types.Config, error) {
	return decodeConfig(viper.GetViper())
}

// decodeConfig decodes v into a zero Config so configured jobs replace the
// defaults instead of merging into them.
func decodeConfig(v *viper.Viper) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	if len(cfg.Jobs) == 0 {
		cfg.Jobs = types.DefaultJobs()
	}
	return cfg, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
