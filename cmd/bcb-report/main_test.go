// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bcb-report/pkg/types"
)

func newTestViper(t *testing.T, yamlConfig string) *viper.Viper {
	t.Helper()
	v := viper.New()
	setDefaults(v, types.DefaultConfig())
	if yamlConfig != "" {
		path := filepath.Join(t.TempDir(), "bcb-report.yaml")
		require.NoError(t, os.WriteFile(path, []byte(yamlConfig), 0o644))
		v.SetConfigFile(path)
		require.NoError(t, v.ReadInConfig())
	}
	return v
}

func TestDecodeConfig_Defaults(t *testing.T) {
	cfg, err := decodeConfig(newTestViper(t, ""))
	require.NoError(t, err)

	assert.Equal(t, types.DefaultConfig(), cfg)
}

func TestDecodeConfig_JobsReplaceDefaults(t *testing.T) {
	cfg, err := decodeConfig(newTestViper(t, `
http:
  timeout: 5s
  max_retries: 2
output_dir: out
jobs:
  - name: position-only
    url: https://example.com/ie5-26i.xlsx
    file_name: in.xlsx
    report_type: foreign_exchange_position_report
    since_last: true
`))
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 2, cfg.HTTP.MaxRetries)
	assert.Equal(t, types.DefaultUserAgent, cfg.HTTP.UserAgent)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, "data/downloads", cfg.DownloadDir)
	require.Len(t, cfg.Jobs, 1)
	assert.Equal(t, "position-only", cfg.Jobs[0].Name)
	assert.True(t, cfg.Jobs[0].SinceLast)
	assert.Empty(t, cfg.Jobs[0].Cutoff)
}

func TestSelectJobs(t *testing.T) {
	jobs := types.DefaultJobs()

	all, err := selectJobs(jobs, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	one, err := selectJobs(jobs, []string{"position"})
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, string(types.PositionReport), one[0].ReportType)

	_, err = selectJobs(jobs, []string{"missing"})
	assert.ErrorContains(t, err, `no job named "missing"`)
}

func TestFileNameFromURL(t *testing.T) {
	name, err := fileNameFromURL("http://www.bcb.gov.br/pec/Indeco/Ingl/ie5-24i.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "ie5-24i.xlsx", name)

	_, err = fileNameFromURL("http://www.bcb.gov.br/")
	assert.Error(t, err)
}

func TestFormatHistory(t *testing.T) {
	runs := []types.RunRecord{{
		ID:          3,
		ReportType:  types.TransactionReport,
		Cutoff:      time.Date(2017, 12, 22, 0, 0, 0, 0, time.UTC),
		LastRowDate: time.Date(2018, 1, 3, 0, 0, 0, 0, time.UTC),
		Stats:       types.RowStats{Scanned: 10, Emitted: 2, Untouched: 3, NotAfterCutoff: 5},
		RanAt:       time.Date(2018, 1, 4, 9, 30, 0, 0, time.UTC),
	}}

	var buf bytes.Buffer
	require.NoError(t, formatHistory(&buf, runs, "table"))
	out := buf.String()
	assert.Contains(t, out, "12/22/2017")
	assert.Contains(t, out, "01/03/2018")
	assert.Contains(t, out, "2018-01-04 09:30:00")
	assert.Contains(t, out, "1 runs")

	buf.Reset()
	require.NoError(t, formatHistory(&buf, runs, "yaml"))
	assert.True(t, strings.Contains(buf.String(), "report_type: foreign_exchange_transaction_report"))

	buf.Reset()
	require.NoError(t, formatHistory(&buf, nil, "table"))
	assert.Equal(t, "No runs recorded.\n", buf.String())

	assert.Error(t, formatHistory(&buf, runs, "csv"))
}
