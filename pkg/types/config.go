package types

import "time"

// HTTPConfig holds settings for fetching source workbooks.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "bcb-report/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries is the number of retries on HTTP 429. Zero means a single
	// attempt.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is json or text (default text).
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// HistoryConfig controls the SQLite run ledger.
type HistoryConfig struct {
	// Enabled turns run recording on.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Path is the database file (e.g. "data/history.db").
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// ReportJob describes one download, normalize and write pipeline.
type ReportJob struct {
	// Name labels the job in output; defaults to the report type.
	Name string `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`

	// URL is the source workbook location.
	URL string `json:"url" yaml:"url" mapstructure:"url" validate:"required,url"`

	// FileName is the local name of the downloaded workbook.
	FileName string `json:"file_name" yaml:"file_name" mapstructure:"file_name" validate:"required,filename"`

	// ReportType is the report tag, see ReportType.
	ReportType string `json:"report_type" yaml:"report_type" mapstructure:"report_type" validate:"required"`

	// Cutoff is the exclusive lower bound, MM/DD/YYYY.
	Cutoff string `json:"cutoff" yaml:"cutoff" mapstructure:"cutoff" validate:"required_without=SinceLast"`

	// SinceLast uses the latest row date recorded in history as the cutoff,
	// falling back to Cutoff when no run has been recorded.
	SinceLast bool `json:"since_last,omitempty" yaml:"since_last,omitempty" mapstructure:"since_last"`
}

// Label returns Name, or the report type when Name is empty.
func (j ReportJob) Label() string {
	if j.Name != "" {
		return j.Name
	}
	return j.ReportType
}

// Config is the full CLI configuration.
type Config struct {
	HTTP    HTTPConfig    `json:"http" yaml:"http" mapstructure:"http"`
	Logging LoggingConfig `json:"logging" yaml:"logging" mapstructure:"logging"`
	History HistoryConfig `json:"history" yaml:"history" mapstructure:"history"`

	// DownloadDir receives fetched source workbooks.
	DownloadDir string `json:"download_dir" yaml:"download_dir" mapstructure:"download_dir"`

	// OutputDir receives generated reports and manifests.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	Jobs []ReportJob `json:"jobs" yaml:"jobs" mapstructure:"jobs"`
}

const (
	DefaultTimeout   = 60 * time.Second
	DefaultUserAgent = "bcb-report/0.1"
)

// DefaultJobs reproduces the two BCB foreign exchange reports.
func DefaultJobs() []ReportJob {
	return []ReportJob{
		{
			Name:       "transactions",
			URL:        "http://www.bcb.gov.br/pec/Indeco/Ingl/ie5-24i.xlsx",
			FileName:   "bcb_input_1.xlsx",
			ReportType: string(TransactionReport),
			Cutoff:     "12/22/2017",
		},
		{
			Name:       "position",
			URL:        "http://www.bcb.gov.br/pec/Indeco/Ingl/ie5-26i.xlsx",
			FileName:   "bcb_input_2.xlsx",
			ReportType: string(PositionReport),
			Cutoff:     "12/02/2017",
		},
	}
}

// DefaultConfig returns the configuration used when no file overrides it.
func DefaultConfig() Config {
	return Config{
		HTTP: HTTPConfig{
			Timeout:   DefaultTimeout,
			UserAgent: DefaultUserAgent,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    "data/history.db",
		},
		DownloadDir: "data/downloads",
		OutputDir:   "data/reports",
		Jobs:        DefaultJobs(),
	}
}
