package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds runtime settings of the hmpi CLI.
type Config struct {
	// BackendURL is the base URL of the processing backend.
	BackendURL string
	// ReportBaseURL serves /api/download_* reports. Empty means BackendURL.
	ReportBaseURL string

	DatabasePath string
	DownloadDir  string

	RequestTimeout    time.Duration
	SyncTimeout       time.Duration
	ReconcileInterval time.Duration

	LogLevel  string
	LogFormat string

	// S3 settings. Reports go to the bucket instead of DownloadDir when
	// S3Bucket is set.
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
}

// LoadDefaults populates c with defaults suitable for a local backend.
func (c *Config) LoadDefaults() {
	c.BackendURL = "http://127.0.0.1:5000"
	c.ReportBaseURL = ""
	c.DatabasePath = "hmpi.db"
	c.DownloadDir = "downloads"
	c.RequestTimeout = 60 * time.Second
	c.SyncTimeout = 5 * time.Second
	c.ReconcileInterval = 30 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.S3Region = "us-east-1"
}

// ReportURL is the base URL for report downloads.
func (c *Config) ReportURL() string {
	if c.ReportBaseURL != "" {
		return c.ReportBaseURL
	}
	return c.BackendURL
}

func (c *Config) validate() error {
	var errs []error
	if c.BackendURL == "" {
		errs = append(errs, errors.New("backend url is empty"))
	}
	if c.DatabasePath == "" {
		errs = append(errs, errors.New("database path is empty"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout))
	}
	if c.SyncTimeout <= 0 {
		errs = append(errs, fmt.Errorf("sync timeout must be positive, got %s", c.SyncTimeout))
	}
	if c.ReconcileInterval < 0 {
		errs = append(errs, fmt.Errorf("reconcile interval must not be negative, got %s", c.ReconcileInterval))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log format must be text or json, got %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

// LoadConfig builds a Config from defaults, then the JSON file named by -c or
// -config, then the remaining flags. Later sources win. args excludes the
// program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
