package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/hmpi/internal/flagx"
	"github.com/dmitrijs2005/hmpi/internal/timex"
)

// jsonConfig mirrors Config for the JSON file. Durations use timex.Duration
// so they can be written as "30s" or as nanoseconds. Absent keys keep the
// earlier value.
type jsonConfig struct {
	BackendURL        *string         `json:"backend_url"`
	ReportBaseURL     *string         `json:"report_base_url"`
	DatabasePath      *string         `json:"database_path"`
	DownloadDir       *string         `json:"download_dir"`
	RequestTimeout    *timex.Duration `json:"request_timeout"`
	SyncTimeout       *timex.Duration `json:"sync_timeout"`
	ReconcileInterval *timex.Duration `json:"reconcile_interval"`
	LogLevel          *string         `json:"log_level"`
	LogFormat         *string         `json:"log_format"`
	S3Bucket          *string         `json:"s3_bucket"`
	S3Region          *string         `json:"s3_region"`
	S3BaseEndpoint    *string         `json:"s3_base_endpoint"`
	S3AccessKey       *string         `json:"s3_access_key"`
	S3SecretKey       *string         `json:"s3_secret_key"`
}

func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.BackendURL, jc.BackendURL)
	setString(&cfg.ReportBaseURL, jc.ReportBaseURL)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.DownloadDir, jc.DownloadDir)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)

	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.SyncTimeout != nil {
		cfg.SyncTimeout = jc.SyncTimeout.Duration
	}
	if jc.ReconcileInterval != nil {
		cfg.ReconcileInterval = jc.ReconcileInterval.Duration
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
