// Package config loads runtime configuration for the hmpi CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// # JSON schema
//
// Durations accept strings like "30s" or integer nanoseconds. Missing keys
// keep their defaults.
//
//	{
//	  "backend_url": "http://127.0.0.1:5000",
//	  "report_base_url": "http://127.0.0.1:5001",
//	  "database_path": "hmpi.db",
//	  "download_dir": "downloads",
//	  "request_timeout": "60s",
//	  "sync_timeout": "5s",
//	  "reconcile_interval": "30s",
//	  "log_level": "info",
//	  "log_format": "text",
//	  "s3_bucket": "reports",
//	  "s3_region": "us-east-1",
//	  "s3_base_endpoint": "http://127.0.0.1:9000",
//	  "s3_access_key": "minio",
//	  "s3_secret_key": "minio123"
//	}
package config
