package services

import "errors"

var (
	ErrNoDataset         = errors.New("no dataset processed yet")
	ErrChartsUnavailable = errors.New("charts unavailable for this sample")
	ErrDownloadFailed    = errors.New("download failed")
)
