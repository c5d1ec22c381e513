package models

import "fmt"

// ReportKind selects one of the export documents the backend can render.
type ReportKind string

const (
	ReportPDFLong  ReportKind = "pdf_long"
	ReportPDFShort ReportKind = "pdf_short"
	ReportMap      ReportKind = "map"
	ReportExcel    ReportKind = "excel"
)

var reportFileNames = map[ReportKind]string{
	ReportPDFLong:  "HMPI_Long_Report.pdf",
	ReportPDFShort: "HMPI_Short_Report.pdf",
	ReportMap:      "HMPI_Map.pdf",
	ReportExcel:    "HMPI_Data.xlsx",
}

// ReportKinds lists the supported kinds in display order.
func ReportKinds() []ReportKind {
	return []ReportKind{ReportPDFLong, ReportPDFShort, ReportMap, ReportExcel}
}

// ParseReportKind validates a user supplied kind.
func ParseReportKind(s string) (ReportKind, error) {
	k := ReportKind(s)
	if _, ok := reportFileNames[k]; !ok {
		return "", fmt.Errorf("unknown report kind %q", s)
	}
	return k, nil
}

// FileName is the name the downloaded document is saved under.
func (k ReportKind) FileName() string {
	return reportFileNames[k]
}

// PredictionsCSVName is the file name of the predictions export.
const PredictionsCSVName = "future_hmpi_predictions_2026.csv"

// ProcessedCSVName returns the file name of a processed dataset download.
func ProcessedCSVName(fileID string) string {
	return fmt.Sprintf("processed_data_%s.csv", fileID)
}
