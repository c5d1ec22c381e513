package models

// PredictionPoint is one forecast row from GET /predictions/data.
type PredictionPoint struct {
	Date      string  `json:"date"`
	SampleID  string  `json:"sample_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	ARIMA     float64 `json:"arima"`
	SVM       float64 `json:"svm"`
	Ensemble  float64 `json:"ensemble"`
}

type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type PredictionMetadata struct {
	Models       []string  `json:"models"`
	SamplesCount int       `json:"samples_count"`
	DateRange    DateRange `json:"date_range"`
}

type PredictionData struct {
	Predictions []PredictionPoint  `json:"predictions"`
	Metadata    PredictionMetadata `json:"metadata"`
}

// ComparisonPoint aggregates all samples of one forecast date.
type ComparisonPoint struct {
	Date         string  `json:"date"`
	ARIMAMean    float64 `json:"arima_mean"`
	ARIMAStd     float64 `json:"arima_std"`
	SVMMean      float64 `json:"svm_mean"`
	SVMStd       float64 `json:"svm_std"`
	EnsembleMean float64 `json:"ensemble_mean"`
	EnsembleStd  float64 `json:"ensemble_std"`
}

type ModelStats struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

type Comparison struct {
	MonthlyData  []ComparisonPoint     `json:"monthly_data"`
	OverallStats map[string]ModelStats `json:"overall_stats"`
}

type SpatialProperties struct {
	SampleID       string  `json:"sample_id"`
	EnsembleAvg    float64 `json:"ensemble_avg"`
	EnsembleLatest float64 `json:"ensemble_latest"`
	ARIMALatest    float64 `json:"arima_latest"`
	SVMLatest      float64 `json:"svm_latest"`
	RiskCategory   string  `json:"risk_category"`
	Color          string  `json:"color"`
	Trend          string  `json:"trend"`
}

type SpatialFeature struct {
	Type     string `json:"type"`
	Geometry struct {
		Type        string     `json:"type"`
		Coordinates [2]float64 `json:"coordinates"`
	} `json:"geometry"`
	Properties SpatialProperties `json:"properties"`
}

type Spatial struct {
	Type       string           `json:"type"`
	Features   []SpatialFeature `json:"features"`
	LatestDate string           `json:"latest_date"`
}

// ClusterZone is a group of nearby samples with a shared risk level.
type ClusterZone struct {
	ClusterID    int          `json:"cluster_id"`
	AvgHMPI      float64      `json:"avg_hmpi"`
	RiskCategory string       `json:"risk_category"`
	Color        string       `json:"color"`
	Points       [][2]float64 `json:"points"`
}

type Clusters struct {
	Clusters []ClusterZone `json:"clusters"`
}

type TrendPoint struct {
	Date     string  `json:"date"`
	ARIMA    float64 `json:"arima"`
	SVM      float64 `json:"svm"`
	Ensemble float64 `json:"ensemble"`
}

type SampleTrend struct {
	SampleID string       `json:"sample_id"`
	Trend    []TrendPoint `json:"trend"`
}

// PredictionBundle is everything the predictions view loads at once.
type PredictionBundle struct {
	Data       PredictionData
	Comparison Comparison
	Spatial    Spatial
	Clusters   Clusters
}
