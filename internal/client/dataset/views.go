// Package dataset reshapes processed samples into the rows shown by the
// map and table views: risk-coloured markers, risk distribution and WHO
// limit exceedances.
package dataset

import (
	"fmt"
	"sort"

	"github.com/dmitrijs2005/hmpi/internal/client/models"
)

// RiskCategory buckets an HMPI score.
type RiskCategory string

const (
	RiskSafe     RiskCategory = "Safe"
	RiskModerate RiskCategory = "Moderate"
	RiskHigh     RiskCategory = "High Risk"
)

const (
	safeLimit     = 60
	moderateLimit = 100
)

// Risk returns the category of an HMPI score: <=60 Safe, <=100 Moderate,
// above that High Risk.
func Risk(hmpi float64) RiskCategory {
	switch {
	case hmpi <= safeLimit:
		return RiskSafe
	case hmpi <= moderateLimit:
		return RiskModerate
	default:
		return RiskHigh
	}
}

// Color is the hex colour used to paint a category.
func (r RiskCategory) Color() string {
	switch r {
	case RiskSafe:
		return "#22c55e"
	case RiskModerate:
		return "#eab308"
	default:
		return "#ef4444"
	}
}

// Marker is a sample prepared for plotting.
type Marker struct {
	SampleID   string
	Longitude  float64
	Latitude   float64
	Located    bool
	HMPI       float64
	MetalCount int
	Risk       RiskCategory
	Metals     map[string]float64
}

// Markers converts the dataset into markers. A missing or zero HMPI falls
// back to the sum of metal concentrations, a missing id becomes
// "Sample_<n>" and a missing geometry the origin.
func Markers(ds *models.Dataset) []Marker {
	if ds == nil {
		return nil
	}
	out := make([]Marker, 0, len(ds.Samples))
	for i, s := range ds.Samples {
		m := Marker{SampleID: displayID(i, s), Metals: s.Metals}

		var sum float64
		for _, v := range s.Metals {
			sum += v
			if v > 0 {
				m.MetalCount++
			}
		}
		if s.HMPI != nil && *s.HMPI != 0 {
			m.HMPI = *s.HMPI
		} else {
			m.HMPI = sum
		}

		if s.Geometry != nil {
			lon, okLon := s.Geometry.Lon()
			lat, okLat := s.Geometry.Lat()
			m.Longitude, m.Latitude = lon, lat
			m.Located = okLon && okLat
		}

		m.Risk = Risk(m.HMPI)
		out = append(out, m)
	}
	return out
}

// Distribution counts markers per risk category.
func Distribution(markers []Marker) map[RiskCategory]int {
	d := map[RiskCategory]int{RiskSafe: 0, RiskModerate: 0, RiskHigh: 0}
	for _, m := range markers {
		d[m.Risk]++
	}
	return d
}

// Metals returns the sorted union of metal names present in the dataset.
func Metals(ds *models.Dataset) []string {
	if ds == nil {
		return nil
	}
	seen := make(map[string]struct{})
	for _, s := range ds.Samples {
		for metal := range s.Metals {
			seen[metal] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for metal := range seen {
		names = append(names, metal)
	}
	sort.Strings(names)
	return names
}

// displayID is the id a sample is listed under; samples without one are
// named by their 1-based position.
func displayID(i int, s models.Sample) string {
	if s.ID != "" {
		return s.ID
	}
	return fmt.Sprintf("Sample_%d", i+1)
}

// Find returns the sample listed under id, including the positional
// "Sample_<n>" names given to samples without an id. The returned sample
// carries that name. Explicit ids win over positional names.
func Find(ds *models.Dataset, id string) (models.Sample, bool) {
	if ds == nil {
		return models.Sample{}, false
	}
	for _, s := range ds.Samples {
		if s.ID == id {
			return s, true
		}
	}
	for i, s := range ds.Samples {
		if s.ID == "" && displayID(i, s) == id {
			s.ID = id
			return s, true
		}
	}
	return models.Sample{}, false
}
