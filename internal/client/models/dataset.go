package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Geometry is a GeoJSON point. Coordinates are (longitude, latitude); either
// may be missing when the uploaded row had no location.
type Geometry struct {
	Type        string      `json:"type"`
	Coordinates [2]*float64 `json:"coordinates"`
}

// Lon returns the longitude and whether it is present.
func (g Geometry) Lon() (float64, bool) { return deref(g.Coordinates[0]) }

// Lat returns the latitude and whether it is present.
func (g Geometry) Lat() (float64, bool) { return deref(g.Coordinates[1]) }

func deref(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

// Sample is one processed well reading returned by the backend.
type Sample struct {
	ID          string
	Geometry    *Geometry
	HMPI        *float64
	Metals      map[string]float64
	MetalCount  int
	HasLocation bool
}

type sampleJSON struct {
	SampleID    text              `json:"Sample_ID"`
	MetalCount  int               `json:"no_of_metals"`
	Metals      map[string]number `json:"all_metal_conc"`
	Geometry    *geometryJSON     `json:"geometry"`
	HasLocation *bool             `json:"latitudeandlongitudepresent"`
	HMPI        number            `json:"HMPI"`
}

type geometryJSON struct {
	Type        string   `json:"type"`
	Coordinates []number `json:"coordinates"`
}

func (s sampleJSON) toSample() Sample {
	out := Sample{
		ID:         string(s.SampleID),
		HMPI:       s.HMPI.ptr(),
		MetalCount: s.MetalCount,
		Metals:     make(map[string]float64, len(s.Metals)),
	}
	for metal, v := range s.Metals {
		if v.Valid {
			out.Metals[metal] = v.Value
		}
	}
	if s.Geometry != nil {
		g := &Geometry{Type: s.Geometry.Type}
		for i := 0; i < len(s.Geometry.Coordinates) && i < 2; i++ {
			g.Coordinates[i] = s.Geometry.Coordinates[i].ptr()
		}
		out.Geometry = g
	}
	if s.HasLocation != nil {
		out.HasLocation = *s.HasLocation
	} else if out.Geometry != nil {
		_, okLon := out.Geometry.Lon()
		_, okLat := out.Geometry.Lat()
		out.HasLocation = okLon && okLat
	}
	return out
}

type featureJSON struct {
	sampleJSON
	Properties *sampleJSON `json:"properties"`
}

type collectionJSON struct {
	Features []featureJSON `json:"features"`
}

// ParseSamples decodes the backend GeoJSON payload. It accepts a bare array
// of sample records or a FeatureCollection whose features carry the sample
// fields either inline or under "properties".
func ParseSamples(raw json.RawMessage) ([]Sample, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []Sample{}, nil
	}

	var features []featureJSON
	switch raw[0] {
	case '[':
		if err := json.Unmarshal(raw, &features); err != nil {
			return nil, fmt.Errorf("decode samples: %w", err)
		}
	case '{':
		var fc collectionJSON
		if err := json.Unmarshal(raw, &fc); err != nil {
			return nil, fmt.Errorf("decode feature collection: %w", err)
		}
		features = fc.Features
	default:
		return nil, fmt.Errorf("decode samples: unexpected payload %q", raw[:1])
	}

	samples := make([]Sample, 0, len(features))
	for _, f := range features {
		rec := f.sampleJSON
		if f.Properties != nil {
			rec = *f.Properties
			if rec.Geometry == nil {
				rec.Geometry = f.Geometry
			}
		}
		samples = append(samples, rec.toSample())
	}
	return samples, nil
}

// Dataset is the set of processed samples of the last successful upload.
type Dataset struct {
	FileID   string
	RowCount int
	Samples  []Sample

	// Raw keeps the payload as received so it can be persisted verbatim.
	Raw json.RawMessage
}

// ProcessResult is the backend answer to a successful POST /process.
type ProcessResult struct {
	FileID          string
	RowCount        int
	TokensUsed      int
	NewTokenBalance *int
	Dataset         *Dataset
}

type processJSON struct {
	FileID          string          `json:"file_id"`
	GeoJSON         json.RawMessage `json:"GeoJSON"`
	RowCount        int             `json:"row_count"`
	TokensUsed      int             `json:"tokens_used"`
	NewTokenBalance *int            `json:"new_token_balance"`
}

// DecodeProcessResult parses the POST /process response body.
func DecodeProcessResult(b []byte) (*ProcessResult, error) {
	var p processJSON
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("decode process response: %w", err)
	}
	samples, err := ParseSamples(p.GeoJSON)
	if err != nil {
		return nil, err
	}
	return &ProcessResult{
		FileID:          p.FileID,
		RowCount:        p.RowCount,
		TokensUsed:      p.TokensUsed,
		NewTokenBalance: p.NewTokenBalance,
		Dataset: &Dataset{
			FileID:   p.FileID,
			RowCount: p.RowCount,
			Samples:  samples,
			Raw:      p.GeoJSON,
		},
	}, nil
}
