package models

import (
	"bytes"
	"encoding/json"
)

// SampleCharts holds serialized plot specs for one sample. Each field is a
// JSON document with "data" and "layout" keys, empty when not generated.
type SampleCharts struct {
	Bar   string `json:"bar,omitempty"`
	Pie   string `json:"pie,omitempty"`
	Radar string `json:"radar,omitempty"`
}

// UnmarshalJSON accepts each chart either as a JSON-encoded string or as an
// inline object.
func (c *SampleCharts) UnmarshalJSON(b []byte) error {
	var raw struct {
		Bar   json.RawMessage `json:"bar"`
		Pie   json.RawMessage `json:"pie"`
		Radar json.RawMessage `json:"radar"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var err error
	if c.Bar, err = chartSpec(raw.Bar); err != nil {
		return err
	}
	if c.Pie, err = chartSpec(raw.Pie); err != nil {
		return err
	}
	c.Radar, err = chartSpec(raw.Radar)
	return err
}

func chartSpec(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	return string(raw), nil
}

// Empty reports whether no chart was generated for the sample.
func (c SampleCharts) Empty() bool {
	return c.Bar == "" && c.Pie == "" && c.Radar == ""
}

// ChartSet is the GET /charts/:file_id response.
type ChartSet struct {
	SampleCharts map[string]SampleCharts `json:"sample_charts"`
}
