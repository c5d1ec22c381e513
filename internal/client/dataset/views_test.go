package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/hmpi/internal/client/models"
)

func f(v float64) *float64 { return &v }

func TestRisk(t *testing.T) {
	tests := []struct {
		hmpi  float64
		want  RiskCategory
		color string
	}{
		{0, RiskSafe, "#22c55e"},
		{60, RiskSafe, "#22c55e"},
		{60.01, RiskModerate, "#eab308"},
		{100, RiskModerate, "#eab308"},
		{100.5, RiskHigh, "#ef4444"},
	}
	for _, tt := range tests {
		got := Risk(tt.hmpi)
		assert.Equal(t, tt.want, got, "hmpi=%v", tt.hmpi)
		assert.Equal(t, tt.color, got.Color())
	}
}

func TestMarkers(t *testing.T) {
	ds := &models.Dataset{Samples: []models.Sample{
		{
			ID:       "W-1",
			HMPI:     f(150),
			Metals:   map[string]float64{"Lead": 0.2, "Zinc": 0},
			Geometry: &models.Geometry{Type: "Point", Coordinates: [2]*float64{f(77), f(28)}},
		},
		{
			Metals: map[string]float64{"Lead": 30, "Arsenic": 40},
		},
		{
			ID:       "W-3",
			HMPI:     f(0),
			Metals:   map[string]float64{"Copper": 1},
			Geometry: &models.Geometry{Type: "Point", Coordinates: [2]*float64{nil, f(1)}},
		},
	}}

	markers := Markers(ds)
	require.Len(t, markers, 3)

	assert.Equal(t, "W-1", markers[0].SampleID)
	assert.InDelta(t, 150, markers[0].HMPI, 1e-9)
	assert.Equal(t, 1, markers[0].MetalCount)
	assert.Equal(t, RiskHigh, markers[0].Risk)
	assert.True(t, markers[0].Located)
	assert.InDelta(t, 77, markers[0].Longitude, 1e-9)

	assert.Equal(t, "Sample_2", markers[1].SampleID)
	assert.InDelta(t, 70, markers[1].HMPI, 1e-9)
	assert.Equal(t, RiskModerate, markers[1].Risk)
	assert.False(t, markers[1].Located)

	assert.InDelta(t, 1, markers[2].HMPI, 1e-9)
	assert.False(t, markers[2].Located)

	assert.Equal(t, map[RiskCategory]int{RiskSafe: 1, RiskModerate: 1, RiskHigh: 1}, Distribution(markers))
}

func TestMarkers_Nil(t *testing.T) {
	assert.Nil(t, Markers(nil))
	assert.Equal(t, map[RiskCategory]int{RiskSafe: 0, RiskModerate: 0, RiskHigh: 0}, Distribution(nil))
}

func TestMetalsAndFind(t *testing.T) {
	ds := &models.Dataset{Samples: []models.Sample{
		{ID: "a", Metals: map[string]float64{"Zinc": 1, "Lead": 2}},
		{ID: "b", Metals: map[string]float64{"Arsenic": 1, "Lead": 2}},
	}}

	assert.Equal(t, []string{"Arsenic", "Lead", "Zinc"}, Metals(ds))

	s, ok := Find(ds, "b")
	require.True(t, ok)
	assert.Equal(t, "b", s.ID)

	_, ok = Find(ds, "zzz")
	assert.False(t, ok)
}

func TestFind_PositionalNames(t *testing.T) {
	ds := &models.Dataset{Samples: []models.Sample{
		{ID: "W-1"},
		{Metals: map[string]float64{"Lead": 0.2}},
		{ID: "Sample_1"},
	}}

	markers := Markers(ds)
	require.Len(t, markers, 3)
	assert.Equal(t, "Sample_2", markers[1].SampleID)

	s, ok := Find(ds, markers[1].SampleID)
	require.True(t, ok)
	assert.Equal(t, "Sample_2", s.ID)
	assert.Equal(t, 0.2, s.Metals["Lead"])
	assert.Empty(t, ds.Samples[1].ID)

	s, ok = Find(ds, "Sample_1")
	require.True(t, ok)
	assert.Empty(t, s.Metals)

	_, ok = Find(ds, "Sample_3")
	assert.False(t, ok)
}

func TestExceedances(t *testing.T) {
	s := models.Sample{Metals: map[string]float64{
		"Lead":      0.1,
		"Copper":    1,
		"Manganese": 5,
	}}

	got := Exceedances(s)
	require.Len(t, got, 2)

	assert.Equal(t, "Copper", got[0].Metal)
	assert.False(t, got[0].Exceeded)
	assert.InDelta(t, 0.5, got[0].Ratio, 1e-9)

	assert.Equal(t, "Lead", got[1].Metal)
	assert.True(t, got[1].Exceeded)
	assert.InDelta(t, 2.0, got[1].Ratio, 1e-9)
}
