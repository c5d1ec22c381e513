package dataset

import (
	"sort"

	"github.com/dmitrijs2005/hmpi/internal/client/models"
)

// WHOLimits are drinking-water guideline values in mg/L.
var WHOLimits = map[string]float64{
	"Lead":     0.05,
	"Cadmium":  0.003,
	"Arsenic":  0.01,
	"Mercury":  0.006,
	"Chromium": 0.05,
	"Copper":   2,
	"Zinc":     3,
	"Nickel":   0.02,
}

// Exceedance compares one measured metal with its guideline value.
type Exceedance struct {
	Metal    string
	Measured float64
	Limit    float64
	Ratio    float64
	Exceeded bool
}

// Exceedances lists every metal of the sample that has a guideline value,
// sorted by name. Metals without a guideline are skipped.
func Exceedances(s models.Sample) []Exceedance {
	out := make([]Exceedance, 0, len(s.Metals))
	for metal, v := range s.Metals {
		limit, ok := WHOLimits[metal]
		if !ok {
			continue
		}
		out = append(out, Exceedance{
			Metal:    metal,
			Measured: v,
			Limit:    limit,
			Ratio:    v / limit,
			Exceeded: v > limit,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Metal < out[j].Metal })
	return out
}
