package tokens

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequired_KnownValues(t *testing.T) {
	tests := []struct {
		rows int
		want int
	}{
		{rows: -10, want: 0},
		{rows: 0, want: 0},
		{rows: 1, want: 0},
		{rows: 50, want: 0},
		{rows: 51, want: 3},
		{rows: 55, want: 3},
		{rows: 56, want: 5},
		{rows: 60, want: 5},
		{rows: 100, want: 25},
		{rows: 200, want: 75},
		{rows: 500, want: 225},
		{rows: 1000, want: 475},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Required(tt.rows), "rows=%d", tt.rows)
	}
}

func TestRequired_MatchesFloatFormula(t *testing.T) {
	for rows := 51; rows <= 5000; rows++ {
		k := math.Ceil(float64(rows-50) / 5)
		want := int(math.Ceil(2.5 * k))
		if got := Required(rows); got != want {
			t.Fatalf("rows=%d: got %d, want %d", rows, got, want)
		}
	}
}

func TestRequired_Monotonic(t *testing.T) {
	prev := Required(0)
	for rows := 1; rows <= 5000; rows++ {
		cur := Required(rows)
		if cur < prev {
			t.Fatalf("not monotonic at rows=%d: %d < %d", rows, cur, prev)
		}
		prev = cur
	}
}

func TestDeficit(t *testing.T) {
	assert.Equal(t, 3, Deficit(0, 3))
	assert.Equal(t, 0, Deficit(3, 3))
	assert.Equal(t, 0, Deficit(10, 3))
	assert.Equal(t, 0, Deficit(5, 0))
}
