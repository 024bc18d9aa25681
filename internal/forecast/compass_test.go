package forecast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompassPoint(t *testing.T) {
	tests := []struct {
		bearing float64
		want    int
	}{
		{0, 0},
		{22.4, 0},
		{22.5, 1},
		{45, 1},
		{90, 2},
		{135, 3},
		{180, 4},
		{225, 5},
		{270, 6},
		{315, 7},
		{337.4, 7},
		{337.5, 0},
		{359, 0},
		{360, 0},
		{720 + 90, 2},
		{-45, 7},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CompassPoint(tt.bearing), "bearing %v", tt.bearing)
	}
}

func TestCompassPointIsTotal(t *testing.T) {
	seen := make(map[int]int)
	for deg := 0; deg < 360; deg++ {
		p := CompassPoint(float64(deg))
		assert.GreaterOrEqual(t, p, 0)
		assert.Less(t, p, 8)
		seen[p]++
	}
	assert.Len(t, seen, 8)
	for p, n := range seen {
		assert.InDelta(t, 45, n, 1, "sector %d", p)
	}
}
