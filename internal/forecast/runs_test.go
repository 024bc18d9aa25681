package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGroupRuns(t *testing.T) {
	tests := []struct {
		name string
		in   []int
		want [][]int
	}{
		{"empty", nil, nil},
		{"single", []int{7}, [][]int{{7}}},
		{"one run", []int{1, 2, 3}, [][]int{{1, 2, 3}}},
		{"three hour grid", []int{0, 3, 6}, [][]int{{0}, {3}, {6}}},
		{"no wrap at midnight", []int{20, 21, 22, 0, 3}, [][]int{{20, 21, 22}, {0}, {3}}},
		{"duplicates stay in run", []int{3, 3, 4}, [][]int{{3, 3, 4}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GroupRuns(tt.in))
		})
	}
}

func TestGroupRunsIdempotentOnSingleRun(t *testing.T) {
	once := GroupRuns([]uint8{9, 10, 11, 12})
	assert.Len(t, once, 1)
	assert.Equal(t, once, GroupRuns(once[0]))
}

func TestPrecipWindows(t *testing.T) {
	day := func(h int) time.Time { return time.Date(2024, time.May, 3, h, 0, 0, 0, time.UTC) }

	assert.Nil(t, PrecipWindows(nil))
	assert.Equal(t, []string{"00:00–03:00", "03:00–06:00"},
		PrecipWindows([]time.Time{day(3), day(0)}))
	assert.Equal(t, []string{"06:00–11:00"},
		PrecipWindows([]time.Time{day(8), day(6), day(7)}))
	assert.Equal(t, []string{"21:00–00:00"},
		PrecipWindows([]time.Time{day(21)}))

	merged := PrecipWindows([]time.Time{day(12), day(13)})
	assert.Equal(t, merged, PrecipWindows([]time.Time{day(13), day(12)}))
}
