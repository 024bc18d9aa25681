package forecast

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-forecast-bot/internal/weather"
)

// threeHourly returns samples every 3h from midnight UTC, the OpenWeatherMap grid.
func threeHourly(from time.Time, n int) []weather.Sample {
	out := make([]weather.Sample, n)
	for i := range out {
		out[i] = sample(from.Add(time.Duration(i)*3*time.Hour), "clear sky")
	}
	return out
}

func TestCheckGrid(t *testing.T) {
	kyivTZ, err := time.LoadLocation("Europe/Kyiv")
	require.NoError(t, err)

	assert.NoError(t, CheckGrid(time.UTC, 3*time.Hour, 2024, 3, 15))
	assert.NoError(t, CheckGrid(kyivTZ, time.Hour, 2024, 3, 15))
	assert.ErrorIs(t, CheckGrid(kyivTZ, 3*time.Hour, 2024, 3, 15), ErrOffGrid)
	assert.ErrorIs(t, CheckGrid(time.UTC, 3*time.Hour, 2024, 4), ErrOffGrid)
}

func TestDefaultHoursHitThreeHourGridAllYear(t *testing.T) {
	cfg := DefaultConfig(time.UTC)
	cfg.Days = 4
	for _, month := range []time.Month{time.January, time.April, time.July, time.October} {
		start := time.Date(2024, month, 10, 0, 0, 0, 0, time.UTC)
		w := Bucketize(threeHourly(start, 40), DateOf(start), cfg)
		for _, b := range w {
			assert.NotNil(t, b.Night, "%s night", b.Date)
			assert.NotNil(t, b.Day, "%s day", b.Date)
			assert.False(t, b.MissingRepresentative())
		}
	}
}

func TestWinterOffsetMissesThreeHourGrid(t *testing.T) {
	kyivTZ, err := time.LoadLocation("Europe/Kyiv")
	require.NoError(t, err)

	cfg := DefaultConfig(kyivTZ)
	cfg.Days = 4
	start := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	w := Bucketize(threeHourly(start, 40), DateOf(start.In(kyivTZ)), cfg)
	assert.True(t, w[1].MissingRepresentative())
}
