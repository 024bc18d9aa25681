// Package forecast turns an unordered set of forecast samples into per-day
// night/day summaries and renders them as a multi-day message.
package forecast

import (
	"errors"
	"fmt"
	"time"

	"github.com/i474232898/weather-forecast-bot/internal/common"
	"github.com/i474232898/weather-forecast-bot/internal/weather"
)

// Hour boundaries that split a date into its night and day halves.
const (
	dayStartHour = 6
	dayEndHour   = 20
)

// Config is the fixed configuration shared by Bucketize and Render.
type Config struct {
	Location       *time.Location
	NightHour      int
	DayHour        int
	Days           int
	PrecipKeywords []string
}

// DefaultConfig returns the reference hours and day count used by the channel.
func DefaultConfig(loc *time.Location) Config {
	return Config{
		Location:  loc,
		NightHour: 3,
		DayHour:   15,
		Days:      5,
	}
}

// ErrOffGrid reports a reference hour that a provider's sample grid never hits.
var ErrOffGrid = errors.New("reference hour is off the provider sample grid")

// CheckGrid verifies that every reference hour, read in loc, falls on a grid
// of samples spaced step apart from midnight UTC, on every date of year.
func CheckGrid(loc *time.Location, step time.Duration, year int, hours ...int) error {
	if loc == nil {
		loc = time.UTC
	}
	stepSec := int64(step / time.Second)
	if stepSec <= 0 {
		return nil
	}
	for d := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC); d.Year() == year; d = d.AddDate(0, 0, 1) {
		for _, h := range hours {
			t := time.Date(d.Year(), d.Month(), d.Day(), h, 0, 0, 0, loc)
			if t.Unix()%stepSec != 0 {
				return fmt.Errorf("%w: %02d:00 on %s in %s", ErrOffGrid, h, DateOf(d), loc)
			}
		}
	}
	return nil
}

// Date is a calendar date without a time of day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in its own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// AddDays returns the date n days after d.
func (d Date) AddDays(n int) Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC))
}

// Weekday returns the day of the week for d.
func (d Date) Weekday() time.Weekday {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Weekday()
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// DayBucket aggregates the samples of one calendar date.
type DayBucket struct {
	Date  Date
	Night *weather.Sample
	Day   *weather.Sample

	// RainNight holds precipitation timestamps from the night preceding Date
	// (20:00 of the previous date through 05:59); RainDay covers 06:00-19:59.
	RainNight []time.Time
	RainDay   []time.Time

	// Samples counts the samples whose local date is Date.
	Samples int
}

// MissingRepresentative reports whether the bucket received samples for its
// date but none of them landed on a reference hour.
func (b DayBucket) MissingRepresentative() bool {
	return b.Samples > 0 && (b.Night == nil || b.Day == nil)
}

// Window is an ordered run of exactly Config.Days consecutive dates.
type Window []DayBucket

// Bucketize groups samples by local calendar date and pads the result to
// cfg.Days dates starting at today. When several samples share a reference
// hour on the same date, the last one processed wins.
func Bucketize(samples []weather.Sample, today Date, cfg Config) Window {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	buckets := make(map[Date]*DayBucket)
	bucket := func(d Date) *DayBucket {
		b, ok := buckets[d]
		if !ok {
			b = &DayBucket{Date: d}
			buckets[d] = b
		}
		return b
	}

	for i := range samples {
		s := samples[i]
		local := s.Timestamp.In(loc)
		date := DateOf(local)
		hour := local.Hour()

		b := bucket(date)
		b.Samples++

		if hour == cfg.NightHour {
			b.Night = &s
		}
		if hour == cfg.DayHour {
			b.Day = &s
		}

		if !common.HasAny(s.Condition, cfg.PrecipKeywords...) {
			continue
		}
		switch {
		case hour >= dayEndHour:
			next := bucket(date.AddDays(1))
			next.RainNight = append(next.RainNight, local)
		case hour >= dayStartHour:
			b.RainDay = append(b.RainDay, local)
		default:
			b.RainNight = append(b.RainNight, local)
		}
	}

	days := cfg.Days
	if days < 0 {
		days = 0
	}
	window := make(Window, 0, days)
	for i := 0; i < days; i++ {
		d := today.AddDays(i)
		if b, ok := buckets[d]; ok {
			window = append(window, *b)
			continue
		}
		window = append(window, DayBucket{Date: d})
	}
	return window
}
